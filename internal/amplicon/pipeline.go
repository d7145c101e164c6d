// Package amplicon defines the built-in QIIME2 paired-end amplicon pipeline:
// read import, denoising, phylogeny, taxonomy, and diversity analysis, each
// as an artifact-gated external tool invocation.
package amplicon

import (
	"path/filepath"
	"strconv"

	"github.com/ampliflow/ampliflow/pkg/models"
)

// DefaultSamplingDepth is the rarefaction depth used for core diversity
// metrics when none is given. Inspect the feature-table summary and adjust
// per study.
const DefaultSamplingDepth = 10000

// Tool is the external program every step of this pipeline invokes.
const Tool = "qiime"

// Config carries the per-study resources and parameters of the pipeline.
type Config struct {
	WorkDir       string // all produced artifacts live under here
	Manifest      string // paired-end FASTQ manifest
	Metadata      string // sample metadata TSV
	Classifier    string // pre-trained taxonomy classifier artifact
	TruncLenF     int    // forward-read truncation length, 0 disables
	TruncLenR     int    // reverse-read truncation length, 0 disables
	SamplingDepth int
}

func (c Config) withDefaults() Config {
	if c.WorkDir == "" {
		c.WorkDir = "analysis"
	}

	if c.SamplingDepth == 0 {
		c.SamplingDepth = DefaultSamplingDepth
	}

	return c
}

// Definition builds the amplicon pipeline for the given configuration.
func Definition(cfg Config) *models.Pipeline {
	cfg = cfg.withDefaults()

	artifact := func(name string) string {
		return filepath.Join(cfg.WorkDir, name)
	}

	demux := artifact("demux.qza")
	table := artifact("table.qza")
	repSeqs := artifact("rep-seqs.qza")
	denoisingStats := artifact("denoising-stats.qza")
	rootedTree := artifact("rooted-tree.qza")
	taxonomy := artifact("taxonomy.qza")
	coreMetrics := artifact("core-metrics-results")
	faithPD := filepath.Join(coreMetrics, "faith_pd_vector.qza")
	unweightedUnifrac := filepath.Join(coreMetrics, "unweighted_unifrac_distance_matrix.qza")

	steps := []*models.Step{
		{
			ID:   "import-reads",
			Name: "Import paired-end reads",
			Command: []string{
				Tool, "tools", "import",
				"--type", "SampleData[PairedEndSequencesWithQuality]",
				"--input-path", cfg.Manifest,
				"--input-format", "PairedEndFastqManifestPhred33V2",
				"--output-path", demux,
			},
			Inputs:  []string{cfg.Manifest},
			Outputs: []string{demux},
			Enabled: true,
		},
		{
			ID:   "summarize-demux",
			Name: "Summarize demultiplexed reads",
			Command: []string{
				Tool, "demux", "summarize",
				"--i-data", demux,
				"--o-visualization", artifact("demux.qzv"),
			},
			Inputs:  []string{demux},
			Outputs: []string{artifact("demux.qzv")},
			Enabled: true,
		},
		{
			ID:   "denoise",
			Name: "Denoise with DADA2",
			Command: []string{
				Tool, "dada2", "denoise-paired",
				"--i-demultiplexed-seqs", demux,
				"--p-trunc-len-f", strconv.Itoa(cfg.TruncLenF),
				"--p-trunc-len-r", strconv.Itoa(cfg.TruncLenR),
				"--o-table", table,
				"--o-representative-sequences", repSeqs,
				"--o-denoising-stats", denoisingStats,
			},
			Inputs:  []string{demux},
			Outputs: []string{table, repSeqs, denoisingStats},
			Enabled: true,
		},
		{
			ID:   "summarize-table",
			Name: "Summarize feature table",
			Command: []string{
				Tool, "feature-table", "summarize",
				"--i-table", table,
				"--m-sample-metadata-file", cfg.Metadata,
				"--o-visualization", artifact("table.qzv"),
			},
			Inputs:  []string{table, cfg.Metadata},
			Outputs: []string{artifact("table.qzv")},
			Enabled: true,
		},
		{
			ID:   "phylogeny",
			Name: "Build phylogenetic tree",
			Command: []string{
				Tool, "phylogeny", "align-to-tree-mafft-fasttree",
				"--i-sequences", repSeqs,
				"--o-alignment", artifact("aligned-rep-seqs.qza"),
				"--o-masked-alignment", artifact("masked-aligned-rep-seqs.qza"),
				"--o-tree", artifact("unrooted-tree.qza"),
				"--o-rooted-tree", rootedTree,
			},
			Inputs: []string{repSeqs},
			Outputs: []string{
				artifact("aligned-rep-seqs.qza"),
				artifact("masked-aligned-rep-seqs.qza"),
				artifact("unrooted-tree.qza"),
				rootedTree,
			},
			Enabled: true,
		},
		{
			ID:   "classify",
			Name: "Assign taxonomy",
			Command: []string{
				Tool, "feature-classifier", "classify-sklearn",
				"--i-classifier", cfg.Classifier,
				"--i-reads", repSeqs,
				"--o-classification", taxonomy,
			},
			Inputs:  []string{cfg.Classifier, repSeqs},
			Outputs: []string{taxonomy},
			Enabled: true,
		},
		{
			ID:   "taxa-barplot",
			Name: "Taxonomy bar plots",
			Command: []string{
				Tool, "taxa", "barplot",
				"--i-table", table,
				"--i-taxonomy", taxonomy,
				"--m-metadata-file", cfg.Metadata,
				"--o-visualization", artifact("taxa-bar-plots.qzv"),
			},
			Inputs:  []string{table, taxonomy, cfg.Metadata},
			Outputs: []string{artifact("taxa-bar-plots.qzv")},
			Enabled: true,
		},
		{
			ID:   "core-metrics",
			Name: "Core diversity metrics",
			Command: []string{
				Tool, "diversity", "core-metrics-phylogenetic",
				"--i-phylogeny", rootedTree,
				"--i-table", table,
				"--p-sampling-depth", strconv.Itoa(cfg.SamplingDepth),
				"--m-metadata-file", cfg.Metadata,
				"--output-dir", coreMetrics,
			},
			Inputs: []string{rootedTree, table, cfg.Metadata},
			Outputs: []string{
				faithPD,
				filepath.Join(coreMetrics, "shannon_vector.qza"),
				unweightedUnifrac,
				filepath.Join(coreMetrics, "bray_curtis_distance_matrix.qza"),
			},
			Enabled: true,
		},
		{
			ID:   "alpha-group-significance",
			Name: "Alpha diversity group significance",
			Command: []string{
				Tool, "diversity", "alpha-group-significance",
				"--i-alpha-diversity", faithPD,
				"--m-metadata-file", cfg.Metadata,
				"--o-visualization", artifact("faith-pd-group-significance.qzv"),
			},
			Inputs:  []string{faithPD, cfg.Metadata},
			Outputs: []string{artifact("faith-pd-group-significance.qzv")},
			Enabled: true,
		},
		{
			ID:   "beta-trial-point",
			Name: "Beta diversity by trial point",
			Command: []string{
				Tool, "diversity", "beta-group-significance",
				"--i-distance-matrix", unweightedUnifrac,
				"--m-metadata-file", cfg.Metadata,
				"--m-metadata-column", "trial_point",
				"--p-pairwise",
				"--o-visualization", artifact("unweighted-unifrac-trial-point-significance.qzv"),
			},
			Inputs:    []string{unweightedUnifrac, cfg.Metadata},
			Outputs:   []string{artifact("unweighted-unifrac-trial-point-significance.qzv")},
			Condition: &models.Condition{MetadataColumn: "trial_point"},
			Enabled:   true,
		},
		{
			ID:   "beta-sex",
			Name: "Beta diversity by sex",
			Command: []string{
				Tool, "diversity", "beta-group-significance",
				"--i-distance-matrix", unweightedUnifrac,
				"--m-metadata-file", cfg.Metadata,
				"--m-metadata-column", "sex",
				"--p-pairwise",
				"--o-visualization", artifact("unweighted-unifrac-sex-significance.qzv"),
			},
			Inputs:    []string{unweightedUnifrac, cfg.Metadata},
			Outputs:   []string{artifact("unweighted-unifrac-sex-significance.qzv")},
			Condition: &models.Condition{MetadataColumn: "sex"},
			Enabled:   true,
		},
	}

	return &models.Pipeline{
		Name:     "amplicon",
		Inputs:   []string{cfg.Manifest, cfg.Metadata, cfg.Classifier},
		Metadata: cfg.Metadata,
		Params: map[string]string{
			"trunc-len-f":    strconv.Itoa(cfg.TruncLenF),
			"trunc-len-r":    strconv.Itoa(cfg.TruncLenR),
			"sampling-depth": strconv.Itoa(cfg.SamplingDepth),
		},
		Steps: steps,
	}
}

// Dirs lists the directories a run needs before the first step executes.
// The core-metrics output directory is created by qiime itself and must not
// pre-exist.
func Dirs(cfg Config) []string {
	cfg = cfg.withDefaults()
	return []string{cfg.WorkDir}
}
