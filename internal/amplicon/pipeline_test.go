package amplicon

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampliflow/ampliflow/pkg/pipeline"
)

func testConfig() Config {
	return Config{
		WorkDir:    "analysis",
		Manifest:   "manifest.tsv",
		Metadata:   "sample-metadata.tsv",
		Classifier: "classifier.qza",
		TruncLenF:  240,
		TruncLenR:  200,
	}
}

func TestDefinition_IsValidPlan(t *testing.T) {
	p := Definition(testConfig())

	plan, err := pipeline.Build(p)
	require.NoError(t, err)

	ids := make([]string, len(plan.Steps))
	for i, step := range plan.Steps {
		ids[i] = step.ID
	}

	assert.Equal(t, []string{
		"import-reads",
		"summarize-demux",
		"denoise",
		"summarize-table",
		"phylogeny",
		"classify",
		"taxa-barplot",
		"core-metrics",
		"alpha-group-significance",
		"beta-trial-point",
		"beta-sex",
	}, ids)
}

func TestDefinition_EveryStepInvokesQiime(t *testing.T) {
	p := Definition(testConfig())

	for _, step := range p.Steps {
		assert.Equal(t, Tool, step.Program(), "step %s", step.ID)
		assert.True(t, step.Enabled, "step %s", step.ID)
		assert.NotEmpty(t, step.Outputs, "step %s", step.ID)
	}
}

func TestDefinition_ConditionalGroupSignificance(t *testing.T) {
	p := Definition(testConfig())

	conditions := make(map[string]string)
	for _, step := range p.Steps {
		if step.Condition != nil {
			conditions[step.ID] = step.Condition.MetadataColumn
		}
	}

	assert.Equal(t, map[string]string{
		"beta-trial-point": "trial_point",
		"beta-sex":         "sex",
	}, conditions)
}

func TestDefinition_Defaults(t *testing.T) {
	p := Definition(Config{Manifest: "m.tsv", Metadata: "md.tsv", Classifier: "c.qza"})

	assert.Equal(t, "10000", p.Params["sampling-depth"])
	assert.Equal(t, "0", p.Params["trunc-len-f"])
	assert.Equal(t, []string{"analysis"}, Dirs(Config{}))

	// Artifacts land under the default work dir.
	assert.Equal(t, filepath.Join("analysis", "demux.qza"), p.Steps[0].Outputs[0])
}

func TestDefinition_ParamsSurfaced(t *testing.T) {
	p := Definition(testConfig())

	assert.Equal(t, "240", p.Params["trunc-len-f"])
	assert.Equal(t, "200", p.Params["trunc-len-r"])
	assert.Equal(t, "10000", p.Params["sampling-depth"])
	assert.Equal(t, "sample-metadata.tsv", p.Metadata)
	assert.ElementsMatch(t, []string{"manifest.tsv", "sample-metadata.tsv", "classifier.qza"}, p.Inputs)
}
