package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ampliflow/ampliflow/internal/amplicon"
	"github.com/ampliflow/ampliflow/pkg/config"
	"github.com/ampliflow/ampliflow/pkg/log"
	"github.com/ampliflow/ampliflow/pkg/metadata"
	"github.com/ampliflow/ampliflow/pkg/models"
	"github.com/ampliflow/ampliflow/pkg/pipeline"
	"github.com/ampliflow/ampliflow/pkg/report"
	"github.com/ampliflow/ampliflow/pkg/tool"
)

func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Execute the pipeline, resuming from existing artifacts",
		Flags: append(pipelineFlags(),
			&cli.BoolFlag{
				Name:  "show-output",
				Usage: "Stream tool output to the console while capturing it",
			},
			&cli.StringSliceFlag{
				Name:  "env",
				Usage: "Extra KEY=VALUE environment variable for tool processes (repeatable)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Logging level (debug, info, warn, error)",
				Value: "info",
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("ampliflow")

			p, err := loadPipeline(command)
			if err != nil {
				return err
			}

			plan, err := pipeline.Build(p)
			if err != nil {
				return err
			}

			if program, ok := missingProgram(plan); ok {
				return fmt.Errorf("required tool %q not found in PATH", program)
			}

			for _, dir := range runDirs(command) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory %s: %w", dir, err)
				}
			}

			opts := []tool.Option{}
			if command.Bool("show-output") {
				opts = append(opts, tool.WithTee(os.Stderr))
			}

			if env := parseEnv(command.StringSlice("env")); len(env) > 0 {
				opts = append(opts, tool.WithEnv(env))
			}

			logger.Info("Starting pipeline run", "pipeline", p.Name, "steps", len(plan.Steps))

			executor := pipeline.NewExecutor(tool.NewExecRunner(opts...), metadata.NewSource(p.Metadata))

			run, runErr := executor.Execute(ctx, plan)
			report.Write(os.Stdout, plan, run)

			if runErr != nil {
				return runErr
			}

			return nil
		},
	}
}

func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "pipeline",
			Usage: "YAML pipeline definition (overrides the built-in amplicon pipeline)",
		},
		&cli.StringFlag{
			Name:  "workdir",
			Usage: "Directory for produced artifacts",
			Value: "analysis",
		},
		&cli.StringFlag{
			Name:  "manifest",
			Usage: "Paired-end FASTQ manifest file",
			Value: "manifest.tsv",
		},
		&cli.StringFlag{
			Name:  "metadata",
			Usage: "Sample metadata TSV file",
			Value: "sample-metadata.tsv",
		},
		&cli.StringFlag{
			Name:  "classifier",
			Usage: "Pre-trained taxonomy classifier artifact",
			Value: "classifier.qza",
		},
		&cli.IntFlag{
			Name:  "trunc-len-f",
			Usage: "Forward-read truncation length (0 disables truncation)",
		},
		&cli.IntFlag{
			Name:  "trunc-len-r",
			Usage: "Reverse-read truncation length (0 disables truncation)",
		},
		&cli.IntFlag{
			Name:  "sampling-depth",
			Usage: "Rarefaction depth for core diversity metrics",
			Value: amplicon.DefaultSamplingDepth,
		},
	}
}

func loadPipeline(command *cli.Command) (*models.Pipeline, error) {
	if path := command.String("pipeline"); path != "" {
		return config.LoadPipeline(path)
	}

	return amplicon.Definition(ampliconConfig(command)), nil
}

func ampliconConfig(command *cli.Command) amplicon.Config {
	return amplicon.Config{
		WorkDir:       command.String("workdir"),
		Manifest:      command.String("manifest"),
		Metadata:      command.String("metadata"),
		Classifier:    command.String("classifier"),
		TruncLenF:     int(command.Int("trunc-len-f")),
		TruncLenR:     int(command.Int("trunc-len-r")),
		SamplingDepth: int(command.Int("sampling-depth")),
	}
}

func runDirs(command *cli.Command) []string {
	if command.String("pipeline") != "" {
		return nil // YAML pipelines own their directory layout
	}

	return amplicon.Dirs(ampliconConfig(command))
}

// parseEnv turns KEY=VALUE flag values into an environment map, ignoring
// malformed entries.
func parseEnv(pairs []string) map[string]string {
	env := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if ok && key != "" {
			env[key] = value
		}
	}

	return env
}

// missingProgram reports the first step program not resolvable on PATH.
func missingProgram(plan *pipeline.Plan) (string, bool) {
	checked := make(map[string]bool)

	for _, step := range plan.Steps {
		program := step.Program()
		if checked[program] {
			continue
		}
		checked[program] = true

		if !tool.Available(program) {
			return program, true
		}
	}

	return "", false
}
