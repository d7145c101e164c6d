// Package config provides pipeline-definition loading from YAML files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ampliflow/ampliflow/pkg/models"
)

// PipelineFile represents the structure of a pipeline YAML file.
type PipelineFile struct {
	Name     string            `yaml:"name"`
	Inputs   []string          `yaml:"inputs"`
	Metadata string            `yaml:"metadata"`
	Params   map[string]string `yaml:"params"`
	Steps    []StepFile        `yaml:"steps"`
}

// StepFile represents a step entry in the YAML file. Enabled defaults to
// true when omitted.
type StepFile struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Command   []string       `yaml:"command"`
	Inputs    []string       `yaml:"inputs"`
	Outputs   []string       `yaml:"outputs"`
	Condition *ConditionFile `yaml:"condition"`
	Enabled   *bool          `yaml:"enabled"`
}

// ConditionFile represents a step condition in the YAML file.
type ConditionFile struct {
	MetadataColumn string `yaml:"metadata_column"`
}

// LoadPipeline loads a pipeline definition from a YAML file.
func LoadPipeline(filepath string) (*models.Pipeline, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file %s: %w", filepath, err)
	}

	var file PipelineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML pipeline: %w", err)
	}

	pipeline := &models.Pipeline{
		Name:     file.Name,
		Inputs:   file.Inputs,
		Metadata: file.Metadata,
		Params:   file.Params,
		Steps:    make([]*models.Step, len(file.Steps)),
	}

	if pipeline.Name == "" {
		pipeline.Name = "pipeline"
	}

	for i, stepFile := range file.Steps {
		step := &models.Step{
			ID:      stepFile.ID,
			Name:    stepFile.Name,
			Command: stepFile.Command,
			Inputs:  stepFile.Inputs,
			Outputs: stepFile.Outputs,
			Enabled: stepFile.Enabled == nil || *stepFile.Enabled,
		}

		if step.Name == "" {
			step.Name = step.ID
		}

		if stepFile.Condition != nil {
			step.Condition = &models.Condition{MetadataColumn: stepFile.Condition.MetadataColumn}
		}

		pipeline.Steps[i] = step
	}

	return pipeline, nil
}
