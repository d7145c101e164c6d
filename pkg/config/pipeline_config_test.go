package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineYAML = `name: custom
inputs:
  - seed.in
metadata: sample-metadata.tsv
params:
  depth: "5000"
steps:
  - id: first
    name: First step
    command: [tool, run, first]
    inputs: [seed.in]
    outputs: [first.out]
  - id: second
    command: [tool, run, second]
    inputs: [first.out]
    outputs: [second.out]
    enabled: false
    condition:
      metadata_column: trial_point
`

func TestLoadPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pipelineYAML), 0o644))

	pipeline, err := LoadPipeline(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", pipeline.Name)
	assert.Equal(t, []string{"seed.in"}, pipeline.Inputs)
	assert.Equal(t, "sample-metadata.tsv", pipeline.Metadata)
	assert.Equal(t, "5000", pipeline.Params["depth"])
	require.Len(t, pipeline.Steps, 2)

	first := pipeline.Steps[0]
	assert.Equal(t, "first", first.ID)
	assert.Equal(t, "First step", first.Name)
	assert.Equal(t, []string{"tool", "run", "first"}, first.Command)
	assert.True(t, first.Enabled) // enabled defaults to true when omitted
	assert.Nil(t, first.Condition)

	second := pipeline.Steps[1]
	assert.Equal(t, "second", second.Name) // name falls back to id
	assert.False(t, second.Enabled)
	require.NotNil(t, second.Condition)
	assert.Equal(t, "trial_point", second.Condition.MetadataColumn)
}

func TestLoadPipeline_MissingFile(t *testing.T) {
	_, err := LoadPipeline(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadPipeline_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps: [pipeline: {"), 0o644))

	_, err := LoadPipeline(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML pipeline")
}
