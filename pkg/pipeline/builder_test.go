package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampliflow/ampliflow/pkg/models"
)

func declaredStep(id string, inputs, outputs []string) *models.Step {
	return &models.Step{
		ID:      id,
		Name:    id,
		Command: []string{"tool", id},
		Inputs:  inputs,
		Outputs: outputs,
		Enabled: true,
	}
}

func TestBuild_ValidChain(t *testing.T) {
	p := &models.Pipeline{
		Name:   "chain",
		Inputs: []string{"seed.in"},
		Steps: []*models.Step{
			declaredStep("a", []string{"seed.in"}, []string{"x.out"}),
			declaredStep("b", []string{"x.out"}, []string{"y.out", "z.out"}),
			declaredStep("c", []string{"x.out", "z.out"}, []string{"final.out"}),
		},
	}

	plan, err := Build(p)
	require.NoError(t, err)
	assert.Len(t, plan.Steps, 3)

	producer, ok := plan.Producer("z.out")
	assert.True(t, ok)
	assert.Equal(t, "b", producer)

	_, ok = plan.Producer("seed.in")
	assert.False(t, ok)
}

func TestBuild_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		pipeline *models.Pipeline
		stepID   string
		artifact string
	}{
		{
			name: "duplicate step id",
			pipeline: &models.Pipeline{
				Name: "dup",
				Steps: []*models.Step{
					declaredStep("a", nil, []string{"x.out"}),
					declaredStep("a", nil, []string{"y.out"}),
				},
			},
			stepID: "a",
		},
		{
			name: "dangling input reference",
			pipeline: &models.Pipeline{
				Name: "dangling",
				Steps: []*models.Step{
					declaredStep("a", []string{"never-declared.in"}, []string{"x.out"}),
				},
			},
			stepID:   "a",
			artifact: "never-declared.in",
		},
		{
			name: "input only produced later",
			pipeline: &models.Pipeline{
				Name: "forward",
				Steps: []*models.Step{
					declaredStep("a", []string{"late.out"}, []string{"x.out"}),
					declaredStep("b", nil, []string{"late.out"}),
				},
			},
			stepID:   "a",
			artifact: "late.out",
		},
		{
			name: "output redeclared by second step",
			pipeline: &models.Pipeline{
				Name: "collision",
				Steps: []*models.Step{
					declaredStep("a", nil, []string{"x.out"}),
					declaredStep("b", nil, []string{"x.out"}),
				},
			},
			stepID:   "b",
			artifact: "x.out",
		},
		{
			name: "output shadows external input",
			pipeline: &models.Pipeline{
				Name:   "shadow",
				Inputs: []string{"seed.in"},
				Steps: []*models.Step{
					declaredStep("a", nil, []string{"seed.in"}),
				},
			},
			stepID:   "a",
			artifact: "seed.in",
		},
		{
			name: "step without outputs",
			pipeline: &models.Pipeline{
				Name: "no-outputs",
				Steps: []*models.Step{
					declaredStep("a", nil, nil),
				},
			},
			stepID: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.pipeline)
			require.Error(t, err)

			var graphErr *GraphError
			require.ErrorAs(t, err, &graphErr)
			assert.Equal(t, tt.stepID, graphErr.StepID)

			if tt.artifact != "" {
				assert.Equal(t, tt.artifact, graphErr.Artifact)
			}
		})
	}
}

func TestBuild_EmptyPipeline(t *testing.T) {
	_, err := Build(&models.Pipeline{Name: "empty"})
	require.Error(t, err)
}
