package pipeline

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ampliflow/ampliflow/pkg/models"
)

// Plan is a validated pipeline ready for execution. Declaration order is
// already topological because a step may only consume artifacts declared
// before it.
type Plan struct {
	Pipeline  *models.Pipeline
	Steps     []*models.Step
	producers map[string]string // output artifact path -> step ID
}

// Producer returns the step that declares the given artifact as an output.
func (p *Plan) Producer(artifact string) (string, bool) {
	stepID, ok := p.producers[artifact]
	return stepID, ok
}

// Build validates step declarations and their artifact graph. Each input
// must be an externally supplied resource or the output of an earlier step,
// step IDs must be unique, and no two steps may declare the same output
// path. Violations return a *GraphError.
func Build(p *models.Pipeline) (*Plan, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid pipeline declaration: %w", err)
	}

	available := make(map[string]bool, len(p.Inputs))
	for _, input := range p.Inputs {
		available[input] = true
	}

	seen := make(map[string]bool, len(p.Steps))
	producers := make(map[string]string)

	for _, step := range p.Steps {
		if err := validate.Struct(step); err != nil {
			return nil, &GraphError{StepID: step.ID, Reason: fmt.Sprintf("invalid declaration: %v", err)}
		}

		if seen[step.ID] {
			return nil, &GraphError{StepID: step.ID, Reason: "duplicate step id"}
		}
		seen[step.ID] = true

		for _, input := range step.Inputs {
			if !available[input] {
				return nil, &GraphError{
					StepID:   step.ID,
					Artifact: input,
					Reason:   "input is not an external resource or an earlier step's output",
				}
			}
		}

		for _, output := range step.Outputs {
			if producer, ok := producers[output]; ok {
				return nil, &GraphError{
					StepID:   step.ID,
					Artifact: output,
					Reason:   fmt.Sprintf("output already declared by step %s", producer),
				}
			}
			if available[output] && producers[output] == "" {
				return nil, &GraphError{
					StepID:   step.ID,
					Artifact: output,
					Reason:   "output shadows an externally supplied resource",
				}
			}
			producers[output] = step.ID
			available[output] = true
		}
	}

	return &Plan{
		Pipeline:  p,
		Steps:     p.Steps,
		producers: producers,
	}, nil
}
