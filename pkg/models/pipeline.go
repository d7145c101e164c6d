package models

// Pipeline is a declarative sequence of steps plus the resources the run
// starts from. Declaration order is execution order; a step may only consume
// artifacts declared before it.
type Pipeline struct {
	Name     string            `json:"name"               yaml:"name"     validate:"required"`
	Inputs   []string          `json:"inputs,omitempty"   yaml:"inputs"`   // externally supplied artifacts
	Metadata string            `json:"metadata,omitempty" yaml:"metadata"` // sample metadata path, used by conditions
	Params   map[string]string `json:"params,omitempty"   yaml:"params"`   // parameter values surfaced in the run report
	Steps    []*Step           `json:"steps"              yaml:"steps"    validate:"required,min=1"`
}
