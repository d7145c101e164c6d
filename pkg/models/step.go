// Package models defines the core domain models for artifact-gated pipelines
package models

// StepStatus represents the lifecycle state of a step within a run.
type StepStatus string

const (
	StepPending   StepStatus = "pending"   // Not reached yet
	StepRunning   StepStatus = "running"   // External command in flight
	StepVerifying StepStatus = "verifying" // Command exited zero, outputs being checked
	StepSkipped   StepStatus = "skipped"   // Nothing to do, see SkipReason
	StepDone      StepStatus = "done"      // Command succeeded and all outputs exist
	StepFailed    StepStatus = "failed"    // Run halts here
)

// SkipReason explains why a step was skipped without being an error.
type SkipReason string

const (
	SkipOutputsSatisfied SkipReason = "outputs-satisfied"
	SkipConditionNotMet  SkipReason = "condition-not-met"
	SkipDisabled         SkipReason = "disabled"
)

// Step wraps one external tool invocation with its declared inputs and
// outputs. Inputs must be produced by an earlier step or supplied externally;
// output existence is the sole evidence of completion.
type Step struct {
	ID        string     `json:"id"                  yaml:"id"        validate:"required"`
	Name      string     `json:"name"                yaml:"name"      validate:"required"`
	Command   []string   `json:"command"             yaml:"command"   validate:"required,min=1"`
	Inputs    []string   `json:"inputs,omitempty"    yaml:"inputs"`
	Outputs   []string   `json:"outputs"             yaml:"outputs"   validate:"required,min=1,dive,required"`
	Condition *Condition `json:"condition,omitempty" yaml:"condition"`
	Enabled   bool       `json:"enabled"             yaml:"enabled"`
}

// Program returns the executable the step invokes.
func (s *Step) Program() string {
	if len(s.Command) == 0 {
		return ""
	}
	return s.Command[0]
}

// Args returns the arguments passed to the step's program.
func (s *Step) Args() []string {
	if len(s.Command) < 2 {
		return nil
	}
	return s.Command[1:]
}
