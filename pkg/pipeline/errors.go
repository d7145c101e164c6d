// Package pipeline builds and executes artifact-gated step pipelines.
package pipeline

import (
	"errors"
	"fmt"
)

// FailureStage identifies where in a step's lifecycle a run failed.
type FailureStage string

const (
	StageCondition    FailureStage = "condition"
	StageDependency   FailureStage = "dependency"
	StageExecution    FailureStage = "execution"
	StageVerification FailureStage = "verification"
)

// Standard pipeline error types.
var (
	// ErrUnsatisfiedDependency indicates a required input artifact was missing at run time.
	ErrUnsatisfiedDependency = errors.New("unsatisfied dependency")

	// ErrToolExecution indicates the external command exited non-zero.
	ErrToolExecution = errors.New("tool execution failed")

	// ErrPostconditionViolation indicates the tool exited zero but a declared output is absent.
	ErrPostconditionViolation = errors.New("postcondition violation")
)

// GraphError reports a malformed step declaration, detected before any step runs.
type GraphError struct {
	StepID   string // Step with the bad declaration
	Artifact string // Offending artifact path if applicable
	Reason   string
}

func (e *GraphError) Error() string {
	if e.Artifact != "" {
		return fmt.Sprintf("invalid pipeline: step %s: %s: %s", e.StepID, e.Reason, e.Artifact)
	}
	return fmt.Sprintf("invalid pipeline: step %s: %s", e.StepID, e.Reason)
}

// StepError wraps a run-time step failure with enough context for a
// single-line diagnostic: which step, at which stage, over which artifact.
type StepError struct {
	StepID   string
	Stage    FailureStage
	Artifact string // Missing or invalid artifact if applicable
	Producer string // Step that should have produced Artifact, if known
	ExitCode int
	Err      error
}

func (e *StepError) Error() string {
	switch e.Stage {
	case StageDependency:
		if e.Producer != "" {
			return fmt.Sprintf("step %s: missing input %s (expected from step %s)", e.StepID, e.Artifact, e.Producer)
		}
		return fmt.Sprintf("step %s: missing input %s", e.StepID, e.Artifact)
	case StageExecution:
		return fmt.Sprintf("step %s: command exited with status %d: %v", e.StepID, e.ExitCode, e.Err)
	case StageVerification:
		return fmt.Sprintf("step %s: command succeeded but output %s was not produced", e.StepID, e.Artifact)
	default:
		return fmt.Sprintf("step %s: %v", e.StepID, e.Err)
	}
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for step errors.
func (e *StepError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
