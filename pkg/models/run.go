package models

import "time"

// StepResult records the final state of one step within a run.
type StepResult struct {
	Status     StepStatus `json:"status"`
	SkipReason SkipReason `json:"skip_reason,omitempty"`
	Output     string     `json:"output,omitempty"` // combined stdout/stderr of the tool
	ExitCode   int        `json:"exit_code"`
	Err        error      `json:"-"`
}

// Run is one end-to-end execution of a pipeline. Steps never reached keep no
// entry in Results and count as pending.
type Run struct {
	ID         string                 `json:"id"`
	Pipeline   string                 `json:"pipeline"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Results    map[string]*StepResult `json:"results"`
}

// Result returns the recorded result for a step, or a pending placeholder.
func (r *Run) Result(stepID string) *StepResult {
	if res, ok := r.Results[stepID]; ok {
		return res
	}
	return &StepResult{Status: StepPending}
}

// Counts tallies step outcomes across the given steps.
func (r *Run) Counts(steps []*Step) (done, skipped, failed, pending int) {
	for _, step := range steps {
		switch r.Result(step.ID).Status {
		case StepDone:
			done++
		case StepSkipped:
			skipped++
		case StepFailed:
			failed++
		default:
			pending++
		}
	}
	return done, skipped, failed, pending
}
