// Package report renders the end-of-run diagnostics summary.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ampliflow/ampliflow/pkg/models"
	"github.com/ampliflow/ampliflow/pkg/pipeline"
)

// maxOutputLines bounds how much captured tool output the failure branch
// echoes; qiime tracebacks run long and the useful part is at the end.
const maxOutputLines = 20

// Write prints each step's final state, the parameter values the run used,
// and outcome counts. Steps never reached are reported as pending.
func Write(w io.Writer, plan *pipeline.Plan, run *models.Run) {
	fmt.Fprintf(w, "Pipeline Run Summary: %s (%s)\n", run.Pipeline, run.ID)
	fmt.Fprintln(w, "=====================")

	for _, step := range plan.Steps {
		result := run.Result(step.ID)

		switch result.Status {
		case models.StepDone:
			fmt.Fprintf(w, "  ✅ %s: done\n", step.ID)
		case models.StepSkipped:
			fmt.Fprintf(w, "  ⏭  %s: skipped (%s)\n", step.ID, result.SkipReason)
		case models.StepFailed:
			fmt.Fprintf(w, "  ❌ %s: failed: %v\n", step.ID, result.Err)

			for _, line := range tailLines(result.Output, maxOutputLines) {
				fmt.Fprintf(w, "       | %s\n", line)
			}
		default:
			fmt.Fprintf(w, "  .. %s: pending\n", step.ID)
		}
	}

	if len(plan.Pipeline.Params) > 0 {
		fmt.Fprintf(w, "\nParameters used:\n")

		names := make([]string, 0, len(plan.Pipeline.Params))
		for name := range plan.Pipeline.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Fprintf(w, "  %s: %s\n", name, plan.Pipeline.Params[name])
		}
	}

	done, skipped, failed, pending := run.Counts(plan.Steps)

	fmt.Fprintf(w, "\nTotal steps: %d\n", len(plan.Steps))
	fmt.Fprintf(w, "  Done: %d\n", done)
	fmt.Fprintf(w, "  Skipped: %d\n", skipped)
	fmt.Fprintf(w, "  Failed: %d\n", failed)

	if pending > 0 {
		fmt.Fprintf(w, "  Not reached: %d\n", pending)
	}

	if !run.FinishedAt.IsZero() && !run.StartedAt.IsZero() {
		fmt.Fprintf(w, "Elapsed: %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
}

// tailLines returns the last n non-empty-trimmed lines of captured output.
func tailLines(output string, n int) []string {
	trimmed := strings.TrimRight(output, "\n")
	if trimmed == "" {
		return nil
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return lines
}
