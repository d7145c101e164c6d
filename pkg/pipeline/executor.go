package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ampliflow/ampliflow/pkg/models"
	"github.com/ampliflow/ampliflow/pkg/tool"
)

// Executor runs a plan's steps strictly one at a time in declared order.
// Resumability comes from artifact existence alone: a step whose outputs are
// all present is skipped, so re-running after a partial prior run never
// redoes completed work.
type Executor struct {
	runner tool.Runner
	meta   models.ColumnSource
}

// NewExecutor creates an executor. meta may be nil when the pipeline has no
// conditional steps.
func NewExecutor(runner tool.Runner, meta models.ColumnSource) *Executor {
	return &Executor{
		runner: runner,
		meta:   meta,
	}
}

// Execute runs the plan to completion or first failure. The returned Run is
// always populated with whatever progress was made; on failure the error is
// a *StepError and no later step has begun.
func (e *Executor) Execute(ctx context.Context, plan *Plan) (*models.Run, error) {
	run := &models.Run{
		ID:        generateRunID(),
		Pipeline:  plan.Pipeline.Name,
		StartedAt: time.Now(),
		Results:   make(map[string]*models.StepResult),
	}

	logger := log.WithFields(log.Fields{
		"module":   "pipeline_executor",
		"pipeline": plan.Pipeline.Name,
		"run_id":   run.ID,
	})

	logger.Info("Starting pipeline run")

	for _, step := range plan.Steps {
		stepLogger := logger.WithFields(log.Fields{
			"step_id":   step.ID,
			"step_name": step.Name,
		})

		result, err := e.executeStep(ctx, plan, step, stepLogger)
		run.Results[step.ID] = result

		if err != nil {
			run.FinishedAt = time.Now()

			if result.Output != "" {
				stepLogger = stepLogger.WithField("tool_output", result.Output)
			}

			stepLogger.Errorf("Pipeline run halted: %v", err)

			return run, err
		}
	}

	run.FinishedAt = time.Now()
	logger.Info("Pipeline run completed")

	return run, nil
}

func (e *Executor) executeStep(
	ctx context.Context,
	plan *Plan,
	step *models.Step,
	logger *log.Entry,
) (*models.StepResult, error) {
	if !step.Enabled {
		logger.Info("Step is disabled, skipping")

		return &models.StepResult{Status: models.StepSkipped, SkipReason: models.SkipDisabled}, nil
	}

	if step.Condition != nil {
		met, err := e.evaluateCondition(step, logger)
		if err != nil {
			return &models.StepResult{Status: models.StepFailed, Err: err},
				&StepError{StepID: step.ID, Stage: StageCondition, Err: err}
		}

		if !met {
			logger.Infof("Metadata column %q not present, skipping", step.Condition.MetadataColumn)

			return &models.StepResult{Status: models.StepSkipped, SkipReason: models.SkipConditionNotMet}, nil
		}
	}

	if outputsSatisfied(step) {
		logger.Info("All outputs already exist, skipping")

		return &models.StepResult{Status: models.StepSkipped, SkipReason: models.SkipOutputsSatisfied}, nil
	}

	for _, input := range step.Inputs {
		if artifactExists(input) {
			continue
		}

		producer, _ := plan.Producer(input)
		err := &StepError{
			StepID:   step.ID,
			Stage:    StageDependency,
			Artifact: input,
			Producer: producer,
			Err:      ErrUnsatisfiedDependency,
		}

		return &models.StepResult{Status: models.StepFailed, Err: err}, err
	}

	logger.Infof("Running %s", step.Program())

	result, runErr := e.runner.Run(ctx, step.Program(), step.Args()...)

	stepResult := &models.StepResult{Status: models.StepRunning}
	if result != nil {
		stepResult.Output = result.Combined
		stepResult.ExitCode = result.ExitCode
	}

	if runErr != nil {
		err := &StepError{
			StepID:   step.ID,
			Stage:    StageExecution,
			ExitCode: stepResult.ExitCode,
			Err:      fmt.Errorf("%w: %w", ErrToolExecution, runErr),
		}
		stepResult.Status = models.StepFailed
		stepResult.Err = err

		return stepResult, err
	}

	stepResult.Status = models.StepVerifying

	for _, output := range step.Outputs {
		if artifactExists(output) {
			continue
		}

		err := &StepError{
			StepID:   step.ID,
			Stage:    StageVerification,
			Artifact: output,
			Err:      ErrPostconditionViolation,
		}
		stepResult.Status = models.StepFailed
		stepResult.Err = err

		return stepResult, err
	}

	logger.Info("Step completed, all outputs verified")
	stepResult.Status = models.StepDone

	return stepResult, nil
}

func (e *Executor) evaluateCondition(step *models.Step, logger *log.Entry) (bool, error) {
	if e.meta == nil {
		return false, errors.New("step has a metadata condition but no metadata source is configured")
	}

	logger.Infof("Evaluating condition on metadata column %q", step.Condition.MetadataColumn)

	return step.Condition.Evaluate(e.meta)
}

func outputsSatisfied(step *models.Step) bool {
	for _, output := range step.Outputs {
		if !artifactExists(output) {
			return false
		}
	}

	return true
}

func artifactExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func generateRunID() string {
	return fmt.Sprintf("run-%s", uuid.New().String()[:8])
}
