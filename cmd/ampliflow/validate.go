package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v3"

	"github.com/ampliflow/ampliflow/pkg/log"
	"github.com/ampliflow/ampliflow/pkg/pipeline"
)

var validate *validator.Validate

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the pipeline definition without running it",
		Flags:   pipelineFlags(),
		Action: func(ctx context.Context, command *cli.Command) error {
			validate = validator.New(validator.WithRequiredStructEnabled())

			logger := log.WithModule("ampliflow")

			p, err := loadPipeline(command)
			if err != nil {
				return err
			}

			logger.Info("Validating pipeline", "pipeline", p.Name, "steps", len(p.Steps))

			fmt.Println("Step Validation Results:")
			fmt.Println("========================")

			validSteps := 0
			invalidSteps := 0

			for _, step := range p.Steps {
				fmt.Printf("  Step: %s\n", step.ID)

				err = validate.Struct(step)
				if err != nil {
					validationErrors := err.(validator.ValidationErrors)
					fmt.Printf("    ❌ INVALID: %v\n", validationErrors)
					invalidSteps++

					continue
				}

				validSteps++
				fmt.Printf("    ✅ VALID\n")
			}

			fmt.Printf("\nValidation Summary:\n")
			fmt.Printf("  Total steps: %d\n", validSteps+invalidSteps)
			fmt.Printf("  Valid steps: %d\n", validSteps)
			fmt.Printf("  Invalid steps: %d\n", invalidSteps)

			if invalidSteps > 0 {
				return fmt.Errorf("found %d invalid steps", invalidSteps)
			}

			if _, err := pipeline.Build(p); err != nil {
				fmt.Printf("  ❌ INVALID: %v\n", err)
				return err
			}

			fmt.Println("Pipeline is valid! ✅")

			return nil
		},
	}
}
