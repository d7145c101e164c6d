package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:                  "ampliflow",
		Usage:                 "Run artifact-gated QIIME2 amplicon pipelines",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewRunCommand(),
			NewValidateCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
