package main

import (
	"os"

	"estate_ledger/internal/config"
	"estate_ledger/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "estate-ledger",
		Usage: "property listings and sale transactions with ledger-recorded ownership transfers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "file of KEY=VALUE pairs loaded into the environment",
			},
			&cli.StringFlag{
				Name:    "verbosity",
				Value:   "info",
				Usage:   "log level (trace, debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   logger.FormatText,
				Usage:   "log output format (text or json)",
				EnvVars: []string{"LOG_FORMAT"},
			},
		},
		Before: func(c *cli.Context) error {
			if err := logger.Init(c.String("verbosity"), c.String("log-format")); err != nil {
				return err
			}
			config.LoadEnvFile(c.String("env-file"))
			return nil
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply the database schema and exit",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("estate-ledger failed")
	}
}
