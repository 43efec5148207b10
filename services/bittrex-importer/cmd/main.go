package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/trade-history/services/bittrex-importer/internal/config"
	"github.com/trade-history/services/bittrex-importer/internal/service"
)

const usageTemplate = `Bittrex order history importer

-h	Shows this help

Usage:
	%s orders.csv db.sqlite3
`

type importer interface {
	Import(ctx context.Context, csvPath, dbPath string) (*service.ImportResult, error)
}

func main() {
	envErr := godotenv.Load()

	cfg := config.LoadConfig()
	logger := cfg.NewLogger()
	if envErr != nil {
		logger.Debugf("No .env file found: %v", envErr)
	}

	svc := service.NewImportService(logger, cfg.DBBusyTimeout)
	app := newApp(svc, logger, os.Stdout)

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("Import failed")
	}
}

func newApp(svc importer, logger logrus.FieldLogger, stdout io.Writer) *cli.App {
	name := filepath.Base(os.Args[0])

	return &cli.App{
		Name:            name,
		Usage:           "import a Bittrex order history CSV into an SQLite database",
		ArgsUsage:       "<csv-file> <db-file>",
		HideHelp:        true,
		HideHelpCommand: true,
		HideVersion:     true,
		// -h must reach the action as a plain argument so it exits with 1.
		SkipFlagParsing: true,
		Writer:          stdout,
		Action: func(c *cli.Context) error {
			args := c.Args()
			if args.Len() != 2 || args.First() == "-h" {
				fmt.Fprintf(c.App.Writer, usageTemplate, name)
				return cli.Exit("", 1)
			}

			result, err := svc.Import(c.Context, args.Get(0), args.Get(1))
			if err != nil {
				return err
			}

			logger.WithFields(logrus.Fields{
				"read":     result.RowsRead,
				"upserted": result.RowsUpserted,
				"stored":   result.StoredTotal,
			}).Info("Done")
			return nil
		},
	}
}
