package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"

	"github.com/aldoetobex/legal-trust-ledger/internal/app"
	"github.com/aldoetobex/legal-trust-ledger/pkg/config"
	"github.com/aldoetobex/legal-trust-ledger/pkg/database"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
)

// Global flags shared by every subcommand.

var configFile = flag.String("config", "", "YAML config file (defaults to $CONFIG_PATH)")
var rawOutput = flag.Bool("raw", false, "print plain markdown instead of styled terminal output")

// openApp loads the configuration and opens the database. Logging is kept
// to warnings so it does not interleave with the report.
func openApp() (*app.App, *config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Env, "warn")
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg.Database, true)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, err
	}
	return app.New(db, cfg.Billing, log), cfg, nil
}

func parseCaseID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, fmt.Errorf("-case is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("-case %q is not a uuid", s)
	}
	return id, nil
}

// printMarkdown renders md for the terminal, or prints it as-is with -raw
// or when styling fails.
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "warning: cannot style output: %v\n", err)
	fmt.Print(md)
}
