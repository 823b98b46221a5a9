// @title           Legal Trust Ledger API
// @version         1.0
// @description     Matters, the people on them, time and expense billing, client payments, and trust account reconciliation for a small law firm.
// @contact.name    Aldo Rifki Putra
// @contact.email   aldoetobex@gmail.com
// @BasePath        /api
// @schemes         http
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aldoetobex/legal-trust-ledger/internal/api"
	"github.com/aldoetobex/legal-trust-ledger/internal/app"
	"github.com/aldoetobex/legal-trust-ledger/pkg/config"
	"github.com/aldoetobex/legal-trust-ledger/pkg/database"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"

	// Docs
	_ "github.com/aldoetobex/legal-trust-ledger/docs"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults to $CONFIG_PATH)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Open(cfg.Database, cfg.IsProd())
	if err != nil {
		log.Fatal("database open failed", "driver", cfg.Database.Driver, "error", err.Error())
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed", "error", err.Error())
	}

	services := app.New(db, cfg.Billing, log)

	routes := api.Handlers(services, cfg.Billing.Currency, log)
	routes.Swagger = !cfg.IsProd()
	server := api.NewRouter(routes)

	log.Info("server running", "port", cfg.Port, "driver", cfg.Database.Driver, "env", cfg.Env)
	if err := server.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", "error", err.Error())
	}
}
