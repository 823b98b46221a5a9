// Package app builds every service over one database connection.
package app

import (
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/internal/billing"
	"github.com/aldoetobex/legal-trust-ledger/internal/cases"
	"github.com/aldoetobex/legal-trust-ledger/internal/invoices"
	"github.com/aldoetobex/legal-trust-ledger/internal/parties"
	"github.com/aldoetobex/legal-trust-ledger/internal/payments"
	"github.com/aldoetobex/legal-trust-ledger/internal/people"
	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/internal/trust"
	"github.com/aldoetobex/legal-trust-ledger/pkg/config"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
)

type App struct {
	Stores   *repos.Stores
	People   people.Service
	Cases    cases.Service
	Parties  parties.Graph
	Billing  billing.Ledger
	Payments payments.Ledger
	Trust    trust.Service
	Invoices invoices.Service
}

func New(db *gorm.DB, cfg config.BillingConfig, log *logger.Logger) *App {
	stores := repos.NewStores(db, log)
	graph := parties.NewGraph(stores, log)
	bl := billing.NewLedger(stores, log)
	pl := payments.NewLedger(stores, log)
	ts := trust.NewService(bl, pl, log)

	return &App{
		Stores:   stores,
		People:   people.NewService(stores, cfg.DefaultRateCents, log),
		Cases:    cases.NewService(stores, graph, cfg.DefaultRateCents, log),
		Parties:  graph,
		Billing:  bl,
		Payments: pl,
		Trust:    ts,
		Invoices: invoices.NewService(stores, graph, bl, ts, log),
	}
}
