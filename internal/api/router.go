package api

import (
	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/gofiber/swagger"

	"github.com/aldoetobex/legal-trust-ledger/internal/app"
	"github.com/aldoetobex/legal-trust-ledger/internal/billing"
	"github.com/aldoetobex/legal-trust-ledger/internal/cases"
	"github.com/aldoetobex/legal-trust-ledger/internal/invoices"
	"github.com/aldoetobex/legal-trust-ledger/internal/parties"
	"github.com/aldoetobex/legal-trust-ledger/internal/payments"
	"github.com/aldoetobex/legal-trust-ledger/internal/people"
	"github.com/aldoetobex/legal-trust-ledger/internal/trust"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
)

type RouterConfig struct {
	People   *people.Handler
	Cases    *cases.Handler
	Parties  *parties.Handler
	Billing  *billing.Handler
	Payments *payments.Handler
	Trust    *trust.Handler
	Invoices *invoices.Handler

	Log     *logger.Logger
	Swagger bool
}

// Handlers builds one handler per service.
func Handlers(a *app.App, currency string, log *logger.Logger) RouterConfig {
	return RouterConfig{
		People:   people.NewHandler(a.People),
		Cases:    cases.NewHandler(a.Cases),
		Parties:  parties.NewHandler(a.Parties),
		Billing:  billing.NewHandler(a.Billing),
		Payments: payments.NewHandler(a.Payments),
		Trust:    trust.NewHandler(a.Trust),
		Invoices: invoices.NewHandler(a.Invoices, currency),
		Log:      log,
	}
}

// NewRouter registers every route. Static paths come before parameterized
// ones so /:id never shadows them.
func NewRouter(cfg RouterConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(cfg.Log),
	})
	app.Use(RequestLogger(cfg.Log))

	app.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	if cfg.Swagger {
		app.Get("/swagger/*", fiberSwagger.HandlerDefault)
	}

	api := app.Group("/api")

	// People
	api.Get("/clients", cfg.People.Clients)
	api.Get("/people/duplicates", cfg.People.Duplicates)
	api.Get("/people", cfg.People.List)
	api.Post("/people", cfg.People.Create)
	api.Get("/people/:id", cfg.People.Get)
	api.Put("/people/:id", cfg.People.Update)
	api.Delete("/people/:id", cfg.People.Delete)
	api.Get("/people/:id/cases", cfg.Cases.ListForPerson)
	api.Get("/people/:id/client-cases", cfg.Cases.ListByClient)
	api.Get("/people/:id/payments", cfg.Payments.ListByPerson)
	api.Get("/people/:id/payments/totals", cfg.Payments.ClientTotals)

	// Cases
	api.Get("/matter-number", cfg.Cases.MatterNumber)
	api.Get("/cases", cfg.Cases.List)
	api.Post("/cases", cfg.Cases.Create)
	api.Get("/cases/:id", cfg.Cases.Get)
	api.Put("/cases/:id", cfg.Cases.Update)
	api.Delete("/cases/:id", cfg.Cases.Delete)

	// Parties
	api.Get("/cases/:id/summary", cfg.Parties.Summary)
	api.Get("/cases/:id/members", cfg.Parties.Members)
	api.Post("/cases/:id/parties", cfg.Parties.Add)
	api.Put("/cases/:id/client", cfg.Parties.SetClient)
	api.Put("/cases/:id/designation", cfg.Parties.SetDesignation)
	api.Post("/cases/:id/parties/:personID/clear-pro-se", cfg.Parties.ClearProSe)
	api.Delete("/parties/:id", cfg.Parties.Remove)

	// Billing
	api.Get("/cases/:id/billing/totals", cfg.Billing.Totals)
	api.Get("/cases/:id/billing/period", cfg.Billing.Period)
	api.Get("/cases/:id/billing", cfg.Billing.List)
	api.Post("/cases/:id/billing", cfg.Billing.Append)
	api.Get("/billing/:id", cfg.Billing.Get)
	api.Put("/billing/:id", cfg.Billing.Update)
	api.Delete("/billing/:id", cfg.Billing.Delete)
	api.Post("/billing/:id/move-up", cfg.Billing.MoveUp)
	api.Post("/billing/:id/move-down", cfg.Billing.MoveDown)

	// Payments
	api.Get("/cases/:id/payments/totals", cfg.Payments.CaseTotals)
	api.Get("/cases/:id/payments", cfg.Payments.ListByCase)
	api.Post("/payments", cfg.Payments.Create)
	api.Get("/payments/:id", cfg.Payments.Get)
	api.Put("/payments/:id", cfg.Payments.Update)
	api.Delete("/payments/:id", cfg.Payments.Delete)

	// Trust and invoices
	api.Post("/trust/reconcile", cfg.Trust.Reconcile)
	api.Get("/cases/:id/trust", cfg.Trust.CaseTrust)
	api.Get("/cases/:id/invoice", cfg.Invoices.Prepare)

	return app
}
