package invoices

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/aldoetobex/legal-trust-ledger/internal/trust"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
	"github.com/aldoetobex/legal-trust-ledger/pkg/money"
)

//go:embed templates/*.md
var templates embed.FS

var invoiceTmpl = template.Must(template.New("invoice.md").Funcs(template.FuncMap{
	"money":       money.Format,
	"entryDate":   entryDate,
	"entryHours":  entryHours,
	"entryAmount": entryAmount,
	"cell":        cell,
	"final":       func(m trust.Mode) bool { return m == trust.ModeFinal },
}).ParseFS(templates, "templates/invoice.md"))

type view struct {
	*Invoice
	Currency string
}

// Markdown renders the invoice as a markdown document in currency.
func Markdown(inv *Invoice, currency string) (string, error) {
	var b strings.Builder
	if err := invoiceTmpl.Execute(&b, view{Invoice: inv, Currency: currency}); err != nil {
		return "", fmt.Errorf("render invoice: %w", err)
	}
	return b.String(), nil
}

func entryDate(e models.BillingEntry) string {
	return time.Time(e.EntryDate).Format(time.DateOnly)
}

func entryHours(e models.BillingEntry) string {
	if e.IsExpense || e.Hours == nil {
		return ""
	}
	return e.Hours.StringFixed(2)
}

// entryAmount is the expense amount, or the entry's hours at rateCents.
func entryAmount(e models.BillingEntry, rateCents int64, currency string) string {
	var cents int64
	switch {
	case e.IsExpense && e.AmountCents != nil:
		cents = *e.AmountCents
	case !e.IsExpense && e.Hours != nil:
		cents = money.FeeCents(*e.Hours, rateCents)
	}
	return money.Format(cents, currency)
}

// cell keeps free text from breaking a markdown table row.
func cell(s string) string {
	return strings.NewReplacer("|", `\|`, "\r", " ", "\n", " ").Replace(s)
}
