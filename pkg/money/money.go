package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format renders whole cents in the currency's display form, e.g. "$1,050.00".
func Format(cents int64, currency string) string {
	if currency == "" {
		currency = gomoney.USD
	}
	return gomoney.New(cents, currency).Display()
}

// FeeCents prices hours at rateCents per hour, rounded half away from zero to a cent.
func FeeCents(hours decimal.Decimal, rateCents int64) int64 {
	return hours.Mul(decimal.NewFromInt(rateCents)).Round(0).IntPart()
}
