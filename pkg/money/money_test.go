package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func Test_Format(t *testing.T) {
	assert.Equal(t, "$1,050.00", Format(105000, "USD"))
	assert.Equal(t, "$150.00", Format(15000, ""))
	assert.Equal(t, "$0.00", Format(0, "USD"))
}

func Test_FeeCents(t *testing.T) {
	assert.Equal(t, int64(105000), FeeCents(decimal.RequireFromString("3.5"), 30000))
	// 0.33h at $125.55/h = 4143.15 cents
	assert.Equal(t, int64(4143), FeeCents(decimal.RequireFromString("0.33"), 12555))
	assert.Equal(t, int64(0), FeeCents(decimal.Zero, 30000))
}
