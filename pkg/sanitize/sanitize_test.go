package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_RedactPII(t *testing.T) {
	got := RedactPII("call 555-123-4567 or mail jane.doe@example.com")
	assert.NotContains(t, got, "555-123-4567")
	assert.NotContains(t, got, "@example.com")
	assert.Contains(t, got, "[redacted phone]")
	assert.Contains(t, got, "[redacted email]")
}

func Test_RedactPII_LeavesDatesAndAmounts(t *testing.T) {
	in := "hearing on 2024-03-05, retainer 1500.00"
	assert.Equal(t, in, RedactPII(in))
}

func Test_Summary(t *testing.T) {
	assert.Equal(t, "short", Summary("short", 10))

	got := Summary("drafted motion to compel discovery responses", 20)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len(strings.TrimSuffix(got, "…")), 20)
}
