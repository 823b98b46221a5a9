package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func Test_Logger_RedactsContactFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With("service", "people")

	l.Info("person created",
		"person_id", "p-1",
		"email", "jane@example.com",
		"phone", "",
		"note", "call back at 555-123-4567",
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "people", fields["service"])
	assert.Equal(t, "p-1", fields["person_id"])
	assert.Equal(t, "[REDACTED]", fields["email"])
	assert.Equal(t, "", fields["phone"])
	assert.Equal(t, "call back at [redacted phone]", fields["note"])
}

func Test_Logger_OddKeyValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.Warn("dangling", "case_id")
	assert.Equal(t, 1, logs.FilterMessage("dangling").Len())
}

func Test_New_RejectsUnknownLevel(t *testing.T) {
	_, err := New("dev", "loud")
	require.Error(t, err)

	l, err := New("prod", "warn")
	require.NoError(t, err)
	assert.NotNil(t, l.SugaredLogger)
}
