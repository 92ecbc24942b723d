package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"defaults", NewDefaultConfig(), false},
		{"json debug", &Config{Level: "debug", Format: FormatJSON}, false},
		{"bad level", &Config{Level: "loud", Format: FormatJSON}, true},
		{"bad format", &Config{Level: "info", Format: "xml"}, true},
		{"nil", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLoggerRejectsInvalidConfig(t *testing.T) {
	_, err := NewLogger(&Config{Level: "info", Format: "xml"})
	require.Error(t, err)
}

func TestNewLoggerLevel(t *testing.T) {
	l, err := NewLogger(&Config{Level: "warn", Format: FormatJSON})
	require.NoError(t, err)
	assert.False(t, l.Enabled(zapcore.InfoLevel))
	assert.True(t, l.Enabled(zapcore.WarnLevel))
}

func TestDefaultIsNopUntilSet(t *testing.T) {
	t.Cleanup(func() { SetDefault(nil) })

	SetDefault(nil)
	require.NotNil(t, Default())
	assert.False(t, Default().Enabled(zapcore.ErrorLevel))

	l, observed := NewObserved()
	SetDefault(l)
	Default().Info(context.Background(), "hello", zap.String("k", "v"))

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0].Message)
	assert.Equal(t, "v", entries[0].ContextMap()["k"])
}

func TestContextFieldsCarrySpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	l, observed := NewObserved()
	l.Named("screen").With(zap.String("screen", "Home")).Debug(ctx, "activating")

	entries := observed.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
	assert.Equal(t, "Home", fields["screen"])
	assert.Equal(t, "screen", entries[0].LoggerName)
}

func TestContextFieldsWithoutSpan(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}
