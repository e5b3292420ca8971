package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lvl, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lvl)
		})
	}
}

func TestDefaultLevel(t *testing.T) {
	t.Setenv(LevelEnv, "")
	assert.Equal(t, "info", DefaultLevel())
	t.Setenv(LevelEnv, "debug")
	assert.Equal(t, "debug", DefaultLevel())
}

func TestNew(t *testing.T) {
	for _, format := range []string{"console", "json", "minimal"} {
		t.Run(format, func(t *testing.T) {
			l, err := New("debug", format)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
		})
	}

	_, err := New("info", "xml")
	assert.ErrorContains(t, err, "--log-format")
	_, err = New("loud", "json")
	assert.ErrorContains(t, err, "--log-level")
}
