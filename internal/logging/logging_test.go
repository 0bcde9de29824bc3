package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_Modes(t *testing.T) {
	tests := []struct {
		mode, level string
		lowest      zapcore.Level
	}{
		{"dev", "debug", zap.DebugLevel},
		{"prod", "info", zap.InfoLevel},
		{"", "", zap.WarnLevel},
	}
	for _, tt := range tests {
		l, err := New(tt.mode, tt.level)
		require.NoError(t, err, tt.mode)
		assert.True(t, l.Core().Enabled(tt.lowest), "mode %q level %q", tt.mode, tt.level)
		assert.False(t, l.Core().Enabled(tt.lowest-1), "mode %q level %q", tt.mode, tt.level)
	}
}

func TestNew_Off(t *testing.T) {
	l, err := New("off", "debug")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.ErrorLevel))
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("syslog", "")
	assert.Error(t, err)
	_, err = New("dev", "loud")
	assert.Error(t, err)
}
