package dlogger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGetLogger(t *testing.T) {
	t.Run("none is a nop logger", func(t *testing.T) {
		l, err := GetLogger(LogLevelNone)
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("debug level", func(t *testing.T) {
		l, err := GetLogger(LogLevelDebug, WithEncoding(EncodingConsole), WithOutput("stderr"))
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("info level", func(t *testing.T) {
		l, err := GetLogger(LogLevelInfo)
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := GetLogger("chatty")
		require.Error(t, err)
		assert.Panics(t, func() { MustGetLogger("chatty") })
	})
}
