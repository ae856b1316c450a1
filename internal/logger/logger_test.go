package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", ""} {
		l, err := NewLogger(env, "", "")
		require.NoError(t, err, env)
		require.NotNil(t, l)
	}
	_, err := NewLogger("staging", "", "")
	assert.Error(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	l, err := NewLogger("prod", "warn", "")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	_, err = NewLogger("prod", "loud", "")
	assert.Error(t, err)
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisor.log")
	l, err := NewLogger("prod", "info", path)
	require.NoError(t, err)
	l.Info("hello", zap.String("k", "v"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"hello"`))
}

func TestFromContext(t *testing.T) {
	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx, nil))
	assert.NotNil(t, FromContext(context.Background(), nil))

	fb := zap.NewNop()
	assert.Same(t, fb, FromContext(context.Background(), fb))
}
