package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	logger, err := New("production", "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	_, err = New("development", "loud")
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := WithRequestID(context.Background(), "rid-123")
	FromContext(ctx, base).Info("hello")
	FromContext(context.Background(), base).Info("anon")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "rid-123", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "unknown", entries[1].ContextMap()["request_id"])
}
