package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpv-monitor/gpv/config"
)

func TestNewServiceRejectsInvalidConfig(t *testing.T) {
	cfg := &config.Config{PollIntervalMinutes: 1}
	_, err := NewService(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll_interval_minutes")
}

func TestServiceImplementsStore(t *testing.T) {
	cfg := &config.Config{Queues: []string{"6.2", "3.1"}}
	svc, err := NewService(cfg)
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, []string{"6.2", "3.1"}, svc.Queues())

	snap, ok := svc.Snapshot("3.1")
	require.True(t, ok)
	assert.Equal(t, "3.1", snap.Queue)
	assert.Equal(t, "empty", snap.State)

	_, ok = svc.Snapshot("9.9")
	assert.False(t, ok)
}
