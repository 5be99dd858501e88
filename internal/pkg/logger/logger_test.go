package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"development", "production", "prod", ""} {
		l, err := New(mode, "info")
		require.NoError(t, err, mode)
		assert.NotNil(t, l.SugaredLogger)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("development", "loud")
	assert.Error(t, err)
}

func TestComponent_AddsField(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Component("StudyService").Info("plan generated", "user_id", 7)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "plan generated", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "StudyService", fields["component"])
	assert.EqualValues(t, 7, fields["user_id"])
}
