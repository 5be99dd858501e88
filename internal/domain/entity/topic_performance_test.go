package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicPerformance_RecordAttempt(t *testing.T) {
	at := time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC)
	p := &TopicPerformance{Subject: "Physics", Topic: "Kinematics"}

	assert.Equal(t, 0, p.Attempts())
	assert.Equal(t, 0.0, p.AccuracyOrZero())

	// Первый подход: 6 из 10
	p.RecordAttempt(10, 6, at)
	require.NotNil(t, p.Accuracy)
	assert.Equal(t, 60.0, *p.Accuracy)
	assert.Equal(t, 10, p.Attempts())
	assert.Equal(t, 0, *p.StuckDays, "первый подход не считается застреванием")
	assert.Equal(t, at, *p.LastPracticed)

	// Хуже прежнего: 2 из 10 → 8/20 = 40%
	p.RecordAttempt(10, 2, at.AddDate(0, 0, 1))
	assert.Equal(t, 40.0, *p.Accuracy)
	assert.Equal(t, 1, *p.StuckDays)

	// Рост точности сбрасывает счётчик: 18/30 = 60%
	p.RecordAttempt(10, 10, at.AddDate(0, 0, 2))
	assert.Equal(t, 60.0, *p.Accuracy)
	assert.Equal(t, 0, *p.StuckDays)
	assert.Equal(t, 18, p.CorrectAnswers)
	assert.Equal(t, 30, p.Attempts())
}
