package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Уровни
// ============================================================================

func TestLevelTable_StrictlyIncreasing(t *testing.T) {
	levels := Levels()
	assert.Len(t, levels, 10)
	for i := 1; i < len(levels); i++ {
		assert.Greater(t, levels[i].Threshold, levels[i-1].Threshold)
		assert.Equal(t, levels[i-1].Level+1, levels[i].Level)
	}
}

func TestGetLevelInfo(t *testing.T) {
	tests := []struct {
		name          string
		xp            int
		level         int
		title         string
		progress      int
		xpToNext      int
		nextThreshold int
		isMax         bool
	}{
		{"старт", 0, 1, "Aspirant", 0, 200, 200, false},
		{"половина первого уровня", 100, 1, "Aspirant", 50, 100, 200, false},
		{"ровно на пороге", 200, 2, "Learner", 0, 300, 500, false},
		{"середина Scholar", 2750, 5, "Scholar", 50, 750, 3500, false},
		{"последний порог", 17000, 10, "Topper", 100, 0, 17000, true},
		{"выше последнего порога", 25000, 10, "Topper", 100, 0, 17000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetLevelInfo(tt.xp)
			assert.Equal(t, tt.level, info.Level)
			assert.Equal(t, tt.title, info.Title)
			assert.Equal(t, tt.progress, info.Progress)
			assert.Equal(t, tt.xpToNext, info.XPToNext)
			assert.Equal(t, tt.nextThreshold, info.NextThreshold)
			assert.Equal(t, tt.isMax, info.IsMaxLevel)
			assert.Equal(t, tt.xp, info.XP)
		})
	}
}

func TestGetLevelInfo_Monotonic(t *testing.T) {
	prev := GetLevelInfo(0)
	for xp := 25; xp <= 20000; xp += 25 {
		info := GetLevelInfo(xp)
		assert.GreaterOrEqual(t, info.Level, prev.Level, "xp %d", xp)
		assert.GreaterOrEqual(t, info.Progress, 0)
		assert.LessOrEqual(t, info.Progress, 100)
		prev = info
	}
}

// ============================================================================
// Этапы подготовки
// ============================================================================

func TestDetectPhase_Ladder(t *testing.T) {
	tests := []struct {
		days     int
		expected ExamPhase
	}{
		{365, PhaseFoundation},
		{200, PhaseFoundation},
		{181, PhaseFoundation},
		{180, PhaseBuilding},
		{121, PhaseBuilding},
		{120, PhaseStrengthening},
		{61, PhaseStrengthening},
		{45, PhaseRevisionSprint},
		{60, PhaseRevisionSprint},
		{31, PhaseRevisionSprint},
		{30, PhaseMockIntensive},
		{15, PhaseMockIntensive},
		{14, PhaseFinalPush},
		{10, PhaseFinalPush},
		{0, PhaseFinalPush},
		{-3, PhaseFinalPush},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DetectPhase(tt.days), "days=%d", tt.days)
	}
}

func TestPhaseSplits_Balanced(t *testing.T) {
	for _, phase := range Phases() {
		split := PhaseSplitFor(phase)
		assert.True(t, split.IsBalanced(), "phase %s sums to %f", phase, split.Sum())
	}
}

func TestPhaseSplitFor_Scenarios(t *testing.T) {
	far := PhaseSplitFor(DetectPhase(200))
	assert.Equal(t, PhaseSplit{DeepStudy: 0.55, Practice: 0.30, Mock: 0.15}, far)

	near := PhaseSplitFor(DetectPhase(10))
	assert.Equal(t, PhaseSplit{DeepStudy: 0.05, Practice: 0.25, Mock: 0.70}, near)

	// Неизвестный этап получает foundation
	assert.Equal(t, far, PhaseSplitFor(ExamPhase("unknown")))
}
