package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSubjectBreakdowns(t *testing.T) {
	breakdowns := GetSubjectBreakdowns(sampleTopics())

	require.Len(t, breakdowns, 4)
	assert.Equal(t, "Biology", breakdowns[0].Subject)
	assert.Equal(t, "Physics", breakdowns[1].Subject)
	assert.Equal(t, "Chemistry", breakdowns[2].Subject)
	assert.Equal(t, "Mathematics", breakdowns[3].Subject)

	assert.Equal(t, 35.0, breakdowns[1].AverageAccuracy)
	assert.Equal(t, 2, breakdowns[1].Weak)
	assert.Equal(t, 20, breakdowns[1].TotalQuestions)

	math := breakdowns[3]
	assert.Equal(t, 84.3, math.AverageAccuracy)
	assert.Equal(t, 3, math.TopicCount)
	assert.Equal(t, 2, math.Strong)
	assert.Equal(t, 1, math.Mastered)

	assert.Equal(t, 1, breakdowns[0].NotStarted)
}

func TestGetSubjectBreakdowns_Empty(t *testing.T) {
	assert.Empty(t, GetSubjectBreakdowns(nil))
}

func TestGetChapterPriorities(t *testing.T) {
	priorities := GetChapterPriorities(sampleTopics())

	require.Len(t, priorities, 7)

	expected := []struct {
		chapter string
		score   int
	}{
		{"Mechanics", 85},    // 50×1 + 0.5×70
		{"Optics", 80},       // 50×1 + 0.5×60
		{"Cell Biology", 50}, // not-started не считается weak
		{"Organic", 20},
		{"Physical", 18}, // 17.5 → 18
		{"Algebra", 11},
		{"Calculus", 6}, // (80+95)/2 = 87.5 → 6.25
	}
	for i, e := range expected {
		assert.Equal(t, e.chapter, priorities[i].Chapter, "позиция %d", i)
		assert.Equal(t, e.score, priorities[i].Score, e.chapter)
	}

	calculus := priorities[6]
	assert.Equal(t, 2, calculus.TotalTopics)
	assert.Equal(t, 0, calculus.WeakTopics)
	assert.Equal(t, 87.5, calculus.AverageAccuracy)
}

func TestGetChapterPriorities_MixedChapter(t *testing.T) {
	topics := []TopicInsight{
		topic("Physics", "Mechanics", "Kinematics", StatusWeak, 40, 10, 3),
		topic("Physics", "Mechanics", "Friction", StatusDeveloping, 60, 10, 3),
	}

	priorities := GetChapterPriorities(topics)

	require.Len(t, priorities, 1)
	// 50×0.5 + 0.5×(100−50) = 50
	assert.Equal(t, 50, priorities[0].Score)
	assert.Equal(t, 1, priorities[0].WeakTopics)
}

// ============================================================================
// Победы недели
// ============================================================================

func TestDetectWeeklyWins_AllRules(t *testing.T) {
	wins := DetectWeeklyWins(sampleTopics(), WinsInput{Streak: 8, TotalQuestions: 650, AvgAccuracy: 82})

	require.Len(t, wins, 4)
	assert.Equal(t, "mastery", wins[0].Kind)
	assert.Equal(t, "Mastered Integrals", wins[0].Title)
	assert.Equal(t, "streak", wins[1].Kind)
	assert.Equal(t, "8-day streak", wins[1].Title)
	assert.Equal(t, "questions", wins[2].Kind)
	assert.Equal(t, "500+ questions solved", wins[2].Title)
	assert.Equal(t, "accuracy", wins[3].Kind)
}

func TestDetectWeeklyWins_Capped(t *testing.T) {
	topics := scenarioTopics()

	wins := DetectWeeklyWins(topics, WinsInput{Streak: 30, TotalQuestions: 5000, AvgAccuracy: 95})

	assert.Len(t, wins, MaxWeeklyWins)
	mastery := 0
	for _, w := range wins {
		if w.Kind == "mastery" {
			mastery++
		}
	}
	assert.Equal(t, maxMasteryCallouts, mastery)
	assert.Equal(t, "1000+ questions solved", wins[3].Title)
}

func TestDetectWeeklyWins_LesserStreak(t *testing.T) {
	wins := DetectWeeklyWins(nil, WinsInput{Streak: 3, TotalQuestions: 99, AvgAccuracy: 79.9})

	require.Len(t, wins, 1)
	assert.Equal(t, "3 days in a row", wins[0].Title)
}

func TestDetectWeeklyWins_Nothing(t *testing.T) {
	wins := DetectWeeklyWins(nil, WinsInput{})
	assert.NotNil(t, wins)
	assert.Empty(t, wins)
}

// ============================================================================
// PlannerStats
// ============================================================================

func TestComputePlannerStats(t *testing.T) {
	stats := ComputePlannerStats(sampleTopics(), StatsInput{XP: 2750, Streak: 6, LongestStreak: 4})

	assert.Equal(t, 8, stats.TotalTopics)
	assert.Equal(t, 1, stats.Mastered)
	assert.Equal(t, 2, stats.Strong)
	assert.Equal(t, 2, stats.Developing)
	assert.Equal(t, 2, stats.Weak)
	assert.Equal(t, 1, stats.NotStarted)
	assert.Equal(t, 84, stats.TotalQuestions)
	assert.Equal(t, 6, stats.StaleTopics)
	assert.Equal(t, "Biology", stats.WeakestSubject)
	assert.Equal(t, "Mathematics", stats.StrongestSubject)
	assert.Equal(t, 6, stats.CurrentStreak)
	assert.Equal(t, 6, stats.LongestStreak, "текущая серия длиннее сохранённой")
	assert.Equal(t, 5, stats.Level.Level)
	// (30+40+60+65+80+78+95+0)/8 = 56
	assert.Equal(t, 56.0, stats.AverageAccuracy)
}

func TestComputePlannerStats_Empty(t *testing.T) {
	stats := ComputePlannerStats(nil, StatsInput{})

	assert.Equal(t, 0, stats.TotalTopics)
	assert.Equal(t, 0.0, stats.AverageAccuracy)
	assert.Equal(t, "", stats.WeakestSubject)
	assert.Equal(t, 1, stats.Level.Level)
}

func TestProfileHelpers(t *testing.T) {
	topics := sampleTopics()
	assert.Equal(t, 84, TotalQuestions(topics))
	assert.Equal(t, 56.0, AverageAccuracy(topics))
	assert.Equal(t, 1, MasteredCount(topics))
}
