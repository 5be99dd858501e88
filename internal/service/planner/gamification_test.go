package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Достижения
// ============================================================================

func TestAchievementDefinitions_UniqueIDs(t *testing.T) {
	defs := AchievementDefinitions()
	require.Len(t, defs, 13)

	seen := make(map[string]bool)
	for _, d := range defs {
		assert.False(t, seen[d.ID], "дубликат id %s", d.ID)
		seen[d.ID] = true
		assert.Greater(t, d.Threshold, 0.0, d.ID)
		assert.Greater(t, d.XPReward, 0, d.ID)
	}
}

func findAchievement(t *testing.T, list []Achievement, id string) Achievement {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("достижение %s не найдено", id)
	return Achievement{}
}

func TestComputeAchievements_Fresh(t *testing.T) {
	stats := AchievementStats{Streak: 3, TotalQuestions: 120, Accuracy: 65, Mastered: 1, Level: 2, TasksCompleted: 1}

	list := ComputeAchievements(stats, nil)

	require.Len(t, list, 13)
	assert.True(t, findAchievement(t, list, "first-task").Unlocked)
	assert.True(t, findAchievement(t, list, "streak-3").Unlocked)
	assert.True(t, findAchievement(t, list, "questions-100").Unlocked)

	streak7 := findAchievement(t, list, "streak-7")
	assert.False(t, streak7.Unlocked)
	assert.Equal(t, 42, streak7.Progress, "3 из 7")

	assert.False(t, findAchievement(t, list, "accuracy-80").Unlocked)
	assert.Equal(t, 100, findAchievement(t, list, "streak-3").Progress)
}

func TestComputeAchievements_Monotonic(t *testing.T) {
	// Серия прервалась, но ранее полученное достижение остаётся
	list := ComputeAchievements(AchievementStats{}, []string{"streak-7", "accuracy-80"})

	assert.True(t, findAchievement(t, list, "streak-7").Unlocked)
	assert.True(t, findAchievement(t, list, "accuracy-80").Unlocked)
	assert.False(t, findAchievement(t, list, "streak-3").Unlocked)
	assert.Equal(t, 0, findAchievement(t, list, "streak-3").Progress)
}

func TestComputeAchievements_LockedProgressBelow100(t *testing.T) {
	// Дробный порог не должен показывать 100% у закрытого достижения
	list := ComputeAchievements(AchievementStats{Accuracy: 79.99}, nil)

	acc := findAchievement(t, list, "accuracy-80")
	assert.False(t, acc.Unlocked)
	assert.Equal(t, 99, acc.Progress)
}

func TestNewlyUnlocked(t *testing.T) {
	previous := []string{"streak-3"}
	list := ComputeAchievements(AchievementStats{Streak: 7, TasksCompleted: 2}, previous)

	fresh := NewlyUnlocked(list, previous)

	assert.ElementsMatch(t, []string{"first-task", "streak-7"}, fresh)
}

// ============================================================================
// Челлендж дня
// ============================================================================

func TestPickDailyChallenge_Deterministic(t *testing.T) {
	first := PickDailyChallenge("2025-01-10")
	second := PickDailyChallenge("2025-01-10")

	assert.Equal(t, first, second)
	// 2025 + 1 + 10 = 2036, 2036 mod 7 = 6
	assert.Equal(t, "2025-01-10_mixed-mock", first.ID)
	assert.Equal(t, "2025-01-10", first.Date)
	assert.Equal(t, "Finish a 30-question mixed mock without skipping", first.Description)
}

func TestPickDailyChallenge_CyclesTemplates(t *testing.T) {
	// 2025 + 1 + 11 = 2037 → 0
	assert.Equal(t, "2025-01-11_speed-round", PickDailyChallenge("2025-01-11").ID)

	seen := make(map[string]bool)
	for day := 11; day < 11+ChallengeTemplateCount(); day++ {
		c := PickDailyChallenge("2025-01-" + itoa2(day))
		seen[c.Title] = true
	}
	assert.Len(t, seen, ChallengeTemplateCount(), "семь подряд идущих дат дают все шаблоны")
}

func itoa2(n int) string {
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

// ============================================================================
// Приветствие и мотивация
// ============================================================================

func TestGetGreeting(t *testing.T) {
	tests := []struct {
		hour     int
		name     string
		expected string
	}{
		{5, "Asha", "Good morning, Asha"},
		{11, "Asha", "Good morning, Asha"},
		{12, "Asha", "Good afternoon, Asha"},
		{17, "Asha", "Good evening, Asha"},
		{21, "Asha", "Burning the midnight oil, Asha"},
		{2, "", "Burning the midnight oil"},
		{9, "  ", "Good morning"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetGreeting(tt.hour, tt.name), "hour=%d", tt.hour)
	}
}

func TestMotivationPoolFor_Ladder(t *testing.T) {
	tests := []struct {
		name     string
		in       MotivationInput
		expected motivationPool
	}{
		{"экзамен близко важнее всего", MotivationInput{DaysToExam: 30, Streak: 40, Accuracy: 95}, poolExamClose},
		{"длинная серия", MotivationInput{DaysToExam: 90, Streak: 14, Accuracy: 20}, poolHighStreak},
		{"средняя серия", MotivationInput{DaysToExam: 90, Streak: 5, Accuracy: 95}, poolMidStreak},
		{"высокая точность", MotivationInput{DaysToExam: 90, Streak: 1, Accuracy: 80}, poolHighAccuracy},
		{"низкая точность", MotivationInput{DaysToExam: 90, Streak: 1, Accuracy: 49}, poolLowAccuracy},
		{"общий пул", MotivationInput{DaysToExam: 90, Streak: 1, Accuracy: 60}, poolGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, motivationPoolFor(tt.in))
		})
	}
}

func TestPickMotivation(t *testing.T) {
	in := MotivationInput{DaysToExam: 90, Streak: 1, Accuracy: 60}
	pool := motivationPools[poolGeneral]

	assert.Equal(t, pool[0], PickMotivation(in, nil), "без источника случайности берётся первая фраза")
	assert.Equal(t, pool[1], PickMotivation(in, fixedRand{n: 1}))

	for n := 0; n < 10; n++ {
		assert.Contains(t, pool, PickMotivation(in, fixedRand{n: n}))
	}
}
