package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fixedRand всегда возвращает n по модулю границы
type fixedRand struct{ n int }

func (r fixedRand) IntN(limit int) int { return r.n % limit }

// scenarioTopics: 12 тем: 3 mastered, 4 strong, 3 developing, 2 weak;
// 8 из них практиковались в последние 7 дней
func scenarioTopics() []TopicInsight {
	return []TopicInsight{
		topic("Physics", "Mechanics", "Kinematics", StatusMastered, 94, 30, 1),
		topic("Physics", "Mechanics", "Laws of Motion", StatusMastered, 92, 25, 2),
		topic("Mathematics", "Algebra", "Quadratics", StatusMastered, 91, 40, 3),
		topic("Physics", "Optics", "Lenses", StatusStrong, 80, 12, 4),
		topic("Chemistry", "Organic", "Alkanes", StatusStrong, 78, 10, 5),
		topic("Chemistry", "Physical", "Mole Concept", StatusStrong, 82, 14, 6),
		topic("Mathematics", "Calculus", "Limits", StatusStrong, 76, 9, 7),
		topic("Mathematics", "Calculus", "Integrals", StatusDeveloping, 62, 20, 2),
		topic("Chemistry", "Inorganic", "Periodic Table", StatusDeveloping, 55, 18, 12),
		topic("Physics", "Waves", "Sound", StatusDeveloping, 58, 11, 15),
		topic("Mathematics", "Vectors", "3D Geometry", StatusWeak, 38, 16, 20),
		topic("Chemistry", "Organic", "Aldehydes", StatusWeak, 42, 8, 25),
	}
}

func TestCalculateBrainScore_Scenario(t *testing.T) {
	topics := scenarioTopics()
	in := BrainScoreInput{Streak: 10, AvgAccuracy: 72, TotalQuestions: 600}

	score := CalculateBrainScore(topics, in, nil)

	assert.Equal(t, 58, score.Dimensions.Conceptual, "round(100×7/12)")
	assert.Equal(t, 79, score.Dimensions.ProblemSolving, "round(72×1.1)")
	assert.Equal(t, 33, score.Dimensions.Consistency, "round(10×3.3)")
	assert.Equal(t, 69, score.Dimensions.ExamReadiness, "round(12.5 + 36 + 20)")
	assert.Equal(t, 67, score.Dimensions.Growth, "round(100×8/12)")
	// 0.20·58 + 0.25·79 + 0.15·33 + 0.25·69 + 0.15·67 = 63.6
	assert.Equal(t, 64, score.Overall)
	assert.Equal(t, TrendRising, score.Trend)
	assert.Equal(t, 0, score.WeeklyDelta, "без источника случайности дельта нулевая")

	// Этап определяется лестницей: 45 дней → revision-sprint
	assert.Equal(t, PhaseRevisionSprint, DetectPhase(45))
}

func TestCalculateBrainScore_EmptyTopics(t *testing.T) {
	score := CalculateBrainScore(nil, BrainScoreInput{Streak: 12, AvgAccuracy: 90, TotalQuestions: 1000}, fixedRand{n: 3})

	assert.Equal(t, BrainScore{Trend: TrendStable}, score)
}

func TestCalculateBrainScore_Caps(t *testing.T) {
	topics := []TopicInsight{topic("Physics", "Mechanics", "Kinematics", StatusMastered, 100, 50, 0)}

	score := CalculateBrainScore(topics, BrainScoreInput{Streak: 365, AvgAccuracy: 100, TotalQuestions: 5000}, nil)

	assert.Equal(t, 100, score.Dimensions.ProblemSolving)
	assert.Equal(t, 99, score.Dimensions.Consistency, "streak обрезается до 30: round(30×3.3)")
	assert.Equal(t, 100, score.Dimensions.ExamReadiness)
	assert.Equal(t, 100, score.Dimensions.Conceptual)
	assert.Equal(t, 100, score.Dimensions.Growth)
}

func TestTrendFor(t *testing.T) {
	assert.Equal(t, TrendRising, trendFor(60))
	assert.Equal(t, TrendStable, trendFor(59))
	assert.Equal(t, TrendStable, trendFor(30))
	assert.Equal(t, TrendDeclining, trendFor(29))
}

func TestWeeklyDelta(t *testing.T) {
	assert.Equal(t, 0, weeklyDelta(TrendRising, nil))
	assert.Equal(t, 0, weeklyDelta(TrendStable, fixedRand{n: 4}))
	assert.Equal(t, 3, weeklyDelta(TrendRising, fixedRand{n: 2}))
	assert.Equal(t, -1, weeklyDelta(TrendDeclining, fixedRand{n: 0}))

	for n := 0; n < 20; n++ {
		d := weeklyDelta(TrendRising, fixedRand{n: n})
		assert.GreaterOrEqual(t, d, 1)
		assert.LessOrEqual(t, d, maxWeeklyDelta)
	}
}
