package planner

// Веса итогового Brain Score
const (
	brainWeightConceptual     = 0.20
	brainWeightProblemSolving = 0.25
	brainWeightConsistency    = 0.15
	brainWeightExamReadiness  = 0.25
	brainWeightGrowth         = 0.15

	growthWindowDays       = 7
	consistencyStreakCap   = 30
	readinessQuestionsGoal = 500
	maxWeeklyDelta         = 5
)

// BrainScoreInput: скалярные поля профиля для расчёта
type BrainScoreInput struct {
	Streak         int
	AvgAccuracy    float64
	TotalQuestions int
}

// CalculateBrainScore считает пятимерную оценку готовности.
// rnd используется только для WeeklyDelta; nil даёт 0.
func CalculateBrainScore(topics []TopicInsight, in BrainScoreInput, rnd Rand) BrainScore {
	if len(topics) == 0 {
		return BrainScore{Trend: TrendStable}
	}

	n := float64(len(topics))
	counts := countByStatus(topics)
	mastered := float64(counts[StatusMastered])
	strong := float64(counts[StatusStrong])

	recent := 0
	for _, t := range topics {
		if t.DaysSincePractice <= growthWindowDays {
			recent++
		}
	}

	dims := BrainDimensions{
		Conceptual:     roundInt(100 * (mastered + strong) / n),
		ProblemSolving: min(100, roundInt(in.AvgAccuracy*1.1)),
		Consistency:    min(100, roundInt(float64(min(in.Streak, consistencyStreakCap))*3.3)),
		ExamReadiness:  min(100, roundInt(examReadinessRaw(mastered/n, in))),
		Growth:         roundInt(100 * float64(recent) / n),
	}

	overall := roundInt(
		brainWeightConceptual*float64(dims.Conceptual) +
			brainWeightProblemSolving*float64(dims.ProblemSolving) +
			brainWeightConsistency*float64(dims.Consistency) +
			brainWeightExamReadiness*float64(dims.ExamReadiness) +
			brainWeightGrowth*float64(dims.Growth),
	)

	trend := trendFor(dims.Growth)

	return BrainScore{
		Overall:     overall,
		Dimensions:  dims,
		Trend:       trend,
		WeeklyDelta: weeklyDelta(trend, rnd),
	}
}

func examReadinessRaw(masteredShare float64, in BrainScoreInput) float64 {
	accuracyPart := in.AvgAccuracy * 0.28
	if in.AvgAccuracy > 70 {
		accuracyPart = 20
	}
	return 50*masteredShare + 30*float64(in.TotalQuestions)/readinessQuestionsGoal + accuracyPart
}

// trendFor: та же лестница, что и trajectory в прогнозе ранга
func trendFor(growth int) Trend {
	switch {
	case growth >= 60:
		return TrendRising
	case growth >= 30:
		return TrendStable
	default:
		return TrendDeclining
	}
}

func weeklyDelta(trend Trend, rnd Rand) int {
	if rnd == nil || trend == TrendStable {
		return 0
	}
	delta := 1 + rnd.IntN(maxWeeklyDelta)
	if trend == TrendDeclining {
		return -delta
	}
	return delta
}
