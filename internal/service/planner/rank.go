package planner

// Параметры прогноза ранга
const (
	rankRangeLow  = 0.7
	rankRangeHigh = 1.5

	minConfidence = 20
	maxConfidence = 95
)

// Trajectory: траектория ученика в прогнозе ранга
const (
	TrajectoryImproving = "improving"
	TrajectorySteady    = "steady"
	TrajectorySlipping  = "slipping"
)

// PredictRank оценивает балл по предметам и переводит его в ранг по кривой экзамена.
// Неизвестный examID даёт прогноз по DefaultExamID.
func PredictRank(topics []TopicInsight, examID string) RankPrediction {
	exam := examOrDefault(examID)

	estimated := estimateScore(topics, exam)
	rank := InterpolateRank(exam.Curve, exam.CandidatePool, estimated)

	confidence := roundInt(float64(len(topics))*2 + averageAccuracy(topics)*0.5)
	confidence = max(minConfidence, min(maxConfidence, confidence))

	return RankPrediction{
		ExamID:        exam.ID,
		EstimatedRank: rank,
		RankRange: RankRange{
			Min: roundInt(float64(rank) * rankRangeLow),
			Max: roundInt(float64(rank) * rankRangeHigh),
		},
		Confidence:     confidence,
		EstimatedScore: roundInt(estimated),
		MaxScore:       roundInt(exam.MaxScore),
		Trajectory:     trajectoryFor(topics),
		TopColleges:    LookupOutcomes(exam, rank),
	}
}

// estimateScore: сумма (средняя точность предмета/100) × максимум × вес предмета
func estimateScore(topics []TopicInsight, exam ExamConfig) float64 {
	type agg struct {
		sum   float64
		count int
	}

	// Порядок предметов фиксируем, чтобы сумма float была воспроизводимой
	var order []string
	bySubject := make(map[string]*agg)
	for _, t := range topics {
		a, ok := bySubject[t.Subject]
		if !ok {
			a = &agg{}
			bySubject[t.Subject] = a
			order = append(order, t.Subject)
		}
		a.sum += t.Accuracy
		a.count++
	}

	total := 0.0
	for _, subject := range order {
		a := bySubject[subject]
		mean := a.sum / float64(a.count)
		total += (mean / 100) * exam.MaxScore * exam.SubjectWeight(subject)
	}
	return total
}

// InterpolateRank переводит балл в ранг линейной интерполяцией по кривой (по убыванию балла).
// Ниже всех точек кривой возвращается размер пула кандидатов.
func InterpolateRank(curve []CurvePoint, pool int, score float64) int {
	if len(curve) == 0 {
		return pool
	}
	if score >= curve[0].Score {
		return curve[0].Rank
	}

	for i := 0; i < len(curve)-1; i++ {
		hi, lo := curve[i], curve[i+1]
		if score < hi.Score && score >= lo.Score {
			span := hi.Score - lo.Score
			if span <= 0 {
				return lo.Rank
			}
			frac := (hi.Score - score) / span
			return roundInt(float64(hi.Rank) + frac*float64(lo.Rank-hi.Rank))
		}
	}

	return pool
}

// LookupOutcomes возвращает варианты первой корзины, чей порог >= ранга
func LookupOutcomes(exam ExamConfig, rank int) []string {
	for _, bucket := range exam.Outcomes {
		if bucket.MaxRank >= rank {
			out := make([]string, len(bucket.Outcomes))
			copy(out, bucket.Outcomes)
			return out
		}
	}
	return []string{NoOutcomeMessage}
}

func trajectoryFor(topics []TopicInsight) string {
	if len(topics) == 0 {
		return TrajectorySteady
	}
	recent := 0
	for _, t := range topics {
		if t.DaysSincePractice <= growthWindowDays {
			recent++
		}
	}
	switch trendFor(roundInt(100 * float64(recent) / float64(len(topics)))) {
	case TrendRising:
		return TrajectoryImproving
	case TrendStable:
		return TrajectorySteady
	default:
		return TrajectorySlipping
	}
}
