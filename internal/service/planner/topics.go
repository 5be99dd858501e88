package planner

import (
	"math"
	"sort"
	"time"
)

// Веса priorityScore
const (
	priorityWeightAccuracy = 0.45
	priorityWeightStale    = 0.35
	priorityWeightAttempts = 0.20

	staleCapDays   = 30
	attemptsTarget = 20
)

// AnalyzeTopics превращает сырые строки статистики в отсортированный по срочности список тем.
// now: момент, от которого считается давность практики.
func AnalyzeTopics(rows []PerformanceRow, now time.Time) []TopicInsight {
	insights := make([]TopicInsight, 0, len(rows))

	for _, row := range rows {
		accuracy := 0.0
		if row.Accuracy != nil {
			accuracy = *row.Accuracy
		}
		attempts := 0
		if row.QuestionsAttempted != nil {
			attempts = *row.QuestionsAttempted
		}
		stuck := 0
		if row.StuckDays != nil {
			stuck = *row.StuckDays
		}

		days := DefaultDaysSincePractice
		if row.LastPracticed != nil {
			days = DaysBetween(*row.LastPracticed, now)
		}

		insights = append(insights, TopicInsight{
			Subject:            row.Subject,
			Chapter:            row.Chapter,
			Topic:              row.Topic,
			Accuracy:           accuracy,
			QuestionsAttempted: attempts,
			Status:             ClassifyStatus(accuracy, attempts),
			DaysSincePractice:  days,
			PriorityScore:      PriorityScore(accuracy, days, attempts),
			StuckDays:          stuck,
		})
	}

	// Стабильная сортировка: при равенстве сохраняется порядок строк
	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].PriorityScore > insights[j].PriorityScore
	})

	return insights
}

// ClassifyStatus определяет статус темы. Порядок проверок важен.
func ClassifyStatus(accuracy float64, attempts int) TopicStatus {
	switch {
	case accuracy >= 90 && attempts >= 15:
		return StatusMastered
	case accuracy >= 75 && attempts >= 8:
		return StatusStrong
	case accuracy >= 50:
		return StatusDeveloping
	case attempts == 0:
		return StatusNotStarted
	default:
		return StatusWeak
	}
}

// PriorityScore: взвешенная срочность темы, чем больше, тем срочнее
func PriorityScore(accuracy float64, daysSincePractice, attempts int) int {
	stale := min(daysSincePractice, staleCapDays)
	missingAttempts := max(0, attemptsTarget-attempts)

	score := priorityWeightAccuracy*(100-accuracy) +
		priorityWeightStale*float64(stale) +
		priorityWeightAttempts*float64(missingAttempts)

	return roundInt(score)
}

// DaysBetween возвращает целое число дней от from до to (не меньше 0)
func DaysBetween(from, to time.Time) int {
	diff := to.Sub(from)
	if diff <= 0 {
		return 0
	}
	return int(diff.Hours() / 24)
}

// roundInt округляет половину вверх, как Math.round
func roundInt(v float64) int {
	return int(math.Floor(v + 0.5))
}

// averageAccuracy: средняя точность по темам, 0 для пустого списка
func averageAccuracy(topics []TopicInsight) float64 {
	if len(topics) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range topics {
		sum += t.Accuracy
	}
	return sum / float64(len(topics))
}

// countByStatus считает темы по статусам
func countByStatus(topics []TopicInsight) map[TopicStatus]int {
	counts := make(map[TopicStatus]int, 5)
	for _, t := range topics {
		counts[t.Status]++
	}
	return counts
}

// topicKey: ключ уникальности темы в пределах дня
func topicKey(subject, topic string) string {
	return subject + "::" + topic
}
