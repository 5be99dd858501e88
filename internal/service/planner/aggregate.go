package planner

import (
	"fmt"
	"math"
	"sort"
)

// MaxWeeklyWins: верхняя граница списка побед недели
const MaxWeeklyWins = 5

// maxMasteryCallouts: сколько освоенных тем упоминать поимённо
const maxMasteryCallouts = 2

// GetSubjectBreakdowns группирует темы по предмету, самый слабый предмет первым
func GetSubjectBreakdowns(topics []TopicInsight) []SubjectBreakdown {
	var order []string
	sums := make(map[string]float64)
	bySubject := make(map[string]*SubjectBreakdown)

	for _, t := range topics {
		b, ok := bySubject[t.Subject]
		if !ok {
			b = &SubjectBreakdown{Subject: t.Subject}
			bySubject[t.Subject] = b
			order = append(order, t.Subject)
		}
		b.TopicCount++
		b.TotalQuestions += t.QuestionsAttempted
		sums[t.Subject] += t.Accuracy

		switch t.Status {
		case StatusMastered:
			b.Mastered++
		case StatusStrong:
			b.Strong++
		case StatusDeveloping:
			b.Developing++
		case StatusWeak:
			b.Weak++
		case StatusNotStarted:
			b.NotStarted++
		}
	}

	out := make([]SubjectBreakdown, 0, len(order))
	for _, s := range order {
		b := bySubject[s]
		b.AverageAccuracy = round1(sums[s] / float64(b.TopicCount))
		out = append(out, *b)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AverageAccuracy < out[j].AverageAccuracy
	})
	return out
}

// GetChapterPriorities ранжирует главы: score = round(50×доля weak + 0.5×(100−средняя точность))
func GetChapterPriorities(topics []TopicInsight) []ChapterPriority {
	type chapterAgg struct {
		subject, chapter string
		sum              float64
		weak, total      int
	}

	var order []string
	groups := make(map[string]*chapterAgg)
	for _, t := range topics {
		key := t.Subject + "::" + t.Chapter
		g, ok := groups[key]
		if !ok {
			g = &chapterAgg{subject: t.Subject, chapter: t.Chapter}
			groups[key] = g
			order = append(order, key)
		}
		g.sum += t.Accuracy
		g.total++
		if t.Status == StatusWeak {
			g.weak++
		}
	}

	out := make([]ChapterPriority, 0, len(order))
	for _, key := range order {
		g := groups[key]
		mean := g.sum / float64(g.total)
		weakFraction := float64(g.weak) / float64(g.total)
		out = append(out, ChapterPriority{
			Subject:         g.subject,
			Chapter:         g.chapter,
			Score:           roundInt(50*weakFraction + 0.5*(100-mean)),
			AverageAccuracy: round1(mean),
			WeakTopics:      g.weak,
			TotalTopics:     g.total,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// WinsInput: скалярные поля профиля для побед недели
type WinsInput struct {
	Streak         int
	TotalQuestions int
	AvgAccuracy    float64
}

// questionMilestones: по убыванию, берётся первый достигнутый
var questionMilestones = []int{1000, 500, 100}

// DetectWeeklyWins собирает не более MaxWeeklyWins побед по фиксированным правилам
func DetectWeeklyWins(topics []TopicInsight, in WinsInput) []WeeklyWin {
	wins := make([]WeeklyWin, 0, MaxWeeklyWins)

	callouts := 0
	for _, t := range topics {
		if callouts >= maxMasteryCallouts {
			break
		}
		if t.Status != StatusMastered {
			continue
		}
		wins = append(wins, WeeklyWin{
			Kind:        "mastery",
			Icon:        "🏅",
			Title:       "Mastered " + t.Topic,
			Description: fmt.Sprintf("%s: %d%% accuracy over %d questions", t.Subject, roundInt(t.Accuracy), t.QuestionsAttempted),
		})
		callouts++
	}

	switch {
	case in.Streak >= 7:
		wins = append(wins, WeeklyWin{
			Kind:        "streak",
			Icon:        "🔥",
			Title:       fmt.Sprintf("%d-day streak", in.Streak),
			Description: "A full week of showing up. Consistency wins exams.",
		})
	case in.Streak >= 3:
		wins = append(wins, WeeklyWin{
			Kind:        "streak",
			Icon:        "⚡",
			Title:       fmt.Sprintf("%d days in a row", in.Streak),
			Description: "Momentum is building. Keep the chain going.",
		})
	}

	for _, m := range questionMilestones {
		if in.TotalQuestions >= m {
			wins = append(wins, WeeklyWin{
				Kind:        "questions",
				Icon:        "📝",
				Title:       fmt.Sprintf("%d+ questions solved", m),
				Description: fmt.Sprintf("You have solved %d questions so far.", in.TotalQuestions),
			})
			break
		}
	}

	if in.AvgAccuracy >= 80 {
		wins = append(wins, WeeklyWin{
			Kind:        "accuracy",
			Icon:        "🎯",
			Title:       fmt.Sprintf("%d%% average accuracy", roundInt(in.AvgAccuracy)),
			Description: "Topper-level precision across your topics.",
		})
	}

	if len(wins) > MaxWeeklyWins {
		wins = wins[:MaxWeeklyWins]
	}
	return wins
}

// StatsInput: поля профиля для PlannerStats
type StatsInput struct {
	XP            int
	Streak        int
	LongestStreak int
}

// ComputePlannerStats: сводка по темам и профилю для дашборда
func ComputePlannerStats(topics []TopicInsight, in StatsInput) PlannerStats {
	counts := countByStatus(topics)

	stats := PlannerStats{
		TotalTopics:     len(topics),
		Mastered:        counts[StatusMastered],
		Strong:          counts[StatusStrong],
		Developing:      counts[StatusDeveloping],
		Weak:            counts[StatusWeak],
		NotStarted:      counts[StatusNotStarted],
		AverageAccuracy: round1(averageAccuracy(topics)),
		CurrentStreak:   in.Streak,
		LongestStreak:   max(in.LongestStreak, in.Streak),
		Level:           GetLevelInfo(in.XP),
	}

	for _, t := range topics {
		stats.TotalQuestions += t.QuestionsAttempted
		if t.DaysSincePractice >= PYQStaleDays {
			stats.StaleTopics++
		}
	}

	if breakdowns := GetSubjectBreakdowns(topics); len(breakdowns) > 0 {
		stats.WeakestSubject = breakdowns[0].Subject
		stats.StrongestSubject = breakdowns[len(breakdowns)-1].Subject
	}

	return stats
}

// TotalQuestions: сумма попыток по всем темам
func TotalQuestions(topics []TopicInsight) int {
	total := 0
	for _, t := range topics {
		total += t.QuestionsAttempted
	}
	return total
}

// AverageAccuracy: средняя точность по темам (0 для пустого списка)
func AverageAccuracy(topics []TopicInsight) float64 {
	return averageAccuracy(topics)
}

// MasteredCount: количество освоенных тем
func MasteredCount(topics []TopicInsight) int {
	return countByStatus(topics)[StatusMastered]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
