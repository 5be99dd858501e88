package planner

import "fmt"

type reasonKind int

const (
	reasonCritical reasonKind = iota
	reasonWeak
	reasonNotStarted
	reasonDeveloping
	reasonStrong
	reasonMastered
	reasonPYQ
	reasonMock
)

// reasonTemplates: фиксированные шаблоны пояснений к задачам
var reasonTemplates = map[reasonKind]string{
	reasonCritical:   "Accuracy %d%% and untouched for %d days: fix this before it slips further",
	reasonWeak:       "Accuracy %d%%: rebuild the fundamentals",
	reasonNotStarted: "Not started yet: cover the core concepts first",
	reasonDeveloping: "Accuracy %d%%: push it past the 75%% mark",
	reasonStrong:     "Strong topic: light practice keeps it sharp",
	reasonMastered:   "Mastered: a quick pass to retain it",
	reasonPYQ:        "Not revised for %d days: previous-year questions keep it exam-ready",
	reasonMock:       "Timed mixed test on your most urgent subject",
}

func reasonFor(t TopicInsight, typ TaskType) string {
	acc := roundInt(t.Accuracy)

	if typ == TaskPYQ {
		return fmt.Sprintf(reasonTemplates[reasonPYQ], t.DaysSincePractice)
	}

	switch t.Status {
	case StatusWeak:
		if t.DaysSincePractice > CriticalStaleDays {
			return fmt.Sprintf(reasonTemplates[reasonCritical], acc, t.DaysSincePractice)
		}
		return fmt.Sprintf(reasonTemplates[reasonWeak], acc)
	case StatusNotStarted:
		return reasonTemplates[reasonNotStarted]
	case StatusDeveloping:
		return fmt.Sprintf(reasonTemplates[reasonDeveloping], acc)
	case StatusStrong:
		return reasonTemplates[reasonStrong]
	default:
		return reasonTemplates[reasonMastered]
	}
}
