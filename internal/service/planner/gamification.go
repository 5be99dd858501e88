package planner

import (
	"fmt"
	"strconv"
	"strings"
)

// ConditionKind: по какому показателю проверяется достижение
type ConditionKind string

const (
	ConditionStreak         ConditionKind = "streak"
	ConditionTotalQuestions ConditionKind = "total-questions"
	ConditionAccuracy       ConditionKind = "accuracy"
	ConditionMastered       ConditionKind = "mastered"
	ConditionLevel          ConditionKind = "level"
	ConditionTasksCompleted ConditionKind = "tasks-completed"
)

// AchievementDefinition: декларативное описание достижения: показатель и порог
type AchievementDefinition struct {
	ID          string
	Title       string
	Description string
	Icon        string
	XPReward    int
	Kind        ConditionKind
	Threshold   float64
}

var achievementTable = []AchievementDefinition{
	{ID: "first-task", Title: "First Step", Description: "Complete your first planned task", Icon: "👣", XPReward: 25, Kind: ConditionTasksCompleted, Threshold: 1},
	{ID: "streak-3", Title: "On a Roll", Description: "Study 3 days in a row", Icon: "⚡", XPReward: 50, Kind: ConditionStreak, Threshold: 3},
	{ID: "streak-7", Title: "Week Warrior", Description: "Study 7 days in a row", Icon: "🔥", XPReward: 100, Kind: ConditionStreak, Threshold: 7},
	{ID: "streak-30", Title: "Unstoppable", Description: "Study 30 days in a row", Icon: "🌋", XPReward: 500, Kind: ConditionStreak, Threshold: 30},
	{ID: "questions-100", Title: "Century", Description: "Solve 100 questions", Icon: "💯", XPReward: 50, Kind: ConditionTotalQuestions, Threshold: 100},
	{ID: "questions-500", Title: "Problem Crusher", Description: "Solve 500 questions", Icon: "🔨", XPReward: 150, Kind: ConditionTotalQuestions, Threshold: 500},
	{ID: "questions-1000", Title: "Question Machine", Description: "Solve 1000 questions", Icon: "🤖", XPReward: 300, Kind: ConditionTotalQuestions, Threshold: 1000},
	{ID: "accuracy-80", Title: "Sharpshooter", Description: "Reach 80% average accuracy", Icon: "🎯", XPReward: 200, Kind: ConditionAccuracy, Threshold: 80},
	{ID: "mastered-5", Title: "Topic Tamer", Description: "Master 5 topics", Icon: "🏅", XPReward: 150, Kind: ConditionMastered, Threshold: 5},
	{ID: "mastered-20", Title: "Syllabus Slayer", Description: "Master 20 topics", Icon: "🏆", XPReward: 500, Kind: ConditionMastered, Threshold: 20},
	{ID: "level-5", Title: "Scholar", Description: "Reach level 5", Icon: "📚", XPReward: 200, Kind: ConditionLevel, Threshold: 5},
	{ID: "level-10", Title: "Topper", Description: "Reach the top level", Icon: "👑", XPReward: 1000, Kind: ConditionLevel, Threshold: 10},
	{ID: "tasks-50", Title: "Planner Pro", Description: "Complete 50 planned tasks", Icon: "📋", XPReward: 250, Kind: ConditionTasksCompleted, Threshold: 50},
}

// AchievementDefinitions возвращает копию таблицы достижений
func AchievementDefinitions() []AchievementDefinition {
	out := make([]AchievementDefinition, len(achievementTable))
	copy(out, achievementTable)
	return out
}

// AchievementStats: текущие показатели ученика для проверки достижений
type AchievementStats struct {
	Streak         int
	TotalQuestions int
	Accuracy       float64
	Mastered       int
	Level          int
	TasksCompleted int
}

func (s AchievementStats) value(kind ConditionKind) float64 {
	switch kind {
	case ConditionStreak:
		return float64(s.Streak)
	case ConditionTotalQuestions:
		return float64(s.TotalQuestions)
	case ConditionAccuracy:
		return s.Accuracy
	case ConditionMastered:
		return float64(s.Mastered)
	case ConditionLevel:
		return float64(s.Level)
	case ConditionTasksCompleted:
		return float64(s.TasksCompleted)
	default:
		return 0
	}
}

// Satisfied проверяет условие определения на текущих показателях
func (d AchievementDefinition) Satisfied(stats AchievementStats) bool {
	return stats.value(d.Kind) >= d.Threshold
}

// ComputeAchievements оценивает все определения. Ранее разблокированные
// остаются разблокированными, даже если условие больше не выполняется.
func ComputeAchievements(stats AchievementStats, unlockedIDs []string) []Achievement {
	unlocked := make(map[string]struct{}, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = struct{}{}
	}

	out := make([]Achievement, 0, len(achievementTable))
	for _, def := range achievementTable {
		_, was := unlocked[def.ID]
		isUnlocked := was || def.Satisfied(stats)

		progress := 100
		if !isUnlocked && def.Threshold > 0 {
			progress = min(99, max(0, int(100*stats.value(def.Kind)/def.Threshold)))
		}

		out = append(out, Achievement{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			XPReward:    def.XPReward,
			Unlocked:    isUnlocked,
			Progress:    progress,
		})
	}
	return out
}

// NewlyUnlocked: id достижений, разблокированных сейчас и отсутствующих в previous
func NewlyUnlocked(achievements []Achievement, previous []string) []string {
	seen := make(map[string]struct{}, len(previous))
	for _, id := range previous {
		seen[id] = struct{}{}
	}
	var out []string
	for _, a := range achievements {
		if !a.Unlocked {
			continue
		}
		if _, ok := seen[a.ID]; !ok {
			out = append(out, a.ID)
		}
	}
	return out
}

type challengeTemplate struct {
	id          string
	title       string
	description string
	target      int
	xpReward    int
	icon        string
}

var challengeTemplates = []challengeTemplate{
	{id: "speed-round", title: "Speed Round", description: "Solve %d questions in 30 minutes", target: 20, xpReward: 60, icon: "⏱️"},
	{id: "accuracy-sprint", title: "Accuracy Sprint", description: "Hit %d%% accuracy on a 15-question set", target: 85, xpReward: 70, icon: "🎯"},
	{id: "weak-topic-rescue", title: "Weak Topic Rescue", description: "Solve %d questions from your weakest topic", target: 15, xpReward: 80, icon: "🛟"},
	{id: "pyq-marathon", title: "PYQ Marathon", description: "Attempt %d previous-year questions", target: 25, xpReward: 75, icon: "📜"},
	{id: "formula-recall", title: "Formula Recall", description: "Write down %d formulas from memory", target: 30, xpReward: 50, icon: "🧮"},
	{id: "revision-loop", title: "Revision Loop", description: "Revise %d topics you have not touched this week", target: 3, xpReward: 60, icon: "🔁"},
	{id: "mixed-mock", title: "Mixed Mock", description: "Finish a %d-question mixed mock without skipping", target: 30, xpReward: 100, icon: "📝"},
}

// ChallengeTemplateCount: количество шаблонов челленджей
func ChallengeTemplateCount() int {
	return len(challengeTemplates)
}

// PickDailyChallenge детерминированно выбирает челлендж:
// сумма числовых частей даты по модулю числа шаблонов.
func PickDailyChallenge(isoDate string) DailyChallenge {
	sum := 0
	for _, part := range strings.Split(isoDate, "-") {
		if n, err := strconv.Atoi(part); err == nil {
			sum += n
		}
	}

	tpl := challengeTemplates[sum%len(challengeTemplates)]
	return DailyChallenge{
		ID:          isoDate + "_" + tpl.id,
		Date:        isoDate,
		Title:       tpl.title,
		Description: fmt.Sprintf(tpl.description, tpl.target),
		Target:      tpl.target,
		XPReward:    tpl.xpReward,
		Icon:        tpl.icon,
	}
}

// GetGreeting: приветствие по часу локального времени
func GetGreeting(hour int, name string) string {
	var greeting string
	switch {
	case hour >= 5 && hour < 12:
		greeting = "Good morning"
	case hour >= 12 && hour < 17:
		greeting = "Good afternoon"
	case hour >= 17 && hour < 21:
		greeting = "Good evening"
	default:
		greeting = "Burning the midnight oil"
	}
	if name = strings.TrimSpace(name); name != "" {
		return greeting + ", " + name
	}
	return greeting
}

// MotivationInput: показатели для выбора мотивационной фразы
type MotivationInput struct {
	DaysToExam int
	Streak     int
	Accuracy   float64
}

// Пороги лестницы мотивационных пулов
const (
	motivationExamCloseDays = 30
	motivationHighStreak    = 14
	motivationMidStreak     = 5
	motivationHighAccuracy  = 80
	motivationLowAccuracy   = 50
)

type motivationPool string

const (
	poolExamClose    motivationPool = "exam-close"
	poolHighStreak   motivationPool = "high-streak"
	poolMidStreak    motivationPool = "mid-streak"
	poolHighAccuracy motivationPool = "high-accuracy"
	poolLowAccuracy  motivationPool = "low-accuracy"
	poolGeneral      motivationPool = "general"
)

var motivationPools = map[motivationPool][]string{
	poolExamClose: {
		"The finish line is in sight. Every question now counts double.",
		"Final stretch: trust your preparation and stay sharp.",
		"Less than a month to go. Focus on what moves your score.",
	},
	poolHighStreak: {
		"Two weeks and counting. This consistency is what toppers are made of.",
		"Your streak is a superpower. Protect it today.",
	},
	poolMidStreak: {
		"You are building a habit. Show up again today.",
		"A few more days and this streak becomes a routine.",
	},
	poolHighAccuracy: {
		"Your accuracy is excellent. Time to push harder problems.",
		"Precision like this wins ranks. Keep raising the bar.",
	},
	poolLowAccuracy: {
		"Every mistake today is one you will not make in the exam.",
		"Slow down and master the basics. Speed follows understanding.",
	},
	poolGeneral: {
		"Small steps every day add up to big results.",
		"One focused session at a time.",
		"Your future rank is built today.",
	},
}

func motivationPoolFor(in MotivationInput) motivationPool {
	switch {
	case in.DaysToExam <= motivationExamCloseDays:
		return poolExamClose
	case in.Streak >= motivationHighStreak:
		return poolHighStreak
	case in.Streak >= motivationMidStreak:
		return poolMidStreak
	case in.Accuracy >= motivationHighAccuracy:
		return poolHighAccuracy
	case in.Accuracy < motivationLowAccuracy:
		return poolLowAccuracy
	default:
		return poolGeneral
	}
}

// PickMotivation выбирает пул по лестнице приоритетов и фразу из него.
// При rnd == nil берётся первая фраза пула.
func PickMotivation(in MotivationInput, rnd Rand) string {
	pool := motivationPools[motivationPoolFor(in)]
	if rnd == nil {
		return pool[0]
	}
	return pool[rnd.IntN(len(pool))]
}
