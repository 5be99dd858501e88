package planner

import "time"

// TopicStatus: классификация темы по точности и количеству попыток
type TopicStatus string

const (
	StatusNotStarted TopicStatus = "not-started"
	StatusWeak       TopicStatus = "weak"
	StatusDeveloping TopicStatus = "developing"
	StatusStrong     TopicStatus = "strong"
	StatusMastered   TopicStatus = "mastered"
)

// TaskType: тип задачи в плане
type TaskType string

const (
	TaskDeepStudy    TaskType = "deep-study"
	TaskPractice     TaskType = "practice"
	TaskMockTest     TaskType = "mock-test"
	TaskPYQ          TaskType = "pyq"
	TaskFormulaDrill TaskType = "formula-drill"
)

// TaskPriority: срочность задачи
type TaskPriority string

const (
	PriorityCritical TaskPriority = "critical"
	PriorityHigh     TaskPriority = "high"
	PriorityMedium   TaskPriority = "medium"
	PriorityLow      TaskPriority = "low"
)

// TimeSlot: часть дня, к которой привязана задача
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

// TaskStatus: статус задачи. Генератор всегда выдаёт pending,
// completed выставляет только потребитель (см. ApplyCompletions).
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// Trend: направление изменения Brain Score
type Trend string

const (
	TrendRising    Trend = "rising"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// PerformanceRow: сырая строка статистики по теме из хранилища.
// Все поля, кроме Subject, могут отсутствовать.
type PerformanceRow struct {
	Subject            string     `json:"subject"`
	Chapter            string     `json:"chapter,omitempty"`
	Topic              string     `json:"topic,omitempty"`
	Accuracy           *float64   `json:"accuracy,omitempty"`
	QuestionsAttempted *int       `json:"questions_attempted,omitempty"`
	LastPracticed      *time.Time `json:"last_practiced,omitempty"`
	StuckDays          *int       `json:"stuck_days,omitempty"`
}

// TopicInsight: производный снимок успеваемости по одной теме
type TopicInsight struct {
	Subject            string      `json:"subject"`
	Chapter            string      `json:"chapter"`
	Topic              string      `json:"topic"`
	Accuracy           float64     `json:"accuracy"`
	QuestionsAttempted int         `json:"questionsAttempted"`
	Status             TopicStatus `json:"status"`
	DaysSincePractice  int         `json:"daysSincePractice"`
	PriorityScore      int         `json:"priorityScore"`
	StuckDays          int         `json:"stuckDays"`
}

// PlannerTask: одна задача дневного плана
type PlannerTask struct {
	ID               string       `json:"id"`
	Subject          string       `json:"subject"`
	Chapter          string       `json:"chapter"`
	Topic            string       `json:"topic"`
	Type             TaskType     `json:"type"`
	Priority         TaskPriority `json:"priority"`
	Status           TaskStatus   `json:"status"`
	TimeSlot         TimeSlot     `json:"timeSlot"`
	AllocatedMinutes int          `json:"allocatedMinutes"`
	QuestionsTarget  int          `json:"questionsTarget"`
	Accuracy         float64      `json:"accuracy"`
	Reason           string       `json:"reason"`
	XPReward         int          `json:"xpReward"`
}

// DayPlan: план на одну календарную дату
type DayPlan struct {
	Date             string        `json:"date"`
	DayName          string        `json:"dayName"`
	DayShort         string        `json:"dayShort"`
	IsToday          bool          `json:"isToday"`
	IsRestDay        bool          `json:"isRestDay"`
	Tasks            []PlannerTask `json:"tasks"`
	TotalMinutes     int           `json:"totalMinutes"`
	CompletedMinutes int           `json:"completedMinutes"`
	FocusSubject     string        `json:"focusSubject"`
}

// BrainDimensions: пять измерений Brain Score
type BrainDimensions struct {
	Conceptual     int `json:"conceptual"`
	ProblemSolving int `json:"problemSolving"`
	Consistency    int `json:"consistency"`
	ExamReadiness  int `json:"examReadiness"`
	Growth         int `json:"growth"`
}

// BrainScore: композитная оценка готовности 0–100
type BrainScore struct {
	Overall     int             `json:"overall"`
	Dimensions  BrainDimensions `json:"dimensions"`
	Trend       Trend           `json:"trend"`
	WeeklyDelta int             `json:"weeklyDelta"`
}

// RankRange: диапазон прогнозируемого ранга
type RankRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// RankPrediction: прогноз ранга на вступительном экзамене
type RankPrediction struct {
	ExamID         string    `json:"examId"`
	EstimatedRank  int       `json:"estimatedRank"`
	RankRange      RankRange `json:"rankRange"`
	Confidence     int       `json:"confidence"`
	EstimatedScore int       `json:"estimatedScore"`
	MaxScore       int       `json:"maxScore"`
	Trajectory     string    `json:"trajectory"`
	TopColleges    []string  `json:"topColleges"`
}

// SubjectBreakdown: сводка по предмету
type SubjectBreakdown struct {
	Subject         string  `json:"subject"`
	AverageAccuracy float64 `json:"averageAccuracy"`
	TopicCount      int     `json:"topicCount"`
	Mastered        int     `json:"mastered"`
	Strong          int     `json:"strong"`
	Developing      int     `json:"developing"`
	Weak            int     `json:"weak"`
	NotStarted      int     `json:"notStarted"`
	TotalQuestions  int     `json:"totalQuestions"`
}

// ChapterPriority: срочность главы
type ChapterPriority struct {
	Subject         string  `json:"subject"`
	Chapter         string  `json:"chapter"`
	Score           int     `json:"score"`
	AverageAccuracy float64 `json:"averageAccuracy"`
	WeakTopics      int     `json:"weakTopics"`
	TotalTopics     int     `json:"totalTopics"`
}

// WeeklyWin: достижение недели для отображения
type WeeklyWin struct {
	Kind        string `json:"kind"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Achievement: достижение с признаком разблокировки
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	XPReward    int    `json:"xpReward"`
	Unlocked    bool   `json:"unlocked"`
	Progress    int    `json:"progress"`
}

// DailyChallenge: челлендж дня
type DailyChallenge struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Target      int    `json:"target"`
	XPReward    int    `json:"xpReward"`
	Icon        string `json:"icon"`
}

// PlannerStats: общая статистика для дашборда
type PlannerStats struct {
	TotalTopics      int       `json:"totalTopics"`
	Mastered         int       `json:"mastered"`
	Strong           int       `json:"strong"`
	Developing       int       `json:"developing"`
	Weak             int       `json:"weak"`
	NotStarted       int       `json:"notStarted"`
	AverageAccuracy  float64   `json:"averageAccuracy"`
	TotalQuestions   int       `json:"totalQuestions"`
	WeakestSubject   string    `json:"weakestSubject"`
	StrongestSubject string    `json:"strongestSubject"`
	StaleTopics      int       `json:"staleTopics"`
	CurrentStreak    int       `json:"currentStreak"`
	LongestStreak    int       `json:"longestStreak"`
	Level            LevelInfo `json:"level"`
}

// Rand: источник случайности для намеренной вариативности.
// *math/rand/v2.Rand подходит. nil делает результат детерминированным.
type Rand interface {
	IntN(n int) int
}
