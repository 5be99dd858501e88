package planner

// Настройки генератора плана
const (
	MaxTaskMinutes = 90 // Жёсткий потолок для любой задачи

	DeepStudyWeakMinutes       = 45
	DeepStudyDevelopingMinutes = 35
	PracticeMinutes            = 30
	PYQMinutes                 = 25
	SaturdayPracticeCapMinutes = 35
	RestDayPracticeMinutes     = 20

	MaxMorningTasks   = 3
	MaxAfternoonTasks = 3
	MaxEveningTasks   = 2
	MaxSaturdayTasks  = 3
	MaxRestDayTasks   = 2

	SaturdayMockShare = 0.40

	PYQStaleDays      = 3  // Тема «остыла» для PYQ
	PYQMinAccuracy    = 30 // PYQ только если accuracy > 30
	CriticalStaleDays = 5  // weak + больше 5 дней без практики = critical

	MockTestTopic   = "Mini Mock Test"
	MockTestChapter = "Mixed"

	BaseXPPer30Min = 25

	// Дефолтная «давность» для тем без last_practiced
	DefaultDaysSincePractice = 30
)

// priorityMultipliers: множитель XP по срочности
var priorityMultipliers = map[TaskPriority]float64{
	PriorityCritical: 2,
	PriorityHigh:     1.5,
	PriorityMedium:   1.2,
	PriorityLow:      1,
}

// typeMultipliers: множитель XP по типу задачи (остальные типы = 1)
var typeMultipliers = map[TaskType]float64{
	TaskMockTest:  2,
	TaskDeepStudy: 1.3,
}

// questionsPerMinute: норма вопросов на минуту по типу задачи
var questionsPerMinute = map[TaskType]float64{
	TaskDeepStudy:    0.2,
	TaskPractice:     0.5,
	TaskMockTest:     0.5,
	TaskPYQ:          0.6,
	TaskFormulaDrill: 0.8,
}

// ============================================================================
// Уровни
// ============================================================================

// LevelDefinition: ступень лестницы уровней
type LevelDefinition struct {
	Level     int
	Title     string
	Threshold int
	Icon      string
}

// levelTable: строго возрастающие пороги XP
var levelTable = []LevelDefinition{
	{1, "Aspirant", 0, "🌱"},
	{2, "Learner", 200, "📘"},
	{3, "Explorer", 500, "🧭"},
	{4, "Achiever", 1000, "🎯"},
	{5, "Scholar", 2000, "📚"},
	{6, "Expert", 3500, "🧠"},
	{7, "Master", 5500, "🏅"},
	{8, "Champion", 8000, "🏆"},
	{9, "Legend", 12000, "👑"},
	{10, "Topper", 17000, "🚀"},
}

// Levels возвращает копию таблицы уровней
func Levels() []LevelDefinition {
	out := make([]LevelDefinition, len(levelTable))
	copy(out, levelTable)
	return out
}

// ============================================================================
// Этапы подготовки
// ============================================================================

// ExamPhase: этап подготовки
type ExamPhase string

const (
	PhaseFoundation     ExamPhase = "foundation"
	PhaseBuilding       ExamPhase = "building"
	PhaseStrengthening  ExamPhase = "strengthening"
	PhaseRevisionSprint ExamPhase = "revision-sprint"
	PhaseMockIntensive  ExamPhase = "mock-intensive"
	PhaseFinalPush      ExamPhase = "final-push"
)

// PhaseSplit: доли дневного бюджета [deep, practice, mock]
type PhaseSplit struct {
	DeepStudy float64 `json:"deepStudy"`
	Practice  float64 `json:"practice"`
	Mock      float64 `json:"mock"`
}

// phaseThresholds: лестница «дней больше чем» → этап, от большего к меньшему
var phaseThresholds = []struct {
	MoreThan int
	Phase    ExamPhase
}{
	{180, PhaseFoundation},
	{120, PhaseBuilding},
	{60, PhaseStrengthening},
	{30, PhaseRevisionSprint},
	{14, PhaseMockIntensive},
}

// phaseSplits: каждая тройка в сумме даёт 1.0
var phaseSplits = map[ExamPhase]PhaseSplit{
	PhaseFoundation:     {0.55, 0.30, 0.15},
	PhaseBuilding:       {0.45, 0.35, 0.20},
	PhaseStrengthening:  {0.35, 0.40, 0.25},
	PhaseRevisionSprint: {0.25, 0.40, 0.35},
	PhaseMockIntensive:  {0.15, 0.35, 0.50},
	PhaseFinalPush:      {0.05, 0.25, 0.70},
}

// ============================================================================
// Экзамены
// ============================================================================

// DefaultExamID: экзамен, на который падаем при неизвестном идентификаторе
const DefaultExamID = "jee-main"

// DefaultSubjectWeight: вес предмета, которого нет в таблице экзамена
const DefaultSubjectWeight = 0.33

// CurvePoint: точка кривой «балл → ранг»
type CurvePoint struct {
	Score float64
	Rank  int
}

// OutcomeBucket: все ранги <= MaxRank дают эти варианты
type OutcomeBucket struct {
	MaxRank  int
	Outcomes []string
}

// ExamConfig: статические данные одного экзамена
type ExamConfig struct {
	ID             string
	Name           string
	MaxScore       float64
	CandidatePool  int
	SubjectWeights map[string]float64
	Curve          []CurvePoint    // по убыванию Score
	Outcomes       []OutcomeBucket // по возрастанию MaxRank
}

// NoOutcomeMessage: заглушка, если ранг хуже всех корзин
const NoOutcomeMessage = "Keep pushing: every extra mark moves you into a better college bracket"

var examTable = map[string]ExamConfig{
	"jee-main": {
		ID:            "jee-main",
		Name:          "JEE Main",
		MaxScore:      300,
		CandidatePool: 1200000,
		SubjectWeights: map[string]float64{
			"Physics":     0.33,
			"Chemistry":   0.33,
			"Mathematics": 0.34,
		},
		Curve: []CurvePoint{
			{300, 1},
			{280, 50},
			{250, 500},
			{220, 2500},
			{200, 5000},
			{180, 10000},
			{150, 25000},
			{120, 55000},
			{100, 100000},
			{80, 200000},
			{50, 500000},
			{20, 900000},
		},
		Outcomes: []OutcomeBucket{
			{1000, []string{"NIT Trichy (CSE)", "NIT Surathkal (CSE)", "IIIT Hyderabad"}},
			{10000, []string{"NIT Warangal", "NIT Calicut", "IIIT Allahabad"}},
			{50000, []string{"NIT Jaipur", "NIT Nagpur", "IIIT Gwalior"}},
			{150000, []string{"GFTIs", "Top state engineering colleges"}},
			{400000, []string{"State engineering colleges", "Private universities"}},
		},
	},
	"jee-advanced": {
		ID:            "jee-advanced",
		Name:          "JEE Advanced",
		MaxScore:      360,
		CandidatePool: 180000,
		SubjectWeights: map[string]float64{
			"Physics":     0.33,
			"Chemistry":   0.33,
			"Mathematics": 0.34,
		},
		Curve: []CurvePoint{
			{360, 1},
			{300, 100},
			{250, 1000},
			{200, 5000},
			{160, 12000},
			{120, 25000},
			{90, 45000},
			{60, 90000},
			{30, 150000},
		},
		Outcomes: []OutcomeBucket{
			{500, []string{"IIT Bombay", "IIT Delhi", "IIT Madras"}},
			{3000, []string{"IIT Kanpur", "IIT Kharagpur", "IIT Roorkee"}},
			{10000, []string{"IIT Guwahati", "IIT Hyderabad", "IIT BHU"}},
			{25000, []string{"Newer IITs", "IISERs"}},
		},
	},
	"neet": {
		ID:            "neet",
		Name:          "NEET UG",
		MaxScore:      720,
		CandidatePool: 2300000,
		SubjectWeights: map[string]float64{
			"Physics":   0.25,
			"Chemistry": 0.25,
			"Biology":   0.50,
		},
		Curve: []CurvePoint{
			{720, 1},
			{700, 50},
			{680, 500},
			{650, 3000},
			{600, 20000},
			{550, 55000},
			{500, 110000},
			{450, 180000},
			{400, 300000},
			{300, 650000},
			{150, 1500000},
		},
		Outcomes: []OutcomeBucket{
			{100, []string{"AIIMS Delhi", "JIPMER Puducherry", "MAMC Delhi"}},
			{5000, []string{"Top government medical colleges", "AFMC Pune"}},
			{40000, []string{"Government medical colleges (state quota)", "ESIC medical colleges"}},
			{150000, []string{"Private medical colleges", "Deemed universities"}},
			{400000, []string{"BDS / AYUSH programs"}},
		},
	},
}

// ExamConfigFor возвращает конфигурацию экзамена; false, если id неизвестен
func ExamConfigFor(id string) (ExamConfig, bool) {
	cfg, ok := examTable[id]
	return cfg, ok
}

// examOrDefault: конфигурация экзамена с фолбэком на DefaultExamID
func examOrDefault(id string) ExamConfig {
	if cfg, ok := examTable[id]; ok {
		return cfg
	}
	return examTable[DefaultExamID]
}

// ExamIDs возвращает поддерживаемые идентификаторы экзаменов
func ExamIDs() []string {
	return []string{"jee-main", "jee-advanced", "neet"}
}

// SubjectWeight возвращает вес предмета или DefaultSubjectWeight
func (e ExamConfig) SubjectWeight(subject string) float64 {
	if w, ok := e.SubjectWeights[subject]; ok {
		return w
	}
	return DefaultSubjectWeight
}
