package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout: формат календарной даты в планах и идентификаторах задач
const DateLayout = "2006-01-02"

// MinTaskMinutes: остаток бюджета меньше этого значения задачу не создаёт
const MinTaskMinutes = 10

// DayKind: вариант дня недели
type DayKind int

const (
	DayWeekday DayKind = iota
	DayMock            // суббота
	DayRest            // воскресенье
)

// DayKindFor отображает день недели на вариант распределения
func DayKindFor(w time.Weekday) DayKind {
	switch w {
	case time.Sunday:
		return DayRest
	case time.Saturday:
		return DayMock
	default:
		return DayWeekday
	}
}

// dayAllocator раскладывает дневной бюджет в задачи
type dayAllocator func(b *dayBuilder, topics []TopicInsight, budget int, split PhaseSplit)

var allocators = map[DayKind]dayAllocator{
	DayWeekday: allocateWeekday,
	DayMock:    allocateMockDay,
	DayRest:    allocateRestDay,
}

// GenerateDayPlan строит план на дату date. today нужен только для флага IsToday.
func GenerateDayPlan(topics []TopicInsight, dailyHours float64, phase ExamPhase, date, today time.Time) DayPlan {
	kind := DayKindFor(date.Weekday())
	budget := max(0, roundInt(dailyHours*60))

	b := newDayBuilder(date.Format(DateLayout))
	allocators[kind](b, topics, budget, PhaseSplitFor(phase))

	return b.build(date, today, kind == DayRest)
}

// GenerateWeekPlan строит 7 дней начиная с today, ротируя темы по смещению дня
func GenerateWeekPlan(topics []TopicInsight, dailyHours float64, phase ExamPhase, today time.Time) []DayPlan {
	week := make([]DayPlan, 0, 7)
	for offset := 0; offset < 7; offset++ {
		date := today.AddDate(0, 0, offset)
		week = append(week, GenerateDayPlan(RotateTopics(topics, offset), dailyHours, phase, date, today))
	}
	return week
}

// QuickReplan: GenerateDayPlan с явным бюджетом в минутах
func QuickReplan(topics []TopicInsight, availableMinutes int, phase ExamPhase, date, today time.Time) DayPlan {
	return GenerateDayPlan(topics, float64(availableMinutes)/60, phase, date, today)
}

// RotateTopics циклически сдвигает три корзины статусов на offset,
// сохраняя относительный порядок внутри каждой корзины.
func RotateTopics(topics []TopicInsight, offset int) []TopicInsight {
	var weak, developing, strong []TopicInsight
	for _, t := range topics {
		switch t.Status {
		case StatusWeak, StatusNotStarted:
			weak = append(weak, t)
		case StatusDeveloping:
			developing = append(developing, t)
		default:
			strong = append(strong, t)
		}
	}

	out := make([]TopicInsight, 0, len(topics))
	for _, bucket := range [][]TopicInsight{weak, developing, strong} {
		n := len(bucket)
		if n == 0 {
			continue
		}
		shift := ((offset % n) + n) % n
		for j := 0; j < n; j++ {
			out = append(out, bucket[(j+shift)%n])
		}
	}
	return out
}

// ============================================================================
// Распределение времени по слотам
// ============================================================================

// allocateWeekday: утро: deep-study, день, practice, вечер, PYQ по «остывшим» темам
func allocateWeekday(b *dayBuilder, topics []TopicInsight, budget int, split PhaseSplit) {
	deepBudget := roundInt(float64(budget) * split.DeepStudy)
	practiceBudget := roundInt(float64(budget) * split.Practice)

	// Утро
	remaining := deepBudget
	added := 0
	for _, t := range topics {
		if added >= MaxMorningTasks {
			break
		}
		if (t.Status != StatusWeak && t.Status != StatusDeveloping) || b.isUsed(t) {
			continue
		}
		base := DeepStudyDevelopingMinutes
		if t.Status == StatusWeak {
			base = DeepStudyWeakMinutes
		}
		minutes := min(base, remaining)
		if minutes < MinTaskMinutes {
			break
		}
		b.add(t, TaskDeepStudy, SlotMorning, minutes)
		remaining -= minutes
		added++
	}

	// День
	remaining = practiceBudget
	added = 0
	for _, t := range topics {
		if added >= MaxAfternoonTasks {
			break
		}
		if (t.Status != StatusDeveloping && t.Status != StatusStrong) || b.isUsed(t) {
			continue
		}
		minutes := min(PracticeMinutes, remaining)
		if minutes < MinTaskMinutes {
			break
		}
		b.add(t, TaskPractice, SlotAfternoon, minutes)
		remaining -= minutes
		added++
	}

	// Вечер: всё, что осталось от дневного бюджета
	remaining = budget - b.totalMinutes()
	var stale []TopicInsight
	for _, t := range topics {
		if t.DaysSincePractice >= PYQStaleDays && t.Accuracy > PYQMinAccuracy && !b.isUsed(t) {
			stale = append(stale, t)
		}
	}
	sort.SliceStable(stale, func(i, j int) bool {
		return stale[i].DaysSincePractice > stale[j].DaysSincePractice
	})
	for i, t := range stale {
		if i >= MaxEveningTasks {
			break
		}
		minutes := min(PYQMinutes, remaining)
		if minutes < MinTaskMinutes {
			break
		}
		b.add(t, TaskPYQ, SlotEvening, minutes)
		remaining -= minutes
	}
}

// allocateMockDay: 40% бюджета на мини-мок по самому срочному предмету, остаток: practice
func allocateMockDay(b *dayBuilder, topics []TopicInsight, budget int, _ PhaseSplit) {
	subject, ok := mostUrgentSubject(topics)
	if !ok {
		return
	}

	mockMinutes := min(MaxTaskMinutes, roundInt(float64(budget)*SaturdayMockShare))
	if mockMinutes >= MinTaskMinutes {
		b.addMock(subject, subjectAccuracy(topics, subject), mockMinutes)
	}

	remaining := budget - b.totalMinutes()
	added := 0
	for _, t := range topics {
		if added >= MaxSaturdayTasks {
			break
		}
		if (t.Status != StatusWeak && t.Status != StatusDeveloping) || b.isUsed(t) {
			continue
		}
		minutes := min(SaturdayPracticeCapMinutes, remaining)
		if minutes < MinTaskMinutes {
			break
		}
		b.add(t, TaskPractice, SlotAfternoon, minutes)
		remaining -= minutes
		added++
	}
}

// allocateRestDay: до двух сильных тем на лёгкую практику
func allocateRestDay(b *dayBuilder, topics []TopicInsight, budget int, _ PhaseSplit) {
	remaining := budget
	added := 0
	for _, t := range topics {
		if added >= MaxRestDayTasks {
			break
		}
		if t.Status != StatusStrong || b.isUsed(t) {
			continue
		}
		minutes := min(RestDayPracticeMinutes, remaining)
		if minutes < MinTaskMinutes {
			break
		}
		b.add(t, TaskPractice, SlotMorning, minutes)
		remaining -= minutes
		added++
	}
}

// mostUrgentSubject: предмет с максимальной суммой priorityScore.
// При равенстве побеждает предмет, встреченный раньше.
func mostUrgentSubject(topics []TopicInsight) (string, bool) {
	var order []string
	sums := make(map[string]int)
	for _, t := range topics {
		if _, seen := sums[t.Subject]; !seen {
			order = append(order, t.Subject)
		}
		sums[t.Subject] += t.PriorityScore
	}
	if len(order) == 0 {
		return "", false
	}

	best := order[0]
	for _, s := range order[1:] {
		if sums[s] > sums[best] {
			best = s
		}
	}
	return best, true
}

func subjectAccuracy(topics []TopicInsight, subject string) float64 {
	sum, n := 0.0, 0
	for _, t := range topics {
		if t.Subject == subject {
			sum += t.Accuracy
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ============================================================================
// Сборка дня
// ============================================================================

type dayBuilder struct {
	date  string
	used  map[string]bool
	tasks []PlannerTask
}

func newDayBuilder(date string) *dayBuilder {
	return &dayBuilder{
		date: date,
		used: make(map[string]bool),
	}
}

func (b *dayBuilder) isUsed(t TopicInsight) bool {
	return b.used[topicKey(t.Subject, t.Topic)]
}

func (b *dayBuilder) totalMinutes() int {
	total := 0
	for _, t := range b.tasks {
		total += t.AllocatedMinutes
	}
	return total
}

func (b *dayBuilder) add(t TopicInsight, typ TaskType, slot TimeSlot, minutes int) {
	minutes = min(minutes, MaxTaskMinutes)
	priority := TaskPriorityFor(t)

	b.used[topicKey(t.Subject, t.Topic)] = true
	b.tasks = append(b.tasks, PlannerTask{
		ID:               TaskID(b.date, t.Subject, t.Topic, typ),
		Subject:          t.Subject,
		Chapter:          t.Chapter,
		Topic:            t.Topic,
		Type:             typ,
		Priority:         priority,
		Status:           TaskPending,
		TimeSlot:         slot,
		AllocatedMinutes: minutes,
		QuestionsTarget:  questionsTarget(typ, minutes),
		Accuracy:         t.Accuracy,
		Reason:           reasonFor(t, typ),
		XPReward:         TaskXP(minutes, priority, typ),
	})
}

func (b *dayBuilder) addMock(subject string, accuracy float64, minutes int) {
	minutes = min(minutes, MaxTaskMinutes)

	b.used[topicKey(subject, MockTestTopic)] = true
	b.tasks = append(b.tasks, PlannerTask{
		ID:               TaskID(b.date, subject, MockTestTopic, TaskMockTest),
		Subject:          subject,
		Chapter:          MockTestChapter,
		Topic:            MockTestTopic,
		Type:             TaskMockTest,
		Priority:         PriorityHigh,
		Status:           TaskPending,
		TimeSlot:         SlotMorning,
		AllocatedMinutes: minutes,
		QuestionsTarget:  questionsTarget(TaskMockTest, minutes),
		Accuracy:         accuracy,
		Reason:           reasonTemplates[reasonMock],
		XPReward:         TaskXP(minutes, PriorityHigh, TaskMockTest),
	})
}

func (b *dayBuilder) build(date, today time.Time, restDay bool) DayPlan {
	tasks := b.tasks
	if tasks == nil {
		tasks = []PlannerTask{}
	}
	name := date.Weekday().String()

	return DayPlan{
		Date:         b.date,
		DayName:      name,
		DayShort:     name[:3],
		IsToday:      date.Format(DateLayout) == today.Format(DateLayout),
		IsRestDay:    restDay,
		Tasks:        tasks,
		TotalMinutes: b.totalMinutes(),
		FocusSubject: focusSubject(tasks),
	}
}

// focusSubject: предмет с наибольшим числом задач, при равенстве, первый по порядку
func focusSubject(tasks []PlannerTask) string {
	var order []string
	counts := make(map[string]int)
	for _, t := range tasks {
		if _, seen := counts[t.Subject]; !seen {
			order = append(order, t.Subject)
		}
		counts[t.Subject]++
	}

	best := ""
	for _, s := range order {
		if best == "" || counts[s] > counts[best] {
			best = s
		}
	}
	return best
}

// ============================================================================
// Задачи
// ============================================================================

// TaskPriorityFor выставляет приоритет задачи по статусу и давности темы
func TaskPriorityFor(t TopicInsight) TaskPriority {
	switch {
	case t.Status == StatusWeak && t.DaysSincePractice > CriticalStaleDays:
		return PriorityCritical
	case t.Status == StatusWeak:
		return PriorityHigh
	case t.Status == StatusDeveloping:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// TaskXP = 25 × (minutes/30) × множитель приоритета × множитель типа
func TaskXP(minutes int, priority TaskPriority, typ TaskType) int {
	pm, ok := priorityMultipliers[priority]
	if !ok {
		pm = 1
	}
	tm, ok := typeMultipliers[typ]
	if !ok {
		tm = 1
	}
	return roundInt(BaseXPPer30Min * (float64(minutes) / 30) * pm * tm)
}

// TaskID: детерминированный ключ дата+предмет+тема+тип
func TaskID(date, subject, topic string, typ TaskType) string {
	return fmt.Sprintf("%s_%s_%s_%s", date, slugify(subject), slugify(topic), typ)
}

func questionsTarget(typ TaskType, minutes int) int {
	rate, ok := questionsPerMinute[typ]
	if !ok {
		rate = 0.5
	}
	return max(1, roundInt(rate*float64(minutes)))
}

func slugify(s string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			sb.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

// ApplyCompletions возвращает копию плана, где задачи из completed отмечены выполненными,
// и пересчитывает CompletedMinutes. Исходный план не меняется.
func ApplyCompletions(plan DayPlan, completed map[string]bool) DayPlan {
	out := plan
	out.Tasks = make([]PlannerTask, len(plan.Tasks))
	out.CompletedMinutes = 0

	for i, t := range plan.Tasks {
		if completed[t.ID] {
			t.Status = TaskCompleted
			out.CompletedMinutes += t.AllocatedMinutes
		} else {
			t.Status = TaskPending
		}
		out.Tasks[i] = t
	}
	return out
}
