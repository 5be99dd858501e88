package entity

import "time"

// TopicPerformance: накопленная статистика ученика по одной теме.
// Числовые поля nullable: отсутствие значения трактуется движком как значение по умолчанию.
type TopicPerformance struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"not null;uniqueIndex:idx_perf_user_topic" json:"user_id"`
	Subject            string     `gorm:"size:64;not null;uniqueIndex:idx_perf_user_topic" json:"subject"`
	Chapter            string     `gorm:"size:128;not null;default:''" json:"chapter"`
	Topic              string     `gorm:"size:128;not null;uniqueIndex:idx_perf_user_topic" json:"topic"`
	Accuracy           *float64   `json:"accuracy,omitempty"`
	QuestionsAttempted *int       `json:"questions_attempted,omitempty"`
	CorrectAnswers     int        `gorm:"not null;default:0" json:"correct_answers"`
	LastPracticed      *time.Time `json:"last_practiced,omitempty"`
	StuckDays          *int       `json:"stuck_days,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (TopicPerformance) TableName() string {
	return "topic_performances"
}

// Attempts возвращает количество попыток (0, если не задано)
func (p *TopicPerformance) Attempts() int {
	if p.QuestionsAttempted == nil {
		return 0
	}
	return *p.QuestionsAttempted
}

// AccuracyOrZero возвращает точность (0, если не задана)
func (p *TopicPerformance) AccuracyOrZero() float64 {
	if p.Accuracy == nil {
		return 0
	}
	return *p.Accuracy
}

// RecordAttempt добавляет результат подхода к теме: пересчитывает точность по всем
// ответам и увеличивает StuckDays, если точность не выросла.
func (p *TopicPerformance) RecordAttempt(questions, correct int, at time.Time) {
	prevAccuracy := p.AccuracyOrZero()
	hadHistory := p.Attempts() > 0

	attempts := p.Attempts() + questions
	p.CorrectAnswers += correct
	p.QuestionsAttempted = &attempts

	accuracy := 0.0
	if attempts > 0 {
		accuracy = float64(p.CorrectAnswers) / float64(attempts) * 100
	}
	p.Accuracy = &accuracy

	stuck := 0
	if p.StuckDays != nil {
		stuck = *p.StuckDays
	}
	if hadHistory && accuracy <= prevAccuracy {
		stuck++
	} else {
		stuck = 0
	}
	p.StuckDays = &stuck

	practiced := at
	p.LastPracticed = &practiced
}
