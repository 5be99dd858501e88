package dto

import (
	"time"

	"github.com/yourusername/studyplan-api/internal/domain/entity"
	"github.com/yourusername/studyplan-api/internal/service"
)

// ReplanRequest: сколько минут есть у ученика сегодня
type ReplanRequest struct {
	Minutes int `json:"minutes" binding:"required,min=1,max=1440"`
}

// PracticeRequest: результат подхода к теме
type PracticeRequest struct {
	Subject   string     `json:"subject" binding:"required,max=64"`
	Chapter   string     `json:"chapter" binding:"omitempty,max=128"`
	Topic     string     `json:"topic" binding:"required,max=128"`
	Questions int        `json:"questions" binding:"required,min=1,max=500"`
	Correct   int        `json:"correct" binding:"min=0"`
	At        *time.Time `json:"at,omitempty"` // По умолчанию: время запроса
}

// ToInput переводит запрос во вход сервиса
func (r PracticeRequest) ToInput(now time.Time) service.PracticeInput {
	at := now
	if r.At != nil {
		at = *r.At
	}
	return service.PracticeInput{
		Subject:   r.Subject,
		Chapter:   r.Chapter,
		Topic:     r.Topic,
		Questions: r.Questions,
		Correct:   r.Correct,
		At:        at,
	}
}

// ProfileRequest: частичное обновление профиля
type ProfileRequest struct {
	Name            *string  `json:"name" binding:"omitempty,max=100"`
	Email           *string  `json:"email" binding:"omitempty,email"`
	TargetExam      *string  `json:"target_exam"`
	ExamDate        *string  `json:"exam_date"` // 2006-01-02
	DailyStudyHours *float64 `json:"daily_study_hours"`
}

// ToUpdate разбирает дату экзамена и собирает обновление для сервиса
func (r ProfileRequest) ToUpdate() (service.ProfileUpdate, error) {
	upd := service.ProfileUpdate{
		Name:            r.Name,
		Email:           r.Email,
		TargetExam:      r.TargetExam,
		DailyStudyHours: r.DailyStudyHours,
	}
	if r.ExamDate != nil {
		d, err := time.Parse("2006-01-02", *r.ExamDate)
		if err != nil {
			return upd, err
		}
		upd.ExamDate = &d
	}
	return upd, nil
}

// ProfileResponse: профиль ученика для клиента
type ProfileResponse struct {
	UserID          uint    `json:"user_id"`
	Name            string  `json:"name"`
	Email           string  `json:"email,omitempty"`
	TargetExam      string  `json:"target_exam"`
	ExamDate        *string `json:"exam_date,omitempty"`
	DaysToExam      int     `json:"days_to_exam"`
	DailyStudyHours float64 `json:"daily_study_hours"`
	TotalPoints     int     `json:"total_points"`
	CurrentStreak   int     `json:"current_streak"`
	LongestStreak   int     `json:"longest_streak"`
}

// NewProfileResponse создает DTO профиля; daysFallback: дней до экзамена без даты
func NewProfileResponse(p *entity.StudentProfile, now time.Time, daysFallback int) *ProfileResponse {
	resp := &ProfileResponse{
		UserID:          p.UserID,
		Name:            p.Name,
		Email:           p.Email,
		TargetExam:      p.TargetExam,
		DaysToExam:      p.DaysToExam(now, daysFallback),
		DailyStudyHours: p.DailyStudyHours,
		TotalPoints:     p.TotalPoints,
		CurrentStreak:   p.CurrentStreak,
		LongestStreak:   p.LongestStreak,
	}
	if p.ExamDate != nil {
		d := p.ExamDate.Format("2006-01-02")
		resp.ExamDate = &d
	}
	return resp
}

// PracticeResponse: обновлённая статистика темы
type PracticeResponse struct {
	Subject            string     `json:"subject"`
	Chapter            string     `json:"chapter"`
	Topic              string     `json:"topic"`
	Accuracy           float64    `json:"accuracy"`
	QuestionsAttempted int        `json:"questions_attempted"`
	StuckDays          int        `json:"stuck_days"`
	LastPracticed      *time.Time `json:"last_practiced,omitempty"`
}

// NewPracticeResponse создает DTO статистики темы
func NewPracticeResponse(p *entity.TopicPerformance) *PracticeResponse {
	resp := &PracticeResponse{
		Subject:            p.Subject,
		Chapter:            p.Chapter,
		Topic:              p.Topic,
		Accuracy:           p.AccuracyOrZero(),
		QuestionsAttempted: p.Attempts(),
		LastPracticed:      p.LastPracticed,
	}
	if p.StuckDays != nil {
		resp.StuckDays = *p.StuckDays
	}
	return resp
}
