package entity

import (
	"math"
	"time"
)

// StudentProfile: профиль ученика: цель, бюджет времени и игровые счётчики
type StudentProfile struct {
	UserID          uint       `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Name            string     `gorm:"size:100;not null;default:''" json:"name"`
	Email           string     `gorm:"size:255;not null;default:''" json:"email"`
	TargetExam      string     `gorm:"size:32;not null" json:"target_exam"`
	ExamDate        *time.Time `json:"exam_date,omitempty"`
	DailyStudyHours float64    `gorm:"not null" json:"daily_study_hours"`
	TotalPoints     int        `gorm:"not null;default:0" json:"total_points"`
	CurrentStreak   int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak   int        `gorm:"not null;default:0" json:"longest_streak"`
	LastActiveDate  *time.Time `json:"last_active_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (StudentProfile) TableName() string {
	return "student_profiles"
}

// DaysToExam: целых дней до экзамена (с округлением вверх), fallback если дата не задана
func (p *StudentProfile) DaysToExam(now time.Time, fallback int) int {
	if p.ExamDate == nil {
		return fallback
	}
	days := p.ExamDate.Sub(now).Hours() / 24
	if days <= 0 {
		return 0
	}
	return int(math.Ceil(days))
}

// TouchActivity продлевает серию. Календарные дни считаются в часовом поясе now:
// активность вчера даёт +1, сегодня ничего не меняет, иначе серия начинается заново.
func (p *StudentProfile) TouchActivity(now time.Time) {
	today := truncateDay(now)
	if p.LastActiveDate != nil {
		last := truncateDay(p.LastActiveDate.In(now.Location()))
		switch {
		case last.Equal(today):
			return
		case last.AddDate(0, 0, 1).Equal(today):
			p.CurrentStreak++
		default:
			p.CurrentStreak = 1
		}
	} else {
		p.CurrentStreak = 1
	}

	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
	p.LastActiveDate = &today
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
