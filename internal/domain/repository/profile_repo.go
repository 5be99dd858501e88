package repository

import (
	"context"

	"github.com/yourusername/studyplan-api/internal/domain/entity"
)

// ProfileRepository хранит профили учеников
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*entity.StudentProfile, error)

	// Create вставляет профиль; существующая запись остаётся как есть
	Create(ctx context.Context, profile *entity.StudentProfile) error

	// UpdateStreak пишет current_streak, longest_streak и last_active_date
	UpdateStreak(ctx context.Context, profile *entity.StudentProfile) error

	// UpdateSettings пишет имя, email, экзамен, его дату и дневной бюджет часов
	UpdateSettings(ctx context.Context, profile *entity.StudentProfile) error

	// AddPoints атомарно меняет TotalPoints на delta (не ниже нуля)
	AddPoints(ctx context.Context, userID uint, delta int) error
}
