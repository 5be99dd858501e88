package repository

import (
	"context"

	"github.com/yourusername/studyplan-api/internal/domain/entity"
)

// TaskCompletionRepository хранит отметки о выполнении задач плана
type TaskCompletionRepository interface {
	// ListByDates возвращает отметки за перечисленные даты (формат 2006-01-02)
	ListByDates(ctx context.Context, userID uint, dates []string) ([]entity.TaskCompletion, error)

	// Create сохраняет отметку; повтор возвращает apperrors.ErrConflict
	Create(ctx context.Context, completion *entity.TaskCompletion) error

	// Delete удаляет отметку и возвращает её; apperrors.ErrNotFound, если её не было
	Delete(ctx context.Context, userID uint, taskID string) (*entity.TaskCompletion, error)

	CountByUser(ctx context.Context, userID uint) (int64, error)
}
