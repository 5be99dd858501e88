package repository

import (
	"context"

	"github.com/yourusername/studyplan-api/internal/domain/entity"
)

// PerformanceRepository хранит статистику ученика по темам
type PerformanceRepository interface {
	// ListByUser возвращает все темы ученика (пустой слайс, если статистики ещё нет)
	ListByUser(ctx context.Context, userID uint) ([]entity.TopicPerformance, error)

	// GetByTopic возвращает запись по (предмет, тема) или apperrors.ErrNotFound
	GetByTopic(ctx context.Context, userID uint, subject, topic string) (*entity.TopicPerformance, error)

	// Save создаёт или обновляет запись
	Save(ctx context.Context, perf *entity.TopicPerformance) error
}
