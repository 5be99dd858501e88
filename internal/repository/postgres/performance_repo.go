package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/studyplan-api/internal/domain/entity"
	apperrors "github.com/yourusername/studyplan-api/internal/pkg/errors"
)

// PerformanceRepo реализует repository.PerformanceRepository
type PerformanceRepo struct {
	db *gorm.DB
}

// NewPerformanceRepo создает новый репозиторий статистики по темам
func NewPerformanceRepo(db *gorm.DB) *PerformanceRepo {
	return &PerformanceRepo{db: db}
}

// ListByUser возвращает все темы ученика в порядке добавления
func (r *PerformanceRepo) ListByUser(ctx context.Context, userID uint) ([]entity.TopicPerformance, error) {
	var rows []entity.TopicPerformance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&rows).Error
	return rows, err
}

// GetByTopic возвращает запись по (предмет, тема)
func (r *PerformanceRepo) GetByTopic(ctx context.Context, userID uint, subject, topic string) (*entity.TopicPerformance, error) {
	var perf entity.TopicPerformance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND subject = ? AND topic = ?", userID, subject, topic).
		First(&perf).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &perf, nil
}

// Save создаёт новую запись (ID == 0) или обновляет существующую.
// Гонка двух вставок одной темы даёт apperrors.ErrConflict.
func (r *PerformanceRepo) Save(ctx context.Context, perf *entity.TopicPerformance) error {
	var err error
	if perf.ID == 0 {
		err = r.db.WithContext(ctx).Create(perf).Error
	} else {
		err = r.db.WithContext(ctx).Save(perf).Error
	}
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: topic %s/%s already exists for user %d", apperrors.ErrConflict, perf.Subject, perf.Topic, perf.UserID)
		}
		return err
	}
	return nil
}
