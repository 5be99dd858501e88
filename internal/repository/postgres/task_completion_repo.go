package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/studyplan-api/internal/domain/entity"
	apperrors "github.com/yourusername/studyplan-api/internal/pkg/errors"
)

// TaskCompletionRepo реализует repository.TaskCompletionRepository
type TaskCompletionRepo struct {
	db *gorm.DB
}

// NewTaskCompletionRepo создает новый репозиторий отметок о выполнении
func NewTaskCompletionRepo(db *gorm.DB) *TaskCompletionRepo {
	return &TaskCompletionRepo{db: db}
}

// ListByDates возвращает отметки за перечисленные даты
func (r *TaskCompletionRepo) ListByDates(ctx context.Context, userID uint, dates []string) ([]entity.TaskCompletion, error) {
	var completions []entity.TaskCompletion
	if len(dates) == 0 {
		return completions, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND plan_date IN ?", userID, dates).
		Order("completed_at").
		Find(&completions).Error
	return completions, err
}

// Create сохраняет отметку. Повторная отметка той же задачи → apperrors.ErrConflict.
func (r *TaskCompletionRepo) Create(ctx context.Context, completion *entity.TaskCompletion) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(completion)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return fmt.Errorf("%w: task %s already completed", apperrors.ErrConflict, completion.TaskID)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: task %s already completed", apperrors.ErrConflict, completion.TaskID)
	}
	return nil
}

// Delete снимает отметку и возвращает удалённую запись
func (r *TaskCompletionRepo) Delete(ctx context.Context, userID uint, taskID string) (*entity.TaskCompletion, error) {
	var completion entity.TaskCompletion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND task_id = ?", userID, taskID).First(&completion).Error; err != nil {
			return err
		}
		return tx.Delete(&completion).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &completion, nil
}

// CountByUser: сколько задач ученик выполнил за всё время
func (r *TaskCompletionRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.TaskCompletion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
