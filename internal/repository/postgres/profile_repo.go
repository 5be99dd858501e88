package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/studyplan-api/internal/domain/entity"
	apperrors "github.com/yourusername/studyplan-api/internal/pkg/errors"
)

// ProfileRepo реализует repository.ProfileRepository
type ProfileRepo struct {
	db *gorm.DB
}

// NewProfileRepo создает новый репозиторий профилей
func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// GetByUserID возвращает профиль ученика
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint) (*entity.StudentProfile, error) {
	var profile entity.StudentProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Create вставляет профиль; если запись уже есть, она не меняется
func (r *ProfileRepo) Create(ctx context.Context, profile *entity.StudentProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(profile).Error
}

// UpdateStreak пишет только поля серии. total_points не трогаем: его меняет AddPoints.
func (r *ProfileRepo) UpdateStreak(ctx context.Context, profile *entity.StudentProfile) error {
	return r.updateColumns(ctx, profile.UserID, map[string]interface{}{
		"current_streak":   profile.CurrentStreak,
		"longest_streak":   profile.LongestStreak,
		"last_active_date": profile.LastActiveDate,
	})
}

// UpdateSettings пишет поля, которые ученик меняет сам
func (r *ProfileRepo) UpdateSettings(ctx context.Context, profile *entity.StudentProfile) error {
	return r.updateColumns(ctx, profile.UserID, map[string]interface{}{
		"name":              profile.Name,
		"email":             profile.Email,
		"target_exam":       profile.TargetExam,
		"exam_date":         profile.ExamDate,
		"daily_study_hours": profile.DailyStudyHours,
	})
}

func (r *ProfileRepo) updateColumns(ctx context.Context, userID uint, columns map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&entity.StudentProfile{}).
		Where("user_id = ?", userID).
		Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddPoints атомарно меняет total_points через gorm.Expr, не опуская ниже нуля
func (r *ProfileRepo) AddPoints(ctx context.Context, userID uint, delta int) error {
	result := r.db.WithContext(ctx).Model(&entity.StudentProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("total_points", gorm.Expr(
			"CASE WHEN total_points + ? < 0 THEN 0 ELSE total_points + ? END", delta, delta,
		))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
