package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/studyplan-api/internal/domain/entity"
)

// AchievementRepo реализует repository.AchievementRepository
type AchievementRepo struct {
	db *gorm.DB
}

// NewAchievementRepo создает новый репозиторий достижений
func NewAchievementRepo(db *gorm.DB) *AchievementRepo {
	return &AchievementRepo{db: db}
}

// ListUnlockedIDs возвращает id разблокированных достижений в порядке получения
func (r *AchievementRepo) ListUnlockedIDs(ctx context.Context, userID uint) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&entity.UnlockedAchievement{}).
		Where("user_id = ?", userID).
		Order("unlocked_at, id").
		Pluck("achievement_id", &ids).Error
	return ids, err
}

// Unlock сохраняет достижения. Уникальный индекс (user_id, achievement_id)
// и ON CONFLICT DO NOTHING делают повторную разблокировку no-op.
func (r *AchievementRepo) Unlock(ctx context.Context, userID uint, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	rows := make([]entity.UnlockedAchievement, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, entity.UnlockedAchievement{
			UserID:        userID,
			AchievementID: id,
			UnlockedAt:    at,
		})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}
