package repository

import (
	"context"
	"time"
)

// AchievementRepository хранит разблокированные достижения.
// Разблокировка монотонна: записи только добавляются.
type AchievementRepository interface {
	ListUnlockedIDs(ctx context.Context, userID uint) ([]string, error)

	// Unlock сохраняет ids; уже существующие пропускаются без ошибки
	Unlock(ctx context.Context, userID uint, ids []string, at time.Time) error
}
