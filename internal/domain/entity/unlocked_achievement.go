package entity

import "time"

// UnlockedAchievement: факт разблокировки достижения. Записи только добавляются.
type UnlockedAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"size:64;not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"not null" json:"unlocked_at"`
}

// TableName определяет имя таблицы для GORM
func (UnlockedAchievement) TableName() string {
	return "unlocked_achievements"
}
