package entity

import "time"

// TaskCompletion: отметка о выполнении задачи плана. TaskID детерминирован
// (дата+предмет+тема+тип), поэтому отметка переживает перегенерацию плана.
type TaskCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_task" json:"user_id"`
	PlanDate    string    `gorm:"size:10;not null;index" json:"plan_date"`
	TaskID      string    `gorm:"size:255;not null;uniqueIndex:idx_user_task" json:"task_id"`
	XPAwarded   int       `gorm:"not null;default:0" json:"xp_awarded"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
}

// TableName определяет имя таблицы для GORM
func (TaskCompletion) TableName() string {
	return "task_completions"
}
