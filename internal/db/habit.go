package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/habitbuilder/internal/model"
	"gorm.io/gorm"
)

// Habit 定义了习惯模型
// Name 为自然键，全局唯一；ID 由存储层生成，不对外用于查找
// UserEmail 是对所属用户 email 的弱引用，用户侧不持有习惯集合
type Habit struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Name      string          `gorm:"size:255;not null;uniqueIndex:idx_habit_name" json:"name"`
	Frequency model.Frequency `gorm:"column:habit_frequency;size:16;not null" json:"frequency"`
	StartDate model.Date      `gorm:"column:start_date" json:"startDate"`
	EndDate   model.Date      `gorm:"column:end_date" json:"endDate"`
	Reminder  bool            `gorm:"column:reminder;not null;default:false" json:"reminder"`
	UserEmail *string         `gorm:"column:user_email;size:320;index:idx_habit_owner" json:"owner,omitempty"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}

// TableName 固定为 habit
func (Habit) TableName() string {
	return "habit"
}

// BeforeCreate assigns the opaque identity.
func (h *Habit) BeforeCreate(*gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// OwnerEmail returns the owner reference or "" when the habit has no owner.
func (h Habit) OwnerEmail() string {
	if h.UserEmail == nil {
		return ""
	}
	return *h.UserEmail
}
