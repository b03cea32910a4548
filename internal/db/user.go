package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 定义了用户模型
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"size:320;not null;uniqueIndex:idx_habit_user_email" json:"email"`
	Username  string    `gorm:"size:30;not null" json:"username"`
	FirstName string    `gorm:"column:first_name;size:30" json:"firstName"`
	LastName  string    `gorm:"column:last_name;size:50" json:"lastName"`
	Age       int       `gorm:"not null;default:0" json:"age"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName 固定为 habit_user，避免与数据库保留字 user 冲突
func (User) TableName() string {
	return "habit_user"
}

// BeforeCreate assigns the opaque identity.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
