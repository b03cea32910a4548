package store

import (
	"context"

	"github.com/habitbuilder/internal/db"
	"gorm.io/gorm"
)

var _ UserStore = (*GormUserStore)(nil)

// GormUserStore implements UserStore on the habit_user table.
type GormUserStore struct {
	db *gorm.DB
}

func NewUserStore(gdb *gorm.DB) *GormUserStore {
	return &GormUserStore{db: gdb}
}

func (s *GormUserStore) FindAll(ctx context.Context) ([]db.User, error) {
	var users []db.User
	if err := s.db.WithContext(ctx).
		Order("created_at ASC").
		Order("email ASC").
		Find(&users).Error; err != nil {
		return nil, translate("list users", err)
	}
	return users, nil
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate("find user", err)
	}
	return &user, nil
}

func (s *GormUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, translate("check user", err)
	}
	return count > 0, nil
}

func (s *GormUserStore) Create(ctx context.Context, user *db.User) error {
	return translate("create user", s.db.WithContext(ctx).Create(user).Error)
}

func (s *GormUserStore) CreateBatch(ctx context.Context, users []db.User) error {
	if len(users) == 0 {
		return nil
	}
	return translate("create users", s.db.WithContext(ctx).Create(&users).Error)
}

func (s *GormUserStore) Save(ctx context.Context, user *db.User, previousEmail string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		if previousEmail == "" || previousEmail == user.Email {
			return nil
		}
		return tx.Model(&db.Habit{}).
			Where("user_email = ?", previousEmail).
			Update("user_email", user.Email).Error
	})
	return translate("update user", err)
}

// Delete 级联删除用户拥有的习惯
func (s *GormUserStore) Delete(ctx context.Context, user *db.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_email = ?", user.Email).Delete(&db.Habit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.User{}, "id = ?", user.ID).Error
	})
	return translate("delete user", err)
}
