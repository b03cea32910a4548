package store

import (
	"context"

	"github.com/habitbuilder/internal/db"
	"gorm.io/gorm"
)

// compile-time check
var _ HabitStore = (*GormHabitStore)(nil)

// GormHabitStore implements HabitStore on the habit table.
type GormHabitStore struct {
	db *gorm.DB
}

// NewHabitStore 构造 GormHabitStore
func NewHabitStore(gdb *gorm.DB) *GormHabitStore {
	return &GormHabitStore{db: gdb}
}

func (s *GormHabitStore) FindAll(ctx context.Context) ([]db.Habit, error) {
	var habits []db.Habit
	if err := s.db.WithContext(ctx).
		Order("created_at ASC").
		Order("name ASC").
		Find(&habits).Error; err != nil {
		return nil, translate("list habits", err)
	}
	return habits, nil
}

func (s *GormHabitStore) FindByName(ctx context.Context, name string) (*db.Habit, error) {
	var habit db.Habit
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&habit).Error; err != nil {
		return nil, translate("find habit", err)
	}
	return &habit, nil
}

func (s *GormHabitStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.Habit{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, translate("check habit", err)
	}
	return count > 0, nil
}

func (s *GormHabitStore) FindByOwner(ctx context.Context, email string) ([]db.Habit, error) {
	var habits []db.Habit
	if err := s.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order("created_at ASC").
		Order("name ASC").
		Find(&habits).Error; err != nil {
		return nil, translate("list habits by owner", err)
	}
	return habits, nil
}

func (s *GormHabitStore) Create(ctx context.Context, habit *db.Habit) error {
	return translate("create habit", s.db.WithContext(ctx).Create(habit).Error)
}

// CreateBatch inserts habits in one statement inside one transaction.
func (s *GormHabitStore) CreateBatch(ctx context.Context, habits []db.Habit) error {
	if len(habits) == 0 {
		return nil
	}
	return translate("create habits", s.db.WithContext(ctx).Create(&habits).Error)
}

func (s *GormHabitStore) Save(ctx context.Context, habit *db.Habit) error {
	return translate("update habit", s.db.WithContext(ctx).Save(habit).Error)
}

func (s *GormHabitStore) Delete(ctx context.Context, habit *db.Habit) error {
	return translate("delete habit", s.db.WithContext(ctx).Delete(&db.Habit{}, "id = ?", habit.ID).Error)
}
