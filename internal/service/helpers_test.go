package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/habitbuilder/internal/db"
	"github.com/habitbuilder/internal/dto"
	"github.com/habitbuilder/internal/model"
	"github.com/habitbuilder/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testToday = time.Date(2026, time.October, 18, 10, 0, 0, 0, time.Local)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	previous := dto.Now
	dto.Now = func() time.Time { return testToday }
	t.Cleanup(func() { dto.Now = previous })

	return gdb
}

func setupServices(t *testing.T) (*HabitService, *UserService) {
	t.Helper()
	gdb := setupServiceTestDB(t)
	users := store.NewUserStore(gdb)
	return NewHabitService(store.NewHabitStore(gdb), users), NewUserService(users)
}

func habitInput(name string, frequency model.Frequency) dto.HabitDTO {
	return dto.NewHabitDTO(name, frequency, model.Date{}, model.Date{}, nil)
}

func today() model.Date {
	return model.DateOf(testToday)
}

// habitStoreStub lets a test override single HabitStore methods.
type habitStoreStub struct {
	store.HabitStore
	findByName   func(ctx context.Context, name string) (*db.Habit, error)
	existsByName func(ctx context.Context, name string) (bool, error)
	create       func(ctx context.Context, habit *db.Habit) error
	deleteCalls  int
}

func (s *habitStoreStub) FindByName(ctx context.Context, name string) (*db.Habit, error) {
	if s.findByName != nil {
		return s.findByName(ctx, name)
	}
	return s.HabitStore.FindByName(ctx, name)
}

func (s *habitStoreStub) ExistsByName(ctx context.Context, name string) (bool, error) {
	if s.existsByName != nil {
		return s.existsByName(ctx, name)
	}
	return s.HabitStore.ExistsByName(ctx, name)
}

func (s *habitStoreStub) Create(ctx context.Context, habit *db.Habit) error {
	if s.create != nil {
		return s.create(ctx, habit)
	}
	return s.HabitStore.Create(ctx, habit)
}

func (s *habitStoreStub) Delete(ctx context.Context, habit *db.Habit) error {
	s.deleteCalls++
	if s.HabitStore == nil {
		return nil
	}
	return s.HabitStore.Delete(ctx, habit)
}
