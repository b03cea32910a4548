// Package store is the record store behind the habit and user services.
// Habits are keyed by unique name and users by unique email; both tables carry
// a unique index so the database has the final word on conflicts.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/habitbuilder/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 在按自然键查找不到记录时返回
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey 在唯一索引冲突时返回
	ErrDuplicateKey = errors.New("duplicate key")
)

// HabitStore persists habits keyed by name.
type HabitStore interface {
	FindAll(ctx context.Context) ([]db.Habit, error)
	FindByName(ctx context.Context, name string) (*db.Habit, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindByOwner(ctx context.Context, email string) ([]db.Habit, error)
	Create(ctx context.Context, habit *db.Habit) error
	CreateBatch(ctx context.Context, habits []db.Habit) error
	Save(ctx context.Context, habit *db.Habit) error
	Delete(ctx context.Context, habit *db.Habit) error
}

// UserStore persists users keyed by email.
type UserStore interface {
	FindAll(ctx context.Context) ([]db.User, error)
	FindByEmail(ctx context.Context, email string) (*db.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *db.User) error
	CreateBatch(ctx context.Context, users []db.User) error
	// Save writes user. When previousEmail differs from user.Email the owner
	// references of the user's habits are rewritten in the same transaction.
	Save(ctx context.Context, user *db.User, previousEmail string) error
	// Delete removes the user and every habit it owns.
	Delete(ctx context.Context, user *db.User) error
}

func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w: %w", op, ErrDuplicateKey, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
