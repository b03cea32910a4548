package service

import (
	"errors"
	"fmt"

	"github.com/habitbuilder/internal/store"
)

var (
	// ErrHabitNotFound 在指定习惯不存在时返回
	ErrHabitNotFound = errors.New("habit not found")
	// ErrHabitAlreadyExists 在习惯名称冲突时返回
	ErrHabitAlreadyExists = errors.New("habit already exists")
	// ErrUserNotFound 在指定用户不存在时返回
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists 在用户 email 冲突时返回
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrStore wraps every record store failure that is not a conflict.
	ErrStore = errors.New("store failure")
)

// Error carries a caller-facing message and unwraps to one of the sentinels above.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func habitNotFound(name string) error {
	return &Error{Kind: ErrHabitNotFound, Message: fmt.Sprintf("Habit with name = %s not found", name)}
}

func habitAlreadyExists(name string, cause error) error {
	return &Error{
		Kind:    ErrHabitAlreadyExists,
		Message: fmt.Sprintf("Habit with name = %s already exists in database", name),
		Err:     cause,
	}
}

func userNotFound(email string) error {
	return &Error{Kind: ErrUserNotFound, Message: fmt.Sprintf("User with given email: %s not found", email)}
}

func userAlreadyExists(email string, cause error) error {
	return &Error{
		Kind:    ErrUserAlreadyExists,
		Message: fmt.Sprintf("User with given email: %s already exists", email),
		Err:     cause,
	}
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

func isDuplicate(err error) bool {
	return errors.Is(err, store.ErrDuplicateKey)
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
