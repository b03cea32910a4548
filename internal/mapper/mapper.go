// Package mapper converts between wire DTOs and persisted entities.
package mapper

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMapping 在输入为空或字段不满足目标约束时返回
var ErrMapping = errors.New("mapping error")

const maxHabitNameRunes = 255

func mappingErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMapping, fmt.Sprintf(format, args...))
}

func checkHabitName(name string) error {
	if strings.TrimSpace(name) == "" {
		return mappingErrorf("habit name is blank")
	}
	if utf8.RuneCountInString(name) > maxHabitNameRunes {
		return mappingErrorf("habit name exceeds %d characters", maxHabitNameRunes)
	}
	return nil
}
