// Package seed fills an empty installation with sample users and habits.
package seed

import (
	"context"
	"fmt"

	"github.com/habitbuilder/internal/dto"
	"github.com/habitbuilder/internal/model"
	"github.com/habitbuilder/internal/service"
)

// Options 控制生成的数据量
type Options struct {
	Users  int
	Habits int
}

// Result 汇总实际写入的数据
type Result struct {
	Usernames []string
	Habits    []string
}

var habitTitles = []string{"晨跑", "阅读", "冥想", "写日记", "喝水", "早睡", "练琴", "背单词"}

// Generate 通过服务层批量写入示例数据
// 重复执行是安全的：已存在的 email 与名称会被批量接口跳过。
func Generate(ctx context.Context, habits service.HabitManager, users service.UserManager, opts Options) (Result, error) {
	if opts.Users < 0 || opts.Habits < 0 {
		return Result{}, fmt.Errorf("seed sizes must not be negative")
	}

	owners := make([]string, 0, opts.Users)
	userDTOs := make([]dto.UserDTO, 0, opts.Users)
	for i := 1; i <= opts.Users; i++ {
		email := fmt.Sprintf("user%d@example.com", i)
		first := fmt.Sprintf("Sample%d", i)
		age := 20 + i%30
		userDTOs = append(userDTOs, dto.NewUserDTO(email, fmt.Sprintf("user%d", i), &first, nil, &age))
		owners = append(owners, email)
	}

	usernames, err := users.AddUsers(ctx, dto.DedupByNaturalKey, userDTOs...)
	if err != nil {
		return Result{}, fmt.Errorf("seed users: %w", err)
	}

	habitDTOs := make([]dto.HabitDTO, 0, opts.Habits)
	for i := 0; i < opts.Habits; i++ {
		title := habitTitles[i%len(habitTitles)]
		if i >= len(habitTitles) {
			title = fmt.Sprintf("%s #%d", title, i/len(habitTitles)+1)
		}
		reminder := i%2 == 0
		habit := dto.NewHabitDTO(title, model.Frequencies[i%len(model.Frequencies)], model.Date{}, model.Date{}, &reminder)
		if len(owners) > 0 {
			habit.Owner = owners[i%len(owners)]
		}
		habitDTOs = append(habitDTOs, habit)
	}

	names, err := habits.AddHabits(ctx, dto.DedupByNaturalKey, habitDTOs...)
	if err != nil {
		return Result{}, fmt.Errorf("seed habits: %w", err)
	}

	return Result{Usernames: usernames, Habits: names}, nil
}
