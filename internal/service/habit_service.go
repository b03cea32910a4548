package service

import (
	"context"
	"fmt"

	"github.com/habitbuilder/internal/db"
	"github.com/habitbuilder/internal/dto"
	"github.com/habitbuilder/internal/mapper"
	"github.com/habitbuilder/internal/mergepatch"
	"github.com/habitbuilder/internal/model"
	"github.com/habitbuilder/internal/store"
)

// HabitManager 定义习惯管理的全部操作，handler 只依赖该接口
type HabitManager interface {
	ListHabits(ctx context.Context) ([]dto.HabitDTO, error)
	GetHabitByName(ctx context.Context, name string) (dto.HabitDTO, error)
	ListHabitsByOwner(ctx context.Context, email string) ([]dto.HabitDTO, error)
	AddHabit(ctx context.Context, habit dto.HabitDTO) (string, error)
	AddHabits(ctx context.Context, policy dto.DedupPolicy, habits ...dto.HabitDTO) ([]string, error)
	UpdateHabit(ctx context.Context, name string, habit dto.HabitDTO) (dto.HabitDTO, error)
	UpsertHabit(ctx context.Context, name string, habit dto.HabitDTO) (dto.HabitDTO, error)
	PartialUpdateHabit(ctx context.Context, name string, patch []byte) (dto.HabitDTO, error)
	DeleteHabit(ctx context.Context, name string) error
}

// HabitService 负责 Habit 数据的增删改查
// 名称唯一性先由 ExistsByName 预检，最终以存储层唯一索引为准：
// 预检与写入不是原子的，并发写入同名习惯时由存储层冲突兜底并转换为 ErrHabitAlreadyExists。
type HabitService struct {
	habits store.HabitStore
	users  store.UserStore
	mapper mapper.HabitMapper
}

var _ HabitManager = (*HabitService)(nil)

// NewHabitService 构造 HabitService
func NewHabitService(habits store.HabitStore, users store.UserStore) *HabitService {
	return &HabitService{habits: habits, users: users}
}

// ListHabits returns every habit in store order; an empty store yields an empty slice.
func (s *HabitService) ListHabits(ctx context.Context) ([]dto.HabitDTO, error) {
	records, err := s.habits.FindAll(ctx)
	if err != nil {
		return nil, storeFailure("list habits", err)
	}
	return s.mapper.ToDTOs(records)
}

// GetHabitByName 根据名称获取习惯
func (s *HabitService) GetHabitByName(ctx context.Context, name string) (dto.HabitDTO, error) {
	record, err := s.findHabit(ctx, name)
	if err != nil {
		return dto.HabitDTO{}, err
	}
	return s.mapper.ToDTO(record)
}

// ListHabitsByOwner returns the habits whose owner reference is email.
func (s *HabitService) ListHabitsByOwner(ctx context.Context, email string) ([]dto.HabitDTO, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, storeFailure("check owner", err)
	}
	if !exists {
		return nil, userNotFound(email)
	}

	records, err := s.habits.FindByOwner(ctx, email)
	if err != nil {
		return nil, storeFailure("list habits by owner", err)
	}
	return s.mapper.ToDTOs(records)
}

// AddHabit 新建习惯并返回名称
func (s *HabitService) AddHabit(ctx context.Context, habit dto.HabitDTO) (string, error) {
	exists, err := s.habits.ExistsByName(ctx, habit.Name)
	if err != nil {
		return "", storeFailure("check habit", err)
	}
	if exists {
		return "", habitAlreadyExists(habit.Name, nil)
	}

	record, err := s.mapper.ToEntity(&habit)
	if err != nil {
		return "", err
	}
	if err := s.assignOwner(ctx, record, habit.Owner); err != nil {
		return "", err
	}

	if err := s.habits.Create(ctx, record); err != nil {
		return "", s.writeFailure("add habit", habit.Name, err)
	}
	return record.Name, nil
}

// AddHabits 批量新建习惯
// 输入先按 policy 去重（保留首次出现的顺序），再过滤掉写入前已存在的名称，
// 剩余部分作为一个批次写入。冲突项被静默丢弃，返回实际写入的名称。
func (s *HabitService) AddHabits(ctx context.Context, policy dto.DedupPolicy, habits ...dto.HabitDTO) ([]string, error) {
	if len(habits) == 0 {
		return []string{}, nil
	}

	unique := dto.Dedup(habits, policy)
	records := make([]db.Habit, 0, len(unique))
	for i := range unique {
		exists, err := s.habits.ExistsByName(ctx, unique[i].Name)
		if err != nil {
			return nil, storeFailure("check habit", err)
		}
		if exists {
			continue
		}

		record, err := s.mapper.ToEntity(&unique[i])
		if err != nil {
			return nil, err
		}
		if err := s.assignOwner(ctx, record, unique[i].Owner); err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := s.habits.CreateBatch(ctx, records); err != nil {
		if isDuplicate(err) {
			return nil, &Error{
				Kind:    ErrHabitAlreadyExists,
				Message: "One or more habits in the batch already exist in database",
				Err:     err,
			}
		}
		return nil, storeFailure("add habits", err)
	}

	names := make([]string, 0, len(records))
	for _, record := range records {
		names = append(names, record.Name)
	}
	return names, nil
}

// UpdateHabit 严格更新：名称不存在时返回 ErrHabitNotFound
func (s *HabitService) UpdateHabit(ctx context.Context, name string, habit dto.HabitDTO) (dto.HabitDTO, error) {
	record, err := s.findHabit(ctx, name)
	if err != nil {
		return dto.HabitDTO{}, err
	}

	if habit.Name != name {
		exists, err := s.habits.ExistsByName(ctx, habit.Name)
		if err != nil {
			return dto.HabitDTO{}, storeFailure("check habit", err)
		}
		if exists {
			return dto.HabitDTO{}, habitAlreadyExists(habit.Name, nil)
		}
	}

	replacement, err := s.mapper.ToEntity(&habit)
	if err != nil {
		return dto.HabitDTO{}, err
	}

	record.Name = replacement.Name
	record.Frequency = replacement.Frequency
	record.StartDate = replacement.StartDate
	record.EndDate = replacement.EndDate
	record.Reminder = replacement.Reminder
	record.UserEmail = nil
	if err := s.assignOwner(ctx, record, habit.Owner); err != nil {
		return dto.HabitDTO{}, err
	}

	if err := s.habits.Save(ctx, record); err != nil {
		return dto.HabitDTO{}, s.writeFailure("update habit", record.Name, err)
	}
	return s.mapper.ToDTO(record)
}

// UpsertHabit 宽松更新：名称不存在时按 AddHabit 新建
func (s *HabitService) UpsertHabit(ctx context.Context, name string, habit dto.HabitDTO) (dto.HabitDTO, error) {
	exists, err := s.habits.ExistsByName(ctx, name)
	if err != nil {
		return dto.HabitDTO{}, storeFailure("check habit", err)
	}
	if exists {
		return s.UpdateHabit(ctx, name, habit)
	}

	created, err := s.AddHabit(ctx, habit)
	if err != nil {
		return dto.HabitDTO{}, err
	}
	return s.GetHabitByName(ctx, created)
}

// PartialUpdateHabit 以 JSON merge patch 局部更新习惯
// 标识与所属用户不可通过 patch 修改；patch 后的结果重新校验，非法时返回 mergepatch.ErrPatch。
func (s *HabitService) PartialUpdateHabit(ctx context.Context, name string, patch []byte) (dto.HabitDTO, error) {
	record, err := s.findHabit(ctx, name)
	if err != nil {
		return dto.HabitDTO{}, err
	}

	patched, err := mergepatch.Apply(patch, record)
	if err != nil {
		return dto.HabitDTO{}, err
	}
	if patched.ID != record.ID {
		return dto.HabitDTO{}, fmt.Errorf("%w: habit identity cannot be changed", mergepatch.ErrPatch)
	}
	if patched.OwnerEmail() != record.OwnerEmail() {
		return dto.HabitDTO{}, fmt.Errorf("%w: habit owner cannot be changed by a patch", mergepatch.ErrPatch)
	}

	view, err := s.mapper.ToDTO(patched)
	if err != nil {
		return dto.HabitDTO{}, fmt.Errorf("%w: %w", mergepatch.ErrPatch, err)
	}
	view = view.WithDefaults()
	if err := checkPatchedDates(record, view); err != nil {
		return dto.HabitDTO{}, err
	}

	if view.Name != name {
		exists, err := s.habits.ExistsByName(ctx, view.Name)
		if err != nil {
			return dto.HabitDTO{}, storeFailure("check habit", err)
		}
		if exists {
			return dto.HabitDTO{}, habitAlreadyExists(view.Name, nil)
		}
	}

	patched.StartDate = view.StartDate
	patched.EndDate = view.EndDate
	patched.CreatedAt = record.CreatedAt
	if err := s.habits.Save(ctx, patched); err != nil {
		return dto.HabitDTO{}, s.writeFailure("patch habit", patched.Name, err)
	}
	return view, nil
}

// checkPatchedDates applies the create-time date rules to dates the patch
// changed. Stored dates that are left alone are not re-checked.
func checkPatchedDates(record *db.Habit, view dto.HabitDTO) error {
	today := model.DateOf(dto.Now())
	if view.StartDate != record.StartDate && view.StartDate.Before(today) {
		return fmt.Errorf("%w: start date of habit cannot be placed in the past", mergepatch.ErrPatch)
	}
	if view.EndDate != record.EndDate && !view.EndDate.After(today) {
		return fmt.Errorf("%w: end date of habit must be placed in the future", mergepatch.ErrPatch)
	}
	return nil
}

// DeleteHabit 删除习惯，不存在时不会调用存储层删除
func (s *HabitService) DeleteHabit(ctx context.Context, name string) error {
	record, err := s.findHabit(ctx, name)
	if err != nil {
		return err
	}
	if err := s.habits.Delete(ctx, record); err != nil {
		return storeFailure("delete habit", err)
	}
	return nil
}

func (s *HabitService) findHabit(ctx context.Context, name string) (*db.Habit, error) {
	record, err := s.habits.FindByName(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return nil, habitNotFound(name)
		}
		return nil, storeFailure("find habit", err)
	}
	return record, nil
}

func (s *HabitService) assignOwner(ctx context.Context, record *db.Habit, email string) error {
	if email == "" {
		return nil
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return storeFailure("check owner", err)
	}
	if !exists {
		return userNotFound(email)
	}
	owner := email
	record.UserEmail = &owner
	return nil
}

func (s *HabitService) writeFailure(op, name string, err error) error {
	if isDuplicate(err) {
		return habitAlreadyExists(name, err)
	}
	return storeFailure(op, err)
}
