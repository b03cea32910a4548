package mapper

import (
	"github.com/habitbuilder/internal/db"
	"github.com/habitbuilder/internal/dto"
)

// HabitMapper copies habit fields between db.Habit and dto.HabitDTO.
type HabitMapper struct{}

// ToDTO copies every wire field including the owner reference.
func (HabitMapper) ToDTO(entity *db.Habit) (dto.HabitDTO, error) {
	if entity == nil {
		return dto.HabitDTO{}, mappingErrorf("habit entity is nil")
	}
	if err := checkHabitName(entity.Name); err != nil {
		return dto.HabitDTO{}, err
	}
	if !entity.Frequency.Valid() {
		return dto.HabitDTO{}, mappingErrorf("habit %q has invalid frequency %q", entity.Name, entity.Frequency)
	}

	return dto.HabitDTO{
		Name:      entity.Name,
		Frequency: entity.Frequency,
		StartDate: entity.StartDate,
		EndDate:   entity.EndDate,
		Reminder:  entity.Reminder,
		Owner:     entity.OwnerEmail(),
	}, nil
}

// ToEntity leaves ID and UserEmail unset; the store assigns the first and the
// service the second.
func (HabitMapper) ToEntity(habit *dto.HabitDTO) (*db.Habit, error) {
	if habit == nil {
		return nil, mappingErrorf("habit dto is nil")
	}
	if err := checkHabitName(habit.Name); err != nil {
		return nil, err
	}
	if !habit.Frequency.Valid() {
		return nil, mappingErrorf("habit %q has invalid frequency %q", habit.Name, habit.Frequency)
	}

	return &db.Habit{
		Name:      habit.Name,
		Frequency: habit.Frequency,
		StartDate: habit.StartDate,
		EndDate:   habit.EndDate,
		Reminder:  habit.Reminder,
	}, nil
}

// ToDTOs maps a slice, failing on the first invalid entity.
func (m HabitMapper) ToDTOs(entities []db.Habit) ([]dto.HabitDTO, error) {
	out := make([]dto.HabitDTO, 0, len(entities))
	for i := range entities {
		item, err := m.ToDTO(&entities[i])
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
