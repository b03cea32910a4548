// Package dto holds the wire representations exchanged with API callers.
package dto

import (
	"encoding/json"
	"time"

	"github.com/habitbuilder/internal/model"
)

// Now is the clock used for date defaults. Tests may replace it.
var Now = time.Now

// HabitDTO 是习惯的对外表示，不包含存储层 ID
type HabitDTO struct {
	Name      string          `json:"name" binding:"required,max=255"`
	Frequency model.Frequency `json:"frequency" binding:"required"`
	StartDate model.Date      `json:"startDate" binding:"futureorpresent"`
	EndDate   model.Date      `json:"endDate" binding:"future"`
	Reminder  bool            `json:"reminder"`
	Owner     string          `json:"owner,omitempty" binding:"omitempty,email"`
}

// NewHabitDTO builds a HabitDTO, replacing absent optional fields with their
// defaults: start today, end one year from today, reminder off.
func NewHabitDTO(name string, frequency model.Frequency, startDate, endDate model.Date, reminder *bool) HabitDTO {
	today := model.DateOf(Now())
	if startDate.IsZero() {
		startDate = today
	}
	if endDate.IsZero() {
		endDate = today.AddDate(1, 0, 0)
	}
	remind := false
	if reminder != nil {
		remind = *reminder
	}
	return HabitDTO{
		Name:      name,
		Frequency: frequency,
		StartDate: startDate,
		EndDate:   endDate,
		Reminder:  remind,
	}
}

// WithDefaults re-applies the constructor defaults. Fields already set are kept.
func (h HabitDTO) WithDefaults() HabitDTO {
	reminder := h.Reminder
	out := NewHabitDTO(h.Name, h.Frequency, h.StartDate, h.EndDate, &reminder)
	out.Owner = h.Owner
	return out
}

type habitWire struct {
	Name      string          `json:"name"`
	Frequency model.Frequency `json:"frequency"`
	StartDate model.Date      `json:"startDate"`
	EndDate   model.Date      `json:"endDate"`
	Reminder  *bool           `json:"reminder"`
	Owner     string          `json:"owner"`
}

// UnmarshalJSON decodes through NewHabitDTO so null or missing optional
// fields never reach the service layer.
func (h *HabitDTO) UnmarshalJSON(data []byte) error {
	var wire habitWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*h = NewHabitDTO(wire.Name, wire.Frequency, wire.StartDate, wire.EndDate, wire.Reminder)
	h.Owner = wire.Owner
	return nil
}

// NaturalKey returns the habit name.
func (h HabitDTO) NaturalKey() string {
	return h.Name
}

// Equal compares every field.
func (h HabitDTO) Equal(other HabitDTO) bool {
	return h == other
}
