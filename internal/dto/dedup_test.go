package dto

import (
	"testing"

	"github.com/habitbuilder/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func habitNames(habits []HabitDTO) []string {
	names := make([]string, 0, len(habits))
	for _, habit := range habits {
		names = append(names, habit.Name)
	}
	return names
}

func TestDedupByNaturalKeyKeepsFirstOccurrence(t *testing.T) {
	batch := []HabitDTO{
		{Name: "A", Frequency: model.FrequencyDaily},
		{Name: "B", Frequency: model.FrequencyDaily},
		{Name: "B", Frequency: model.FrequencyWeekly},
		{Name: "C", Frequency: model.FrequencyMonthly},
	}

	out := Dedup(batch, DedupByNaturalKey)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"A", "B", "C"}, habitNames(out))
	assert.Equal(t, model.FrequencyDaily, out[1].Frequency)
}

func TestDedupByValueKeepsDistinctValues(t *testing.T) {
	batch := []HabitDTO{
		{Name: "A", Frequency: model.FrequencyDaily},
		{Name: "B", Frequency: model.FrequencyDaily},
		{Name: "B", Frequency: model.FrequencyDaily},
		{Name: "B", Frequency: model.FrequencyWeekly},
	}

	out := Dedup(batch, DedupByValue)

	assert.Equal(t, []string{"A", "B", "B"}, habitNames(out))
}

func TestDedupEmptyInput(t *testing.T) {
	assert.Empty(t, Dedup([]UserDTO(nil), DedupByValue))
}

func TestParseDedupPolicy(t *testing.T) {
	policy, err := ParseDedupPolicy("", DedupByValue)
	require.NoError(t, err)
	assert.Equal(t, DedupByValue, policy)

	policy, err = ParseDedupPolicy("Key", DedupByValue)
	require.NoError(t, err)
	assert.Equal(t, DedupByNaturalKey, policy)

	_, err = ParseDedupPolicy("fuzzy", DedupByNaturalKey)
	assert.Error(t, err)
	assert.Equal(t, "value", DedupByValue.String())
}
