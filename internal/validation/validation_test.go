package validation

import (
	"testing"

	"fightclub/internal/apperr"
	"fightclub/internal/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string            `json:"name" validate:"required,max=10"`
	Email    string            `json:"email" validate:"omitempty,email"`
	Days     []clock.Weekday   `json:"days_of_week" validate:"required,min=1,unique,dive,weekday"`
	Start    clock.TimeOfDay   `json:"start_time" validate:"timeofday"`
	Capacity int               `json:"capacity" validate:"gt=0"`
	Method   string            `json:"method" validate:"oneof=CASH CARD"`
	Extra    map[string]string `json:"-"`
}

func validSample() sample {
	return sample{
		Name:     "Muay Thai",
		Days:     []clock.Weekday{clock.Monday, clock.Wednesday},
		Start:    clock.MustTimeOfDay("18:00"),
		Capacity: 20,
		Method:   "CASH",
	}
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(validSample()))
}

func TestStruct_CollectsAllFields(t *testing.T) {
	s := validSample()
	s.Name = ""
	s.Capacity = 0
	s.Days = []clock.Weekday{clock.Monday, clock.Weekday(9)}

	err := Struct(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	details := Details(err)
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "capacity")
	assert.Contains(t, fields, "days_of_week[1]")
}

func TestStruct_DuplicateDays(t *testing.T) {
	s := validSample()
	s.Days = []clock.Weekday{clock.Friday, clock.Friday}

	details := Details(Struct(s))
	require.Len(t, details, 1)
	assert.Equal(t, "unique", details[0].Tag)
}

func TestStruct_OneOf(t *testing.T) {
	s := validSample()
	s.Method = "BITCOIN"

	details := Details(Struct(s))
	require.Len(t, details, 1)
	assert.Equal(t, "method must be one of: CASH CARD", details[0].Message)
}
