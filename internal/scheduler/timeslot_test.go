package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aularium-api/internal/models"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b models.TimeSlot
		want bool
	}{
		{"identical", slot(t, models.Monday, "07:00", "08:00"), slot(t, models.Monday, "07:00", "08:00"), true},
		{"partial", slot(t, models.Monday, "07:00", "08:00"), slot(t, models.Monday, "07:30", "08:30"), true},
		{"containment", slot(t, models.Monday, "07:00", "10:00"), slot(t, models.Monday, "08:00", "09:00"), true},
		{"touching ends", slot(t, models.Monday, "07:00", "08:00"), slot(t, models.Monday, "08:00", "09:00"), false},
		{"other day", slot(t, models.Monday, "07:00", "08:00"), slot(t, models.Tuesday, "07:00", "08:00"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.a, tc.b))
			assert.Equal(t, tc.want, Overlaps(tc.b, tc.a))
		})
	}
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(slot(t, models.Friday, "10:00", "12:00"), slot(t, models.Friday, "10:00", "12:00")))
	assert.False(t, IsDuplicate(slot(t, models.Friday, "10:00", "12:00"), slot(t, models.Friday, "10:00", "11:00")))
}

func TestHourMarks(t *testing.T) {
	assert.Equal(t, []models.ClockTime{clock(t, "10:00"), clock(t, "11:00")}, HourMarks(clock(t, "10:00"), clock(t, "12:00")))
	assert.Equal(t, []models.ClockTime{clock(t, "10:00"), clock(t, "11:00")}, HourMarks(clock(t, "10:30"), clock(t, "11:30")))
	assert.Equal(t, []models.ClockTime{clock(t, "07:00")}, HourMarks(clock(t, "07:00"), clock(t, "07:45")))
	assert.Empty(t, HourMarks(clock(t, "09:00"), clock(t, "09:00")))
}

func TestValidateSlot(t *testing.T) {
	require.NoError(t, ValidateSlot(slot(t, models.Monday, "07:00", "08:00")))

	err := ValidateSlot(slot(t, models.Monday, "08:00", "08:00"))
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "end_time", vErr.Field)

	err = ValidateSlot(models.TimeSlot{Day: "FUNDAY", StartTime: clock(t, "07:00"), EndTime: clock(t, "08:00")})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "day", vErr.Field)
}

func TestValidateSlotEndOfDay(t *testing.T) {
	require.NoError(t, ValidateSlot(slot(t, models.Friday, "23:00", "24:00")))

	var vErr *models.ValidationError
	err := ValidateSlot(slot(t, models.Friday, "24:00", "24:00"))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "start_time", vErr.Field)

	err = ValidateSlot(models.TimeSlot{Day: models.Friday, StartTime: clock(t, "23:00"), EndTime: models.NewClockTime(24, 30)})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "end_time", vErr.Field)
}
