package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aularium-api/internal/models"
)

func clock(t *testing.T, raw string) models.ClockTime {
	t.Helper()
	c, err := models.ParseClockTime(raw)
	require.NoError(t, err)
	return c
}

func slot(t *testing.T, day models.Weekday, start, end string) models.TimeSlot {
	t.Helper()
	return models.TimeSlot{Day: day, StartTime: clock(t, start), EndTime: clock(t, end)}
}

func strPtr(v string) *string { return &v }

func assignmentAt(t *testing.T, id, groupID string, roomID *string, day models.Weekday, start, end string) models.Assignment {
	t.Helper()
	s := slot(t, day, start, end)
	return models.Assignment{ID: id, GroupID: groupID, RoomID: roomID, Day: s.Day, StartTime: s.StartTime, EndTime: s.EndTime}
}

func hoursAvailable(t *testing.T, marks ...string) map[models.ClockTime]bool {
	t.Helper()
	hours := make(map[models.ClockTime]bool, len(marks))
	for _, m := range marks {
		hours[clock(t, m)] = true
	}
	return hours
}
