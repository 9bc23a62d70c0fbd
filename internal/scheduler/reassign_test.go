package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aularium-api/internal/models"
)

func TestReassignRejectsOccupiedRoom(t *testing.T) {
	x := assignmentAt(t, "X", "g1", strPtr("A"), models.Monday, "10:00", "11:00")
	y := assignmentAt(t, "Y", "g2", strPtr("C"), models.Monday, "10:30", "11:30")
	roomC := &models.Room{ID: "C", Name: "Room C", Capacity: 30}

	outcome, err := Reassign(x, roomC, []models.Assignment{x, y}, 20)
	require.Nil(t, outcome)
	var occupied *models.RoomOccupiedError
	require.ErrorAs(t, err, &occupied)
	assert.Equal(t, "C", occupied.RoomID)
	require.Len(t, occupied.Blocking, 1)
	assert.Equal(t, "Y", occupied.Blocking[0].ID)
	assert.Equal(t, "A", *x.RoomID)
}

func TestReassignToNullAlwaysSucceeds(t *testing.T) {
	x := assignmentAt(t, "X", "g1", strPtr("A"), models.Monday, "10:00", "11:00")
	clash := assignmentAt(t, "Z", "g2", strPtr("A"), models.Monday, "10:00", "11:00")

	outcome, err := Reassign(x, nil, []models.Assignment{x, clash}, 500)
	require.NoError(t, err)
	assert.Nil(t, outcome.Assignment.RoomID)
	assert.Equal(t, "A", *outcome.PreviousRoomID)
	assert.Nil(t, outcome.NewRoom)
	assert.False(t, outcome.CapacityWarning)
}

func TestReassignIgnoresItsOwnBooking(t *testing.T) {
	x := assignmentAt(t, "X", "g1", strPtr("A"), models.Monday, "10:00", "11:00")
	roomA := &models.Room{ID: "A", Name: "Room A", Capacity: 30}

	outcome, err := Reassign(x, roomA, []models.Assignment{x}, 10)
	require.NoError(t, err)
	assert.Equal(t, "A", *outcome.Assignment.RoomID)
}

func TestReassignWarnsButAllowsOverCapacity(t *testing.T) {
	x := assignmentAt(t, "X", "g1", nil, models.Tuesday, "07:00", "08:00")
	small := &models.Room{ID: "S", Name: "Small", Capacity: 5}

	outcome, err := Reassign(x, small, []models.Assignment{x}, 30)
	require.NoError(t, err)
	assert.True(t, outcome.CapacityWarning)
	assert.Equal(t, "S", *outcome.Assignment.RoomID)
	assert.Nil(t, outcome.PreviousRoomID)
	assert.Equal(t, "Small", outcome.NewRoom.Name)
}

func TestNoDoubleBookingAfterMixedOperations(t *testing.T) {
	rooms := []models.Room{{ID: "A", Name: "A", Capacity: 30}, {ID: "B", Name: "B", Capacity: 30}}
	var all []models.Assignment
	next := 0
	add := func(res AutoAssignResult) {
		for _, a := range res.Assignments {
			next++
			a.ID = string(rune('a' + next))
			all = append(all, a)
		}
	}
	add(AutoAssign(AutoAssignInput{GroupID: "g1", StudentCount: 20, Sessions: []models.TimeSlot{slot(t, models.Monday, "07:00", "09:00")}}, rooms, all))
	add(AutoAssign(AutoAssignInput{GroupID: "g2", StudentCount: 20, Sessions: []models.TimeSlot{slot(t, models.Monday, "08:00", "10:00")}}, rooms, all))
	add(AutoAssign(AutoAssignInput{GroupID: "g3", StudentCount: 20, Sessions: []models.TimeSlot{slot(t, models.Monday, "08:30", "09:30")}}, rooms, all))

	for i := range all {
		for _, room := range rooms {
			r := room
			outcome, err := Reassign(all[i], &r, all, 20)
			if err != nil {
				continue
			}
			all[i] = outcome.Assignment
		}
	}
	assert.Empty(t, FindDoubleBookings(all))
}

func TestFindDoubleBookings(t *testing.T) {
	all := []models.Assignment{
		assignmentAt(t, "1", "g1", strPtr("A"), models.Monday, "07:00", "09:00"),
		assignmentAt(t, "2", "g2", strPtr("A"), models.Monday, "08:00", "10:00"),
		assignmentAt(t, "3", "g3", strPtr("A"), models.Monday, "10:00", "11:00"),
		assignmentAt(t, "4", "g4", strPtr("B"), models.Monday, "07:00", "09:00"),
		assignmentAt(t, "5", "g5", nil, models.Monday, "07:00", "09:00"),
	}
	found := FindDoubleBookings(all)
	require.Len(t, found, 1)
	assert.Equal(t, "A", found[0].RoomID)
	assert.Equal(t, "1", found[0].First.ID)
	assert.Equal(t, "2", found[0].Second.ID)
}
