package scheduler

import (
	"sort"

	"github.com/noah-isme/aularium-api/internal/models"
)

// ReassignOutcome describes a successful manual move.
type ReassignOutcome struct {
	Assignment      models.Assignment
	PreviousRoomID  *string
	NewRoom         *models.Room
	CapacityWarning bool
}

// Reassign moves an assignment to target, or clears its room when target is
// nil. Clearing always succeeds. A move into a room that holds another
// overlapping assignment on the same day fails with *models.RoomOccupiedError
// and leaves moving untouched. Capacity is only reported, never enforced.
func Reassign(moving models.Assignment, target *models.Room, all []models.Assignment, studentCount int) (*ReassignOutcome, error) {
	outcome := &ReassignOutcome{PreviousRoomID: moving.RoomID}

	if target == nil {
		moving.RoomID = nil
		outcome.Assignment = moving
		return outcome, nil
	}

	var blocking []models.Assignment
	for _, other := range all {
		if other.ID == moving.ID {
			continue
		}
		if other.InRoom(target.ID) && Overlaps(moving.Slot(), other.Slot()) {
			blocking = append(blocking, other)
		}
	}
	if len(blocking) > 0 {
		return nil, &models.RoomOccupiedError{
			AssignmentID: moving.ID,
			RoomID:       target.ID,
			RoomName:     target.Name,
			Blocking:     blocking,
		}
	}

	id := target.ID
	moving.RoomID = &id
	room := *target
	outcome.Assignment = moving
	outcome.NewRoom = &room
	outcome.CapacityWarning = !FitsCapacity(*target, studentCount)
	return outcome, nil
}

// FindDoubleBookings lists every pair of assignments that share a room on
// the same day with overlapping times. A healthy period returns nothing.
func FindDoubleBookings(assignments []models.Assignment) []models.DoubleBooking {
	type bucketKey struct {
		room string
		day  models.Weekday
	}
	buckets := make(map[bucketKey][]models.Assignment)
	var order []bucketKey
	for _, a := range assignments {
		if !a.Assigned() {
			continue
		}
		key := bucketKey{room: *a.RoomID, day: a.Day}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], a)
	}

	var found []models.DoubleBooking
	for _, key := range order {
		bucket := buckets[key]
		sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].StartTime < bucket[j].StartTime })
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				if bucket[j].StartTime >= bucket[i].EndTime {
					break
				}
				found = append(found, models.DoubleBooking{
					RoomID: key.room,
					Day:    key.day,
					First:  bucket[i],
					Second: bucket[j],
				})
			}
		}
	}
	return found
}
