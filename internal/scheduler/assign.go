package scheduler

import "github.com/noah-isme/aularium-api/internal/models"

// AutoAssignInput describes the group whose sessions need rooms.
type AutoAssignInput struct {
	GroupID      string
	SubjectID    string
	Shift        models.Shift
	StudentCount int
	Sessions     []models.TimeSlot
}

// AutoAssignResult carries one assignment per session plus counters.
type AutoAssignResult struct {
	Assignments []models.Assignment
	Assigned    int
	Unassigned  int
}

// AutoAssign picks, for every session independently, the first room in the
// given order that fits the group and is free at that time. Sessions without
// a free room stay unassigned. Rooms booked earlier in the same run count as
// taken.
func AutoAssign(in AutoAssignInput, rooms []models.Room, existing []models.Assignment) AutoAssignResult {
	booked := append([]models.Assignment(nil), existing...)
	result := AutoAssignResult{Assignments: make([]models.Assignment, 0, len(in.Sessions))}

	for _, session := range in.Sessions {
		assignment := models.Assignment{
			GroupID:   in.GroupID,
			SubjectID: in.SubjectID,
			Day:       session.Day,
			StartTime: session.StartTime,
			EndTime:   session.EndTime,
			Shift:     in.Shift,
		}
		if room := firstFreeRoom(session, in.StudentCount, rooms, booked); room != nil {
			id := room.ID
			assignment.RoomID = &id
			booked = append(booked, assignment)
			result.Assigned++
		} else {
			result.Unassigned++
		}
		result.Assignments = append(result.Assignments, assignment)
	}
	return result
}

// AssignPending gives rooms to unassigned assignments in their given order.
// studentCounts maps group ids to their size; unknown groups count as zero.
// Only assignments that received a room are returned.
func AssignPending(pending []models.Assignment, studentCounts map[string]int, rooms []models.Room, existing []models.Assignment) AutoAssignResult {
	booked := make([]models.Assignment, 0, len(existing))
	for _, a := range existing {
		if a.Assigned() {
			booked = append(booked, a)
		}
	}

	var result AutoAssignResult
	for _, assignment := range pending {
		if assignment.Assigned() {
			continue
		}
		room := firstFreeRoom(assignment.Slot(), studentCounts[assignment.GroupID], rooms, booked)
		if room == nil {
			result.Unassigned++
			continue
		}
		id := room.ID
		assignment.RoomID = &id
		booked = append(booked, assignment)
		result.Assignments = append(result.Assignments, assignment)
		result.Assigned++
	}
	return result
}

// WithoutGroup drops the assignments of groupID so a re-run does not
// conflict with the group's own previous bookings.
func WithoutGroup(existing []models.Assignment, groupID string) []models.Assignment {
	kept := make([]models.Assignment, 0, len(existing))
	for _, a := range existing {
		if a.GroupID != groupID {
			kept = append(kept, a)
		}
	}
	return kept
}

// FitsCapacity reports whether the room can seat the group.
func FitsCapacity(room models.Room, studentCount int) bool {
	return room.Capacity >= studentCount
}

func firstFreeRoom(slot models.TimeSlot, studentCount int, rooms []models.Room, booked []models.Assignment) *models.Room {
	for i := range rooms {
		room := &rooms[i]
		if !FitsCapacity(*room, studentCount) {
			continue
		}
		if roomFree(room.ID, slot, booked) {
			return room
		}
	}
	return nil
}

func roomFree(roomID string, slot models.TimeSlot, booked []models.Assignment) bool {
	for _, a := range booked {
		if a.InRoom(roomID) && Overlaps(slot, a.Slot()) {
			return false
		}
	}
	return true
}
