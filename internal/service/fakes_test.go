package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aularium-api/internal/models"
)

// memStore is an in-memory record store shared by the fake repositories.
type memStore struct {
	mu          sync.Mutex
	teachers    []models.Teacher
	rooms       []models.Room
	subjects    map[models.PeriodID][]models.Subject
	groups      map[models.PeriodID][]models.Group
	assignments map[models.PeriodID][]models.Assignment
}

func newMemStore() *memStore {
	return &memStore{
		subjects:    map[models.PeriodID][]models.Subject{},
		groups:      map[models.PeriodID][]models.Group{},
		assignments: map[models.PeriodID][]models.Assignment{},
	}
}

type fakeTx struct {
	calls int
	err   error
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, tx sqlx.ExtContext) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(ctx, nil)
}

type fakeTeachers struct{ *memStore }

func (f fakeTeachers) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Teacher
	for _, t := range f.teachers {
		if filter.Search == "" || strings.Contains(strings.ToLower(t.Name), strings.ToLower(filter.Search)) {
			out = append(out, t)
		}
	}
	return out, len(out), nil
}

func (f fakeTeachers) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teachers {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeTeachers) ListByIDs(ctx context.Context, ids []string) (map[string]models.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]models.Teacher)
	for _, id := range ids {
		for _, t := range f.teachers {
			if t.ID == id {
				out[id] = t
			}
		}
	}
	return out, nil
}

func (f fakeTeachers) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teachers {
		if strings.EqualFold(t.Email, email) && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeTeachers) Create(ctx context.Context, teacher *models.Teacher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	f.teachers = append(f.teachers, *teacher)
	return nil
}

func (f fakeTeachers) Update(ctx context.Context, teacher *models.Teacher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.teachers {
		if f.teachers[i].ID == teacher.ID {
			f.teachers[i] = *teacher
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f fakeTeachers) UpdateAvailability(ctx context.Context, id string, availability models.WeeklyAvailability) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.teachers {
		if f.teachers[i].ID == id {
			f.teachers[i].Availability = availability
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f fakeTeachers) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.teachers {
		if f.teachers[i].ID == id {
			f.teachers = append(f.teachers[:i], f.teachers[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeRooms struct{ *memStore }

func (f fakeRooms) List(ctx context.Context) ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Room(nil), f.rooms...), nil
}

func (f fakeRooms) FindByID(ctx context.Context, id string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rooms {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeRooms) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rooms {
		if strings.EqualFold(r.Name, name) && r.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeRooms) Create(ctx context.Context, room *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	f.rooms = append(f.rooms, *room)
	return nil
}

func (f fakeRooms) Update(ctx context.Context, room *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rooms {
		if f.rooms[i].ID == room.ID {
			f.rooms[i] = *room
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f fakeRooms) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			f.rooms = append(f.rooms[:i], f.rooms[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeSubjects struct{ *memStore }

func (f fakeSubjects) ListAll(ctx context.Context, period models.PeriodID) ([]models.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Subject(nil), f.subjects[period]...), nil
}

func (f fakeSubjects) List(ctx context.Context, period models.PeriodID, filter models.SubjectFilter) ([]models.Subject, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Subject
	for _, s := range f.subjects[period] {
		if filter.OwnerID != "" && s.OwnerID != filter.OwnerID {
			continue
		}
		if filter.CareerID != "" && s.CareerID != filter.CareerID {
			continue
		}
		out = append(out, s)
	}
	return out, len(out), nil
}

func (f fakeSubjects) FindByID(ctx context.Context, period models.PeriodID, id string) (*models.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subjects[period] {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeSubjects) Create(ctx context.Context, period models.PeriodID, subject *models.Subject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	f.subjects[period] = append(f.subjects[period], *subject)
	return nil
}

func (f fakeSubjects) Update(ctx context.Context, period models.PeriodID, subject *models.Subject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.subjects[period]
	for i := range rows {
		if rows[i].ID == subject.ID {
			rows[i] = *subject
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f fakeSubjects) Delete(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.subjects[period]
	for i := range rows {
		if rows[i].ID == id {
			f.subjects[period] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f fakeSubjects) ClearTeacher(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, teacherID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.subjects[period]
	for i := range rows {
		if rows[i].TeacherID != nil && *rows[i].TeacherID == teacherID {
			rows[i].TeacherID = nil
		}
	}
	return nil
}

type fakeGroups struct{ *memStore }

func (f fakeGroups) List(ctx context.Context, period models.PeriodID, filter models.GroupFilter) ([]models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owners := make(map[string]string)
	for _, s := range f.subjects[period] {
		owners[s.ID] = s.OwnerID
	}
	var out []models.Group
	for _, g := range f.groups[period] {
		if filter.SubjectID != "" && g.SubjectID != filter.SubjectID {
			continue
		}
		if filter.OwnerID != "" && owners[g.SubjectID] != filter.OwnerID {
			continue
		}
		if filter.Shift != "" && g.Shift != filter.Shift {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (f fakeGroups) FindByID(ctx context.Context, period models.PeriodID, id string) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups[period] {
		if g.ID == id {
			found := g
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeGroups) Upsert(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, group *models.Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	rows := f.groups[period]
	for i := range rows {
		if rows[i].ID == group.ID {
			rows[i] = *group
			return nil
		}
	}
	f.groups[period] = append(rows, *group)
	return nil
}

func (f fakeGroups) Delete(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.groups[period][:0]
	for _, g := range f.groups[period] {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	f.groups[period] = kept
	return nil
}

func (f fakeGroups) DeleteBySubject(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, subjectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.groups[period][:0]
	for _, g := range f.groups[period] {
		if g.SubjectID != subjectID {
			kept = append(kept, g)
		}
	}
	f.groups[period] = kept
	return nil
}

type fakeAssignments struct {
	*memStore
	insertErr error
}

func (f fakeAssignments) List(ctx context.Context, period models.PeriodID, filter models.AssignmentFilter) ([]models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Assignment
	for _, a := range f.assignments[period] {
		if filter.GroupID != "" && a.GroupID != filter.GroupID {
			continue
		}
		if filter.SubjectID != "" && a.SubjectID != filter.SubjectID {
			continue
		}
		if filter.RoomID != "" && !a.InRoom(filter.RoomID) {
			continue
		}
		if filter.Shift != "" && a.Shift != filter.Shift {
			continue
		}
		if filter.Unassigned && a.Assigned() {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f fakeAssignments) FindByID(ctx context.Context, period models.PeriodID, id string) (*models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assignments[period] {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeAssignments) InsertBatch(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, assignments []models.Assignment) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range assignments {
		if assignments[i].ID == "" {
			assignments[i].ID = uuid.NewString()
		}
		f.assignments[period] = append(f.assignments[period], assignments[i])
	}
	return nil
}

func (f fakeAssignments) UpdateRoom(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, id string, roomID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.assignments[period]
	for i := range rows {
		if rows[i].ID == id {
			rows[i].RoomID = roomID
			return nil
		}
	}
	return errors.New("assignment not found")
}

func (f fakeAssignments) ClearRooms(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cleared int64
	rows := f.assignments[period]
	for i := range rows {
		if rows[i].Assigned() {
			rows[i].RoomID = nil
			cleared++
		}
	}
	return cleared, nil
}

func (f fakeAssignments) UnassignRoom(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.assignments[period]
	for i := range rows {
		if rows[i].InRoom(roomID) {
			rows[i].RoomID = nil
		}
	}
	return nil
}

func (f fakeAssignments) DeleteByGroup(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, groupID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.assignments[period][:0]
	for _, a := range f.assignments[period] {
		if a.GroupID != groupID {
			kept = append(kept, a)
		}
	}
	f.assignments[period] = kept
	return nil
}

func (f fakeAssignments) DeleteBySubject(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, subjectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.assignments[period][:0]
	for _, a := range f.assignments[period] {
		if a.SubjectID != subjectID {
			kept = append(kept, a)
		}
	}
	f.assignments[period] = kept
	return nil
}

func strPtr(s string) *string { return &s }

func slot(day models.Weekday, startHour, endHour int) models.TimeSlot {
	return models.TimeSlot{Day: day, StartTime: models.NewClockTime(startHour, 0), EndTime: models.NewClockTime(endHour, 0)}
}

// fullWeek declares every hour of every school day.
func fullWeek() models.WeeklyAvailability {
	availability := models.WeeklyAvailability{}
	for _, day := range models.SchoolDays() {
		hours := map[models.ClockTime]bool{}
		for h := 7; h < 22; h++ {
			hours[models.NewClockTime(h, 0)] = true
		}
		availability[day] = hours
	}
	return availability
}

var (
	adminAuth = models.AuthContext{UserID: "admin-1", Role: models.RoleAdmin}
	staffAuth = models.AuthContext{UserID: "staff-1", Role: models.RoleStaff}
	otherAuth = models.AuthContext{UserID: "staff-2", Role: models.RoleStaff}
)
