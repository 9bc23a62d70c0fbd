package scheduler

import (
	"fmt"
	"strings"

	"github.com/noah-isme/aularium-api/internal/models"
)

// CheckContext is the snapshot a candidate slot is validated against.
type CheckContext struct {
	// GroupID is the group being edited; empty while a new group is built.
	GroupID string
	// SubjectID is the subject the candidate belongs to.
	SubjectID string
	// Staged holds the other sessions already accepted for the group.
	Staged []models.TimeSlot

	Subjects map[string]models.Subject
	Groups   []models.Group
	Teachers map[string]models.Teacher
	Policy   AvailabilityPolicy
}

func (c CheckContext) teacher() (*models.Teacher, bool) {
	subject, ok := c.Subjects[c.SubjectID]
	if !ok || !subject.HasTeacher() {
		return nil, false
	}
	teacher, ok := c.Teachers[*subject.TeacherID]
	if !ok {
		// Unknown teacher ids still take part in clash checks and count as
		// having no availability configured.
		return &models.Teacher{ID: *subject.TeacherID}, true
	}
	return &teacher, true
}

// Rule is one conflict check. Rules run in order and the first one that
// reports a conflict wins.
type Rule struct {
	Kind  models.ConflictKind
	Check func(candidate models.TimeSlot, ctx CheckContext) *models.Conflict
}

// DefaultRules returns the checks in precedence order.
func DefaultRules() []Rule {
	return []Rule{
		{Kind: models.ConflictDuplicate, Check: checkDuplicate},
		{Kind: models.ConflictOverlap, Check: checkOverlap},
		{Kind: models.ConflictSubject, Check: checkSubject},
		{Kind: models.ConflictTeacher, Check: checkTeacher},
		{Kind: models.ConflictAvailability, Check: checkTeacherAvailability},
	}
}

// Checker validates candidate slots against a rule list.
type Checker struct {
	rules []Rule
}

// NewChecker builds a checker. Without arguments it uses DefaultRules.
func NewChecker(rules ...Rule) *Checker {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Checker{rules: rules}
}

// Only returns a checker limited to the given kinds, keeping the original order.
func (c *Checker) Only(kinds ...models.ConflictKind) *Checker {
	keep := make(map[models.ConflictKind]bool, len(kinds))
	for _, k := range kinds {
		keep[k] = true
	}
	var rules []Rule
	for _, rule := range c.rules {
		if keep[rule.Kind] {
			rules = append(rules, rule)
		}
	}
	return &Checker{rules: rules}
}

// Rules returns the conflict kinds in the order they are evaluated.
func (c *Checker) Rules() []models.ConflictKind {
	kinds := make([]models.ConflictKind, len(c.rules))
	for i, rule := range c.rules {
		kinds[i] = rule.Kind
	}
	return kinds
}

// Check returns the first conflict for candidate, or nil when it is clean.
func (c *Checker) Check(candidate models.TimeSlot, ctx CheckContext) *models.Conflict {
	for _, rule := range c.rules {
		if conflict := rule.Check(candidate, ctx); conflict != nil {
			conflict.Kind = rule.Kind
			conflict.Candidate = candidate
			return conflict
		}
	}
	return nil
}

// CheckSessions validates a full session list in order, staging each
// accepted slot before checking the next one. The returned conflict carries
// the index of the failing session.
func (c *Checker) CheckSessions(slots []models.TimeSlot, ctx CheckContext) *models.Conflict {
	staged := make([]models.TimeSlot, 0, len(ctx.Staged)+len(slots))
	staged = append(staged, ctx.Staged...)
	for i, slot := range slots {
		step := ctx
		step.Staged = staged
		if conflict := c.Check(slot, step); conflict != nil {
			index := i
			conflict.SessionIndex = &index
			return conflict
		}
		staged = append(staged, slot)
	}
	return nil
}

func checkDuplicate(candidate models.TimeSlot, ctx CheckContext) *models.Conflict {
	for _, slot := range ctx.Staged {
		if IsDuplicate(candidate, slot) {
			return &models.Conflict{
				Message: fmt.Sprintf("session %s is already in the group's session list", candidate),
				Entries: []models.ConflictEntry{stagedEntry(slot, ctx)},
			}
		}
	}
	return nil
}

func checkOverlap(candidate models.TimeSlot, ctx CheckContext) *models.Conflict {
	var entries []models.ConflictEntry
	for _, slot := range ctx.Staged {
		if Overlaps(candidate, slot) && !IsDuplicate(candidate, slot) {
			entries = append(entries, stagedEntry(slot, ctx))
		}
	}
	if len(entries) == 0 {
		return nil
	}
	return &models.Conflict{
		Message: fmt.Sprintf("session %s overlaps %s of the same group", candidate, describeEntries(entries)),
		Entries: entries,
	}
}

func checkSubject(candidate models.TimeSlot, ctx CheckContext) *models.Conflict {
	entries := clashingSessions(candidate, ctx, func(g models.Group) bool {
		return g.SubjectID == ctx.SubjectID
	})
	if len(entries) == 0 {
		return nil
	}
	return &models.Conflict{
		Message: fmt.Sprintf("subject %s already meets at %s", subjectName(ctx, ctx.SubjectID), describeEntries(entries)),
		Entries: entries,
	}
}

func checkTeacher(candidate models.TimeSlot, ctx CheckContext) *models.Conflict {
	teacher, ok := ctx.teacher()
	if !ok {
		return nil
	}
	taught := make(map[string]bool)
	for id, subject := range ctx.Subjects {
		if subject.HasTeacher() && *subject.TeacherID == teacher.ID {
			taught[id] = true
		}
	}
	taught[ctx.SubjectID] = true

	entries := clashingSessions(candidate, ctx, func(g models.Group) bool {
		return taught[g.SubjectID]
	})
	if len(entries) == 0 {
		return nil
	}
	return &models.Conflict{
		Message:   fmt.Sprintf("teacher %s already teaches at %s", teacherName(teacher), describeEntries(entries)),
		Entries:   entries,
		TeacherID: teacher.ID,
	}
}

func checkTeacherAvailability(candidate models.TimeSlot, ctx CheckContext) *models.Conflict {
	teacher, ok := ctx.teacher()
	if !ok {
		return nil
	}
	result := CheckAvailability(teacher, candidate.Day, candidate.StartTime, candidate.EndTime, ctx.Policy)
	if result.Available {
		return nil
	}

	var message string
	switch {
	case result.Unconfigured:
		message = fmt.Sprintf("teacher %s has no availability configured", teacherName(teacher))
	case result.UnconfiguredDay:
		message = fmt.Sprintf("teacher %s has no availability configured for %s", teacherName(teacher), candidate.Day)
	default:
		hours := make([]string, len(result.UnavailableHours))
		for i, h := range result.UnavailableHours {
			hours[i] = h.String()
		}
		message = fmt.Sprintf("teacher %s is not available on %s at %s", teacherName(teacher), candidate.Day, strings.Join(hours, ", "))
	}

	return &models.Conflict{
		Message:          message,
		TeacherID:        teacher.ID,
		UnconfiguredDay:  result.UnconfiguredDay,
		UnavailableHours: result.UnavailableHours,
	}
}

// clashingSessions lists sessions of other groups matching the predicate that
// overlap candidate. The edited group is always skipped.
func clashingSessions(candidate models.TimeSlot, ctx CheckContext, match func(models.Group) bool) []models.ConflictEntry {
	var entries []models.ConflictEntry
	for _, group := range ctx.Groups {
		if ctx.GroupID != "" && group.ID == ctx.GroupID {
			continue
		}
		if !match(group) {
			continue
		}
		for _, session := range group.Sessions {
			if Overlaps(candidate, session) {
				entries = append(entries, models.ConflictEntry{
					GroupID:     group.ID,
					GroupNumber: group.Number,
					SubjectID:   group.SubjectID,
					SubjectName: subjectName(ctx, group.SubjectID),
					Day:         session.Day,
					StartTime:   session.StartTime,
					EndTime:     session.EndTime,
				})
			}
		}
	}
	return entries
}

func stagedEntry(slot models.TimeSlot, ctx CheckContext) models.ConflictEntry {
	return models.ConflictEntry{
		GroupID:     ctx.GroupID,
		SubjectID:   ctx.SubjectID,
		SubjectName: subjectName(ctx, ctx.SubjectID),
		Day:         slot.Day,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
	}
}

func describeEntries(entries []models.ConflictEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		slot := models.TimeSlot{Day: e.Day, StartTime: e.StartTime, EndTime: e.EndTime}.String()
		if e.GroupNumber != "" {
			label := e.SubjectName
			if label == "" {
				label = e.SubjectID
			}
			slot = fmt.Sprintf("%s (%s group %s)", slot, label, e.GroupNumber)
		}
		parts = append(parts, slot)
	}
	return strings.Join(parts, ", ")
}

func subjectName(ctx CheckContext, id string) string {
	if subject, ok := ctx.Subjects[id]; ok && subject.Name != "" {
		return subject.Name
	}
	return id
}

func teacherName(t *models.Teacher) string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}
