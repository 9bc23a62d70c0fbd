package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/internal/scheduler"
	"github.com/noah-isme/aularium-api/pkg/export"
	appErrors "github.com/noah-isme/aularium-api/pkg/errors"
)

// Grid export formats.
const (
	GridFormatJSON = "json"
	GridFormatCSV  = "csv"
	GridFormatPDF  = "pdf"
)

type csvRenderer interface {
	Render(sections ...export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(title string, sections ...export.Dataset) ([]byte, error)
}

// GridExport is a rendered grid file.
type GridExport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// GridService builds the weekly room grid of a period and shift.
type GridService struct {
	subjects    subjectReader
	groups      groupReader
	rooms       roomLister
	assignments assignmentReader
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
}

// NewGridService constructs a GridService. Nil renderers fall back to the
// default exporters.
func NewGridService(subjects subjectReader, groups groupReader, rooms roomLister, assignments assignmentReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *GridService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &GridService{
		subjects:    subjects,
		groups:      groups,
		rooms:       rooms,
		assignments: assignments,
		csv:         csv,
		pdf:         pdf,
		logger:      logger,
	}
}

// Grid returns rooms by days by hour rows. Every hour an assignment covers
// gets the entry, so a two hour session shows in two rows.
func (s *GridService) Grid(ctx context.Context, period models.PeriodID, rawShift string) (*models.WeeklyGrid, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	shift, err := parseShift(models.Shift(rawShift))
	if err != nil {
		return nil, err
	}

	subjects, err := s.subjects.ListAll(ctx, period)
	if err != nil {
		return nil, internalError(err, "failed to load subjects")
	}
	groups, err := s.groups.List(ctx, period, models.GroupFilter{Shift: shift})
	if err != nil {
		return nil, internalError(err, "failed to load groups")
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load rooms")
	}
	assignments, err := s.assignments.List(ctx, period, models.AssignmentFilter{Shift: shift})
	if err != nil {
		return nil, internalError(err, "failed to load assignments")
	}

	subjectNames := make(map[string]string, len(subjects))
	for _, subject := range subjects {
		subjectNames[subject.ID] = subject.Name
	}
	groupByID := make(map[string]models.Group, len(groups))
	for _, g := range groups {
		groupByID[g.ID] = g
	}
	capacity := make(map[string]int, len(rooms))
	for _, r := range rooms {
		capacity[r.ID] = r.Capacity
	}

	grid := &models.WeeklyGrid{
		Period:     period,
		Shift:      shift,
		Rooms:      make([]models.RoomGrid, 0, len(rooms)),
		Unassigned: []models.GridEntry{},
	}

	hours := shiftHours(shift)
	days := map[models.Weekday]bool{}
	for _, d := range models.SchoolDays() {
		days[d] = true
	}
	byRoom := make(map[string][]models.GridEntry)
	for _, a := range assignments {
		g := groupByID[a.GroupID]
		entry := models.GridEntry{
			AssignmentID: a.ID,
			GroupID:      a.GroupID,
			GroupNumber:  g.Number,
			SubjectID:    a.SubjectID,
			SubjectName:  subjectNames[a.SubjectID],
			StudentCount: g.StudentCount,
			Day:          a.Day,
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
		}
		if !a.Assigned() {
			grid.Unassigned = append(grid.Unassigned, entry)
			continue
		}
		entry.OverCapacity = g.StudentCount > capacity[*a.RoomID]
		byRoom[*a.RoomID] = append(byRoom[*a.RoomID], entry)
		days[a.Day] = true
		for _, h := range scheduler.HourMarks(a.StartTime, a.EndTime) {
			hours[h] = true
		}
	}

	grid.Hours = sortedHours(hours)
	for _, d := range models.Weekdays() {
		if days[d] {
			grid.Days = append(grid.Days, d)
		}
	}

	for _, room := range rooms {
		rg := models.RoomGrid{RoomID: room.ID, RoomName: room.Name, Capacity: room.Capacity, Rows: make([]models.GridRow, 0, len(grid.Hours))}
		for _, hour := range grid.Hours {
			row := models.GridRow{Hour: hour, Cells: make(map[models.Weekday][]models.GridEntry)}
			for _, entry := range byRoom[room.ID] {
				if entry.StartTime.TruncateHour() <= hour && hour < entry.EndTime {
					row.Cells[entry.Day] = append(row.Cells[entry.Day], entry)
				}
			}
			rg.Rows = append(rg.Rows, row)
		}
		grid.Rooms = append(grid.Rooms, rg)
	}
	return grid, nil
}

// Export renders the grid as CSV or PDF, one section per room plus the
// unassigned sessions.
func (s *GridService) Export(ctx context.Context, period models.PeriodID, rawShift, format string) (*GridExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != GridFormatCSV && format != GridFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be json, csv or pdf")
	}
	grid, err := s.Grid(ctx, period, rawShift)
	if err != nil {
		return nil, err
	}

	sections := gridDatasets(grid)
	title := fmt.Sprintf("Room grid %s %s", grid.Period, grid.Shift)
	filename := fmt.Sprintf("grid-%s-%s.%s", strings.ToLower(string(grid.Period)), strings.ToLower(string(grid.Shift)), format)

	var out GridExport
	switch format {
	case GridFormatCSV:
		body, err := s.csv.Render(sections...)
		if err != nil {
			return nil, internalError(err, "failed to render csv")
		}
		out = GridExport{Filename: filename, ContentType: "text/csv", Body: body}
	default:
		body, err := s.pdf.Render(title, sections...)
		if err != nil {
			return nil, internalError(err, "failed to render pdf")
		}
		out = GridExport{Filename: filename, ContentType: "application/pdf", Body: body}
	}
	s.logger.Debug("grid exported", zap.String("period", string(period)), zap.String("format", format), zap.Int("bytes", len(out.Body)))
	return &out, nil
}

func gridDatasets(grid *models.WeeklyGrid) []export.Dataset {
	headers := []string{"Hour"}
	for _, d := range grid.Days {
		headers = append(headers, string(d))
	}

	sections := make([]export.Dataset, 0, len(grid.Rooms)+1)
	for _, room := range grid.Rooms {
		ds := export.Dataset{
			Title:   fmt.Sprintf("%s (capacity %d)", room.RoomName, room.Capacity),
			Headers: headers,
		}
		for _, row := range room.Rows {
			record := map[string]string{"Hour": row.Hour.String()}
			for _, d := range grid.Days {
				record[string(d)] = cellText(row.Cells[d])
			}
			ds.Rows = append(ds.Rows, record)
		}
		sections = append(sections, ds)
	}

	if len(grid.Unassigned) > 0 {
		ds := export.Dataset{Title: "Unassigned", Headers: []string{"Day", "Start", "End", "Subject", "Group", "Students"}}
		for _, e := range grid.Unassigned {
			ds.Rows = append(ds.Rows, map[string]string{
				"Day":      string(e.Day),
				"Start":    e.StartTime.String(),
				"End":      e.EndTime.String(),
				"Subject":  e.SubjectName,
				"Group":    e.GroupNumber,
				"Students": fmt.Sprint(e.StudentCount),
			})
		}
		sections = append(sections, ds)
	}
	return sections
}

func cellText(entries []models.GridEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		text := fmt.Sprintf("%s G%s (%d)", e.SubjectName, e.GroupNumber, e.StudentCount)
		if e.OverCapacity {
			text += " !"
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " / ")
}

func shiftHours(shift models.Shift) map[models.ClockTime]bool {
	start, end := shift.Window()
	hours := make(map[models.ClockTime]bool)
	for _, h := range scheduler.HourMarks(start, end) {
		hours[h] = true
	}
	return hours
}

func sortedHours(set map[models.ClockTime]bool) []models.ClockTime {
	hours := make([]models.ClockTime, 0, len(set))
	for h := range set {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i] < hours[j] })
	return hours
}
