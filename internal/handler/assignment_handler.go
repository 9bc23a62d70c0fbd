package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aularium-api/internal/middleware"
	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/internal/service"
	"github.com/noah-isme/aularium-api/pkg/response"
)

type assignmentService interface {
	List(ctx context.Context, auth models.AuthContext, period models.PeriodID, filter models.AssignmentFilter) ([]models.Assignment, error)
	Reassign(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string, req service.ReassignRequest) (*service.ReassignResult, error)
	AutoAssignPending(ctx context.Context, auth models.AuthContext, period models.PeriodID) (*service.BulkAssignResult, error)
	UndoAll(ctx context.Context, auth models.AuthContext, period models.PeriodID) (*service.UndoResult, error)
	Integrity(ctx context.Context, period models.PeriodID) (*service.IntegrityReport, error)
}

// AssignmentHandler serves room assignments of a period.
type AssignmentHandler struct {
	assignments assignmentService
}

// NewAssignmentHandler constructs an AssignmentHandler.
func NewAssignmentHandler(assignments assignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param group_id query string false "Filter by group"
// @Param subject_id query string false "Filter by subject"
// @Param room_id query string false "Filter by room"
// @Param day query string false "Filter by weekday"
// @Param shift query string false "MORNING or AFTERNOON"
// @Param unassigned query bool false "Only sessions without a room"
// @Success 200 {object} response.Envelope
// @Router /periods/{period}/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.AssignmentFilter{
		GroupID:   c.Query("group_id"),
		SubjectID: c.Query("subject_id"),
		RoomID:    c.Query("room_id"),
	}
	if raw := c.Query("day"); raw != "" {
		day, err := models.ParseWeekday(raw)
		if err != nil {
			response.Error(c, bindError(err, "invalid day"))
			return
		}
		filter.Day = day
	}
	if raw := c.Query("shift"); raw != "" {
		shift, err := models.ParseShift(raw)
		if err != nil {
			response.Error(c, bindError(err, "invalid shift"))
			return
		}
		filter.Shift = shift
	}
	if raw := c.Query("unassigned"); raw != "" {
		unassigned, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, bindError(err, "invalid unassigned flag"))
			return
		}
		filter.Unassigned = unassigned
	}

	assignments, err := h.assignments.List(c.Request.Context(), authContext(c), period, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil, middleware.Meta(c))
}

// Reassign godoc
// @Summary Move an assignment to another room
// @Description A null room_id unassigns the session. Moving into a busy room fails with 409 ROOM_OCCUPIED.
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param id path string true "Assignment ID"
// @Param payload body service.ReassignRequest true "Target room"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /periods/{period}/assignments/{id}/room [patch]
func (h *AssignmentHandler) Reassign(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid reassign payload"))
		return
	}
	result, err := h.assignments.Reassign(c.Request.Context(), authContext(c), period, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AutoAssign godoc
// @Summary Assign rooms to every pending session
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Success 200 {object} response.Envelope
// @Router /periods/{period}/assignments/auto-assign [post]
func (h *AssignmentHandler) AutoAssign(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.assignments.AutoAssignPending(c.Request.Context(), authContext(c), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Undo godoc
// @Summary Clear the room of every assignment
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Success 200 {object} response.Envelope
// @Router /periods/{period}/assignments/undo [post]
func (h *AssignmentHandler) Undo(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.assignments.UndoAll(c.Request.Context(), authContext(c), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Integrity godoc
// @Summary Report room double bookings
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Success 200 {object} response.Envelope
// @Router /periods/{period}/assignments/integrity [get]
func (h *AssignmentHandler) Integrity(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.assignments.Integrity(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, middleware.Meta(c))
}
