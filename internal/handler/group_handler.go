package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aularium-api/internal/middleware"
	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/internal/service"
	"github.com/noah-isme/aularium-api/pkg/response"
)

type groupService interface {
	List(ctx context.Context, auth models.AuthContext, period models.PeriodID, filter models.GroupFilter) ([]models.Group, error)
	Get(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string) (*models.Group, error)
	CheckSlot(ctx context.Context, auth models.AuthContext, period models.PeriodID, req service.SlotCheckRequest) (*service.SlotCheckResult, error)
	Create(ctx context.Context, auth models.AuthContext, period models.PeriodID, req service.CreateGroupRequest) (*service.GroupResult, error)
	Update(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string, req service.UpdateGroupRequest) (*service.GroupResult, error)
	Delete(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string) error
}

// GroupHandler serves groups and their session checks.
type GroupHandler struct {
	groups groupService
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groups groupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// List godoc
// @Summary List groups of a period
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param subject_id query string false "Filter by subject"
// @Param shift query string false "MORNING or AFTERNOON"
// @Success 200 {object} response.Envelope
// @Router /periods/{period}/groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.GroupFilter{SubjectID: c.Query("subject_id")}
	if raw := c.Query("shift"); raw != "" {
		shift, err := models.ParseShift(raw)
		if err != nil {
			response.Error(c, bindError(err, "invalid shift"))
			return
		}
		filter.Shift = shift
	}
	groups, err := h.groups.List(c.Request.Context(), authContext(c), period, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil, middleware.Meta(c))
}

// Get godoc
// @Summary Get group
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param id path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /periods/{period}/groups/{id} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	group, err := h.groups.Get(c.Request.Context(), authContext(c), period, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// CheckSlot godoc
// @Summary Check one candidate session
// @Description Runs the conflict checker without saving. A conflict is reported in the body, not as an error status.
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param payload body service.SlotCheckRequest true "Candidate and staged sessions"
// @Success 200 {object} response.Envelope
// @Router /periods/{period}/groups/check-slot [post]
func (h *GroupHandler) CheckSlot(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.SlotCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid slot check payload"))
		return
	}
	result, err := h.groups.CheckSlot(c.Request.Context(), authContext(c), period, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Create godoc
// @Summary Create group
// @Description Validates every session, then assigns rooms first-fit. Sessions without a free room stay unassigned.
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param payload body service.CreateGroupRequest true "Group payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /periods/{period}/groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid group payload"))
		return
	}
	result, err := h.groups.Create(c.Request.Context(), authContext(c), period, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update godoc
// @Summary Update group
// @Description Replaces the sessions and recreates the group's room assignments.
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param id path string true "Group ID"
// @Param payload body service.UpdateGroupRequest true "Group payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /periods/{period}/groups/{id} [put]
func (h *GroupHandler) Update(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid group payload"))
		return
	}
	result, err := h.groups.Update(c.Request.Context(), authContext(c), period, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete group and its assignments
// @Tags Groups
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param id path string true "Group ID"
// @Success 204
// @Router /periods/{period}/groups/{id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.groups.Delete(c.Request.Context(), authContext(c), period, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
