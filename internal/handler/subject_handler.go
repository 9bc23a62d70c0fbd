package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/internal/service"
	"github.com/noah-isme/aularium-api/pkg/response"
)

type subjectService interface {
	List(ctx context.Context, auth models.AuthContext, period models.PeriodID, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error)
	Get(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string) (*models.Subject, error)
	Create(ctx context.Context, auth models.AuthContext, period models.PeriodID, req service.SubjectRequest) (*models.Subject, error)
	Update(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string, req service.SubjectRequest) (*models.Subject, error)
	Delete(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string) error
}

// SubjectHandler serves the subjects of a period.
type SubjectHandler struct {
	subjects subjectService
}

// NewSubjectHandler constructs a SubjectHandler.
func NewSubjectHandler(subjects subjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

// List godoc
// @Summary List subjects of a period
// @Description Staff callers only see their own subjects.
// @Tags Subjects
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param teacher_id query string false "Filter by teacher"
// @Param career_id query string false "Filter by career"
// @Param search query string false "Search by name"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /periods/{period}/subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, size := pageParams(c)
	filter := models.SubjectFilter{
		TeacherID: c.Query("teacher_id"),
		CareerID:  c.Query("career_id"),
		Search:    strings.TrimSpace(c.Query("search")),
		Page:      page,
		PageSize:  size,
	}
	subjects, pagination, err := h.subjects.List(c.Request.Context(), authContext(c), period, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, pagination)
}

// Get godoc
// @Summary Get subject
// @Tags Subjects
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /periods/{period}/subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	subject, err := h.subjects.Get(c.Request.Context(), authContext(c), period, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param payload body service.SubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Router /periods/{period}/subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid subject payload"))
		return
	}
	subject, err := h.subjects.Create(c.Request.Context(), authContext(c), period, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// Update godoc
// @Summary Update subject
// @Description Changing the teacher re-checks every session of the subject and may fail with 409.
// @Tags Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param id path string true "Subject ID"
// @Param payload body service.SubjectRequest true "Subject payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /periods/{period}/subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid subject payload"))
		return
	}
	subject, err := h.subjects.Update(c.Request.Context(), authContext(c), period, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Delete godoc
// @Summary Delete subject with its groups and assignments
// @Tags Subjects
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param id path string true "Subject ID"
// @Success 204
// @Router /periods/{period}/subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.subjects.Delete(c.Request.Context(), authContext(c), period, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
