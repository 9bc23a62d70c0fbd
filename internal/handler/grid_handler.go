package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aularium-api/internal/middleware"
	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/internal/service"
	"github.com/noah-isme/aularium-api/pkg/response"
)

type gridService interface {
	Grid(ctx context.Context, period models.PeriodID, shift string) (*models.WeeklyGrid, error)
	Export(ctx context.Context, period models.PeriodID, shift, format string) (*service.GridExport, error)
}

// GridHandler serves the weekly room grid.
type GridHandler struct {
	grid gridService
}

// NewGridHandler constructs a GridHandler.
func NewGridHandler(grid gridService) *GridHandler {
	return &GridHandler{grid: grid}
}

// Get godoc
// @Summary Weekly room grid
// @Tags Grid
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param period path string true "Period (1, 2 or 3)"
// @Param shift query string false "MORNING (default) or AFTERNOON"
// @Param format query string false "json (default), csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /periods/{period}/grid [get]
func (h *GridHandler) Get(c *gin.Context) {
	period, err := periodParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	shift := c.DefaultQuery("shift", string(models.ShiftMorning))
	format := strings.ToLower(c.DefaultQuery("format", service.GridFormatJSON))

	if format == service.GridFormatJSON {
		grid, err := h.grid.Grid(c.Request.Context(), period, shift)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, grid, nil, middleware.Meta(c))
		return
	}

	file, err := h.grid.Export(c.Request.Context(), period, shift, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.ContentType, file.Filename, file.Body)
}
