package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aularium-api/internal/middleware"
	"github.com/noah-isme/aularium-api/internal/models"
	appErrors "github.com/noah-isme/aularium-api/pkg/errors"
)

func authContext(c *gin.Context) models.AuthContext {
	return middleware.AuthFromContext(c)
}

// periodParam reads the :period path segment.
func periodParam(c *gin.Context) (models.PeriodID, error) {
	period, err := models.ParsePeriod(c.Param("period"))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unknown period")
	}
	return period, nil
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		size = 20
	}
	return page, size
}

func bindError(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}
