package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthtrack-server/internal/middleware"
	"healthtrack-server/internal/models"
	"healthtrack-server/internal/scheduling"
	"healthtrack-server/internal/utils"
)

// errorResponder turns service errors into JSON responses.
type errorResponder struct {
	log          logrus.FieldLogger
	exposeDetail bool
}

func statusFor(kind scheduling.ErrorKind) int {
	switch {
	case kind.IsValidation():
		return http.StatusBadRequest
	case kind == scheduling.KindUnauthorized:
		return http.StatusUnauthorized
	case kind == scheduling.KindForbidden:
		return http.StatusForbidden
	case kind == scheduling.KindNotFound:
		return http.StatusNotFound
	case kind == scheduling.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (r errorResponder) respondError(c *gin.Context, err error) {
	var se *scheduling.Error
	if !errors.As(err, &se) {
		se = scheduling.Internal("Unexpected error", err)
	}

	status := statusFor(se.Kind)
	if status != http.StatusInternalServerError {
		utils.Error(c, status, se.Message, "")
		return
	}

	_ = c.Error(err)
	r.log.WithError(err).WithField("path", c.FullPath()).Error(se.Message)

	detail := ""
	if r.exposeDetail {
		detail = err.Error()
	}
	utils.InternalServerError(c, detail)
}

// currentCaller returns the authenticated identity or writes a 401.
func currentCaller(c *gin.Context) (models.Caller, bool) {
	me, ok := middleware.GetCaller(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
	}
	return me, ok
}
