package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthtrack-server/internal/directory"
	"healthtrack-server/internal/utils"
)

// UserHandler serves the user roster.
type UserHandler struct {
	Directory *directory.Service
	errorResponder
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(dir *directory.Service, log logrus.FieldLogger, exposeDetail bool) *UserHandler {
	return &UserHandler{
		Directory:      dir,
		errorResponder: errorResponder{log: log, exposeDetail: exposeDetail},
	}
}

// GetProfessionals lists the users patients can book with.
// Accessible by all authenticated users.
func (h *UserHandler) GetProfessionals(c *gin.Context) {
	professionals, err := h.Directory.ListProfessionals(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, sanitizeAll(professionals))
}

// CreateUser lets an admin create an account of any role.
func (h *UserHandler) CreateUser(c *gin.Context) {
	me, ok := currentCaller(c)
	if !ok {
		return
	}

	var req directory.RegisterInput
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Directory.Register(c.Request.Context(), me, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, user.Sanitize())
}
