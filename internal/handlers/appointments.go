package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthtrack-server/internal/models"
	"healthtrack-server/internal/scheduling"
	"healthtrack-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Service *scheduling.Service
	errorResponder
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(svc *scheduling.Service, log logrus.FieldLogger, exposeDetail bool) *AppointmentHandler {
	return &AppointmentHandler{
		Service:        svc,
		errorResponder: errorResponder{log: log, exposeDetail: exposeDetail},
	}
}

// UpdateStatusRequest represents the request body for a status change.
type UpdateStatusRequest struct {
	Status models.AppointmentStatus `json:"status"`
}

func (h *AppointmentHandler) list(c *gin.Context, fetch func() ([]models.Appointment, error)) {
	me, ok := currentCaller(c)
	if !ok {
		return
	}
	appointments, err := fetch()
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, scheduling.Scope(me, appointments))
}

// GetAppointments returns every appointment the caller may see.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	h.list(c, func() ([]models.Appointment, error) {
		return h.Service.GetAll(c.Request.Context())
	})
}

// GetAppointmentByID handles fetching a single appointment.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	me, ok := currentCaller(c)
	if !ok {
		return
	}

	appointment, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !scheduling.CanView(me, appointment) {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, scheduling.View(me, *appointment))
}

// GetPatientAppointments handles GET /appointments/patient/:patientId.
func (h *AppointmentHandler) GetPatientAppointments(c *gin.Context) {
	h.list(c, func() ([]models.Appointment, error) {
		return h.Service.GetByPatient(c.Request.Context(), c.Param("patientId"))
	})
}

// GetProfessionalAppointments handles GET /appointments/professional/:professionalId.
func (h *AppointmentHandler) GetProfessionalAppointments(c *gin.Context) {
	h.list(c, func() ([]models.Appointment, error) {
		return h.Service.GetByProfessional(c.Request.Context(), c.Param("professionalId"))
	})
}

// GetAppointmentsByDate handles GET /appointments/date/:date with an optional
// professionalId query parameter.
func (h *AppointmentHandler) GetAppointmentsByDate(c *gin.Context) {
	h.list(c, func() ([]models.Appointment, error) {
		return h.Service.GetByDate(c.Request.Context(), c.Param("date"), c.Query("professionalId"))
	})
}

// CreateAppointment handles creating a new appointment.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	me, ok := currentCaller(c)
	if !ok {
		return
	}

	var req scheduling.Input
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Service.Create(c.Request.Context(), me, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.Created(c, scheduling.View(me, *appointment))
}

// UpdateAppointment handles a partial update of an appointment.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	me, ok := currentCaller(c)
	if !ok {
		return
	}

	var req scheduling.Changes
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	current, err := h.Service.GetByID(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := scheduling.AuthorizeUpdate(me, current, &req); err != nil {
		h.respondError(c, err)
		return
	}

	appointment, err := h.Service.Update(ctx, id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.Success(c, scheduling.View(me, *appointment))
}

// UpdateAppointmentStatus handles PATCH /appointments/:id/status.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	me, ok := currentCaller(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if !req.Status.Valid() {
		h.respondError(c, scheduling.InvalidStatus())
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	current, err := h.Service.GetByID(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := scheduling.AuthorizeStatusChange(me, current, req.Status); err != nil {
		h.respondError(c, err)
		return
	}

	appointment, err := h.Service.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.Success(c, scheduling.View(me, *appointment))
}

// DeleteAppointment handles deleting an appointment.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	utils.Message(c, "Appointment deleted successfully")
}
