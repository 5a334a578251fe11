package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthtrack-server/internal/directory"
	"healthtrack-server/internal/models"
	"healthtrack-server/internal/utils"
)

// PatientHandler handles patient records. All routes are staff-only.
type PatientHandler struct {
	Directory *directory.Service
	errorResponder
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(dir *directory.Service, log logrus.FieldLogger, exposeDetail bool) *PatientHandler {
	return &PatientHandler{
		Directory:      dir,
		errorResponder: errorResponder{log: log, exposeDetail: exposeDetail},
	}
}

func sanitizeAll(users []models.User) []models.UserSanitized {
	out := make([]models.UserSanitized, 0, len(users))
	for i := range users {
		out = append(out, users[i].Sanitize())
	}
	return out
}

// GetPatients lists every patient.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	patients, err := h.Directory.ListPatients(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, sanitizeAll(patients))
}

// GetPatientByID handles GET /patients/:id.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patient, err := h.Directory.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, patient.Sanitize())
}

// GetProfessionalPatients lists the patients assigned to a professional.
func (h *PatientHandler) GetProfessionalPatients(c *gin.Context) {
	patients, err := h.Directory.ListPatientsOf(c.Request.Context(), c.Param("professionalId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, sanitizeAll(patients))
}

// CreatePatient handles POST /patients.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req directory.PatientInput
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.Directory.CreatePatient(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, patient.Sanitize())
}

// UpdatePatient handles PUT /patients/:id.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var req directory.PatientChanges
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.Directory.UpdatePatient(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, patient.Sanitize())
}

// DeletePatient handles DELETE /patients/:id.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.Directory.DeletePatient(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	utils.Message(c, "Patient deleted successfully")
}
