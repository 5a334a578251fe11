package scheduling

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"healthtrack-server/internal/models"
	"healthtrack-server/internal/repository"
)

// Store is the persistence the scheduling service needs.
type Store interface {
	FindAll(ctx context.Context) ([]models.Appointment, error)
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	Find(ctx context.Context, filter repository.AppointmentFilter) ([]models.Appointment, error)
	Insert(ctx context.Context, a *models.Appointment) error
	Update(ctx context.Context, a *models.Appointment, expected models.AppointmentStatus) (bool, error)
	UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus, at time.Time) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Users resolves appointment participants.
type Users interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Changes is a partial update. Nil fields are left untouched.
type Changes struct {
	PatientID      *string                   `json:"patientId"`
	ProfessionalID *string                   `json:"professionalId"`
	Date           *string                   `json:"date"`
	StartTime      *string                   `json:"startTime"`
	EndTime        *string                   `json:"endTime"`
	Status         *models.AppointmentStatus `json:"status"`
	Reason         *string                   `json:"reason"`
	Notes          *string                   `json:"notes"`
}

// Service implements appointment queries and mutations.
type Service struct {
	store  Store
	users  Users
	policy TransitionPolicy
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewService creates a new Service.
func NewService(store Store, users Users, policy TransitionPolicy, log logrus.FieldLogger) *Service {
	return &Service{
		store:  store,
		users:  users,
		policy: policy,
		log:    log.WithField("component", "scheduling"),
		now:    time.Now,
	}
}

func sortAppointments(list []models.Appointment) []models.Appointment {
	if list == nil {
		return []models.Appointment{}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		return list[i].StartTime < list[j].StartTime
	})
	return list
}

func (s *Service) find(ctx context.Context, filter repository.AppointmentFilter) ([]models.Appointment, error) {
	list, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, Internal("Failed to fetch appointments", err)
	}
	return sortAppointments(list), nil
}

// GetAll returns every appointment. Callers scope the result to the requester.
func (s *Service) GetAll(ctx context.Context) ([]models.Appointment, error) {
	list, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, Internal("Failed to fetch appointments", err)
	}
	return sortAppointments(list), nil
}

// GetByID returns one appointment or a not_found error.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Appointment")
		}
		return nil, Internal("Failed to fetch appointment", err)
	}
	return a, nil
}

// GetByPatient returns every appointment of the patient, in any status.
func (s *Service) GetByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.find(ctx, repository.AppointmentFilter{PatientID: patientID})
}

// GetByProfessional returns every appointment held by the professional.
func (s *Service) GetByProfessional(ctx context.Context, professionalID string) ([]models.Appointment, error) {
	return s.find(ctx, repository.AppointmentFilter{ProfessionalID: professionalID})
}

// GetByDate returns the appointments on date, optionally for one professional.
func (s *Service) GetByDate(ctx context.Context, date, professionalID string) ([]models.Appointment, error) {
	if !ValidDate(date) {
		return nil, InvalidFormat("date")
	}
	return s.find(ctx, repository.AppointmentFilter{Date: date, ProfessionalID: professionalID})
}

// Create validates in and stores a new scheduled appointment on behalf of caller.
func (s *Service) Create(ctx context.Context, caller models.Caller, in Input) (*models.Appointment, error) {
	v, err := Validate(in, caller)
	if err != nil {
		return nil, err
	}

	if caller.Role.IsPatient() {
		if v.PatientID != caller.ID {
			return nil, Forbidden("Patients can only book appointments for themselves")
		}
		v.Notes = ""
	}

	patient, err := s.checkParticipants(ctx, v.PatientID, v.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if caller.Role.IsPatient() {
		if assigned := assignedProfessional(patient); assigned != "" && assigned != v.ProfessionalID {
			return nil, Forbidden("Patients can only book with their assigned professional")
		}
	}

	a := &models.Appointment{
		PatientID:      v.PatientID,
		ProfessionalID: v.ProfessionalID,
		CreatedByID:    caller.ID,
		Date:           v.Date,
		StartTime:      v.StartTime,
		EndTime:        v.EndTime,
		Status:         models.StatusScheduled,
		Reason:         v.Reason,
		Notes:          v.Notes,
	}
	if err := s.store.Insert(ctx, a); err != nil {
		return nil, Internal("Failed to create appointment", err)
	}

	s.log.WithFields(logrus.Fields{
		"appointment_id":  a.ID,
		"patient_id":      a.PatientID,
		"professional_id": a.ProfessionalID,
		"created_by":      caller.ID,
	}).Info("appointment created")
	return a, nil
}

// Update applies ch to the stored appointment. The merged record is validated
// before anything is written.
func (s *Service) Update(ctx context.Context, id string, ch Changes) (*models.Appointment, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	if ch.PatientID != nil {
		merged.PatientID = *ch.PatientID
	}
	if ch.ProfessionalID != nil {
		merged.ProfessionalID = *ch.ProfessionalID
	}
	if ch.Date != nil {
		merged.Date = *ch.Date
	}
	if ch.StartTime != nil {
		merged.StartTime = *ch.StartTime
	}
	if ch.EndTime != nil {
		merged.EndTime = *ch.EndTime
	}
	if ch.Reason != nil {
		merged.Reason = *ch.Reason
	}
	if ch.Notes != nil {
		merged.Notes = *ch.Notes
	}

	if err := checkAppointment(&merged); err != nil {
		return nil, err
	}

	if ch.Status != nil {
		if err := s.policy.Check(current.Status, *ch.Status); err != nil {
			return nil, err
		}
		merged.Status = *ch.Status
	}

	if merged.PatientID != current.PatientID || merged.ProfessionalID != current.ProfessionalID {
		if _, err := s.checkParticipants(ctx, merged.PatientID, merged.ProfessionalID); err != nil {
			return nil, err
		}
	}

	merged.UpdatedAt = s.now()
	ok, err := s.store.Update(ctx, &merged, current.Status)
	if err != nil {
		return nil, Internal("Failed to update appointment", err)
	}
	if !ok {
		return nil, s.lostWrite(ctx, id)
	}

	s.log.WithField("appointment_id", id).Info("appointment updated")
	return &merged, nil
}

// UpdateStatus moves the appointment to status under the service policy.
// Under the strict policy a repeated status is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	if !status.Valid() {
		return nil, InvalidStatus()
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Check(current.Status, status); err != nil {
		return nil, err
	}
	if s.policy == PolicyStrict && current.Status == status {
		return current, nil
	}

	at := s.now()
	ok, err := s.store.UpdateStatus(ctx, id, current.Status, status, at)
	if err != nil {
		return nil, Internal("Failed to update appointment status", err)
	}
	if !ok {
		return nil, s.lostWrite(ctx, id)
	}

	s.log.WithFields(logrus.Fields{
		"appointment_id": id,
		"from":           current.Status,
		"to":             status,
	}).Info("appointment status changed")

	current.Status = status
	current.UpdatedAt = at
	return current, nil
}

// Delete removes the appointment.
func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return Internal("Failed to delete appointment", err)
	}
	if !ok {
		return NotFound("Appointment")
	}
	s.log.WithField("appointment_id", id).Info("appointment deleted")
	return nil
}

// lostWrite explains a conditional write that matched no row: either the
// appointment is gone or its status moved since it was read.
func (s *Service) lostWrite(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return Conflict("Appointment was modified concurrently, reload and retry")
}

// checkParticipants verifies both users exist with the right roles and
// returns the patient.
func (s *Service) checkParticipants(ctx context.Context, patientID, professionalID string) (*models.User, error) {
	patient, err := s.lookup(ctx, patientID, "Patient")
	if err != nil {
		return nil, err
	}
	if !patient.Role.IsPatient() {
		return nil, InvalidParticipant("patientId must reference a user with the patient role")
	}

	professional, err := s.lookup(ctx, professionalID, "Professional")
	if err != nil {
		return nil, err
	}
	if !professional.Role.IsProfessionalOrAdmin() {
		return nil, InvalidParticipant("professionalId must reference a professional or admin")
	}
	return patient, nil
}

// assignedProfessional returns the professional the patient is assigned to,
// or "" when none is recorded.
func assignedProfessional(patient *models.User) string {
	if p := patient.PatientProfile; p != nil && p.ProfessionalID != nil {
		return *p.ProfessionalID
	}
	return ""
}

func (s *Service) lookup(ctx context.Context, id, entity string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound(entity)
		}
		return nil, Internal("Failed to verify "+entity, err)
	}
	return u, nil
}
