// Package directory manages users and their role profiles: patient records,
// the professional roster, registration and login.
package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"healthtrack-server/internal/models"
	"healthtrack-server/internal/repository"
	"healthtrack-server/internal/scheduling"
)

// Store is the persistence the directory needs.
type Store interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error)
	ListPatientsOf(ctx context.Context, professionalID string) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) (bool, error)
}

// PatientInput is the body of a patient creation request.
type PatientInput struct {
	Name             string `json:"name" binding:"required"`
	Surname          string `json:"surname"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"omitempty,min=8"`
	Phone            string `json:"phone"`
	BirthDate        string `json:"birthDate"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergencyContact"`
	ProfessionalID   string `json:"professionalId" binding:"required"`
}

// PatientChanges is a partial patient update. Nil fields are left untouched.
type PatientChanges struct {
	Name             *string `json:"name"`
	Surname          *string `json:"surname"`
	Email            *string `json:"email" binding:"omitempty,email"`
	Phone            *string `json:"phone"`
	BirthDate        *string `json:"birthDate"`
	Address          *string `json:"address"`
	EmergencyContact *string `json:"emergencyContact"`
	ProfessionalID   *string `json:"professionalId"`
}

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Name           string      `json:"name" binding:"required"`
	Surname        string      `json:"surname" binding:"required"`
	Email          string      `json:"email" binding:"required,email"`
	Password       string      `json:"password" binding:"required,min=8"`
	Role           models.Role `json:"role" binding:"required,oneof=patient professional admin"`
	Phone          string      `json:"phone"`
	Specialty      string      `json:"specialty"`
	LicenseNumber  string      `json:"licenseNumber"`
	BirthDate      string      `json:"birthDate"`
	ProfessionalID string      `json:"professionalId"`
}

// Service implements the user directory.
type Service struct {
	store Store
	log   logrus.FieldLogger
}

// NewService creates a new Service.
func NewService(store Store, log logrus.FieldLogger) *Service {
	return &Service{store: store, log: log.WithField("component", "directory")}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidBirthDate() *scheduling.Error {
	return &scheduling.Error{
		Kind:    scheduling.KindInvalidFormat,
		Field:   "birthDate",
		Message: "Invalid birth date format. Use YYYY-MM-DD",
	}
}

func (s *Service) find(ctx context.Context, id, entity string) (*models.User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, scheduling.NotFound(entity)
		}
		return nil, scheduling.Internal("Failed to fetch "+strings.ToLower(entity), err)
	}
	return u, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	existing, err := s.store.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return scheduling.Internal("Failed to check email", err)
	case existing.ID != exceptID:
		return scheduling.Conflict("User with this email already exists")
	}
	return nil
}

// writeFailed maps a store write error, reporting unique-index collisions
// that slipped past ensureEmailFree as conflicts.
func writeFailed(msg string, err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return scheduling.Conflict("User with this email already exists")
	}
	return scheduling.Internal(msg, err)
}

func (s *Service) ensureProfessional(ctx context.Context, id string) error {
	u, err := s.find(ctx, id, "Professional")
	if err != nil {
		return err
	}
	if !u.Role.IsProfessionalOrAdmin() {
		return scheduling.InvalidParticipant("professionalId must reference a professional or admin")
	}
	return nil
}

// ListPatients returns every patient.
func (s *Service) ListPatients(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListByRoles(ctx, models.RolePatient)
	if err != nil {
		return nil, scheduling.Internal("Failed to fetch patients", err)
	}
	return users, nil
}

// ListProfessionals returns the users who can hold appointments.
func (s *Service) ListProfessionals(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListByRoles(ctx, models.RoleProfessional, models.RoleAdmin)
	if err != nil {
		return nil, scheduling.Internal("Failed to fetch professionals", err)
	}
	return users, nil
}

// ListPatientsOf returns the patients assigned to a professional.
func (s *Service) ListPatientsOf(ctx context.Context, professionalID string) ([]models.User, error) {
	users, err := s.store.ListPatientsOf(ctx, professionalID)
	if err != nil {
		return nil, scheduling.Internal("Failed to fetch patients", err)
	}
	return users, nil
}

// GetPatient returns the patient with the given id. Users with another role
// are reported as not found.
func (s *Service) GetPatient(ctx context.Context, id string) (*models.User, error) {
	u, err := s.find(ctx, id, "Patient")
	if err != nil {
		return nil, err
	}
	if !u.Role.IsPatient() {
		return nil, scheduling.NotFound("Patient")
	}
	return u, nil
}

// CreatePatient stores a patient user and its profile together.
// Without a password the account exists but cannot log in.
func (s *Service) CreatePatient(ctx context.Context, in PatientInput) (*models.User, error) {
	if in.BirthDate != "" && !scheduling.ValidDate(in.BirthDate) {
		return nil, invalidBirthDate()
	}
	email := normalizeEmail(in.Email)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	if err := s.ensureProfessional(ctx, in.ProfessionalID); err != nil {
		return nil, err
	}

	professionalID := in.ProfessionalID
	user := &models.User{
		Email:   email,
		Name:    in.Name,
		Surname: in.Surname,
		Role:    models.RolePatient,
		Phone:   in.Phone,
		PatientProfile: &models.PatientProfile{
			BirthDate:        in.BirthDate,
			Address:          in.Address,
			EmergencyContact: in.EmergencyContact,
			ProfessionalID:   &professionalID,
		},
	}

	password := in.Password
	if password == "" {
		password = uuid.NewString()
	}
	if err := user.SetPassword(password); err != nil {
		return nil, scheduling.Internal("Failed to hash password", err)
	}

	if err := s.store.Create(ctx, user); err != nil {
		return nil, writeFailed("Failed to create patient", err)
	}

	s.log.WithField("user_id", user.ID).Info("patient created")
	return user, nil
}

// UpdatePatient applies ch to the patient and its profile.
func (s *Service) UpdatePatient(ctx context.Context, id string, ch PatientChanges) (*models.User, error) {
	user, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.PatientProfile == nil {
		user.PatientProfile = &models.PatientProfile{UserID: user.ID}
	}
	profile := user.PatientProfile

	if ch.BirthDate != nil && *ch.BirthDate != "" && !scheduling.ValidDate(*ch.BirthDate) {
		return nil, invalidBirthDate()
	}
	if ch.Email != nil {
		email := normalizeEmail(*ch.Email)
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if ch.ProfessionalID != nil {
		if err := s.ensureProfessional(ctx, *ch.ProfessionalID); err != nil {
			return nil, err
		}
		professionalID := *ch.ProfessionalID
		profile.ProfessionalID = &professionalID
	}

	if ch.Name != nil {
		user.Name = *ch.Name
	}
	if ch.Surname != nil {
		user.Surname = *ch.Surname
	}
	if ch.Phone != nil {
		user.Phone = *ch.Phone
	}
	if ch.BirthDate != nil {
		profile.BirthDate = *ch.BirthDate
	}
	if ch.Address != nil {
		profile.Address = *ch.Address
	}
	if ch.EmergencyContact != nil {
		profile.EmergencyContact = *ch.EmergencyContact
	}

	if err := s.store.Update(ctx, user); err != nil {
		return nil, writeFailed("Failed to update patient", err)
	}
	return user, nil
}

// DeletePatient removes the patient and its profile.
func (s *Service) DeletePatient(ctx context.Context, id string) error {
	if _, err := s.GetPatient(ctx, id); err != nil {
		return err
	}
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return scheduling.Internal("Failed to delete patient", err)
	}
	if !ok {
		return scheduling.NotFound("Patient")
	}
	s.log.WithField("user_id", id).Info("patient deleted")
	return nil
}

// Register creates a user with the matching profile on behalf of by.
// Anonymous callers (zero Caller) may only create patients; professional and
// admin accounts require an admin.
func (s *Service) Register(ctx context.Context, by models.Caller, in RegisterInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, scheduling.InvalidParticipant("role must be patient, professional or admin")
	}
	if !in.Role.IsPatient() && by.Role != models.RoleAdmin {
		return nil, scheduling.Forbidden("Only administrators can create staff accounts")
	}
	email := normalizeEmail(in.Email)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:   email,
		Name:    in.Name,
		Surname: in.Surname,
		Role:    in.Role,
		Phone:   in.Phone,
	}

	switch {
	case in.Role.IsPatient():
		if in.BirthDate != "" && !scheduling.ValidDate(in.BirthDate) {
			return nil, invalidBirthDate()
		}
		profile := &models.PatientProfile{BirthDate: in.BirthDate}
		if in.ProfessionalID != "" {
			if err := s.ensureProfessional(ctx, in.ProfessionalID); err != nil {
				return nil, err
			}
			professionalID := in.ProfessionalID
			profile.ProfessionalID = &professionalID
		}
		user.PatientProfile = profile
	case in.Role.IsProfessionalOrAdmin():
		user.ProfessionalProfile = &models.ProfessionalProfile{
			Specialty:     in.Specialty,
			LicenseNumber: in.LicenseNumber,
		}
	}

	if err := user.SetPassword(in.Password); err != nil {
		return nil, scheduling.Internal("Failed to hash password", err)
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, writeFailed("Failed to create user", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return user, nil
}

// Authenticate checks credentials. Unknown email and wrong password are
// reported identically.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, scheduling.Unauthorized("Invalid email or password")
		}
		return nil, scheduling.Internal("Failed to look up user", err)
	}
	if !user.CheckPassword(password) {
		return nil, scheduling.Unauthorized("Invalid email or password")
	}
	return user, nil
}

// Profile returns the user behind an authenticated caller.
func (s *Service) Profile(ctx context.Context, id string) (*models.User, error) {
	return s.find(ctx, id, "User")
}
