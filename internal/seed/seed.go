// Package seed loads demo accounts and one appointment into an empty
// database. Running it twice changes nothing.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"healthtrack-server/internal/models"
	"healthtrack-server/internal/repository"
)

// Users is the user storage the seeder writes to.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// Appointments is the appointment storage the seeder writes to.
type Appointments interface {
	Find(ctx context.Context, filter repository.AppointmentFilter) ([]models.Appointment, error)
	Insert(ctx context.Context, a *models.Appointment) error
}

type account struct {
	email, password, name, surname string
	role                           models.Role
}

var accounts = []account{
	{"admin@healthtrack.com", "admin123", "Admin", "HealthTrack", models.RoleAdmin},
	{"doctor@example.com", "doctor123", "Laura", "Martínez", models.RoleProfessional},
	{"patient@example.com", "patient123", "Carlos", "López", models.RolePatient},
}

// Run inserts the demo data that is not already present.
func Run(ctx context.Context, users Users, appointments Appointments, log logrus.FieldLogger) error {
	byRole := map[models.Role]*models.User{}
	for _, acc := range accounts {
		u, err := ensureUser(ctx, users, acc, byRole[models.RoleProfessional])
		if err != nil {
			return err
		}
		byRole[acc.role] = u
		log.WithFields(logrus.Fields{"email": u.Email, "role": u.Role}).Info("seed user ready")
	}

	doctor, patient := byRole[models.RoleProfessional], byRole[models.RolePatient]
	existing, err := appointments.Find(ctx, repository.AppointmentFilter{
		PatientID:      patient.ID,
		ProfessionalID: doctor.ID,
		Date:           "2025-03-20",
	})
	if err != nil {
		return fmt.Errorf("find seed appointment: %w", err)
	}
	if len(existing) > 0 {
		log.Info("seed appointment already present")
		return nil
	}

	a := &models.Appointment{
		PatientID:      patient.ID,
		ProfessionalID: doctor.ID,
		CreatedByID:    doctor.ID,
		Date:           "2025-03-20",
		StartTime:      "10:00",
		EndTime:        "10:30",
		Status:         models.StatusScheduled,
		Reason:         "Consulta de rutina",
	}
	if err := appointments.Insert(ctx, a); err != nil {
		return fmt.Errorf("insert seed appointment: %w", err)
	}
	log.WithField("appointment_id", a.ID).Info("seed appointment created")
	return nil
}

func ensureUser(ctx context.Context, users Users, acc account, professional *models.User) (*models.User, error) {
	u, err := users.FindByEmail(ctx, acc.email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find %s: %w", acc.email, err)
	}

	u = &models.User{
		Email:   acc.email,
		Name:    acc.name,
		Surname: acc.surname,
		Role:    acc.role,
	}
	switch {
	case acc.role.IsPatient():
		profile := &models.PatientProfile{BirthDate: "1985-06-15"}
		if professional != nil {
			id := professional.ID
			profile.ProfessionalID = &id
		}
		u.PatientProfile = profile
	case acc.role == models.RoleProfessional:
		u.ProfessionalProfile = &models.ProfessionalProfile{Specialty: "Medicina general", LicenseNumber: "MP-12345"}
	}

	if err := u.SetPassword(acc.password); err != nil {
		return nil, err
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create %s: %w", acc.email, err)
	}
	return u, nil
}
