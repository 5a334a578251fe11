package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"healthtrack-server/internal/models"
)

// AppointmentFilter narrows a query. Empty fields are ignored.
type AppointmentFilter struct {
	PatientID      string
	ProfessionalID string
	Date           string
}

// AppointmentRepository stores appointments through gorm.
type AppointmentRepository struct {
	DB *gorm.DB
}

// NewAppointmentRepository creates a new AppointmentRepository.
func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

func (r *AppointmentRepository) ordered(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Order("date asc").Order("start_time asc")
}

// FindAll returns every appointment ordered by date and start time.
func (r *AppointmentRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	appointments := []models.Appointment{}
	if err := r.ordered(ctx).Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindByID returns the appointment with the given id or ErrNotFound.
func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.DB.WithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &appointment, nil
}

// Find returns the appointments matching every non-empty filter field.
func (r *AppointmentRepository) Find(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	query := r.ordered(ctx)
	if filter.PatientID != "" {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	if filter.ProfessionalID != "" {
		query = query.Where("professional_id = ?", filter.ProfessionalID)
	}
	if filter.Date != "" {
		query = query.Where("date = ?", filter.Date)
	}

	appointments := []models.Appointment{}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// Insert creates a. ID, CreatedAt and UpdatedAt are filled in on success.
func (r *AppointmentRepository) Insert(ctx context.Context, a *models.Appointment) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

// Update writes every mutable column of a, provided the stored status is
// still expected. It reports whether a row was written.
func (r *AppointmentRepository) Update(ctx context.Context, a *models.Appointment, expected models.AppointmentStatus) (bool, error) {
	result := r.DB.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", a.ID, expected).
		Updates(map[string]interface{}{
			"patient_id":      a.PatientID,
			"professional_id": a.ProfessionalID,
			"date":            a.Date,
			"start_time":      a.StartTime,
			"end_time":        a.EndTime,
			"status":          a.Status,
			"reason":          a.Reason,
			"notes":           a.Notes,
			"updated_at":      a.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateStatus moves the appointment from one status to another in a single
// conditional write. It reports whether a row was written.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus, at time.Time) (bool, error) {
	result := r.DB.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the appointment and reports whether it existed.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.DB.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
