package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"healthtrack-server/internal/models"
)

// UserRepository stores users together with their role profile.
type UserRepository struct {
	DB *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) withProfiles(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Preload("PatientProfile").Preload("ProfessionalProfile")
}

func (r *UserRepository) first(query *gorm.DB, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := query.First(&user, args...).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByID returns the user with its profile or ErrNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(r.withProfiles(ctx), "id = ?", id)
}

// FindByEmail returns the user with its profile or ErrNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(r.withProfiles(ctx), "email = ?", email)
}

// ListByRoles returns all users holding one of roles, ordered by surname and name.
func (r *UserRepository) ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	users := []models.User{}
	err := r.withProfiles(ctx).
		Where("role IN ?", roles).
		Order("surname asc").Order("name asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListPatientsOf returns the patients assigned to the given professional.
func (r *UserRepository) ListPatientsOf(ctx context.Context, professionalID string) ([]models.User, error) {
	users := []models.User{}
	err := r.withProfiles(ctx).
		Joins("JOIN patient_profiles ON patient_profiles.user_id = users.id").
		Where("users.role = ? AND patient_profiles.professional_id = ?", models.RolePatient, professionalID).
		Order("users.surname asc").Order("users.name asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts the user and whichever profile it carries in one transaction,
// so a failed profile insert leaves no orphan user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		patient, professional := user.PatientProfile, user.ProfessionalProfile
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		if patient != nil {
			patient.UserID = user.ID
			if err := tx.Create(patient).Error; err != nil {
				return err
			}
		}
		if professional != nil {
			professional.UserID = user.ID
			if err := tx.Create(professional).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

// Update saves the user row and its loaded profile in one transaction.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}
		if p := user.PatientProfile; p != nil {
			p.UserID = user.ID
			if err := tx.Save(p).Error; err != nil {
				return err
			}
		}
		if p := user.ProfessionalProfile; p != nil {
			p.UserID = user.ID
			if err := tx.Save(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

// Delete removes the user and its profile. It reports whether the user existed.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.PatientProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ProfessionalProfile{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.User{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}
