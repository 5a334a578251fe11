package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RolePatient      Role = "patient"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleProfessional, RoleAdmin:
		return true
	}
	return false
}

// IsPatient reports whether r is the patient role.
func (r Role) IsPatient() bool {
	return r == RolePatient
}

// IsProfessionalOrAdmin reports whether r is a staff role allowed to hold
// appointments and see clinical notes.
func (r Role) IsProfessionalOrAdmin() bool {
	return r == RoleProfessional || r == RoleAdmin
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// User represents a user in the system
type User struct {
	BaseModel
	Email          string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password       string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Name           string `gorm:"size:100" json:"name"`
	Surname        string `gorm:"size:100" json:"surname"`
	Role           Role   `gorm:"size:20;not null;index" json:"role"`
	Phone          string `gorm:"size:40" json:"phone,omitempty"`
	ProfilePicture string `gorm:"size:255" json:"profilePicture,omitempty"`

	// Role-specific profile, at most one is set
	PatientProfile      *PatientProfile      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ProfessionalProfile *ProfessionalProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// PatientProfile carries the patient-only fields of a user.
type PatientProfile struct {
	BaseModel
	UserID           string  `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	BirthDate        string  `gorm:"size:10" json:"birthDate,omitempty"`
	Address          string  `gorm:"size:255" json:"address,omitempty"`
	EmergencyContact string  `gorm:"size:255" json:"emergencyContact,omitempty"`
	ProfessionalID   *string `gorm:"size:36;index" json:"professionalId,omitempty"` // assigned professional's user ID
}

// ProfessionalProfile carries the staff-only fields of a user.
type ProfessionalProfile struct {
	BaseModel
	UserID        string `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Specialty     string `gorm:"size:100" json:"specialty,omitempty"`
	LicenseNumber string `gorm:"size:50" json:"licenseNumber,omitempty"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Surname          string    `json:"surname"`
	Role             Role      `json:"role"`
	Phone            string    `json:"phone,omitempty"`
	ProfilePicture   string    `json:"profilePicture,omitempty"`
	BirthDate        string    `json:"birthDate,omitempty"`
	Address          string    `json:"address,omitempty"`
	EmergencyContact string    `json:"emergencyContact,omitempty"`
	ProfessionalID   string    `json:"professionalId,omitempty"`
	Specialty        string    `json:"specialty,omitempty"`
	LicenseNumber    string    `json:"licenseNumber,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Caller returns the identity a token for u would carry.
func (u *User) Caller() Caller {
	return Caller{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
// Loaded profile fields are flattened into the result.
func (u *User) Sanitize() UserSanitized {
	out := UserSanitized{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Surname:        u.Surname,
		Role:           u.Role,
		Phone:          u.Phone,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	if p := u.PatientProfile; p != nil {
		out.BirthDate = p.BirthDate
		out.Address = p.Address
		out.EmergencyContact = p.EmergencyContact
		if p.ProfessionalID != nil {
			out.ProfessionalID = *p.ProfessionalID
		}
	}
	if p := u.ProfessionalProfile; p != nil {
		out.Specialty = p.Specialty
		out.LicenseNumber = p.LicenseNumber
	}
	return out
}
