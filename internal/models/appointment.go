package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// AppointmentStatuses lists every status in lifecycle order.
var AppointmentStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}

// Valid reports whether s is one of the four known statuses.
func (s AppointmentStatus) Valid() bool {
	for _, known := range AppointmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition may leave s.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next:
// scheduled -> confirmed -> completed, and scheduled|confirmed -> cancelled.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case StatusScheduled:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// Appointment is one scheduled slot between a patient and a professional.
// Date is a zone-naive YYYY-MM-DD string; StartTime and EndTime are HH:MM.
type Appointment struct {
	BaseModel
	PatientID      string            `gorm:"size:36;index;not null" json:"patientId"`
	ProfessionalID string            `gorm:"size:36;index;not null" json:"professionalId"`
	CreatedByID    string            `gorm:"size:36;index" json:"createdById,omitempty"`
	Date           string            `gorm:"size:10;index;not null" json:"date"`
	StartTime      string            `gorm:"size:5;not null" json:"startTime"`
	EndTime        string            `gorm:"size:5;not null" json:"endTime"`
	Status         AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	Reason         string            `gorm:"size:255" json:"reason,omitempty"`
	Notes          string            `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Patient      User `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
	Professional User `gorm:"foreignKey:ProfessionalID;constraint:OnDelete:CASCADE" json:"-"`
}
