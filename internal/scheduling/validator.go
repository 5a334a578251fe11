package scheduling

import (
	"regexp"
	"strings"

	"healthtrack-server/internal/models"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// Input is the caller-supplied shape of an appointment before validation.
type Input struct {
	PatientID      string `json:"patientId"`
	ProfessionalID string `json:"professionalId"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Reason         string `json:"reason"`
	Notes          string `json:"notes"`
}

// ValidDate reports whether s is a YYYY-MM-DD string.
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}

// ValidTime reports whether s is a zero-padded 24h HH:MM string.
func ValidTime(s string) bool {
	return timePattern.MatchString(s)
}

// Validate resolves missing participants from the caller and checks, in order:
// required fields, date format, time format, and startTime < endTime.
// The first failing check is returned.
func Validate(in Input, caller models.Caller) (Input, error) {
	in.PatientID = strings.TrimSpace(in.PatientID)
	in.ProfessionalID = strings.TrimSpace(in.ProfessionalID)

	if in.PatientID == "" && caller.Role.IsPatient() {
		in.PatientID = caller.ID
	}
	if in.ProfessionalID == "" && caller.Role.IsProfessionalOrAdmin() {
		in.ProfessionalID = caller.ID
	}

	if err := checkFields(in.PatientID, in.ProfessionalID, in.Date, in.StartTime, in.EndTime); err != nil {
		return Input{}, err
	}
	return in, nil
}

// checkAppointment runs the field checks against a stored or merged record.
func checkAppointment(a *models.Appointment) error {
	return checkFields(a.PatientID, a.ProfessionalID, a.Date, a.StartTime, a.EndTime)
}

func checkFields(patientID, professionalID, date, startTime, endTime string) error {
	required := []struct{ name, value string }{
		{"patientId", patientID},
		{"professionalId", professionalID},
		{"date", date},
		{"startTime", startTime},
		{"endTime", endTime},
	}
	for _, f := range required {
		if f.value == "" {
			return MissingField(f.name)
		}
	}

	if !ValidDate(date) {
		return InvalidFormat("date")
	}
	if !ValidTime(startTime) || !ValidTime(endTime) {
		return InvalidFormat("time")
	}
	// Zero-padded HH:MM compares correctly as a string.
	if startTime >= endTime {
		return InvalidRange()
	}
	return nil
}
