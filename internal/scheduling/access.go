package scheduling

import "healthtrack-server/internal/models"

// CanView reports whether caller may read a.
// Staff see every appointment; patients only their own.
func CanView(caller models.Caller, a *models.Appointment) bool {
	if caller.Role.IsProfessionalOrAdmin() {
		return true
	}
	return caller.Role.IsPatient() && a.PatientID == caller.ID
}

// View returns a copy of a with the fields caller may not see cleared.
// Clinical notes are staff-only.
func View(caller models.Caller, a models.Appointment) models.Appointment {
	if !caller.Role.IsProfessionalOrAdmin() {
		a.Notes = ""
	}
	return a
}

// Scope filters list down to what caller may see and applies View to each item.
// The result is never nil.
func Scope(caller models.Caller, list []models.Appointment) []models.Appointment {
	out := make([]models.Appointment, 0, len(list))
	for i := range list {
		if CanView(caller, &list[i]) {
			out = append(out, View(caller, list[i]))
		}
	}
	return out
}

// AuthorizeStatusChange allows staff any status change; patients may only
// cancel their own appointments. An unknown status is rejected first.
func AuthorizeStatusChange(caller models.Caller, a *models.Appointment, status models.AppointmentStatus) error {
	if !status.Valid() {
		return InvalidStatus()
	}
	if caller.Role.IsProfessionalOrAdmin() {
		return nil
	}
	if !CanView(caller, a) {
		return Forbidden("You are not authorized to update this appointment")
	}
	if status != models.StatusCancelled {
		return Forbidden("Patients can only cancel appointments")
	}
	return nil
}

// AuthorizeUpdate checks a full update against caller and strips the parts a
// patient may not write. ch is modified in place. An unknown status is
// rejected before any role check.
func AuthorizeUpdate(caller models.Caller, a *models.Appointment, ch *Changes) error {
	if ch.Status != nil && !ch.Status.Valid() {
		return InvalidStatus()
	}
	if caller.Role.IsProfessionalOrAdmin() {
		return nil
	}
	if !CanView(caller, a) {
		return Forbidden("You are not authorized to update this appointment")
	}
	if ch.PatientID != nil && *ch.PatientID != caller.ID {
		return Forbidden("Patients can only book appointments for themselves")
	}
	if ch.ProfessionalID != nil && *ch.ProfessionalID != a.ProfessionalID {
		return Forbidden("Patients cannot reassign appointments to another professional")
	}
	if ch.Status != nil && *ch.Status != a.Status && *ch.Status != models.StatusCancelled {
		return Forbidden("Patients can only cancel appointments")
	}
	ch.Notes = nil
	return nil
}
