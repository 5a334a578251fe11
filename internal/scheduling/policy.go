package scheduling

import (
	"fmt"

	"healthtrack-server/internal/models"
)

// TransitionPolicy decides which status changes are accepted.
type TransitionPolicy string

const (
	// PolicyStrict enforces scheduled -> confirmed -> completed and
	// scheduled|confirmed -> cancelled. Completed and cancelled are terminal.
	PolicyStrict TransitionPolicy = "strict"
	// PolicyPermissive accepts any known status from any other.
	PolicyPermissive TransitionPolicy = "permissive"
)

// ParsePolicy maps a config value onto a policy.
func ParsePolicy(s string) (TransitionPolicy, error) {
	switch TransitionPolicy(s) {
	case PolicyStrict, "":
		return PolicyStrict, nil
	case PolicyPermissive:
		return PolicyPermissive, nil
	}
	return "", fmt.Errorf("unknown transition policy %q", s)
}

// Check validates moving from one status to another. Staying on the same
// status is always accepted.
func (p TransitionPolicy) Check(from, to models.AppointmentStatus) error {
	if !to.Valid() {
		return InvalidStatus()
	}
	if p == PolicyPermissive || from == to {
		return nil
	}
	if !from.CanTransitionTo(to) {
		return InvalidTransition(string(from), string(to))
	}
	return nil
}
