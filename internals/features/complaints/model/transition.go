package model

// The complaint lifecycle is a fixed linear flow with a rejection side-exit.
// Transitions are validated here, server-side, before anything is persisted;
// the client UI is not trusted to enforce ordering.
var allowedTransitions = map[string][]string{
	ComplaintStatusPending:      {ComplaintStatusAcknowledged, ComplaintStatusRejected},
	ComplaintStatusAcknowledged: {ComplaintStatusInProgress, ComplaintStatusRejected},
	ComplaintStatusInProgress:   {ComplaintStatusResolved, ComplaintStatusRejected},
	ComplaintStatusResolved:     {ComplaintStatusClosed},
	ComplaintStatusClosed:       {},
	ComplaintStatusRejected:     {},
}

func IsValidStatus(s string) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the legal next states for a status.
func AllowedTargets(from string) []string {
	targets := allowedTransitions[from]
	out := make([]string, len(targets))
	copy(out, targets)
	return out
}
