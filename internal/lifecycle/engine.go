// Package lifecycle holds the booking status state machine. It is pure
// logic: callers persist and dispatch, this package only decides.
package lifecycle

import (
	"time"

	"cabline/internal/domain"
	"cabline/internal/domain/models"
)

// allowedTargets is the legal transition graph. Completed and cancelled
// have no outgoing edges. Direct confirmed->completed covers manual
// corrections by staff.
var allowedTargets = map[models.Status][]models.Status{
	models.StatusPending:        {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:      {models.StatusDriverAssigned, models.StatusCancelled, models.StatusCompleted},
	models.StatusDriverAssigned: {models.StatusInProgress, models.StatusCancelled, models.StatusCompleted},
	models.StatusInProgress:     {models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted:      {},
	models.StatusCancelled:      {},
}

// AllowedTargets returns the statuses reachable from the given one.
func AllowedTargets(from models.Status) []models.Status {
	targets := allowedTargets[from]
	out := make([]models.Status, len(targets))
	copy(out, targets)
	return out
}

// IsTerminal reports whether a status has no outgoing edges.
func IsTerminal(s models.Status) bool {
	return s == models.StatusCompleted || s == models.StatusCancelled
}

// CanTransition reports whether from->to is a legal edge.
func CanTransition(from, to models.Status) bool {
	for _, t := range allowedTargets[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Attempt validates a status change and, when legal, returns the transition
// record for audit and event payloads. It has no side effects; the caller
// persists and dispatches.
func Attempt(current, target models.Status, actor string) (models.TransitionRecord, error) {
	if !target.Valid() {
		return models.TransitionRecord{}, domain.ValidationError{Field: "status", Msg: "unknown status " + string(target)}
	}
	if !CanTransition(current, target) {
		return models.TransitionRecord{}, domain.InvalidTransitionError{From: string(current), To: string(target)}
	}
	return models.TransitionRecord{
		From:      current,
		To:        target,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	}, nil
}

// ProgressStep maps a status to the tracking timeline step index. This is
// display-only: driver_assigned and in_progress share step 3, and
// cancellation sits outside the timeline at -1.
func ProgressStep(s models.Status) int {
	switch s {
	case models.StatusPending:
		return 1
	case models.StatusConfirmed:
		return 2
	case models.StatusDriverAssigned, models.StatusInProgress:
		return 3
	case models.StatusCompleted:
		return 4
	case models.StatusCancelled:
		return -1
	default:
		return 0
	}
}
