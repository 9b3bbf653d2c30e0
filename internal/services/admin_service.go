package services

import (
	"context"
	"fmt"

	"cabline/internal/domain"
	"cabline/internal/domain/models"
	"cabline/internal/lifecycle"
	"cabline/internal/utils"
)

// AdminService is the privileged mutation surface. Only this service moves
// a booking's status, and only through the lifecycle engine.
type AdminService struct {
	Store     BookingStore
	Audit     AuditRecorder
	Events    EventNotifier
	RequestID string
}

// SetStatus loads the booking, validates the transition, persists it under
// the optimistic guard, records the audit entry and dispatches the event.
// Persistence success is authoritative; audit and dispatch failures are
// logged, never surfaced.
func (s AdminService) SetStatus(ctx context.Context, bookingID string, target models.Status, actorID string) (models.Booking, error) {
	if utils.TrimOrEmpty(bookingID) == "" {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "required"}
	}
	if utils.TrimOrEmpty(actorID) == "" {
		return models.Booking{}, domain.ValidationError{Field: "actor", Msg: "required"}
	}

	current, err := s.Store.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	rec, err := lifecycle.Attempt(current.Status, target, actorID)
	if err != nil {
		return models.Booking{}, err
	}

	// Guard on the status we read; a concurrent writer makes this conflict.
	updated, err := s.Store.UpdateStatus(ctx, current.ID, current.Status, rec)
	if err != nil {
		return models.Booking{}, err
	}

	entry := models.AuditEntry{
		Action:   "STATUS_UPDATE",
		Entity:   "Booking",
		EntityID: current.ID,
		Details:  fmt.Sprintf("%s->%s", rec.From, rec.To),
		User:     actorID,
	}
	if err := s.Audit.Insert(entry); err != nil {
		utils.LogWarn(s.RequestID, "admin", "audit_insert",
			fmt.Sprintf("booking_id=%s err=%v", current.ID, err))
	}

	s.Events.StatusChanged(ctx, s.RequestID, current.ID, rec)

	utils.LogEvent(s.RequestID, "admin", "set_status",
		fmt.Sprintf("booking_id=%s %s->%s by=%s", current.ID, rec.From, rec.To, actorID))
	return updated, nil
}

// Create is the intake path: new bookings start pending.
func (s AdminService) Create(ctx context.Context, draft models.BookingDraft) (models.Booking, error) {
	b, err := s.Store.Create(ctx, draft)
	if err != nil {
		return models.Booking{}, err
	}
	utils.LogEvent(s.RequestID, "admin", "create_booking",
		fmt.Sprintf("booking_id=%s reference=%s", b.ID, b.Reference))
	return b, nil
}

func (s AdminService) Get(ctx context.Context, bookingID string) (models.Booking, error) {
	return s.Store.GetByID(ctx, bookingID)
}

func (s AdminService) List(ctx context.Context, status models.Status) ([]models.Booking, error) {
	return s.Store.List(ctx, status)
}

// AuditTrail returns the recorded mutations for one booking.
func (s AdminService) AuditTrail(ctx context.Context, bookingID string) ([]models.AuditEntry, error) {
	if utils.TrimOrEmpty(bookingID) == "" {
		return nil, domain.ValidationError{Field: "booking_id", Msg: "required"}
	}
	if _, err := s.Store.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.Audit.ListByEntity("Booking", bookingID)
}
