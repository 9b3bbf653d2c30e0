package services

import (
	"context"

	"cabline/internal/domain/models"
)

// BookingStore is the persistence collaborator. Satisfied by
// repositories.BookingRepo; tests use fakes.
type BookingStore interface {
	Create(ctx context.Context, draft models.BookingDraft) (models.Booking, error)
	GetByID(ctx context.Context, id string) (models.Booking, error)
	FindByReferenceAndContact(ctx context.Context, reference, contact string) (models.Booking, error)
	List(ctx context.Context, status models.Status) ([]models.Booking, error)
	Update(ctx context.Context, id string, upd models.BookingUpdate) (models.Booking, error)
	UpdateStatus(ctx context.Context, id string, expectedPrior models.Status, rec models.TransitionRecord) (models.Booking, error)
}

// AuditRecorder is the audit collaborator. Satisfied by
// repositories.AuditRepo.
type AuditRecorder interface {
	Insert(entry models.AuditEntry) error
	ListByEntity(entity, entityID string) ([]models.AuditEntry, error)
}

// EventNotifier is the pub/sub collaborator. Satisfied by
// events.Dispatcher; it never reports failure upward.
type EventNotifier interface {
	StatusChanged(ctx context.Context, requestID, bookingID string, rec models.TransitionRecord)
}
