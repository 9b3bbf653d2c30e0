// Package events fans status changes out to live tracking clients. The
// persisted mutation is authoritative; everything here is best-effort.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cabline/internal/domain"
	"cabline/internal/domain/models"
	"cabline/internal/utils"
)

// Publisher is the narrow pub/sub surface the dispatcher needs. The
// shipped implementation is Kafka; swapping transports stays inside this
// package.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// BookingChannel names the per-booking channel. Tracking clients subscribe
// to exactly this name; changing the convention breaks them.
func BookingChannel(bookingID string) string {
	return "booking-channel-" + bookingID
}

// StatusChangedEvent is the wire payload delivered to subscribers.
type StatusChangedEvent struct {
	BookingID  string                  `json:"booking_id"`
	NewStatus  models.Status           `json:"new_status"`
	Transition models.TransitionRecord `json:"transition"`
}

type Dispatcher struct {
	Pub Publisher
}

// StatusChanged publishes an accepted, already-persisted transition.
// Failures are logged as warnings and swallowed: subscribers reconcile by
// re-querying, and the mutation must not appear to fail after commit.
func (d Dispatcher) StatusChanged(ctx context.Context, requestID string, bookingID string, rec models.TransitionRecord) {
	if d.Pub == nil {
		return
	}

	payload, err := json.Marshal(StatusChangedEvent{
		BookingID:  bookingID,
		NewStatus:  rec.To,
		Transition: rec,
	})
	if err != nil {
		utils.LogWarn(requestID, "events", "dispatch_marshal", err.Error())
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	channel := BookingChannel(bookingID)
	if err := d.Pub.Publish(pubCtx, channel, payload); err != nil {
		derr := domain.DispatchError{Channel: channel, Err: err}
		utils.LogWarn(requestID, "events", "dispatch_publish",
			fmt.Sprintf("%v: %v", derr, err))
		return
	}
	utils.LogEvent(requestID, "events", "dispatch_publish",
		fmt.Sprintf("channel=%s status=%s", channel, rec.To))
}
