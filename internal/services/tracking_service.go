package services

import (
	"context"

	"cabline/internal/domain"
	"cabline/internal/domain/models"
	"cabline/internal/lifecycle"
	"cabline/internal/utils"
)

// CustomerBooking is the customer-safe projection returned by the public
// tracking surface. Operator identity and the audit trail never appear
// here.
type CustomerBooking struct {
	Reference      string                  `json:"reference"`
	Status         models.Status           `json:"status"`
	ProgressStep   int                     `json:"progress_step"`
	CustomerName   string                  `json:"customer_name"`
	Pickup         string                  `json:"pickup"`
	Dropoff        string                  `json:"dropoff"`
	TripDate       string                  `json:"trip_date"`
	TripTime       string                  `json:"trip_time"`
	Vehicle        string                  `json:"vehicle"`
	PassengerCount int                     `json:"passenger_count"`
	LuggageCount   int                     `json:"luggage_count"`
	Pricing        *models.PricingSnapshot `json:"pricing,omitempty"`
}

// TrackingService is the public read path.
type TrackingService struct {
	Store     BookingStore
	RequestID string
}

// Track resolves a (reference, contact) pair. Wrong reference and wrong
// contact are indistinguishable by design; only blank input gets its own
// error kind.
func (s TrackingService) Track(ctx context.Context, reference, contact string) (CustomerBooking, error) {
	if utils.TrimOrEmpty(reference) == "" {
		return CustomerBooking{}, domain.ValidationError{Field: "reference", Msg: "required"}
	}
	if utils.TrimOrEmpty(contact) == "" {
		return CustomerBooking{}, domain.ValidationError{Field: "contact", Msg: "required"}
	}

	b, err := s.Store.FindByReferenceAndContact(ctx, reference, contact)
	if err != nil {
		return CustomerBooking{}, err
	}

	utils.LogEvent(s.RequestID, "tracking", "track", "reference="+b.Reference)
	return toCustomerBooking(b), nil
}

func toCustomerBooking(b models.Booking) CustomerBooking {
	return CustomerBooking{
		Reference:      b.Reference,
		Status:         b.Status,
		ProgressStep:   lifecycle.ProgressStep(b.Status),
		CustomerName:   b.CustomerName,
		Pickup:         b.Pickup,
		Dropoff:        b.Dropoff,
		TripDate:       b.TripDate,
		TripTime:       b.TripTime,
		Vehicle:        b.Vehicle,
		PassengerCount: b.PassengerCount,
		LuggageCount:   b.LuggageCount,
		Pricing:        b.Pricing,
	}
}
