package models

import "time"

// Status enumerates the booking lifecycle states. The legal edges between
// them live in the lifecycle package; nothing outside it writes Status.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusDriverAssigned Status = "driver_assigned"
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDriverAssigned,
		StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking is the central document. ID is assigned once at creation and
// never reused; Reference is the human-facing code customers track with.
type Booking struct {
	ID        string `bson:"_id" json:"id"`
	Reference string `bson:"reference" json:"reference"`

	CustomerName string `bson:"customer_name" json:"customer_name"`
	Email        string `bson:"email" json:"email"`
	Phone        string `bson:"phone" json:"phone"`

	Pickup         string `bson:"pickup" json:"pickup"`
	Dropoff        string `bson:"dropoff" json:"dropoff"`
	TripDate       string `bson:"trip_date" json:"trip_date"`
	TripTime       string `bson:"trip_time" json:"trip_time"`
	Vehicle        string `bson:"vehicle" json:"vehicle"`
	PassengerCount int    `bson:"passenger_count" json:"passenger_count"`
	LuggageCount   int    `bson:"luggage_count" json:"luggage_count"`

	Status Status `bson:"status" json:"status"`

	Pricing *PricingSnapshot `bson:"pricing,omitempty" json:"pricing,omitempty"`
	Rating  *Rating          `bson:"rating,omitempty" json:"rating,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	UpdatedBy string    `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// PricingSnapshot is captured at intake and never recomputed afterwards.
type PricingSnapshot struct {
	OriginalPrice float64 `bson:"original_price" json:"original_price"`
	Discount      float64 `bson:"discount" json:"discount"`
	FinalPrice    float64 `bson:"final_price" json:"final_price"`
}

// Rating is filled in by the review flow after a booking completes.
type Rating struct {
	Score   int       `bson:"score" json:"score"`
	Review  string    `bson:"review,omitempty" json:"review,omitempty"`
	RatedAt time.Time `bson:"rated_at" json:"rated_at"`
}

// BookingDraft carries the intake fields; identifier, reference, status and
// timestamps are assigned by the store.
type BookingDraft struct {
	CustomerName   string           `json:"customer_name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Pickup         string           `json:"pickup"`
	Dropoff        string           `json:"dropoff"`
	TripDate       string           `json:"trip_date"`
	TripTime       string           `json:"trip_time"`
	Vehicle        string           `json:"vehicle"`
	PassengerCount int              `json:"passenger_count"`
	LuggageCount   int              `json:"luggage_count"`
	Pricing        *PricingSnapshot `json:"pricing,omitempty"`
}

// BookingUpdate supports PATCH-style updates via pointer presence. Status is
// deliberately absent; status changes go through UpdateStatus only.
type BookingUpdate struct {
	CustomerName *string
	Email        *string
	Phone        *string
	Pickup       *string
	Dropoff      *string
	TripDate     *string
	TripTime     *string
	Vehicle      *string
	Rating       *Rating
}

// TransitionRecord describes one accepted status change, for the audit
// trail and the event payload.
type TransitionRecord struct {
	From      Status    `bson:"from" json:"from"`
	To        Status    `bson:"to" json:"to"`
	Actor     string    `bson:"actor" json:"actor"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// AuditEntry is one row of the relational audit trail.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Details   string    `json:"details"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// StaffUser mirrors the staff_users table minus the password hash.
type StaffUser struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}
