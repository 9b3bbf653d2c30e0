package repositories

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"cabline/internal/domain"
	"cabline/internal/domain/models"
	"cabline/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingRepo is the booking document store.
type BookingRepo struct {
	Col *mongo.Collection
}

func NewBookingRepo(db *mongo.Database) BookingRepo {
	return BookingRepo{Col: db.Collection("bookings")}
}

// Create assigns identifier, reference and pending status, then inserts.
func (r BookingRepo) Create(ctx context.Context, draft models.BookingDraft) (models.Booking, error) {
	if err := validateDraft(draft); err != nil {
		return models.Booking{}, err
	}

	now := time.Now().UTC()
	b := models.Booking{
		ID:             uuid.New().String(),
		Reference:      NewReference(),
		CustomerName:   utils.TrimOrEmpty(draft.CustomerName),
		Email:          utils.TrimOrEmpty(draft.Email),
		Phone:          utils.TrimOrEmpty(draft.Phone),
		Pickup:         utils.TrimOrEmpty(draft.Pickup),
		Dropoff:        utils.TrimOrEmpty(draft.Dropoff),
		TripDate:       utils.TrimOrEmpty(draft.TripDate),
		TripTime:       utils.TrimOrEmpty(draft.TripTime),
		Vehicle:        utils.TrimOrEmpty(draft.Vehicle),
		PassengerCount: draft.PassengerCount,
		LuggageCount:   draft.LuggageCount,
		Status:         models.StatusPending,
		Pricing:        draft.Pricing,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := r.Col.InsertOne(ctx, b); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "insert booking failed", Err: err}
	}
	return b, nil
}

func (r BookingRepo) GetByID(ctx context.Context, id string) (models.Booking, error) {
	if utils.TrimOrEmpty(id) == "" {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "missing booking id"}
	}
	var b models.Booking
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, domain.InternalError{Msg: "read booking failed", Err: err}
	}
	return b, nil
}

// FindByReferenceAndContact resolves the public tracking key. A reference
// hit with a contact mismatch is reported exactly like a miss, so callers
// cannot probe which references exist.
func (r BookingRepo) FindByReferenceAndContact(ctx context.Context, reference, contact string) (models.Booking, error) {
	ref := strings.ToUpper(utils.TrimOrEmpty(reference))
	if ref == "" || utils.TrimOrEmpty(contact) == "" {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}

	var b models.Booking
	if err := r.Col.FindOne(ctx, bson.M{"reference": ref}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, domain.InternalError{Msg: "read booking failed", Err: err}
	}
	if !matchesContact(b, contact) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, nil
}

// List returns bookings newest-first, optionally filtered by status.
func (r BookingRepo) List(ctx context.Context, status models.Status) ([]models.Booking, error) {
	filter := bson.M{}
	if status != "" {
		if !status.Valid() {
			return nil, domain.ValidationError{Field: "status", Msg: "unknown status " + string(status)}
		}
		filter["status"] = status
	}

	cur, err := r.Col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, domain.InternalError{Msg: "list bookings failed", Err: err}
	}
	defer cur.Close(ctx)

	out := []models.Booking{}
	for cur.Next(ctx) {
		var b models.Booking
		if err := cur.Decode(&b); err != nil {
			return nil, domain.InternalError{Msg: "decode booking failed", Err: err}
		}
		out = append(out, b)
	}
	if err := cur.Err(); err != nil {
		return nil, domain.InternalError{Msg: "list bookings failed", Err: err}
	}
	return out, nil
}

// Update merges the present fields and returns the updated document.
func (r BookingRepo) Update(ctx context.Context, id string, upd models.BookingUpdate) (models.Booking, error) {
	if utils.TrimOrEmpty(id) == "" {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "missing booking id"}
	}
	set := buildUpdateDoc(upd)
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set["updated_at"] = time.Now().UTC()

	after := options.After
	var b models.Booking
	err := r.Col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, domain.InternalError{Msg: "update booking failed", Err: err}
	}
	return b, nil
}

// UpdateStatus applies an accepted transition with an optimistic guard on
// the expected prior status. When the filter misses, a re-read tells a
// vanished booking apart from a concurrent writer.
func (r BookingRepo) UpdateStatus(ctx context.Context, id string, expectedPrior models.Status, rec models.TransitionRecord) (models.Booking, error) {
	filter := bson.M{"_id": id, "status": expectedPrior}
	update := bson.M{"$set": bson.M{
		"status":     rec.To,
		"updated_at": rec.Timestamp,
		"updated_by": rec.Actor,
	}}

	res, err := r.Col.UpdateOne(ctx, filter, update)
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "update booking status failed", Err: err}
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return models.Booking{}, err
		}
		return models.Booking{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("status is no longer %s", expectedPrior),
		}
	}
	return r.GetByID(ctx, id)
}

func validateDraft(d models.BookingDraft) error {
	required := []struct {
		field string
		value string
	}{
		{"customer_name", d.CustomerName},
		{"email", d.Email},
		{"pickup", d.Pickup},
		{"dropoff", d.Dropoff},
		{"trip_date", d.TripDate},
		{"trip_time", d.TripTime},
	}
	for _, f := range required {
		if utils.TrimOrEmpty(f.value) == "" {
			return domain.ValidationError{Field: f.field, Msg: "required"}
		}
	}
	if d.PassengerCount <= 0 {
		return domain.ValidationError{Field: "passenger_count", Msg: "must be at least 1"}
	}
	if d.LuggageCount < 0 {
		return domain.ValidationError{Field: "luggage_count", Msg: "cannot be negative"}
	}
	return nil
}

// matchesContact compares the supplied contact against email
// (case-insensitive) or phone (whitespace-insensitive), exact otherwise.
func matchesContact(b models.Booking, contact string) bool {
	c := utils.TrimOrEmpty(contact)
	if c == "" {
		return false
	}
	if b.Email != "" && utils.NormalizeEmail(c) == utils.NormalizeEmail(b.Email) {
		return true
	}
	if b.Phone != "" && utils.NormalizePhone(c) == utils.NormalizePhone(b.Phone) {
		return true
	}
	return false
}

func buildUpdateDoc(upd models.BookingUpdate) bson.M {
	set := bson.M{}
	if upd.CustomerName != nil {
		set["customer_name"] = utils.TrimOrEmpty(*upd.CustomerName)
	}
	if upd.Email != nil {
		set["email"] = utils.TrimOrEmpty(*upd.Email)
	}
	if upd.Phone != nil {
		set["phone"] = utils.TrimOrEmpty(*upd.Phone)
	}
	if upd.Pickup != nil {
		set["pickup"] = utils.TrimOrEmpty(*upd.Pickup)
	}
	if upd.Dropoff != nil {
		set["dropoff"] = utils.TrimOrEmpty(*upd.Dropoff)
	}
	if upd.TripDate != nil {
		set["trip_date"] = utils.TrimOrEmpty(*upd.TripDate)
	}
	if upd.TripTime != nil {
		set["trip_time"] = utils.TrimOrEmpty(*upd.TripTime)
	}
	if upd.Vehicle != nil {
		set["vehicle"] = utils.TrimOrEmpty(*upd.Vehicle)
	}
	if upd.Rating != nil {
		set["rating"] = *upd.Rating
	}
	return set
}

const refAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NewReference builds the human-facing booking code, e.g. BOOK-7KQ2MX.
// The alphabet skips 0/O/1/I/L to keep phone readouts unambiguous.
func NewReference() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable for id generation
		panic(err)
	}
	for i, v := range buf {
		buf[i] = refAlphabet[int(v)%len(refAlphabet)]
	}
	return "BOOK-" + string(buf)
}
