package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cabline/internal/domain"
	"cabline/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// stubStore serves a single booking for handler tests.
type stubStore struct {
	booking models.Booking
}

func (s *stubStore) Create(_ context.Context, _ models.BookingDraft) (models.Booking, error) {
	return s.booking, nil
}

func (s *stubStore) GetByID(_ context.Context, id string) (models.Booking, error) {
	if id != s.booking.ID {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return s.booking, nil
}

func (s *stubStore) FindByReferenceAndContact(_ context.Context, reference, contact string) (models.Booking, error) {
	if reference == s.booking.Reference &&
		(strings.EqualFold(contact, s.booking.Email) || contact == s.booking.Phone) {
		return s.booking, nil
	}
	return models.Booking{}, domain.NotFoundError{Resource: "booking"}
}

func (s *stubStore) List(_ context.Context, _ models.Status) ([]models.Booking, error) {
	return []models.Booking{s.booking}, nil
}

func (s *stubStore) Update(_ context.Context, _ string, _ models.BookingUpdate) (models.Booking, error) {
	return s.booking, nil
}

func (s *stubStore) UpdateStatus(_ context.Context, id string, expectedPrior models.Status, rec models.TransitionRecord) (models.Booking, error) {
	if id != s.booking.ID {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if s.booking.Status != expectedPrior {
		return models.Booking{}, domain.ConflictError{Resource: "booking"}
	}
	s.booking.Status = rec.To
	s.booking.UpdatedBy = rec.Actor
	return s.booking, nil
}

func trackingRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{Store: store}
	r := gin.New()
	r.POST("/api/track", h.Track)
	return r
}

func seedBooking() models.Booking {
	return models.Booking{
		ID:           "b-1",
		Reference:    "BOOK-7KQ2MX",
		CustomerName: "Ada Jones",
		Email:        "ada@example.com",
		Pickup:       "Heathrow T5",
		Dropoff:      "Cambridge",
		Status:       models.StatusConfirmed,
		UpdatedBy:    "staff1",
	}
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, w.Body.String())
	}
	return w, payload
}

func TestTrack_Success(t *testing.T) {
	r := trackingRouter(&stubStore{booking: seedBooking()})

	w, payload := postJSON(t, r, "/api/track", `{"reference":"BOOK-7KQ2MX","email":"ada@example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if payload["success"] != true {
		t.Fatalf("success should be true: %v", payload)
	}
	booking, ok := payload["booking"].(map[string]any)
	if !ok {
		t.Fatalf("booking payload missing: %v", payload)
	}
	if booking["reference"] != "BOOK-7KQ2MX" || booking["status"] != "confirmed" {
		t.Fatalf("booking fields wrong: %v", booking)
	}
	if booking["progress_step"] != float64(2) {
		t.Fatalf("progress_step = %v, want 2", booking["progress_step"])
	}
	if _, leaked := booking["updated_by"]; leaked {
		t.Fatal("staff identity leaked into the customer payload")
	}
	if _, leaked := booking["id"]; leaked {
		t.Fatal("internal id leaked into the customer payload")
	}
}

func TestTrack_UnknownReference(t *testing.T) {
	r := trackingRouter(&stubStore{booking: seedBooking()})

	w, payload := postJSON(t, r, "/api/track", `{"reference":"BOOK-999","email":"nobody@example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if payload["success"] != false {
		t.Fatalf("success should be false: %v", payload)
	}
	if _, present := payload["booking"]; present {
		t.Fatal("failed lookup must not carry booking fields")
	}
}

func TestTrack_WrongContactMatchesWrongReferenceShape(t *testing.T) {
	r := trackingRouter(&stubStore{booking: seedBooking()})

	_, wrongRef := postJSON(t, r, "/api/track", `{"reference":"BOOK-999","email":"ada@example.com"}`)
	_, wrongContact := postJSON(t, r, "/api/track", `{"reference":"BOOK-7KQ2MX","email":"nobody@example.com"}`)

	if wrongRef["message"] != wrongContact["message"] {
		t.Fatalf("messages differ between wrong reference and wrong contact: %v vs %v",
			wrongRef["message"], wrongContact["message"])
	}
}

func TestTrack_BlankInput(t *testing.T) {
	r := trackingRouter(&stubStore{booking: seedBooking()})

	_, payload := postJSON(t, r, "/api/track", `{"reference":"","email":""}`)
	if payload["success"] != false {
		t.Fatalf("success should be false: %v", payload)
	}
	if _, present := payload["booking"]; present {
		t.Fatal("validation failure must not carry booking fields")
	}
}

func TestTrack_PhoneAsContact(t *testing.T) {
	store := &stubStore{booking: seedBooking()}
	store.booking.Phone = "+447700900123"
	r := trackingRouter(store)

	_, payload := postJSON(t, r, "/api/track", `{"reference":"BOOK-7KQ2MX","phone":"+447700900123"}`)
	if payload["success"] != true {
		t.Fatalf("phone contact should resolve: %v", payload)
	}
}
