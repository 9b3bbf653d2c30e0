package handlers

import (
	"net/http"

	"cabline/internal/domain/models"
	"cabline/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// CreateBooking handles POST /api/bookings (intake; new bookings start
// pending).
func (h *Handler) CreateBooking(c *gin.Context) {
	var draft models.BookingDraft
	if !BindJSONOrError(c, &draft) {
		return
	}

	b, err := h.admin(c).Create(c.Request.Context(), draft)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// ListBookings handles GET /api/bookings with an optional ?status= filter.
func (h *Handler) ListBookings(c *gin.Context) {
	status := models.Status(c.Query("status"))

	list, err := h.admin(c).List(c.Request.Context(), status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

// GetBooking handles GET /api/bookings/:id.
func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.admin(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type setStatusRequest struct {
	Status models.Status `json:"status"`
}

// SetBookingStatus handles PUT /api/bookings/:id/status. The actor comes
// from the verified staff token, never from the payload.
func (h *Handler) SetBookingStatus(c *gin.Context) {
	var req setStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	actor := middleware.GetActor(c)
	b, err := h.admin(c).SetStatus(c.Request.Context(), c.Param("id"), req.Status, actor)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBookingAudit handles GET /api/bookings/:id/audit.
func (h *Handler) GetBookingAudit(c *gin.Context) {
	trail, err := h.admin(c).AuditTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": trail, "count": len(trail)})
}
