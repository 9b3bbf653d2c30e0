package handlers

import (
	"net/http"

	"cabline/internal/domain"
	"cabline/internal/services"

	"github.com/gin-gonic/gin"
)

type trackRequest struct {
	Reference string `json:"reference"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// trackResponse is the public tracking contract: on any failure success is
// false, no booking fields are present, and the message never reveals
// whether the reference exists.
type trackResponse struct {
	Success bool                      `json:"success"`
	Booking *services.CustomerBooking `json:"booking,omitempty"`
	Message string                    `json:"message,omitempty"`
}

// Track handles POST /api/track.
func (h *Handler) Track(c *gin.Context) {
	var req trackRequest
	if c.Request.Body == nil || c.ShouldBindJSON(&req) != nil {
		c.JSON(http.StatusOK, trackResponse{Success: false, Message: "Reference and contact details are required."})
		return
	}

	contact := req.Email
	if contact == "" {
		contact = req.Phone
	}

	booking, err := h.tracking(c).Track(c.Request.Context(), req.Reference, contact)
	if err != nil {
		switch {
		case domain.IsValidation(err):
			c.JSON(http.StatusOK, trackResponse{Success: false, Message: "Reference and contact details are required."})
		case domain.IsNotFound(err):
			c.JSON(http.StatusOK, trackResponse{Success: false, Message: "No booking found matching those details."})
		default:
			c.JSON(http.StatusOK, trackResponse{Success: false, Message: "Tracking is temporarily unavailable, please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, trackResponse{Success: true, Booking: &booking})
}
