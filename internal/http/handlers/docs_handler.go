package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetBookingETicket handles GET /api/bookings/:id/e-ticket.
func (h *Handler) GetBookingETicket(c *gin.Context) {
	pdf, filename, err := h.docs(c).GenerateETicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, pdf, filename)
}

// GetBookingReceipt handles GET /api/bookings/:id/receipt.
func (h *Handler) GetBookingReceipt(c *gin.Context) {
	pdf, filename, err := h.docs(c).GenerateReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, pdf, filename)
}

func servePDF(c *gin.Context, pdf []byte, filename string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
