package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"cabline/internal/domain/models"
	"cabline/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking PDFs (e-ticket and payment receipt) from the
// stored snapshot.
type DocsService struct {
	Store     BookingStore
	RequestID string
}

func (s DocsService) GenerateETicket(ctx context.Context, bookingID string) ([]byte, string, error) {
	b, err := s.Store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", "booking_id="+b.ID)
	return buildETicketPDF(b)
}

func (s DocsService) GenerateReceipt(ctx context.Context, bookingID string) ([]byte, string, error) {
	b, err := s.Store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", "booking_id="+b.ID)
	return buildReceiptPDF(b)
}

func buildETicketPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking ref    : %s", safe(b.Reference, "-")),
		fmt.Sprintf("Passenger      : %s", safe(b.CustomerName, "-")),
		fmt.Sprintf("Pickup         : %s", safe(b.Pickup, "-")),
		fmt.Sprintf("Dropoff        : %s", safe(b.Dropoff, "-")),
		fmt.Sprintf("Date/Time      : %s %s", safe(b.TripDate, "-"), safe(b.TripTime, "-")),
		fmt.Sprintf("Vehicle        : %s", safe(b.Vehicle, "-")),
		fmt.Sprintf("Passengers     : %d", b.PassengerCount),
		fmt.Sprintf("Luggage        : %d", b.LuggageCount),
		fmt.Sprintf("Status         : %s", b.Status),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please have this ticket ready when your driver arrives. The driver will confirm your booking reference.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(b.Reference))
	return buf.Bytes(), filename, nil
}

func buildReceiptPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Receipt no  : RCP-"+safeFilenamePart(b.Reference))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued      : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Customer    : "+safe(b.CustomerName, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Journey     : %s -> %s", safe(b.Pickup, "-"), safe(b.Dropoff, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Date/Time   : %s %s", safe(b.TripDate, "-"), safe(b.TripTime, "-")))
	pdf.Ln(10)

	if b.Pricing != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Charges")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 7, fmt.Sprintf("Fare        : %.2f", b.Pricing.OriginalPrice))
		pdf.Ln(7)
		if b.Pricing.Discount > 0 {
			pdf.Cell(0, 7, fmt.Sprintf("Discount    : -%.2f", b.Pricing.Discount))
			pdf.Ln(7)
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, fmt.Sprintf("Total       : %.2f", b.Pricing.FinalPrice))
		pdf.Ln(7)
	} else {
		pdf.Cell(0, 7, "No pricing recorded for this booking.")
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(b.Reference))
	return buf.Bytes(), filename, nil
}

func safe(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "booking"
	}
	var out strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out.WriteRune(r)
		default:
			out.WriteRune('_')
		}
	}
	return out.String()
}
