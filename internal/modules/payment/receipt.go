package payment

import (
	"bytes"
	"fmt"
	"time"

	"rideshare/internal/domain"

	"github.com/phpdave11/gofpdf"
)

func buildReceiptPDF(p *domain.PaymentDetails, issuedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment receipt", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Reference   : " + p.ProviderTransactionID,
		"Issued      : " + issuedAt.Format("2006-01-02 15:04"),
		"Paid at     : " + paidAt(p),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, tr(s))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Trip")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	trip := []string{
		fmt.Sprintf("Route       : %s - %s", p.From, p.To),
		"Departure   : " + p.DepartureTime.Format("2006-01-02 15:04 MST"),
		fmt.Sprintf("Seats       : %d", p.SeatsBooked),
		"Passenger   : " + safe(p.PassengerName, "-"),
		"Driver      : " + safe(p.DriverName, "-"),
		"Driver phone: " + safe(p.DriverPhone, "-"),
	}
	for _, s := range trip {
		pdf.Cell(0, 7, tr(s))
		pdf.Ln(7)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Total paid: "+p.Amount.Format())
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Paid by mobile money transfer directly to the driver. Keep this receipt until the trip is completed.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func paidAt(p *domain.PaymentDetails) string {
	if p.PaidAt == nil {
		return "-"
	}
	return p.PaidAt.UTC().Format("2006-01-02 15:04")
}

func safe(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
