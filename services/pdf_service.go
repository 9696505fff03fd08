// Package services holds supporting services that sit beside the models.
package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rijnfleet/fleet-backend/types"
	"github.com/shopspring/decimal"
)

// PDFService renders settlement statements for drivers.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// SettlementStatement renders a one-page payout statement for the given
// settlement. The totals printed are the persisted ones; nothing is
// recomputed here.
func (s *PDFService) SettlementStatement(settlement *types.SettlementResponse) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Settlement %s", settlement.ID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Settlement Statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	s.keyValue(pdf, "Settlement", settlement.ID)
	s.keyValue(pdf, "Status", string(settlement.Status))
	s.keyValue(pdf, "Period", fmt.Sprintf("%s - %s",
		settlement.PeriodStart.Format("2006-01-02"),
		settlement.PeriodEnd.Format("2006-01-02")))
	if settlement.Driver != nil {
		s.keyValue(pdf, "Driver", fmt.Sprintf("%s %s", settlement.Driver.FirstName, settlement.Driver.LastName))
	}
	if settlement.Car != nil {
		s.keyValue(pdf, "Car", fmt.Sprintf("%s %s (%s)", settlement.Car.Make, settlement.Car.Model, settlement.Car.LicensePlate))
	}
	if settlement.Description != "" {
		s.keyValue(pdf, "Description", settlement.Description)
	}
	pdf.Ln(6)

	// Earnings table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(30, 8, "Week", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Platform", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Gross", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "BTW", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Net", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i := range settlement.Earnings {
		e := &settlement.Earnings[i]
		if !e.IsActive {
			continue
		}
		pdf.CellFormat(30, 8, e.WeekStart.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 8, string(e.Platform), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 8, formatAmount(e.GrossIncome), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, formatAmount(e.BtwAmount()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, formatAmount(e.NetIncome()), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// Totals
	pdf.SetFont("Helvetica", "B", 11)
	s.totalLine(pdf, "Gross amount", settlement.GrossAmount)
	s.totalLine(pdf, "Rent deduction", settlement.RentDeduction.Neg())
	if !settlement.ExtraCosts.IsZero() {
		s.totalLine(pdf, "Extra costs", settlement.ExtraCosts.Neg())
	}
	s.totalLine(pdf, "Net payout", settlement.NetPayout)

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", time.Now().UTC().Format("2006-01-02 15:04 MST")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render settlement pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *PDFService) keyValue(pdf *gofpdf.Fpdf, key, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(35, 6, key)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, value)
	pdf.Ln(6)
}

func (s *PDFService) totalLine(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.CellFormat(135, 8, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, formatAmount(amount), "T", 1, "R", false, 0, "")
}

func formatAmount(d decimal.Decimal) string {
	return "EUR " + d.StringFixed(2)
}
