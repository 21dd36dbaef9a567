// Package receipt renders a printable PDF receipt for a closed rental.
package receipt

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/phrazzld/karent-api/internal/domain"
)

// ContentType is the MIME type of a rendered receipt.
const ContentType = "application/pdf"

// Filename returns the download name of the receipt for a rental return.
func Filename(rr *domain.RentalReturn) string {
	return "karent-receipt-" + strconv.FormatInt(rr.ID, 10) + ".pdf"
}

// Render writes the receipt of rr as a single A4 page. rr must carry the
// joined rental, user and car columns.
func Render(w io.Writer, rr *domain.RentalReturn, issuedAt time.Time) error {
	return render(w, rr, issuedAt, true)
}

func render(w io.Writer, rr *domain.RentalReturn, issuedAt time.Time, compress bool) error {
	if rr == nil {
		return fmt.Errorf("render receipt: rental return is nil")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(fmt.Sprintf("Karent receipt #%d", rr.ID), false)
	pdf.SetCreator("karent-api", false)
	pdf.SetCreationDate(issuedAt)
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()
	// core fonts are cp1252; names arrive as UTF-8
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Karent Rental Receipt")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, fmt.Sprintf("Receipt #%d for rental #%d", rr.ID, rr.RentalID))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Issued: "+issuedAt.UTC().Format(time.RFC3339))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetTextColor(20, 20, 20)

	labelW, valueW := 60.0, 122.0
	row := func(label, value string, bold bool) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(labelW, 8, tr(label), "1", 0, "L", true, 0, "")
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(valueW, 8, tr(value), "1", 1, "R", false, 0, "")
	}

	row("Customer", rr.UserName, false)
	row("Car", rr.CarBrand+" "+rr.CarModel, false)
	row("Rental period", formatDate(rr.RentalStartDate)+" to "+formatDate(rr.RentalEndDate), false)
	row("Returned on", formatDate(rr.ReturnDate), false)
	row("Late days", strconv.FormatInt(domain.LateDays(rr.RentalEndDate, rr.ReturnDate), 10), false)
	row("Rental fee", rr.RentalTotalFee.String(), false)
	row("Late fee", rr.LateFee.String(), false)
	row("Total", rr.TotalFee.String(), true)

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Thank you for renting with Karent.", "", 0, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}
