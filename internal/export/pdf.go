// Package export renders documents and quote history into client-facing files.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/MrJamesThe3rd/tradepack/internal/render"
)

const draftBanner = "AI-ASSISTED DRAFT - REQUIRES REVIEW"

// Renderer writes render models as A4 PDFs.
type Renderer struct {
	compress bool
}

func NewRenderer() *Renderer {
	return &Renderer{compress: true}
}

// PDF renders m. Unapproved models carry the draft banner and their warnings; approved models
// print neither.
func (r *Renderer) PDF(m *render.Model) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 35)
	pdf.SetTitle(m.Title, true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if err := registerQR(pdf, m.RecordID); err != nil {
		return nil, err
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-30)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(150, 5, tr(m.RecordID), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")

		if m.RecordID != "" {
			pdf.ImageOptions(qrImageName, 180, 267, 15, 15, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		}
	})

	pdf.AddPage()

	if !m.Approved {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(255, 236, 179)
		pdf.CellFormat(180, 9, draftBanner, "1", 1, "C", true, 0, "")
		pdf.Ln(3)
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(180, 10, tr(m.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)

	if m.Jurisdiction != "" {
		pdf.CellFormat(180, 5, tr("Jurisdiction: "+m.Jurisdiction), "", 1, "L", false, 0, "")
	}

	pdf.CellFormat(180, 5, tr("Record: "+m.RecordID), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, s := range m.Sections {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(180, 8, tr(s.Heading), "", 1, "L", true, 0, "")
		pdf.Ln(1)

		for _, f := range s.Fields {
			writeField(pdf, tr, f)
		}

		pdf.Ln(3)
	}

	if !m.Approved && len(m.Warnings) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(180, 30, 30)
		pdf.CellFormat(180, 8, "Compliance warnings", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)

		for _, w := range m.Warnings {
			pdf.MultiCell(180, 5, tr(fmt.Sprintf("[%s] %s", strings.ToUpper(string(w.Severity)), w.Message)), "", "L", false)
		}

		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(3)
	}

	if m.Disclaimer != "" {
		pdf.SetFont("Arial", "I", 8)
		pdf.MultiCell(180, 4, tr(m.Disclaimer), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func writeField(pdf *gofpdf.Fpdf, tr func(string) string, f render.Field) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(55, 6, tr(f.Label), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	if len(f.Items) == 0 {
		pdf.MultiCell(125, 6, tr(f.Value), "", "L", false)
		return
	}

	left := pdf.GetX()

	for i, item := range f.Items {
		if i > 0 {
			pdf.SetX(left)
		}

		pdf.MultiCell(125, 6, tr("- "+item), "", "L", false)
	}
}

const qrImageName = "record-qr"

func registerQR(pdf *gofpdf.Fpdf, recordID string) error {
	if recordID == "" {
		return nil
	}

	png, err := qrcode.Encode(recordID, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encoding record qr: %w", err)
	}

	pdf.RegisterImageOptionsReader(qrImageName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))

	return pdf.Error()
}
