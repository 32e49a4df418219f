package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/tradepack/internal/job"
	"github.com/MrJamesThe3rd/tradepack/internal/quote"
)

const (
	summarySheet  = "Summary"
	versionsSheet = "Versions"
)

var versionHeader = []any{
	"Version", "Sent At", "Sent To", "Expires At", "Subtotal", "Tax", "Total",
	"Hourly Rate", "Callout Fee", "Markup %", "Scope of Work", "Inclusions", "Exclusions",
}

// QuoteHistory writes a workbook with a job summary sheet and one row per sent version.
func (r *Renderer) QuoteHistory(j *job.Job, versions []*quote.Version) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, fmt.Errorf("creating summary sheet: %w", err)
	}

	f.SetActiveSheet(index)

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	summary := [][]any{
		{"Job", j.Title},
		{"Client", j.Client.Name},
		{"Client Email", j.Client.Email},
		{"Client Status", string(j.ClientStatus)},
		{"Current Version", j.QuoteVersion},
		{"Accepted Version", acceptedVersion(j)},
	}

	for i, row := range summary {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, fmt.Errorf("writing summary: %w", err)
		}
	}

	if _, err := f.NewSheet(versionsSheet); err != nil {
		return nil, fmt.Errorf("creating versions sheet: %w", err)
	}

	if err := f.SetSheetRow(versionsSheet, "A1", &versionHeader); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F0F0F0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	if err := f.SetCellStyle(versionsSheet, "A1", "M1", headerStyle); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}

	for i, v := range versions {
		row := []any{
			v.Version,
			v.SentAt.Format("2006-01-02 15:04"),
			v.SentTo,
			v.QuoteExpiryAt.Format("2006-01-02 15:04"),
			v.Subtotal.InexactFloat64(),
			v.Tax.InexactFloat64(),
			v.Total.InexactFloat64(),
			rateCell(v.Rates.HourlyRate),
			rateCell(v.Rates.CalloutFee),
			rateCell(v.Rates.MarkupPercent),
			v.ScopeOfWork,
			strings.Join(v.Inclusions, "; "),
			strings.Join(v.Exclusions, "; "),
		}

		if err := f.SetSheetRow(versionsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, fmt.Errorf("writing version %d: %w", v.Version, err)
		}
	}

	if err := f.SetColWidth(versionsSheet, "K", "M", 40); err != nil {
		return nil, fmt.Errorf("sizing columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func acceptedVersion(j *job.Job) any {
	if j.ClientAcceptedQuoteVer == nil {
		return ""
	}

	return *j.ClientAcceptedQuoteVer
}

func rateCell(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}

	return d.InexactFloat64()
}
