package importer

import (
	"io"

	"github.com/MrJamesThe3rd/tradepack/internal/rates"
)

type Format string

const (
	FormatCSV Format = "csv"
)

// Importer reads a price sheet into a set of rates.
type Importer interface {
	Parse(r io.Reader) (rates.Rates, error)
}
