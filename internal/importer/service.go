package importer

import (
	"io"
	"strings"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
	"github.com/MrJamesThe3rd/tradepack/internal/importer/ratecsv"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
)

type Service struct {
	csvImporter Importer
}

func NewService() *Service {
	return &Service{
		csvImporter: ratecsv.NewParser(),
	}
}

func (s *Service) Import(format Format, r io.Reader) (rates.Rates, error) {
	var importer Importer

	switch Format(strings.ToLower(string(format))) {
	case FormatCSV, "":
		importer = s.csvImporter
	default:
		return rates.Rates{}, apperr.Validationf("unknown import format: %s", format)
	}

	return importer.Parse(r)
}
