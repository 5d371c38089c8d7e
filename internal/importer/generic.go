package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// GenericParser parses the plain statement format: a header row followed by
// date,description,amount[,category] records.
type GenericParser struct{}

const (
	genericDateFormat = "2006-01-02"
	genericColDate    = 0
	genericColDesc    = 1
	genericColAmount  = 2
	genericColCat     = 3
)

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads the CSV and returns Rows.
func (p *GenericParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, err := parseGenericRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseGenericRow(rec []string) (Row, error) {
	if len(rec) < 3 {
		return Row{}, fmt.Errorf("expected at least 3 fields, got %d", len(rec))
	}
	date, err := time.Parse(genericDateFormat, rec[genericColDate])
	if err != nil {
		return Row{}, fmt.Errorf("parsing date %q: %w", rec[genericColDate], err)
	}
	amount, err := decimal.NewFromString(rec[genericColAmount])
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", rec[genericColAmount], err)
	}
	row := Row{
		Date:        date,
		Description: rec[genericColDesc],
		Amount:      amount,
	}
	if len(rec) > genericColCat {
		row.Category = rec[genericColCat]
	}
	return row, nil
}
