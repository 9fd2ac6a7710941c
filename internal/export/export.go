// Package export renders transactions as CSV or XLSX downloads.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fizcal/internal/models"
	"fizcal/internal/money"
)

// Format is an export file format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

const (
	dateLayout = "2006-01-02"
	sheetName  = "Transactions"
)

// ErrUnsupportedFormat is returned for a format other than csv or xlsx.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Header is the column row of every export.
var Header = []string{"Date", "Account", "Type", "Category", "Description", "Amount", "Currency"}

var colWidths = []float64{12, 20, 10, 16, 32, 12, 10}

// ParseFormat maps a query value to a Format. An empty value means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return CSV, nil
	case CSV, XLSX:
		return f, nil
	}
	return "", ErrUnsupportedFormat
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns the download name for an export generated at now.
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("transactions_%s.%s", now.UTC().Format("20060102"), f)
}

// Row renders one transaction. The account columns are empty when the
// account was not preloaded.
func Row(t models.Transaction) []string {
	var accountName, currency string
	if t.Account != nil {
		accountName = t.Account.Name
		currency = t.Account.Currency
	}
	return []string{
		t.Date.UTC().Format(dateLayout),
		accountName,
		string(t.Type),
		t.Category,
		t.Description,
		money.Format(t.Amount),
		currency,
	}
}

// Write encodes transactions to w in format f.
func Write(w io.Writer, f Format, transactions []models.Transaction) error {
	switch f {
	case CSV:
		return writeCSV(w, transactions)
	case XLSX:
		return writeXLSX(w, transactions)
	}
	return ErrUnsupportedFormat
}

func writeCSV(w io.Writer, transactions []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for i, t := range transactions {
		if err := cw.Write(Row(t)); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, transactions []models.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for i, h := range Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for idx, t := range transactions {
		row := Row(t)
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
		}
		// Amount stays numeric so spreadsheets can sum it.
		cells[5] = money.Major(t.Amount).InexactFloat64()

		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", idx+1, err)
		}
	}

	for i, width := range colWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}
