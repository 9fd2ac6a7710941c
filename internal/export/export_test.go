package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fizcal/internal/models"
)

func sampleTransactions() []models.Transaction {
	account := &models.Account{Name: "Checking", Currency: "EUR"}
	return []models.Transaction{
		{
			Type:        models.TransactionTypeExpense,
			Amount:      12345,
			Category:    "Food",
			Description: "Lunch, with \"friends\"",
			Date:        time.Date(2025, 1, 15, 23, 30, 0, 0, time.UTC),
			Account:     account,
		},
		{
			Type:   models.TransactionTypeIncome,
			Amount: 5,
			Date:   time.Date(2025, 1, 16, 8, 0, 0, 0, time.UTC),
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", CSV, false},
		{"csv", CSV, false},
		{" XLSX ", XLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatMetadata(t *testing.T) {
	now := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "transactions_20250309.csv", CSV.Filename(now))
	assert.Equal(t, "transactions_20250309.xlsx", XLSX.Filename(now))
	assert.Contains(t, CSV.ContentType(), "text/csv")
	assert.Contains(t, XLSX.ContentType(), "spreadsheetml")
}

func TestRow(t *testing.T) {
	txs := sampleTransactions()

	assert.Equal(t,
		[]string{"2025-01-15", "Checking", "expense", "Food", "Lunch, with \"friends\"", "123.45", "EUR"},
		Row(txs[0]))
	assert.Equal(t,
		[]string{"2025-01-16", "", "income", "", "", "0.05", ""},
		Row(txs[1]))
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, CSV, sampleTransactions()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, "Lunch, with \"friends\"", records[1][4])
	assert.Equal(t, "123.45", records[1][5])
}

func TestWrite_CSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, CSV, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{Header}, records)
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, XLSX, sampleTransactions()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "2025-01-15", rows[1][0])
	assert.Equal(t, "Checking", rows[1][1])

	amount, err := strconv.ParseFloat(rows[1][5], 64)
	require.NoError(t, err)
	assert.InDelta(t, 123.45, amount, 1e-9)
}

func TestWrite_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, Format("pdf"), nil), ErrUnsupportedFormat)
}
