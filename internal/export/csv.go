// Package export renders records as a semicolon-delimited spreadsheet file
// with pt-BR dates and currency.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"despesas/internal/core"
)

// ErrNothingToExport is returned when the collection is empty.
var ErrNothingToExport = errors.New("nothing to export")

// Header is the first row of every export.
var Header = []string{
	"Data do pagamento",
	"Comentário/Descrição",
	"Valor",
	"Categoria",
	"Meio de Pagamento",
}

const ContentType = "text/csv; charset=utf-8"

// WriteCSV writes the header and one row per record, in the given order.
// Amounts are written unsigned; the kind is not part of the layout.
func WriteCSV(w io.Writer, records []core.Record) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			core.FormatDate(r.Date),
			r.Description,
			core.FormatCurrency(r.Amount),
			r.Category,
			r.PaymentMethod,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName returns the download name for an export taken at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("despesas_%s.csv", now.UTC().Format("2006-01-02"))
}

// WriteFile exports records into dir and returns the written path. An empty
// collection is refused with ErrNothingToExport.
func WriteFile(dir string, now time.Time, records []core.Record) (string, error) {
	if len(records) == 0 {
		return "", ErrNothingToExport
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(now))
	tmp, err := os.CreateTemp(dir, ".despesas-*.csv")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, records); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename export: %w", err)
	}
	return path, nil
}
