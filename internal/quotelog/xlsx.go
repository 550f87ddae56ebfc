package quotelog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Sheet1"

// ErrCellValue is returned by Save for a quote a spreadsheet cell cannot hold unchanged.
var ErrCellValue = errors.New("quote cannot be stored in a cell")

// XLSXStore keeps the log in a single spreadsheet, one row per entry.
type XLSXStore struct {
	path string
}

func NewXLSXStore(path string) *XLSXStore {
	return &XLSXStore{path: path}
}

func (s *XLSXStore) Path() string { return s.path }

// Load returns an empty table when the file does not exist yet.
func (s *XLSXStore) Load(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return Table{}, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", s.path)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return Table{}, nil
	}

	idx, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	table := make(Table, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		entry, err := parseRow(idx, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		table = append(table, entry)
	}
	return table, nil
}

// Save writes the whole table to a temp file in the same directory and renames it over the log.
func (s *XLSXStore) Save(ctx context.Context, table Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, e := range table {
		if err := checkCellText(e.Quote); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			e.Timestamp.Format(TimeLayout),
			e.Quote,
			e.Metrics.WordCount,
			cellNumber(e.Metrics.PowerString(), e.Metrics.Power),
			cellNumber(e.Metrics.DifferenceString(), e.Metrics.Difference),
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".quotes-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *XLSXStore) Close() error { return nil }

// checkCellText rejects text excelize would truncate or rewrite on write.
func checkCellText(text string) error {
	if n := utf8.RuneCountInString(text); n > excelize.TotalCellChars {
		return fmt.Errorf("%w: %d characters, limit %d", ErrCellValue, n, excelize.TotalCellChars)
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: invalid UTF-8", ErrCellValue)
	}
	for i, r := range text {
		if !isXMLChar(r) {
			return fmt.Errorf("%w: invalid character %U at byte %d", ErrCellValue, r, i)
		}
	}
	return nil
}

// isXMLChar reports whether r is allowed in XML 1.0 character data.
func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
