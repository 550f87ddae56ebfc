package quotelog

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/leonardotrapani/quotevoice/internal/metrics"
)

const (
	colTimestamp  = "timestamp"
	colQuote      = "quote"
	colWordCount  = "word_count"
	colSquare     = "square"
	colPower      = "power"
	colDifference = "difference"
)

// Header is the column order written by every backend.
var Header = []string{colTimestamp, colQuote, colWordCount, colSquare, colDifference}

// columnIndex maps header names to positions, accepting "power" for "square".
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == colPower {
			name = colSquare
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	for _, want := range Header {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("missing column %q", want)
		}
	}
	return idx, nil
}

func parseRow(idx map[string]int, row []string) (Entry, error) {
	cell := func(name string) string {
		i := idx[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	ts, err := time.ParseInLocation(TimeLayout, cell(colTimestamp), time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("parse timestamp: %w", err)
	}
	wc, err := strconv.Atoi(cell(colWordCount))
	if err != nil {
		return Entry{}, fmt.Errorf("parse word_count: %w", err)
	}
	power, err := parseBig(cell(colSquare))
	if err != nil {
		return Entry{}, fmt.Errorf("parse square: %w", err)
	}
	diff, err := parseBig(cell(colDifference))
	if err != nil {
		return Entry{}, fmt.Errorf("parse difference: %w", err)
	}

	quote := ""
	if i := idx[colQuote]; i < len(row) {
		quote = row[i]
	}

	return Entry{
		Timestamp: ts,
		Quote:     quote,
		Metrics:   metrics.Metrics{WordCount: wc, Power: power, Difference: diff},
	}, nil
}

// parseBig also accepts integral floats like "25.0" that spreadsheet apps write back.
func parseBig(s string) (*big.Int, error) {
	if n, ok := new(big.Int).SetString(s, 10); ok {
		return n, nil
	}
	f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
	if err != nil || !f.IsInt() {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	n, _ := f.Int(nil)
	return n, nil
}

// cellNumber keeps values a spreadsheet can hold exactly as numbers and
// falls back to the decimal string for the rest.
func cellNumber(text string, n *big.Int) interface{} {
	if n == nil {
		return 0
	}
	if n.IsInt64() && n.BitLen() <= 53 {
		return n.Int64()
	}
	return text
}
