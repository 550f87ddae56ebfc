// Package metrics computes the quote metrics shown after every submission:
// the word count, the word count raised to an exponent, and their difference.
package metrics

import (
	"errors"
	"math/big"
	"strings"
	"unicode"
)

// DefaultExponent is used when the caller has no exponent of its own.
const DefaultExponent = 2

var ErrNegativeExponent = errors.New("exponent must not be negative")

type Metrics struct {
	WordCount  int
	Power      *big.Int
	Difference *big.Int
}

// Zero returns metrics for an empty quote.
func Zero() Metrics {
	return Metrics{Power: new(big.Int), Difference: new(big.Int)}
}

// PowerString formats Power, treating a nil value as zero.
func (m Metrics) PowerString() string {
	if m.Power == nil {
		return "0"
	}
	return m.Power.String()
}

// DifferenceString formats Difference, treating a nil value as zero.
func (m Metrics) DifferenceString() string {
	if m.Difference == nil {
		return "0"
	}
	return m.Difference.String()
}

// Equal reports whether both metrics hold the same values.
func (m Metrics) Equal(o Metrics) bool {
	return m.WordCount == o.WordCount &&
		m.PowerString() == o.PowerString() &&
		m.DifferenceString() == o.DifferenceString()
}

// Compute strips punctuation from text, counts the remaining words and derives
// power = words^exponent and difference = power - words.
func Compute(text string, exponent int) (Metrics, error) {
	if exponent < 0 {
		return Metrics{}, ErrNegativeExponent
	}

	wc := len(Words(text))

	base := big.NewInt(int64(wc))
	power := new(big.Int).Exp(base, big.NewInt(int64(exponent)), nil)
	diff := new(big.Int).Sub(power, base)

	return Metrics{WordCount: wc, Power: power, Difference: diff}, nil
}

// Words returns the whitespace separated words of text after Clean.
func Words(text string) []string {
	return strings.FieldsFunc(Clean(text), isSpace)
}

// Clean drops every rune that is neither a word character nor whitespace.
func Clean(text string) string {
	return strings.Map(func(r rune) rune {
		if isWord(r) || isSpace(r) {
			return r
		}
		return -1
	}, text)
}

// isWord matches letters, numbers and underscore in any script.
func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isSpace is unicode.IsSpace plus the ASCII information separators
// (U+001C..U+001F), which regex engines and str.split also treat as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
