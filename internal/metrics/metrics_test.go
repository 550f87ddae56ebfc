package metrics

import (
	"errors"
	"math/big"
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		exponent  int
		wantWords int
		wantPower string
		wantDiff  string
	}{
		{"houston", "Houston, we have a problem!", 2, 5, "25", "20"},
		{"empty", "", 2, 0, "0", "0"},
		{"whitespace only", "   \t\n ", 2, 0, "0", "0"},
		{"punctuation only", "?!... -- «»", 2, 0, "0", "0"},
		{"apostrophe joins words", "l'amore non è bello", 2, 4, "16", "12"},
		{"italian quote", "«Houston, abbiamo un problema.» – Apollo 13 (1995)", 2, 7, "49", "42"},
		{"underscore is a word char", "snake_case stays one", 2, 3, "9", "6"},
		{"accented letters", "Ça va? Très bien!", 2, 4, "16", "12"},
		{"cjk", "我 爱 电影", 2, 3, "9", "6"},
		{"unicode spaces", "one two　three four", 2, 4, "16", "12"},
		{"information separators split", "one\x1ctwo\x1fthree", 2, 3, "9", "6"},
		{"exponent one", "a b c", 1, 3, "3", "0"},
		{"exponent zero", "a b c", 0, 3, "1", "-2"},
		{"exponent zero on empty", "", 0, 0, "1", "1"},
		{"slider max", "one two three four five", 10, 5, "9765625", "9765620"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compute(tt.text, tt.exponent)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if m.WordCount != tt.wantWords {
				t.Errorf("WordCount = %d, want %d", m.WordCount, tt.wantWords)
			}
			if got := m.PowerString(); got != tt.wantPower {
				t.Errorf("Power = %s, want %s", got, tt.wantPower)
			}
			if got := m.DifferenceString(); got != tt.wantDiff {
				t.Errorf("Difference = %s, want %s", got, tt.wantDiff)
			}
		})
	}
}

func TestCompute_LargeValuesAreExact(t *testing.T) {
	text := ""
	for i := 0; i < 100; i++ {
		text += "word "
	}

	m, err := Compute(text, 10)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	// 100^10 = 1e20 overflows int64
	want, _ := new(big.Int).SetString("100000000000000000000", 10)
	if m.Power.Cmp(want) != 0 {
		t.Errorf("Power = %s, want %s", m.Power, want)
	}
	wantDiff, _ := new(big.Int).SetString("99999999999999999900", 10)
	if m.Difference.Cmp(wantDiff) != 0 {
		t.Errorf("Difference = %s, want %s", m.Difference, wantDiff)
	}
}

func TestCompute_NegativeExponent(t *testing.T) {
	_, err := Compute("a b", -1)
	if !errors.Is(err, ErrNegativeExponent) {
		t.Errorf("expected ErrNegativeExponent, got %v", err)
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Houston, we have a problem!", "Houston we have a problem"},
		{"  keep  spacing  ", "  keep  spacing  "},
		{"e-mail: a@b.c", "email abc"},
		{"½ pint", "½ pint"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMetrics_ZeroAndEqual(t *testing.T) {
	var empty Metrics
	if empty.PowerString() != "0" || empty.DifferenceString() != "0" {
		t.Errorf("nil big ints should print as 0")
	}
	if !Zero().Equal(empty) {
		t.Errorf("Zero() should equal the zero value")
	}

	a, _ := Compute("one two", 2)
	b, _ := Compute("three four", 2)
	if !a.Equal(b) {
		t.Errorf("metrics of equal word counts should be equal")
	}
	c, _ := Compute("one two three", 2)
	if a.Equal(c) {
		t.Errorf("metrics of different word counts should differ")
	}
}
