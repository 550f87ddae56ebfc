package tui

import (
	"math/big"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/leonardotrapani/quotevoice/internal/metrics"
	"github.com/leonardotrapani/quotevoice/internal/quotelog"
	"github.com/leonardotrapani/quotevoice/internal/session"
)

func TestShortNumber(t *testing.T) {
	long := strings.Repeat("9", 30)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"small", "25", "25"},
		{"at limit", strings.Repeat("1", maxNumberWidth), strings.Repeat("1", maxNumberWidth)},
		{"long", long, "999999999999… (30 digits)"},
		{"negative long", "-" + long, "-999999999999… (30 digits)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shortNumber(tt.in); got != tt.want {
				t.Errorf("shortNumber(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("a  b\nc", 10); got != "a b c" {
		t.Errorf("whitespace not collapsed: %q", got)
	}

	got := truncate(strings.Repeat("è", 60), 20)
	if utf8.RuneCountInString(got) != 20 || !strings.HasSuffix(got, "…") {
		t.Errorf("unexpected truncation: %q", got)
	}
}

func TestLogView(t *testing.T) {
	if got := LogView(nil); !strings.Contains(got, "No quotes saved yet") {
		t.Errorf("empty log should show a hint, got %q", got)
	}

	m, err := metrics.Compute("Houston, we have a problem!", 2)
	if err != nil {
		t.Fatal(err)
	}
	table := quotelog.Table{
		{Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local), Quote: "Houston, we have a problem!", Metrics: m},
	}

	got := LogView(table)
	for _, want := range []string{"timestamp", "square", "2024-05-01 10:00:00", "Houston, we have a problem!", "25", "20"} {
		if !strings.Contains(got, want) {
			t.Errorf("log view missing %q:\n%s", want, got)
		}
	}
}

func TestMetricsView(t *testing.T) {
	m := metrics.Metrics{WordCount: 4, Power: big.NewInt(64), Difference: big.NewInt(60)}

	got := MetricsView(m, 3)
	for _, want := range []string{"Words", "4", "Power (words^3)", "64", "Difference", "60"} {
		if !strings.Contains(got, want) {
			t.Errorf("metrics view missing %q:\n%s", want, got)
		}
	}
}

func TestExponentOptions(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi int
		want   []int
	}{
		{"range", 1, 4, []int{1, 2, 3, 4}},
		{"single", 3, 3, []int{3}},
		{"inverted", 5, 2, []int{5}},
		{"negative low", -2, 1, []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := exponentOptions(tt.lo, tt.hi)
			if len(opts) != len(tt.want) {
				t.Fatalf("got %d options, want %d", len(opts), len(tt.want))
			}
			for i, o := range opts {
				if o.Value != tt.want[i] {
					t.Errorf("option %d = %d, want %d", i, o.Value, tt.want[i])
				}
			}
		})
	}

	for _, o := range exponentOptions(1, 3) {
		if o.Value == 2 && !strings.Contains(o.Key, "square") {
			t.Errorf("exponent 2 should be labelled square, got %q", o.Key)
		}
	}
}

func TestClampExponent(t *testing.T) {
	tests := []struct{ e, lo, hi, want int }{
		{2, 1, 10, 2},
		{0, 1, 10, 1},
		{12, 1, 10, 10},
	}
	for _, tt := range tests {
		if got := clampExponent(tt.e, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clampExponent(%d, %d, %d) = %d, want %d", tt.e, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestStatusLine(t *testing.T) {
	st := session.New()
	if got := statusLine(st); !strings.Contains(got, "No recording") {
		t.Errorf("idle status = %q", got)
	}

	st.AudioPayload = []byte("take")
	if got := statusLine(st); !strings.Contains(got, "Recording ready (4 bytes)") {
		t.Errorf("ready status = %q", got)
	}

	st.LastAudioFingerprint = session.Fingerprint(st.AudioPayload)
	if got := statusLine(st); !strings.Contains(got, "already transcribed") {
		t.Errorf("processed status = %q", got)
	}
}

func TestBannerDrain(t *testing.T) {
	b := &banner{}
	if got := b.drain(); got != "" {
		t.Errorf("empty banner = %q", got)
	}

	b.Notify("Quotevoice", "Quote saved to the log")
	b.Error("Could not save the quote log")

	got := b.drain()
	if !strings.Contains(got, "Quote saved to the log") || !strings.Contains(got, "Could not save the quote log") {
		t.Errorf("banner missing lines: %q", got)
	}
	if b.drain() != "" {
		t.Error("drain should clear the banner")
	}
}
