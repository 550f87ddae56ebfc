package quotelog

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/leonardotrapani/quotevoice/internal/metrics"
)

func sampleTable(t *testing.T) Table {
	t.Helper()

	quotes := []struct {
		text     string
		exponent int
	}{
		{"Houston, we have a problem!", 2},
		{"Francamente, me ne infischio.", 3},
		{"", 2},
		{"Che la Forza sia con te", 10},
		{"uno due tre quattro cinque sei sette otto nove dieci undici dodici tredici quattordici quindici sedici diciassette diciotto diciannove venti", 10},
	}

	base := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	table := make(Table, 0, len(quotes))
	for i, q := range quotes {
		m, err := metrics.Compute(q.text, q.exponent)
		require.NoError(t, err)
		table = append(table, Entry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Quote:     q.text,
			Metrics:   m,
		})
	}
	return table
}

func assertSameTable(t *testing.T, want, got Table) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp), "row %d timestamp: %v != %v", i, want[i].Timestamp, got[i].Timestamp)
		assert.Equal(t, want[i].Quote, got[i].Quote, "row %d quote", i)
		assert.True(t, want[i].Metrics.Equal(got[i].Metrics), "row %d metrics: %+v != %+v", i, want[i].Metrics, got[i].Metrics)
	}
}

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	xlsx, err := Open(BackendXLSX, filepath.Join(dir, "quotes.xlsx"))
	require.NoError(t, err)
	sqlite, err := Open(BackendSQLite, filepath.Join(dir, "quotes.db"))
	require.NoError(t, err)
	mem, err := OpenSQLite(":memory:")
	require.NoError(t, err)

	stores := map[string]Store{"xlsx": xlsx, "sqlite": sqlite, "sqlite-memory": mem}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStore_RoundTripPreservesOrderAndMetrics(t *testing.T) {
	ctx := context.Background()
	want := sampleTable(t)

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, want))

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assertSameTable(t, want, got)
		})
	}
}

func TestStore_AppendOneAtATime(t *testing.T) {
	ctx := context.Background()
	want := sampleTable(t)

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			for _, e := range want {
				require.NoError(t, Append(ctx, store, e))
			}
			assertSameTable(t, want, LoadOrEmpty(ctx, store))
		})
	}
}

func TestStore_EmptyWhenMissing(t *testing.T) {
	ctx := context.Background()

	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			table, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, table)
		})
	}
}

func TestLoadOrEmpty_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0644))

	store := NewXLSXStore(path)
	_, err := store.Load(context.Background())
	require.Error(t, err)

	table := LoadOrEmpty(context.Background(), store)
	assert.NotNil(t, table)
	assert.Empty(t, table)
}

func TestAppend_OverwritesCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quotes.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	store := NewXLSXStore(path)
	entry := sampleTable(t)[0]
	require.NoError(t, Append(ctx, store, entry))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assertSameTable(t, Table{entry}, got)
}

func TestXLSXStore_AcceptsPowerHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"timestamp", "quote", "word_count", "power", "difference"},
		{"2024-01-02 10:00:00", "Houston, we have a problem!", 5, 25, 20},
		{"2024-01-02 10:01:00", "Ciao", 1, 1.0, 0},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := NewXLSXStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, table, 2)

	assert.Equal(t, 5, table[0].Metrics.WordCount)
	assert.Equal(t, "25", table[0].Metrics.PowerString())
	assert.Equal(t, "20", table[0].Metrics.DifferenceString())
	assert.Equal(t, "1", table[1].Metrics.PowerString())
}

func TestXLSXStore_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.xlsx")

	f := excelize.NewFile()
	row := []interface{}{"timestamp", "quote"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &row))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := NewXLSXStore(path).Load(context.Background())
	assert.ErrorContains(t, err, "missing column")
}

func TestXLSXStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewXLSXStore(filepath.Join(dir, "quotes.xlsx"))
	require.NoError(t, store.Save(context.Background(), sampleTable(t)))

	matches, err := filepath.Glob(filepath.Join(dir, ".quotes-*.xlsx"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestXLSXStore_RejectsTextACellCannotHold(t *testing.T) {
	tests := []struct {
		name  string
		quote string
	}{
		{"over cell limit", strings.Repeat("ab ", 13334)},
		{"control character", "bell\x07here"},
		{"nul", "a\x00b"},
		{"invalid utf8", "caf\xe9"},
		{"noncharacter", "x\uFFFEy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewXLSXStore(filepath.Join(t.TempDir(), "quotes.xlsx"))
			before := sampleTable(t)
			require.NoError(t, store.Save(ctx, before))

			m, err := metrics.Compute(tt.quote, 2)
			require.NoError(t, err)
			table := append(sampleTable(t), Entry{Timestamp: time.Now().Truncate(time.Second), Quote: tt.quote, Metrics: m})

			err = store.Save(ctx, table)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCellValue), "got %v", err)

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assertSameTable(t, before, got)
		})
	}
}

func TestXLSXStore_KeepsUnusualButValidText(t *testing.T) {
	ctx := context.Background()
	store := NewXLSXStore(filepath.Join(t.TempDir(), "quotes.xlsx"))

	quotes := []string{
		"tab\there\nand a newline",
		"replacement \uFFFD char",
		"emoji 🎙 and accents àèìòù",
		strings.Repeat("x", excelize.TotalCellChars),
	}
	var table Table
	for i, q := range quotes {
		m, err := metrics.Compute(q, 2)
		require.NoError(t, err)
		table = append(table, Entry{Timestamp: time.Date(2024, 3, 1, 9, i, 0, 0, time.Local), Quote: q, Metrics: m})
	}

	require.NoError(t, store.Save(ctx, table))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assertSameTable(t, table, got)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("csv", filepath.Join(t.TempDir(), "quotes.csv"))
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	p, err := DefaultPath(BackendXLSX)
	require.NoError(t, err)
	assert.Equal(t, "/data/quotevoice/quotes.xlsx", p)

	p, err = DefaultPath(BackendSQLite)
	require.NoError(t, err)
	assert.Equal(t, "/data/quotevoice/quotes.db", p)
}

func TestCellNumber(t *testing.T) {
	assert.Equal(t, int64(25), cellNumber("25", big.NewInt(25)))
	assert.Equal(t, int64(-4), cellNumber("-4", big.NewInt(-4)))

	huge := new(big.Int).Exp(big.NewInt(20), big.NewInt(20), nil)
	assert.Equal(t, huge.String(), cellNumber(huge.String(), huge))
}

func TestParseBig(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"25", "25", false},
		{"-3", "-3", false},
		{"25.0", "25", false},
		{"104857600000000000000", "104857600000000000000", false},
		{"2.5", "", true},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := parseBig(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
		})
	}
}
