package quotelog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS quotes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		quote TEXT NOT NULL,
		word_count INTEGER NOT NULL,
		square TEXT NOT NULL,
		difference TEXT NOT NULL
	);
`

// SQLiteStore keeps the log in a single table ordered by rowid.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. ":memory:" is accepted.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (Table, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, quote, word_count, square, difference
		FROM quotes
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	idx, _ := columnIndex(Header)
	table := Table{}
	for rows.Next() {
		var ts, quote, wc, square, diff string
		if err := rows.Scan(&ts, &quote, &wc, &square, &diff); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		entry, err := parseRow(idx, []string{ts, quote, wc, square, diff})
		if err != nil {
			return nil, err
		}
		table = append(table, entry)
	}
	return table, rows.Err()
}

// Save replaces the table contents in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, table Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quotes`); err != nil {
		return fmt.Errorf("clear quotes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quotes (timestamp, quote, word_count, square, difference)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range table {
		if _, err := stmt.ExecContext(ctx,
			e.Timestamp.Format(TimeLayout),
			e.Quote,
			e.Metrics.WordCount,
			e.Metrics.PowerString(),
			e.Metrics.DifferenceString(),
		); err != nil {
			return fmt.Errorf("insert quote: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
