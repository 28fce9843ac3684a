// Package sqlite implements the bar store: fetched price history cached
// on disk so repeated analyses of the same ticker do not refetch it.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"alpha-enginev1/internal/model"
)

// maxSeriesAge bounds how stale a cached series may be before callers
// should refetch. Enforced on read: older rows are ignored wholesale.
const maxSeriesAge = 24 * time.Hour

// Store is a single-writer SQLite bar cache. WAL mode keeps concurrent
// readers cheap.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if needed) the bar cache at path.
func Open(path string, log *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Single writer; the cache is not a hot path.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	if log == nil {
		log = slog.Default()
	}
	log.Info("bar cache opened", slog.String("path", path))
	return &Store{db: db, log: log}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			ticker    TEXT    NOT NULL,
			timeframe TEXT    NOT NULL,
			ts        INTEGER NOT NULL,
			open      REAL    NOT NULL,
			high      REAL    NOT NULL,
			low       REAL    NOT NULL,
			close     REAL    NOT NULL,
			volume    INTEGER NOT NULL,
			PRIMARY KEY (ticker, timeframe, ts)
		);

		CREATE TABLE IF NOT EXISTS series_meta (
			ticker     TEXT    NOT NULL,
			timeframe  TEXT    NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (ticker, timeframe)
		);
	`)
	return err
}

// SaveSeries upserts all bars of a series plus its fetch timestamp in
// one transaction.
func (s *Store) SaveSeries(series *model.Series) error {
	if series.Empty() {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO bars (ticker, timeframe, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (ticker, timeframe, ts) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume
	`)
	if err != nil {
		return fmt.Errorf("sqlite prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range series.Bars {
		if _, err := stmt.Exec(series.Ticker, string(series.Timeframe),
			b.TS.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("sqlite insert bar: %w", err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO series_meta (ticker, timeframe, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT (ticker, timeframe) DO UPDATE SET fetched_at=excluded.fetched_at
	`, series.Ticker, string(series.Timeframe), time.Now().Unix()); err != nil {
		return fmt.Errorf("sqlite meta: %w", err)
	}

	return tx.Commit()
}

// LoadSeries reads a cached series, oldest bar first. Returns an empty
// series when nothing fresh enough is cached.
func (s *Store) LoadSeries(ticker string, tf model.Timeframe) (*model.Series, error) {
	var fetchedAt int64
	err := s.db.QueryRow(`
		SELECT fetched_at FROM series_meta WHERE ticker = ? AND timeframe = ?
	`, ticker, string(tf)).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return &model.Series{Ticker: ticker, Timeframe: tf}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite meta read: %w", err)
	}
	if time.Since(time.Unix(fetchedAt, 0)) > maxSeriesAge {
		return &model.Series{Ticker: ticker, Timeframe: tf}, nil
	}

	rows, err := s.db.Query(`
		SELECT ts, open, high, low, close, volume
		FROM bars WHERE ticker = ? AND timeframe = ?
		ORDER BY ts ASC
	`, ticker, string(tf))
	if err != nil {
		return nil, fmt.Errorf("sqlite read bars: %w", err)
	}
	defer rows.Close()

	series := &model.Series{Ticker: ticker, Timeframe: tf}
	for rows.Next() {
		var ts int64
		var b model.Bar
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("sqlite scan bar: %w", err)
		}
		b.TS = time.Unix(ts, 0).UTC()
		series.Bars = append(series.Bars, b)
	}
	return series, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
