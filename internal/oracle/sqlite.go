package oracle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"spottheai/internal/core"
	"spottheai/internal/store"
	"spottheai/pkg/fuzzy"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS blocked_artists (
	artist_key TEXT PRIMARY KEY,
	artist     TEXT NOT NULL,
	source     TEXT NOT NULL,
	added_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteOracle answers from a blocked_artists table.
type SQLiteOracle struct {
	db         *sql.DB
	normalizer *fuzzy.Normalizer
}

// OpenSQLite opens (and creates if needed) the blacklist database at path.
func OpenSQLite(path string) (*SQLiteOracle, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open blacklist db: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate blacklist db: %w", err)
	}

	return &SQLiteOracle{db: db, normalizer: fuzzy.NewNormalizer()}, nil
}

// Close closes the database.
func (o *SQLiteOracle) Close() error {
	return o.db.Close()
}

// CheckArtist looks up the full credit first, then the primary artist.
func (o *SQLiteOracle) CheckArtist(ctx context.Context, artist string) (core.Verdict, error) {
	for _, key := range o.normalizer.ArtistKeys(artist) {
		var source string
		err := o.db.QueryRowContext(ctx,
			`SELECT source FROM blocked_artists WHERE artist_key = ?`, key).Scan(&source)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return core.Verdict{}, fmt.Errorf("%w: query blacklist db: %w", core.ErrOracleUnavailable, err)
		}
		return core.Verdict{Blocked: true, Source: source}, nil
	}
	return core.Verdict{}, nil
}

// Import inserts every artist of lists, keeping existing rows. It returns the
// number of rows added.
func (o *SQLiteOracle) Import(ctx context.Context, lists ...RuleList) (int, error) {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO blocked_artists (artist_key, artist, source) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, list := range lists {
		for _, artist := range list.Artists {
			key := o.normalizer.NormalizeArtist(artist)
			if key == "" {
				continue
			}
			res, err := stmt.ExecContext(ctx, key, artist, list.Source)
			if err != nil {
				return 0, fmt.Errorf("insert %q: %w", artist, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				added += int(n)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return added, nil
}

// Remove deletes artist from the table.
func (o *SQLiteOracle) Remove(ctx context.Context, artist string) error {
	_, err := o.db.ExecContext(ctx,
		`DELETE FROM blocked_artists WHERE artist_key = ?`, o.normalizer.NormalizeArtist(artist))
	return err
}

// Count returns the number of blocked artists.
func (o *SQLiteOracle) Count(ctx context.Context) (int, error) {
	var n int
	if err := o.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blocked_artists`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// LoadInto copies every row into blacklist.
func (o *SQLiteOracle) LoadInto(ctx context.Context, blacklist *store.Blacklist) error {
	rows, err := o.db.QueryContext(ctx, `SELECT artist_key, source FROM blocked_artists`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var entries []store.Entry
	for rows.Next() {
		var entry store.Entry
		if err := rows.Scan(&entry.Key, &entry.Source); err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	blacklist.Load(entries)
	return nil
}
