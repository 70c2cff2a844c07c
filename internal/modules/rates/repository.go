package rates

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02 15:04:05.000"

// Repository persists accepted rate snapshots (append-only)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new rate snapshot repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "rates").Logger(),
	}
}

// Insert stores one snapshot
func (r *Repository) Insert(snap *RateSnapshot) error {
	query := `
		INSERT INTO rate_snapshots (
			metal, rate_per_gram, source, effective_date, fetched_at, scale_corrected
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(
		query,
		string(snap.Metal),
		snap.RatePerGram,
		snap.Source,
		snap.EffectiveDate.UTC().Format(timeFormat),
		snap.FetchedAt.UTC().Format(timeFormat),
		boolToInt(snap.ScaleCorrected),
	)
	if err != nil {
		return fmt.Errorf("failed to insert rate snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	snap.ID = int(id)

	return nil
}

// GetRecent returns up to limit snapshots for a metal, most recent first
func (r *Repository) GetRecent(metal Metal, limit int) ([]RateSnapshot, error) {
	query := `
		SELECT id, metal, rate_per_gram, source, effective_date, fetched_at, scale_corrected
		FROM rate_snapshots
		WHERE metal = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, string(metal), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []RateSnapshot
	for rows.Next() {
		var snap RateSnapshot
		var metalStr, effectiveDate, fetchedAt string
		var scaleCorrected int

		if err := rows.Scan(
			&snap.ID,
			&metalStr,
			&snap.RatePerGram,
			&snap.Source,
			&effectiveDate,
			&fetchedAt,
			&scaleCorrected,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rate snapshot: %w", err)
		}

		snap.Metal = Metal(metalStr)
		snap.EffectiveDate, _ = time.Parse(timeFormat, effectiveDate)
		snap.FetchedAt, _ = time.Parse(timeFormat, fetchedAt)
		snap.ScaleCorrected = scaleCorrected != 0

		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rate snapshots: %w", err)
	}

	return snapshots, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
