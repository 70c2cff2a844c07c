package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/thiaworld/buyback-go/internal/modules/rates"
)

const timeFormat = "2006-01-02 15:04:05.000"

// Repository persists history records (append-only ledger; records are
// never updated or deleted)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new history repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "history").Logger(),
	}
}

// Insert stores one record
func (r *Repository) Insert(record *Record) error {
	query := `
		INSERT INTO history_records (
			id, type, metal, weight_grams, value, date, disbursement_mode, branch, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var metal *string
	if record.Metal != nil {
		m := string(*record.Metal)
		metal = &m
	}

	_, err := r.db.Exec(
		query,
		record.ID,
		string(record.Type),
		metal,
		record.WeightGrams,
		record.Value,
		record.Date,
		string(record.DisbursementMode),
		record.Branch,
		record.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}

	return nil
}

// ListRecent returns up to limit records, most recent first
func (r *Repository) ListRecent(limit int) ([]Record, error) {
	query := `
		SELECT id, type, metal, weight_grams, value, date, disbursement_mode, branch, created_at
		FROM history_records
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var recType, mode, createdAt string
		var metal *string

		if err := rows.Scan(
			&rec.ID,
			&recType,
			&metal,
			&rec.WeightGrams,
			&rec.Value,
			&rec.Date,
			&mode,
			&rec.Branch,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}

		rec.Type = RecordType(recType)
		rec.DisbursementMode = DisbursementMode(mode)
		if metal != nil {
			m := rates.Metal(*metal)
			rec.Metal = &m
		}
		rec.CreatedAt, _ = time.Parse(timeFormat, createdAt)

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history records: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records
func (r *Repository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM history_records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history records: %w", err)
	}
	return count, nil
}
