package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thiaworld/buyback-go/internal/events"
	"github.com/thiaworld/buyback-go/internal/modules/valuation"
)

// ErrNoValuation is returned when a value-bearing action is recorded
// without an active estimate
var ErrNoValuation = errors.New("no estimate to record, calculate first")

// ConfirmedFunc is invoked after a record is stored. The backend-submission
// layer hooks in here once its own call has succeeded.
type ConfirmedFunc func(Record)

// Recorder converts confirmed user actions into ledger records
type Recorder struct {
	repo        *Repository
	events      *events.Manager
	onConfirmed ConfirmedFunc
	now         func() time.Time
	log         zerolog.Logger
}

// NewRecorder creates a new recorder. onConfirmed may be nil.
func NewRecorder(repo *Repository, eventManager *events.Manager, onConfirmed ConfirmedFunc, log zerolog.Logger) *Recorder {
	return &Recorder{
		repo:        repo,
		events:      eventManager,
		onConfirmed: onConfirmed,
		now:         time.Now,
		log:         log.With().Str("service", "recorder").Logger(),
	}
}

// RecordBuyback records a confirmed wallet credit or bank transfer for the
// given estimate. The estimate is required: buybacks always carry a value.
func (r *Recorder) RecordBuyback(result *valuation.Result, mode DisbursementMode) (*Record, error) {
	if result == nil {
		return nil, ErrNoValuation
	}

	if mode != ModeWallet && mode != ModeBankTransfer {
		return nil, fmt.Errorf("invalid disbursement mode for buyback: %q", mode)
	}

	now := r.now()
	metal := result.Metal
	weight := result.WeightGrams
	value := result.FinalValue

	record := &Record{
		ID:               uuid.New().String(),
		Type:             TypeBuyback,
		Metal:            &metal,
		WeightGrams:      &weight,
		Value:            &value,
		Date:             now.Format("2006-01-02"),
		DisbursementMode: mode,
		CreatedAt:        now,
	}

	if err := r.repo.Insert(record); err != nil {
		return nil, fmt.Errorf("failed to record buyback: %w", err)
	}

	r.log.Info().
		Str("id", record.ID).
		Str("metal", string(metal)).
		Float64("value", value).
		Str("mode", string(mode)).
		Msg("Buyback recorded")

	r.events.Emit(events.BuybackRecorded, "history", map[string]interface{}{
		"id":    record.ID,
		"metal": string(metal),
		"value": value,
		"mode":  string(mode),
	})

	if r.onConfirmed != nil {
		r.onConfirmed(*record)
	}

	return record, nil
}

// RecordBooking records a confirmed store visit or pickup booking.
// Metal, weight and value are deliberately absent.
func (r *Recorder) RecordBooking(branch string, date time.Time, pickup bool) (*Record, error) {
	if branch == "" {
		return nil, fmt.Errorf("branch is required for a booking")
	}

	recordType := TypeStoreVisit
	mode := ModeVisit
	if pickup {
		recordType = TypePickupBooking
		mode = ModePickup
	}

	record := &Record{
		ID:               uuid.New().String(),
		Type:             recordType,
		Date:             date.Format("2006-01-02"),
		DisbursementMode: mode,
		Branch:           &branch,
		CreatedAt:        r.now(),
	}

	if err := r.repo.Insert(record); err != nil {
		return nil, fmt.Errorf("failed to record booking: %w", err)
	}

	r.log.Info().
		Str("id", record.ID).
		Str("type", string(recordType)).
		Str("branch", branch).
		Str("date", record.Date).
		Msg("Booking recorded")

	r.events.Emit(events.BookingRecorded, "history", map[string]interface{}{
		"id":     record.ID,
		"type":   string(recordType),
		"branch": branch,
		"date":   record.Date,
	})

	if r.onConfirmed != nil {
		r.onConfirmed(*record)
	}

	return record, nil
}
