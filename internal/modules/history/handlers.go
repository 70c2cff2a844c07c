package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/thiaworld/buyback-go/internal/modules/valuation"
)

// Handler handles history HTTP requests
type Handler struct {
	repo     *Repository
	recorder *Recorder
	lookup   valuation.RateLookup
	branches []string
	log      zerolog.Logger
}

// NewHandler creates a new history handler
func NewHandler(repo *Repository, recorder *Recorder, lookup valuation.RateLookup, branches []string, log zerolog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		recorder: recorder,
		lookup:   lookup,
		branches: branches,
		log:      log.With().Str("handler", "history").Logger(),
	}
}

// HandleList handles GET / - recent records, most recent first
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 || l > 1000 {
			http.Error(w, "Invalid limit. Must be 1-1000", http.StatusBadRequest)
			return
		}
		limit = l
	}

	records, err := h.repo.ListRecent(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list history")
		http.Error(w, "Failed to retrieve history", http.StatusInternalServerError)
		return
	}

	if records == nil {
		records = []Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// buybackRequest carries the estimate inputs plus the chosen disbursement.
// The estimate is recomputed server-side against the current cache, so the
// recorded value always matches a rate the service actually held.
type buybackRequest struct {
	valuation.Request
	Mode DisbursementMode `json:"mode"`
}

// HandleRecordBuyback handles POST /buyback
func (h *Handler) HandleRecordBuyback(w http.ResponseWriter, r *http.Request) {
	var req buybackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := valuation.Calculate(req.Request, h.lookup)
	if err != nil {
		h.writeValuationError(w, err)
		return
	}

	record, err := h.recorder.RecordBuyback(result, req.Mode)
	if err != nil {
		if errors.Is(err, ErrNoValuation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Msg("Failed to record buyback")
		http.Error(w, "Failed to record buyback", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"record":   record,
		"estimate": result,
	})
}

// bookingRequest books a store visit or pickup. Date defaults to three days
// out when omitted.
type bookingRequest struct {
	Branch string `json:"branch"`
	Date   string `json:"date"` // YYYY-MM-DD
	Pickup bool   `json:"pickup"`
}

// HandleRecordBooking handles POST /booking
func (h *Handler) HandleRecordBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if !h.validBranch(req.Branch) {
		http.Error(w, "Unknown branch", http.StatusBadRequest)
		return
	}

	date := time.Now().AddDate(0, 0, 3)
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "Invalid date format. Use YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	record, err := h.recorder.RecordBooking(req.Branch, date, req.Pickup)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to record booking")
		http.Error(w, "Failed to record booking", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(record)
}

func (h *Handler) validBranch(branch string) bool {
	for _, b := range h.branches {
		if b == branch {
			return true
		}
	}
	return false
}

func (h *Handler) writeValuationError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	var validationErr *valuation.ValidationError
	if errors.As(err, &validationErr) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
		return
	}

	var rateErr *valuation.RateUnavailableError
	if errors.As(err, &rateErr) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{
			"error": rateErr.Error(),
			"metal": string(rateErr.Metal),
		})
		return
	}

	h.log.Error().Err(err).Msg("Estimate for buyback failed")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "Failed to calculate estimate",
	})
}
