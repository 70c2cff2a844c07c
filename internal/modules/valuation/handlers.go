package valuation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/thiaworld/buyback-go/pkg/money"
)

// Handler handles valuation HTTP requests
type Handler struct {
	lookup RateLookup
	log    zerolog.Logger
}

// NewHandler creates a new valuation handler
func NewHandler(lookup RateLookup, log zerolog.Logger) *Handler {
	return &Handler{
		lookup: lookup,
		log:    log.With().Str("handler", "valuation").Logger(),
	}
}

// estimateResponse wraps the result with a display-formatted total
type estimateResponse struct {
	*Result
	FinalValueDisplay string `json:"final_value_display"`
}

// HandleEstimate handles POST /estimate
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := Calculate(req, h.lookup)
	if err != nil {
		h.writeCalculateError(w, err)
		return
	}

	if result.WasClamped {
		h.log.Warn().
			Str("metal", string(result.Metal)).
			Float64("gross_value", result.GrossValue).
			Msg("Estimate clamped to zero by deductions")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(estimateResponse{
		Result:            result,
		FinalValueDisplay: money.FormatINR(result.FinalValue),
	})
}

// writeCalculateError maps calculator errors to HTTP responses: validation
// failures are field-targeted 400s, a missing rate is a metal-specific 503.
func (h *Handler) writeCalculateError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
		return
	}

	var rateErr *RateUnavailableError
	if errors.As(err, &rateErr) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{
			"error": rateErr.Error(),
			"metal": string(rateErr.Metal),
		})
		return
	}

	h.log.Error().Err(err).Msg("Estimate failed")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "Failed to calculate estimate",
	})
}
