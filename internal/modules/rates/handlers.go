package rates

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/thiaworld/buyback-go/pkg/formulas"
)

// Handler handles rate HTTP requests
type Handler struct {
	service *Service
	repo    *Repository
	log     zerolog.Logger
}

// NewHandler creates a new rates handler
func NewHandler(service *Service, repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		repo:    repo,
		log:     log.With().Str("handler", "rates").Logger(),
	}
}

// HandleGetRates handles GET / - current canonical per-gram rates
func (h *Handler) HandleGetRates(w http.ResponseWriter, r *http.Request) {
	cache := h.service.Cache()

	ratesOut := make(map[string]interface{}, len(AllMetals))
	for _, snap := range cache.All() {
		ratesOut[string(snap.Metal)] = map[string]interface{}{
			"label":           snap.Metal.Label(),
			"rate_per_gram":   snap.RatePerGram,
			"source":          snap.Source,
			"effective_date":  nullableTime(snap.EffectiveDate),
			"scale_corrected": snap.ScaleCorrected,
			"purity_preset":   snap.Metal.DefaultPurity(),
		}
	}

	response := map[string]interface{}{
		"rates":        ratesOut,
		"last_updated": nullableTime(cache.LastUpdated()),
		"loading":      cache.Loading(),
		"stale":        cache.Stale(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleRefresh handles POST /refresh - on-demand refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(); err != nil {
		h.log.Error().Err(err).Msg("Manual refresh failed")
		http.Error(w, "Failed to refresh rates", http.StatusInternalServerError)
		return
	}

	h.HandleGetRates(w, r)
}

// HandleGetHistory handles GET /history?metal=&limit= - persisted snapshots
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	metal, ok := parseMetal(w, r)
	if !ok {
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 || l > 1000 {
			http.Error(w, "Invalid limit. Must be 1-1000", http.StatusBadRequest)
			return
		}
		limit = l
	}

	snapshots, err := h.repo.GetRecent(metal, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get rate history")
		http.Error(w, "Failed to retrieve rate history", http.StatusInternalServerError)
		return
	}

	if snapshots == nil {
		snapshots = []RateSnapshot{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshots)
}

// HandleGetStats handles GET /stats?metal=&limit= - movement statistics over
// the persisted snapshot history
func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	metal, ok := parseMetal(w, r)
	if !ok {
		return
	}

	limit := 30
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 2 || l > 1000 {
			http.Error(w, "Invalid limit. Must be 2-1000", http.StatusBadRequest)
			return
		}
		limit = l
	}

	snapshots, err := h.repo.GetRecent(metal, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get snapshots for stats")
		http.Error(w, "Failed to compute rate statistics", http.StatusInternalServerError)
		return
	}

	if len(snapshots) == 0 {
		http.Error(w, "No rate history recorded for "+string(metal), http.StatusNotFound)
		return
	}

	// GetRecent returns most-recent-first; stats helpers want chronological
	values := make([]float64, len(snapshots))
	for i, snap := range snapshots {
		values[len(snapshots)-1-i] = snap.RatePerGram
	}

	stats := Stats{
		Metal:   metal,
		Latest:  values[len(values)-1],
		Mean:    formulas.Mean(values),
		StdDev:  formulas.StdDev(values),
		Samples: len(values),
	}

	if len(values) >= 2 {
		previous := values[len(values)-2]
		change := stats.Latest - previous
		stats.Previous = &previous
		stats.ChangeAmount = &change
		if previous != 0 {
			pct := change / previous * 100
			stats.ChangePercent = &pct
		}
	}

	if sma := formulas.SMA(values, 7); sma != nil {
		stats.SMA7 = sma
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func parseMetal(w http.ResponseWriter, r *http.Request) (Metal, bool) {
	metal := Metal(r.URL.Query().Get("metal"))
	if !metal.Valid() {
		http.Error(w, "Invalid metal. Use gold24, gold22 or silver", http.StatusBadRequest)
		return "", false
	}
	return metal, true
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
