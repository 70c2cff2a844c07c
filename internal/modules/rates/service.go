package rates

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/thiaworld/buyback-go/internal/events"
)

// RateFetcher is implemented by the goldrate client
type RateFetcher interface {
	FetchGoldRates() (*GoldFamilyRates, error)
	FetchSilverRates() (*SilverFamilyRates, error)
}

// GoldFamilyRates mirrors the reconciled gold quote from the upstream client
type GoldFamilyRates struct {
	Rate24         float64
	Rate22         float64
	Source         string
	EffectiveDate  time.Time
	ScaleCorrected bool
}

// SilverFamilyRates mirrors the reconciled silver quote
type SilverFamilyRates struct {
	RatePerGram   float64
	Source        string
	EffectiveDate time.Time
}

// Service is the rate normalizer: it refreshes the cache from upstream and
// persists accepted snapshots. All upstream failures are absorbed here -
// the cache keeps its last-known-good values and only a stale flag surfaces.
type Service struct {
	fetcher RateFetcher
	cache   *Cache
	repo    *Repository
	events  *events.Manager
	log     zerolog.Logger
}

// NewService creates a new rate normalizer service. repo may be nil when
// snapshot persistence is not wanted (tests).
func NewService(fetcher RateFetcher, cache *Cache, repo *Repository, eventManager *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		repo:    repo,
		events:  eventManager,
		log:     log.With().Str("service", "rates").Logger(),
	}
}

// Cache returns the cache this service maintains
func (s *Service) Cache() *Cache {
	return s.cache
}

// Refresh fetches both metal families and updates the cache. It never
// returns an error: per-metal failures retain the previous cached value,
// and a total failure only marks the cache stale.
func (s *Service) Refresh() error {
	s.cache.SetLoading(true)
	defer s.cache.SetLoading(false)

	s.events.Emit(events.RateRefreshStart, "rates", map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
	})

	goldOK := s.refreshGold()
	silverOK := s.refreshSilver()

	s.cache.SetStale(!goldOK && !silverOK)

	if !goldOK && !silverOK {
		s.events.Emit(events.RateFetchDegraded, "rates", map[string]interface{}{
			"detail": "all endpoints failed for both metal families",
		})
		s.log.Warn().Msg("Rate refresh degraded, serving last-known-good values")
		return nil
	}

	s.events.Emit(events.RateRefreshComplete, "rates", map[string]interface{}{
		"gold_ok":   goldOK,
		"silver_ok": silverOK,
	})

	return nil
}

// refreshGold updates the gold24 and gold22 entries. Returns false when the
// fetch itself failed; individual missing figures are skipped silently so a
// payload with only a 22K figure still updates 22K.
func (s *Service) refreshGold() bool {
	quote, err := s.fetcher.FetchGoldRates()
	if err != nil {
		s.log.Warn().Err(err).Msg("Gold rate fetch failed, keeping cached values")
		return false
	}

	fetchedAt := time.Now()

	if quote.ScaleCorrected {
		s.events.Emit(events.RateScaleCorrected, "rates", map[string]interface{}{
			"source":         quote.Source,
			"effective_date": quote.EffectiveDate.Format(time.RFC3339),
		})
	}

	s.applySnapshot(RateSnapshot{
		Metal:          MetalGold24,
		RatePerGram:    quote.Rate24,
		Source:         quote.Source,
		EffectiveDate:  quote.EffectiveDate,
		FetchedAt:      fetchedAt,
		ScaleCorrected: quote.ScaleCorrected,
	})
	s.applySnapshot(RateSnapshot{
		Metal:          MetalGold22,
		RatePerGram:    quote.Rate22,
		Source:         quote.Source,
		EffectiveDate:  quote.EffectiveDate,
		FetchedAt:      fetchedAt,
		ScaleCorrected: quote.ScaleCorrected,
	})

	return true
}

func (s *Service) refreshSilver() bool {
	quote, err := s.fetcher.FetchSilverRates()
	if err != nil {
		s.log.Warn().Err(err).Msg("Silver rate fetch failed, keeping cached value")
		return false
	}

	s.applySnapshot(RateSnapshot{
		Metal:         MetalSilver,
		RatePerGram:   quote.RatePerGram,
		Source:        quote.Source,
		EffectiveDate: quote.EffectiveDate,
		FetchedAt:     time.Now(),
	})

	return true
}

// applySnapshot writes one snapshot through the cache's recency gate and
// persists it when accepted. Non-positive rates never reach the cache.
func (s *Service) applySnapshot(snap RateSnapshot) {
	if snap.RatePerGram <= 0 {
		s.log.Debug().
			Str("metal", string(snap.Metal)).
			Msg("Rate absent or non-positive, retaining previous value")
		return
	}

	if !s.cache.Put(snap) {
		s.log.Debug().
			Str("metal", string(snap.Metal)).
			Time("effective_date", snap.EffectiveDate).
			Msg("Snapshot older than cached entry, discarded")
		return
	}

	s.log.Info().
		Str("metal", string(snap.Metal)).
		Float64("rate_per_gram", snap.RatePerGram).
		Str("source", snap.Source).
		Bool("scale_corrected", snap.ScaleCorrected).
		Msg("Rate updated")

	if s.repo != nil {
		if err := s.repo.Insert(&snap); err != nil {
			s.log.Error().Err(err).Str("metal", string(snap.Metal)).Msg("Failed to persist rate snapshot")
		}
	}
}
