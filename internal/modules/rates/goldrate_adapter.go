package rates

import (
	"github.com/thiaworld/buyback-go/internal/clients/goldrate"
)

// GoldrateAdapter adapts the goldrate HTTP client to the RateFetcher
// interface used by the normalizer service
type GoldrateAdapter struct {
	client *goldrate.Client
}

// NewGoldrateAdapter creates a new adapter
func NewGoldrateAdapter(client *goldrate.Client) *GoldrateAdapter {
	return &GoldrateAdapter{client: client}
}

// FetchGoldRates fetches and converts the latest gold quote
func (a *GoldrateAdapter) FetchGoldRates() (*GoldFamilyRates, error) {
	quote, err := a.client.FetchGoldRates()
	if err != nil {
		return nil, err
	}

	return &GoldFamilyRates{
		Rate24:         quote.Rate24,
		Rate22:         quote.Rate22,
		Source:         quote.Source,
		EffectiveDate:  quote.EffectiveDate,
		ScaleCorrected: quote.ScaleCorrected,
	}, nil
}

// FetchSilverRates fetches and converts the latest silver quote
func (a *GoldrateAdapter) FetchSilverRates() (*SilverFamilyRates, error) {
	quote, err := a.client.FetchSilverRates()
	if err != nil {
		return nil, err
	}

	return &SilverFamilyRates{
		RatePerGram:   quote.RatePerGram,
		Source:        quote.Source,
		EffectiveDate: quote.EffectiveDate,
	}, nil
}
