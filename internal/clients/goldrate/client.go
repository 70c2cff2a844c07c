package goldrate

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client fetches metal rate groups from the storefront rate API.
//
// The backend has been deployed under inconsistent path prefixes, so every
// fetch walks an ordered list of candidate endpoints and takes the first one
// that yields a non-empty payload.
type Client struct {
	client         *http.Client
	baseURL        string
	scaleThreshold float64
	log            zerolog.Logger
}

// NewClient creates a new rate API client. scaleThreshold is the per-gram
// rate above which a gold quote is treated as per-10-gram (see Normalize).
func NewClient(baseURL string, scaleThreshold float64, log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		scaleThreshold: scaleThreshold,
		log:            log.With().Str("client", "goldrate").Logger(),
	}
}

// Endpoints returns the candidate URLs for a metal family, in fallback order
func (c *Client) Endpoints(metalType string) []string {
	query := "/goldrate/grouped?metalType=" + metalType
	return []string{
		c.baseURL + query,
		strings.TrimSuffix(c.baseURL, "/api") + query,
		c.baseURL + "/api" + query,
	}
}

// FetchGoldRates returns the most recent gold rate group, normalized to
// per-gram figures
func (c *Client) FetchGoldRates() (*GoldRates, error) {
	group, fetchedAt, err := c.fetchLatestGroup("Gold")
	if err != nil {
		return nil, err
	}

	rate24 := group.Rate24
	rate22 := group.Rate22
	rate18 := group.Rate18

	// Gold is expected per gram. When the 24K figure exceeds the threshold
	// the whole record is assumed to be quoted per 10 grams. Heuristic only,
	// upstream has no unit field.
	scaleCorrected := false
	if rate24 > c.scaleThreshold {
		rate24 /= 10
		rate22 /= 10
		rate18 /= 10
		scaleCorrected = true

		c.log.Warn().
			Float64("rate24_raw", group.Rate24).
			Float64("threshold", c.scaleThreshold).
			Msg("Gold rates above threshold, treating as per 10g")
	}

	return &GoldRates{
		Rate24:         rate24,
		Rate22:         rate22,
		Rate18:         rate18,
		MarketPrice:    group.MarketPrice,
		Source:         sourceOrManual(group.Source),
		EffectiveDate:  parseEffectiveDate(group.EffectiveDate, fetchedAt),
		ScaleCorrected: scaleCorrected,
	}, nil
}

// FetchSilverRates returns the most recent silver rate group. Silver payloads
// use a field-name fallback chain (rate24, ratePerGram, rate) and are always
// quoted per gram, so no scale correction applies.
func (c *Client) FetchSilverRates() (*SilverRates, error) {
	group, fetchedAt, err := c.fetchLatestGroup("Silver")
	if err != nil {
		return nil, err
	}

	rate := group.Rate24
	if rate <= 0 {
		rate = group.RatePerGram
	}
	if rate <= 0 {
		rate = group.Rate
	}

	return &SilverRates{
		RatePerGram:   rate,
		MarketPrice:   group.MarketPrice,
		Source:        sourceOrManual(group.Source),
		EffectiveDate: parseEffectiveDate(group.EffectiveDate, fetchedAt),
	}, nil
}

// fetchLatestGroup walks the candidate endpoints and reconciles the response:
// the record with the most recent effectiveDate wins, the rest are discarded.
func (c *Client) fetchLatestGroup(metalType string) (*RateGroup, time.Time, error) {
	endpoints := c.Endpoints(metalType)

	var groups []RateGroup
	var lastErr error

	for _, endpoint := range endpoints {
		fetched, err := c.fetchGroups(endpoint)
		if err != nil {
			lastErr = err
			c.log.Debug().
				Err(err).
				Str("endpoint", endpoint).
				Str("metal_type", metalType).
				Msg("Endpoint failed, trying next")
			continue
		}
		if len(fetched) == 0 {
			lastErr = fmt.Errorf("empty payload from %s", endpoint)
			continue
		}
		groups = fetched
		break
	}

	fetchedAt := time.Now()

	if len(groups) == 0 {
		if lastErr == nil {
			lastErr = fmt.Errorf("no rate groups returned for %s", metalType)
		}
		return nil, fetchedAt, fmt.Errorf("all endpoints failed for %s: %w", metalType, lastErr)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		di := parseEffectiveDate(groups[i].EffectiveDate, fetchedAt)
		dj := parseEffectiveDate(groups[j].EffectiveDate, fetchedAt)
		return di.After(dj)
	})

	latest := groups[0]

	c.log.Debug().
		Str("metal_type", metalType).
		Str("effective_date", latest.EffectiveDate).
		Str("source", latest.Source).
		Int("discarded", len(groups)-1).
		Msg("Selected latest rate group")

	return &latest, fetchedAt, nil
}

// fetchGroups performs one GET and decodes the rate-group array
func (c *Client) fetchGroups(endpoint string) ([]RateGroup, error) {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rate API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var groups []RateGroup
	if err := json.Unmarshal(body, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return groups, nil
}

// effectiveDateLayouts are the formats the backend has been seen emitting
var effectiveDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseEffectiveDate(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	for _, layout := range effectiveDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return fallback
}

func sourceOrManual(source string) string {
	if source == "" {
		return "Manual"
	}
	return source
}
