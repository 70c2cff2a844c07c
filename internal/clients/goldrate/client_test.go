package goldrate

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, 10000, zerolog.Nop())
}

func TestFetchGoldRates_SelectsLatestGroup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Gold", r.URL.Query().Get("metalType"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"rate24": 6400, "rate22": 5900, "rate18": 4800, "source": "Old", "effectiveDate": "2025-08-18T09:00:00Z"},
			{"rate24": 6500, "rate22": 6000, "rate18": 4900, "source": "MMTC", "effectiveDate": "2025-08-20T09:00:00Z"},
			{"rate24": 6450, "rate22": 5950, "rate18": 4850, "source": "Mid", "effectiveDate": "2025-08-19T09:00:00Z"}
		]`))
	}))
	defer ts.Close()

	quote, err := newTestClient(ts.URL).FetchGoldRates()
	require.NoError(t, err)

	assert.Equal(t, 6500.0, quote.Rate24)
	assert.Equal(t, 6000.0, quote.Rate22)
	assert.Equal(t, "MMTC", quote.Source)
	assert.Equal(t, time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC), quote.EffectiveDate)
	assert.False(t, quote.ScaleCorrected)
}

func TestFetchGoldRates_ScaleCorrection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"rate24": 65000, "rate22": 60000, "rate18": 49000, "source": "MMTC", "effectiveDate": "2025-08-20T09:00:00Z"}
		]`))
	}))
	defer ts.Close()

	quote, err := newTestClient(ts.URL).FetchGoldRates()
	require.NoError(t, err)

	// Per-10g quote divided down for all three figures
	assert.Equal(t, 6500.0, quote.Rate24)
	assert.Equal(t, 6000.0, quote.Rate22)
	assert.Equal(t, 4900.0, quote.Rate18)
	assert.True(t, quote.ScaleCorrected)
}

func TestFetchGoldRates_PerGramLeftUnchanged(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"rate24": 6500, "rate22": 6000, "effectiveDate": "2025-08-20T09:00:00Z"}]`))
	}))
	defer ts.Close()

	quote, err := newTestClient(ts.URL).FetchGoldRates()
	require.NoError(t, err)

	assert.Equal(t, 6500.0, quote.Rate24)
	assert.False(t, quote.ScaleCorrected)
}

func TestFetchSilverRates_FieldFallbackChain(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    float64
	}{
		{
			name:    "rate24 field",
			payload: `[{"rate24": 85, "effectiveDate": "2025-08-20T09:00:00Z"}]`,
			want:    85,
		},
		{
			name:    "ratePerGram field",
			payload: `[{"ratePerGram": 86, "effectiveDate": "2025-08-20T09:00:00Z"}]`,
			want:    86,
		},
		{
			name:    "rate field",
			payload: `[{"rate": 87, "effectiveDate": "2025-08-20T09:00:00Z"}]`,
			want:    87,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "Silver", r.URL.Query().Get("metalType"))
				w.Write([]byte(tt.payload))
			}))
			defer ts.Close()

			quote, err := newTestClient(ts.URL).FetchSilverRates()
			require.NoError(t, err)
			assert.Equal(t, tt.want, quote.RatePerGram)
		})
	}
}

func TestFetchGoldRates_EndpointFallback(t *testing.T) {
	var hits []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		// First candidate (/api prefix) is broken on this deployment
		if r.URL.Path == "/api/goldrate/grouped" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Write([]byte(`[{"rate24": 6500, "rate22": 6000, "effectiveDate": "2025-08-20T09:00:00Z"}]`))
	}))
	defer ts.Close()

	quote, err := newTestClient(ts.URL + "/api").FetchGoldRates()
	require.NoError(t, err)

	assert.Equal(t, 6500.0, quote.Rate24)
	require.GreaterOrEqual(t, len(hits), 2)
	assert.Equal(t, "/api/goldrate/grouped", hits[0])
	assert.Equal(t, "/goldrate/grouped", hits[1])
}

func TestFetchGoldRates_AllEndpointsFail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).FetchGoldRates()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all endpoints failed for Gold")
}

func TestFetchGoldRates_EmptyPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).FetchGoldRates()
	require.Error(t, err)
}

func TestFetchSilverRates_MissingSourceDefaultsToManual(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"rate": 85, "effectiveDate": "2025-08-20T09:00:00Z"}]`))
	}))
	defer ts.Close()

	quote, err := newTestClient(ts.URL).FetchSilverRates()
	require.NoError(t, err)
	assert.Equal(t, "Manual", quote.Source)
}

func TestParseEffectiveDate(t *testing.T) {
	fallback := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-08-20T09:00:00Z", time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)},
		{"2025-08-20 09:00:00", time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)},
		{"2025-08-20", time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)},
		{"", fallback},
		{"garbage", fallback},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseEffectiveDate(tt.raw, fallback), "raw=%q", tt.raw)
	}
}
