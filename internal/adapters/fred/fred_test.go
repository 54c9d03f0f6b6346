package fred_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alejandrodnm/polyfair/internal/adapters/fred"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *httptest.Server) *fred.Client {
	t.Helper()
	client, err := fred.New("test-key", srv.URL)
	require.NoError(t, err)
	return client
}

func TestNew_MissingAPIKey(t *testing.T) {
	t.Setenv("FRED_API_KEY", "")
	_, err := fred.New("", "")
	assert.ErrorIs(t, err, fred.ErrMissingAPIKey)
}

func TestNew_KeyFromEnv(t *testing.T) {
	t.Setenv("FRED_API_KEY", "env-key")
	_, err := fred.New("", "")
	assert.NoError(t, err)
}

func TestLatestObservation_SkipsMissingValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/observations", r.URL.Path)
		assert.Equal(t, "DGS10", r.URL.Query().Get("series_id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "json", r.URL.Query().Get("file_type"))
		assert.Equal(t, "desc", r.URL.Query().Get("sort_order"))

		// La fila más reciente es un día sin publicación (".")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"observations": [
				{"date": "2025-08-24", "value": "."},
				{"date": "2025-08-22", "value": "4.26"},
				{"date": "2025-08-21", "value": "4.31"}
			]
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	obs, err := client.LatestObservation(context.Background(), "DGS10")
	require.NoError(t, err)

	assert.Equal(t, "DGS10", obs.SeriesID)
	assert.InDelta(t, 4.26, obs.Value, 1e-9)
	assert.Equal(t, time.Date(2025, 8, 22, 0, 0, 0, 0, time.UTC), obs.Date)
}

func TestLatestObservation_AllMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"observations": [{"date": "2025-08-24", "value": "."}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.LatestObservation(context.Background(), "DGS10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all missing")
}

func TestLatestObservation_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"observations": []}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.LatestObservation(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no observations found")
}

func TestLatestObservation_InvalidSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.LatestObservation(context.Background(), "BOGUS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid series id")
}

func TestSeriesInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"seriess": [{
				"id": "DGS10",
				"title": "Market Yield on U.S. Treasury Securities at 10-Year Constant Maturity",
				"frequency": "Daily",
				"units": "Percent",
				"last_updated": "2025-08-22 16:21:03-05",
				"popularity": 99
			}]
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	info, err := client.SeriesInfo(context.Background(), "DGS10")
	require.NoError(t, err)

	assert.Equal(t, "DGS10", info.ID)
	assert.Equal(t, "Daily", info.Frequency)
	assert.Equal(t, "Percent", info.Units)
	assert.Equal(t, 99, info.Popularity)
}

func TestSeriesInfo_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"seriess": []}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.SeriesInfo(context.Background(), "GHOST")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "series GHOST not found")
}

func TestSearchSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/search", r.URL.Path)
		assert.Equal(t, "treasury", r.URL.Query().Get("search_text"))
		assert.Equal(t, "popularity", r.URL.Query().Get("order_by"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"seriess": [
				{"id": "DGS10", "title": "10-Year Treasury", "popularity": 99},
				{"id": "DGS2", "title": "2-Year Treasury", "popularity": 90}
			]
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	series, err := client.SearchSeries(context.Background(), "treasury", 3)
	require.NoError(t, err)

	require.Len(t, series, 2)
	assert.Equal(t, "DGS10", series[0].ID)
	assert.Equal(t, "DGS2", series[1].ID)
}
