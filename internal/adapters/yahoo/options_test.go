package yahoo_test

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alejandrodnm/polyfair/internal/adapters/yahoo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOptionsServer(t *testing.T) *httptest.Server {
	t.Helper()
	data, err := os.ReadFile("../../../testdata/fixtures/yahoo_options.json")
	require.NoError(t, err)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
}

func TestOptionExpiries(t *testing.T) {
	srv := newOptionsServer(t)
	defer srv.Close()

	client := yahoo.New(srv.URL)
	expiries, err := client.OptionExpiries(context.Background(), "SPY")
	require.NoError(t, err)

	require.Len(t, expiries, 2)
	assert.Equal(t, time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC), expiries[0])
	assert.Equal(t, time.Date(2025, 12, 19, 0, 0, 0, 0, time.UTC), expiries[1])
}

func TestOptionExpiries_NoneListed(t *testing.T) {
	fixture := `{"optionChain": {"result": [{
		"underlyingSymbol": "XYZ", "expirationDates": [], "quote": {}, "options": []
	}], "error": null}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	client := yahoo.New(srv.URL)
	_, err := client.OptionExpiries(context.Background(), "XYZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no option expiries available")
}

func TestOptionChain_NormalizesIVs(t *testing.T) {
	data, err := os.ReadFile("../../../testdata/fixtures/yahoo_options.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1758240000", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	client := yahoo.New(srv.URL)
	expiry := time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC)
	chain, err := client.OptionChain(context.Background(), "SPY", expiry)
	require.NoError(t, err)

	assert.Equal(t, expiry, chain.Expiry)
	require.Len(t, chain.Calls, 5)
	require.Len(t, chain.Puts, 2)

	// Ordenadas por strike ascendente
	assert.InDelta(t, 640.0, chain.Calls[0].Strike, 1e-9)
	assert.InDelta(t, 660.0, chain.Calls[4].Strike, 1e-9)

	// IV decimal normal se conserva tal cual
	assert.InDelta(t, 0.1621, chain.Calls[0].IV, 1e-9)

	// IV en forma porcentual (15.62) se normaliza a decimal
	assert.InDelta(t, 0.1562, chain.Calls[1].IV, 1e-9)

	// El placeholder 1e-05 de Yahoo se trata como IV faltante
	assert.True(t, math.IsNaN(chain.Calls[3].IV), "placeholder IV debe quedar NaN")

	// Contrato sin campo impliedVolatility → NaN
	assert.True(t, math.IsNaN(chain.Calls[4].IV))

	// Los demás campos del contrato se mapean
	assert.InDelta(t, 12.35, chain.Calls[0].Bid, 1e-9)
	assert.InDelta(t, 12.5, chain.Calls[0].Ask, 1e-9)
	assert.InDelta(t, 12.4, chain.Calls[0].Last, 1e-9)
	assert.InDelta(t, 30654, chain.Calls[0].OpenInterest, 1e-9)
}

func TestOptionChain_ExpiryMismatch(t *testing.T) {
	srv := newOptionsServer(t)
	defer srv.Close()

	client := yahoo.New(srv.URL)

	// Yahoo devuelve la cadena más cercana ante fechas no listadas;
	// eso debe reportarse como error, no repreciar con otro vencimiento
	_, err := client.OptionChain(context.Background(), "SPY", time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expiry 2025-09-20 not available")
	assert.Contains(t, err.Error(), "nearest listed: 2025-09-19")
}
