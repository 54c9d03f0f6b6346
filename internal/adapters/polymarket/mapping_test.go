package polymarket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alejandrodnm/polyfair/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_TokensDictAlignedToOutcomes(t *testing.T) {
	// El dict viene con las claves en otro orden: debe alinearse por label
	fixture := `[{
		"id": "800001",
		"question": "Will the S&P 500 close above 6,000 this year?",
		"endDate": "2025-12-31T23:59:59Z",
		"outcomes": ["Yes", "No"],
		"tokens": {"No": "tok_no_800001", "Yes": "tok_yes_800001"}
	}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	client := newTestClient(nil, srv)
	markets, err := client.SearchMarkets(context.Background(), ports.SearchParams{})
	require.NoError(t, err)
	require.Len(t, markets, 1)

	m := markets[0]
	require.Equal(t, []string{"Yes", "No"}, m.Outcomes)
	assert.Equal(t, "tok_yes_800001", m.TokenIDs[0])
	assert.Equal(t, "tok_no_800001", m.TokenIDs[1])
	assert.Equal(t, "tok_yes_800001", m.YesTokenID())
	assert.Equal(t, "tok_no_800001", m.NoTokenID())
}

func TestMapping_TokensClobObjectList(t *testing.T) {
	// Formato CLOB: lista de objetos {token_id, outcome}
	fixture := `[{
		"condition_id": "0xaaa",
		"title": "Will gold touch $3,000/oz before July?",
		"end_date": "2025-06-30T20:00:00.000Z",
		"outcomes": "[\"Yes\", \"No\"]",
		"tokens": [
			{"token_id": "tok_yes_gold", "outcome": "Yes"},
			{"token_id": "tok_no_gold", "outcome": "No"}
		]
	}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	client := newTestClient(nil, srv)
	markets, err := client.SearchMarkets(context.Background(), ports.SearchParams{})
	require.NoError(t, err)
	require.Len(t, markets, 1)

	m := markets[0]
	assert.Equal(t, "0xaaa", m.ID)
	assert.Equal(t, "Will gold touch $3,000/oz before July?", m.Question)
	assert.Equal(t, time.Date(2025, 6, 30, 20, 0, 0, 0, time.UTC), m.EndDate)
	assert.Equal(t, "tok_yes_gold", m.TokenIDs[0])
	assert.Equal(t, "tok_no_gold", m.TokenIDs[1])
}

func TestMapping_MissingTokensIsValidInSearch(t *testing.T) {
	// Los resultados de búsqueda no siempre incluyen token ids
	fixture := `[{
		"id": "800002",
		"question": "Will inflation stay under 3% in 2025?",
		"endDate": "2026-01-15T00:00:00Z",
		"outcomes": "[\"Yes\", \"No\"]"
	}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	client := newTestClient(nil, srv)
	markets, err := client.SearchMarkets(context.Background(), ports.SearchParams{})
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Empty(t, markets[0].TokenIDs)
	assert.False(t, markets[0].IsBinary())
}

func TestMapping_ActiveDefaultsTrue(t *testing.T) {
	fixture := `[{
		"id": "800003",
		"question": "Will the 10Y yield finish above 5%?",
		"endDate": "2025-12-31T23:59:59Z",
		"outcomes": ["Yes", "No"]
	}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	client := newTestClient(nil, srv)
	markets, err := client.SearchMarkets(context.Background(), ports.SearchParams{})
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.True(t, markets[0].Active)
}

func TestMapping_MissingIDSkipped(t *testing.T) {
	fixture := `[{
		"question": "Market without any id",
		"endDate": "2025-12-31T23:59:59Z",
		"outcomes": ["Yes", "No"]
	}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	client := newTestClient(nil, srv)
	markets, err := client.SearchMarkets(context.Background(), ports.SearchParams{})
	require.NoError(t, err)
	assert.Empty(t, markets)
}
