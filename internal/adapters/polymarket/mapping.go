package polymarket

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/alejandrodnm/polyfair/internal/domain"
)

// dateLayouts son los formatos de fecha de cierre observados en Gamma.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

// mapGammaMarket convierte un gammaMarket DTO a domain.Market.
// El id, la fecha de cierre y los outcomes son obligatorios; los token ids
// pueden faltar en resultados de búsqueda (solo GetMarket los garantiza).
func mapGammaMarket(r gammaMarket) (domain.Market, error) {
	id := coalesce(r.ID, r.ConditionIDSnake, r.ConditionID)
	if id == "" {
		return domain.Market{}, fmt.Errorf("missing market id in response")
	}

	endRaw := coalesce(r.EndDate, r.EndDateSnake, r.Expiration, r.ExpirationSnake)
	if endRaw == "" {
		return domain.Market{}, fmt.Errorf("market %s: missing end date in response", id)
	}
	endDate, err := parseGammaDate(endRaw)
	if err != nil {
		return domain.Market{}, fmt.Errorf("market %s: %w", id, err)
	}

	outcomes, err := decodeStringList(r.Outcomes)
	if err != nil {
		return domain.Market{}, fmt.Errorf("market %s: decode outcomes: %w", id, err)
	}
	if len(outcomes) == 0 {
		return domain.Market{}, fmt.Errorf("market %s: missing outcomes in response", id)
	}

	tokenIDs := decodeTokenIDs(firstRaw(r.ClobTokenIDs, r.ClobTokenIDsSnake, r.Tokens), outcomes)

	// Gamma omite "active" en algunas respuestas; el default es true
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return domain.Market{
		ID:          id,
		Question:    coalesce(r.Title, r.Question),
		Description: r.Description,
		Slug:        r.Slug,
		EndDate:     endDate,
		Outcomes:    outcomes,
		TokenIDs:    tokenIDs,
		Active:      active,
		Closed:      r.Closed,
		Archived:    r.Archived,
	}, nil
}

// coalesce devuelve el primer string no vacío.
func coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstRaw devuelve el primer RawMessage con contenido.
func firstRaw(vals ...json.RawMessage) json.RawMessage {
	for _, v := range vals {
		if len(v) > 0 && string(v) != "null" {
			return v
		}
	}
	return nil
}

// parseGammaDate intenta los formatos de fecha conocidos de Gamma.
func parseGammaDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable end date %q", s)
}

// unwrapEmbedded des-serializa un string JSON con JSON embebido dentro.
// Gamma devuelve outcomes y clobTokenIds así: "[\"Yes\", \"No\"]".
func unwrapEmbedded(raw json.RawMessage) json.RawMessage {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return json.RawMessage(s)
	}
	return raw
}

// decodeStringList decodifica un array JSON de strings, aceptando tanto
// el array directo como el string con el array serializado dentro.
func decodeStringList(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(unwrapEmbedded(raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// decodeTokenIDs normaliza los token ids del CLOB a un slice alineado por
// índice con outcomes. Acepta tres formatos: lista de strings, objeto
// {outcome: token_id} y lista de tokens CLOB [{token_id, outcome}].
// Devuelve nil si el campo falta o no se reconoce el formato.
func decodeTokenIDs(raw json.RawMessage, outcomes []string) []string {
	if len(raw) == 0 {
		return nil
	}
	raw = unwrapEmbedded(raw)

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list
	}

	var byOutcome map[string]string
	if err := json.Unmarshal(raw, &byOutcome); err == nil && len(byOutcome) > 0 {
		return alignTokens(byOutcome, outcomes)
	}

	var tokens []clobToken
	if err := json.Unmarshal(raw, &tokens); err == nil && len(tokens) > 0 {
		byOutcome = make(map[string]string, len(tokens))
		ids := make([]string, 0, len(tokens))
		for _, t := range tokens {
			byOutcome[t.Outcome] = t.TokenID
			ids = append(ids, t.TokenID)
		}
		if aligned := alignTokens(byOutcome, outcomes); aligned != nil {
			return aligned
		}
		return ids
	}

	return nil
}

// alignTokens ordena los token ids según el orden de outcomes.
func alignTokens(byOutcome map[string]string, outcomes []string) []string {
	found := 0
	ids := make([]string, len(outcomes))
	for i, o := range outcomes {
		if id, ok := byOutcome[o]; ok {
			ids[i] = id
			found++
		}
	}
	if found == 0 {
		return nil
	}
	return ids
}

// mapBook convierte la respuesta de /book a domain.OrderBook.
func mapBook(r bookResponse, tokenID string) domain.OrderBook {
	id := r.AssetID
	if id == "" {
		id = tokenID
	}
	return domain.OrderBook{
		TokenID: id,
		Bids:    mapBookEntries(r.Bids, false),
		Asks:    mapBookEntries(r.Asks, true),
	}
}

// mapBookEntries convierte entries raw a domain.BookEntry y los ordena.
// ascending=true → menor a mayor (asks), ascending=false → mayor a menor (bids).
func mapBookEntries(raw []bookEntryRaw, ascending bool) []domain.BookEntry {
	entries := make([]domain.BookEntry, 0, len(raw))
	for _, r := range raw {
		price, _ := strconv.ParseFloat(r.Price, 64)
		size, _ := strconv.ParseFloat(r.Size, 64)
		if price <= 0 || size <= 0 {
			continue
		}
		entries = append(entries, domain.BookEntry{Price: price, Size: size})
	}

	sort.Slice(entries, func(i, j int) bool {
		if ascending {
			return entries[i].Price < entries[j].Price
		}
		return entries[i].Price > entries[j].Price
	})

	return entries
}

// parsePriceResponse extrae el precio de la respuesta de /price.
// El campo puede llamarse price, mid o best_price según la versión del API.
func parsePriceResponse(r priceResponse) (float64, error) {
	raw := coalesce(r.Price, r.Mid, r.BestPrice)
	if raw == "" {
		return 0, fmt.Errorf("missing price in response")
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if price < 0 || price > 1 {
		return 0, fmt.Errorf("price %g out of valid range [0, 1]", price)
	}
	return price, nil
}
