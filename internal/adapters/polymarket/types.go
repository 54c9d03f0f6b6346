package polymarket

import "encoding/json"

// DTOs raw de las APIs de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// --- Gamma API ---

// gammaMarket contiene la metadata de un mercado según Gamma.
// El formato es inconsistente entre endpoints: el mismo campo aparece en
// camelCase o snake_case, y outcomes/clobTokenIds pueden llegar como array
// JSON o como string con el array serializado dentro. Los campos ambiguos
// se declaran como json.RawMessage y se normalizan en mapping.go.
type gammaMarket struct {
	ID               string `json:"id"`
	ConditionID      string `json:"conditionId"`
	ConditionIDSnake string `json:"condition_id"`
	Question         string `json:"question"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Slug             string `json:"slug"`

	EndDate         string `json:"endDate"`
	EndDateSnake    string `json:"end_date"`
	Expiration      string `json:"expirationDate"`
	ExpirationSnake string `json:"expiration_date"`

	Outcomes          json.RawMessage `json:"outcomes"`
	ClobTokenIDs      json.RawMessage `json:"clobTokenIds"`
	ClobTokenIDsSnake json.RawMessage `json:"clob_token_ids"`
	Tokens            json.RawMessage `json:"tokens"`

	// Active por defecto true si Gamma omite el campo
	Active   *bool `json:"active"`
	Closed   bool  `json:"closed"`
	Archived bool  `json:"archived"`
}

// gammaMarketsEnvelope acepta las dos formas en que Gamma devuelve listas
// de mercados: un array JSON a secas o un objeto {"data": [...]}.
type gammaMarketsEnvelope struct {
	markets []gammaMarket
}

func (e *gammaMarketsEnvelope) UnmarshalJSON(b []byte) error {
	var list []gammaMarket
	if err := json.Unmarshal(b, &list); err == nil {
		e.markets = list
		return nil
	}
	var wrapped struct {
		Data []gammaMarket `json:"data"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	e.markets = wrapped.Data
	return nil
}

// publicSearchResponse es la respuesta de GET /public-search.
// Los mercados vienen anidados dentro de eventos.
type publicSearchResponse struct {
	Events []publicSearchEvent `json:"events"`
}

// publicSearchEvent es un evento con sus mercados asociados.
type publicSearchEvent struct {
	Title   string        `json:"title"`
	Slug    string        `json:"slug"`
	Markets []gammaMarket `json:"markets"`
}

// clobToken es un token (YES/NO) en formato CLOB. Algunas respuestas de
// Gamma anidan los tokens con esta forma bajo el campo "tokens".
type clobToken struct {
	TokenID string `json:"token_id"`
	Outcome string `json:"outcome"`
}

// --- CLOB API ---

// bookResponse es la respuesta de GET /book.
type bookResponse struct {
	AssetID string         `json:"asset_id"`
	Bids    []bookEntryRaw `json:"bids"`
	Asks    []bookEntryRaw `json:"asks"`
}

// bookEntryRaw es un nivel de precio raw de la API (strings para mayor precisión).
type bookEntryRaw struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// priceResponse es la respuesta de GET /price. El CLOB devuelve el precio
// como string; mid/best_price son variantes observadas del mismo campo.
type priceResponse struct {
	Price     string `json:"price"`
	Mid       string `json:"mid"`
	BestPrice string `json:"best_price"`
}
