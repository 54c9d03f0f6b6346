package yahoo

// Raw DTOs for the Yahoo Finance v8 chart and v7 options endpoints.
// Conversion to domain types happens in options.go.

// apiError is the error object Yahoo embeds in both envelopes.
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// chartResponse is the envelope of GET /v8/finance/chart/{ticker}.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta chartMeta `json:"meta"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

// chartMeta carries the quote summary of the chart response. Yahoo
// omits regularMarketPrice outside trading hours for some tickers, so
// the previous-close fields act as fallbacks.
type chartMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	PreviousClose      float64 `json:"previousClose"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
}

// optionsResponse is the envelope of GET /v7/finance/options/{ticker}.
type optionsResponse struct {
	OptionChain struct {
		Result []optionsResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"optionChain"`
}

// optionsResult holds the listed expiries, the underlying quote and the
// chain for the requested (or nearest) expiry.
type optionsResult struct {
	UnderlyingSymbol string         `json:"underlyingSymbol"`
	ExpirationDates  []int64        `json:"expirationDates"`
	Strikes          []float64      `json:"strikes"`
	Quote            optionsQuote   `json:"quote"`
	Options          []optionsBlock `json:"options"`
}

// optionsQuote is the underlying quote embedded in the options response.
type optionsQuote struct {
	RegularMarketPrice          float64 `json:"regularMarketPrice"`
	TrailingAnnualDividendRate  float64 `json:"trailingAnnualDividendRate"`
	TrailingAnnualDividendYield float64 `json:"trailingAnnualDividendYield"`
}

// optionsBlock is the calls/puts pair for one expiration date.
type optionsBlock struct {
	ExpirationDate int64            `json:"expirationDate"`
	Calls          []optionQuoteRow `json:"calls"`
	Puts           []optionQuoteRow `json:"puts"`
}

// optionQuoteRow is a single contract in the chain. ImpliedVolatility
// is a pointer so an absent field can be told apart from zero.
type optionQuoteRow struct {
	ContractSymbol    string   `json:"contractSymbol"`
	Strike            float64  `json:"strike"`
	LastPrice         float64  `json:"lastPrice"`
	Bid               float64  `json:"bid"`
	Ask               float64  `json:"ask"`
	Volume            float64  `json:"volume"`
	OpenInterest      float64  `json:"openInterest"`
	ImpliedVolatility *float64 `json:"impliedVolatility"`
	InTheMoney        bool     `json:"inTheMoney"`
}
