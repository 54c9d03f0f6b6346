package domain

import "time"

// ChainRow es una fila de la cadena de opciones de un vencimiento.
// IV viene en decimal (0.25 = 25%); math.NaN() marca filas sin IV
// publicada por la fuente. La normalización de fuentes que cotizan en
// porcentaje ocurre en el adapter de market data, antes de llegar aquí.
type ChainRow struct {
	Strike       float64
	IV           float64
	Bid          float64
	Ask          float64
	Last         float64
	Volume       float64
	OpenInterest float64
}

// OptionChain agrupa calls y puts de un vencimiento.
type OptionChain struct {
	Expiry time.Time
	Calls  []ChainRow
	Puts   []ChainRow
}

// ExpiryIV es una observación (vencimiento, IV) de la term structure.
type ExpiryIV struct {
	Expiry time.Time
	IV     float64
}
