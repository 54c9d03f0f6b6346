package domain

import "time"

// RateObservation es la última observación disponible de una serie de
// tasas. Value viene en puntos porcentuales tal como lo publica FRED
// (4.35 = 4.35%): la conversión a decimal es responsabilidad del caller.
type RateObservation struct {
	SeriesID string
	Date     time.Time
	Value    float64
}

// RateSeries es la metadata de una serie de FRED.
type RateSeries struct {
	ID          string
	Title       string
	Frequency   string
	Units       string
	LastUpdated string // formato propio de FRED, se muestra tal cual
	Popularity  int
}

// Age devuelve la antigüedad de la observación respecto a now.
func (o RateObservation) Age(now time.Time) time.Duration {
	return now.Sub(o.Date)
}
