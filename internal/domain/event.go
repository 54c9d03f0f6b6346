package domain

import "fmt"

// EventType clasifica el evento que paga el contrato binario.
type EventType string

const (
	// EventTouch paga si el subyacente toca la barrera en cualquier
	// momento antes del vencimiento.
	EventTouch EventType = "touch"
	// EventAbove paga si el subyacente cierra en o por encima del nivel.
	EventAbove EventType = "above"
	// EventBelow paga si el subyacente cierra por debajo del nivel.
	EventBelow EventType = "below"
)

// Valid devuelve true si el EventType es uno de los tres soportados.
func (e EventType) Valid() bool {
	return e == EventTouch || e == EventAbove || e == EventBelow
}

// ParseEventType convierte un string de CLI/config en EventType.
func ParseEventType(s string) (EventType, error) {
	e := EventType(s)
	if !e.Valid() {
		return "", fmt.Errorf("event type must be touch, above or below, got %q", s)
	}
	return e, nil
}

// Side es el lado de una consulta de precio al CLOB.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// IVMode indica cómo se resuelve la volatilidad implícita del análisis.
type IVMode string

const (
	// IVAuto extrae la IV de la cadena de opciones e interpola la term structure.
	IVAuto IVMode = "auto"
	// IVManual usa la IV provista por el usuario.
	IVManual IVMode = "manual"
)

// Verdict es el veredicto del análisis: precio de mercado vs valor justo.
type Verdict string

const (
	VerdictCheap     Verdict = "Cheap"
	VerdictFair      Verdict = "Fair"
	VerdictExpensive Verdict = "Expensive"
)
