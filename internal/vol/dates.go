package vol

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts son los formatos de fecha aceptados, en orden de prueba.
// Cubren el formato de CLI (YYYY-MM-DD) y los timestamps que devuelve
// la API de Gamma.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
}

// ParseDate convierte un string de fecha en time.Time UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidInput)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrInvalidInput, s)
}

// DateOnly normaliza a medianoche UTC. Toda la aritmética de
// vencimientos trabaja sobre fechas normalizadas así.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween devuelve los días calendario entre dos fechas (to - from),
// sobre fechas normalizadas. Puede ser negativo.
func daysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}
