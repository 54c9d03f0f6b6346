package domain

import (
	"strings"
	"time"
)

// Market representa un mercado de predicción binario en Polymarket (Gamma).
type Market struct {
	ID          string
	Question    string
	Description string
	Slug        string
	EndDate     time.Time // fecha de resolución del mercado
	Outcomes    []string  // etiquetas, p.ej. ["Yes", "No"]
	TokenIDs    []string  // CLOB token ids alineados por índice con Outcomes
	Active      bool
	Closed      bool
	Archived    bool
}

// IsBinary devuelve true si el mercado tiene exactamente dos outcomes
// con sus tokens CLOB.
func (m Market) IsBinary() bool {
	return len(m.Outcomes) == 2 && len(m.TokenIDs) == 2
}

// TokenID devuelve el token CLOB del outcome dado (case-insensitive).
// Devuelve "" si el outcome no existe o no tiene token alineado.
func (m Market) TokenID(outcome string) string {
	for i, o := range m.Outcomes {
		if strings.EqualFold(o, outcome) && i < len(m.TokenIDs) {
			return m.TokenIDs[i]
		}
	}
	return ""
}

// YesTokenID devuelve el token del outcome "Yes", o el primero como fallback
// en mercados binarios con etiquetas distintas.
func (m Market) YesTokenID() string {
	if id := m.TokenID("Yes"); id != "" {
		return id
	}
	if len(m.TokenIDs) > 0 {
		return m.TokenIDs[0]
	}
	return ""
}

// NoTokenID devuelve el token del outcome "No", o el segundo como fallback.
func (m Market) NoTokenID() string {
	if id := m.TokenID("No"); id != "" {
		return id
	}
	if len(m.TokenIDs) > 1 {
		return m.TokenIDs[1]
	}
	return ""
}

// TruncateQuestion devuelve la pregunta truncada a maxLen caracteres.
// Si la pregunta está vacía usa los primeros caracteres del ID como fallback.
func TruncateQuestion(question, id string, maxLen int) string {
	q := question
	if q == "" {
		if len(id) > 20 {
			q = id[:20] + "..."
		} else {
			q = id
		}
	}
	if len(q) > maxLen {
		q = q[:maxLen-3] + "..."
	}
	return q
}
