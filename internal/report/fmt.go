// Package report genera la salida del análisis: el informe markdown
// A–G completo y las tablas compactas de consola.
package report

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Align es la alineación de una columna en las tablas markdown.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Percent formatea un decimal como porcentaje (0.05 → "5.00%").
// includeSign antepone "+" a los positivos. NaN → "n/a".
func Percent(v float64, decimals int, includeSign bool) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	pct := v * 100
	if includeSign && pct > 0 {
		return fmt.Sprintf("+%.*f%%", decimals, pct)
	}
	return fmt.Sprintf("%.*f%%", decimals, pct)
}

// Price formatea un precio de contrato en [0, 1] con 4 decimales.
func Price(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// Probability formatea una probabilidad con 4 decimales.
func Probability(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// Dollar formatea un importe con símbolo y separador de miles
// (98750.5 → "$98,750.50").
func Dollar(v float64, decimals int) string {
	return "$" + groupThousands(fmt.Sprintf("%.*f", decimals, math.Abs(v)), v < 0)
}

// Number formatea un número genérico con los decimales pedidos.
func Number(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

// Bps formatea un decimal en puntos básicos (0.0005 → "5.0 bps").
func Bps(v float64) string {
	return fmt.Sprintf("%.1f bps", v*10000)
}

// groupThousands inserta comas cada tres dígitos en la parte entera de
// un número ya formateado.
func groupThousands(s string, negative bool) string {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var sb strings.Builder
	n := len(intPart)
	for i, r := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	out := sb.String()
	if hasFrac {
		out += "." + fracPart
	}
	if negative {
		out = "-" + out
	}
	return out
}

// MarkdownTable arma una tabla markdown con anchos calculados por
// columna (en runas, que σ ocupa dos bytes). align nil alinea todo a
// la izquierda.
func MarkdownTable(headers []string, rows [][]string, align []Align) string {
	if align == nil {
		align = make([]Align, len(headers))
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	var lines []string
	lines = append(lines, tableRow(headers, widths, align))
	lines = append(lines, separatorRow(widths, align))
	for _, row := range rows {
		lines = append(lines, tableRow(row, widths, align))
	}
	return strings.Join(lines, "\n")
}

func tableRow(cells []string, widths []int, align []Align) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		pad := widths[i] - utf8.RuneCountInString(cell)
		if pad < 0 {
			pad = 0
		}
		switch align[i] {
		case AlignRight:
			padded[i] = strings.Repeat(" ", pad) + cell
		case AlignCenter:
			left := pad / 2
			padded[i] = strings.Repeat(" ", left) + cell + strings.Repeat(" ", pad-left)
		default:
			padded[i] = cell + strings.Repeat(" ", pad)
		}
	}
	return "| " + strings.Join(padded, " | ") + " |"
}

func separatorRow(widths []int, align []Align) string {
	seps := make([]string, len(widths))
	for i, w := range widths {
		switch align[i] {
		case AlignRight:
			seps[i] = strings.Repeat("-", max(w-1, 1)) + ":"
		case AlignCenter:
			seps[i] = ":" + strings.Repeat("-", max(w-2, 1)) + ":"
		default:
			seps[i] = strings.Repeat("-", max(w, 3))
		}
	}
	return "| " + strings.Join(seps, " | ") + " |"
}
