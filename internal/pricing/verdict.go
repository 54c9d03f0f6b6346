package pricing

import (
	"math"

	"github.com/alejandrodnm/polyfair/internal/domain"
)

// Tolerancias por defecto del veredicto.
const (
	DefaultAbsTol = 0.01
	DefaultPctTol = 0.05
)

// ComputeVerdict compara el precio de mercado contra el PV justo.
// Es Fair si la diferencia absoluta entra en absTol, o si el PV justo
// es positivo y la diferencia relativa entra en pctTol. Con PV justo
// cero el criterio porcentual no aplica (no se divide por cero).
// Fuera de tolerancia: Cheap si el mercado está por debajo del justo,
// Expensive si está por encima.
func ComputeVerdict(marketPrice, fairPV, absTol, pctTol float64) domain.Verdict {
	diff := math.Abs(marketPrice - fairPV)
	if diff <= absTol {
		return domain.VerdictFair
	}
	if fairPV > 0 && diff/fairPV <= pctTol {
		return domain.VerdictFair
	}
	if marketPrice < fairPV {
		return domain.VerdictCheap
	}
	return domain.VerdictExpensive
}

// Mispricing devuelve la diferencia con signo (mercado - justo) en
// absoluto y en relativo. El relativo es NaN si el PV justo es 0.
func Mispricing(marketPrice, fairPV float64) (abs, pct float64) {
	abs = marketPrice - fairPV
	if fairPV == 0 {
		return abs, math.NaN()
	}
	return abs, abs / fairPV
}
