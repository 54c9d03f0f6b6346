// Package num agrupa los guards numéricos compartidos por los módulos
// cuantitativos: logaritmo y exponencial acotados, clamp y comparación
// tolerante de floats.
package num

import (
	"fmt"
	"math"
)

const (
	// logFloor es el argumento mínimo admitido por SafeLog.
	logFloor = 1e-10
	// expCap es el exponente máximo admitido por SafeExp.
	expCap = 700.0
)

// SafeLog devuelve ln(x) con el argumento acotado por debajo a 1e-10.
// Nunca devuelve -Inf para entradas no positivas.
func SafeLog(x float64) float64 {
	return math.Log(math.Max(x, logFloor))
}

// SafeExp devuelve e^x con el exponente acotado por arriba a 700.
// Nunca desborda a +Inf por exponentes grandes.
func SafeExp(x float64) float64 {
	return math.Exp(math.Min(x, expCap))
}

// Clamp limita value al rango [lo, hi].
// Hace panic si lo > hi: es un error de programación, no de datos.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		panic(fmt.Sprintf("num.Clamp: rango inválido [%g, %g]", lo, hi))
	}
	return math.Max(lo, math.Min(value, hi))
}

// IsClose compara dos floats con tolerancia relativa y absoluta de 1e-9.
func IsClose(a, b float64) bool {
	const tol = 1e-9
	diff := math.Abs(a - b)
	return diff <= math.Max(tol*math.Max(math.Abs(a), math.Abs(b)), tol)
}
