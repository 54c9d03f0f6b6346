package domain

import "fmt"

// Advisory es un aviso estructurado de un resultado degradado pero válido.
// Los módulos cuantitativos los devuelven junto al resultado en lugar de
// loggear o fallar: el caller decide qué hacer con ellos.
type Advisory struct {
	Code    string
	Message string
}

// Códigos de advisory conocidos.
const (
	AdvMissingIVRows  = "missing_iv_rows"
	AdvWindowWidened  = "window_widened"
	AdvSingleStrike   = "single_strike"
	AdvFewStrikes     = "few_strikes"
	AdvBelowRange     = "below_range"
	AdvAboveRange     = "above_range"
	AdvImplausibleIV  = "implausible_iv"
	AdvNoBeforeExpiry = "no_before_expiry"
	AdvAfterAll       = "after_all"
	AdvExpiredBefore  = "expired_before"
	AdvStaleRate      = "stale_rate"
	AdvNoDivYield     = "no_div_yield"
)

// Advisoryf construye un Advisory con mensaje formateado.
func Advisoryf(code, format string, args ...any) Advisory {
	return Advisory{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (a Advisory) String() string {
	return a.Code + ": " + a.Message
}
