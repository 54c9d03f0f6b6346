package report

// console.go — tablas compactas para la salida de los comandos CLI.

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alejandrodnm/polyfair/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console imprime resúmenes tabulares en un writer.
type Console struct {
	out io.Writer
}

// NewConsole crea una consola que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea una consola para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Markets imprime el listado de mercados del comando markets.
func (c *Console) Markets(markets []domain.Market) {
	if len(markets) == 0 {
		fmt.Fprintln(c.out, "No markets found.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "End Date", "Title")

	for _, m := range markets {
		endDate := "N/A"
		if !m.EndDate.IsZero() {
			endDate = m.EndDate.Format("2006-01-02")
		}
		table.Append(m.ID, endDate, domain.TruncateQuestion(m.Question, m.ID, 40))
	}
	table.Render()

	fmt.Fprintf(c.out, "\nShowing %d market(s)\n", len(markets))
}

// AnalysisSummary imprime el resumen de un análisis: la vista rápida
// antes de leer el informe completo.
func (c *Console) AnalysisSummary(res domain.AnalysisResult) {
	fmt.Fprintf(c.out, "\n%s\n", domain.TruncateQuestion(res.Market.Question, res.Market.ID, 76))

	table := tablewriter.NewWriter(c.out)
	table.Header("Metric", "Value")
	table.Append("Event", eventDesc(res))
	table.Append("Expiry", res.Expiry.Format("2006-01-02"))
	table.Append("Spot", Dollar(res.Spot, 2))
	table.Append("IV", fmt.Sprintf("%s (%s)", Percent(res.IV, 2, false), res.IVSource))
	table.Append("Rate", fmt.Sprintf("%s (%s)", Percent(res.Rate, 2, false), res.RateSource))
	table.Append("Probability", Probability(res.Pricing.Probability))
	table.Append("Fair Value (PV)", "$"+Price(res.Pricing.PV))
	table.Append("Yes Price", "$"+Price(res.YesPrice))
	table.Append("Mispricing", fmt.Sprintf("$%+.4f (%s)", res.MispricingAbs, Percent(res.MispricingPct, 2, true)))
	table.Append("Verdict", fmt.Sprintf("%s %s", res.Verdict, verdictEmoji(res.Verdict)))
	table.Render()

	for _, adv := range res.Advisories {
		fmt.Fprintf(c.out, "  ⚠ %s\n", adv.String())
	}
}

// RateObservation imprime la última observación de una serie de FRED.
func (c *Console) RateObservation(obs domain.RateObservation) {
	fmt.Fprintf(c.out, "Series:      %s\n", obs.SeriesID)
	fmt.Fprintf(c.out, "Latest Rate: %.2f%% (%.4f as decimal)\n", obs.Value, obs.Value/100)
	fmt.Fprintf(c.out, "As Of:       %s\n", obs.Date.Format("2006-01-02"))
}

// RateSeries imprime resultados de búsqueda de series de FRED.
func (c *Console) RateSeries(series []domain.RateSeries) {
	if len(series) == 0 {
		fmt.Fprintln(c.out, "No series found.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Title", "Frequency", "Units", "Popularity")

	for _, s := range series {
		title := s.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		table.Append(s.ID, title, s.Frequency, s.Units, fmt.Sprintf("%d", s.Popularity))
	}
	table.Render()

	fmt.Fprintf(c.out, "\nShowing %d series\n", len(series))
}

// History imprime el historial de análisis persistidos, más recientes
// primero (el orden en que los entrega el store).
func (c *Console) History(results []domain.AnalysisResult) {
	if len(results) == 0 {
		fmt.Fprintln(c.out, "No analyses recorded.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Date", "Market", "Event", "Level", "Fair PV", "Yes", "Verdict")

	for _, res := range results {
		table.Append(
			res.CreatedAt.Format("2006-01-02 15:04"),
			domain.TruncateQuestion(res.Market.Question, res.Market.ID, 32),
			string(res.Request.EventType),
			Number(res.Request.Level, 2),
			Price(res.Pricing.PV),
			Price(res.YesPrice),
			string(res.Verdict),
		)
	}
	table.Render()

	fmt.Fprintf(c.out, "\nShowing %d run(s)\n", len(results))
}

// PruneSummary informa el resultado de una limpieza del historial.
func (c *Console) PruneSummary(pruned int64, cutoff time.Time) {
	fmt.Fprintf(c.out, "Pruned %d analysis run(s) older than %s\n", pruned, cutoff.Format("2006-01-02"))
}
