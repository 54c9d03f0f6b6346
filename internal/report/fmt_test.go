package report_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/polyfair/internal/report"
)

// --- Percent ---

func TestPercent(t *testing.T) {
	assert.Equal(t, "5.00%", report.Percent(0.05, 2, false))
	assert.Equal(t, "4.26%", report.Percent(0.0426, 2, false))
	assert.Equal(t, "20.0%", report.Percent(0.20, 1, false))
}

func TestPercent_WithSign(t *testing.T) {
	// Con signo explícito solo los positivos llevan "+"
	assert.Equal(t, "+3.70%", report.Percent(0.037, 2, true))
	assert.Equal(t, "-2.13%", report.Percent(-0.0213, 2, true))
	assert.Equal(t, "0.00%", report.Percent(0, 2, true))
}

func TestPercent_NaN(t *testing.T) {
	assert.Equal(t, "n/a", report.Percent(math.NaN(), 2, false))
	assert.Equal(t, "n/a", report.Percent(math.NaN(), 2, true))
}

// --- Price / Probability ---

func TestPriceAndProbability(t *testing.T) {
	assert.Equal(t, "0.4703", report.Price(0.4703))
	assert.Equal(t, "0.5000", report.Price(0.5))
	assert.Equal(t, "1.0000", report.Price(1))
	assert.Equal(t, "0.1832", report.Probability(0.18324999))
}

// --- Dollar ---

func TestDollar_GroupsThousands(t *testing.T) {
	assert.Equal(t, "$98,750.50", report.Dollar(98750.5, 2))
	assert.Equal(t, "$1,234,567.89", report.Dollar(1234567.891, 2))
	assert.Equal(t, "$120,000", report.Dollar(120000, 0))
	assert.Equal(t, "$950.00", report.Dollar(950, 2))
	assert.Equal(t, "$0.47", report.Dollar(0.47, 2))
}

func TestDollar_Negative(t *testing.T) {
	// El signo va después del símbolo, como "%,.2f" en otros lenguajes
	assert.Equal(t, "$-1,234.50", report.Dollar(-1234.5, 2))
}

// --- Number / Bps ---

func TestNumber(t *testing.T) {
	assert.Equal(t, "0.5500", report.Number(0.55, 4))
	assert.Equal(t, "110000.00", report.Number(110000, 2))
	assert.Equal(t, "n/a", report.Number(math.NaN(), 2))
}

func TestBps(t *testing.T) {
	assert.Equal(t, "5.0 bps", report.Bps(0.0005))
	assert.Equal(t, "100.0 bps", report.Bps(0.01))
	assert.Equal(t, "-12.5 bps", report.Bps(-0.00125))
}

// --- MarkdownTable ---

func TestMarkdownTable_LeftAndRight(t *testing.T) {
	got := report.MarkdownTable(
		[]string{"Name", "Qty"},
		[][]string{{"alpha", "1"}, {"b", "25"}},
		[]report.Align{report.AlignLeft, report.AlignRight},
	)
	want := strings.Join([]string{
		"| Name  | Qty |",
		"| ----- | --: |",
		"| alpha |   1 |",
		"| b     |  25 |",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestMarkdownTable_Center(t *testing.T) {
	got := report.MarkdownTable(
		[]string{"C"},
		[][]string{{"abcd"}},
		[]report.Align{report.AlignCenter},
	)
	want := strings.Join([]string{
		"|  C   |",
		"| :--: |",
		"| abcd |",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestMarkdownTable_NilAlignDefaultsLeft(t *testing.T) {
	got := report.MarkdownTable(
		[]string{"Col", "Val"},
		[][]string{{"xx", "yyyy"}},
		nil,
	)
	want := strings.Join([]string{
		"| Col | Val  |",
		"| --- | ---- |",
		"| xx  | yyyy |",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestMarkdownTable_RuneWidths(t *testing.T) {
	// "σ -0.02" son 7 caracteres aunque σ ocupe dos bytes: el ancho de
	// columna se calcula en runas para que las celdas queden alineadas.
	got := report.MarkdownTable(
		[]string{"Shift", "PV"},
		[][]string{{"σ -0.02", "0.41"}, {"base", "0.44"}},
		nil,
	)
	want := strings.Join([]string{
		"| Shift   | PV   |",
		"| ------- | ---- |",
		"| σ -0.02 | 0.41 |",
		"| base    | 0.44 |",
	}, "\n")
	assert.Equal(t, want, got)
}
