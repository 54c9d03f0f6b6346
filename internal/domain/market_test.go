package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBinaryMarket() Market {
	return Market{
		ID:       "516713",
		Question: "Will Bitcoin reach $150,000 by December 31?",
		Outcomes: []string{"Yes", "No"},
		TokenIDs: []string{"71321045679252212594626385532706912750332728571942532289631379312455583992563", "5044658213116494392261893544497225363846217319105609804585534197935770239191"},
		Active:   true,
	}
}

func TestMarket_IsBinary(t *testing.T) {
	assert.True(t, makeBinaryMarket().IsBinary())
	assert.False(t, Market{Outcomes: []string{"Yes"}}.IsBinary())
}

func TestMarket_TokenID_CaseInsensitive(t *testing.T) {
	m := makeBinaryMarket()
	assert.Equal(t, m.TokenIDs[0], m.TokenID("yes"))
	assert.Equal(t, m.TokenIDs[1], m.TokenID("NO"))
	assert.Equal(t, "", m.TokenID("Maybe"))
}

func TestMarket_YesNoTokenID_Fallback(t *testing.T) {
	// Mercado binario con etiquetas no estándar: cae al orden de índice
	m := Market{
		Outcomes: []string{"Up", "Down"},
		TokenIDs: []string{"111", "222"},
	}
	assert.Equal(t, "111", m.YesTokenID())
	assert.Equal(t, "222", m.NoTokenID())
}

func TestTruncateQuestion(t *testing.T) {
	assert.Equal(t, "short", TruncateQuestion("short", "id", 40))
	long := "This is a very long market question that keeps going"
	got := TruncateQuestion(long, "id", 20)
	assert.Len(t, got, 20)
	assert.Equal(t, "...", got[17:])
}

func TestParseEventType(t *testing.T) {
	e, err := ParseEventType("touch")
	require.NoError(t, err)
	assert.Equal(t, EventTouch, e)

	_, err = ParseEventType("crosses")
	assert.Error(t, err)
}
