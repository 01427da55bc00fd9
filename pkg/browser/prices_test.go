package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayflow/concierge/pkg/site"
)

func priceSession(entries []site.PriceEntry) *Session {
	return &Session{
		ID:   "hotel-roza",
		Desc: &site.Description{ID: "hotel-roza", URL: "https://hotel.example", Prices: entries},
	}
}

func TestReturnPricesFormatsEntries(t *testing.T) {
	sess := priceSession([]site.PriceEntry{
		{Text: "120 лв", Context: "Стандартна стая"},
	})

	res := sess.returnPrices()

	require.True(t, res.Success)
	assert.Equal(t, "Цени: Стандартна стая: 120 лв", res.Message)
}

func TestReturnPricesJoinsMixedEntries(t *testing.T) {
	sess := priceSession([]site.PriceEntry{
		{Text: "120 лв", Context: "Стандартна стая"},
		{Text: "180 лв"},
	})

	res := sess.returnPrices()

	require.True(t, res.Success)
	assert.Equal(t, "Цени: Стандартна стая: 120 лв; 180 лв", res.Message)
}

func TestReturnPricesCapsEntries(t *testing.T) {
	entries := []site.PriceEntry{
		{Text: "100 лв"}, {Text: "110 лв"}, {Text: "120 лв"},
		{Text: "130 лв"}, {Text: "140 лв"}, {Text: "150 лв"}, {Text: "160 лв"},
	}

	res := priceSession(entries).returnPrices()

	require.True(t, res.Success)
	assert.Equal(t, maxPriceLines, strings.Count(res.Message, "лв"))
	assert.NotContains(t, res.Message, "150 лв")
}

func TestReturnPricesEmpty(t *testing.T) {
	res := priceSession(nil).returnPrices()

	require.False(t, res.Success)
	assert.Equal(t, "Нямам информация за цени на този сайт.", res.Message)
}
