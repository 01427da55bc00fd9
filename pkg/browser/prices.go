package browser

import (
	"fmt"
	"strings"
)

// maxPriceLines caps how many entries a price answer includes.
const maxPriceLines = 5

// returnPrices answers from the precomputed price table. No live page
// access happens here, which is what makes price questions effectively
// free.
func (s *Session) returnPrices() Result {
	entries := s.Desc.Prices
	if len(entries) == 0 {
		return Result{Success: false, Message: "Нямам информация за цени на този сайт."}
	}
	if len(entries) > maxPriceLines {
		entries = entries[:maxPriceLines]
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Context != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", e.Context, e.Text))
		} else {
			lines = append(lines, e.Text)
		}
	}

	return Result{Success: true, Message: "Цени: " + strings.Join(lines, "; ")}
}
