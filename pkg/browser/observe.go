package browser

import (
	"fmt"
	"regexp"
	"strings"
)

// currencyPattern finds amounts tagged with a currency in either language.
// The alternation lists "лева" before "лв" because matching is
// leftmost-first. Shared with the heuristic describer, which harvests the
// same fragments into price entries.
var currencyPattern = regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*(?:лева|лв\.?|bgn|eur|usd|€|\$)`)

const (
	// observationSlice is how many runes of visible text the snapshot
	// examines, counted from the top of the page
	observationSlice = 3000

	// maxObservedPrices caps currency mentions in a snapshot
	maxObservedPrices = 5

	// excerptLength is the size of the trailing excerpt in runes
	excerptLength = 200
)

var (
	availabilityMarkers = []string{
		"свободни", "налични", "наличност",
		"available", "availability", "vacancy",
	}
	noAvailabilityMarkers = []string{
		"няма свободни", "не са налични", "изчерпан",
		"no availability", "fully booked", "sold out", "no rooms",
	}
)

// observe captures a compact snapshot of the current page: title, currency
// mentions near the top, availability markers in both languages, and a
// trailing excerpt. Read failures degrade to a sparser snapshot rather
// than failing the command.
func (s *Session) observe() *Observation {
	obs := &Observation{}

	if title, err := s.Page.Title(); err == nil {
		obs.Title = strings.TrimSpace(title)
	}

	text, err := s.visibleText()
	if err != nil {
		return obs
	}

	slice := firstRunes(text, observationSlice)
	obs.Prices = currencyPattern.FindAllString(slice, maxObservedPrices)

	lower := strings.ToLower(slice)
	obs.HasAvailability = containsAnyMarker(lower, availabilityMarkers)
	obs.NoAvailability = containsAnyMarker(lower, noAvailabilityMarkers)

	obs.Excerpt = strings.TrimSpace(lastRunes(slice, excerptLength))
	return obs
}

// observeResult is the default action: nothing matched the request, so
// describe what the page currently shows.
func (s *Session) observeResult() Result {
	obs := s.observe()

	msg := "Ето какво виждам на страницата в момента."
	if obs.Title != "" {
		msg = fmt.Sprintf("В момента разглеждате „%s“.", obs.Title)
	}
	return Result{Success: true, Message: msg, Observation: obs}
}

func containsAnyMarker(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func lastRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
