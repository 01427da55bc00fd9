// Package intent translates a request's keyword set and optional booking
// data into a concrete page action against a site description. Matching is
// purely vocabulary and pattern based: a fixed-priority rule cascade walks
// the description and the first matching rule wins, with ties broken by
// declaration order. The package performs no I/O and holds no state, so the
// same inputs always produce the same action.
package intent

import (
	"strings"

	"github.com/stayflow/concierge/pkg/site"
)

// Kind identifies the action an executor should perform.
type Kind string

const (
	FillForm      Kind = "fill_form"
	Click         Kind = "click"
	ReturnPrices  Kind = "return_prices"
	ReturnContact Kind = "return_contact"
	Navigate      Kind = "navigate"
	Observe       Kind = "observe"
)

// Action is the matcher's verdict: a kind plus the payload that variant
// needs. Navigate never originates from the cascade; it exists for callers
// that trigger explicit navigation.
type Action struct {
	Kind     Kind
	Form     *site.Form // FillForm: the form to fill
	Selector string     // Click: declared selector, may be empty
	Label    string     // Click: visible label for text strategies and messages
	URL      string     // Navigate: absolute or schemeless target
}

// BookingData carries the structured portion of a request.
type BookingData struct {
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
	Guests   int    `json:"guests,omitempty"`
}

// HasDates reports whether at least one travel date is present.
func (d *BookingData) HasDates() bool {
	return d != nil && (d.CheckIn != "" || d.CheckOut != "")
}

// Match evaluates the rule cascade for one request. The rule order is a
// contract: booking, prices, contact, rooms, search, direct keyword overlap,
// observe. Rules four and five fall through when no button qualifies.
func Match(keywords []string, data *BookingData, desc *site.Description) Action {
	kw := newKeywordSet(keywords)

	// 1. Booking: explicit vocabulary hit or structured dates present.
	if kw.hasAny(bookingVocab) || data.HasDates() {
		if f := bookingForm(desc); f != nil {
			return Action{Kind: FillForm, Form: f}
		}
		if b := findButton(desc, site.ButtonBooking, bookingVocab); b != nil {
			return clickAction(b)
		}
	}

	// 2. Prices: only answerable when the description carries price entries.
	if kw.hasAny(priceVocab) && len(desc.Prices) > 0 {
		return Action{Kind: ReturnPrices}
	}

	// 3. Contact: prefer a contact button, else extract from the page.
	if kw.hasAny(contactVocab) {
		if b := findButton(desc, site.ButtonContact, contactVocab); b != nil {
			return clickAction(b)
		}
		return Action{Kind: ReturnContact}
	}

	// 4. Rooms: no terminal fallback, falls through when nothing matches.
	if kw.hasAny(roomVocab) {
		if b := findButton(desc, "", roomVocab); b != nil {
			return clickAction(b)
		}
	}

	// 5. Search and submit.
	if kw.hasAny(searchVocab) {
		if b := findButton(desc, site.ButtonSubmit, searchVocab); b != nil {
			return clickAction(b)
		}
	}

	// 6. Direct overlap between request keywords and declared button keywords.
	for i := range desc.Buttons {
		b := &desc.Buttons[i]
		if kw.hasAnyLower(b.Keywords) {
			return clickAction(b)
		}
	}

	// 7. Nothing applies: report what the page shows.
	return Action{Kind: Observe}
}

// bookingForm picks the first form suited for entering travel dates: one
// with a date-typed field, or one whose field keywords hit the check-in or
// check-out vocabulary.
func bookingForm(desc *site.Description) *site.Form {
	for i := range desc.Forms {
		f := &desc.Forms[i]
		for j := range f.Fields {
			fld := &f.Fields[j]
			if fld.Type == site.FieldDate {
				return f
			}
			fs := newKeywordSet(fld.Keywords)
			if fs.hasAny(checkInVocab) || fs.hasAny(checkOutVocab) {
				return f
			}
		}
	}
	return nil
}

// findButton returns the first button in declaration order that is tagged
// with the given kind or whose declared keywords or visible label hit the
// vocabulary. Kind may be empty to match on vocabulary alone.
func findButton(desc *site.Description, kind site.ButtonKind, vocab []string) *site.Button {
	for i := range desc.Buttons {
		b := &desc.Buttons[i]
		if kind != "" && b.Kind == kind {
			return b
		}
		if buttonMatchesVocab(b, vocab) {
			return b
		}
	}
	return nil
}

func buttonMatchesVocab(b *site.Button, vocab []string) bool {
	ks := newKeywordSet(b.Keywords)
	if ks.hasAny(vocab) {
		return true
	}
	label := newKeywordSet(Tokenize(b.Text))
	return label.hasAny(vocab)
}

func clickAction(b *site.Button) Action {
	return Action{Kind: Click, Selector: b.Selector, Label: b.Text}
}

// keywordSet is a lower-cased membership set over request or declared
// keywords.
type keywordSet map[string]struct{}

func newKeywordSet(words []string) keywordSet {
	s := make(keywordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

func (s keywordSet) hasAny(words []string) bool {
	for _, w := range words {
		if _, ok := s[w]; ok {
			return true
		}
	}
	return false
}

// hasAnyLower is hasAny for words that may not be lower-cased yet.
func (s keywordSet) hasAnyLower(words []string) bool {
	for _, w := range words {
		if _, ok := s[strings.ToLower(w)]; ok {
			return true
		}
	}
	return false
}
