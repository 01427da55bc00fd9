// Package site defines the precomputed description of a target website that
// the session manager keeps alongside each warm session. A description is
// produced ahead of time by a crawler (or derived heuristically for legacy
// single-shot calls) and consumed verbatim by the intent matcher and the
// action executors.
package site

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ButtonKind categorizes a clickable element by its role on the page.
type ButtonKind string

const (
	ButtonBooking    ButtonKind = "booking"
	ButtonContact    ButtonKind = "contact"
	ButtonNavigation ButtonKind = "navigation"
	ButtonSubmit     ButtonKind = "submit"
	ButtonOther      ButtonKind = "other"
)

// FieldType categorizes a form input so executors can pick the right
// interaction primitive.
type FieldType string

const (
	FieldDate   FieldType = "date"
	FieldNumber FieldType = "number"
	FieldText   FieldType = "text"
	FieldSelect FieldType = "select"
)

// Button is a clickable element known ahead of time.
type Button struct {
	Text     string     `json:"text"`
	Selector string     `json:"selector"`
	Keywords []string   `json:"keywords,omitempty"`
	Kind     ButtonKind `json:"kind"`
}

// Field is a single input inside a Form.
type Field struct {
	Name     string    `json:"name"`
	Selector string    `json:"selector"`
	Type     FieldType `json:"type"`
	Keywords []string  `json:"keywords,omitempty"`
}

// Form is a fillable form with an optional submit control.
type Form struct {
	Selector       string  `json:"selector"`
	Fields         []Field `json:"fields"`
	SubmitSelector string  `json:"submit_selector,omitempty"`
}

// PriceEntry is a price fragment captured from the site, with optional
// surrounding context such as a room name.
type PriceEntry struct {
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
}

// Description is the full precomputed model of one website. Descriptions are
// treated as immutable once normalized; callers replace them wholesale rather
// than patching them in place.
type Description struct {
	ID      string       `json:"id"`
	URL     string       `json:"url"`
	Buttons []Button     `json:"buttons,omitempty"`
	Forms   []Form       `json:"forms,omitempty"`
	Prices  []PriceEntry `json:"prices,omitempty"`
}

// Validate checks the fields a description cannot function without.
func (d *Description) Validate() error {
	if d == nil {
		return fmt.Errorf("site description is nil")
	}
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("site description missing id")
	}
	if strings.TrimSpace(d.URL) == "" {
		return fmt.Errorf("site description missing url")
	}
	return nil
}

// Normalized returns a deep copy with keywords lower-cased and unknown kinds
// and field types mapped to their defaults. The copy is what the session
// store holds, so later mutation of the input cannot leak into a session.
func (d *Description) Normalized() *Description {
	out := &Description{
		ID:  strings.TrimSpace(d.ID),
		URL: strings.TrimSpace(d.URL),
	}
	if len(d.Buttons) > 0 {
		out.Buttons = make([]Button, len(d.Buttons))
		for i, b := range d.Buttons {
			out.Buttons[i] = Button{
				Text:     b.Text,
				Selector: b.Selector,
				Keywords: lowerAll(b.Keywords),
				Kind:     normalizeKind(b.Kind),
			}
		}
	}
	if len(d.Forms) > 0 {
		out.Forms = make([]Form, len(d.Forms))
		for i, f := range d.Forms {
			nf := Form{
				Selector:       f.Selector,
				SubmitSelector: f.SubmitSelector,
			}
			if len(f.Fields) > 0 {
				nf.Fields = make([]Field, len(f.Fields))
				for j, fld := range f.Fields {
					nf.Fields[j] = Field{
						Name:     fld.Name,
						Selector: fld.Selector,
						Type:     normalizeFieldType(fld.Type),
						Keywords: lowerAll(fld.Keywords),
					}
				}
			}
			out.Forms[i] = nf
		}
	}
	if len(d.Prices) > 0 {
		out.Prices = make([]PriceEntry, len(d.Prices))
		copy(out.Prices, d.Prices)
	}
	return out
}

// Decode parses a JSON description, validates it, and returns the normalized
// copy ready for the session store.
func Decode(data []byte) (*Description, error) {
	var d Description
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode site description: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d.Normalized(), nil
}

func normalizeKind(k ButtonKind) ButtonKind {
	switch ButtonKind(strings.ToLower(string(k))) {
	case ButtonBooking, ButtonContact, ButtonNavigation, ButtonSubmit:
		return ButtonKind(strings.ToLower(string(k)))
	default:
		return ButtonOther
	}
}

func normalizeFieldType(t FieldType) FieldType {
	switch FieldType(strings.ToLower(string(t))) {
	case FieldDate, FieldNumber, FieldSelect:
		return FieldType(strings.ToLower(string(t)))
	default:
		return FieldText
	}
}

func lowerAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
