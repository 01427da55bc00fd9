package browser

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/stayflow/concierge/pkg/intent"
	"github.com/stayflow/concierge/pkg/site"
)

// fillForm enters the booking data into the form's recognizable fields.
// Fields whose keywords resolve no datum are skipped silently, as are
// fields where every selector strategy fails; the summary lists only what
// landed. After at least one successful fill the form is submitted
// best-effort.
func (s *Session) fillForm(form *site.Form, data *intent.BookingData) Result {
	if form == nil {
		return Result{Success: false, Message: "Няма форма за попълване.", Observation: s.observe()}
	}

	var filled []string
	for _, field := range form.Fields {
		value, ok := intent.ResolveField(field, data)
		if !ok {
			continue
		}
		if s.fillField(field, value) {
			filled = append(filled, fmt.Sprintf("%s=%s", fieldLabel(field), value))
		} else {
			s.logger.Debug("field skipped, no selector strategy landed",
				zap.String("field", fieldLabel(field)))
		}
	}

	if len(filled) == 0 {
		return Result{
			Success:     false,
			Message:     "Не успях да попълня нито едно поле от формата.",
			Observation: s.observe(),
		}
	}

	if form.SubmitSelector != "" {
		err := s.Page.Click(form.SubmitSelector, playwright.PageClickOptions{
			Timeout: playwright.Float(ActionTimeout),
		})
		if err != nil {
			s.logger.Debug("form submit skipped", zap.Error(err))
		} else {
			s.Page.WaitForTimeout(SettleDelay)
			s.CurrentURL = s.Page.URL()
		}
	}

	s.logger.Info("form filled", zap.Int("fields", len(filled)))
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("Попълних формата: %s.", strings.Join(filled, ", ")),
		Observation: s.observe(),
	}
}

// fillField tries the declared selector, a name-attribute selector, then an
// id selector, stopping at the first that lands. Select fields choose an
// option; everything else gets typed text.
func (s *Session) fillField(field site.Field, value string) bool {
	for _, sel := range fieldSelectors(field) {
		var err error
		if field.Type == site.FieldSelect {
			values := []string{value}
			_, err = s.Page.SelectOption(sel,
				playwright.SelectOptionValues{Values: &values},
				playwright.PageSelectOptionOptions{Timeout: playwright.Float(FillTimeout)})
		} else {
			err = s.Page.Fill(sel, value, playwright.PageFillOptions{
				Timeout: playwright.Float(FillTimeout),
			})
		}
		if err == nil {
			return true
		}
	}
	return false
}

func fieldSelectors(field site.Field) []string {
	var out []string
	if field.Selector != "" {
		out = append(out, field.Selector)
	}
	if field.Name != "" {
		out = append(out, fmt.Sprintf("[name=%q]", field.Name), "#"+field.Name)
	}
	return out
}

func fieldLabel(field site.Field) string {
	if field.Name != "" {
		return field.Name
	}
	return field.Selector
}
