package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// click activates the first matching control. Strategies run in order: the
// declared selector when present, then exact text, then text scoped to
// buttons, then to links. Each attempt gets a short timeout and a hit is
// followed by a settle wait.
func (s *Session) click(selector, label string) Result {
	for _, sel := range clickStrategies(selector, label) {
		err := s.Page.Click(sel, playwright.PageClickOptions{
			Timeout: playwright.Float(ActionTimeout),
		})
		if err != nil {
			s.logger.Debug("click strategy missed", zap.String("selector", sel), zap.Error(err))
			continue
		}

		s.Page.WaitForTimeout(SettleDelay)
		s.CurrentURL = s.Page.URL()
		s.logger.Info("clicked", zap.String("selector", sel))

		msg := fmt.Sprintf("Натиснах елемента %s.", sel)
		if label != "" {
			msg = fmt.Sprintf("Натиснах „%s“.", label)
		}
		return Result{Success: true, Message: msg, Observation: s.observe()}
	}

	s.logger.Warn("click exhausted all strategies",
		zap.String("selector", selector), zap.String("label", label))

	msg := "Не успях да изпълня действието на страницата."
	if label != "" {
		msg = fmt.Sprintf("Не намерих „%s“ на страницата.", label)
	}
	return Result{Success: false, Message: msg, Observation: s.observe()}
}

// clickStrategies builds the ordered selector list for one activation.
// Playwright's text engine matches submit inputs by value, so the text
// strategies also cover form controls without inner text.
func clickStrategies(selector, label string) []string {
	var out []string
	if selector != "" {
		out = append(out, selector)
	}
	if label != "" {
		out = append(out,
			fmt.Sprintf("text=%q", label),
			fmt.Sprintf("button:has-text(%q)", label),
			fmt.Sprintf("a:has-text(%q)", label),
		)
	}
	return out
}
