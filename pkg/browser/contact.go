package browser

import (
	"regexp"
	"strings"
)

// Phone extraction runs two alternatives in fixed order: international
// numbers first, then local zero-prefixed ones. The first pattern that
// matches anywhere on the page wins, regardless of text position.
var (
	phoneIntlPattern  = regexp.MustCompile(`\+\d[\d\s().\-/]{6,}\d`)
	phoneLocalPattern = regexp.MustCompile(`\b0\d[\d\s\-/]{6,}\d\b`)
	emailPattern      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
)

// returnContact scans the page's visible text for a phone number and an
// email address and reports whatever was found, phone first.
func (s *Session) returnContact() Result {
	text, err := s.visibleText()
	if err != nil {
		return Result{
			Success:     false,
			Message:     "Не успях да прочета страницата.",
			Observation: s.observe(),
		}
	}

	phone := strings.TrimSpace(phoneIntlPattern.FindString(text))
	if phone == "" {
		phone = strings.TrimSpace(phoneLocalPattern.FindString(text))
	}
	email := emailPattern.FindString(text)

	var parts []string
	if phone != "" {
		parts = append(parts, "Телефон: "+phone)
	}
	if email != "" {
		parts = append(parts, "Имейл: "+email)
	}

	if len(parts) == 0 {
		return Result{
			Success:     false,
			Message:     "Не открих телефон или имейл на страницата.",
			Observation: s.observe(),
		}
	}

	return Result{
		Success:     true,
		Message:     strings.Join(parts, ". "),
		Observation: s.observe(),
	}
}
