package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// touch records activity on the session.
func (s *Session) touch() {
	s.lastActivity.Store(time.Now().UnixNano())
}

// LastActive returns the time of the most recent operation on this session.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// navigate drives the page to url, waits for the DOM and a settle delay,
// and records the landing URL.
func (s *Session) navigate(url string) error {
	_, err := s.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(NavigationTimeout),
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.Page.WaitForTimeout(SettleDelay)
	s.CurrentURL = s.Page.URL()
	return nil
}

// alive probes the page with a trivial script. A crashed page or a dead
// context surfaces as an evaluate error.
func (s *Session) alive() bool {
	if s.Page == nil || s.Page.IsClosed() {
		return false
	}
	_, err := s.Page.Evaluate("() => true")
	return err == nil
}

// visibleText returns the page's rendered text content.
func (s *Session) visibleText() (string, error) {
	text, err := s.Page.InnerText("body", playwright.PageInnerTextOptions{
		Timeout: playwright.Float(ActionTimeout),
	})
	if err != nil {
		return "", fmt.Errorf("failed to read page text: %w", err)
	}
	return text, nil
}

// closeResources releases the page and context. Both closes are attempted
// regardless of individual failures; a dead browser makes them fail
// routinely during recovery.
func (s *Session) closeResources() error {
	var errs []error
	if s.Page != nil {
		if err := s.Page.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Context != nil {
		if err := s.Context.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing session resources: %v", errs)
	}
	return nil
}
