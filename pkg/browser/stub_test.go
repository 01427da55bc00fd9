package browser

import (
	"fmt"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/stayflow/concierge/pkg/config"
	"github.com/stayflow/concierge/pkg/site"
)

// stubPage implements the slice of playwright.Page the session layer
// touches. Methods left to the embedded nil interface panic when called,
// which is exactly what a test wants from an unexpected page operation.
type stubPage struct {
	playwright.Page

	title    string
	bodyText string
	html     string
	location string

	// clickable and fillable restrict which selectors succeed; a nil map
	// lets everything succeed
	clickable map[string]bool
	fillable  map[string]bool

	evaluateErr error
	textErr     error
	contentErr  error
	gotoErr     error
	closeErr    error

	clicks     []string
	fills      map[string]string
	selections map[string][]string
	visits     []string
	waits      []float64
	closedFlag bool
	closeCalls int
}

func newStubPage() *stubPage {
	return &stubPage{
		location:   "https://hotel.example/",
		fills:      make(map[string]string),
		selections: make(map[string][]string),
	}
}

func (p *stubPage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	if p.gotoErr != nil {
		return nil, p.gotoErr
	}
	p.visits = append(p.visits, url)
	p.location = url
	return nil, nil
}

func (p *stubPage) URL() string {
	return p.location
}

func (p *stubPage) Title() (string, error) {
	return p.title, nil
}

func (p *stubPage) Content() (string, error) {
	if p.contentErr != nil {
		return "", p.contentErr
	}
	return p.html, nil
}

func (p *stubPage) InnerText(selector string, options ...playwright.PageInnerTextOptions) (string, error) {
	if p.textErr != nil {
		return "", p.textErr
	}
	return p.bodyText, nil
}

func (p *stubPage) Evaluate(expression string, arg ...interface{}) (interface{}, error) {
	if p.evaluateErr != nil {
		return nil, p.evaluateErr
	}
	return true, nil
}

func (p *stubPage) Click(selector string, options ...playwright.PageClickOptions) error {
	if p.clickable != nil && !p.clickable[selector] {
		return fmt.Errorf("no element matches %s", selector)
	}
	p.clicks = append(p.clicks, selector)
	return nil
}

func (p *stubPage) Fill(selector string, value string, options ...playwright.PageFillOptions) error {
	if p.fillable != nil && !p.fillable[selector] {
		return fmt.Errorf("no element matches %s", selector)
	}
	p.fills[selector] = value
	return nil
}

func (p *stubPage) SelectOption(selector string, values playwright.SelectOptionValues, options ...playwright.PageSelectOptionOptions) ([]string, error) {
	if p.fillable != nil && !p.fillable[selector] {
		return nil, fmt.Errorf("no element matches %s", selector)
	}
	var chosen []string
	if values.Values != nil {
		chosen = *values.Values
	}
	p.selections[selector] = chosen
	return chosen, nil
}

func (p *stubPage) WaitForTimeout(timeout float64) {
	p.waits = append(p.waits, timeout)
}

func (p *stubPage) IsClosed() bool {
	return p.closedFlag
}

func (p *stubPage) Close(options ...playwright.PageCloseOptions) error {
	p.closedFlag = true
	p.closeCalls++
	return p.closeErr
}

func (p *stubPage) SetDefaultTimeout(timeout float64) {}

// stubContext pairs a stub page with a closable context.
type stubContext struct {
	playwright.BrowserContext

	page     *stubPage
	closed   bool
	closeErr error
}

func (c *stubContext) NewPage() (playwright.Page, error) {
	if c.page == nil {
		c.page = newStubPage()
	}
	return c.page, nil
}

func (c *stubContext) Close(options ...playwright.BrowserContextCloseOptions) error {
	c.closed = true
	return c.closeErr
}

// stubBrowser hands out stub contexts so manager flows that open fresh
// sessions run without a real engine. pageSetup, when set, configures each
// freshly minted page.
type stubBrowser struct {
	playwright.Browser

	pageSetup     func(*stubPage)
	newContextErr error

	contexts []*stubContext
	closed   bool
}

func (b *stubBrowser) NewContext(options ...playwright.BrowserNewContextOptions) (playwright.BrowserContext, error) {
	if b.newContextErr != nil {
		return nil, b.newContextErr
	}
	page := newStubPage()
	if b.pageSetup != nil {
		b.pageSetup(page)
	}
	ctx := &stubContext{page: page}
	b.contexts = append(b.contexts, ctx)
	return ctx, nil
}

func (b *stubBrowser) Close(options ...playwright.BrowserCloseOptions) error {
	b.closed = true
	return nil
}

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	m, err := NewSessionManager(config.Default(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return m
}

// markReady flips the manager into the initialized state without starting
// Playwright. Flows that never open new browser resources run fine this way.
func markReady(m *SessionManager) {
	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()
}

// attachStubEngine marks the manager ready and plugs in a stub browser so
// session-opening flows work end to end.
func attachStubEngine(m *SessionManager) *stubBrowser {
	b := &stubBrowser{}
	m.mu.Lock()
	m.initialized = true
	m.browser = b
	m.mu.Unlock()
	return b
}

// injectSession registers a warm session backed by stubs directly in the
// store, bypassing Prepare.
func injectSession(t *testing.T, m *SessionManager, id string, desc *site.Description) (*Session, *stubPage) {
	t.Helper()

	if desc == nil {
		desc = &site.Description{ID: id, URL: "https://" + id + ".example"}
	}
	page := newStubPage()
	sess := &Session{
		ID:         id,
		Context:    &stubContext{page: page},
		Page:       page,
		Desc:       desc.Normalized(),
		CreatedAt:  time.Now(),
		CurrentURL: desc.URL,
		logger:     zaptest.NewLogger(t),
	}
	sess.touch()

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()
	return sess, page
}

// warmDesc is the site fixture manager tests run commands against.
func warmDesc() *site.Description {
	return (&site.Description{
		ID:  "hotel-roza",
		URL: "https://hotel.example",
		Buttons: []site.Button{
			{Text: "Резервирай", Selector: "#book", Kind: site.ButtonBooking, Keywords: []string{"резервация"}},
			{Text: "Контакти", Selector: "#contact", Kind: site.ButtonContact, Keywords: []string{"контакти"}},
		},
		Forms: []site.Form{{
			Selector:       "#availability",
			SubmitSelector: "#check",
			Fields: []site.Field{
				{Name: "checkin", Selector: "#checkin", Type: site.FieldDate, Keywords: []string{"check_in"}},
				{Name: "checkout", Selector: "#checkout", Type: site.FieldDate, Keywords: []string{"check_out"}},
				{Name: "guests", Selector: "#guests", Type: site.FieldSelect, Keywords: []string{"guests"}},
			},
		}},
		Prices: []site.PriceEntry{
			{Text: "120 лв", Context: "Стандартна стая"},
			{Text: "180 лв", Context: "Апартамент"},
		},
	}).Normalized()
}

// buttonsOnlyDesc is warmDesc without the availability form, so booking
// requests resolve to the booking button instead of a form fill.
func buttonsOnlyDesc() *site.Description {
	d := warmDesc()
	d.Forms = nil
	return d
}
