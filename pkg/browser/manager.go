package browser

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stayflow/concierge/pkg/config"
	"github.com/stayflow/concierge/pkg/intent"
	"github.com/stayflow/concierge/pkg/site"
)

// User-facing failure messages. Everything a command returns is natural
// language; internal errors never cross the boundary.
const (
	msgUnready        = "Системата още не е готова. Опитайте отново след малко."
	msgRecoveryFailed = "Сесията беше прекъсната и не успя да се възстанови. Подгответе я отново."
	msgOpenFailed     = "Не успях да отворя сайта."
	msgMissingURL     = "Липсва адрес на сайта."
)

func msgNoSession(id string) string {
	return fmt.Sprintf("Няма активна сесия за „%s“.", id)
}

// SessionManager owns the shared Chromium engine and all warm sessions.
// There is one manager per process; construct it explicitly, initialize it
// once, and shut it down when done.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	playwright  *playwright.Playwright
	browser     playwright.Browser
	initialized bool

	cfg   *config.Config
	guard *NavigationGuard

	logger        *zap.Logger
	sessionLogger *zap.Logger

	startedAt time.Time

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// NewSessionManager builds a manager from configuration. A nil config uses
// the defaults and a nil logger discards output.
func NewSessionManager(cfg *config.Config, logger *zap.Logger) (*SessionManager, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	guard, err := NewNavigationGuard(cfg.Guard.AllowedHosts, cfg.Guard.DeniedHosts)
	if err != nil {
		return nil, fmt.Errorf("failed to build navigation guard: %w", err)
	}

	return &SessionManager{
		sessions:      make(map[string]*Session),
		cfg:           cfg,
		guard:         guard,
		logger:        logger.Named("manager"),
		sessionLogger: logger.Named("session"),
		startedAt:     time.Now(),
	}, nil
}

// Initialize installs and starts the Playwright driver and launches the
// shared Chromium instance. Must be called before any command; calling it
// again after a successful run is a no-op.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Driver output is discarded; the service logs through zap.
	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.cfg.Browser.Headless),
		Args:     m.cfg.Browser.Args,
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	m.playwright = pw
	m.browser = browser
	m.initialized = true
	m.startSweeperLocked()

	m.logger.Info("browser engine started",
		zap.Bool("headless", m.cfg.Browser.Headless),
		zap.Int("max_sessions", m.cfg.Sessions.Max))
	return nil
}

// Prepare opens a warm session for a site id: a fresh context and page
// navigated to the described site. An existing session for the id is
// replaced wholesale; at capacity the session with the oldest activity is
// evicted first. Returns false on any failure, after rolling back partial
// resources.
func (m *SessionManager) Prepare(id string, desc *site.Description) bool {
	log := m.logger.With(zap.String("site_id", id))

	if strings.TrimSpace(id) == "" {
		log.Warn("prepare rejected: empty site id")
		return false
	}
	if err := desc.Validate(); err != nil {
		log.Warn("prepare rejected: invalid description", zap.Error(err))
		return false
	}
	if err := m.ensureReady(); err != nil {
		log.Warn("prepare rejected: engine not ready", zap.Error(err))
		return false
	}

	d := desc.Normalized()
	target := normalizeURL(d.URL)
	if !m.guard.Allows(target) {
		log.Warn("prepare rejected: navigation blocked", zap.String("url", target))
		return false
	}

	sess := m.insertShell(id)
	sess.Desc = d

	context, page, err := m.newContextPage()
	if err != nil {
		log.Error("failed to open session resources", zap.Error(err))
		m.discardShell(sess)
		return false
	}
	sess.Context = context
	sess.Page = page

	if err := sess.navigate(target); err != nil {
		log.Error("failed to reach site", zap.String("url", target), zap.Error(err))
		m.discardShell(sess)
		return false
	}

	sess.touch()
	sess.mu.Unlock()
	log.Info("session prepared", zap.String("url", sess.CurrentURL))
	return true
}

// Execute runs one intent command against the warm session for id. The
// session's liveness is probed first and rebuilt once transparently when
// the probe fails; a second failure aborts the command.
func (m *SessionManager) Execute(id string, keywords []string, data *intent.BookingData) Result {
	if err := m.ensureReady(); err != nil {
		return Result{Success: false, Message: msgUnready}
	}

	sess := m.lockSession(id)
	if sess == nil {
		return Result{Success: false, Message: msgNoSession(id)}
	}
	defer sess.mu.Unlock()

	if res, ok := m.ensureAliveLocked(sess); !ok {
		return res
	}

	sess.touch()
	act := intent.Match(keywords, data, sess.Desc)
	sess.logger.Debug("action matched",
		zap.String("action", string(act.Kind)),
		zap.Strings("keywords", keywords))

	res := m.runAction(sess, act, data)
	sess.touch()
	return res
}

// Interact is the single-shot path: a free-text message against a site URL.
// When no warm session exists for the caller's identifier, one is
// synthesized by navigating to the site and deriving a description from the
// live page. The response carries the matched action and progress log lines
// alongside the usual result.
func (m *SessionManager) Interact(req InteractRequest) InteractResult {
	logs := make([]string, 0, 6)

	id := strings.TrimSpace(req.SessionID)
	if id == "" {
		id = uuid.NewString()
		logs = append(logs, "generated session id "+id)
	}

	if err := m.ensureReady(); err != nil {
		logs = append(logs, "engine not ready: "+err.Error())
		return InteractResult{Result: Result{Message: msgUnready}, SessionID: id, Logs: logs}
	}

	sess := m.lockSession(id)
	if sess != nil {
		logs = append(logs, "reusing warm session "+id)
	} else {
		if strings.TrimSpace(req.URL) == "" {
			logs = append(logs, "no url provided for a new session")
			return InteractResult{Result: Result{Message: msgMissingURL}, SessionID: id, Logs: logs}
		}
		var err error
		sess, err = m.synthesize(id, req.URL, &logs)
		if err != nil {
			logs = append(logs, "session synthesis failed: "+err.Error())
			return InteractResult{Result: Result{Message: msgOpenFailed}, SessionID: id, Logs: logs}
		}
	}
	defer sess.mu.Unlock()

	if res, ok := m.ensureAliveLocked(sess); !ok {
		logs = append(logs, "session recovery failed")
		return InteractResult{Result: res, SessionID: id, Logs: logs}
	}

	sess.touch()
	keywords := intent.Tokenize(req.Message)
	act := intent.Match(keywords, req.Data, sess.Desc)
	logs = append(logs, "matched action "+string(act.Kind))

	res := m.runAction(sess, act, req.Data)
	sess.touch()
	return InteractResult{
		Result:      res,
		ActionTaken: string(act.Kind),
		SessionID:   id,
		Logs:        logs,
	}
}

// Close releases the session for id. Absent ids are a no-op; resource close
// failures are swallowed.
func (m *SessionManager) Close(id string) {
	m.mu.Lock()
	sess := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if sess != nil {
		_ = m.closeSession(sess, "closed")
	}
}

// Status reports the manager's current state.
func (m *SessionManager) Status() StatusReport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return StatusReport{
		Ready:         m.initialized,
		SessionCount:  len(m.sessions),
		MaxSessions:   m.cfg.Sessions.Max,
		ActiveIDs:     ids,
		UptimeSeconds: time.Since(m.startedAt).Seconds(),
	}
}

// Shutdown stops the sweeper, closes every session concurrently, and tears
// down the browser and the Playwright driver. Safe to call more than once.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return nil
	}
	m.initialized = false

	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.sessions = make(map[string]*Session)

	pw := m.playwright
	browser := m.browser
	m.playwright = nil
	m.browser = nil

	stop, done := m.sweepStop, m.sweepDone
	m.sweepStop, m.sweepDone = nil, nil
	m.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	g := new(errgroup.Group)
	for _, sess := range sessions {
		sess := sess // per-iteration copy; required while go.mod targets pre-1.22 loop semantics
		g.Go(func() error {
			return m.closeSession(sess, "shutdown")
		})
	}
	closeErr := g.Wait()

	if browser != nil {
		if err := browser.Close(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to close browser: %w", err)
		}
	}
	if pw != nil {
		if err := pw.Stop(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to stop playwright: %w", err)
		}
	}

	m.logger.Info("shutdown complete", zap.Int("sessions_closed", len(sessions)))
	return closeErr
}

// CleanupIdleSessions closes every session idle past the configured
// timeout. Called periodically by the sweeper and usable directly.
func (m *SessionManager) CleanupIdleSessions() {
	idleTimeout := time.Duration(m.cfg.Sessions.IdleTimeout) * time.Second
	now := time.Now()

	m.mu.Lock()
	var expired []*Session
	for id, sess := range m.sessions {
		if now.Sub(sess.LastActive()) > idleTimeout {
			delete(m.sessions, id)
			expired = append(expired, sess)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		_ = m.closeSession(sess, "idle")
	}
}

// runAction dispatches the matched action to its executor.
func (m *SessionManager) runAction(sess *Session, act intent.Action, data *intent.BookingData) Result {
	switch act.Kind {
	case intent.FillForm:
		return sess.fillForm(act.Form, data)
	case intent.Click:
		return sess.click(act.Selector, act.Label)
	case intent.ReturnPrices:
		return sess.returnPrices()
	case intent.ReturnContact:
		return sess.returnContact()
	case intent.Navigate:
		target := normalizeURL(act.URL)
		if !m.guard.Allows(target) {
			return Result{Success: false, Message: fmt.Sprintf("Навигацията към %s не е разрешена.", target)}
		}
		return sess.navigateAction(target)
	default:
		return sess.observeResult()
	}
}

// synthesize opens a session for a single-shot request: navigate to the
// URL, then derive a description from the live page. The returned session's
// mutex is held.
func (m *SessionManager) synthesize(id, rawURL string, logs *[]string) (*Session, error) {
	target := normalizeURL(rawURL)
	if !m.guard.Allows(target) {
		return nil, fmt.Errorf("navigation to %s blocked", target)
	}

	sess := m.insertShell(id)

	context, page, err := m.newContextPage()
	if err != nil {
		m.discardShell(sess)
		return nil, err
	}
	sess.Context = context
	sess.Page = page

	if err := sess.navigate(target); err != nil {
		m.discardShell(sess)
		return nil, err
	}
	*logs = append(*logs, "opened "+target)

	desc := sess.deriveDescription(id)
	sess.Desc = desc
	sess.Derived = true
	*logs = append(*logs, fmt.Sprintf("derived site description: %d buttons, %d prices",
		len(desc.Buttons), len(desc.Prices)))

	sess.touch()
	sess.logger.Info("session synthesized", zap.String("url", sess.CurrentURL))
	return sess, nil
}

// ensureAliveLocked verifies the session's page still responds, rebuilding
// its context once with the stored description when it does not. A second
// failure removes the session and aborts. The caller holds the session
// mutex.
func (m *SessionManager) ensureAliveLocked(sess *Session) (Result, bool) {
	if sess.alive() {
		return Result{}, true
	}

	sess.logger.Warn("session failed liveness probe, rebuilding")
	if err := m.reviveLocked(sess); err != nil {
		sess.logger.Error("session recovery failed", zap.Error(err))
		m.removeEntry(sess)
		_ = sess.closeResources()
		sess.closed = true
		return Result{Success: false, Message: msgRecoveryFailed}, false
	}

	sess.logger.Info("session recovered")
	return Result{}, true
}

// reviveLocked rebuilds the session's context and page and renavigates to
// the described site. The caller holds the session mutex.
func (m *SessionManager) reviveLocked(sess *Session) error {
	_ = sess.closeResources()

	context, page, err := m.newContextPage()
	if err != nil {
		return err
	}
	sess.Context = context
	sess.Page = page

	return sess.navigate(normalizeURL(sess.Desc.URL))
}

// insertShell registers an empty session shell for id, displacing any
// existing entry and, when the store is full, evicting exactly the session
// with the oldest activity. The shell's mutex is held on return so
// concurrent commands for the same id wait until the caller finishes
// attaching resources. The store mutex is never held while a session mutex
// is being acquired.
func (m *SessionManager) insertShell(id string) *Session {
	shell := &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		CurrentURL: "about:blank",
		logger:     m.sessionLogger.With(zap.String("site_id", id)),
	}
	shell.touch()
	shell.mu.Lock()

	m.mu.Lock()
	displaced := m.sessions[id]
	var evicted *Session
	if displaced == nil && len(m.sessions) >= m.cfg.Sessions.Max {
		evicted = m.idlestLocked()
		if evicted != nil {
			delete(m.sessions, evicted.ID)
		}
	}
	m.sessions[id] = shell
	m.mu.Unlock()

	if displaced != nil {
		_ = m.closeSession(displaced, "replaced")
	}
	if evicted != nil {
		m.logger.Info("evicting idlest session at capacity", zap.String("site_id", evicted.ID))
		_ = m.closeSession(evicted, "evicted")
	}
	return shell
}

// discardShell rolls back a half-built session and releases its mutex.
func (m *SessionManager) discardShell(sess *Session) {
	m.removeEntry(sess)
	_ = sess.closeResources()
	sess.closed = true
	sess.mu.Unlock()
}

// removeEntry deletes the session from the store if it is still the
// registered entry for its id.
func (m *SessionManager) removeEntry(sess *Session) {
	m.mu.Lock()
	if m.sessions[sess.ID] == sess {
		delete(m.sessions, sess.ID)
	}
	m.mu.Unlock()
}

// closeSession waits out any in-flight operation on the session, then
// releases its browser resources.
func (m *SessionManager) closeSession(sess *Session, reason string) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed {
		return nil
	}
	sess.closed = true

	err := sess.closeResources()
	if err != nil {
		sess.logger.Debug("session close reported errors",
			zap.String("reason", reason), zap.Error(err))
	} else {
		sess.logger.Info("session closed", zap.String("reason", reason))
	}
	return err
}

// lockSession returns the live session for id with its mutex held, or nil
// when none exists. A session that closed while we waited for its mutex is
// retried once in case a replacement was registered meanwhile.
func (m *SessionManager) lockSession(id string) *Session {
	for attempt := 0; attempt < 2; attempt++ {
		m.mu.RLock()
		sess := m.sessions[id]
		m.mu.RUnlock()
		if sess == nil {
			return nil
		}

		sess.mu.Lock()
		if !sess.closed {
			return sess
		}
		sess.mu.Unlock()
	}
	return nil
}

// idlestLocked returns the session with the oldest activity. The caller
// holds the store mutex.
func (m *SessionManager) idlestLocked() *Session {
	var victim *Session
	for _, sess := range m.sessions {
		if victim == nil || sess.LastActive().Before(victim.LastActive()) {
			victim = sess
		}
	}
	return victim
}

// newContextPage opens an isolated context and page on the shared browser.
func (m *SessionManager) newContextPage() (playwright.BrowserContext, playwright.Page, error) {
	browser, err := m.engine()
	if err != nil {
		return nil, nil, err
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  m.cfg.Browser.ViewportWidth,
			Height: m.cfg.Browser.ViewportHeight,
		},
		Locale:            playwright.String(m.cfg.Browser.Locale),
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		_ = context.Close()
		return nil, nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(ActionTimeout)

	return context, page, nil
}

func (m *SessionManager) ensureReady() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		return fmt.Errorf("session manager not initialized")
	}
	return nil
}

func (m *SessionManager) engine() (playwright.Browser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized || m.browser == nil {
		return nil, fmt.Errorf("browser engine not available")
	}
	return m.browser, nil
}

// startSweeperLocked launches the idle-eviction loop. The caller holds the
// store mutex.
func (m *SessionManager) startSweeperLocked() {
	m.sweepStop = make(chan struct{})
	m.sweepDone = make(chan struct{})
	interval := time.Duration(m.cfg.Sessions.SweepInterval) * time.Second
	go m.sweepLoop(interval, m.sweepStop, m.sweepDone)
}

func (m *SessionManager) sweepLoop(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.CleanupIdleSessions()
		}
	}
}

// normalizeURL prefixes a scheme when the caller omitted one.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}
