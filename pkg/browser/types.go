package browser

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/stayflow/concierge/pkg/intent"
	"github.com/stayflow/concierge/pkg/site"
)

// Session is one warm browser session bound to a single website. The page
// and context are exclusively owned by the session and must only be touched
// while holding its mutex.
type Session struct {
	// ID is the site identifier this session serves
	ID string

	// Context is the isolated browser context owned by this session
	Context playwright.BrowserContext

	// Page is the single page the session drives
	Page playwright.Page

	// Desc is the normalized site description commands are matched against
	Desc *site.Description

	// Derived marks descriptions synthesized from the live page rather
	// than supplied by a crawler
	Derived bool

	// CreatedAt is when the session was prepared
	CreatedAt time.Time

	// CurrentURL tracks the page's last known location
	CurrentURL string

	// lastActivity is unix nanoseconds of the most recent operation,
	// atomic so eviction scans can read it without the session mutex
	lastActivity atomic.Int64

	// mu serializes all operations for this site id
	mu sync.Mutex

	// closed marks the session's resources as released; guarded by mu
	closed bool

	logger *zap.Logger
}

// Result is the outcome of one executed command. Failures are reported
// through the success flag and a natural-language message; errors never
// cross the command boundary.
type Result struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Observation *Observation `json:"observation,omitempty"`
}

// Observation is a compact snapshot of the current page state attached to
// most results.
type Observation struct {
	Title           string   `json:"title,omitempty"`
	Prices          []string `json:"prices,omitempty"`
	HasAvailability bool     `json:"has_availability"`
	NoAvailability  bool     `json:"no_availability"`
	Excerpt         string   `json:"excerpt,omitempty"`
}

// InteractRequest is the single-shot command: a free-text message against a
// site URL, with an optional session identifier for reuse across calls.
type InteractRequest struct {
	URL       string              `json:"url"`
	Message   string              `json:"message"`
	SessionID string              `json:"session_id,omitempty"`
	Data      *intent.BookingData `json:"data,omitempty"`
}

// InteractResult extends Result with the single-shot response fields.
type InteractResult struct {
	Result
	ActionTaken string   `json:"action_taken,omitempty"`
	SessionID   string   `json:"session_id,omitempty"`
	Logs        []string `json:"logs"`
}

// StatusReport describes the manager's current state.
type StatusReport struct {
	Ready         bool     `json:"ready"`
	SessionCount  int      `json:"session_count"`
	MaxSessions   int      `json:"max_sessions"`
	ActiveIDs     []string `json:"active_ids"`
	UptimeSeconds float64  `json:"uptime"`
}

// Fixed operation timings. Individual page primitives get short timeouts so
// a missing element fails fast instead of stalling the command.
const (
	// NavigationTimeout bounds full page loads (milliseconds)
	NavigationTimeout = 15000.0

	// ActionTimeout bounds clicks and other single interactions (milliseconds)
	ActionTimeout = 2500.0

	// FillTimeout bounds one fill attempt on one selector (milliseconds)
	FillTimeout = 2000.0

	// SettleDelay is waited after navigations and activations so late
	// scripts can finish rendering (milliseconds)
	SettleDelay = 1500.0
)
