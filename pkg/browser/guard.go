package browser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// NavigationGuard restricts the hosts sessions may visit. Patterns are
// globs over the lower-cased hostname; denied patterns take precedence and
// an empty allowed list admits everything not denied.
type NavigationGuard struct {
	allowed []glob.Glob
	denied  []glob.Glob
}

// NewNavigationGuard compiles the host patterns.
func NewNavigationGuard(allowed, denied []string) (*NavigationGuard, error) {
	g := &NavigationGuard{}

	for _, pattern := range allowed {
		compiled, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid allowed host pattern %q: %w", pattern, err)
		}
		g.allowed = append(g.allowed, compiled)
	}

	for _, pattern := range denied {
		compiled, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid denied host pattern %q: %w", pattern, err)
		}
		g.denied = append(g.denied, compiled)
	}

	return g, nil
}

// Allows reports whether navigation to rawURL is permitted. URLs without a
// parseable hostname are rejected.
func (g *NavigationGuard) Allows(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}

	for _, pattern := range g.denied {
		if pattern.Match(host) {
			return false
		}
	}

	if len(g.allowed) == 0 {
		return true
	}
	for _, pattern := range g.allowed {
		if pattern.Match(host) {
			return true
		}
	}
	return false
}
