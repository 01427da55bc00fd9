package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardAllowsEverythingByDefault(t *testing.T) {
	g, err := NewNavigationGuard(nil, nil)
	require.NoError(t, err)

	assert.True(t, g.Allows("https://hotel.example/rooms"))
	assert.True(t, g.Allows("http://127.0.0.1:8080/"))
}

func TestGuardRejectsHostlessURLs(t *testing.T) {
	g, err := NewNavigationGuard(nil, nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		url  string
	}{
		{name: "bare path", url: "just-a-path"},
		{name: "data url", url: "data:text/html,<h1>hi</h1>"},
		{name: "file url", url: "file:///etc/passwd"},
		{name: "unparseable", url: "://bad"},
		{name: "empty", url: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, g.Allows(tt.url))
		})
	}
}

func TestGuardAllowedListRestricts(t *testing.T) {
	g, err := NewNavigationGuard([]string{"*.example", "hotel.bg"}, nil)
	require.NoError(t, err)

	assert.True(t, g.Allows("https://hotel.example/"))
	assert.True(t, g.Allows("https://hotel.bg/rooms"))
	assert.False(t, g.Allows("https://elsewhere.com/"))
}

func TestGuardDeniedTakesPrecedence(t *testing.T) {
	g, err := NewNavigationGuard([]string{"*.example"}, []string{"evil.example"})
	require.NoError(t, err)

	assert.False(t, g.Allows("https://evil.example/"))
	assert.True(t, g.Allows("https://good.example/"))
}

func TestGuardMatchesHostsCaseInsensitively(t *testing.T) {
	g, err := NewNavigationGuard([]string{"Hotel.BG"}, nil)
	require.NoError(t, err)

	assert.True(t, g.Allows("https://HOTEL.bg/path"))
}

func TestGuardRejectsInvalidPattern(t *testing.T) {
	_, err := NewNavigationGuard([]string{"["}, nil)
	assert.Error(t, err)

	_, err = NewNavigationGuard(nil, []string{"["})
	assert.Error(t, err)
}
