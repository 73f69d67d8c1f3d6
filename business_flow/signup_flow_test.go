package businessflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsernamePattern(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{"plain lowercase", "amir", true},
		{"digits allowed", "user42", true},
		{"single character", "x", true},
		{"hyphen inside", "my-page", true},
		{"underscore inside", "my_page", true},
		{"max length 30", strings.Repeat("a", 30), true},
		{"too long", strings.Repeat("a", 31), false},
		{"two characters", "ab", false},
		{"leading hyphen", "-page", false},
		{"trailing hyphen", "page-", false},
		{"uppercase rejected", "Amir", false},
		{"spaces rejected", "my page", false},
		{"dots rejected", "my.page", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, usernamePattern.MatchString(tt.username))
		})
	}
}

func TestReservedUsernames(t *testing.T) {
	for _, name := range []string{"api", "admin", "dashboard", "metrics", "health"} {
		assert.True(t, reservedUsernames[name], "expected %q to be reserved", name)
	}
	assert.False(t, reservedUsernames["amir"])
}

func TestSanitizeNextPath(t *testing.T) {
	tests := []struct {
		name     string
		next     string
		expected string
	}{
		{"empty falls back", "", "/dashboard"},
		{"relative path kept", "/settings/profile", "/settings/profile"},
		{"absolute url rejected", "https://evil.example.com", "/dashboard"},
		{"scheme-relative rejected", "//evil.example.com", "/dashboard"},
		{"missing leading slash rejected", "settings", "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeNextPath(tt.next))
		})
	}
}
