package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/silovra/silovra-backend/models"
)

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		expected  string
	}{
		{
			name:      "desktop chrome",
			userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			expected:  models.DeviceDesktop,
		},
		{
			name:      "iphone",
			userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148",
			expected:  models.DeviceMobile,
		},
		{
			name:      "android phone",
			userAgent: "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Mobile Safari/537.36",
			expected:  models.DeviceMobile,
		},
		{
			name:      "android tablet keeps tablet class",
			userAgent: "Mozilla/5.0 (Linux; Android 13; SM-X710 Tablet) AppleWebKit/537.36 Safari/537.36",
			expected:  models.DeviceTablet,
		},
		{
			name:      "ipod",
			userAgent: "Mozilla/5.0 (iPod touch; CPU iPhone OS 15_0 like Mac OS X)",
			expected:  models.DeviceMobile,
		},
		{
			name:      "empty user agent",
			userAgent: "",
			expected:  models.DeviceDesktop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyDevice(tt.userAgent))
		})
	}
}

func TestClassifyBrowser(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		expected  string
	}{
		{
			name:      "firefox",
			userAgent: "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			expected:  "Firefox",
		},
		{
			name:      "edge wins over embedded chrome token",
			userAgent: "Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 Chrome/120.0 Safari/537.36 Edg/120.0",
			expected:  "Edge",
		},
		{
			name:      "chrome wins over embedded safari token",
			userAgent: "Mozilla/5.0 (Macintosh) AppleWebKit/537.36 Chrome/120.0 Safari/537.36",
			expected:  "Chrome",
		},
		{
			name:      "safari",
			userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15",
			expected:  "Safari",
		},
		{
			name:      "opera via opr token",
			userAgent: "Mozilla/5.0 (X11; Linux x86_64) OPR/106.0",
			expected:  "Opera",
		},
		{
			name:      "unknown client",
			userAgent: "curl/8.4.0",
			expected:  "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyBrowser(tt.userAgent))
		})
	}
}
