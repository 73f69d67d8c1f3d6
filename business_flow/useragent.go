package businessflow

import (
	"strings"

	"github.com/silovra/silovra-backend/models"
)

// ClassifyDevice maps a User-Agent string to a coarse device class. The
// explicit "tablet" marker wins over phone markers so Android tablets are
// not counted as phones.
func ClassifyDevice(userAgent string) string {
	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "tablet") {
		return models.DeviceTablet
	}
	for _, marker := range []string{"mobile", "android", "iphone", "ipad", "ipod"} {
		if strings.Contains(ua, marker) {
			return models.DeviceMobile
		}
	}
	return models.DeviceDesktop
}

// ClassifyBrowser maps a User-Agent string to a browser family. Order
// matters: Edge embeds "chrome" and Chrome embeds "safari".
func ClassifyBrowser(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "edg"):
		return "Edge"
	case strings.Contains(ua, "chrome"):
		return "Chrome"
	case strings.Contains(ua, "safari"):
		return "Safari"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr"):
		return "Opera"
	default:
		return "Other"
	}
}
