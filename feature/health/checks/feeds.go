package checks

import (
	"net/url"

	"booking-sync/core/booking"
)

// FeedReport lists the state of each expected calendar feed.
type FeedReport struct {
	OK    bool              `json:"ok"`
	Feeds map[string]string `json:"feeds"` // platform -> "ok", "missing", "invalid url"
}

// ExpectedPlatforms are the platforms a complete deployment imports.
var ExpectedPlatforms = []booking.Channel{booking.ChannelAirbnb, booking.ChannelBookingDotCom}

// CheckFeeds verifies that every expected platform has a usable feed URL.
func CheckFeeds(feeds []booking.FeedDescriptor) FeedReport {
	report := FeedReport{OK: true, Feeds: make(map[string]string)}

	configured := make(map[booking.Channel]string, len(feeds))
	for _, f := range feeds {
		configured[f.Platform] = f.URL
	}

	for _, p := range ExpectedPlatforms {
		raw, ok := configured[p]
		switch {
		case !ok || raw == "":
			report.Feeds[string(p)] = "missing"
			report.OK = false
		case !validURL(raw):
			report.Feeds[string(p)] = "invalid url"
			report.OK = false
		default:
			report.Feeds[string(p)] = "ok"
		}
	}
	return report
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
