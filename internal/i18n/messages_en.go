package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Skip banner
	"banner.skipped":        "Skipped AI artist (%s):",
	"banner.track":          "%s - %s",
	"banner.unknown_source": "blacklist",

	// Log notifier
	"log.skipped": "Skipped AI artist (%s): %s - %s",

	// API errors
	"error.unknown_page":       "Unknown page: %s",
	"error.invalid_request":    "Invalid request body",
	"error.artist_required":    "Artist is required",
	"error.oracle_unavailable": "Blacklist service unavailable",
	"error.method_not_allowed": "Method not allowed",
	"error.rate_limited":       "Too many skip requests, try again later",

	// Status page
	"status.title":       "Spot The AI",
	"status.no_pages":    "No pages are being monitored.",
	"status.nothing":     "Nothing playing",
	"status.suppressed":  "Cooling down after a skip",
	"status.last_clean":  "Last clean artist: %s",
	"status.now_playing": "Now playing: %s - %s",
}
