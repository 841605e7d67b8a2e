package i18n

// frenchMessages contains all French translations.
var frenchMessages = map[string]string{
	// Skip banner
	"banner.skipped":        "Artiste IA ignoré (%s) :",
	"banner.track":          "%s - %s",
	"banner.unknown_source": "liste noire",

	// Log notifier
	"log.skipped": "Artiste IA ignoré (%s) : %s - %s",

	// API errors
	"error.unknown_page":       "Page inconnue : %s",
	"error.invalid_request":    "Corps de requête invalide",
	"error.artist_required":    "L'artiste est obligatoire",
	"error.oracle_unavailable": "Service de liste noire indisponible",
	"error.method_not_allowed": "Méthode non autorisée",
	"error.rate_limited":       "Trop de demandes de saut, réessayez plus tard",

	// Status page
	"status.title":       "Spot The AI",
	"status.no_pages":    "Aucune page n'est surveillée.",
	"status.nothing":     "Rien en lecture",
	"status.suppressed":  "Pause après un saut",
	"status.last_clean":  "Dernier artiste vérifié : %s",
	"status.now_playing": "En lecture : %s - %s",
}
