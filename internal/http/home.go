package http

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"spottheai/internal/core"
)

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
        .page { margin: 16px 0; padding: 8px 12px; border-left: 4px solid #1DB954; }
        .state { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <h1 class="header">{{.Title}}</h1>
    <p>Skips tracks by blacklisted AI artists on Spotify, Deezer and YouTube Music</p>

    <h2>Endpoints</h2>
    <div class="endpoint"><a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint"><a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint"><a href="/readyz">Ready</a> - Readiness check</div>
    <div class="endpoint"><a href="/api/pages">Pages</a> - Monitored pages</div>

    <h2>Pages</h2>
    {{- if not .Pages}}
    <p>{{.NoPages}}</p>
    {{- end}}
    {{- range .Pages}}
    <div class="page">
        <strong>{{.Name}}</strong> ({{.Site}}) <span class="state">{{.State}}</span>
        <div>{{.Playing}}</div>
        {{- if .Detail}}
        <div class="state">{{.Detail}}</div>
        {{- end}}
    </div>
    {{- end}}
</body>
</html>`))

type homeData struct {
	Title   string
	NoPages string
	Pages   []homePage
}

type homePage struct {
	Name    string
	Site    string
	State   string
	Playing string
	Detail  string
}

func (s *Server) homeHandler(w http.ResponseWriter, _ *http.Request) {
	data := homeData{
		Title:   s.t("status.title"),
		NoPages: s.t("status.no_pages"),
	}
	if pages := s.attachedPages(); pages != nil {
		for _, status := range pages.Statuses() {
			data.Pages = append(data.Pages, s.homePage(status))
		}
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	if err := homeTemplate.Execute(w, data); err != nil {
		s.logger.Debug("Failed to render home page", zap.Error(err))
	}
}

func (s *Server) homePage(status core.PageStatus) homePage {
	page := homePage{
		Name:    status.Name,
		Site:    status.Site,
		State:   status.State,
		Playing: s.t("status.nothing"),
	}
	if status.Current != nil {
		page.Playing = s.t("status.now_playing", status.Current.Artist, status.Current.Track)
	}
	switch {
	case status.SuppressedUntil != nil:
		page.Detail = s.t("status.suppressed")
	case status.LastCheckedArtistKey != "":
		page.Detail = s.t("status.last_clean", status.LastCheckedArtistKey)
	}
	return page
}
