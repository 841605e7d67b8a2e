package site

// Built-in profile names.
const (
	SpotifyProfile      = "spotify"
	DeezerProfile       = "deezer"
	YouTubeMusicProfile = "youtube-music"
)

const (
	spotifyGreen = "#1DB954"
	youtubeRed   = "#FF0000"
)

var mediaSession = Strategy{Name: "media-session", Kind: KindMediaSession}

// Spotify returns the Spotify Web Player profile.
func Spotify() *Profile {
	return &Profile{
		Name:  SpotifyProfile,
		Hosts: []string{"open.spotify.com"},
		Strategies: []Strategy{
			{
				Name:      "now-playing-widget",
				Kind:      KindScoped,
				Container: `[data-testid="now-playing-widget"]`,
				Track:     `a[data-testid="context-item-link"]`,
				Artist:    `a[href^="/artist"]`,
			},
			{
				Name:   "footer",
				Kind:   KindPair,
				Track:  `[data-testid="context-item-link"]`,
				Artist: `[data-testid="context-item-info-subtitles"] a`,
			},
			{
				Name:      "now-playing-bar",
				Kind:      KindScoped,
				Container: `[data-testid="now-playing-bar"], .now-playing-bar`,
				Track:     `a[href^="/track"], a[href^="/album"]`,
				Artist:    `a[href^="/artist"]`,
			},
			mediaSession,
		},
		SkipSelectors: []string{
			`[data-testid="control-button-skip-forward"]`,
			`button[aria-label="Next"]`,
			`button[aria-label="Suivant"]`,
		},
		BannerColor: spotifyGreen,
	}
}

// Deezer returns the Deezer web player profile.
func Deezer() *Profile {
	return &Profile{
		Name:  DeezerProfile,
		Hosts: []string{"deezer.com"},
		Strategies: []Strategy{
			{
				Name:   "player-bar",
				Kind:   KindPair,
				Track:  `.track-link[data-testid="track_playing_title"]`,
				Artist: `.track-link[data-testid="track_playing_artist"]`,
			},
			{
				Name:   "player-track",
				Kind:   KindPair,
				Track:  `.player-track-title a, .track-title a`,
				Artist: `.player-track-artist a, .track-artist a`,
			},
			{
				Name:   "slider",
				Kind:   KindPair,
				Track:  `.slider-track-title, [class*="TrackTitle"]`,
				Artist: `.slider-track-artists a, [class*="TrackArtist"] a`,
			},
			{
				Name:      "page-player",
				Kind:      KindScoped,
				Container: `#page_player, .page-player`,
				Track:     `[class*="title"] a, [class*="Title"] a`,
				Artist:    `[class*="artist"] a, [class*="Artist"] a`,
			},
			mediaSession,
		},
		SkipSelectors: []string{
			`[data-testid="player_next_button"]`,
			`button[aria-label="Next"]`,
			`button[aria-label="Suivant"]`,
			`.svg-icon-group-btn[aria-label*="next"]`,
			`.svg-icon-group-btn[aria-label*="Next"]`,
			`button[class*="next"]`,
		},
		BannerColor: spotifyGreen,
	}
}

// YouTubeMusic returns the YouTube Music profile.
func YouTubeMusic() *Profile {
	return &Profile{
		Name:  YouTubeMusicProfile,
		Hosts: []string{"music.youtube.com"},
		Strategies: []Strategy{
			{
				Name:   "player-bar",
				Kind:   KindPair,
				Track:  `.title.ytmusic-player-bar`,
				Artist: `.byline.ytmusic-player-bar a`,
			},
			{
				Name:   "subtitle",
				Kind:   KindPair,
				Track:  `yt-formatted-string.title`,
				Artist: `yt-formatted-string.byline a, span.subtitle a`,
			},
			{
				Name:   "mini-player",
				Kind:   KindPair,
				Track:  `.content-info-wrapper .title`,
				Artist: `.content-info-wrapper .byline a`,
			},
			{
				Name:      "player-controls",
				Kind:      KindScoped,
				Container: `ytmusic-player-bar`,
				Track:     `.title`,
				Artist:    `.byline a`,
			},
			mediaSession,
		},
		SkipSelectors: []string{
			`.next-button`,
			`tp-yt-paper-icon-button.next-button`,
			`[aria-label="Next"]`,
			`[aria-label="Suivant"]`,
			`[title="Next"]`,
			`[title="Suivant"]`,
			`.ytmusic-player-bar button[aria-label*="next" i]`,
			`button.next-button`,
		},
		LabelScan:   `ytmusic-player-bar button, tp-yt-paper-icon-button`,
		SkipLabels:  []string{"next", "suivant"},
		BannerColor: youtubeRed,
	}
}

// Builtin returns fresh copies of every built-in profile.
func Builtin() []*Profile {
	return []*Profile{Spotify(), Deezer(), YouTubeMusic()}
}
