package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const sectionRule = "# =============================================================================\n"

type envSection struct {
	title string
	notes []string
	flags []string
}

var envSections = []envSection{
	{
		title: "PAGES - Web player tabs to monitor",
		notes: []string{
			"Spotify (open.spotify.com), Deezer (www.deezer.com) and YouTube Music",
			"(music.youtube.com) are built in. Add other sites with a sites file.",
		},
		flags: []string{"pages", "sites-file"},
	},
	{
		title: "MONITOR - Timing of checks and skips (milliseconds)",
		flags: []string{"poll-interval-ms", "initial-delay-ms", "cooldown-ms", "banner-duration-ms", "disable-banner"},
	},
	{
		title: "BLACKLIST - Where AI artist verdicts come from",
		notes: []string{
			"Backends: list (rule files), sqlite (imported database), http (remote service).",
			"Several backends are chained in order; the first blocked verdict wins.",
		},
		flags: []string{
			"oracle-backend", "blacklist-files", "blacklist-db", "oracle-url", "oracle-retries",
			"oracle-check-timeout-ms", "oracle-cache-size", "oracle-cache-ttl-secs",
		},
	},
	{
		title: "BROWSER - Launch a local browser or attach to a running one",
		notes: []string{
			"Point browser-user-data-dir at a profile where you are logged in to your players.",
		},
		flags: []string{
			"browser-remote-url", "browser-headless", "browser-user-data-dir", "browser-stealth",
			"browser-nav-timeout-secs",
		},
	},
	{
		title: "SPOTIFY WEB API - Optional, skips through the API on Spotify pages",
		notes: []string{
			"Get credentials from https://developer.spotify.com/dashboard",
			"Add the redirect URL below to your Spotify app.",
		},
		flags: []string{"spotify-client-id", "spotify-client-secret", "spotify-redirect-url", "spotify-token-path"},
	},
	{
		title: "HTTP SERVER - Health, metrics, status page and page API",
		flags: []string{"server-host", "server-port", "api-skip-limit-per-minute"},
	},
	{
		title: "APPLICATION",
		flags: []string{"language", "log-level", "log-file"},
	},
}

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString(sectionRule)
	content.WriteString("# spottheai Configuration\n")
	content.WriteString(sectionRule)
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	fmt.Fprintf(&content, "# Format: %s_<SETTING>=value\n", envPrefix)
	content.WriteString("# CLI equivalent: --<setting>\n")
	content.WriteString("#\n\n")

	for _, section := range envSections {
		generateEnvSection(&content, cmd, section)
	}
	generateQuickSetupGuide(&content)

	return content.String()
}

func generateEnvSection(content *strings.Builder, cmd *cobra.Command, section envSection) {
	content.WriteString(sectionRule)
	fmt.Fprintf(content, "# %s\n", section.title)
	content.WriteString(sectionRule)
	for _, note := range section.notes {
		fmt.Fprintf(content, "# %s\n", note)
	}
	fmt.Fprintf(content, "# CLI: --%s\n", strings.Join(section.flags, ", --"))

	for _, name := range section.flags {
		value := getDefaultValueString(cmd, name)
		value = strings.Trim(value, "[]")
		fmt.Fprintf(content, "%s=%s    # %s\n", flagToEnvVar(name), value, flagUsage(cmd, name))
	}
	content.WriteString("\n")
}

func generateQuickSetupGuide(content *strings.Builder) {
	content.WriteString(sectionRule)
	content.WriteString("# QUICK SETUP GUIDE\n")
	content.WriteString(sectionRule)
	content.WriteString("\n")
	content.WriteString("# 1. BLACKLIST:\n")
	content.WriteString("#    - Put one artist per line in a text file, or use YAML/JSON {source, artists}\n")
	fmt.Fprintf(content, "#    - Set %s to the file(s)\n", flagToEnvVar("blacklist-files"))
	content.WriteString("#    - Or import them once: spottheai blacklist import artists.yaml\n")
	content.WriteString("#      and use the sqlite backend\n")
	content.WriteString("\n")
	content.WriteString("# 2. BROWSER:\n")
	content.WriteString("#    - Log in to your player in a dedicated browser profile\n")
	fmt.Fprintf(content, "#    - Set %s to that profile directory\n", flagToEnvVar("browser-user-data-dir"))
	content.WriteString("\n")
	content.WriteString("# 3. TEST CONFIGURATION:\n")
	content.WriteString("#    spottheai inspect saved-page.html --site spotify   # Check extraction offline\n")
	content.WriteString("#    spottheai --log-level=debug                         # Run with debug logging\n")
	content.WriteString("\n")
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}

func flagUsage(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.Usage
	}
	return ""
}
