package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spottheai/internal/core"
	"spottheai/internal/dom"
	"spottheai/internal/observer"
	"spottheai/internal/oracle"
	"spottheai/internal/playback"
	"spottheai/internal/site"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <saved-page.html>",
	Short: "Run the extraction and skip-control discovery against a saved page",
	Long: `inspect parses a saved web player page and reports which track the site profile
extracts and which skip control it would click. Use it to tune a --sites-file.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("site", "", "Site profile name (spotify, deezer, youtube-music or a --sites-file profile)")
	inspectCmd.Flags().String("url", "", "Page URL used to pick the site profile when --site is not set")
	inspectCmd.Flags().Bool("check", false, "Also check the extracted artist against the configured blacklist")
}

func runInspect(cmd *cobra.Command, args []string) error {
	registry, err := loadSites(config.Monitor.SitesFile)
	if err != nil {
		return err
	}

	profile, err := inspectProfile(cmd, registry)
	if err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	defer file.Close()

	doc, err := dom.NewHTMLDocument(file)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	obs, err := observer.ForProfile(profile, doc, logger.Named("inspect"))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Profile: %s\n", profile.Name)
	snapshot, ok := obs.Sample(ctx)
	if ok {
		fmt.Fprintf(out, "Track:   %s - %s\n", snapshot.Artist, snapshot.Track)
		fmt.Fprintf(out, "Key:     %s\n", snapshot.ArtistKey())
	} else {
		fmt.Fprintln(out, "Track:   not found")
	}

	controller := playback.NewDOMController(profile, doc, logger.Named("inspect"))
	switch err := controller.Advance(ctx); {
	case errors.Is(err, core.ErrControlNotFound):
		fmt.Fprintln(out, "Skip:    no control found")
	case err != nil:
		return err
	default:
		for _, clicked := range doc.Clicks() {
			fmt.Fprintf(out, "Skip:    %s\n", clicked)
		}
	}

	check, _ := cmd.Flags().GetBool("check")
	if !check || !ok {
		return nil
	}
	return inspectVerdict(ctx, cmd, snapshot)
}

func inspectProfile(cmd *cobra.Command, registry *site.Registry) (*site.Profile, error) {
	name, _ := cmd.Flags().GetString("site")
	if name != "" {
		profile, found := registry.Lookup(name)
		if !found {
			return nil, fmt.Errorf("%w: %s", site.ErrNoProfile, name)
		}
		return profile, nil
	}

	pageURL, _ := cmd.Flags().GetString("url")
	if pageURL == "" {
		return nil, fmt.Errorf("either --site or --url is required")
	}
	return registry.Match(pageURL)
}

func inspectVerdict(ctx context.Context, cmd *cobra.Command, snapshot core.TrackSnapshot) error {
	if err := validateOracleConfig(&config.Oracle); err != nil {
		return err
	}
	blacklist, closeOracle, err := oracle.Open(&config.Oracle, logger.Named("oracle"))
	if err != nil {
		return err
	}
	defer func() { _ = closeOracle() }()

	verdict, err := blacklist.CheckArtist(ctx, snapshot.Artist)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if verdict.Blocked {
		fmt.Fprintf(out, "Verdict: blocked (%s)\n", verdict.Source)
	} else {
		fmt.Fprintln(out, "Verdict: clean")
	}
	return nil
}
