// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/19guess/internal/api/connect"
	"github.com/osa030/19guess/internal/app/filter"
	"github.com/osa030/19guess/internal/app/hint"
	"github.com/osa030/19guess/internal/app/session"
	"github.com/osa030/19guess/internal/app/source"
	"github.com/osa030/19guess/internal/infra/config"
	"github.com/osa030/19guess/internal/infra/lastfm"
	"github.com/osa030/19guess/internal/infra/library"
	"github.com/osa030/19guess/internal/infra/logger"
	"github.com/osa030/19guess/internal/infra/metrics"
	"github.com/osa030/19guess/internal/infra/spotify"
)

var (
	app        = kingpin.New("19guess-server", "19guess playlist guessing game server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	startCmd = app.Command("start", "Start the server (default)").Default()

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available import filters and exit")

	// import command
	importCmd    = app.Command("import", "Copy a source's playlist into the local library")
	importSource = importCmd.Arg("source", "Source display name (default: first available)").String()

	// library commands
	libraryCmd       = app.Command("library", "Manage the local playlist library")
	libraryListCmd   = libraryCmd.Command("list", "List stored playlists").Default()
	libraryDeleteCmd = libraryCmd.Command("delete", "Delete a stored playlist")
	libraryDeleteID  = libraryDeleteCmd.Arg("playlist-id", "Playlist ID").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
		App:    "19guess",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case startCmd.FullCommand():
		err = run(ctx, cfg)
	case importCmd.FullCommand():
		err = importPlaylist(ctx, cfg, *importSource)
	case libraryListCmd.FullCommand():
		err = listLibrary(ctx, cfg)
	case libraryDeleteCmd.FullCommand():
		err = deleteFromLibrary(ctx, cfg, *libraryDeleteID)
	}
	if err != nil {
		zlog.Error().Msgf("%s failed: %v", command, err)
		os.Exit(1)
	}
}

// deps holds the clients shared by the commands.
type deps struct {
	spotify *spotify.Client
	library *library.Store
}

func (d *deps) Close() {
	if d.library != nil {
		if err := d.library.Close(); err != nil {
			zlog.Warn().Msgf("Failed to close library: %v", err)
		}
	}
}

// sourceDeps converts to provider dependencies. Nil clients stay nil
// interfaces so the factory can tell they are missing.
func (d *deps) sourceDeps(cfg *config.Config) source.Deps {
	sd := source.Deps{Roster: cfg.Roster()}
	if d.spotify != nil {
		sd.Spotify = d.spotify
	}
	if d.library != nil {
		sd.Library = d.library
	}
	return sd
}

func openDeps(ctx context.Context, cfg *config.Config, withLibrary bool) (*deps, error) {
	d := &deps{}

	if cfg.HasSource(config.SourceSpotify) {
		client, err := spotify.New(ctx, spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RefreshToken: cfg.Spotify.RefreshToken,
			Market:       cfg.Spotify.Market,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create Spotify client")
		}
		d.spotify = client
	}

	if withLibrary || cfg.HasSource(config.SourceLibrary) {
		store, err := library.Open(cfg.Library.Path)
		if err != nil {
			return nil, err
		}
		d.library = store
	}

	return d, nil
}

func filterConfigs(cfg *config.Config) map[string]filter.Config {
	out := make(map[string]filter.Config, len(cfg.Filters))
	for name, f := range cfg.Filters {
		out[name] = filter.Config{Enabled: f.Enabled, Settings: f.Settings}
	}
	return out
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(ctx context.Context, cfg *config.Config) error {
	filters, err := filter.NewChainFromConfig(filterConfigs(cfg), cfg.Spotify.Market)
	if err != nil {
		return errors.Wrap(err, "invalid filter config")
	}

	d, err := openDeps(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer d.Close()

	if d.spotify != nil {
		if err := validatePlaylists(ctx, cfg, d.spotify); err != nil {
			return errors.Wrap(err, "playlist validation failed")
		}
	}

	sources, err := source.NewChainFromConfig(cfg.Sources, d.sourceDeps(cfg))
	if err != nil {
		return errors.Wrap(err, "failed to create playlist sources")
	}

	recorder := metrics.New()
	opts := []session.ManagerOption{session.WithObserver(recorder)}
	if cfg.LastFM.APIKey != "" && cfg.LastFM.HintTagCount > 0 {
		lf, err := lastfm.New(lastfm.Config{APIKey: cfg.LastFM.APIKey})
		if err != nil {
			return errors.Wrap(err, "failed to create Last.fm client")
		}
		hints, err := hint.New(lf, cfg.LastFM.HintTagCount)
		if err != nil {
			return err
		}
		opts = append(opts, session.WithHints(hints))
		zlog.Info().Msgf("Round hints enabled: tags=%d", cfg.LastFM.HintTagCount)
	}

	sessionMgr, err := session.NewManager(cfg, sources, filters, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to create session manager")
	}

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewGameServiceHandler(apiconnect.NewGameService(sessionMgr, cfg)))
	mux.Handle(apiconnect.NewAdminServiceHandler(apiconnect.NewAdminService(sessionMgr, cfg)))
	if cfg.Server.MetricsPath != "" {
		mux.Handle(cfg.Server.MetricsPath, recorder.Handler())
	}

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	reaperCtx, cancelReaper := context.WithCancel(ctx)
	defer cancelReaper()
	go sessionMgr.Run(reaperCtx)

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s sources=%s", cfg.Server.Addr, strings.Join(sources.Names(), ", "))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Give the server a moment to fully initialize
	time.Sleep(100 * time.Millisecond)
	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	select {
	case <-ctx.Done():
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return errors.Wrap(err, "server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}
	sessionMgr.Shutdown()

	zlog.Info().Msg("Server stopped")
	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// importPlaylist loads a playlist from a configured source and stores it in
// the library.
func importPlaylist(ctx context.Context, cfg *config.Config, name string) error {
	d, err := openDeps(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer d.Close()

	sources, err := source.NewChainFromConfig(cfg.Sources, d.sourceDeps(cfg))
	if err != nil {
		return errors.Wrap(err, "failed to create playlist sources")
	}

	loaded, err := sources.Load(ctx, name)
	if err != nil {
		return err
	}
	if err := d.library.Save(ctx, loaded.Playlist); err != nil {
		return err
	}

	fmt.Printf("Imported %q from %s: id=%s tracks=%d players=%d\n",
		loaded.Playlist.Name, loaded.Source, loaded.Playlist.ID, len(loaded.Playlist.Tracks), len(loaded.Playlist.Players))
	fmt.Println("Add it as a source with:")
	fmt.Println("  - type: library")
	fmt.Printf("    display_name: %s\n", loaded.Playlist.Name)
	fmt.Println("    settings:")
	fmt.Printf("      playlist_id: %s\n", loaded.Playlist.ID)
	return nil
}

func listLibrary(ctx context.Context, cfg *config.Config) error {
	store, err := library.Open(cfg.Library.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Stored playlists (%d):\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  %-24s %-30s %4d tracks  (updated %s)\n", e.ID, e.Name, e.TrackCount, e.UpdatedAt.Format(time.DateTime))
	}
	return nil
}

func deleteFromLibrary(ctx context.Context, cfg *config.Config, id string) error {
	store, err := library.Open(cfg.Library.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", id)
	return nil
}

// printFilters prints available filters.
func printFilters() {
	fmt.Println("Available Filters:")
	for name, factory := range filter.GetRegistered() {
		f := factory()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", name, f.Description(), codes)
	}
}

// validatePlaylists validates that configured Spotify playlists exist.
// This uses lightweight checks to avoid fetching all tracks during startup.
// It includes retry logic to handle transient errors during startup.
func validatePlaylists(ctx context.Context, cfg *config.Config, spotifyClient *spotify.Client) error {
	maxRetries := 5
	baseDelay := 1 * time.Second

	var errs []string

	validate := func(name, url string) error {
		zlog.Info().Msgf("Validating playlist: source=%s url=%s", name, url)

		var lastErr error
		for i := 0; i < maxRetries; i++ {
			if i > 0 {
				delay := baseDelay * time.Duration(1<<uint(i-1))
				zlog.Info().Msgf("Retrying playlist validation in %v: source=%s", delay, name)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(delay):
				}
			}

			if err := spotifyClient.CheckPlaylistExists(ctx, url); err != nil {
				lastErr = err
				zlog.Warn().Msgf("Failed to validate playlist (attempt %d/%d): source=%s error=%v", i+1, maxRetries, name, err)
				continue
			}

			zlog.Info().Msgf("Playlist validated successfully: source=%s", name)
			return nil
		}
		return errors.Newf("failed after %d attempts: %v", maxRetries, lastErr)
	}

	for _, s := range cfg.Sources {
		if s.Type != config.SourceSpotify {
			continue
		}
		url, _ := s.Settings["playlist_url"].(string)
		if url == "" {
			errs = append(errs, fmt.Sprintf("%s: playlist_url is not set", s.DisplayName))
			continue
		}
		if err := validate(s.DisplayName, url); err != nil {
			errs = append(errs, fmt.Sprintf("%s (%s): %v", s.DisplayName, url, err))
		}
	}

	if len(errs) > 0 {
		return errors.Newf("playlist validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
