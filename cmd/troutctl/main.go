package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/troutctl/internal/adapter"
	"github.com/mmcdole/troutctl/internal/adapter/source"
	"github.com/mmcdole/troutctl/internal/adapter/source/trout"
	"github.com/mmcdole/troutctl/internal/channel"
	"github.com/mmcdole/troutctl/internal/draft"
	"github.com/mmcdole/troutctl/internal/editor"
	"github.com/mmcdole/troutctl/internal/fakeapi"
	"github.com/mmcdole/troutctl/internal/playlist"
	"github.com/mmcdole/troutctl/internal/service"
	"github.com/mmcdole/troutctl/internal/store"
	"github.com/mmcdole/troutctl/internal/tui"
	"github.com/mmcdole/troutctl/internal/tui/styles"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

func main() {
	var (
		showVersion bool
		resetCache  bool
		demo        bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&resetCache, "reset-cache", false, "delete the local collection cache before starting")
	flag.BoolVar(&demo, "demo", false, "run against a built-in sample server")
	flag.Parse()

	if showVersion {
		fmt.Printf("troutctl %s\n", Version)
		return
	}

	if err := run(resetCache, demo); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(resetCache, demo bool) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := adapter.SetupLogger(cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting troutctl", "version", Version, "demo", demo)

	if resetCache {
		if err := adapter.ClearCache(cfg.CacheDir()); err != nil {
			return err
		}
		logger.Info("cleared collection cache", "dir", cfg.CacheDir())
	}

	if demo {
		stop, err := startDemoServer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to start demo server: %w", err)
		}
		defer stop()
	}

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg)
	}

	cache, err := store.NewCollectionStore(cfg.CacheDir(), cfg.Server.URL)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer cache.Close()

	client, err := source.NewClientFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server client: %w", err)
	}

	channelCmds := channel.NewCommands(client, client, cache, logger)
	playlistCmds := playlist.NewCommands(client, cache, logger)
	drafts := draft.NewStore(cache, logger)
	ed := editor.New(drafts, channelCmds, playlistCmds, logger)

	// Uses the configured player or auto-detects one
	launcher := adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger)

	startTab := tui.TabChannels
	if cfg.UI.DefaultTab == adapter.TabPlaylists {
		startTab = tui.TabPlaylists
	}

	model := tui.NewModel(tui.Deps{
		Editor:    ed,
		Channels:  channel.NewQueries(cache),
		Playlists: playlist.NewQueries(cache),
		Catalog:   client,
		Playback:  service.NewPlaybackService(launcher, client, logger),
		Session:   service.NewSessionService(client, cache, logger),
		ReadLogo:  adapter.ReadLogoFile,
		ServerURL: cfg.Server.URL,
		Logger:    logger,
	}, startTab)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI", "server", cfg.Server.URL)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// startDemoServer serves a seeded in-memory server on a loopback port and
// points cfg at it with memory-only caching
func startDemoServer(cfg *adapter.Config, logger *slog.Logger) (stop func(), err error) {
	fake := fakeapi.New()
	fake.SeedDemo()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: fake.Router(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("demo server stopped", "error", err)
		}
	}()

	cfg.Server.URL = "http://" + ln.Addr().String()
	cfg.Cache.Disabled = true
	logger.Info("demo server listening", "url", cfg.Server.URL)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// runSetupFlow asks for the server URL on first start and saves it
func runSetupFlow(cfg *adapter.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("no server configured: set TROUTCTL_SERVER_URL or run troutctl in a terminal")
	}

	fmt.Println()
	fmt.Println("Welcome to troutctl!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	var info *trout.ServerInfo
	for {
		fmt.Print("Enter your channel server URL (e.g., http://192.168.1.100:8000): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL := strings.TrimSpace(input)

		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}

		fmt.Println()
		info, err = probeWithSpinner(serverURL)
		if err != nil {
			fmt.Printf("\n✗ Could not reach a channel server: %v\n", err)
			fmt.Println("Please check the URL and try again.")
			fmt.Println()
			continue
		}
		break
	}

	cfg.Server.URL = info.URL
	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run troutctl again to start the application.")
	return nil
}

// probeWithSpinner checks the server with a visual spinner
func probeWithSpinner(serverURL string) (*trout.ServerInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	type result struct {
		info *trout.ServerInfo
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		info, err := trout.Probe(ctx, serverURL)
		resultCh <- result{info, err}
	}()

	frame := 0
	fmt.Printf("\r%s Connecting...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if res.err != nil {
				return nil, res.err
			}
			fmt.Printf("✓ Connected: %s (version %s)\n", res.info.URL, res.info.Version)
			return res.info, nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Connecting...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return nil, fmt.Errorf("connection timed out")
		}
	}
}
