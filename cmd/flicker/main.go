package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"flicker/internal/api"
	"flicker/internal/config"
	"flicker/internal/log"
	"flicker/internal/player"
	"flicker/internal/service"
	"flicker/internal/session"
	"flicker/internal/store"
	"flicker/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	var oauthCallback string
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&oauthCallback, "oauth", "", "complete a Google sign-in with the pasted callback URL")
	flag.Parse()

	if showVersion {
		fmt.Printf("flicker %s\n", Version)
		return
	}

	if oauthCallback != "" {
		if err := completeOAuth(oauthCallback); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// completeOAuth finishes a browser-based Google sign-in. The user opens
// the auth URL, signs in, and pastes the callback URL back via -oauth.
func completeOAuth(callbackURL string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.IsConfigured() {
		return fmt.Errorf("no server configured, run flicker once to set up")
	}

	logger := log.NullLogger()
	sessions, err := session.NewStore(config.DefaultDataPath())
	if err != nil {
		return err
	}
	client := api.NewClient(cfg.Server.URL, sessions, logger)
	svc := service.NewSessionService(client, sessions, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sess, err := svc.CompleteOAuth(ctx, callbackURL)
	if err != nil {
		return err
	}

	if sess.User.Username != "" {
		fmt.Printf("✓ Signed in as %s\n", sess.User.Username)
	} else {
		fmt.Println("✓ Signed in")
	}
	return nil
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting flicker", "version", Version)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("flicker needs an interactive terminal")
	}

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	dataDir := config.DefaultDataPath()
	sessions, err := session.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	snapshots, err := store.NewSnapshotStore(dataDir, cfg.Server.URL)
	if err != nil {
		logger.Warn("catalog snapshot unavailable, running without persistence", "error", err)
		snapshots, _ = store.NewSnapshotStore("", "")
	}
	defer snapshots.Close()

	// The session store doubles as the bearer token source so a login
	// mid-session takes effect on the next request.
	client := api.NewClient(cfg.Server.URL, sessions, logger)

	engine := player.NewMPVEngine(cfg.Player.Command, cfg.Player.Args, logger)
	if !engine.Available() {
		return fmt.Errorf("player %q not found in PATH", cfg.Player.Command)
	}
	controller := player.NewController(engine, logger, playerOptions(cfg)...)
	defer controller.Close()

	catalogSvc := service.NewCatalogService(client, snapshots, logger)
	sessionSvc := service.NewSessionService(client, sessions, snapshots, logger)
	playbackSvc := service.NewPlaybackService(controller, client, sessionSvc, logger)
	searchSvc := service.NewSearchService(client, catalogSvc, logger)

	model := tui.NewModel(catalogSvc, sessionSvc, playbackSvc, searchSvc, client, cfg.UI.ExclusivePlayer)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// playerOptions translates the configured attach bounds
func playerOptions(cfg *config.Config) []player.Option {
	var opts []player.Option
	if d, err := time.ParseDuration(cfg.Player.AttachTimeout); err == nil && d > 0 {
		opts = append(opts, player.WithAttachTimeout(d))
	}
	if d, err := time.ParseDuration(cfg.Player.AttachInterval); err == nil && d > 0 {
		opts = append(opts, player.WithAttachInterval(d))
	}
	return opts
}

// runSetupFlow handles the initial setup when no backend is configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to Flicker!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	var serverURL string
	for {
		fmt.Print("Enter your catalog server URL (e.g., https://api.example.com/api/v1): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL = strings.TrimSpace(input)

		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}
		if _, err := url.ParseRequestURI(serverURL); err != nil {
			fmt.Println("That does not look like a URL. Please try again.")
			continue
		}

		if err := probeServer(serverURL, logger); err != nil {
			fmt.Printf("✗ Could not reach the server: %v\n", err)
			fmt.Println("Please check the URL and try again.")
			fmt.Println()
			continue
		}
		fmt.Println("✓ Server reachable")
		break
	}

	cfg.Server.URL = serverURL

	// Account sign-in is optional: browsing and playback work anonymously.
	fmt.Println()
	fmt.Print("Sign in now? [y/N]: ")
	answer, _ := reader.ReadString('\n')
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
		if err := setupLogin(serverURL, reader, logger); err != nil {
			fmt.Printf("✗ Sign-in failed: %v\n", err)
			fmt.Println("You can sign in later from inside the app (L).")
		}
	} else {
		fmt.Printf("For Google sign-in, open %s/auth/google in a browser,\n", strings.TrimRight(serverURL, "/"))
		fmt.Println("then run: flicker -oauth <callback-url>")
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run flicker again to start the application.")
	return nil
}

// probeServer checks that the backend answers the categories endpoint
func probeServer(serverURL string, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := api.NewClient(serverURL, api.StaticToken(""), logger)
	_, err := client.Categories(ctx)
	return err
}

// setupLogin runs an interactive sign-in and persists the session
func setupLogin(serverURL string, reader *bufio.Reader, logger *slog.Logger) error {
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	sessions, err := session.NewStore(config.DefaultDataPath())
	if err != nil {
		return err
	}

	client := api.NewClient(serverURL, sessions, logger)
	svc := service.NewSessionService(client, sessions, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sess, err := svc.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Printf("✓ Signed in as %s\n", sess.User.Username)
	return nil
}
