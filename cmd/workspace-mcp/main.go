package main

import (
	"log"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/oauth2"

	"workspacemcp/internal/appdirs"
	"workspacemcp/internal/auth"
	"workspacemcp/internal/backend"
	"workspacemcp/internal/docs"
	"workspacemcp/internal/envutil"
	"workspacemcp/internal/logging"
	"workspacemcp/internal/settings"
	"workspacemcp/internal/tools"
)

const (
	serverName    = "workspace-mcp"
	serverVersion = "0.1.0"
)

func main() {
	envErr := godotenv.Load()
	debug := envutil.Bool("WORKSPACEMCP_DEBUG")
	dataDir, err := appdirs.DataDir()
	if err != nil {
		log.Fatalf("server init failed: %v", err)
	}
	logSetup, logErr := logging.NewFileLogger(dataDir, debug)
	logger := logSetup.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.With("component", "server")
	if logSetup.Enabled {
		logger.Info("server.logging_enabled", "path", logSetup.Path)
	}
	if envErr == nil {
		logger.Debug("server.env_loaded")
	}
	if logErr != nil {
		logger.Warn("server.log_setup_failed", "error", logErr.Error())
	}
	if logSetup.Close != nil {
		defer logSetup.Close()
	}

	settingsStore := settings.NewStore(filepath.Join(dataDir, "settings.json"))
	cfg, err := settingsStore.Load()
	if err != nil {
		logger.Error("server.settings_load_failed", "error", err.Error())
		log.Fatalf("load settings: %v", err)
	}
	baseURL := envutil.String("WORKSPACEMCP_BASE_URL", cfg.BackendBaseURL)
	if baseURL == "" {
		log.Fatalf("no backend base url configured: set WORKSPACEMCP_BASE_URL or backend_base_url in %s",
			filepath.Join(dataDir, "settings.json"))
	}

	credStore := auth.NewStore(
		filepath.Join(dataDir, "credentials.enc"),
		filepath.Join(dataDir, "master.key"),
	)
	provider := auth.NewProvider(credStore, oauth2.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: cfg.OAuth.TokenURL},
		Scopes:       cfg.OAuth.Scopes,
	}, logger)

	client, err := backend.New(baseURL, provider,
		time.Duration(cfg.RequestTimeoutSeconds)*time.Second,
		backend.WithLogger(logger))
	if err != nil {
		logger.Error("server.backend_init_failed", "error", err.Error())
		log.Fatalf("backend init: %v", err)
	}

	engine := docs.NewEngine(client, docs.WithLogger(logger))
	handlers := tools.New(engine, client, provider,
		tools.WithLogger(logger),
		tools.WithListPageSize(cfg.DriveListPageSize))

	s := server.NewMCPServer(serverName, serverVersion)
	handlers.Register(s)

	logger.Info("server.ready", "base_url", baseURL, "version", serverVersion)
	if err := server.ServeStdio(s); err != nil {
		logger.Error("server.stdio_error", "error", err.Error())
		log.Fatalf("stdio server error: %v", err)
	}
}
