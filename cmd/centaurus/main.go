package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/CentauroTech/centaurus-sub001/internal/adapters/server"
	"github.com/CentauroTech/centaurus-sub001/internal/adapters/storage/sqlite"
	"github.com/CentauroTech/centaurus-sub001/internal/app"
	"github.com/CentauroTech/centaurus-sub001/internal/config"
	"github.com/CentauroTech/centaurus-sub001/internal/platform"
)

// version stores a package-level helper value.
var version = "dev"

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("centaurus", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath string
		dbPath     string
		bindAddr   string
		showVer    bool
	)
	fs.StringVar(&configPath, "config", "", "path to config TOML")
	fs.StringVar(&dbPath, "db", "", "path to sqlite database")
	fs.StringVar(&bindAddr, "bind", "", "HTTP bind address (host:port)")
	fs.BoolVar(&showVer, "version", false, "show version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVer {
		_, _ = fmt.Fprintf(stdout, "centaurus %s\n", version)
		return nil
	}

	paths, err := platform.DefaultPaths()
	if err != nil {
		return err
	}

	command := firstArg(fs.Args())
	switch command {
	case "paths":
		_, _ = fmt.Fprintf(stdout, "config: %s\n", paths.ConfigPath)
		_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
		_, _ = fmt.Fprintf(stdout, "db: %s\n", paths.DBPath)
		return nil
	case "", "serve":
		// Continue.
	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	dbOverridden := strings.TrimSpace(dbPath) != ""
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("CENTAURUS_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("CENTAURUS_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}
	if strings.TrimSpace(bindAddr) != "" {
		cfg.Server.Bind = bindAddr
	}

	logger, err := newRuntimeLogger(stderr, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	charmLog.SetDefault(logger)
	logger.Info("startup configuration resolved", "command", "serve", "config_path", configPath)
	logger.Info("configuration loaded", "db_path", cfg.Database.Path, "bind", cfg.Server.Bind, "log_level", cfg.Logging.Level)

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		return fmt.Errorf("open sqlite repository: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("sqlite close failed", "db_path", cfg.Database.Path, "err", closeErr)
		}
	}()
	logger.Info("sqlite repository ready", "db_path", cfg.Database.Path, "migrations", "ensured")

	svc := app.NewService(repo, sqlite.NewNotifier(repo), uuid.NewString, time.Now, app.ServiceConfig{
		InternalEmailDomain:    cfg.Privacy.InternalDomain,
		RegionalPipelineMarker: cfg.Routing.RegionalPipelineMarker,
		DefaultLaneName:        cfg.Routing.DefaultLaneName,
		DefaultLaneColor:       cfg.Routing.DefaultLaneColor,
	})
	logger.Debug("application service initialized", "internal_domain", cfg.Privacy.InternalDomain, "regional_marker", cfg.Routing.RegionalPipelineMarker)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server", "bind", cfg.Server.Bind, "api_endpoint", cfg.Server.APIEndpoint, "mcp_endpoint", cfg.Server.MCPEndpoint)
	err = server.Run(runCtx, server.Config{
		HTTPBind:      cfg.Server.Bind,
		APIEndpoint:   cfg.Server.APIEndpoint,
		MCPEndpoint:   cfg.Server.MCPEndpoint,
		ServerName:    "centaurus",
		ServerVersion: version,
	}, server.Dependencies{Progression: svc})
	if err != nil {
		logger.Error("server terminated with error", "err", err)
		return fmt.Errorf("run server: %w", err)
	}
	logger.Info("command flow complete", "command", "serve")
	return nil
}

// firstArg handles first arg.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// newRuntimeLogger configures the process-wide console logger.
func newRuntimeLogger(stderr io.Writer, levelName string) (*charmLog.Logger, error) {
	if strings.TrimSpace(levelName) == "" {
		levelName = "info"
	}
	level, err := charmLog.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", levelName, err)
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          "centaurus",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	}), nil
}
