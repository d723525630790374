// ABOUTME: Entry point for minecraft-mcp-server
// ABOUTME: Joins a Minecraft server through the bot engine and serves its tools over MCP

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/dkruyt/minecraft-mcp-server/internal/bot"
	"github.com/dkruyt/minecraft-mcp-server/internal/bot/bridge"
	"github.com/dkruyt/minecraft-mcp-server/internal/builtins"
	"github.com/dkruyt/minecraft-mcp-server/internal/config"
	"github.com/dkruyt/minecraft-mcp-server/internal/mcp"
	"github.com/dkruyt/minecraft-mcp-server/internal/packs"
)

// Version is set at build time.
var version = "dev"

const serverName = "minecraft-mcp-server"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options are the command-line settings; zero values leave the config alone.
type options struct {
	configPath  string
	host        string
	port        int
	username    string
	logLevel    string
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet(serverName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", os.Getenv("MINECRAFT_MCP_CONFIG"), "path to a YAML or TOML config file")
	fs.StringVar(&opts.host, "host", "", "Minecraft server host")
	fs.IntVar(&opts.port, "port", 0, "Minecraft server port")
	fs.StringVar(&opts.username, "username", "", "bot username")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if opts.host != "" {
		cfg.Minecraft.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Minecraft.Port = opts.port
	}
	if opts.username != "" {
		cfg.Minecraft.Username = opts.username
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func printStartup(w io.Writer, cfg *config.Config) {
	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)

	gray.Fprintf(w, "    %s %s\n\n", serverName, version)
	green.Fprint(w, "    ▶ ")
	fmt.Fprintf(w, "Minecraft: %s:%d as %s\n", cfg.Minecraft.Host, cfg.Minecraft.Port, cfg.Minecraft.Username)
	green.Fprint(w, "    ▶ ")
	fmt.Fprintf(w, "Engine:    %s\n", cfg.Engine.URL)
	green.Fprint(w, "    ▶ ")
	if cfg.Transport.Mode == config.TransportHTTP {
		fmt.Fprintf(w, "MCP:       http %s\n\n", cfg.Transport.HTTPAddr)
	} else {
		fmt.Fprintf(w, "MCP:       stdio\n\n")
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "%s %s\n", serverName, version)
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	colorsForStderr()
	logger := setupLogger(cfg.Logging, stderr)
	slog.SetDefault(logger)
	printStartup(stderr, cfg)

	session, err := bridge.Connect(ctx, bridge.Config{
		URL:         cfg.Engine.URL,
		Host:        cfg.Minecraft.Host,
		Port:        cfg.Minecraft.Port,
		Username:    cfg.Minecraft.Username,
		ChatHistory: cfg.Engine.ChatHistory,
		Keepalive:   cfg.Engine.Keepalive,
		Logger:      logger.With("component", "bridge"),
	})
	if err != nil {
		return fmt.Errorf("connecting bot: %w", err)
	}

	return serve(ctx, cfg, session, logger, stdin, stdout)
}

// serve registers the tools and runs the MCP transport until input ends, a
// signal arrives, or the bot session is lost. The session is always closed.
func serve(ctx context.Context, cfg *config.Config, session bot.Session, logger *slog.Logger, stdin io.Reader, stdout io.Writer) error {
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("closing bot session", "error", err)
		}
	}()

	registry := packs.NewRegistry(logger.With("component", "packs"))
	defer registry.Close()

	err := builtins.RegisterAll(registry, session, builtins.Options{
		Chat: builtins.ChatLimit{
			PerMinute: cfg.Chat.RatePerMinute,
			Burst:     cfg.Chat.Burst,
		},
		Logger: logger.With("component", "builtins"),
	})
	if err != nil {
		return fmt.Errorf("registering tools: %w", err)
	}

	logRegisteredPacks(logger, registry)

	router := packs.NewRouter(packs.RouterConfig{
		Registry: registry,
		Logger:   logger.With("component", "router"),
	})
	server, err := mcp.NewServer(mcp.Config{
		Registry:  registry,
		Router:    router,
		Logger:    logger.With("component", "mcp"),
		Name:      serverName,
		Version:   version,
		AuthToken: cfg.Transport.AuthToken,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	serveCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		select {
		case <-session.Done():
			logger.Error("bot session lost", "error", session.Err())
			stop()
		case <-serveCtx.Done():
		}
	}()

	if cfg.Transport.Mode == config.TransportHTTP {
		err = server.ServeHTTP(serveCtx, cfg.Transport.HTTPAddr)
	} else {
		err = server.ServeStdio(serveCtx, stdin, stdout)
	}

	select {
	case <-session.Done():
		if cause := session.Err(); cause != nil {
			return fmt.Errorf("bot session lost: %w", cause)
		}
	default:
	}

	if err != nil && !(errors.Is(err, context.Canceled) && ctx.Err() != nil) {
		return err
	}
	logger.Info("shutting down")
	return nil
}

// logRegisteredPacks lists each tool pack and the tools it contributes.
func logRegisteredPacks(logger *slog.Logger, registry *packs.Registry) {
	for _, pack := range registry.ListBuiltinPacks() {
		names := make([]string, 0, len(pack.Tools))
		for _, tool := range pack.Tools {
			names = append(names, tool.Definition.Name)
		}
		logger.Info("tool pack ready",
			"pack_id", pack.ID,
			"tools", strings.Join(names, ","),
		)
	}
}
