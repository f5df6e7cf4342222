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
	"syscall"

	"github.com/joho/godotenv"

	"gpstrack/pkg/config"
	"gpstrack/pkg/logging"
	"gpstrack/pkg/version"
)

var (
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	configPath = flag.String("config", "", "Path to the config file (default $GPSTRACK_CONFIG or the user config dir)")
)

var errUsage = errors.New("usage: gpstrack [-config path] <stats|series|grid|split|dedupe|reverse|dem> [flags] file.gpx")

func main() {
	// A missing .env is normal
	_ = godotenv.Load()

	flag.Parse()

	path := resolveConfigPath(*configPath)

	if *initConfig {
		if err := config.GenerateDefault(path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", path)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, path, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "gpstrack: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("GPSTRACK_CONFIG"); env != "" {
		return env
	}
	return config.DefaultPath()
}

func run(ctx context.Context, configPath string, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("gpstrack started", "version", version.Version, "command", args[0])

	app, err := newApp(appCfg, out)
	if err != nil {
		return err
	}

	cmd, ok := app.commands()[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
	return cmd(ctx, args[1:])
}
