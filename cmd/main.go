package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/charcache/internal/adapters/catalog"
	"github.com/okian/charcache/internal/adapters/cli"
	"github.com/okian/charcache/internal/adapters/http/api"
	"github.com/okian/charcache/internal/adapters/http/site"
	"github.com/okian/charcache/internal/adapters/http/swagger"
	"github.com/okian/charcache/internal/adapters/repository"
	app "github.com/okian/charcache/internal/app"
	"github.com/okian/charcache/internal/config"
	"github.com/okian/charcache/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout          = 10 * time.Second
	writeTimeout         = 10 * time.Second
	idleTimeout          = 60 * time.Second
	readHeaderTimeout    = 5 * time.Second
	shutdownTimeout      = 30 * time.Second
	storeMetricsInterval = 15 * time.Second
	exitCodeFailure      = 1
	exitCodeUsage        = 2
)

type mode int

const (
	modeShell mode = iota
	modeSync
	modeServe
)

var errUsage = errors.New("usage")

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		if errors.Is(err, errUsage) {
			os.Exit(exitCodeUsage)
		}
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(exitCodeFailure)
	}
}

func parseMode(args []string, stderr io.Writer) (mode, error) {
	fs := flag.NewFlagSet("charcache", flag.ContinueOnError)
	fs.SetOutput(stderr)
	syncOnce := fs.Bool("sync", false, "Fetch every page into the local store once and exit")
	serve := fs.Bool("serve", false, "Serve the read-only HTTP API until interrupted")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: charcache [-sync | -serve]")
		fmt.Fprintln(stderr, "Without flags an interactive menu is started on stdin/stdout.")
		fmt.Fprintln(stderr, "Configuration: CHARCACHE_CONFIG=<file.yaml> and CHARCACHE_* environment variables.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 0, errUsage
	}
	switch {
	case *syncOnce && *serve:
		fmt.Fprintln(stderr, "-sync and -serve are mutually exclusive")
		return 0, errUsage
	case fs.NArg() > 0:
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		return 0, errUsage
	case *syncOnce:
		return modeSync, nil
	case *serve:
		return modeServe, nil
	default:
		return modeShell, nil
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	m, err := parseMode(args, stderr)
	if err != nil {
		return err
	}

	// The shell and -sync own stdout, so logs go to stderr there.
	logOut := stderr
	if m == modeServe {
		logOut = stdout
	}
	if err := logger.InitWithWriter(logOut); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	loggerInstance := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := repository.Open(ctx, cfg.DBPath, repository.WithLogger(logger.Named("store")))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	source, err := catalog.NewClient(cfg.SourceURL,
		catalog.WithTimeout(cfg.HTTPTimeout()),
		catalog.WithLogger(logger.Named("catalog")),
	)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	opts := []app.Option{
		app.WithLogger(logger.Named("service")),
		app.WithPageDelay(cfg.PageDelay()),
	}
	if m != modeServe {
		opts = append(opts, app.WithProgress(cli.ProgressPrinter(stdout)))
	}
	svc := app.New(source, store, opts...)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	loggerInstance.Info(ctx, "character cache ready",
		logger.String("db", store.Path()),
		logger.String("source", cfg.SourceURL),
	)

	switch m {
	case modeSync:
		report, err := svc.Sync(ctx)
		cli.PrintReport(stdout, report)
		return err
	case modeServe:
		return serve(ctx, cfg, svc)
	default:
		shell := cli.NewShell(svc, stdin, stdout, cli.WithLogger(logger.Named("shell")))
		if err := shell.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

func serve(ctx context.Context, cfg *config.Config, svc *app.Service) error {
	loggerInstance := logger.Get()

	go startStoreMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc).Register(ctx, mux)
	site.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	loggerInstance.Info(ctx, "server stopped")
	return nil
}

// startStoreMetricsUpdater refreshes the stored records gauge until ctx ends.
func startStoreMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(storeMetricsInterval)
	defer ticker.Stop()

	updateStoreMetrics(ctx, svc)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateStoreMetrics(ctx, svc)
		}
	}
}

// updateStoreMetrics counts stored rows; Count updates the gauge itself.
func updateStoreMetrics(ctx context.Context, svc *app.Service) {
	if _, err := svc.Count(ctx); err != nil && ctx.Err() == nil {
		logger.Get().Warn(ctx, "store metrics refresh failed", logger.Error(err))
	}
}
