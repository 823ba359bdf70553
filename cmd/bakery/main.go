package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/bakery/internal/api"
	"github.com/erazemk/bakery/internal/db"
	"github.com/erazemk/bakery/internal/images"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// config holds the parsed command line.
type config struct {
	dbPath     string
	addr       string
	imageDir   string
	logPath    string
	s3Endpoint string
	s3Bucket   string
}

const usage = `Usage: bakery [flags]

Flags:
  -d, -db <path>          SQLite database path (default: bakery.db)
  -a, -addr <host:port>   listen address (default: :8000)
  -i, -images <dir>       image directory (default: images)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -s3-endpoint <url>      store images in an S3-compatible bucket at this endpoint
  -s3-bucket <name>       bucket for images (required with -s3-endpoint)
  -h, -help               show this help and exit

Environment:
  BAKERY_S3_ACCESS_KEY    access key for -s3-endpoint
  BAKERY_S3_SECRET_KEY    secret key for -s3-endpoint
`

// parseFlags parses args into a config. It returns flag.ErrHelp for -h.
func parseFlags(args []string, out io.Writer) (config, error) {
	fs := flag.NewFlagSet("bakery", flag.ContinueOnError)
	fs.SetOutput(out)

	var cfg config
	fs.StringVar(&cfg.dbPath, "db", "bakery.db", "")
	fs.StringVar(&cfg.dbPath, "d", "bakery.db", "")
	fs.StringVar(&cfg.addr, "addr", ":8000", "")
	fs.StringVar(&cfg.addr, "a", ":8000", "")
	fs.StringVar(&cfg.imageDir, "images", "images", "")
	fs.StringVar(&cfg.imageDir, "i", "images", "")
	fs.StringVar(&cfg.logPath, "log", "", "")
	fs.StringVar(&cfg.logPath, "l", "", "")
	fs.StringVar(&cfg.s3Endpoint, "s3-endpoint", "", "")
	fs.StringVar(&cfg.s3Bucket, "s3-bucket", "", "")

	fs.Usage = func() { fmt.Fprint(out, usage) }

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(out, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		return config{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if cfg.s3Endpoint != "" && cfg.s3Bucket == "" {
		return config{}, errors.New("-s3-bucket is required with -s3-endpoint")
	}
	return cfg, nil
}

// openImageStore returns the bucket store when an S3 endpoint is configured,
// otherwise the directory store.
func openImageStore(ctx context.Context, cfg config) (images.Store, error) {
	if cfg.s3Endpoint == "" {
		dir, err := images.NewDir(cfg.imageDir)
		if err != nil {
			return nil, err
		}
		return dir, nil
	}

	bucket, err := images.NewBucket(ctx, images.BucketConfig{
		Endpoint:  cfg.s3Endpoint,
		AccessKey: os.Getenv("BAKERY_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("BAKERY_S3_SECRET_KEY"),
		Bucket:    cfg.s3Bucket,
	})
	if err != nil {
		return nil, err
	}
	return bucket, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// run owns the database handle for the life of the server.
func run(cfg config) error {
	database, err := db.Open(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	version, _, err := db.SchemaVersion(database)
	if err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.dbPath, "schema_version", version)

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	imageStore, err := openImageStore(startCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("opening image store: %w", err)
	}
	if cfg.s3Endpoint != "" {
		slog.Info("image store ready", "endpoint", cfg.s3Endpoint, "bucket", cfg.s3Bucket)
	} else {
		slog.Info("image store ready", "dir", cfg.imageDir)
	}

	server := &http.Server{
		Addr:              cfg.addr,
		Handler:           api.LoggingMiddleware(api.NewRouter(database, imageStore)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}
