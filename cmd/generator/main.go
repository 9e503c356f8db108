package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hubstaff-report/internal/app"
	"hubstaff-report/internal/config"
	"hubstaff-report/internal/domain"
)

const defaultLogFile = "hbs-report-generator.log"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now))
}

// usageError marks bad command line input.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &usageError{err: err}
	}
	return nil
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, now func() time.Time) int {
	c := &cli{stdout: stdout, stderr: stderr, now: now}
	defer c.closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := c.rootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		var ue *usageError
		if errors.As(err, &ue) {
			return 2
		}
		return 1
	}
	return 0
}

type cli struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	dateStart string
	dateEnd   string
	logFile   string
	verbose   bool

	log     *slog.Logger
	logSink io.Closer
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "generator",
		Short: "Generate a Hubstaff report",
		Long: `Generate an HTML report of time tracked in Hubstaff and write it to standard output.

Credentials are read from HUBSTAFF_API_URL, HUBSTAFF_API_EMAIL, HUBSTAFF_API_PASSWORD
and HUBSTAFF_API_APP_TOKEN, or from a .env file in the working directory.`,
		Example:           "  generator --date_start 2024-09-02 > reports/daily_report_2024-09-02.html",
		Args:              noArgs,
		PersistentPreRunE: c.setupLogger,
		RunE:              c.generate,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.Flags().StringVar(&c.dateStart, "date_start", "", "Start date for the report (format: YYYY-MM-DD). Default is yesterday.")
	root.Flags().StringVar(&c.dateEnd, "date_end", "", "End date for the report (format: YYYY-MM-DD). Default is the start date.")
	root.PersistentFlags().StringVar(&c.logFile, "log_file", defaultLogFile, `Append run logs to this file ("-" for standard error)`)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(c.serveCmd())
	return root
}

func (c *cli) setupLogger(_ *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	var w io.Writer = c.stderr
	if c.logFile != "-" {
		f, err := os.OpenFile(c.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		c.logSink = f
		w = f
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	c.log = slog.New(handler).With(slog.String("run_id", uuid.NewString()))
	slog.SetDefault(c.log)
	return nil
}

func (c *cli) closeLog() {
	if c.logSink != nil {
		_ = c.logSink.Close()
	}
}

// generate is the default action: resolve dates, fetch, render, write to stdout.
func (c *cli) generate(cmd *cobra.Command, _ []string) error {
	rng, err := domain.ResolveDateRange(c.dateStart, c.dateEnd, c.now())
	if err != nil {
		return c.fail("invalid date range", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return c.fail("failed to load config", err)
	}

	application, err := app.New(c.log, cfg)
	if err != nil {
		return c.fail("failed to initialize app", err)
	}
	if err := application.Generate(cmd.Context(), rng, c.stdout); err != nil {
		return c.fail("failed to generate report", err)
	}
	c.log.Info("generated report", slog.String("date_start", rng.StartString()), slog.String("date_end", rng.EndString()))
	return nil
}

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP (GET /report?date_start=&date_end=)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return c.fail("failed to load config", err)
			}
			application, err := app.New(c.log, cfg)
			if err != nil {
				return c.fail("failed to initialize app", err)
			}
			application.Now = c.now

			srv := application.HTTPServer(addr)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			ctx := cmd.Context()
			select {
			case <-ctx.Done():
				c.log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return c.fail("http server failed", err)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}

func (c *cli) fail(msg string, err error) error {
	c.log.Error(msg, slog.String("error", err.Error()), slog.String("kind", kindOf(err)))
	return err
}

func kindOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		return "configuration"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrAuthentication):
		return "authentication"
	case errors.Is(err, domain.ErrNetwork):
		return "network"
	default:
		return "unknown"
	}
}
