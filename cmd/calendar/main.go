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

	"github.com/spf13/cobra"

	"casacueto/internal/domain/availability"
	"casacueto/internal/domain/calendar"
	"casacueto/internal/domain/shared/daterange"
	"casacueto/internal/infra/bookingsapi"
	"casacueto/internal/infra/config"
	"casacueto/internal/infra/obs"
	"casacueto/internal/infra/terminal"
)

type options struct {
	client      config.ClientConfig
	apiURL      string
	timeout     time.Duration
	today       string
	metricsAddr string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "calendar",
		Short:        "Room availability calendar and booking front-end",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			opts.client = cfg
			if !cmd.Flags().Changed("api-url") {
				opts.apiURL = cfg.BookingsAPIURL
			}
			if !cmd.Flags().Changed("timeout") {
				opts.timeout = cfg.BookingsTimeout
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "http://localhost:5000", "bookings API base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "bookings API request timeout")
	root.PersistentFlags().StringVar(&opts.today, "today", "", "pin today's date (YYYY-MM-DD)")
	root.AddCommand(newOpenCommand(opts), newMonthCommand(opts))
	return root
}

func newOpenCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <room>",
		Short: "Pick check-in and check-out dates interactively and book them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd.ErrOrStderr())
			clock, err := opts.clock()
			if err != nil {
				return err
			}
			client := bookingsapi.New(opts.apiURL, opts.timeout)

			storeOpts := []availability.Option{availability.WithLogger(logger)}
			if opts.metricsAddr != "" {
				metrics := obs.NewMetrics()
				storeOpts = append(storeOpts, availability.WithObserver(metrics))
				srv := &http.Server{Addr: opts.metricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Warn("metrics listener failed", "error", err)
					}
				}()
				defer srv.Close()
			}
			store := availability.NewStore(client, storeOpts...)
			engine := calendar.NewEngine(store, calendar.WithClock(clock), calendar.WithLogger(logger))
			return newSession(engine, client, cmd.InOrStdin(), cmd.OutOrStdout()).run(cmd.Context(), availability.RoomID(args[0]))
		},
	}
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve availability load metrics on this address")
	return cmd
}

func newMonthCommand(opts *options) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "month <room>",
		Short: "Print one month of a room's availability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd.ErrOrStderr())
			clock, err := opts.clock()
			if err != nil {
				return err
			}
			store := availability.NewStore(bookingsapi.New(opts.apiURL, opts.timeout), availability.WithLogger(logger))
			engine := calendar.NewEngine(store, calendar.WithClock(clock), calendar.WithLogger(logger))
			view := engine.OpenForRoom(cmd.Context(), availability.RoomID(args[0]))
			if month != "" {
				target, err := daterange.ParseMonth(month)
				if err != nil {
					return err
				}
				view = engine.NavigateMonth(monthsBetween(view.Month, target))
			}
			if err := terminal.Render(cmd.OutOrStdout(), view); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), terminal.Legend())
			return err
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to show (YYYY-MM), defaults to the current month")
	return cmd
}

func (o *options) logger(w io.Writer) *slog.Logger {
	return obs.NewLoggerTo(w, o.client.Env, o.client.LogLevel)
}

func (o *options) clock() (func() time.Time, error) {
	if o.today == "" {
		return time.Now, nil
	}
	pinned, err := daterange.ParseDay(o.today)
	if err != nil {
		return nil, fmt.Errorf("--today: %w", err)
	}
	return func() time.Time { return pinned }, nil
}

func monthsBetween(from, to daterange.Month) int {
	return (to.Year-from.Year)*12 + int(to.Month) - int(from.Month)
}
