package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/tempus/internal"
	"github.com/starford/tempus/internal/checking"
	"github.com/starford/tempus/internal/settings"
	"github.com/starford/tempus/internal/tracker"
	pkgconfig "github.com/starford/tempus/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.Root().String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOrDefault(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol.
	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr),
	}

	if err := internal.RunMCP(ctx, opts...); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}

	return nil
}

// withTracker opens the configured storage for a single CLI invocation.
func withTracker(cmd *cli.Command, fn func(*tracker.Service) (any, error)) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := internal.NewLogger(os.Stderr, cfg.App.LogLevel)
	services, err := internal.OpenServices(cfg, logger)
	if err != nil {
		return err
	}
	defer services.Close()

	v, err := fn(services.Tracker)
	if err != nil {
		return err
	}
	return printJSON(cmd.Root().Writer, v)
}

func printJSON(w io.Writer, v any) error {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func punch(dir checking.Direction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		return withTracker(cmd, func(svc *tracker.Service) (any, error) {
			if dir == checking.NotSet {
				return svc.Punch(ctx, dir)
			}
			if at := cmd.String("at"); at != "" {
				t, err := svc.ParseTimeOn(svc.Now(), at)
				if err != nil {
					return nil, err
				}
				return svc.AddChecking(ctx, t, dir)
			}
			return svc.Punch(ctx, dir)
		})
	}
}

// dateArg returns the first argument as a date, or today.
func dateArg(cmd *cli.Command, svc *tracker.Service) (time.Time, error) {
	if v := cmd.Args().First(); v != "" {
		return svc.ParseDate(v)
	}
	return svc.Now(), nil
}

func showDay(ctx context.Context, cmd *cli.Command) error {
	return withTracker(cmd, func(svc *tracker.Service) (any, error) {
		date, err := dateArg(cmd, svc)
		if err != nil {
			return nil, err
		}
		return svc.Day(ctx, date)
	})
}

func showWeek(ctx context.Context, cmd *cli.Command) error {
	return withTracker(cmd, func(svc *tracker.Service) (any, error) {
		date, err := dateArg(cmd, svc)
		if err != nil {
			return nil, err
		}
		return svc.Week(ctx, date)
	})
}

func showMonth(ctx context.Context, cmd *cli.Command) error {
	return withTracker(cmd, func(svc *tracker.Service) (any, error) {
		ref := svc.Now()
		if v := cmd.Args().First(); v != "" {
			t, err := time.ParseInLocation("2006-01", v, svc.Location())
			if err != nil {
				return nil, fmt.Errorf("month %q: expected YYYY-MM", v)
			}
			ref = t
		}
		return svc.Month(ctx, ref.Year(), ref.Month())
	})
}

func showYear(ctx context.Context, cmd *cli.Command) error {
	return withTracker(cmd, func(svc *tracker.Service) (any, error) {
		year := svc.Now().Year()
		if v := cmd.Args().First(); v != "" {
			y, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("year %q: expected YYYY", v)
			}
			year = y
		}
		return svc.Year(ctx, year)
	})
}

func showYears(ctx context.Context, cmd *cli.Command) error {
	return withTracker(cmd, func(svc *tracker.Service) (any, error) {
		return svc.Years(ctx)
	})
}

func updateSettings(ctx context.Context, cmd *cli.Command) error {
	return withTracker(cmd, func(svc *tracker.Service) (any, error) {
		if !cmd.IsSet("first-day-of-week") {
			return svc.Settings(ctx)
		}
		st := settings.Settings{FirstDayOfWeek: time.Weekday(cmd.Int("first-day-of-week"))}
		return svc.UpdateSettings(ctx, st)
	})
}

func atFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "at",
		Usage: "Clock time (HH:MM) today or an RFC 3339 timestamp instead of now",
	}
}

func main() {
	cmd := &cli.Command{
		Name:           "tempus",
		Usage:          "Personal time tracking with arrival/departure checkings and calendar summaries",
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve tools over MCP on stdin/stdout",
				Action: serveMCP,
			},
			{
				Name:   "in",
				Usage:  "Record an arrival",
				Flags:  []cli.Flag{atFlag()},
				Action: punch(checking.In),
			},
			{
				Name:   "out",
				Usage:  "Record a departure",
				Flags:  []cli.Flag{atFlag()},
				Action: punch(checking.Out),
			},
			{
				Name:   "toggle",
				Usage:  "Record the opposite of the last checking",
				Action: punch(checking.NotSet),
			},
			{
				Name:      "day",
				Usage:     "Show a day summary",
				ArgsUsage: "[YYYY-MM-DD]",
				Action:    showDay,
			},
			{
				Name:      "week",
				Usage:     "Show the week containing a date",
				ArgsUsage: "[YYYY-MM-DD]",
				Action:    showWeek,
			},
			{
				Name:      "month",
				Usage:     "Show a month summary",
				ArgsUsage: "[YYYY-MM]",
				Action:    showMonth,
			},
			{
				Name:      "year",
				Usage:     "Show a year summary",
				ArgsUsage: "[YYYY]",
				Action:    showYear,
			},
			{
				Name:   "years",
				Usage:  "List years with stored data",
				Action: showYears,
			},
			{
				Name:  "settings",
				Usage: "Show or update settings",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "first-day-of-week",
						Usage: "0 (Sunday) to 6 (Saturday)",
					},
				},
				Action: updateSettings,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
