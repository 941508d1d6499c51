package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"slack_file_cleaner/internal/config"
	"slack_file_cleaner/internal/database"
	"slack_file_cleaner/internal/logger"
	"slack_file_cleaner/internal/report"
	"slack_file_cleaner/internal/service"
	"slack_file_cleaner/internal/slack"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func init() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load .env file: %v", err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "slack_file_cleaner: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	defaults := config.Load()

	return &cli.App{
		Name:      "slack_file_cleaner",
		Usage:     "Delete workspace files older than a number of weeks",
		ArgsUsage: "<token> [weeks]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "show what would have been deleted",
				Value:   defaults.DryRun,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "DEBUG, INFO, WARN or ERROR",
				Value:   defaults.LogLevel,
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-dir",
				Usage:   "write diagnostics to a log file in this directory instead of stderr",
				Value:   defaults.LogDir,
				EnvVars: []string{"LOG_DIR"},
			},
			&cli.StringFlag{
				Name:    "audit-db",
				Usage:   "record every deletion attempt in this SQLite database",
				Value:   defaults.AuditDBPath,
				EnvVars: []string{"AUDIT_DB_PATH"},
			},
			&cli.IntFlag{
				Name:    "rate-limit",
				Usage:   "maximum Slack API requests per minute",
				Value:   defaults.RequestsPerMinute,
				EnvVars: []string{"RATE_LIMIT_PER_MINUTE"},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := configFromContext(c, defaults)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			return run(c.Context, cfg)
		},
	}
}

func configFromContext(c *cli.Context, defaults *config.Config) (*config.Config, error) {
	cfg := *defaults
	cfg.DryRun = c.Bool("dry-run")
	cfg.LogLevel = c.String("log-level")
	cfg.LogDir = c.String("log-dir")
	cfg.AuditDBPath = c.String("audit-db")
	cfg.RequestsPerMinute = c.Int("rate-limit")

	// cli stops flag parsing at the first positional, so a trailing
	// "token 4 -n" leaves the dry-run flag among the args.
	var args []string
	for _, arg := range c.Args().Slice() {
		switch arg {
		case "-n", "--dry-run", "-dry-run":
			cfg.DryRun = true
		default:
			args = append(args, arg)
		}
	}

	if len(args) > 2 {
		return nil, fmt.Errorf("too many arguments, usage: %s %s", c.App.Name, c.App.ArgsUsage)
	}
	if len(args) > 0 && args[0] != "" {
		cfg.SlackAPIToken = args[0]
	}
	if len(args) == 2 {
		weeks, err := config.ParseWeeks(args[1])
		if err != nil {
			return nil, err
		}
		cfg.Weeks = weeks
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logCloser, err := logger.Init(cfg.LogDir, logger.ParseLogLevel(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logCloser.Close()

	client := slack.NewClient(cfg.SlackAPIToken, cfg.RequestsPerMinute)
	auth, err := client.ValidateAuth(ctx)
	if err != nil {
		logger.Error.Printf("Slack authentication failed: %v", err)
		return err
	}
	logger.Info.Printf("Authenticated as %s (team: %s)", auth.User, auth.Team)

	cleanup := service.NewCleanupService(client, report.NewConsole(os.Stdout), service.Options{
		Weeks:    cfg.Weeks,
		PageSize: cfg.PageSize,
		DryRun:   cfg.DryRun,
	})

	if cfg.AuditDBPath != "" {
		db, err := database.New(cfg.AuditDBPath)
		if err != nil {
			return fmt.Errorf("failed to open audit database: %w", err)
		}
		defer db.Close()
		cleanup.WithJournal(database.NewJournal(db))
		logger.Info.Printf("Auditing deletions to %s", cfg.AuditDBPath)
	}

	summary, err := cleanup.Run(ctx)
	if err != nil {
		logger.Error.Printf("Cleanup aborted: %v", err)
		return err
	}

	logger.Info.Printf("Cleanup finished: %d of %d candidates deleted, %d failed",
		summary.Deleted, summary.Candidates, summary.Failed)
	return nil
}
