// Command remind runs a single pending-report reminder sweep, for use from
// an external scheduler instead of the server's built-in one.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/cache"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/config"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/database"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/jobs"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/logging"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/notify"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/repository"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "remind",
		Usage: "send reminders for reports still pending past the threshold",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "threshold",
				Usage:   "minimum age of a pending report before it is reminded",
				EnvVars: []string{"REMINDER_THRESHOLD"},
				Value:   3 * time.Hour,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "list matching reports without sending anything",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "abort the sweep after this long",
				Value: 10 * time.Minute,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("remind failed", "error", err)
		os.Exit(1)
	}
}

func run(cctx *cli.Context) error {
	cfg := config.Load()
	logging.Setup(cfg.Env)

	if err := database.Connect(cfg); err != nil {
		return err
	}
	defer database.Close()

	dispatcher := notify.NewDispatcher(notify.NewSender(cfg), cfg.AdminEmail)
	sweep := jobs.NewReminderSweep(
		repository.NewReportRepository(database.DB),
		dispatcher,
		cctx.Duration("threshold"),
		cfg.MailRate,
	).WithDryRun(cctx.Bool("dry-run"))

	if cfg.RedisURL != "" {
		store, err := cache.New(cfg.RedisURL, "support-desk:")
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		defer store.Close()
		sweep.WithLock(store, cfg.ReminderInterval/2)
	}

	ctx, cancel := context.WithTimeout(cctx.Context, cctx.Duration("timeout"))
	defer cancel()

	result, err := sweep.Run(ctx, time.Now())
	if err != nil {
		return err
	}

	return json.NewEncoder(cctx.App.Writer).Encode(result)
}
