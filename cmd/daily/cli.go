package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kjannette/trahn-dashboard/internal/balances"
	"github.com/kjannette/trahn-dashboard/internal/config"
	"github.com/kjannette/trahn-dashboard/internal/dashboard"
	"github.com/kjannette/trahn-dashboard/internal/logging"
	"github.com/kjannette/trahn-dashboard/internal/notifications"
	"github.com/kjannette/trahn-dashboard/internal/store"
)

// app holds what every command needs once config and logging are set up.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

func newApp(out io.Writer) *cli.App {
	a := &app{out: out}
	cliApp := &cli.App{
		Name:   "daily",
		Usage:  "Record today's wallet balance snapshot for the dashboard",
		Flags:  runFlags(),
		Before: a.setup,
		Action: a.runCmd,
		After: func(*cli.Context) error {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Fetch balances and update the stored series (default)",
				Flags:  runFlags(),
				Action: a.runCmd,
			},
			{
				Name:   "status",
				Usage:  "Print the stored latest summary as JSON",
				Action: a.statusCmd,
			},
		},
	}
	// Errors are logged by the commands; keep urfave/cli from calling os.Exit.
	cliApp.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return cliApp
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "dry-run", Usage: "Fetch and compute, but write nothing"},
	}
}

func (a *app) setup(*cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

func (a *app) runCmd(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.cfg.Print(a.logger)

	st, err := store.Open(ctx, a.cfg.StoreOptions())
	if err != nil {
		return a.fail(errors.Wrap(err, "open state store"))
	}
	defer st.Close()

	provider, closer := balances.Dial(ctx, a.cfg, a.logger)
	defer closer.Close()

	runner := dashboard.NewRunner(provider,
		store.NewDocuments(st, a.logger),
		notifications.NewSender(a.cfg.WebhookURL, a.cfg.BotName, a.logger),
		dashboard.Options{DryRun: c.Bool("dry-run")},
		a.logger)

	if _, err := runner.Run(ctx); err != nil {
		return a.fail(errors.Wrap(err, "daily update"))
	}
	return nil
}

func (a *app) statusCmd(c *cli.Context) error {
	ctx := c.Context
	st, err := store.Open(ctx, a.cfg.StoreOptions())
	if err != nil {
		return a.fail(errors.Wrap(err, "open state store"))
	}
	defer st.Close()

	runner := dashboard.NewRunner(nil, store.NewDocuments(st, a.logger), nil, dashboard.Options{}, a.logger)
	latest, err := runner.Status(ctx)
	if err != nil {
		return a.fail(err)
	}
	data, err := store.Encode(latest)
	if err != nil {
		return a.fail(errors.Wrap(err, "encode summary"))
	}
	_, err = a.out.Write(data)
	return err
}

func (a *app) fail(err error) error {
	a.logger.Error("command failed", zap.Error(err))
	return err
}
