package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"

	"github.com/delaneyj/vbind/internal/logging"
	"github.com/urfave/cli/v3"
)

const (
	logLevelKey = "log-level"
	logJSONKey  = "log-json"
	metricsKey  = "metrics"
	maxWidthKey = "max-width"
	itersKey    = "iters"
)

var errNoScenario = errors.New("missing scenario file argument")

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

type app struct {
	logger   *slog.Logger
	closeLog func() error
}

func newApp() *cli.Command {
	a := &app{
		logger:   slog.New(slog.DiscardHandler),
		closeLog: func() error { return nil },
	}
	return &cli.Command{
		Name:  "vbind",
		Usage: "Mount reactive templates and replay interactions against them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  logLevelKey,
				Usage: "debug, info, warn or error",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  logJSONKey,
				Usage: "Append JSON log records to this file",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			a.renderCommand(),
			a.inspectCommand(),
			a.benchCommand(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := logging.SetLevel(cmd.String(logLevelKey)); err != nil {
		return ctx, err
	}
	logger, closeLog, err := logging.New(logging.Options{
		Terminal: cmd.ErrWriter,
		JSONPath: cmd.String(logJSONKey),
	})
	if err != nil {
		return ctx, err
	}
	a.logger, a.closeLog = logger, closeLog
	return ctx, nil
}

func (a *app) after(ctx context.Context, cmd *cli.Command) error {
	return a.closeLog()
}
