package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/delaneyj/vbind/binding"
	"github.com/delaneyj/vbind/dom"
	"github.com/delaneyj/vbind/reactive"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

func (a *app) benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Time a single write against growing numbers of subscribers",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  maxWidthKey,
				Usage: "Largest fan-out; widths grow by 10x from 1",
				Value: 1_000,
			},
			&cli.IntFlag{
				Name:  itersKey,
				Usage: "Writes timed per width",
				Value: 100,
			},
		},
		Action: a.bench,
	}
}

// setupFunc builds a store with width subscribers on "n".
type setupFunc func(width int) (*reactive.Store, error)

func (a *app) bench(ctx context.Context, cmd *cli.Command) error {
	maxWidth := int(cmd.Int(maxWidthKey))
	iters := int(cmd.Int(itersKey))
	if maxWidth < 1 || iters < 1 {
		return fmt.Errorf("--%s and --%s must be positive", maxWidthKey, itersKey)
	}

	var widths []int
	for w := 1; w <= maxWidth; w *= 10 {
		widths = append(widths, w)
	}

	benches := []struct {
		title string
		setup setupFunc
	}{
		{"Watchers", watcherSetup},
		{"Text bindings", bindingSetup},
	}
	for _, b := range benches {
		a.logger.Info("running benchmark", "title", b.title, "widths", widths, "iters", iters)

		tbl := table.NewWriter()
		tbl.SetTitle(b.title)
		tbl.SetOutputMirror(cmd.Root().Writer)
		tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

		for _, w := range widths {
			store, err := b.setup(w)
			if err != nil {
				return err
			}

			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			for i := 0; i < iters; i++ {
				start := time.Now()
				if err := store.Set("n", i+1); err != nil {
					return err
				}
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRow(table.Row{
				fmt.Sprintf("fan-out: %d", w),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			})
		}
		tbl.Render()
	}
	return nil
}

func watcherSetup(width int) (*reactive.Store, error) {
	store := reactive.NewStore(map[string]any{"n": 0})
	for i := 0; i < width; i++ {
		reactive.NewWatcher(store, "n", func(any) error { return nil })
	}
	return store, nil
}

func bindingSetup(width int) (*reactive.Store, error) {
	var sb strings.Builder
	sb.WriteString(`<div id="app">`)
	for i := 0; i < width; i++ {
		sb.WriteString(`<p>{{n}}</p>`)
	}
	sb.WriteString(`</div>`)

	doc, err := dom.ParseString(sb.String())
	if err != nil {
		return nil, err
	}
	rt, err := binding.New(doc, binding.Options{
		El:   "#app",
		Data: map[string]any{"n": 0},
	})
	if err != nil {
		return nil, err
	}
	return rt.Store(), nil
}
