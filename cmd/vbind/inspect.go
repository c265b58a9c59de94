package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/delaneyj/vbind/compile"
	"github.com/delaneyj/vbind/metrics"
	"github.com/delaneyj/vbind/reactive"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
)

func (a *app) inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Run a scenario and list its bindings and dependency fan-out",
		ArgsUsage: "<scenario.yaml>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  metricsKey,
				Usage: "Also print write, notification and update counters",
			},
		},
		Action: a.inspect,
	}
}

func (a *app) inspect(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errNoScenario
	}

	var (
		hooks reactive.Hooks
		reg   *prometheus.Registry
	)
	if cmd.Bool(metricsKey) {
		reg = prometheus.NewRegistry()
		col, err := metrics.New(reg)
		if err != nil {
			return err
		}
		hooks = col
	}

	s, err := loadSession(path, a.logger, hooks)
	if err != nil {
		return err
	}
	for i, step := range s.sc.Steps {
		if err := s.play(i, step); err != nil {
			return err
		}
	}

	w := cmd.Root().Writer
	printBindings(w, s)
	printDeps(w, s)
	if reg != nil {
		return printMetrics(w, reg)
	}
	return nil
}

func printBindings(w io.Writer, s *session) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "kind", "path", "node", "watcher"})
	for i, b := range s.rt.Bindings() {
		watcher := "-"
		if b.Watcher != nil {
			watcher = fmt.Sprint(b.Watcher.ID())
		}
		table.Append([]string{
			fmt.Sprint(i),
			b.Kind.String(),
			b.Path,
			fmt.Sprint(b.Node),
			watcher,
		})
	}
	table.Render()
}

func printDeps(w io.Writer, s *session) {
	var paths []string
	for _, b := range s.rt.Bindings() {
		if b.Kind != compile.KindEvent && !slices.Contains(paths, b.Path) {
			paths = append(paths, b.Path)
		}
	}
	slices.Sort(paths)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"path", "subscribers", "value"})
	for _, path := range paths {
		subs := "missing"
		if dep, ok := s.rt.Store().Dep(path); ok {
			subs = humanize.Comma(int64(dep.Len()))
		}
		v, _ := s.rt.Store().Get(path)
		table.Append([]string{path, subs, fmt.Sprintf("%v", v)})
	}
	table.Render()
}

func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"metric", "labels", "value"})
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}

			var value string
			switch {
			case m.GetCounter() != nil:
				value = humanize.Comma(int64(m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				value = fmt.Sprintf("n=%s sum=%s",
					humanize.Comma(int64(h.GetSampleCount())),
					humanize.Ftoa(h.GetSampleSum()),
				)
			}
			table.Append([]string{mf.GetName(), strings.Join(labels, ","), value})
		}
	}
	table.Render()
	return nil
}
