package main

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/delaneyj/vbind/binding"
	"github.com/delaneyj/vbind/dom"
	"github.com/delaneyj/vbind/host"
	"github.com/delaneyj/vbind/internal/config"
	"github.com/delaneyj/vbind/reactive"
)

// session is a mounted scenario.
type session struct {
	sc     *config.Scenario
	doc    *dom.Document
	rt     *binding.Runtime
	logger *slog.Logger
}

func loadSession(path string, logger *slog.Logger, hooks reactive.Hooks) (*session, error) {
	sc, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	markup, err := sc.Markup()
	if err != nil {
		return nil, err
	}
	doc, err := dom.ParseString(markup)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	mode, err := sc.Mode()
	if err != nil {
		return nil, err
	}

	methods := make(map[string]binding.Method, len(sc.Methods))
	for name, m := range sc.Methods {
		methods[name] = func(rt *binding.Runtime, ev *host.Event) error {
			return setAll(rt, m.Set)
		}
	}

	rt, err := binding.New(doc, binding.Options{
		El:       sc.El,
		Data:     sc.Data,
		Methods:  methods,
		Dedupe:   sc.Dedupe,
		FailMode: mode,
		Hooks:    hooks,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	return &session{sc: sc, doc: doc, rt: rt, logger: logger}, nil
}

func (s *session) play(i int, step config.Step) error {
	s.logger.Info("step", "n", i, "action", step.String())

	var err error
	switch {
	case step.Input != nil:
		var n *dom.Node
		if n, err = s.target(step.Input.Target); err == nil {
			err = n.Input(step.Input.Value)
		}
	case step.Click != nil:
		var n *dom.Node
		if n, err = s.target(step.Click.Target); err == nil {
			err = n.Click()
		}
	default:
		err = setAll(s.rt, step.Set)
	}
	if err != nil {
		return fmt.Errorf("step %d (%s): %w", i, step, err)
	}
	return nil
}

func (s *session) target(selector string) (*dom.Node, error) {
	n := s.doc.Find(selector)
	if n == nil {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	return n, nil
}

// setAll writes in key order so repeated runs notify in the same order.
func setAll(rt *binding.Runtime, values map[string]any) error {
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if err := rt.Set(key, values[key]); err != nil {
			return err
		}
	}
	return nil
}
