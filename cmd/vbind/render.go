package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
)

func (a *app) renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Print the document after mounting and after every step",
		ArgsUsage: "<scenario.yaml>",
		Action:    a.render,
	}
}

func (a *app) render(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errNoScenario
	}
	s, err := loadSession(path, a.logger, nil)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if err := snapshot(w, s, "mount"); err != nil {
		return err
	}
	for i, step := range s.sc.Steps {
		if err := s.play(i, step); err != nil {
			return err
		}
		if err := snapshot(w, s, fmt.Sprintf("step %d: %s", i, step)); err != nil {
			return err
		}
	}
	return nil
}

func snapshot(w io.Writer, s *session, label string) error {
	if _, err := fmt.Fprintf(w, "<!-- %s -->\n", label); err != nil {
		return err
	}
	if err := s.doc.Render(w); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	_, err := fmt.Fprintln(w)
	return err
}
