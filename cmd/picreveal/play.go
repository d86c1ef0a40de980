package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"svw.info/picreveal/internal/domain"
	"svw.info/picreveal/internal/imageinput"
	"svw.info/picreveal/internal/persistence"
	"svw.info/picreveal/internal/selector"
	"svw.info/picreveal/internal/usecase"
)

// playFunc applies one event to a booted controller.
type playFunc func(ctx context.Context, ctl *usecase.Controller) (usecase.Outcome, error)

func dispatch(ev usecase.Event) playFunc {
	return func(ctx context.Context, ctl *usecase.Controller) (usecase.Outcome, error) {
		return ctl.Dispatch(ctx, ev)
	}
}

func newPlayCmds(a *app) []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "image <file>",
			Short: "Choose the picture for the next game",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				return a.play(cmd, func(ctx context.Context, ctl *usecase.Controller) (usecase.Outcome, error) {
					return ctl.ChooseImage(ctx, f)
				})
			},
		},
		{
			Use:   "start",
			Short: "Start a game with the chosen picture",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.play(cmd, dispatch(usecase.StartRequested{}))
			},
		},
		{
			Use:   "reveal <row> <col>",
			Short: "Reveal one cell",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				row, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid row %q: %w", args[0], err)
				}
				col, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid col %q: %w", args[1], err)
				}
				return a.play(cmd, dispatch(usecase.CellClicked{Row: row, Col: col}))
			},
		},
		{
			Use:   "random",
			Short: "Reveal a random hidden cell",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.play(cmd, dispatch(usecase.RandomRevealRequested{}))
			},
		},
		{
			Use:   "reveal-all",
			Short: "Reveal the whole picture and end the game",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.play(cmd, dispatch(usecase.RevealAllRequested{}))
			},
		},
		{
			Use:   "status",
			Short: "Show the saved game",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.play(cmd, func(_ context.Context, ctl *usecase.Controller) (usecase.Outcome, error) {
					return usecase.Outcome{View: ctl.View()}, nil
				})
			},
		},
	}
}

// play boots the saved slot, applies fn and prints the result.
func (a *app) play(cmd *cobra.Command, fn playFunc) error {
	ctx := cmd.Context()
	kv, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	ctl := usecase.NewController(
		persistence.New(kv, a.cfg.Slot, a.log),
		selector.NewRandom(nil),
		a.log,
		usecase.WithDecoder(imageinput.NewDecoder(a.cfg.MaxUpload)),
	)
	if _, err := ctl.Boot(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "saved game discarded: %v\n", err)
	}

	out, err := fn(ctx, ctl)
	if err != nil {
		out.View = ctl.View()
	}
	w := cmd.OutOrStdout()
	for _, ev := range out.Reveals {
		fmt.Fprintf(w, "revealed row %d col %d\n", ev.Row, ev.Col)
	}
	renderView(w, out.View)
	if errors.Is(err, domain.ErrOutOfRange) {
		fmt.Fprintln(w, "cell is outside the grid")
		return nil
	}
	return err
}

// renderView prints the message and the grid, # for covered cells and . for
// revealed ones.
func renderView(w io.Writer, v usecase.View) {
	if v.Message != "" {
		fmt.Fprintln(w, v.Message)
	}
	if v.Degraded {
		fmt.Fprintln(w, "warning: progress is not being saved")
	}
	if v.Grid == nil {
		if v.PendingImage {
			fmt.Fprintln(w, "picture chosen, run `picreveal start`")
		}
		return
	}
	fmt.Fprintf(w, "%d/%d cells revealed (%dx%d grid)\n", v.RevealCount, v.TotalCells, v.Grid.Rows, v.Grid.Cols)
	var b strings.Builder
	for _, row := range v.Revealed {
		for _, open := range row {
			if open {
				b.WriteByte('.')
			} else {
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	io.WriteString(w, b.String())
}
