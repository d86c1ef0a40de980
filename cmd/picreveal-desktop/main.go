package main

import (
	"context"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"svw.info/picreveal/internal/config"
	"svw.info/picreveal/internal/imageinput"
	"svw.info/picreveal/internal/infrastructure/storage"
	"svw.info/picreveal/internal/logging"
	"svw.info/picreveal/internal/persistence"
	"svw.info/picreveal/internal/selector"
	"svw.info/picreveal/internal/usecase"
)

func main() {
	var dataDir, slot string
	cmd := &cobra.Command{
		Use:   "picreveal-desktop [image]",
		Short: "Play the picture reveal game in a window",
		Long: `Play the picture reveal game in a window.

Drop an image on the window or pass one as an argument, then:
  S      start the game
  click  reveal a cell
  R      reveal a random cell
  A      reveal everything`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			if cmd.Flags().Changed("slot") {
				cfg.Slot = slot
			}
			log := logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)

			g := newGame(log)
			g.ctl = usecase.NewController(
				persistence.New(storage.NewFS(cfg.DataDir), cfg.Slot, log),
				selector.NewRandom(nil),
				log,
				usecase.WithDecoder(imageinput.NewDecoder(cfg.MaxUpload)),
				usecase.WithPresenter(g),
			)
			ctx := context.Background()
			if _, err := g.ctl.Boot(ctx); err != nil {
				log.Warn().Err(err).Msg("saved game discarded")
			}
			if len(args) == 1 {
				if err := g.chooseFile(ctx, args[0]); err != nil {
					return err
				}
			}
			g.refresh()

			ebiten.SetWindowTitle("Picture Guess")
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			return ebiten.RunGame(g)
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Directory holding the save slot")
	cmd.Flags().StringVar(&slot, "slot", persistence.DefaultSlot, "Save slot name")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
