package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"svw.info/picreveal/internal/config"
	"svw.info/picreveal/internal/infrastructure/storage"
	"svw.info/picreveal/internal/infrastructure/storage/migrations"
	"svw.info/picreveal/internal/logging"
	"svw.info/picreveal/internal/ports"
)

// app is what every subcommand shares once flags and environment are merged.
type app struct {
	cfg config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		store, dataDir, dbURL, slot string
		logLevel, logFormat         string
	)

	root := &cobra.Command{
		Use:   "picreveal",
		Short: "Reveal a hidden picture one cell at a time",
		Long: `Reveal a hidden picture one cell at a time.

Play from the terminal against the saved slot, or serve the browser game.

Examples:
  picreveal image ./photo.jpg
  picreveal start
  picreveal reveal 2 3
  picreveal random
  picreveal serve --addr :8080`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("store") {
				cfg.Store = store
			}
			if flags.Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			if flags.Changed("database-url") {
				cfg.DatabaseURL = dbURL
			}
			if flags.Changed("slot") {
				cfg.Slot = slot
			}
			if flags.Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			if flags.Changed("log-level") {
				if cfg.LogLevel, err = config.ParseLogLevel(logLevel); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&store, "store", config.StoreFS, "Save slot store: fs|memory|postgres")
	pf.StringVar(&dataDir, "data-dir", "./data", "Directory for the fs store")
	pf.StringVar(&dbURL, "database-url", "", "Postgres connection string for the postgres store")
	pf.StringVar(&slot, "slot", "", "Save slot name")
	pf.StringVar(&logLevel, "log-level", "info", "debug|info|warn|error")
	pf.StringVar(&logFormat, "log-format", "console", "console|json")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newPlayCmds(a)...)
	return root
}

// openStore builds the configured KV store. The returned func releases it.
func (a *app) openStore(ctx context.Context) (ports.KV, func(), error) {
	switch a.cfg.Store {
	case config.StoreMemory:
		return storage.NewMemory(), func() {}, nil
	case config.StorePostgres:
		if err := migrations.Up(a.cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		pg, err := storage.NewPostgres(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		if err := os.MkdirAll(a.cfg.DataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		return storage.NewFS(a.cfg.DataDir), func() {}, nil
	}
}
