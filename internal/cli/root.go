// Package cli, conduit komut satırı aracının cobra komutlarıdır.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/biyonik/conduit-orm/internal/config"
	"github.com/biyonik/conduit-orm/pkg/events"
	"github.com/biyonik/conduit-orm/pkg/orm"
)

// connectTimeout tüm bağlantıların kurulması için verilen süredir.
const connectTimeout = 30 * time.Second

// shutdownTimeout kapanışta async log listener'larına verilen süredir.
const shutdownTimeout = 5 * time.Second

type globalFlags struct {
	envFiles []string
	verbose  bool
}

// NewRootCmd kök komutu ve alt komutlarını üretir.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "conduit",
		Short:         "Connection and schema tooling for conduit-orm",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringSliceVar(&flags.envFiles, "env-file", nil, ".env files to load before reading the environment")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log every native query")

	root.AddCommand(newStatusCmd(flags), newInstallCmd(flags))
	return root
}

func (f *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// openManager config'i yükler, doğrular ve tüm bağlantıları kurar.
func (f *globalFlags) openManager(ctx context.Context, cmd *cobra.Command) (*orm.Manager, *config.Config, error) {
	cfg := config.Load(f.envFiles...)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	logger := f.logger(cmd)
	m, err := orm.Init(ctx, cfg.Connections(),
		orm.WithLogger(logger),
		orm.WithQueryLogging(cfg.DB.EnableLogging || f.verbose),
		orm.WithDefaultConnection(cfg.DB.Default),
		orm.WithShutdownTimeout(shutdownTimeout),
	)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DB.SlowQuery > 0 {
		m.Dispatcher().ListenAsync(events.EventQueryExecuted, events.NewSlowQueryLogger(logger, cfg.DB.SlowQuery))
	}
	return m, cfg, nil
}
