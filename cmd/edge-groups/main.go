package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/al-bashkir/edge-groups/internal/config"
	"github.com/al-bashkir/edge-groups/internal/logging"
	"github.com/al-bashkir/edge-groups/internal/store"
	"github.com/al-bashkir/edge-groups/internal/ui"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath    string
	inventoryPath string
	logFile       string
	debug         bool
}

// env is what a command needs once flags and config files are resolved.
type env struct {
	cfg     config.Config
	cfgPath string
	store   *store.Store
	log     *zap.Logger
}

func (o *rootOptions) open() (*env, error) {
	cfg, cfgPath, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logPath := o.logFile
	if logPath == "" {
		logPath = cfg.Defaults.LogFile
	}
	log, err := logging.New(logPath, o.debug)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	invPath := config.ResolveInventoryPath(o.inventoryPath, cfg, cfgPath)
	if invPath == "" {
		if invPath, err = config.DefaultInventoryPath(); err != nil {
			return nil, err
		}
	}
	st, err := store.Open(invPath, log)
	if err != nil {
		return nil, err
	}
	log.Debug("opened inventory", zap.String("config", cfgPath), zap.String("inventory", st.Path()))
	return &env{cfg: cfg, cfgPath: cfgPath, store: st, log: log}, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "edge-groups",
		Short: "Manage edge groups from the terminal",
		Long: `edge-groups manages named groups of edge endpoints.

Static groups list their endpoints explicitly. Dynamic groups select
endpoints by tag, matching all of the selected tags or any of them.

Run without a subcommand to open the interactive editor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.open()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()
			return ui.Run(ui.Options{
				ConfigPath: e.cfgPath,
				Config:     e.cfg,
				Store:      e.store,
				Logger:     e.log,
			})
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to config.toml (default: XDG config)")
	pf.StringVar(&opts.inventoryPath, "inventory", "", "path to edge.toml (default: next to config.toml)")
	pf.StringVar(&opts.logFile, "log-file", "", "debug log file (default: user cache dir)")
	pf.BoolVar(&opts.debug, "debug", false, "write debug logs to the log file")

	rootCmd.AddCommand(
		listCmd(opts),
		showCmd(opts),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
