package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/toodle/internal/config"
	"github.com/mesh-intelligence/toodle/internal/paths"
	"github.com/mesh-intelligence/toodle/pkg/sqlite"
	"github.com/mesh-intelligence/toodle/pkg/types"
)

// app carries global flags and the open store through the commands.
type app struct {
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	configDir string
	dataDir   string
	asJSON    bool
	asYAML    bool
	verbose   bool

	store    types.Store
	renderer *lipgloss.Renderer
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:      out,
		errOut:   errOut,
		now:      time.Now,
		renderer: lipgloss.NewRenderer(out),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "toodle",
		Short:         "toodle manages todo items and labels",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.openStore()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.closeStore()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configDir, "config-dir", "", "configuration directory (default: per-user config dir)")
	flags.StringVar(&a.dataDir, "data-dir", "", "data directory (default: per-user data dir)")
	flags.BoolVar(&a.asJSON, "json", false, "output as JSON")
	flags.BoolVar(&a.asYAML, "yaml", false, "output as YAML")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log store activity to stderr")
	root.MarkFlagsMutuallyExclusive("json", "yaml")

	root.AddCommand(
		newVersionCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newUpdateCmd(a),
		newDoneCmd(a),
		newLabelCmd(a),
	)
	return root
}

// openStore resolves directories, loads config.yaml and attaches the store.
func (a *app) openStore() error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := config.Load(configDir)
	if err != nil {
		return err
	}
	cfg, err := config.StoreConfig(v)
	if err != nil {
		return userErrorf("config %s: %w", configDir, err)
	}
	cfg.DataDir, err = paths.ResolveDataDir(a.dataDir, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	store, err := sqlite.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.store = store
	return nil
}

func (a *app) closeStore() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
