// Package cli wires configuration, logging and the blog store into the
// blogjson command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/blogjson/internal/blog"
	"github.com/yourusername/blogjson/internal/config"
	"github.com/yourusername/blogjson/internal/storage"
)

const version = "0.1.0"

// app carries the state shared by every command of one invocation.
type app struct {
	configPath string
	dataPath   string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the blogjson command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "blogjson",
		Short: "Inspect a blog stored as a JSON document",
		Long: `blogjson loads a blog document (posts plus the next post id) from a
JSON file and reports on it. Changes made by commands such as demo stay
in memory; the data file is never rewritten.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.loadBlog(cmd)
			if err != nil {
				return err
			}
			printSummary(cmd, b)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&a.dataPath, "data", "", "Path to the blog JSON document (overrides configuration)")

	rootCmd.AddCommand(
		newFindCommand(a),
		newDemoCommand(a),
		newRenderCommand(a),
		newFeedCommand(a),
		newExportCommand(a),
		newValidateCommand(a),
	)

	return rootCmd
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	a.logger = newLogger(cfg.Log, cmd.ErrOrStderr())
	slog.SetDefault(a.logger)

	a.logger.Debug("Configuration loaded",
		"config_path", a.configPath,
		"data_file", a.dataFile(),
		"strict", cfg.IsStrict())
	return nil
}

func (a *app) dataFile() string {
	if a.dataPath != "" {
		return a.dataPath
	}
	return a.cfg.GetDataFile()
}

func (a *app) newStore(strict bool) *storage.JSONStore {
	store := storage.NewJSONStoreWithLogger(a.dataFile(), a.logger)
	store.SetStrict(strict)
	return store
}

func (a *app) loadBlog(cmd *cobra.Command) (*blog.Blog, error) {
	store := a.newStore(a.cfg.IsStrict())
	fmt.Fprintf(cmd.OutOrStdout(), "Reading Blog data from %s\n", store.Path())
	return store.Load()
}

func printSummary(cmd *cobra.Command, b *blog.Blog) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Length of blog items: %d\n", b.Len())
	fmt.Fprintf(out, "Next Blog Entry ID: %d\n", b.NextID)
}
