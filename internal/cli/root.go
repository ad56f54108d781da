// Package cli implements the command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaultry/internal/config"
	"vaultry/internal/images"
	"vaultry/internal/logging"
	"vaultry/internal/metadata"
	"vaultry/internal/relation"
	"vaultry/internal/search"
	"vaultry/internal/store"
	"vaultry/internal/ui"
)

var (
	// Global flags
	configPath  string
	dataDirFlag string

	// Resolved application state, built in PersistentPreRunE.
	cfg       *config.Config
	st        *store.Store
	searchSvc *search.Service
	resolver  *relation.Resolver
	engine    *metadata.Engine
	imgStore  *images.Storage
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vaultry",
	Short: "Vaultry - A personal collection manager",
	Long: `Vaultry manages personal collections as vaults of entries.
Each vault defines its own metadata fields; entries are validated against
them, indexed for full-text search, and can reference entries in other
vaults.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store setup for commands that don't need it
		switch cmd.Name() {
		case "completion", "help", "version", "config":
			return nil
		}
		if cmd.Parent() != nil && (cmd.Parent().Name() == "completion" || cmd.Parent().Name() == "config") {
			return nil
		}

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}
		ui.SetAccent(cfg.UI.Accent)

		log, err := logging.New(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}

		st, err = store.Open(cfg.DatabasePath(), log)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		engine = metadata.NewEngine(st, log)
		searchSvc = search.NewService(st, st.DB(), log)
		resolver = relation.NewResolver(st, st)
		imgStore = images.NewStorage(cfg.DataDir)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if st != nil {
			return st.Close()
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Override the data directory")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}
