package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaultry/internal/config"
	"vaultry/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath()
		if configPath != "" {
			path = configPath
		}

		loaded, err := config.LoadFrom(path)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{
				"path":      path,
				"data_dir":  loaded.DataDir,
				"log_level": loaded.LogLevel,
			}, nil)
			return nil
		}

		fmt.Println(ui.Header("Configuration"))
		fmt.Printf("config:    %s\n", path)
		fmt.Printf("data_dir:  %s\n", loaded.DataDir)
		fmt.Printf("log_level: %s\n", loaded.LogLevel)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file if none exists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefault()
		if err != nil {
			return handleErr(err)
		}
		if jsonOutput {
			outputSuccess(map[string]string{"path": path}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Config at %s", path))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
