package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"vaultry/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		version := buildinfo.Version
		if version == "" {
			version = "dev"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
				version = info.Main.Version
			}
		}

		if jsonOutput {
			outputSuccess(map[string]string{
				"version": version,
				"commit":  buildinfo.Commit,
				"date":    buildinfo.Date,
			}, nil)
			return nil
		}

		fmt.Printf("vaultry %s", version)
		if buildinfo.Commit != "" {
			fmt.Printf(" (%s)", buildinfo.Commit)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
