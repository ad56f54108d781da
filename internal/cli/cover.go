package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaultry/internal/images"
	"vaultry/internal/ui"
)

var coverCmd = &cobra.Command{
	Use:   "cover",
	Short: "Manage entry cover images",
}

var coverSetCmd = &cobra.Command{
	Use:   "set <entry-id> <file-or-url>",
	Short: "Set an entry's cover image",
	Long: `Set an entry's cover image from a local file or an http(s) URL.
Local files are copied into managed storage; URLs are stored as-is.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "entry")
		if err != nil {
			return handleErr(err)
		}

		entry, err := st.GetEntry(cmd.Context(), id)
		if err != nil {
			return handleErr(err)
		}

		source := args[1]
		path := source
		if !images.IsURL(source) {
			path, err = imgStore.SaveLocal(entry.VaultID, entry.ID, source)
			if err != nil {
				return handleErr(err)
			}
		}

		updated, err := st.SetCoverImagePath(cmd.Context(), id, &path)
		if err != nil {
			return handleErr(err)
		}
		// Replacing a managed file removes the old one, best effort.
		if entry.CoverImagePath != nil && *entry.CoverImagePath != path {
			_ = imgStore.Delete(*entry.CoverImagePath)
		}

		if jsonOutput {
			outputSuccess(updated, nil)
			return nil
		}
		fmt.Println(ui.Successf("Set cover image for %s", ui.Name(updated.Title)))
		return nil
	},
}

var coverRmCmd = &cobra.Command{
	Use:   "rm <entry-id>",
	Short: "Remove an entry's cover image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "entry")
		if err != nil {
			return handleErr(err)
		}

		entry, err := st.GetEntry(cmd.Context(), id)
		if err != nil {
			return handleErr(err)
		}

		updated, err := st.SetCoverImagePath(cmd.Context(), id, nil)
		if err != nil {
			return handleErr(err)
		}
		if entry.CoverImagePath != nil {
			_ = imgStore.Delete(*entry.CoverImagePath)
		}

		if jsonOutput {
			outputSuccess(updated, nil)
			return nil
		}
		fmt.Println(ui.Successf("Removed cover image from %s", ui.Name(updated.Title)))
		return nil
	},
}

func init() {
	coverCmd.AddCommand(coverSetCmd, coverRmCmd)
}
