package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vaultry/internal/ui"
)

var (
	searchPage  int
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <vault-id> <query>...",
	Short: "Full-text search a vault's entries",
	Long: `Full-text search a vault's entries by title and description. Every
word of the query must match as a prefix; matching is case-insensitive.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultID, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}

		query := strings.Join(args[1:], " ")
		result, err := searchSvc.Search(cmd.Context(), vaultID, query, searchPage, searchLimit)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(result, &Meta{Count: len(result.Entries)})
			return nil
		}

		if result.Total == 0 {
			fmt.Printf("No results found for: %s\n", query)
			return nil
		}

		fmt.Printf("Found %d results for: %s\n\n", result.Total, query)

		display := ui.NewDisplayContext()
		table := ui.NewResultsTable(display, ui.SearchLayout)
		snippetWidth := table.ContentWidth("snippet")
		for i, e := range result.Entries {
			snippet := ""
			if e.Description != nil {
				snippet = strings.ReplaceAll(*e.Description, "\n", " ")
				snippet = ui.TruncateWithEllipsis(strings.TrimSpace(snippet), snippetWidth)
			}
			table.AddRow(ui.ResultRow{
				Num:   i + 1,
				Cells: []string{ui.FormatRowNum(result.Page*result.Limit+i+1, int(result.Total)), e.Title, snippet, e.CreatedAt},
			})
		}
		fmt.Println(table.Render())

		if result.HasMore {
			fmt.Println(ui.Hint(fmt.Sprintf("more results: --page %d", result.Page+1)))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 0, "Zero-based page number")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum results per page")
	rootCmd.AddCommand(searchCmd)
}
