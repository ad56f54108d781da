package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vaultry/internal/apperr"
	"vaultry/internal/field"
	"vaultry/internal/ui"
)

var relationCmd = &cobra.Command{
	Use:   "relation",
	Short: "Resolve cross-vault references",
}

var relationResolveCmd = &cobra.Command{
	Use:   "resolve <entry-id:vault-id>...",
	Short: "Resolve references to entry titles",
	Long: `Resolve one or more entry-id:vault-id references. A reference whose
target is missing, or now belongs to a different vault, resolves to
"[Deleted]" rather than failing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		refs := make([]field.RelationValue, 0, len(args))
		for _, arg := range args {
			ref, err := parseRef(arg)
			if err != nil {
				return handleErr(err)
			}
			refs = append(refs, ref)
		}

		results, err := resolver.ResolveBatch(cmd.Context(), refs)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(results, &Meta{Count: len(results)})
			return nil
		}

		for _, ref := range refs {
			resolved := results[ref.Key()]
			if resolved.Exists {
				line := resolved.Title
				if resolved.VaultName != nil {
					line = fmt.Sprintf("%s (%s)", resolved.Title, *resolved.VaultName)
				}
				fmt.Printf("%s  %s\n", ref.Key(), ui.Name(line))
			} else {
				fmt.Printf("%s  %s\n", ref.Key(), ui.Muted.Render(resolved.Title))
			}
		}
		return nil
	},
}

var pickerLimit int

var relationPickerCmd = &cobra.Command{
	Use:   "picker <vault-id> [query]",
	Short: "List candidate entries for a relation value",
	Long: `List candidate entries of a vault for choosing a relation value.
Without a query the most recently updated entries are listed; with one,
titles are matched by case-insensitive substring.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultID, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}
		query := ""
		if len(args) > 1 {
			query = args[1]
		}

		items, err := resolver.SearchEntriesForPicker(cmd.Context(), vaultID, query, pickerLimit)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(items, &Meta{Count: len(items)})
			return nil
		}

		if len(items) == 0 {
			fmt.Println("No matching entries")
			return nil
		}
		table := ui.NewTable(3)
		table.SetHeader("ID", "TITLE", "SUBTITLE")
		for _, item := range items {
			subtitle := ""
			if item.Subtitle != nil {
				subtitle = *item.Subtitle
			}
			table.AddRow(fmt.Sprintf("%d", item.ID), item.Title, subtitle)
		}
		fmt.Print(table.String())
		return nil
	},
}

// parseRef parses an "entryId:vaultId" argument, or a JSON object with
// entry_id and vault_id.
func parseRef(arg string) (field.RelationValue, error) {
	if strings.HasPrefix(arg, "{") {
		var ref field.RelationValue
		if err := json.Unmarshal([]byte(arg), &ref); err != nil {
			return ref, apperr.Malformed("invalid reference '%s': %v", arg, err)
		}
		return ref, nil
	}

	parts := strings.SplitN(arg, ":", 2)
	if len(parts) != 2 {
		return field.RelationValue{}, apperr.Malformed("invalid reference '%s': expected entry-id:vault-id", arg)
	}
	entryID, err := parseID(parts[0], "entry")
	if err != nil {
		return field.RelationValue{}, err
	}
	vaultID, err := parseID(parts[1], "vault")
	if err != nil {
		return field.RelationValue{}, err
	}
	return field.RelationValue{EntryID: entryID, VaultID: vaultID}, nil
}

func init() {
	relationPickerCmd.Flags().IntVarP(&pickerLimit, "limit", "n", 50, "Maximum candidates to list")
	relationCmd.AddCommand(relationResolveCmd, relationPickerCmd)
	rootCmd.AddCommand(relationCmd)
}
