package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vaultry/internal/apperr"
	"vaultry/internal/field"
	"vaultry/internal/model"
	"vaultry/internal/ui"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage entries",
}

var (
	entryDescription string
	entryMetadata    string
	entryForce       bool
	entryPage        int
	entryLimit       int
)

// prepareMetadata validates a metadata blob and cleans orphan keys before a
// write. Validation errors abort the write; warnings are returned for display.
func prepareMetadata(ctx context.Context, vaultID int64, raw string) (*string, []string, error) {
	result, err := engine.Validate(ctx, vaultID, &raw)
	if err != nil {
		return nil, nil, err
	}
	if !result.IsValid {
		return nil, nil, apperr.Validation("Metadata validation failed: %v", result.Errors)
	}

	cleaned, err := engine.CleanupOrphans(ctx, vaultID, raw)
	if err != nil {
		return nil, nil, err
	}
	return &cleaned, result.Warnings, nil
}

var entryAddCmd = &cobra.Command{
	Use:   "add <vault-id> <title>",
	Short: "Add an entry to a vault",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultID, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}

		params := model.CreateEntry{VaultID: vaultID, Title: args[1]}
		if cmd.Flags().Changed("description") {
			params.Description = &entryDescription
		}

		var warnings []string
		if cmd.Flags().Changed("metadata") {
			params.Metadata, warnings, err = prepareMetadata(cmd.Context(), vaultID, entryMetadata)
			if err != nil {
				return handleErr(err)
			}
		} else {
			// No metadata given: required fields must still be satisfied.
			result, err := engine.ValidateRequired(cmd.Context(), vaultID, nil)
			if err != nil {
				return handleErr(err)
			}
			if !result.IsValid {
				return handleErr(apperr.Validation("Metadata validation failed: %v", result.Errors))
			}
		}

		entry, err := st.CreateEntry(cmd.Context(), params)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccessWithWarnings(entry, warnings, nil)
			return nil
		}
		for _, w := range warnings {
			fmt.Println(ui.Warning(w))
		}
		fmt.Println(ui.Successf("Added entry %s (id %d)", ui.Name(entry.Title), entry.ID))
		return nil
	},
}

var entryShowResolve bool

var entryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an entry with its metadata",
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
		fields, err := st.ListFieldDefinitions(cmd.Context(), entry.VaultID)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(entry, nil)
			return nil
		}

		fmt.Println(ui.Header(entry.Title))
		fmt.Println(ui.Hint(fmt.Sprintf("id %d, vault %d, created %s", entry.ID, entry.VaultID, entry.CreatedAt)))
		if entry.CoverImagePath != nil {
			fmt.Println(ui.Hint("cover: " + *entry.CoverImagePath))
		}

		if entry.Description != nil && *entry.Description != "" {
			display := ui.NewDisplayContext()
			if display.IsTTY {
				rendered, err := ui.RenderMarkdown(*entry.Description, display.TermWidth)
				if err == nil {
					fmt.Print(rendered)
				} else {
					fmt.Println(*entry.Description)
				}
			} else {
				fmt.Println(*entry.Description)
			}
		}

		if entry.Metadata != nil {
			printMetadata(cmd.Context(), *entry.Metadata, fields)
		}
		return nil
	},
}

// printMetadata renders metadata values keyed by field name in schema order.
// Relation values are resolved when --resolve is set.
func printMetadata(ctx context.Context, metadataJSON string, fields []model.FieldDefinition) {
	var meta map[string]any
	if err := json.Unmarshal([]byte(metadataJSON), &meta); err != nil {
		fmt.Println(ui.Warningf("Metadata is not valid JSON: %v", err))
		return
	}
	if len(meta) == 0 {
		return
	}

	fmt.Println()
	table := ui.NewTable(2)
	for _, def := range fields {
		value, ok := meta[strconv.FormatInt(def.ID, 10)]
		if !ok || value == nil {
			continue
		}
		table.AddRow(ui.Muted.Render(def.Name), formatValue(ctx, def, value))
	}
	fmt.Print(table.String())
}

func formatValue(ctx context.Context, def model.FieldDefinition, value any) string {
	if def.Type == field.TypeRelation && entryShowResolve {
		if obj, ok := value.(map[string]any); ok {
			entryID, ok1 := jsonInt(obj["entry_id"])
			vaultID, ok2 := jsonInt(obj["vault_id"])
			if ok1 && ok2 {
				if resolved, err := resolver.Resolve(ctx, entryID, vaultID); err == nil {
					if resolved.VaultName != nil {
						return fmt.Sprintf("%s (%s)", resolved.Title, *resolved.VaultName)
					}
					return resolved.Title
				}
			}
		}
	}
	return fmt.Sprintf("%v", value)
}

func jsonInt(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

var entryListCmd = &cobra.Command{
	Use:   "list <vault-id>",
	Short: "List a vault's entries, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultID, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}

		page, err := st.ListEntries(cmd.Context(), vaultID, entryPage, entryLimit)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(page, &Meta{Count: len(page.Entries)})
			return nil
		}

		if page.Total == 0 {
			fmt.Println("No entries yet. Add one with 'vaultry entry add'")
			return nil
		}

		table := ui.NewTable(3)
		table.SetHeader("ID", "TITLE", "CREATED")
		for _, e := range page.Entries {
			table.AddRow(fmt.Sprintf("%d", e.ID), e.Title, e.CreatedAt)
		}
		fmt.Print(table.String())
		fmt.Println(ui.Hint(fmt.Sprintf("page %d, %d of %d entries", page.Page, len(page.Entries), page.Total)))
		if page.HasMore {
			fmt.Println(ui.Hint(fmt.Sprintf("more available: --page %d", page.Page+1)))
		}
		return nil
	},
}

var entryUpdateTitle string

var entryUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an entry's title, description, or metadata",
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

		params := model.UpdateEntry{
			Title:       changedString(cmd.Flags(), "title", entryUpdateTitle),
			Description: changedString(cmd.Flags(), "description", entryDescription),
		}

		var warnings []string
		if cmd.Flags().Changed("metadata") {
			params.Metadata, warnings, err = prepareMetadata(cmd.Context(), entry.VaultID, entryMetadata)
			if err != nil {
				return handleErr(err)
			}
		} else if entry.Metadata != nil {
			// Writes clean orphans even when metadata itself is untouched.
			cleaned, err := engine.CleanupOrphans(cmd.Context(), entry.VaultID, *entry.Metadata)
			if err != nil {
				return handleErr(err)
			}
			if cleaned != *entry.Metadata {
				params.Metadata = &cleaned
			}
		}

		updated, err := st.UpdateEntry(cmd.Context(), id, params)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccessWithWarnings(updated, warnings, nil)
			return nil
		}
		for _, w := range warnings {
			fmt.Println(ui.Warning(w))
		}
		fmt.Println(ui.Successf("Updated entry %s", ui.Name(updated.Title)))
		return nil
	},
}

var entryRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an entry",
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

		if !entryForce && !jsonOutput {
			if !confirm(fmt.Sprintf("Delete entry '%s'?", entry.Title)) {
				fmt.Println("Aborted")
				return nil
			}
		}

		if err := st.DeleteEntry(cmd.Context(), id); err != nil {
			return handleErr(err)
		}
		// Best effort: a leftover file is not worth failing the delete.
		if entry.CoverImagePath != nil {
			_ = imgStore.Delete(*entry.CoverImagePath)
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{"deleted": id}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Deleted entry %s", entry.Title))
		return nil
	},
}

var entryCountCmd = &cobra.Command{
	Use:   "count <vault-id>",
	Short: "Count a vault's entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultID, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}
		if _, err := st.GetVault(cmd.Context(), vaultID); err != nil {
			return handleErr(err)
		}

		count, err := st.CountEntries(cmd.Context(), vaultID)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{"count": count}, nil)
			return nil
		}
		fmt.Println(count)
		return nil
	},
}

var entryValidateCmd = &cobra.Command{
	Use:   "validate <id>",
	Short: "Validate an entry's stored metadata against its vault schema",
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

		result, err := engine.Validate(cmd.Context(), entry.VaultID, entry.Metadata)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(result, nil)
			return nil
		}

		for _, msg := range result.Errors {
			fmt.Println(ui.Error(msg))
		}
		for _, msg := range result.Warnings {
			fmt.Println(ui.Warning(msg))
		}
		if result.IsValid && len(result.Warnings) == 0 {
			fmt.Println(ui.Success("Metadata is valid"))
		} else if result.IsValid {
			fmt.Println(ui.Successf("Metadata is valid %s", ui.ErrorWarningCounts(0, len(result.Warnings))))
		} else {
			return handleErr(apperr.Validation("Validation failed %s", ui.ErrorWarningCounts(len(result.Errors), len(result.Warnings))))
		}
		return nil
	},
}

func init() {
	entryAddCmd.Flags().StringVarP(&entryDescription, "description", "d", "", "Entry description (markdown)")
	entryAddCmd.Flags().StringVarP(&entryMetadata, "metadata", "m", "", "Metadata as a JSON object keyed by field id")
	entryShowCmd.Flags().BoolVar(&entryShowResolve, "resolve", false, "Resolve relation values to entry titles")
	entryListCmd.Flags().IntVarP(&entryPage, "page", "p", 0, "Zero-based page number")
	entryListCmd.Flags().IntVarP(&entryLimit, "limit", "n", 20, "Entries per page")
	entryUpdateCmd.Flags().StringVarP(&entryUpdateTitle, "title", "t", "", "New title")
	entryUpdateCmd.Flags().StringVarP(&entryDescription, "description", "d", "", "New description (markdown)")
	entryUpdateCmd.Flags().StringVarP(&entryMetadata, "metadata", "m", "", "New metadata as a JSON object keyed by field id")
	entryRmCmd.Flags().BoolVarP(&entryForce, "force", "f", false, "Skip confirmation")

	entryCmd.AddCommand(entryAddCmd, entryShowCmd, entryListCmd, entryUpdateCmd, entryRmCmd, entryCountCmd, entryValidateCmd, coverCmd)
	rootCmd.AddCommand(entryCmd)
}
