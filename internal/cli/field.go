package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vaultry/internal/apperr"
	"vaultry/internal/field"
	"vaultry/internal/model"
	"vaultry/internal/ui"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Manage a vault's field schema",
}

var (
	fieldType          string
	fieldRequired      bool
	fieldMaxLength     int
	fieldMin           float64
	fieldMax           float64
	fieldChoices       []string
	fieldTargetVault   int64
	fieldDisplayFields []string
)

// optionsFromFlags assembles field options from whichever constraint flags
// were set. Returns nil when none were.
func optionsFromFlags(cmd *cobra.Command) *field.Options {
	var o field.Options
	set := false
	if cmd.Flags().Changed("max-length") {
		o.MaxLength = &fieldMaxLength
		set = true
	}
	if cmd.Flags().Changed("min") {
		o.Min = &fieldMin
		set = true
	}
	if cmd.Flags().Changed("max") {
		o.Max = &fieldMax
		set = true
	}
	if cmd.Flags().Changed("choices") {
		o.Choices = fieldChoices
		set = true
	}
	if cmd.Flags().Changed("target-vault") {
		o.TargetVaultID = &fieldTargetVault
		set = true
	}
	if cmd.Flags().Changed("display-fields") {
		o.DisplayFields = fieldDisplayFields
		set = true
	}
	if !set {
		return nil
	}
	return &o
}

var fieldAddCmd = &cobra.Command{
	Use:   "add <vault-id> <name>",
	Short: "Add a field to a vault",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultID, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}

		t, ok := field.ParseType(fieldType)
		if !ok {
			return handleErr(apperr.Validation("Unknown field type '%s' (valid: %s)", fieldType, typeNames()))
		}

		f, err := st.CreateFieldDefinition(cmd.Context(), model.CreateField{
			VaultID:  vaultID,
			Name:     args[1],
			Type:     t,
			Options:  optionsFromFlags(cmd),
			Required: fieldRequired,
		})
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(f, nil)
			return nil
		}
		fmt.Println(ui.Successf("Added %s field %s (id %d)", f.Type, ui.Name(f.Name), f.ID))
		return nil
	},
}

var fieldListCmd = &cobra.Command{
	Use:   "list <vault-id>",
	Short: "List a vault's fields in schema order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultID, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}
		if _, err := st.GetVault(cmd.Context(), vaultID); err != nil {
			return handleErr(err)
		}

		fields, err := st.ListFieldDefinitions(cmd.Context(), vaultID)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(fields, &Meta{Count: len(fields)})
			return nil
		}

		if len(fields) == 0 {
			fmt.Println("No fields defined. Add one with 'vaultry field add'")
			return nil
		}
		printFieldTable(fields)
		return nil
	},
}

var fieldUpdateCmd = &cobra.Command{
	Use:   "update <field-id>",
	Short: "Update a field's name, options, or required flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "field")
		if err != nil {
			return handleErr(err)
		}

		params := model.UpdateField{
			Name:    changedString(cmd.Flags(), "name", fieldUpdateName),
			Options: optionsFromFlags(cmd),
		}
		if cmd.Flags().Changed("required") {
			params.Required = &fieldRequired
		}

		f, err := st.UpdateFieldDefinition(cmd.Context(), id, params)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(f, nil)
			return nil
		}
		fmt.Println(ui.Successf("Updated field %s", ui.Name(f.Name)))
		return nil
	},
}

var fieldUpdateName string

var fieldRmCmd = &cobra.Command{
	Use:   "rm <field-id>",
	Short: "Delete a field definition",
	Long: `Delete a field definition. Metadata stored under the field stays on
entries as orphan data until their next write cleans it up.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "field")
		if err != nil {
			return handleErr(err)
		}

		if err := st.DeleteFieldDefinition(cmd.Context(), id); err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{"deleted": id}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Deleted field %d", id))
		return nil
	},
}

var fieldReorderCmd = &cobra.Command{
	Use:   "reorder <vault-id> <field-id>...",
	Short: "Rewrite field positions from the given order",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultID, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}

		ids := make([]int64, 0, len(args)-1)
		for _, arg := range args[1:] {
			id, err := parseID(arg, "field")
			if err != nil {
				return handleErr(err)
			}
			ids = append(ids, id)
		}

		if err := st.ReorderFieldDefinitions(cmd.Context(), vaultID, ids); err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{"reordered": ids}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Reordered %d fields", len(ids)))
		return nil
	},
}

func printFieldTable(fields []model.FieldDefinition) {
	table := ui.NewTable(5)
	table.SetHeader("ID", "NAME", "TYPE", "REQUIRED", "OPTIONS")
	for _, f := range fields {
		required := ""
		if f.Required {
			required = "yes"
		}
		table.AddRow(fmt.Sprintf("%d", f.ID), f.Name, string(f.Type), required, describeOptions(f.Options))
	}
	fmt.Print(table.String())
}

func describeOptions(o *field.Options) string {
	if o == nil {
		return ""
	}
	var parts []string
	if o.MaxLength != nil {
		parts = append(parts, fmt.Sprintf("max_length=%d", *o.MaxLength))
	}
	if o.Min != nil {
		parts = append(parts, fmt.Sprintf("min=%v", *o.Min))
	}
	if o.Max != nil {
		parts = append(parts, fmt.Sprintf("max=%v", *o.Max))
	}
	if len(o.Choices) > 0 {
		parts = append(parts, "choices="+strings.Join(o.Choices, "|"))
	}
	if o.TargetVaultID != nil {
		parts = append(parts, fmt.Sprintf("target_vault=%d", *o.TargetVaultID))
	}
	return strings.Join(parts, " ")
}

func typeNames() string {
	names := make([]string, len(field.Types))
	for i, t := range field.Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func init() {
	fieldAddCmd.Flags().StringVarP(&fieldType, "type", "t", "text", "Field type (text, number, date, url, boolean, select, relation)")
	fieldAddCmd.Flags().BoolVarP(&fieldRequired, "required", "r", false, "Require a value on every entry")
	fieldUpdateCmd.Flags().StringVarP(&fieldUpdateName, "name", "n", "", "New name")
	fieldUpdateCmd.Flags().BoolVarP(&fieldRequired, "required", "r", false, "Require a value on every entry")
	for _, c := range []*cobra.Command{fieldAddCmd, fieldUpdateCmd} {
		c.Flags().IntVar(&fieldMaxLength, "max-length", 0, "Maximum text length in characters")
		c.Flags().Float64Var(&fieldMin, "min", 0, "Minimum number value")
		c.Flags().Float64Var(&fieldMax, "max", 0, "Maximum number value")
		c.Flags().StringSliceVar(&fieldChoices, "choices", nil, "Allowed values for select fields")
		c.Flags().Int64Var(&fieldTargetVault, "target-vault", 0, "Target vault id for relation fields")
		c.Flags().StringSliceVar(&fieldDisplayFields, "display-fields", nil, "Target fields shown for resolved relations")
	}

	fieldCmd.AddCommand(fieldAddCmd, fieldListCmd, fieldUpdateCmd, fieldRmCmd, fieldReorderCmd, fieldExportCmd, fieldImportCmd)
	rootCmd.AddCommand(fieldCmd)
}
