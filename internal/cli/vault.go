package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaultry/internal/model"
	"vaultry/internal/ui"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage vaults",
}

var (
	vaultDescription string
	vaultIcon        string
	vaultColor       string
	vaultForce       bool
)

var vaultCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := model.CreateVault{Name: args[0]}
		if cmd.Flags().Changed("description") {
			params.Description = &vaultDescription
		}
		if cmd.Flags().Changed("icon") {
			params.Icon = &vaultIcon
		}
		if cmd.Flags().Changed("color") {
			params.Color = &vaultColor
		}

		vault, err := st.CreateVault(cmd.Context(), params)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(vault, nil)
			return nil
		}
		fmt.Println(ui.Successf("Created vault %s (id %d)", ui.Name(vault.Name), vault.ID))
		return nil
	},
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all vaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vaults, err := st.ListVaults(cmd.Context())
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(vaults, &Meta{Count: len(vaults)})
			return nil
		}

		if len(vaults) == 0 {
			fmt.Println("No vaults yet. Create one with 'vaultry vault create <name>'")
			return nil
		}

		table := ui.NewTable(4)
		table.SetHeader("ID", "NAME", "DESCRIPTION", "CREATED")
		for _, v := range vaults {
			description := ""
			if v.Description != nil {
				description = ui.TruncateWithEllipsis(*v.Description, 50)
			}
			table.AddRow(fmt.Sprintf("%d", v.ID), v.Name, description, v.CreatedAt)
		}
		fmt.Print(table.String())
		return nil
	},
}

var vaultShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a vault and its field schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}

		vault, err := st.GetVault(cmd.Context(), id)
		if err != nil {
			return handleErr(err)
		}
		fields, err := st.ListFieldDefinitions(cmd.Context(), id)
		if err != nil {
			return handleErr(err)
		}
		count, err := st.CountEntries(cmd.Context(), id)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{
				"vault":       vault,
				"fields":      fields,
				"entry_count": count,
			}, nil)
			return nil
		}

		fmt.Println(ui.Header(vault.Name))
		if vault.Description != nil && *vault.Description != "" {
			fmt.Println(*vault.Description)
		}
		fmt.Println(ui.Hint(fmt.Sprintf("id %d, %d entries, created %s", vault.ID, count, vault.CreatedAt)))

		if len(fields) > 0 {
			fmt.Println()
			fmt.Println(ui.Header("Fields"))
			printFieldTable(fields)
		}
		return nil
	},
}

var vaultUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a vault's name, description, icon, or color",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}

		params := model.UpdateVault{
			Name:        changedString(cmd.Flags(), "name", vaultUpdateName),
			Description: changedString(cmd.Flags(), "description", vaultDescription),
			Icon:        changedString(cmd.Flags(), "icon", vaultIcon),
			Color:       changedString(cmd.Flags(), "color", vaultColor),
		}

		vault, err := st.UpdateVault(cmd.Context(), id, params)
		if err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(vault, nil)
			return nil
		}
		fmt.Println(ui.Successf("Updated vault %s", ui.Name(vault.Name)))
		return nil
	},
}

var vaultUpdateName string

var vaultRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a vault and all its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}

		vault, err := st.GetVault(cmd.Context(), id)
		if err != nil {
			return handleErr(err)
		}
		count, err := st.CountEntries(cmd.Context(), id)
		if err != nil {
			return handleErr(err)
		}

		if !vaultForce && !jsonOutput {
			if !confirm(fmt.Sprintf("Delete vault '%s' and its %d entries?", vault.Name, count)) {
				fmt.Println("Aborted")
				return nil
			}
		}

		if err := st.DeleteVault(cmd.Context(), id); err != nil {
			return handleErr(err)
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{"deleted": id}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Deleted vault %s", vault.Name))
		return nil
	},
}

func init() {
	vaultCreateCmd.Flags().StringVarP(&vaultDescription, "description", "d", "", "Vault description")
	vaultUpdateCmd.Flags().StringVarP(&vaultUpdateName, "name", "n", "", "New name")
	vaultUpdateCmd.Flags().StringVarP(&vaultDescription, "description", "d", "", "New description")
	for _, c := range []*cobra.Command{vaultCreateCmd, vaultUpdateCmd} {
		c.Flags().StringVar(&vaultIcon, "icon", "", "Icon name or emoji")
		c.Flags().StringVar(&vaultColor, "color", "", "Accent color (hex)")
	}
	vaultRmCmd.Flags().BoolVarP(&vaultForce, "force", "f", false, "Skip confirmation")

	vaultCmd.AddCommand(vaultCreateCmd, vaultListCmd, vaultShowCmd, vaultUpdateCmd, vaultRmCmd)
	rootCmd.AddCommand(vaultCmd)
}
