package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vaultry/internal/apperr"
	"vaultry/internal/field"
	"vaultry/internal/model"
	"vaultry/internal/ui"
)

// schemaDoc is the YAML form of a vault's field schema, for export/import.
type schemaDoc struct {
	Vault  string        `yaml:"vault"`
	Fields []schemaField `yaml:"fields"`
}

type schemaField struct {
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	Required bool           `yaml:"required,omitempty"`
	Options  *field.Options `yaml:"options,omitempty"`
}

var fieldExportCmd = &cobra.Command{
	Use:   "export <vault-id>",
	Short: "Export a vault's field schema as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultID, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}

		vault, err := st.GetVault(cmd.Context(), vaultID)
		if err != nil {
			return handleErr(err)
		}
		fields, err := st.ListFieldDefinitions(cmd.Context(), vaultID)
		if err != nil {
			return handleErr(err)
		}

		doc := schemaDoc{Vault: vault.Name}
		for _, f := range fields {
			doc.Fields = append(doc.Fields, schemaField{
				Name:     f.Name,
				Type:     string(f.Type),
				Required: f.Required,
				Options:  f.Options,
			})
		}

		out, err := yaml.Marshal(doc)
		if err != nil {
			return handleErr(apperr.Internal("failed to encode schema: %v", err))
		}
		fmt.Print(string(out))
		return nil
	},
}

var fieldImportCmd = &cobra.Command{
	Use:   "import <vault-id> <schema.yaml>",
	Short: "Import field definitions from a YAML schema file",
	Long: `Import field definitions from a YAML schema file. Fields are appended
in file order; a field whose name already exists in the vault is skipped
with a warning.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultID, err := parseID(args[0], "vault")
		if err != nil {
			return handleErr(err)
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			return handleErr(apperr.Malformed("failed to read schema file: %v", err))
		}
		var doc schemaDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return handleErr(apperr.Malformed("failed to parse schema file: %v", err))
		}

		var created []model.FieldDefinition
		var warnings []string
		for _, sf := range doc.Fields {
			t, ok := field.ParseType(sf.Type)
			if !ok {
				return handleErr(apperr.Validation("Unknown field type '%s' for field '%s'", sf.Type, sf.Name))
			}
			f, err := st.CreateFieldDefinition(cmd.Context(), model.CreateField{
				VaultID:  vaultID,
				Name:     sf.Name,
				Type:     t,
				Options:  sf.Options,
				Required: sf.Required,
			})
			if err != nil {
				if apperr.KindOf(err) == apperr.KindValidation {
					warnings = append(warnings, fmt.Sprintf("skipped '%s': %v", sf.Name, err))
					continue
				}
				return handleErr(err)
			}
			created = append(created, *f)
		}

		if jsonOutput {
			outputSuccessWithWarnings(created, warnings, &Meta{Count: len(created)})
			return nil
		}
		for _, w := range warnings {
			fmt.Println(ui.Warning(w))
		}
		fmt.Println(ui.Successf("Imported %d fields", len(created)))
		return nil
	},
}
