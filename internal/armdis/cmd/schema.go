package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:    "schema",
	Short:  "Generate JSON schema for configuration",
	Long:   "Generate JSON schema for .armdis.json, or with --listing for one entry of the dump --json output",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		listing, _ := cmd.Flags().GetBool("listing")
		bts, err := schemaJSON(listing)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bts))
		return nil
	},
}

func schemaJSON(listing bool) ([]byte, error) {
	reflector := new(jsonschema.Reflector)
	var v any = &Config{}
	if listing {
		v = &jsonInst{}
	}
	bts, err := json.MarshalIndent(reflector.Reflect(v), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return bts, nil
}

func init() {
	schemaCmd.Flags().Bool("listing", false, "Schema of the dump --json output")
	rootCmd.AddCommand(schemaCmd)
}
