package cmd

import (
	"github.com/theirongolddev/payg/internal/scenario"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for scenario files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		raw, err := scenario.Schema()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
