package main

import (
	"fmt"

	"github.com/leca/arexplorer-images/internal/docs"
	"github.com/spf13/cobra"
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Prints the OpenAPI document for the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), string(docs.YAML()))
		return err
	},
}

func init() {
	rootCmd.AddCommand(openapiCmd)
}
