package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"forecast-api/internal/docs"
)

var openapiList bool

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the OpenAPI document served at /swagger/v1/swagger.json",
	RunE:  runOpenAPI,
}

func init() {
	openapiCmd.Flags().BoolVar(&openapiList, "list", false, "print only the operation ids")
}

func runOpenAPI(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ops := docs.Operations()

	if openapiList {
		for _, id := range docs.OperationIDs(ops) {
			fmt.Fprintln(out, id)
		}
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(docs.Build(docs.DefaultInfo(), ops, docs.DefaultFilters()...))
}
