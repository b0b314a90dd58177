package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func embedCmd(env *string) *cobra.Command {
	return &cobra.Command{
		Use:   "embed <organization-id> <document-id>",
		Short: "Embed a stored document and upsert its vector",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *env)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.indexing.IndexDocument(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}
