package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/willianpinho/document-management-system-sub001/internal/config"
	"github.com/willianpinho/document-management-system-sub001/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var env string

	root := &cobra.Command{
		Use:           "docsearch",
		Short:         "Hybrid document search service",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&env, "env", "e", config.GetEnv(), "config environment (config/<env>.yaml)")

	root.AddCommand(
		serveCmd(&env),
		migrateCmd(&env),
		embedCmd(&env),
		searchCmd(&env),
	)
	return root
}
