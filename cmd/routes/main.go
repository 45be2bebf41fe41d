// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command routes inspects the MangaFE route table from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/mangafe/mangafe/core/resolver"
)

func main() {
	if err := rootCmd(resolver.Manga()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd(table *resolver.Table) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Inspect the MangaFE route table",
		Long: `routes prints, resolves and builds paths against the route table
used by the MangaFE server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		listCmd(table),
		resolveCmd(table),
		pathCmd(table),
	)

	return cmd
}
