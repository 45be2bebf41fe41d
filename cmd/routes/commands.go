// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"codeberg.org/mangafe/mangafe/core/resolver"
)

var (
	errInvalidParam = errors.New("parameters must be given as key=value")
	// errNoMatch is reported when at least one path given to resolve matched no route.
	errNoMatch = errors.New("one or more paths did not match a route")
)

func listCmd(table *resolver.Table) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered routes in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintln(tw, "NAME\tPATTERN\tPARAMS\tVIEW")

			for _, p := range table.Patterns() {
				params := strings.Join(p.Params(), ",")
				if params == "" {
					params = "-"
				}

				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.Path, params, p.View)
			}

			return tw.Flush()
		},
	}
}

func resolveCmd(table *resolver.Table) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Resolve one or more paths to a route",
		Long: `Resolve prints the matching route name and captured parameters for each path.
Paths that match nothing print "no match" and make the command exit with status 1.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			missed := false

			for _, path := range args {
				m, ok := table.Resolve(path)
				if !ok {
					missed = true

					fmt.Fprintf(out, "%s\tno match\n", path)

					continue
				}

				fmt.Fprintf(out, "%s\t%s", path, m.Name())

				for _, name := range m.Pattern.Params() {
					fmt.Fprintf(out, "\t%s=%s", name, m.Param(name))
				}

				fmt.Fprintln(out)
			}

			if missed {
				return errNoMatch
			}

			return nil
		},
	}
}

func pathCmd(table *resolver.Table) *cobra.Command {
	return &cobra.Command{
		Use:     "path <name> [key=value]...",
		Short:   "Build the path of a named route",
		Example: "  routes path manga-detail id=a96676e5-8ae2-425e-b549-7f15dd34a6d8",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}

			path, err := table.Path(args[0], params)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)

			return nil
		},
	}
}

func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidParam, arg)
		}

		params[key] = value
	}

	return params, nil
}
