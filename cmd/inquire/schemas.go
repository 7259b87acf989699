// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daviddl9/inquire/pkg/research"
	"github.com/daviddl9/inquire/pkg/types"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List the classes and extraction functions in the schema directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Listing never calls a model.
		overrides := overridesFromFlags(cmd)
		overrides[types.KeyBackend] = string(types.BackendPlaceholder)

		r, err := research.New(overrides, research.WithLogger(logger))
		if err != nil {
			return err
		}
		defs, err := r.Definitions(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Schema directory: %s\n\n", r.Config().SchemaDir)
		printDefinitions(os.Stdout, defs)
		return nil
	},
}

func printDefinitions(w io.Writer, defs *types.Definitions) {
	fmt.Fprintf(w, "%-24s  %s\n", "Function", "Returns")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, name := range defs.FunctionNames() {
		fn, _ := defs.Function(name)
		fmt.Fprintf(w, "%-24s  %s\n", fn.Name, fn.Returns)
	}

	fmt.Fprintln(w)
	for _, name := range defs.ClassNames() {
		c, _ := defs.Class(name)
		fmt.Fprintf(w, "class %s\n", c.Name)
		for _, fd := range c.Fields {
			req := ""
			if fd.Required {
				req = " (required)"
			}
			fmt.Fprintf(w, "  %-20s  %s%s\n", fd.Name, fd.Type, req)
		}
	}
}

func init() {
	schemasCmd.Flags().String("baml-dir", "", "schema directory (default ./baml_schemas)")

	rootCmd.AddCommand(schemasCmd)
}
