// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/daviddl9/inquire/internal/extract"
	"github.com/daviddl9/inquire/internal/llm"
	"github.com/daviddl9/inquire/pkg/research"
	"github.com/daviddl9/inquire/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [instructions...]",
	Short: "Research a topic and extract a record with a declared function",
	Long: `Research produces research text for the instructions, runs the extraction
function named by --function over it and prints the extracted record.

The function must be declared in a YAML file in the schema directory; its
return class decides which fields are extracted and validated.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	fnName, _ := cmd.Flags().GetString("function")
	if fnName == "" {
		return fmt.Errorf("--function is required")
	}
	instructions := strings.Join(args, " ")

	r, err := research.New(overridesFromFlags(cmd), research.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	defs, err := r.Definitions(ctx)
	if err != nil {
		return err
	}

	client, err := llm.FromConfig(r.Config())
	if err != nil {
		return err
	}
	fn, err := extract.New(defs, fnName, client)
	if err != nil {
		return err
	}

	result, err := r.Research(ctx, instructions, research.ClassSchema(defs, fn.Returns()), fn)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return writeResult(os.Stdout, result, jsonOutput)
}

// overridesFromFlags layers the config file, INQUIRE_* environment variables
// and explicitly set flags, in increasing precedence.
func overridesFromFlags(cmd *cobra.Command) map[string]any {
	overrides := viper.AllSettings()
	// Environment values arrive as strings; coerce the documented keys.
	for _, key := range []string{types.KeySchemaDir, types.KeyBackend, types.KeyModel} {
		if viper.IsSet(key) {
			overrides[key] = viper.GetString(key)
		}
	}
	if viper.IsSet(types.KeyMaxTokens) {
		overrides[types.KeyMaxTokens] = viper.GetInt(types.KeyMaxTokens)
	}

	flagKeys := map[string]string{
		"baml-dir": types.KeySchemaDir,
		"backend":  types.KeyBackend,
		"model":    types.KeyModel,
	}
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}
	if cmd.Flags().Changed("max-tokens") {
		n, _ := cmd.Flags().GetInt("max-tokens")
		overrides[types.KeyMaxTokens] = n
	}
	return overrides
}

func writeResult(w io.Writer, result any, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func init() {
	researchCmd.Flags().String("function", "", "extraction function declared in the schema directory")
	researchCmd.Flags().String("baml-dir", "", "schema directory (default ./baml_schemas)")
	researchCmd.Flags().String("backend", "", "research backend: placeholder or claude")
	researchCmd.Flags().String("model", "", "Claude model identifier")
	researchCmd.Flags().Int("max-tokens", 0, "maximum tokens per model reply")
	researchCmd.Flags().Bool("json", false, "print the record as JSON instead of YAML")

	rootCmd.AddCommand(researchCmd)
}
