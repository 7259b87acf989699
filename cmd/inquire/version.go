// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the inquire version and the Anthropic SDK it was built with",
	Run: func(cmd *cobra.Command, args []string) {
		writeVersion(cmd.OutOrStdout(), version, readSDKVersion())
	},
}

const sdkModule = "github.com/anthropics/anthropic-sdk-go"

func readSDKVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, dep := range info.Deps {
		if dep.Path == sdkModule {
			return dep.Version
		}
	}
	return ""
}

func writeVersion(w io.Writer, v, sdk string) {
	fmt.Fprintf(w, "inquire %s (%s)\n", v, runtime.Version())
	if sdk != "" {
		fmt.Fprintf(w, "anthropic-sdk-go %s\n", sdk)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
