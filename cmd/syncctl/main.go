// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command syncctl works with the local sync store of an app: it reads and
// writes documents offline and pushes, pulls and syncs them with the backend.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

var rootCmd = &cobra.Command{
	Use:           "syncctl",
	Short:         "Offline-first document store client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Build version: %s\n", orNA(buildVersion))
		_, _ = fmt.Fprintf(out, "Build date: %s\n", orNA(buildDate))
		_, _ = fmt.Fprintf(out, "Build commit: %s\n", orNA(buildCommit))
	},
}

func init() {
	registerConfigFlags(rootCmd)
	registerCommands(rootCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
