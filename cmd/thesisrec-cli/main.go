/*
Package main is the entry point for thesisrec-cli.

thesisrec-cli queries a thesis subject CSV offline, with the same ranking
as the HTTP API.

Usage:

	thesisrec-cli [command]

Examples:

	thesisrec-cli recommend --csv subjects.csv --query "traitement d'images"
	thesisrec-cli stats tags --csv subjects.csv --program GE
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/thesisrec/internal/cli"
	"github.com/kailas-cloud/thesisrec/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "thesisrec-cli",
		Short:         "Recommend thesis subjects from a CSV corpus",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cli.NewRecommendCmd())
	rootCmd.AddCommand(cli.NewStatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
