package main

import (
	"fmt"
	"os"

	"github.com/hunterapp/hunterd/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hunterd",
		Short: "hunterd - vocabulary learning and usage accounting service",
		Long:  "hunterd serves the self-tuning search dictionary, usage accounting and admin API",
	}

	rootCmd.AddCommand(cli.ServeCmd())
	cli.AddHelpJSONFlag(rootCmd)
	cli.CheckHelpJSON(rootCmd)

	// Default to serve when invoked without a subcommand
	if len(os.Args) == 1 {
		rootCmd.SetArgs([]string{"serve"})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
