// Package cli provides the hunterd command implementations.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// FlagSchema describes one command flag in the machine-readable help output.
type FlagSchema struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// CommandSchema describes a command and its subcommands.
type CommandSchema struct {
	Name        string          `json:"name"`
	Use         string          `json:"use,omitempty"`
	Description string          `json:"description,omitempty"`
	Flags       []FlagSchema    `json:"flags,omitempty"`
	Subcommands []CommandSchema `json:"subcommands,omitempty"`
}

// GenerateSchema builds the schema for a cobra command tree.
func GenerateSchema(cmd *cobra.Command) CommandSchema {
	schema := CommandSchema{
		Name:        cmd.Name(),
		Use:         cmd.Use,
		Description: cmd.Short,
		Flags:       extractFlags(cmd),
	}

	for _, sub := range cmd.Commands() {
		if sub.Name() == "help" || sub.Hidden {
			continue
		}
		schema.Subcommands = append(schema.Subcommands, GenerateSchema(sub))
	}

	return schema
}

func extractFlags(cmd *cobra.Command) []FlagSchema {
	var flags []FlagSchema
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" || f.Name == "help-json" {
			return
		}
		flags = append(flags, FlagSchema{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
			Description: f.Usage,
		})
	})
	return flags
}

// AddHelpJSONFlag adds the --help-json flag to a command.
func AddHelpJSONFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool("help-json", false, "Output command schema as JSON")
}

// CheckHelpJSON scans os.Args for --help-json and, when present, prints the
// schema of the addressed command and exits. Call before Execute so the flag
// is handled ahead of argument validation.
func CheckHelpJSON(rootCmd *cobra.Command) {
	for i, arg := range os.Args {
		if arg != "--help-json" {
			continue
		}
		target := findTargetCommand(rootCmd, os.Args[1:i])
		output, err := json.MarshalIndent(GenerateSchema(target), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating schema: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(output))
		os.Exit(0)
	}
}

func findTargetCommand(cmd *cobra.Command, args []string) *cobra.Command {
	if len(args) == 0 {
		return cmd
	}
	for _, sub := range cmd.Commands() {
		if sub.Name() == args[0] || sub.HasAlias(args[0]) {
			return findTargetCommand(sub, args[1:])
		}
	}
	return cmd
}
