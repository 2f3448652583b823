// Package clidoc describes a cobra command tree as JSON, for shell
// completion generators and documentation tooling.
package clidoc

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// SchemaVersion is the version of the Metadata layout.
const SchemaVersion = "1.0"

// Metadata is the document emitted by the metadata command.
type Metadata struct {
	SchemaVersion string            `json:"schemaVersion"`
	Name          string            `json:"name"`
	Version       string            `json:"version"`
	Commands      []CommandMetadata `json:"commands"`
	GlobalFlags   []FlagMetadata    `json:"globalFlags,omitempty"`
	Configuration *ConfigMetadata   `json:"configuration,omitempty"`
	Keys          []string          `json:"keys,omitempty"`
}

// CommandMetadata describes a single command.
type CommandMetadata struct {
	Name        []string          `json:"name"`
	Short       string            `json:"short"`
	Long        string            `json:"long,omitempty"`
	Usage       string            `json:"usage,omitempty"`
	Example     string            `json:"example,omitempty"`
	Flags       []FlagMetadata    `json:"flags,omitempty"`
	Subcommands []CommandMetadata `json:"subcommands,omitempty"`
	Aliases     []string          `json:"aliases,omitempty"`
	Deprecated  string            `json:"deprecated,omitempty"`
}

// FlagMetadata describes a flag.
type FlagMetadata struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
	Deprecated  string `json:"deprecated,omitempty"`
}

// ConfigMetadata describes configuration inputs.
type ConfigMetadata struct {
	EnvironmentVariables []EnvVarMetadata `json:"environmentVariables,omitempty"`
}

// EnvVarMetadata describes an environment variable.
type EnvVarMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     string `json:"default,omitempty"`
	Example     string `json:"example,omitempty"`
}

// Options carries the parts of Metadata that cannot be read from cobra.
type Options struct {
	Version string
	EnvVars []EnvVarMetadata
	Keys    []string
}

// Generate introspects rootCmd. Hidden commands, help and completion are
// skipped.
func Generate(rootCmd *cobra.Command, opts Options) *Metadata {
	m := &Metadata{
		SchemaVersion: SchemaVersion,
		Name:          rootCmd.Name(),
		Version:       opts.Version,
		Commands:      generateCommands(rootCmd),
		GlobalFlags:   collectFlags(rootCmd.PersistentFlags()),
		Keys:          opts.Keys,
	}
	if len(opts.EnvVars) > 0 {
		m.Configuration = &ConfigMetadata{EnvironmentVariables: opts.EnvVars}
	}
	return m
}

// NewCommand creates the hidden metadata command. rootCmdProvider is called
// at run time so the command sees the fully assembled tree.
func NewCommand(rootCmdProvider func() *cobra.Command, opts Options) *cobra.Command {
	return &cobra.Command{
		Use:    "metadata",
		Short:  "Print the command tree as JSON",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(Generate(rootCmdProvider(), opts), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal metadata: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func skip(cmd *cobra.Command) bool {
	return cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "completion"
}

func generateCommands(cmd *cobra.Command) []CommandMetadata {
	var commands []CommandMetadata
	for _, child := range cmd.Commands() {
		if skip(child) {
			continue
		}
		commands = append(commands, generateCommand(child))
	}
	return commands
}

func generateCommand(cmd *cobra.Command) CommandMetadata {
	return CommandMetadata{
		Name:        commandPath(cmd),
		Short:       cmd.Short,
		Long:        cmd.Long,
		Usage:       cmd.UseLine(),
		Example:     cmd.Example,
		Flags:       collectFlags(cmd.LocalNonPersistentFlags()),
		Subcommands: generateCommands(cmd),
		Aliases:     cmd.Aliases,
		Deprecated:  cmd.Deprecated,
	}
}

func collectFlags(fs *pflag.FlagSet) []FlagMetadata {
	var flags []FlagMetadata
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		flags = append(flags, FlagMetadata{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
			Deprecated:  f.Deprecated,
		})
	})
	return flags
}

// commandPath returns the names from below the root down to cmd.
func commandPath(cmd *cobra.Command) []string {
	if !cmd.HasParent() || !cmd.Parent().HasParent() {
		return []string{cmd.Name()}
	}
	return append(commandPath(cmd.Parent()), cmd.Name())
}
