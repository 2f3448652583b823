package version

import (
	"fmt"

	"github.com/jongio/parseurl/cliout"
	"github.com/spf13/cobra"
)

// NewCommand creates a version command that displays info in the current
// cliout format.
func NewCommand(info *Info) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: fmt.Sprintf("Display %s version information", info.Name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if quiet && !cliout.IsStructured() {
				cliout.Plain("%s", info.Version)
				return nil
			}

			return cliout.Print(info, func() {
				cliout.Header(fmt.Sprintf("%s version", info.Name))
				cliout.Label("Version", info.Version, 10)
				cliout.Label("Build Date", info.BuildDate, 10)
				cliout.Label("Git Commit", info.GitCommit, 10)
				cliout.Label("Go", info.GoVersion, 10)
				cliout.Label("Platform", info.Platform, 10)
			})
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print version number")
	return cmd
}
