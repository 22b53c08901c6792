package cli

import (
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile string
	verbose    bool
	quiet      bool
}

// NewRootCommand creates the chimney root command with all subcommands.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&globalOptions{})
}

func newRootCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chimney",
		Short: "chimney - typed HTTP requests from the command line",
		Long: `chimney sends one HTTP request through the chimney request pipeline:
the URL is assembled from path segments, the body encoded as JSON or form
data, and the response classified into a body or a structured error.

Defaults (base URL, credentials, timeout, TLS) come from the config file
and CHIMNEY_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&g.configFile, "config", "", "Path to config file (default: ./config.yml or ~/.config/chimney/config.yml)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log a diagnostic for every request")
	cmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "Only log errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(newRequestCommand(g))
	cmd.AddCommand(newCurlCommand(g))
	cmd.AddCommand(newVersionCommand())

	return cmd
}
