// Package cli implements the arcitek command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is the application version, set at build time with
// -ldflags "-X github.com/arcitek-ai/arcitek/internal/cli.Version=...".
var Version = "1.0.0"

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Without a subcommand the server runs.
func NewRootCmd() *cobra.Command {
	opts := newServeOptions()

	cmd := &cobra.Command{
		Use:          "arcitek",
		Short:        "ArciTEK.AI backend: music, image and story generation API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	opts.bind(cmd)

	cmd.AddCommand(serveCmd(), toneCmd(), versionCmd())

	return cmd
}

func serveCmd() *cobra.Command {
	opts := newServeOptions()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	opts.bind(cmd)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("arcitek %s\n", Version)
		},
	}
}
