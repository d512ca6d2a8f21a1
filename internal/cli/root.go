package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "httptestd",
	Short: "httptestd is a standalone mock HTTP server driven by fixture files",
	Long: `httptestd serves HTTP expectations declared in YAML fixture files, so
clients in any language can be tested against deterministic mock traffic.

The server runs until interrupted, then verifies that every expectation was
hit the declared number of times and that no unexpected request arrived.
A verification failure exits non-zero, which makes httptestd usable as a
contract check in CI pipelines.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
