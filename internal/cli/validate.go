package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	validateFiles []string
	validateGlobs []string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate fixture files without starting a server",
	Long: `Validate fixture files without starting a server.

Every file is parsed and its expectations are built, so syntax errors, typo'd
keys, bad regular expressions, and malformed constraints are reported the
same way serve would report them.`,
	Example: `  httptestd validate --file api.yaml
  httptestd validate --glob 'fixtures/**/*.yaml'`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringArrayVar(&validateFiles, "file", nil, "Fixture file to validate (repeatable)")
	validateCmd.Flags().StringArrayVar(&validateGlobs, "glob", nil, "Fixture glob pattern (repeatable)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if len(validateFiles) == 0 && len(validateGlobs) == 0 {
		return errors.New("at least one --file or --glob is required")
	}

	es, err := loadFixtures(validateFiles, validateGlobs)
	if err != nil {
		return err
	}
	if len(es) == 0 {
		return errors.New("no expectations found (globs matched no files)")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: %d expectation(s)\n", len(es))
	return nil
}
