package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptshield/promptshield/internal/filter"
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [text]",
	Short: "Redact emails, phone numbers, SSNs, and credit cards from text",
	Long: `Replace PII substrings with placeholder tokens and print the result.
Text comes from the argument, or from stdin when no argument is given.

  promptshield sanitize "call 555-123-4567 or email a@b.com"`,
	Args: cobra.MaximumNArgs(1),
	RunE: sanitizeCommand,
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)
}

func sanitizeCommand(cmd *cobra.Command, args []string) error {
	text, err := readText(args)
	if err != nil {
		return err
	}
	fmt.Println(filter.Sanitize(text))
	return nil
}
