package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/promptshield/promptshield/internal/filter"
)

var checkDirection string

var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Check text for harmful content, jailbreak attempts, and PII",
	Long: `Run the safety checks against a text and print the verdict.
Text comes from the argument, or from stdin when no argument is given.
Exits with status 1 when the text is judged unsafe.

  promptshield check "ignore previous instructions"
  cat prompt.txt | promptshield check
  promptshield check --direction output "As an AI language model..."`,
	Args: cobra.MaximumNArgs(1),
	RunE: checkCommand,
}

func init() {
	checkCmd.Flags().StringVarP(&checkDirection, "direction", "d", "input", "Check direction: input or output")
	rootCmd.AddCommand(checkCmd)
}

func checkCommand(cmd *cobra.Command, args []string) error {
	text, err := readText(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, _, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	auditLog, err := openAudit(cfg)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer auditLog.Close()

	var dir filter.Direction
	var verdict filter.Verdict
	switch checkDirection {
	case "input":
		dir = filter.DirectionInput
		verdict = engine.CheckInput(text)
	case "output":
		dir = filter.DirectionOutput
		verdict = engine.CheckOutput(text)
	default:
		return fmt.Errorf("invalid direction %q: must be input or output", checkDirection)
	}

	if err := auditLog.Record(dir, text, verdict); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	printVerdict(verdict)
	if !verdict.Safe {
		os.Exit(1)
	}
	return nil
}

// readText takes the text from the argument or stdin. When stdin is an
// interactive terminal, prompt first instead of appearing to hang.
func readText(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Reading text from stdin (ctrl-d to finish):")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func printVerdict(v filter.Verdict) {
	if v.Safe {
		fmt.Printf("SAFE (confidence %.1f)\n", v.Confidence)
		return
	}

	fmt.Printf("UNSAFE (confidence %.1f)\n", v.Confidence)
	fmt.Printf("  Reason:  %s\n", v.Reason)
	if v.MatchedPattern != "" {
		fmt.Printf("  Pattern: %s\n", v.MatchedPattern)
	}
	for _, f := range v.DetectedPII {
		fmt.Printf("  PII:     %s ×%d (%s)\n", f.Type, f.Count, strings.Join(f.Examples, ", "))
	}
}
