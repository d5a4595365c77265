package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show loaded pattern counts and detector toggles",
	RunE:  statsCommand,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func statsCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, infos, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	s := engine.Stats()
	fmt.Printf("Harmful patterns:    %d\n", s.HarmfulPatterns)
	fmt.Printf("Jailbreak patterns:  %d\n", s.JailbreakPatterns)
	fmt.Printf("Content filter:      %s\n", onOff(s.ContentFilterEnabled))
	fmt.Printf("PII detection:       %s\n", onOff(s.PIIDetectionEnabled))
	fmt.Printf("Jailbreak detection: %s\n", onOff(s.JailbreakDetectionEnabled))
	fmt.Printf("Pattern packs:       %d (%s)\n", len(infos), cfg.PacksDir)
	return nil
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
