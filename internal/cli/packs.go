package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptshield/promptshield/internal/packs"
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "List pattern packs in the packs directory",
	Long: `List the YAML pattern packs that extend the built-in rules. Packs whose
filename starts with an underscore are present but disabled.`,
	RunE: packsCommand,
}

func init() {
	rootCmd.AddCommand(packsCmd)
}

func packsCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, infos, err := packs.Load(cfg.PacksDir)
	if err != nil {
		return fmt.Errorf("failed to read packs from %s: %w", cfg.PacksDir, err)
	}

	if len(infos) == 0 {
		fmt.Printf("No pattern packs in %s\n", cfg.PacksDir)
		return nil
	}

	for _, info := range infos {
		state := "enabled"
		if !info.Enabled {
			state = "disabled"
		}
		version := info.Version
		if version == "" {
			version = "-"
		}
		fmt.Printf("%-24s %-10s %-8s %3d patterns  %s\n",
			info.Name, version, state, info.PatternCount, info.Path)
	}
	return nil
}
