package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptshield/promptshield/internal/audit"
	"github.com/promptshield/promptshield/internal/config"
	"github.com/promptshield/promptshield/internal/filter"
	"github.com/promptshield/promptshield/internal/packs"
)

var (
	configPath   string
	packsDir     string
	auditLogPath string
)

var rootCmd = &cobra.Command{
	Use:   "promptshield",
	Short: "PromptShield - Content safety filtering for LLM inputs and outputs",
	Long: `PromptShield is a rule-based content safety engine for LLM applications.
It checks text for harmful content, jailbreak attempts, and PII before it
reaches a model and after the model answers, and redacts PII from text
destined for logs or storage.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML file (default: ~/.promptshield/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&packsDir, "packs", "", "Pattern packs directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "", "Audit log file (default from config)")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if packsDir != "" {
		cfg.PacksDir = packsDir
	}
	if auditLogPath != "" {
		cfg.AuditLog = auditLogPath
	}
	return cfg, nil
}

// buildEngine constructs the engine and loads pattern packs on top of the
// built-in rules.
func buildEngine(cfg *config.Config) (*filter.Engine, []packs.Info, error) {
	engine := filter.New(cfg.Filter())

	specs, infos, err := packs.Load(cfg.PacksDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load packs from %s: %w", cfg.PacksDir, err)
	}
	packs.Apply(engine, specs)

	return engine, infos, nil
}

// openAudit opens the audit trail, or returns a nil logger (which records
// nothing) when auditing is disabled.
func openAudit(cfg *config.Config) (*audit.Logger, error) {
	if cfg.AuditLog == "" {
		return nil, nil
	}
	return audit.New(cfg.AuditLog)
}
