package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure mail delivery, draw defaults and templates.

Settings are stored in config.toml under the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Set a single setting by its dotted key, for example:

  santa settings set mail.host smtp.gmail.com
  santa settings set mail.port 587
  santa settings set draw.avoid_repeats true

Use "santa settings keys" to list every key.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Long: `Restore every setting to its default. A stored SMTP password is kept;
clear it with "santa settings set mail.password ''".`,
	Args: cobra.NoArgs,
	RunE: runSettingsReset,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Mail]")
	cmd.Printf("  Transport: %s\n", settings.Mail.Transport)
	if settings.Mail.Transport == domain.MailTransportOutbox {
		cmd.Printf("  Outbox: %s\n", orUnset(settings.Mail.OutboxDir))
	} else {
		cmd.Printf("  Server: %s\n", settings.Mail.Address())
		cmd.Printf("  Username: %s\n", orUnset(settings.Mail.Username))
		if settings.Mail.Password != "" {
			cmd.Printf("  Password: %s\n", maskSecret(settings.Mail.Password))
		} else {
			cmd.Printf("  Password: (not set, uses %s or prompt)\n", passwordEnv)
		}
		cmd.Printf("  Rate: %.2f messages/second\n", settings.Mail.RatePerSecond)
	}
	cmd.Printf("  From: %s\n", orUnset(settings.Mail.From))
	cmd.Println()

	cmd.Println("[Draw]")
	cmd.Printf("  Attempts: %d\n", settings.Draw.Attempts)
	cmd.Printf("  Avoid repeats: %s\n", yesNo(settings.Draw.AvoidRepeats))
	cmd.Println()

	cmd.Println("[Templates]")
	cmd.Printf("  Directory: %s\n", orDefault(settings.Templates.Dir, "(built-in)"))
	cmd.Printf("  Santa: %s\n", settings.Templates.Santa)
	cmd.Printf("  Master: %s\n", settings.Templates.Master)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'santa settings set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if key == "mail.password" {
		value = maskSecret(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	cmd.Println("Settings restored to defaults.")
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskSecret(secret string) string {
	runes := []rune(secret)
	if len(runes) <= 8 {
		return "****"
	}
	return string(runes[:2]) + "..." + string(runes[len(runes)-2:])
}

func orUnset(s string) string {
	return orDefault(s, "(not set)")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
