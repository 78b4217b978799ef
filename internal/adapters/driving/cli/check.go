package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
)

var (
	checkSeed     int64
	checkAttempts int
)

var checkCmd = &cobra.Command{
	Use:   "check <roster>",
	Short: "Validate a roster and try a dry-run draw",
	Long: `Load the roster, list its participants and constraints, and run a
dry-run draw to confirm a valid pairing exists. Nothing is stored or sent.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Int64Var(&checkSeed, "seed", 0, "seed for the trial draw (default: random)")
	checkCmd.Flags().IntVar(&checkAttempts, "attempts", 0, "retry budget for the trial draw")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	roster, err := loadRoster(args[0])
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	settings, err := currentSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Printf("%s: %d participants\n\n", roster.DisplayTitle(), len(roster.Participants))
	renderParticipants(cmd, roster.Participants)
	cmd.Println()

	for _, warning := range rosterWarnings(*roster) {
		cmd.Printf("Warning: %s\n", warning)
	}

	svc, err := buildDrawService(settings, false)
	if err != nil {
		return err
	}

	result, err := svc.Draw(context.Background(), *roster, domain.DrawOptions{
		Seed:         checkSeed,
		Attempts:     checkAttempts,
		DryRun:       true,
		AvoidRepeats: settings.Draw.AvoidRepeats,
	})
	if err != nil {
		var noMatch *domain.NoValidRecipientError
		if errors.As(err, &noMatch) {
			cmd.Printf("No valid pairing found: %s has nobody left to draw.\n", noMatch.Giver.Name)
		}
		return fmt.Errorf("check failed: %w", err)
	}

	cmd.Printf("OK: valid pairing found on attempt %d (seed %d).\n", result.Draw.Attempts, result.Draw.Seed)
	return nil
}

func renderParticipants(cmd *cobra.Command, participants []domain.Participant) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Name", "Email", "Spouse", "Excludes"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, p := range participants {
		table.Append([]string{p.Name, p.Email, p.Spouse, strings.Join(p.Exclude, ", ")})
	}
	table.Render()
}

// rosterWarnings flags entries that are legal but probably mistakes.
func rosterWarnings(roster domain.Roster) []string {
	known := make(map[string]bool, len(roster.Participants))
	for _, p := range roster.Participants {
		known[p.Key()] = true
	}

	var warnings []string
	for _, p := range roster.Participants {
		if !p.HasEmail() {
			warnings = append(warnings, fmt.Sprintf("%s has no email and will not be notified", p.Name))
		}
		if p.HasSpouse() && !known[domain.NameKey(p.Spouse)] {
			warnings = append(warnings, fmt.Sprintf("%s's spouse %s is not in the roster", p.Name, p.Spouse))
		}
		for _, name := range p.Exclude {
			if !known[domain.NameKey(name)] {
				warnings = append(warnings, fmt.Sprintf("%s excludes %s who is not in the roster", p.Name, name))
			}
		}
	}
	return warnings
}
