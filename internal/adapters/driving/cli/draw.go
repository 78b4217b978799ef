package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
)

// passwordEnv supplies the SMTP password without storing it in config.toml.
const passwordEnv = "SANTA_SMTP_PASSWORD"

var (
	drawSeed         int64
	drawAttempts     int
	drawDryRun       bool
	drawNoNotify     bool
	drawAvoidRepeats bool
	drawOutbox       string
	drawJSON         bool
	drawReveal       bool
)

// passwordPrompt reads a secret from the terminal. Replaced in tests.
var passwordPrompt = readPassword

var drawCmd = &cobra.Command{
	Use:   "draw <roster>",
	Short: "Draw assignments and notify every giver",
	Long: `Draw Secret Santa assignments for the roster file (YAML or TOML),
store the draw and email each giver their match. The organizer receives
the master list.

Assignments stay secret unless --reveal is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDraw,
}

func init() {
	drawCmd.Flags().Int64Var(&drawSeed, "seed", 0, "seed for a reproducible draw (default: random)")
	drawCmd.Flags().IntVar(&drawAttempts, "attempts", 0, "retry budget when a run dead-ends (default: draw.attempts)")
	drawCmd.Flags().BoolVar(&drawDryRun, "dry-run", false, "draw without storing or sending anything")
	drawCmd.Flags().BoolVar(&drawNoNotify, "no-notify", false, "store the draw without sending messages")
	drawCmd.Flags().BoolVar(&drawAvoidRepeats, "avoid-repeats", false, "nobody draws the person they had last time")
	drawCmd.Flags().StringVar(&drawOutbox, "outbox", "", "write .eml files to this directory instead of sending")
	drawCmd.Flags().BoolVar(&drawJSON, "json", false, "output the result as JSON")
	drawCmd.Flags().BoolVar(&drawReveal, "reveal", false, "print who drew whom")
	rootCmd.AddCommand(drawCmd)
}

// drawOutput is the --json shape.
type drawOutput struct {
	ID       string                     `json:"id,omitempty"`
	Title    string                     `json:"title"`
	Seed     int64                      `json:"seed"`
	Attempts int                        `json:"attempts"`
	Stored   bool                       `json:"stored"`
	Pairs    []pairOutput               `json:"pairs,omitempty"`
	Report   *domain.NotificationReport `json:"report,omitempty"`
}

type pairOutput struct {
	Giver    string `json:"giver"`
	Receiver string `json:"receiver"`
}

func runDraw(cmd *cobra.Command, args []string) error {
	roster, err := loadRoster(args[0])
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	settings, err := currentSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	notify := !drawDryRun && !drawNoNotify
	if drawOutbox != "" {
		settings.Mail.Transport = domain.MailTransportOutbox
		settings.Mail.OutboxDir = drawOutbox
	}
	if notify {
		if err := resolvePassword(cmd, &settings.Mail); err != nil {
			return err
		}
	}

	svc, err := buildDrawService(settings, notify)
	if err != nil {
		return err
	}

	opts := domain.DrawOptions{
		Seed:         drawSeed,
		Attempts:     drawAttempts,
		DryRun:       drawDryRun,
		SkipNotify:   drawNoNotify,
		AvoidRepeats: drawAvoidRepeats || settings.Draw.AvoidRepeats,
	}

	result, drawErr := svc.Draw(context.Background(), *roster, opts)
	if result == nil {
		if isNoMatch(drawErr) {
			cmd.Println("No valid pairing found. Raise --attempts or relax spouse and exclude constraints.")
		}
		return fmt.Errorf("draw failed: %w", drawErr)
	}

	var outErr error
	if drawJSON {
		outErr = outputDrawJSON(cmd, result, drawReveal)
	} else {
		outputDrawTable(cmd, *roster, result, drawReveal)
	}

	if drawErr != nil {
		return fmt.Errorf("draw %s stored but notification incomplete: %w", result.Draw.ID, drawErr)
	}
	return outErr
}

// resolvePassword fills in the SMTP password from the environment or a prompt.
func resolvePassword(cmd *cobra.Command, mail *domain.MailSettings) error {
	if mail.Transport != domain.MailTransportSMTP || mail.Username == "" || mail.Password != "" {
		return nil
	}
	if pw := os.Getenv(passwordEnv); pw != "" {
		mail.Password = pw
		return nil
	}

	cmd.Printf("SMTP password for %s: ", mail.Username)
	mail.Password = passwordPrompt()
	cmd.Println()
	if mail.Password == "" {
		return fmt.Errorf("SMTP password is required (set %s or mail.password)", passwordEnv)
	}
	return nil
}

func outputDrawJSON(cmd *cobra.Command, result *domain.DrawResult, reveal bool) error {
	out := drawOutput{
		Title:    result.Draw.Title,
		Seed:     result.Draw.Seed,
		Attempts: result.Draw.Attempts,
		Stored:   result.Stored,
		Report:   result.Report,
	}
	if result.Stored {
		out.ID = result.Draw.ID
	}
	if reveal {
		out.Pairs = pairsOutput(result.Draw.Pairing)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputDrawTable(cmd *cobra.Command, roster domain.Roster, result *domain.DrawResult, reveal bool) {
	d := result.Draw
	cmd.Printf("%s: %d participants paired", d.Title, len(d.Pairing))
	cmd.Printf(" (seed %d, attempt %d)\n", d.Seed, d.Attempts)
	if result.Stored {
		cmd.Printf("Draw ID: %s\n", d.ID)
	} else {
		cmd.Println("Dry run: nothing stored or sent.")
	}
	cmd.Println()

	if reveal {
		renderPairs(cmd.OutOrStdout(), d.Pairing)
		cmd.Println()
	}

	if result.Report == nil {
		return
	}

	renderReport(cmd.OutOrStdout(), roster, result.Report)
	switch {
	case result.Report.MasterListSent:
		cmd.Println("\nMaster list sent to the organizer.")
	case result.Report.MasterListError != "":
		cmd.Printf("\nMaster list failed: %s\n", result.Report.MasterListError)
	}
}

func pairsOutput(pairing domain.Pairing) []pairOutput {
	out := make([]pairOutput, 0, len(pairing))
	for _, pair := range pairing {
		out = append(out, pairOutput{Giver: pair.Giver.Name, Receiver: pair.Receiver.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Giver < out[j].Giver })
	return out
}

func renderPairs(w io.Writer, pairing domain.Pairing) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Giver", "Receiver"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, p := range pairsOutput(pairing) {
		table.Append([]string{p.Giver, p.Receiver})
	}
	table.Render()
}

// renderReport lists each giver's delivery status without revealing matches.
func renderReport(w io.Writer, roster domain.Roster, report *domain.NotificationReport) {
	sent := make(map[string]bool, len(report.Sent))
	for _, name := range report.Sent {
		sent[name] = true
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Giver", "Email", "Status"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, p := range roster.Participants {
		status := "skipped (no email)"
		switch {
		case !p.HasEmail():
		case report.Failed[p.Name] != "":
			status = "failed: " + report.Failed[p.Name]
		case sent[p.Name]:
			status = "sent"
		default:
			status = "not sent"
		}
		table.Append([]string{p.Name, p.Email, status})
	}
	table.Render()
}

// isNoMatch reports whether err is a dead-end draw rather than a setup problem.
func isNoMatch(err error) bool {
	return errors.Is(err, domain.ErrNoValidRecipient)
}
