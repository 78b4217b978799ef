package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyReveal bool
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List past draws or show one",
	Long: `Without an argument, list stored draws newest first.
With a draw ID, show its details; add --reveal to print the pairs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored draw",
	Long: `Delete a stored draw and its pairs. The deleted draw no longer counts
as last time for --avoid-repeats.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryDelete,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of draws to list (0 for all)")
	historyCmd.Flags().BoolVar(&historyReveal, "reveal", false, "print who drew whom")
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	settings, err := currentSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	svc, err := buildDrawService(settings, false)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if len(args) == 1 {
		draw, err := svc.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get draw: %w", err)
		}

		cmd.Printf("ID:       %s\n", draw.ID)
		cmd.Printf("Title:    %s\n", draw.Title)
		cmd.Printf("Created:  %s\n", draw.CreatedAt.Local().Format(time.DateTime))
		cmd.Printf("Seed:     %d\n", draw.Seed)
		cmd.Printf("Attempts: %d\n", draw.Attempts)
		cmd.Printf("Pairs:    %d\n", len(draw.Pairing))
		if historyReveal {
			cmd.Println()
			renderPairs(cmd.OutOrStdout(), draw.Pairing)
		}
		return nil
	}

	draws, err := svc.History(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list draws: %w", err)
	}
	if len(draws) == 0 {
		cmd.Println("No draws yet.")
		return nil
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"ID", "Title", "Created", "Pairs", "Seed"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, d := range draws {
		table.Append([]string{
			d.ID,
			d.Title,
			d.CreatedAt.Local().Format(time.DateTime),
			strconv.Itoa(len(d.Pairing)),
			strconv.FormatInt(d.Seed, 10),
		})
	}
	table.Render()
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	settings, err := currentSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	svc, err := buildDrawService(settings, false)
	if err != nil {
		return err
	}

	if err := svc.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete draw: %w", err)
	}
	cmd.Printf("Deleted draw %s\n", args[0])
	return nil
}
