package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/j-veylop/uranus/internal/db"
	"github.com/j-veylop/uranus/internal/models"
)

var (
	statsLimit  int
	statsVacuum bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print totals and the latest calls from the SQLite mirror",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.MirrorEnabled() {
			return errors.New("SQLite mirror is disabled (DATABASE_PATH is empty)")
		}

		database, err := db.New(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		if statsVacuum {
			if err := database.Vacuum(cmd.Context()); err != nil {
				return fmt.Errorf("vacuum failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Compacted %s\n\n", database.Path())
		}

		totals, err := database.GetTotalStats()
		if err != nil {
			return err
		}
		calls, err := database.GetRecentCalls(statsLimit)
		if err != nil {
			return err
		}
		return printStats(cmd.OutOrStdout(), totals, calls)
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsLimit, "limit", "n", 10, "number of recent calls to list")
	statsCmd.Flags().BoolVar(&statsVacuum, "vacuum", false, "compact the database file first")
	rootCmd.AddCommand(statsCmd)
}

func printStats(out io.Writer, totals *models.TotalStats, calls []models.InferenceCall) error {
	fmt.Fprintf(out, "Calls:    %d (%d failed)\n", totals.TotalCalls, totals.FailedCalls)
	fmt.Fprintf(out, "Models:   %d\n", totals.UniqueModels)
	fmt.Fprintf(out, "Tokens:   %d in, %d out\n", totals.TotalInputTokens, totals.TotalOutputTokens)
	fmt.Fprintf(out, "Cost:     $%.4f\n", totals.CostUSD)
	fmt.Fprintf(out, "Latency:  %.0fms average\n", totals.AvgLatencyMs)

	if len(calls) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tMODEL\tINPUT\tLATENCY\tTOKENS\tSTATUS")
	for _, c := range calls {
		status := "ok"
		if !c.Success {
			status = c.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dms\t%d\t%s\n",
			c.Timestamp.Local().Format("2006-01-02 15:04:05"),
			c.ModelLabel, c.InputType, c.LatencyMs, c.TotalTokens, status)
	}
	return w.Flush()
}
