// cmd/gut-check/analyze.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/report"
)

var (
	analyzeStart string
	analyzeEnd   string
	analyzeDays  int
	analyzeSave  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Generate an insight report and print it as JSON",
	Long: `Runs the insight engine once over stored data. Without --start the
window is the trailing --days (default analysis.window_days) ending at --end
or now. Dates are YYYY-MM-DD in analysis.timezone; --end is inclusive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		days := analyzeDays
		if days <= 0 {
			days = cfg.Analysis.WindowDays
		}
		window, err := analyzeWindow(a.engine.Calendar().Location(), analyzeStart, analyzeEnd, days, time.Now())
		if err != nil {
			return err
		}

		rep, err := a.reports.Generate(context.Background(), window, report.TriggerManual, analyzeSave)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "window start date (YYYY-MM-DD)")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "window end date, inclusive (YYYY-MM-DD)")
	analyzeCmd.Flags().IntVar(&analyzeDays, "days", 0, "trailing window length in days")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist the report as the latest insights")
	rootCmd.AddCommand(analyzeCmd)
}

func analyzeWindow(loc *time.Location, start, end string, days int, now time.Time) (models.TimeWindow, error) {
	w := models.TimeWindow{End: now}
	if end != "" {
		day, err := time.ParseInLocation("2006-01-02", end, loc)
		if err != nil {
			return w, fmt.Errorf("invalid --end %q: %w", end, err)
		}
		w.End = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	w.Start = w.End.Add(-time.Duration(days) * 24 * time.Hour)
	if start != "" {
		day, err := time.ParseInLocation("2006-01-02", start, loc)
		if err != nil {
			return w, fmt.Errorf("invalid --start %q: %w", start, err)
		}
		w.Start = day
	}

	if !w.Valid() {
		return w, fmt.Errorf("--end must be after --start")
	}
	return w, nil
}
