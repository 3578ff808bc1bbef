package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerfit/internal/report"
	"github.com/abhisek/careerfit/internal/scoring"
	"github.com/abhisek/careerfit/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse completed assessments",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		tier, _ := cmd.Flags().GetString("tier")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.EventRepo().QueryAssessments(cmd.Context(),
			store.QueryOpts{Limit: limit, Recommendation: tier})
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No completed assessments found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-16s  %-26s  %7s  %6s  %6s  %10s\n",
			"ID", "Completed", "Recommendation", "Overall", "Psych", "Tech", "Confidence")
		fmt.Fprintln(out, strings.Repeat("─", 90))

		for _, r := range runs {
			res := r.Result
			fmt.Fprintf(out, "%-5d  %-16s  %-26s  %6.0f%%  %5.0f%%  %5.0f%%  %9.0f%%\n",
				r.ID,
				r.CompletedAt.Local().Format("2006-01-02 15:04"),
				scoring.TierLabel(res.Recommendation),
				res.OverallScore,
				res.PsychometricFit,
				res.TechnicalReadiness,
				res.ConfidenceScore,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the full report of a past result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetAssessment(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get result: %w", err)
		}
		if e == nil {
			return fmt.Errorf("result %d not found", id)
		}

		return report.Write(cmd.OutOrStdout(), format, report.Report{
			Result:      e.Result,
			RunID:       e.RunID,
			CompletedAt: e.CompletedAt,
		})
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize all completed assessments",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := s.EventRepo().AssessmentStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if st.Total == 0 {
			fmt.Fprintln(out, "No completed assessments yet.")
			return nil
		}

		fmt.Fprintf(out, "Assessments:    %d\n", st.Total)
		fmt.Fprintf(out, "Last completed: %s\n", st.Last.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "Average score:  %.0f%%\n", st.AvgOverall)
		fmt.Fprintf(out, "Best score:     %.0f%%\n", st.BestOverall)
		fmt.Fprintln(out)
		for _, t := range []scoring.Tier{scoring.TierYes, scoring.TierMaybe, scoring.TierNo} {
			fmt.Fprintf(out, "%-26s  %d\n", scoring.TierLabel(t), st.ByTier[t])
		}
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
	historyListCmd.Flags().String("tier", "", "Filter by recommendation (yes, maybe, no)")
	historyShowCmd.Flags().StringP("format", "f", "text", "Output format: text or json")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
}
