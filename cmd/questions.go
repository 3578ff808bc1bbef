package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerfit/internal/catalog"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the assessment questions (optionally filtered by category)",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		cat := catalog.Default()
		out := cmd.OutOrStdout()

		var qs []catalog.Question
		if category == "" {
			qs = cat.All()
		} else {
			qs = cat.Section(catalog.Category(category))
			if len(qs) == 0 {
				return fmt.Errorf("no questions found for category %q (want psychometric, technical or wiscar)", category)
			}
		}

		fmt.Fprintf(out, "%-4s  %-13s  %-16s  %-20s  %6s  %s\n",
			"ID", "Category", "Type", "Subcategory", "Weight", "Text")
		fmt.Fprintln(out, strings.Repeat("─", 115))

		for _, q := range qs {
			text := q.Text
			if len(text) > 45 {
				text = text[:42] + "..."
			}
			fmt.Fprintf(out, "%-4s  %-13s  %-16s  %-20s  %6.1f  %s\n",
				q.ID, q.Category, q.Type, q.Subcategory, q.EffectiveWeight(), text)
		}

		fmt.Fprintf(out, "\n%d questions\n", len(qs))
		return nil
	},
}

func init() {
	questionsCmd.Flags().String("category", "", "Filter by category (psychometric, technical, wiscar)")
}
