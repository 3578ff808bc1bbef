package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/report"
	"github.com/abhisek/careerfit/internal/responses"
	"github.com/abhisek/careerfit/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score FILE",
	Short: "Score a saved set of responses",
	Long: `Compute a result from a JSON array of responses, for example:

  [{"questionId": "p1", "value": 4}, {"questionId": "t1", "value": "Vendor contract and security questionnaire"}]

Use - to read from stdin. Unknown questions and mistyped values are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		rs, err := responses.Decode(string(data))
		if err != nil {
			return fmt.Errorf("parse responses: %w", err)
		}

		res := scoring.ComputeResult(catalog.Default(), rs)
		return report.Write(cmd.OutOrStdout(), format, report.Report{Result: res})
	},
}

func init() {
	scoreCmd.Flags().StringP("format", "f", "text", "Output format: text or json")
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
