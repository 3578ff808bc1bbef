package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerfit/internal/catalog"
	"github.com/abhisek/careerfit/internal/report"
	"github.com/abhisek/careerfit/internal/responses"
	"github.com/abhisek/careerfit/internal/wizard"
)

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Take the assessment",
	Long: `Take the assessment in the full-screen interface, or with --plain as a
simple question-and-answer session on stdin and stdout.

Answers are saved as you go; run the command again to pick up where you left off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		return runApp(cmd, plain)
	},
}

func init() {
	takeCmd.Flags().Bool("plain", false, "Line-mode quiz over stdin/stdout")
	takeCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")
}

// errQuit ends a plain session early; the answers so far stay saved.
var errQuit = errors.New("quit")

// takePlain walks the controller through every question using numbered
// answers read from in, then prints the text report.
func takePlain(ctx context.Context, ctrl *wizard.Controller, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, report.Title)
	fmt.Fprintln(out, strings.Repeat("=", len(report.Title)))
	if n := ctrl.Answered(); n > 0 {
		_, total := ctrl.Position()
		fmt.Fprintf(out, "Resuming with %d of %d answers saved.\n", n, total)
	}
	fmt.Fprintln(out, "Answer with the option number. Press Enter to keep a saved answer, q to stop.")

	ctrl.Resume(ctx)

	section := wizard.SectionIntro
	for ctrl.Section().IsQuestion() {
		if ctrl.Section() != section {
			section = ctrl.Section()
			fmt.Fprintf(out, "\n── %s ──\n", section.Title())
		}

		err := askCurrent(ctx, ctrl, scanner, out)
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			fmt.Fprintln(out, "\nProgress saved. Run the command again to continue.")
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := ctrl.Advance(ctx); err != nil {
			return fmt.Errorf("advance: %w", err)
		}
	}

	res, ok := ctrl.Result()
	if !ok {
		return fmt.Errorf("assessment ended without a result")
	}
	fmt.Fprintln(out)
	return report.Text(out, report.Report{
		Result:      res,
		RunID:       ctrl.RunID(),
		CompletedAt: time.Now(),
	})
}

// askCurrent prompts until the current question has a valid answer.
func askCurrent(ctx context.Context, ctrl *wizard.Controller, scanner *bufio.Scanner, out io.Writer) error {
	q, _ := ctrl.Current()
	labels := q.Options
	if q.Type == catalog.TypeLikert && q.Scale != nil {
		labels = q.Scale.Labels
	}

	fmt.Fprintf(out, "\nQuestion %d of %d\n%s\n", ctrl.Index()+1, ctrl.SectionLen(), q.Text)
	for i, l := range labels {
		fmt.Fprintf(out, "  %d) %s\n", i+1, l)
	}

	_, saved := ctrl.CurrentAnswer()
	for {
		fmt.Fprintf(out, "Your answer [1-%d]: ", len(labels))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			return io.EOF
		}
		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "q" || text == "quit":
			return errQuit
		case text == "" && saved:
			return nil
		}

		n, err := strconv.Atoi(text)
		if err != nil || n < 1 || n > len(labels) {
			fmt.Fprintf(out, "Please enter a number from 1 to %d.\n", len(labels))
			continue
		}

		v := responses.Choice(labels[n-1])
		if q.Type == catalog.TypeLikert && q.Scale != nil {
			v = responses.Rating(q.Scale.Min + n - 1)
		}
		if err := ctrl.Answer(ctx, v); err != nil {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}
		return nil
	}
}
