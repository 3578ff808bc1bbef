package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerfit/internal/config"
	"github.com/abhisek/careerfit/internal/responses"
	"github.com/abhisek/careerfit/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard saved answers (and optionally all past results)",
	RunE: func(cmd *cobra.Command, args []string) error {
		withHistory, _ := cmd.Flags().GetBool("history")
		yes, _ := cmd.Flags().GetBool("yes")
		out := cmd.OutOrStdout()

		what := "your saved answers"
		if withHistory {
			what = "your saved answers and every past result"
		}
		if !yes && !confirm(cmd, fmt.Sprintf("This deletes %s. Continue? [y/N] ", what)) {
			fmt.Fprintln(out, "Nothing deleted.")
			return nil
		}

		ctx := cmd.Context()
		c := loadedConfig()

		if c.Storage.Backend == config.BackendRedis {
			rs, err := store.NewRedisSnapshots(ctx, store.RedisOptions{
				Addr:     c.Storage.Redis.Addr,
				Password: c.Storage.Redis.Password,
				DB:       c.Storage.Redis.DB,
			})
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			defer rs.Close()
			if err := rs.Clear(ctx, responses.SnapshotKey); err != nil {
				return fmt.Errorf("clear saved answers: %w", err)
			}
		}
		if c.Storage.Backend == config.BackendMemory && !withHistory {
			fmt.Fprintln(out, "The memory backend keeps nothing between runs.")
			return nil
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := resetStore(ctx, s, withHistory, c.Storage.KeepSnapshots); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %s.\n", what)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("history", false, "Also delete all past results")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func resetStore(ctx context.Context, s *store.Store, withHistory bool, keep int) error {
	if withHistory {
		if err := s.EventRepo().Reset(ctx, true); err != nil {
			return fmt.Errorf("reset history: %w", err)
		}
		return nil
	}
	if err := s.SnapshotRepo(keep).Clear(ctx, responses.SnapshotKey); err != nil {
		return fmt.Errorf("clear saved answers: %w", err)
	}
	return nil
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
