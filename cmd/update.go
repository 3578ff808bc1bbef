package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerfit/internal/logger"
	"github.com/abhisek/careerfit/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update careerfit to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		out := cmd.OutOrStdout()
		c := loadedConfig()
		log, err := logger.New(logger.Options{Level: c.Log.Level, Format: c.Log.Format, File: c.Log.File})
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		checker := selfupdate.NewChecker(
			selfupdate.WithRepository(c.Update.Repository),
			selfupdate.WithBaseURL(c.Update.APIURL),
			selfupdate.WithDownloadBaseURL(c.Update.DownloadURL),
			selfupdate.WithChecksums(c.Update.Checksums),
			selfupdate.WithTimeout(c.Update.Timeout),
			selfupdate.WithLogger(log.Named("update")),
		)

		ctx, cancel := context.WithTimeout(cmd.Context(), c.Update.Timeout)
		defer cancel()

		if checkOnly {
			res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
			if err != nil {
				return err
			}
			switch {
			case version == "(devel)":
				fmt.Fprintf(out, "Development build; the latest release is %s.\n", res.LatestVersion)
			case res.UpdateAvailable:
				fmt.Fprintf(out, "careerfit %s is available (you have %s): %s\n",
					res.LatestVersion, res.CurrentVersion, res.ReleaseURL)
			default:
				fmt.Fprintf(out, "careerfit %s is the latest version.\n", res.CurrentVersion)
			}
			return nil
		}

		target, _ := cmd.Flags().GetString("version")
		err = checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: version,
			TargetVersion:  target,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Fprintln(out, p.Message)
		})
		if err == nil {
			return nil
		}

		if errors.Is(err, selfupdate.ErrDevBuild) {
			fmt.Fprintln(out, "Cannot update a development build. Install a release build first.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrAlreadyLatest) {
			fmt.Fprintln(out, "Already running the latest version.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrUnsupported) {
			return fmt.Errorf("%w; download a build manually from https://github.com/%s/releases", err, c.Update.Repository)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w\n\nTry running: sudo careerfit update", err)
		}

		return err
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only report whether a newer release exists")
	updateCmd.Flags().String("version", "", "Install this release tag instead of the latest")
}
