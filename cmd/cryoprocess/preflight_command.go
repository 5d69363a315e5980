package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/krpothula/cryoprocess-sub006/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check directories and processing programs",
		Long: `Preflight verifies the configured directories are usable and scans for
the external processing programs the compiled commands invoke. Run it
before putting a project into service so missing binaries surface here
instead of as failed cluster jobs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := false

			for _, line := range renderSectionHeader("Directories", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range preflight.RunAll(cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed = true
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Processing programs", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, status := range preflight.CheckSystemDeps(cfg) {
				kind := statusOK
				detail := status.Command
				if !status.Available {
					detail = status.Detail
					if status.Optional {
						kind = statusWarn
					} else {
						kind = statusError
						failed = true
					}
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, detail, colorize))
			}

			if failed {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}
