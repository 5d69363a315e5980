package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/krpothula/cryoprocess-sub006/internal/compiler"
	"github.com/krpothula/cryoprocess-sub006/internal/config"
	"github.com/krpothula/cryoprocess-sub006/internal/history"
	"github.com/krpothula/cryoprocess-sub006/internal/params"
)

var errValidationFailed = errors.New("validation failed")

func newCompileCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var jobName string

	cmd := &cobra.Command{
		Use:   "compile <job-type> <params-file>",
		Short: "Compile a job parameter file into a command line",
		Long: `Compile resolves a TOML parameter file against the named job type and
prints the exact command line the cluster would run. Nothing is
executed; the output is suitable for a submission script.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobType, err := compiler.ParseJobType(args[0])
			if err != nil {
				return err
			}
			bag, err := loadParams(args[1])
			if err != nil {
				return err
			}
			comp, err := ctx.newCompiler()
			if err != nil {
				return err
			}

			if outputDir == "" {
				outputDir = defaultOutputDir(jobType, jobName)
			}

			result, err := comp.Compile(jobType, bag, outputDir, jobName)
			if err != nil {
				return err
			}
			recordResult(ctx, result, outputDir, jobName)

			out := cmd.OutOrStdout()
			if !result.Validation.Valid {
				fmt.Fprintf(out, "Validation failed: %s\n", result.Validation.Err)
				return errValidationFailed
			}
			fmt.Fprintln(out, result.Command.Render())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Job output directory (project-relative)")
	cmd.Flags().StringVarP(&jobName, "name", "n", "", "Job name recorded in the compile history")
	return cmd
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <job-type> <params-file>",
		Short: "Validate a job parameter file without compiling it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobType, err := compiler.ParseJobType(args[0])
			if err != nil {
				return err
			}
			bag, err := loadParams(args[1])
			if err != nil {
				return err
			}
			comp, err := ctx.newCompiler()
			if err != nil {
				return err
			}
			builder, err := comp.NewBuilder(jobType, bag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res := builder.Validate(); !res.Valid {
				fmt.Fprintf(out, "Validation failed: %s\n", res.Err)
				return errValidationFailed
			}
			fmt.Fprintf(out, "Parameters valid for %s\n", jobType)
			return nil
		},
	}
}

// loadParams reads a TOML parameter file into the loosely-typed bag the
// builders resolve against.
func loadParams(path string) (params.Bag, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve params path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("read params file: %w", err)
	}
	var bag params.Bag
	if err := toml.Unmarshal(data, &bag); err != nil {
		return nil, fmt.Errorf("parse params file %s: %w", path, err)
	}
	if bag == nil {
		bag = params.Bag{}
	}
	return bag, nil
}

// defaultOutputDir derives a job directory from the type and name when
// no explicit output directory was given.
func defaultOutputDir(jobType compiler.JobType, jobName string) string {
	if jobName == "" {
		jobName = "job001"
	}
	return string(jobType) + "/" + jobName
}

// recordResult persists the outcome in the compile history. History
// failures are reported on stderr but never fail the compile itself.
func recordResult(ctx *commandContext, result compiler.Result, outputDir, jobName string) {
	store, err := ctx.openHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "history unavailable: %v\n", err)
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	entry := history.Entry{
		RequestID: result.RequestID,
		JobType:   string(result.JobType),
		JobName:   jobName,
		OutputDir: outputDir,
		Valid:     result.Validation.Valid,
		Error:     result.Validation.Err,
		CreatedAt: time.Now().UTC(),
	}
	if result.Validation.Valid {
		entry.Command = result.Command.Render()
	}
	if err := store.Record(context.Background(), entry); err != nil {
		fmt.Fprintf(os.Stderr, "record history: %v\n", err)
	}
}
