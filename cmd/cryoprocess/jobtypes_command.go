package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/krpothula/cryoprocess-sub006/internal/compiler"
)

// displayNames maps job types to the names the portal shows; anything
// unlisted falls back to a title-cased type string.
var displayNames = map[compiler.JobType]string{
	compiler.JobMotionCorr: "Motion Correction",
	compiler.JobCtfFind:    "CTF Estimation",
	compiler.JobClass2D:    "2D Classification",
	compiler.JobClass3D:    "3D Classification",
	compiler.JobRefine3D:   "3D Auto-Refine",
	compiler.JobCtfRefine:  "CTF Refinement",
	compiler.JobMultiBody:  "Multi-Body Refinement",
	compiler.JobDynaMight:  "DynaMight",
}

func displayName(jobType compiler.JobType) string {
	if name, ok := displayNames[jobType]; ok {
		return name
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(jobType), "_", " "))
}

func newJobTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "jobtypes",
		Short:       "List supported job types",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(compiler.JobTypes()))
			for _, jobType := range compiler.JobTypes() {
				rows = append(rows, []string{
					string(jobType),
					displayName(jobType),
					jobType.Describe(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Type", "Stage", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
