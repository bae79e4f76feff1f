// =============================================================================
// Political Fund Report Compiler - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which assembles each selected
// organization's report and prints its validation errors without serializing
// or writing anything.
//
// COMMAND USAGE:
//   fundreport validate --year 2025 [--org org-1]
//
// The command exits non-zero when any organization has errors.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fund-report-compiler/internal/compiler"
	"github.com/ginjaninja78/fund-report-compiler/internal/validation"
)

var (
	validateYear int
	validateOrgs []string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate reports without writing them",
	Long: `The validate command loads the configuration, ledger and profiles, assembles
each selected organization's report and prints every validation error as
"[CODE] path".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		failed := 0
		for _, org := range a.organizations(validateOrgs, validateYear) {
			data, err := a.compiler.Assemble(cmd.Context(), compiler.Request{OrganizationID: org, FinancialYear: validateYear})
			if err != nil {
				fmt.Printf("%s: %v\n", org, err)
				failed++
				continue
			}
			errs := validation.Validate(data)
			fmt.Printf("%s: %s\n", org, validation.FormatErrors(errs))
			if len(errs) > 0 {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d organization(s) did not validate", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().IntVar(&validateYear, "year", 0, "Financial year to validate")
	validateCmd.Flags().StringSliceVar(&validateOrgs, "org", nil, "Organization id (repeatable)")
	validateCmd.MarkFlagRequired("year")
}
