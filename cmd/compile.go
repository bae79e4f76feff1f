// =============================================================================
// Political Fund Report Compiler - Compile Command
// =============================================================================
//
// This file defines the 'compile' command, which compiles one report per
// organization for a financial year and writes the artifacts.
//
// COMMAND USAGE:
//   fundreport compile --year 2025 [flags]
//
// FLAGS:
//   --year     : Financial year to compile (required)
//   --org      : Organization id; repeatable. Default: every organization
//                with transactions in the year
//   --dry-run  : Compile and validate without writing any file
//
// PROCESSING PIPELINE:
//   1. Load configuration, ledger and profiles
//   2. For each organization (concurrently, at most max_concurrency):
//      a. Compile the report
//      b. Write the Shift_JIS file
//      c. Archive a copy
//      d. Write the validation log when there are errors
//   3. Write the run summary
//
// One organization failing does not stop the others.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fund-report-compiler/internal/compiler"
	"github.com/ginjaninja78/fund-report-compiler/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	compileYear   int
	compileOrgs   []string
	compileDryRun bool
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile political fund reports from the ledger",
	Long: `The compile command builds the annual report for each selected organization
and writes it to the output directory as Shift_JIS XML.

On success:
  - report_{year}_{slug}_{YYYYMMDD}_{HHMM}.xml is written to the output directory
  - A copy is placed in the output archive
  - Validation errors, if any, are written next to the report

On error:
  - No report is written for that organization
  - The failure is recorded in the run summary
  - Processing continues for other organizations`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompile(cmd)
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().IntVar(&compileYear, "year", 0, "Financial year to compile")
	compileCmd.Flags().StringSliceVar(&compileOrgs, "org", nil, "Organization id (repeatable)")
	compileCmd.Flags().BoolVar(&compileDryRun, "dry-run", false, "Compile without writing output files")
	compileCmd.MarkFlagRequired("year")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

type compileOutcome struct {
	report utils.CompiledReport
	err    error
}

func runCompile(cmd *cobra.Command) error {
	startTime := time.Now()

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	orgs := a.organizations(compileOrgs, compileYear)
	if len(orgs) == 0 {
		fmt.Printf("No organizations with transactions in %d.\n", compileYear)
		return nil
	}

	fm := utils.NewFileManager(a.cfg.OutputDir, a.cfg.OutputArchiveDir)
	if !compileDryRun {
		if err := a.cfg.EnsureDirectories(); err != nil {
			return err
		}
	}

	a.log.WithFields(logrus.Fields{
		"organizations": len(orgs),
		"year":          compileYear,
		"dry_run":       compileDryRun,
	}).Info("Compile.Start")

	// Bounded fan-out: one goroutine per organization, at most
	// MaxConcurrency compiling at once.
	var wg sync.WaitGroup
	sem := make(chan struct{}, a.cfg.MaxConcurrency)
	results := make(chan compileOutcome, len(orgs))

	for _, org := range orgs {
		wg.Add(1)
		go func(org string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			report, err := compileOne(cmd.Context(), a, fm, org)
			report.OrganizationID = org
			results <- compileOutcome{report: report, err: err}
		}(org)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := utils.RunSummary{StartTime: startTime, FinancialYear: compileYear}
	for r := range results {
		if r.err != nil {
			summary.Failed = append(summary.Failed, utils.FailedCompilation{
				OrganizationID: r.report.OrganizationID,
				ErrorMessage:   r.err.Error(),
			})
			fmt.Printf("[FAILED]  %s: %v\n", r.report.OrganizationID, r.err)
			continue
		}
		summary.Compiled = append(summary.Compiled, r.report)
		fmt.Printf("[OK]      %s: %s (%d bytes, %d validation error(s))\n",
			r.report.OrganizationID, r.report.OutputFile, r.report.Bytes, r.report.ValidationErrors)
	}
	summary.EndTime = time.Now()

	fmt.Println("\n=== Compile Summary ===")
	fmt.Printf("Organizations: %d\n", len(orgs))
	fmt.Printf("Compiled:      %d\n", len(summary.Compiled))
	fmt.Printf("Failed:        %d\n", len(summary.Failed))
	fmt.Printf("Time elapsed:  %s\n", summary.EndTime.Sub(startTime))

	if !compileDryRun {
		path, err := fm.WriteSummaryLog(summary, a.cfg.LogDir)
		if err != nil {
			return err
		}
		fmt.Printf("Summary log:   %s\n", path)
	}

	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d of %d compilation(s) failed", len(summary.Failed), len(orgs))
	}
	return nil
}

// compileOne compiles and writes one organization's report.
func compileOne(ctx context.Context, a *app, fm *utils.FileManager, org string) (utils.CompiledReport, error) {
	start := time.Now()
	var report utils.CompiledReport

	res, err := a.compiler.Compile(ctx, compiler.Request{OrganizationID: org, FinancialYear: compileYear})
	if err != nil {
		return report, err
	}

	report.CompilationID = res.CompilationID
	report.OutputFile = res.Filename
	report.PresenceFlags = res.PresenceFlags
	report.Bytes = len(res.ShiftJIS)
	report.ValidationErrors = len(res.ValidationErrors)

	if !compileDryRun {
		path, err := fm.WriteReport(res.Filename, res.ShiftJIS)
		if err != nil {
			return report, err
		}
		report.OutputFile = path

		if report.ArchivePath, err = fm.ArchiveOutputFile(path); err != nil {
			return report, err
		}
		if report.ValidationLog, err = fm.WriteValidationLog(res.Filename, res.CompilationID, res.ValidationErrors); err != nil {
			return report, err
		}
	}

	report.ProcessTime = time.Since(start)
	return report, nil
}
