// =============================================================================
// Political Fund Report Compiler - Main Entry Point
// =============================================================================
//
// USAGE:
//   fundreport compile   - Compile reports for a financial year
//   fundreport validate  - Print validation errors without writing reports
//   fundreport template  - Write an empty ledger workbook
//   fundreport version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Policy, conversion, validation, serialization, compiler
//   - pkg/           : Artifact file management
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/fund-report-compiler/cmd"
)

func main() {
	cmd.Execute()
}
