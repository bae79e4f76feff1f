// =============================================================================
// Political Fund Report Compiler - Version Command
// =============================================================================
//
// This file defines the 'version' command, which displays build information
// and the filing policy the compiler will apply with the current config:
// the form catalog, the encoding policy and the threshold table.
//
// COMMAND USAGE:
//   fundreport version [--config config.yaml]
//
// OUTPUT:
//   Political Fund Report Compiler
//   Version:    1.0.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.11
//   Forms:      23 (flag length 51)
//   Encoding:   Shift_JIS, unsupported=error, replacement=〓
//
//   TYPE     CATEGORY     DETAIL    THRESHOLD
//   expense  election     required  50000
//   ...
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fund-report-compiler/internal/config"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// These variables are set at build time using ldflags.
// Example build command:
//   go build -ldflags "-X 'github.com/ginjaninja78/fund-report-compiler/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// =============================================================================
// VERSION COMMAND DEFINITION
// =============================================================================

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version and the active filing policy",
	Long: `Display the application version and build date, then the form catalog,
encoding policy and threshold table that compile would use with the
current configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return writeVersion(cmd.OutOrStdout(), cfg)
	},
}

// writeVersion prints build information and the policy derived from cfg.
//
// PARAMETERS:
//   - w: Destination of the report.
//   - cfg: The loaded configuration; overrides replace the built-in tables.
//
// RETURNS:
//   - An error if a policy override is invalid or w fails.
func writeVersion(w io.Writer, cfg *config.MainConfig) error {
	catalog, err := cfg.FormCatalogPolicy()
	if err != nil {
		return err
	}
	thresholds, err := cfg.ThresholdPolicy()
	if err != nil {
		return err
	}
	encode := cfg.EncodeOptions()

	fmt.Fprintln(w, "Political Fund Report Compiler")
	fmt.Fprintf(w, "Version:    %s\n", Version)
	fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
	fmt.Fprintf(w, "Go Version: %s\n", runtime.Version())
	fmt.Fprintf(w, "Forms:      %d (flag length %d)\n", catalog.Len(), catalog.FlagLength())
	fmt.Fprintf(w, "Encoding:   Shift_JIS, unsupported=%s, replacement=%c\n", encode.Policy, encode.Replacement)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCATEGORY\tDETAIL\tTHRESHOLD")
	for _, r := range thresholds.Rules() {
		cutoff := "all"
		if r.Threshold > 0 {
			cutoff = strconv.FormatInt(r.Threshold, 10)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.TransactionType, r.Category, r.Detail, cutoff)
	}
	return tw.Flush()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(versionCmd)
}
