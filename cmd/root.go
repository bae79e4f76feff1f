// =============================================================================
// Political Fund Report Compiler - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI and the application
// state every subcommand shares.
//
// COBRA CLI STRUCTURE:
//   rootCmd (fundreport)
//   ├── compileCmd  (fundreport compile)
//   ├── validateCmd (fundreport validate)
//   ├── templateCmd (fundreport template)
//   └── versionCmd  (fundreport version)
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fund-report-compiler/internal/compiler"
	"github.com/ginjaninja78/fund-report-compiler/internal/config"
	"github.com/ginjaninja78/fund-report-compiler/internal/logging"
	"github.com/ginjaninja78/fund-report-compiler/internal/profilestore"
	"github.com/ginjaninja78/fund-report-compiler/internal/xlsxledger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// ledgerFile and profilesFile override the data sources in the config.
var (
	ledgerFile   string
	profilesFile string
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "fundreport",
	Short: "Political Fund Report Compiler - Build Shift_JIS filing XML from a ledger",
	Long: `The Political Fund Report Compiler turns an organization's categorized
ledger and its report profile into the annual political fund report XML
(収支報告書), encoded as Shift_JIS for electronic filing.

Key Features:
  - Statutory itemization thresholds, overridable from config
  - Concurrent assembly of income, donation and expense forms
  - Validation with stable {code, path} errors
  - Presence-flag header computed from the forms with data

Example Usage:
  fundreport compile --year 2025                  # Every organization in the ledger
  fundreport compile --year 2025 --org org-1      # A single organization
  fundreport validate --year 2025 --org org-1     # Report validation errors only
  fundreport template --out ./data/ledger.xlsx    # Write an empty ledger workbook`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Interrupts cancel in-flight compilations.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
	rootCmd.PersistentFlags().StringVar(&ledgerFile, "ledger", "", "Ledger workbook (overrides ledger_file)")
	rootCmd.PersistentFlags().StringVar(&profilesFile, "profiles", "", "Profiles YAML (overrides profiles_file)")
}

// =============================================================================
// SHARED APPLICATION STATE
// =============================================================================

type app struct {
	cfg      *config.MainConfig
	log      *logrus.Logger
	ledger   *xlsxledger.Ledger
	profiles *profilestore.Store
	compiler *compiler.Compiler
}

// loadConfig reads --config. A missing file at the default path falls back
// to the built-in defaults; an explicitly named file must exist.
func loadConfig(cmd *cobra.Command) (*config.MainConfig, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}
	return cfg, nil
}

func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if ledgerFile != "" {
		cfg.LedgerFile = ledgerFile
	}
	if profilesFile != "" {
		cfg.ProfilesFile = profilesFile
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, err := logging.SetupLogging(level, os.Stderr)
	if err != nil {
		return nil, err
	}

	ledger, err := xlsxledger.Open(cfg.LedgerFile)
	if err != nil {
		return nil, err
	}
	profiles, err := profilestore.Load(cfg.ProfilesFile)
	if err != nil {
		return nil, err
	}

	thresholds, err := cfg.ThresholdPolicy()
	if err != nil {
		return nil, err
	}
	catalog, err := cfg.FormCatalogPolicy()
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"ledger":       cfg.LedgerFile,
		"transactions": ledger.Len(),
		"profiles":     cfg.ProfilesFile,
	}).Debug("App.Loaded")

	return &app{
		cfg:      cfg,
		log:      log,
		ledger:   ledger,
		profiles: profiles,
		compiler: compiler.New(ledger, profiles, compiler.Options{
			Thresholds:                thresholds,
			Catalog:                   catalog,
			Head:                      cfg.DocumentHead(),
			Encode:                    cfg.EncodeOptions(),
			ContinueOnValidationError: *cfg.ContinueOnValidationError,
			Location:                  cfg.Location(),
			Logger:                    log,
		}),
	}, nil
}

// organizations returns --org when given, otherwise every organization with
// transactions in year.
func (a *app) organizations(orgs []string, year int) []string {
	if len(orgs) > 0 {
		return orgs
	}
	return a.ledger.Organizations(year)
}
