// =============================================================================
// Political Fund Report Compiler - File Manager Utility
// =============================================================================
//
// This module writes compilation artifacts to disk:
//   - The Shift_JIS report file
//   - An archive copy of each report
//   - A validation error log per report with errors
//   - A run summary across all compiled organizations
//
// ARCHIVAL STRATEGY:
//   - Report files stay in the output directory
//   - Report files are copied to output_archive for long-term storage
//   - Failed compilations produce no report file, only a summary entry
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/fund-report-compiler/internal/validation"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles artifact files for the compiler.
type FileManager struct {
	// OutputDir is the directory where report files are written.
	OutputDir string

	// OutputArchiveDir is the directory for archived report files.
	OutputArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: output_archive/2026/03/31/report_2025_mirai_20260331_1405.xml
	UseTimestampSubdirs bool

	// ArchiveOnSuccess determines whether reports are archived after writing.
	ArchiveOnSuccess bool

	// Now is the clock for archive subdirectories and log names.
	Now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(outputDir, outputArchiveDir string) *FileManager {
	return &FileManager{
		OutputDir:           outputDir,
		OutputArchiveDir:    outputArchiveDir,
		UseTimestampSubdirs: false,
		ArchiveOnSuccess:    true,
		Now:                 time.Now,
	}
}

// EnsureDirectories creates the output and archive directories.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.OutputDir, fm.OutputArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// REPORT FILES
// =============================================================================

// WriteReport writes encoded report bytes under OutputDir.
//
// PARAMETERS:
//   - fileName: The report file name (no directory part).
//   - data: The Shift_JIS bytes.
//
// RETURNS:
//   - The path of the written file.
//   - An error if writing fails.
func (fm *FileManager) WriteReport(fileName string, data []byte) (string, error) {
	if fileName == "" || filepath.Base(fileName) != fileName {
		return "", fmt.Errorf("invalid report file name %q", fileName)
	}
	path := filepath.Join(fm.OutputDir, fileName)

	// Write to a temp file first so a partial report never appears under
	// the final name.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to move report into place: %w", err)
	}
	return path, nil
}

// ArchiveOutputFile copies a report file to the archive directory.
//
// NOTE: Reports are copied, not moved, so they remain in the output directory.
func (fm *FileManager) ArchiveOutputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess || fm.OutputArchiveDir == "" {
		return filePath, nil
	}

	archivePath := fm.getArchivePath(fm.OutputArchiveDir, filePath)
	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}
	return archivePath, nil
}

// getArchivePath constructs the archive path for a file.
func (fm *FileManager) getArchivePath(archiveDir, filePath string) string {
	fileName := filepath.Base(filePath)

	if fm.UseTimestampSubdirs {
		now := fm.Now()
		return filepath.Join(
			archiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
			fileName,
		)
	}
	return filepath.Join(archiveDir, fileName)
}

// =============================================================================
// VALIDATION LOG
// =============================================================================

// WriteValidationLog writes the validation errors of one report next to it.
// The log is named after the report with a .errors.txt suffix.
//
// RETURNS:
//   - The path to the log, or "" when there are no errors.
//   - An error if writing fails.
func (fm *FileManager) WriteValidationLog(reportName, compilationID string, errs []*validation.ValidationError) (string, error) {
	if len(errs) == 0 {
		return "", nil
	}

	logPath := filepath.Join(fm.OutputDir, strings.TrimSuffix(reportName, filepath.Ext(reportName))+".errors.txt")
	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create validation log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Political Fund Report Compiler - Validation Log\n"+
		"Generated:      %s\n"+
		"Report:         %s\n"+
		"Compilation ID: %s\n"+
		"Total Errors:   %d\n"+
		"================================================================================\n\n",
		fm.Now().Format("2006-01-02 15:04:05"), reportName, compilationID, len(errs))
	writer.WriteString(validation.FormatErrors(errs))
	writer.WriteString("\n================================================================================\n" +
		"End of Validation Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush validation log: %w", err)
	}
	return logPath, nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about a compile run.
type RunSummary struct {
	StartTime     time.Time
	EndTime       time.Time
	FinancialYear int
	Compiled      []CompiledReport
	Failed        []FailedCompilation
}

// CompiledReport describes one successfully compiled report.
type CompiledReport struct {
	OrganizationID   string
	CompilationID    string
	OutputFile       string
	ArchivePath      string
	ValidationLog    string
	PresenceFlags    string
	Bytes            int
	ValidationErrors int
	ProcessTime      time.Duration
}

// FailedCompilation describes a compilation that produced no report.
type FailedCompilation struct {
	OrganizationID string
	ErrorMessage   string
}

// WriteSummaryLog writes a run summary to a log file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func (fm *FileManager) WriteSummaryLog(summary RunSummary, logDir string) (string, error) {
	if logDir == "" {
		logDir = fm.OutputDir
	}
	summaryPath := filepath.Join(logDir, fmt.Sprintf("compile_summary_%s.txt", fm.Now().Format("20060102_150405")))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Political Fund Report Compiler - Compile Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Financial Year: %d\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Organizations:  %d\n"+
		"  Compiled:       %d\n"+
		"  Failed:         %d\n\n",
		summary.FinancialYear,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		len(summary.Compiled)+len(summary.Failed),
		len(summary.Compiled),
		len(summary.Failed))

	if len(summary.Compiled) > 0 {
		writer.WriteString("Compiled Reports:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, r := range summary.Compiled {
			fmt.Fprintf(writer, "  Organization:      %s\n", r.OrganizationID)
			fmt.Fprintf(writer, "  Compilation ID:    %s\n", r.CompilationID)
			fmt.Fprintf(writer, "  Output:            %s\n", r.OutputFile)
			fmt.Fprintf(writer, "  Presence Flags:    %s\n", r.PresenceFlags)
			fmt.Fprintf(writer, "  Bytes:             %d\n", r.Bytes)
			fmt.Fprintf(writer, "  Validation Errors: %d\n", r.ValidationErrors)
			if r.ValidationLog != "" {
				fmt.Fprintf(writer, "  Validation Log:    %s\n", r.ValidationLog)
			}
			fmt.Fprintf(writer, "  Process Time:      %s\n\n", r.ProcessTime.String())
		}
	}

	if len(summary.Failed) > 0 {
		writer.WriteString("Failed Compilations:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, f := range summary.Failed {
			fmt.Fprintf(writer, "  Organization: %s\n", f.OrganizationID)
			fmt.Fprintf(writer, "  Error:        %s\n\n", f.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}
	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
