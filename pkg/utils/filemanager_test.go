package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fund-report-compiler/internal/validation"
)

func testManager(t *testing.T) *FileManager {
	t.Helper()
	root := t.TempDir()
	fm := NewFileManager(filepath.Join(root, "output"), filepath.Join(root, "archive"))
	fm.Now = func() time.Time { return time.Date(2026, 3, 31, 14, 5, 0, 0, time.UTC) }
	require.NoError(t, fm.EnsureDirectories())
	return fm
}

func TestWriteReportAndArchive(t *testing.T) {
	fm := testManager(t)
	data := []byte{0x82, 0xa0, '<', 'B', '>'}

	path, err := fm.WriteReport("report_2025_mirai_20260331_1405.xml", data)
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.False(t, FileExists(path+".tmp"))

	fm.UseTimestampSubdirs = true
	archived, err := fm.ArchiveOutputFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.OutputArchiveDir, "2026", "03", "31", filepath.Base(path)), archived)
	assert.True(t, FileExists(archived))
	assert.True(t, FileExists(path))
}

func TestWriteReport_RejectsPaths(t *testing.T) {
	fm := testManager(t)
	_, err := fm.WriteReport("../escape.xml", nil)
	assert.Error(t, err)
	_, err = fm.WriteReport("", nil)
	assert.Error(t, err)
}

func TestWriteValidationLog(t *testing.T) {
	fm := testManager(t)

	path, err := fm.WriteValidationLog("report.xml", "id-1", nil)
	require.NoError(t, err)
	assert.Empty(t, path)

	errs := []*validation.ValidationError{{Code: validation.Required, Path: "profile.officialName"}}
	path, err = fm.WriteValidationLog("report.xml", "id-1", errs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.OutputDir, "report.errors.txt"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Compilation ID: id-1")
	assert.Contains(t, string(body), "[REQUIRED] profile.officialName")
}

func TestWriteSummaryLog(t *testing.T) {
	fm := testManager(t)
	start := fm.Now()

	path, err := fm.WriteSummaryLog(RunSummary{
		StartTime:     start,
		EndTime:       start.Add(2 * time.Second),
		FinancialYear: 2025,
		Compiled:      []CompiledReport{{OrganizationID: "org-1", OutputFile: "a.xml", PresenceFlags: "11"}},
		Failed:        []FailedCompilation{{OrganizationID: "org-2", ErrorMessage: "organization report profile not found"}},
	}, "")
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Organizations:  2")
	assert.Contains(t, string(body), "Organization:      org-1")
	assert.Contains(t, string(body), "Error:        organization report profile not found")
}
