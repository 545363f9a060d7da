package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileValidator_ValidateDataFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		errorContains string
	}{
		{
			name: "readable csv",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "cleaned_day_data.csv")
				require.NoError(t, os.WriteFile(path, []byte("dteday,total_rentals\n"), 0o644))
				return path
			},
		},
		{
			name: "readable xlsx",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "hour.XLSX")
				require.NoError(t, os.WriteFile(path, []byte("PK"), 0o644))
				return path
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "day.csv")
			},
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "day.csv")
				require.NoError(t, os.Mkdir(dir, 0o755))
				return dir
			},
			errorContains: "is a directory",
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "day.json")
				require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
				return path
			},
			errorContains: "not a .csv or .xlsx file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFileValidator(quietLogger())
			err := v.ValidateDataFile(tt.setupFunc(t))
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestFileValidator_ValidateDataFilesReportsBoth(t *testing.T) {
	dir := t.TempDir()
	v := NewFileValidator(quietLogger())

	err := v.ValidateDataFiles(filepath.Join(dir, "day.csv"), filepath.Join(dir, "hour.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Contains(t, err.Error(), "day.csv does not exist")
	assert.Contains(t, err.Error(), "hour.txt is not a .csv or .xlsx file")

	daily := filepath.Join(dir, "ok.csv")
	require.NoError(t, os.WriteFile(daily, []byte("x\n"), 0o644))
	assert.NoError(t, v.ValidateDataFiles(daily, daily))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)

	nested := filepath.Join(t.TempDir(), "reports", "2011")
	require.NoError(t, v.ValidateOutputDirectory(nested))

	entries, err := os.ReadDir(nested)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")

	file := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	err = v.ValidateOutputDirectory(filepath.Join(file, "sub"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output directory")
}
