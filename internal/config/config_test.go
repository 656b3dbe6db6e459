package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WRICEF_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "data/wricef-tracker.xlsx", cfg.Data.TrackerFile)
	assert.Equal(t, 500, cfg.Data.SampleSize)
	assert.Equal(t, int64(42), cfg.Data.Seed)
	assert.Equal(t, "charts", cfg.Export.OutputDir)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.UseSheets())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wricefviz.yaml")
	content := `
server:
  port: 9000
logging:
  level: debug
data:
  tracker_file: /srv/tracker.xlsx
  seed: 7
export:
  output_dir: /tmp/out
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("WRICEF_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/srv/tracker.xlsx", cfg.Data.TrackerFile)
	assert.Equal(t, int64(7), cfg.Data.Seed)
	assert.Equal(t, "/tmp/out", cfg.Export.OutputDir)
	// Untouched sections keep their defaults.
	assert.Equal(t, 500, cfg.Data.SampleSize)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wricefviz.yaml")
	content := `
server:
  port: 9000
logging:
  level: debug
data:
  seed: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("WRICEF_CONFIG_FILE", path)
	t.Setenv("WRICEF_SERVER_PORT", "9100")
	t.Setenv("WRICEF_LOGGING_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Set environment variables beat the file.
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// File values survive for variables that are not set.
	assert.Equal(t, int64(7), cfg.Data.Seed)
}

func TestSheetsSource(t *testing.T) {
	t.Setenv("WRICEF_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("WRICEF_DATA_SHEETS_SPREADSHEET_ID", "sheet-123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.UseSheets())
	assert.Equal(t, "sheet-123", cfg.Data.Sheets.SpreadsheetID)
	assert.Equal(t, "Tracker!A1:O", cfg.Data.Sheets.ReadRange)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "bad port",
			env:  map[string]string{"WRICEF_SERVER_PORT": "70000"},
			want: "invalid server port",
		},
		{
			name: "bad log level",
			env:  map[string]string{"WRICEF_LOGGING_LEVEL": "verbose"},
			want: "invalid log level",
		},
		{
			name: "bad log format",
			env:  map[string]string{"WRICEF_LOGGING_FORMAT": "xml"},
			want: "invalid log format",
		},
		{
			name: "bad sample size",
			env:  map[string]string{"WRICEF_DATA_SAMPLE_SIZE": "-1"},
			want: "sample size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WRICEF_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
