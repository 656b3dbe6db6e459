package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wricefviz/internal/config"
)

func TestLoadTableSample(t *testing.T) {
	cfg := &config.Config{
		Data: config.DataConfig{SampleSize: 25, Seed: 42},
	}

	table, err := loadTable(cfg, true)
	require.NoError(t, err)
	assert.Equal(t, 25, table.Len())
	assert.Equal(t, "sample", table.Source)
}

func TestLoadTableMissingFileFallsBack(t *testing.T) {
	cfg := &config.Config{
		Data: config.DataConfig{
			TrackerFile: filepath.Join(t.TempDir(), "absent.xlsx"),
			SampleSize:  10,
			Seed:        7,
		},
	}

	table, err := loadTable(cfg, false)
	require.NoError(t, err)
	assert.Equal(t, 10, table.Len())
	assert.Equal(t, "sample", table.Source)
}
