package market

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, `time,price,volume
2025-06-02T10:00:00Z,23450.75,375
2025-06-02T10:00:01Z,23451.00,120
`)

	samples, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), samples[0].Time)
	assert.Equal(t, 23450.75, samples[0].Price)
	assert.Equal(t, 375.0, samples[0].Volume)
	assert.Equal(t, 23451.0, samples[1].Price)
}

func TestLoadCSVWithoutHeaderOrVolume(t *testing.T) {
	path := writeCSV(t, "2025-06-02T10:00:00Z,100.5\n")

	samples, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 100.5, samples[0].Price)
	assert.Zero(t, samples[0].Volume)
}

func TestLoadCSVErrors(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = LoadCSV(writeCSV(t, "yesterday,100,1\n"))
	assert.Error(t, err)

	_, err = LoadCSV(writeCSV(t, "2025-06-02T10:00:00Z,notaprice,1\n"))
	assert.Error(t, err)
}
