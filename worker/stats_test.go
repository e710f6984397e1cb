package worker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_collectStats(t *testing.T) {
	dir := t.TempDir()
	loadAvg := filepath.Join(dir, "loadavg")
	memInfo := filepath.Join(dir, "meminfo")
	require.NoError(t, os.WriteFile(loadAvg, []byte("0.50 0.25 0.10 2/345 6789\n"), 0o600))
	require.NoError(t, os.WriteFile(memInfo, []byte("MemTotal:       16000000 kB\nMemFree:         1000000 kB\nMemAvailable:    8000000 kB\n"), 0o600))

	stats, err := collectStats(loadAvg, memInfo)
	require.NoError(t, err)

	assert.InDelta(t, 0.50, stats.Load1, 0.001)
	assert.InDelta(t, 0.25, stats.Load5, 0.001)
	assert.InDelta(t, 0.10, stats.Load15, 0.001)
	assert.Equal(t, uint64(2), stats.ProcessRunning)
	assert.Equal(t, uint64(345), stats.ProcessTotal)
	assert.Equal(t, uint64(16000000), stats.MemTotalKb)
	assert.Equal(t, uint64(8000000), stats.MemAvailableKb)
}

func Test_collectStats_MissingFile(t *testing.T) {
	_, err := collectStats(filepath.Join(t.TempDir(), "nope"), memInfoPath)
	assert.Error(t, err)
}
