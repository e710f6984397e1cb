package worker

import (
	"github.com/c9s/goprocinfo/linux"
	"github.com/pkg/errors"
)

const (
	loadAvgPath = "/proc/loadavg"
	memInfoPath = "/proc/meminfo"
)

// Stats describes the host the tellers run on.
type Stats struct {
	Load1          float64 `json:"load_1"`
	Load5          float64 `json:"load_5"`
	Load15         float64 `json:"load_15"`
	ProcessRunning uint64  `json:"process_running"`
	ProcessTotal   uint64  `json:"process_total"`
	MemTotalKb     uint64  `json:"mem_total_kb"`
	MemAvailableKb uint64  `json:"mem_available_kb"`
}

func CollectStats() (*Stats, error) {
	return collectStats(loadAvgPath, memInfoPath)
}

func collectStats(loadAvg, memInfo string) (*Stats, error) {
	load, err := linux.ReadLoadAvg(loadAvg)
	if err != nil {
		return nil, errors.Wrap(err, "read load average")
	}
	mem, err := linux.ReadMemInfo(memInfo)
	if err != nil {
		return nil, errors.Wrap(err, "read memory info")
	}

	return &Stats{
		Load1:          load.Last1Min,
		Load5:          load.Last5Min,
		Load15:         load.Last15Min,
		ProcessRunning: load.ProcessRunning,
		ProcessTotal:   load.ProcessTotal,
		MemTotalKb:     mem.MemTotal,
		MemAvailableKb: mem.MemAvailable,
	}, nil
}
