// Package metrics collects operating-system performance counters and
// converts them into typed, immutable snapshots. A snapshot is created
// fresh on each poll and superseded, never mutated, by the next one, so
// values can be shared across goroutines without locking.
package metrics

import "time"

// CPUMetrics holds CPU usage statistics for one sampling instant.
type CPUMetrics struct {
	// TotalPercent is the overall CPU usage in [0, 100].
	TotalPercent float64
	// PerCorePercent is the usage of each logical CPU in [0, 100].
	PerCorePercent []float64
	// FrequencyMHz is the current CPU frequency in megahertz.
	FrequencyMHz float64
	// CoreCount is the number of physical cores (at least 1).
	CoreCount int
	// ThreadCount is the number of logical threads (at least 1).
	ThreadCount int
}

// MemoryMetrics holds virtual memory and swap statistics.
type MemoryMetrics struct {
	TotalBytes      uint64
	AvailableBytes  uint64
	UsedPercent     float64
	SwapTotalBytes  uint64
	SwapUsedPercent float64
}

// DiskMetrics holds usage and cumulative I/O counters for the system
// drive.
type DiskMetrics struct {
	TotalBytes  uint64
	UsedPercent float64
	// ReadBytes and WriteBytes are cumulative since boot, summed over
	// all physical disks.
	ReadBytes  uint64
	WriteBytes uint64
	// MountPoint is the sampled mount point (the system drive).
	MountPoint string
}

// NetworkMetrics holds cumulative network I/O counters aggregated over
// all interfaces.
type NetworkMetrics struct {
	BytesSent   uint64
	BytesRecv   uint64
	PacketsSent uint64
	PacketsRecv uint64
}

// ProcessMetrics holds the OS-wide process count plus usage figures for
// the current process.
type ProcessMetrics struct {
	TotalProcesses       int
	CurrentCPUPercent    float64
	CurrentMemoryPercent float64
	CurrentThreads       int
}

// SystemInfo holds static-ish host information.
type SystemInfo struct {
	BootTime      time.Time
	UptimeSeconds float64
	Platform      string
	Hostname      string
}

// Snapshot captures all metric categories at one sampling instant.
// It has no identity beyond its creation timestamp.
type Snapshot struct {
	Timestamp time.Time
	CPU       CPUMetrics
	Memory    MemoryMetrics
	Disk      DiskMetrics
	Network   NetworkMetrics
	Process   ProcessMetrics
	System    SystemInfo
}

// QuickSample is the cheap three-value subset used for tray icon
// rendering. Values are percentages in [0, 100].
type QuickSample struct {
	CPU    float64
	Memory float64
	Disk   float64
}
