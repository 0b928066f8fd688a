package metrics

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// probes bundles the OS metric entry points used by the Collector.
// Tests substitute failing implementations to verify that a fault in
// one category never bleeds into another.
type probes struct {
	cpuPercent    func(interval time.Duration, percpu bool) ([]float64, error)
	cpuCounts     func(logical bool) (int, error)
	cpuInfo       func() ([]cpu.InfoStat, error)
	virtualMemory func() (*mem.VirtualMemoryStat, error)
	swapMemory    func() (*mem.SwapMemoryStat, error)
	diskUsage     func(path string) (*disk.UsageStat, error)
	diskIO        func(names ...string) (map[string]disk.IOCountersStat, error)
	netIO         func(pernic bool) ([]net.IOCountersStat, error)
	pids          func() ([]int32, error)
	hostInfo      func() (*host.InfoStat, error)
}

func defaultProbes() probes {
	return probes{
		cpuPercent:    cpu.Percent,
		cpuCounts:     cpu.Counts,
		cpuInfo:       cpu.Info,
		virtualMemory: mem.VirtualMemory,
		swapMemory:    mem.SwapMemory,
		diskUsage:     disk.Usage,
		diskIO:        disk.IOCounters,
		netIO:         net.IOCounters,
		pids:          process.Pids,
		hostInfo:      host.Info,
	}
}

// Collector samples OS performance counters on demand. It is stateless
// between calls except for the memoized system drive and the handle to
// the current process, which the OS layer needs as a stable anchor for
// delta-based CPU percentages.
//
// Every accessor is synchronous, never returns an error, and isolates
// failures per category: a failing disk query yields a zeroed
// DiskMetrics while CPU, memory and the rest are unaffected.
type Collector struct {
	systemDrive string
	proc        *process.Process
	probes      probes
}

// NewCollector creates a Collector. The system drive is resolved once:
// %SystemDrive% on Windows, the root mount elsewhere.
func NewCollector() *Collector {
	c := &Collector{
		systemDrive: resolveSystemDrive(runtime.GOOS, os.Getenv),
		probes:      defaultProbes(),
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		c.proc = p
	}
	return c
}

func resolveSystemDrive(goos string, getenv func(string) string) string {
	if goos == "windows" {
		drive := getenv("SystemDrive")
		if drive == "" {
			drive = "C:"
		}
		return drive + `\`
	}
	return "/"
}

// SystemDrive returns the memoized mount point sampled for disk usage.
func (c *Collector) SystemDrive() string {
	return c.systemDrive
}

// Sample collects all categories into one snapshot.
func (c *Collector) Sample() Snapshot {
	return Snapshot{
		Timestamp: time.Now(),
		CPU:       c.CPU(),
		Memory:    c.Memory(),
		Disk:      c.Disk(),
		Network:   c.Network(),
		Process:   c.Process(),
		System:    c.System(),
	}
}

// QuickSample collects only the three percentages the tray icon needs,
// avoiding the full snapshot's extra OS calls. Each value falls back to
// zero independently on failure.
func (c *Collector) QuickSample() QuickSample {
	var q QuickSample
	if total, err := c.probes.cpuPercent(0, false); err == nil && len(total) > 0 {
		q.CPU = total[0]
	}
	if vm, err := c.probes.virtualMemory(); err == nil {
		q.Memory = vm.UsedPercent
	}
	if du, err := c.probes.diskUsage(c.systemDrive); err == nil {
		q.Disk = du.UsedPercent
	}
	return q
}

// CPU collects CPU usage, frequency and core counts. The total usage is
// a delta since the previous call, so the very first sample reads 0.
func (c *Collector) CPU() CPUMetrics {
	m := CPUMetrics{CoreCount: 1, ThreadCount: 1}

	total, err := c.probes.cpuPercent(0, false)
	if err != nil {
		return m
	}
	if len(total) > 0 {
		m.TotalPercent = total[0]
	}

	if perCore, err := c.probes.cpuPercent(0, true); err == nil {
		m.PerCorePercent = perCore
	}
	if info, err := c.probes.cpuInfo(); err == nil && len(info) > 0 {
		m.FrequencyMHz = info[0].Mhz
	}
	if n, err := c.probes.cpuCounts(false); err == nil && n > 0 {
		m.CoreCount = n
	}
	if n, err := c.probes.cpuCounts(true); err == nil && n > 0 {
		m.ThreadCount = n
	}
	return m
}

// Memory collects virtual memory and swap statistics.
func (c *Collector) Memory() MemoryMetrics {
	vm, err := c.probes.virtualMemory()
	if err != nil {
		return MemoryMetrics{}
	}
	m := MemoryMetrics{
		TotalBytes:     vm.Total,
		AvailableBytes: vm.Available,
		UsedPercent:    vm.UsedPercent,
	}
	if swap, err := c.probes.swapMemory(); err == nil {
		m.SwapTotalBytes = swap.Total
		m.SwapUsedPercent = swap.UsedPercent
	}
	return m
}

// Disk collects usage for the system drive and cumulative I/O counters
// summed over all disks. The mount point is preserved even when the
// underlying queries fail.
func (c *Collector) Disk() DiskMetrics {
	m := DiskMetrics{MountPoint: c.systemDrive}

	du, err := c.probes.diskUsage(c.systemDrive)
	if err != nil {
		return m
	}
	m.TotalBytes = du.Total
	m.UsedPercent = du.UsedPercent

	if counters, err := c.probes.diskIO(); err == nil {
		for _, io := range counters {
			m.ReadBytes += io.ReadBytes
			m.WriteBytes += io.WriteBytes
		}
	}
	return m
}

// Network collects cumulative I/O counters aggregated over all
// interfaces.
func (c *Collector) Network() NetworkMetrics {
	counters, err := c.probes.netIO(false)
	if err != nil || len(counters) == 0 {
		return NetworkMetrics{}
	}
	io := counters[0]
	return NetworkMetrics{
		BytesSent:   io.BytesSent,
		BytesRecv:   io.BytesRecv,
		PacketsSent: io.PacketsSent,
		PacketsRecv: io.PacketsRecv,
	}
}

// Process collects the OS-wide process count and this process's own
// CPU, memory and thread figures.
func (c *Collector) Process() ProcessMetrics {
	var m ProcessMetrics
	if pids, err := c.probes.pids(); err == nil {
		m.TotalProcesses = len(pids)
	}
	if c.proc == nil {
		return m
	}
	if pct, err := c.proc.Percent(0); err == nil {
		m.CurrentCPUPercent = pct
	}
	if pct, err := c.proc.MemoryPercent(); err == nil {
		m.CurrentMemoryPercent = float64(pct)
	}
	if n, err := c.proc.NumThreads(); err == nil {
		m.CurrentThreads = int(n)
	}
	return m
}

// System collects boot time, uptime and host identity. On failure it
// returns placeholder values rather than an error: the UI shows
// "unknown" instead of crashing.
func (c *Collector) System() SystemInfo {
	info, err := c.probes.hostInfo()
	if err != nil {
		return SystemInfo{
			BootTime: time.Now(),
			Platform: "unknown",
			Hostname: "unknown",
		}
	}
	return SystemInfo{
		BootTime:      time.Unix(int64(info.BootTime), 0),
		UptimeSeconds: float64(info.Uptime),
		Platform:      describePlatform(info),
		Hostname:      info.Hostname,
	}
}

func describePlatform(info *host.InfoStat) string {
	if info.PlatformVersion == "" {
		return info.Platform
	}
	return fmt.Sprintf("%s %s (%s)", info.Platform, info.PlatformVersion, info.KernelArch)
}
