package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

var errProbe = errors.New("probe failure")

// healthyProbes returns a probe set backed by fixed, recognizable
// values so tests can tell which categories survived a fault.
func healthyProbes() probes {
	return probes{
		cpuPercent: func(_ time.Duration, percpu bool) ([]float64, error) {
			if percpu {
				return []float64{10, 20, 30, 40}, nil
			}
			return []float64{25.0}, nil
		},
		cpuCounts: func(logical bool) (int, error) {
			if logical {
				return 8, nil
			}
			return 4, nil
		},
		cpuInfo: func() ([]cpu.InfoStat, error) {
			return []cpu.InfoStat{{Mhz: 3200}}, nil
		},
		virtualMemory: func() (*mem.VirtualMemoryStat, error) {
			return &mem.VirtualMemoryStat{Total: 16 << 30, Available: 8 << 30, UsedPercent: 50}, nil
		},
		swapMemory: func() (*mem.SwapMemoryStat, error) {
			return &mem.SwapMemoryStat{Total: 2 << 30, UsedPercent: 5}, nil
		},
		diskUsage: func(string) (*disk.UsageStat, error) {
			return &disk.UsageStat{Total: 512 << 30, UsedPercent: 75}, nil
		},
		diskIO: func(...string) (map[string]disk.IOCountersStat, error) {
			return map[string]disk.IOCountersStat{
				"sda": {ReadBytes: 100, WriteBytes: 200},
				"sdb": {ReadBytes: 1, WriteBytes: 2},
			}, nil
		},
		netIO: func(bool) ([]net.IOCountersStat, error) {
			return []net.IOCountersStat{{BytesSent: 111, BytesRecv: 222, PacketsSent: 3, PacketsRecv: 4}}, nil
		},
		pids: func() ([]int32, error) {
			return []int32{1, 2, 3}, nil
		},
		hostInfo: func() (*host.InfoStat, error) {
			return &host.InfoStat{
				BootTime:        1700000000,
				Uptime:          90061,
				Platform:        "linux",
				PlatformVersion: "6.1",
				KernelArch:      "x86_64",
				Hostname:        "testhost",
			}, nil
		},
	}
}

func newTestCollector(p probes) *Collector {
	return &Collector{systemDrive: "/", probes: p}
}

func TestResolveSystemDrive(t *testing.T) {
	tests := []struct {
		name string
		goos string
		env  map[string]string
		want string
	}{
		{"linux root", "linux", nil, "/"},
		{"darwin root", "darwin", nil, "/"},
		{"windows from env", "windows", map[string]string{"SystemDrive": "D:"}, `D:\`},
		{"windows default", "windows", nil, `C:\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(key string) string { return tt.env[key] }
			if got := resolveSystemDrive(tt.goos, getenv); got != tt.want {
				t.Errorf("resolveSystemDrive(%q) = %q, want %q", tt.goos, got, tt.want)
			}
		})
	}
}

func TestSampleAllCategoriesHealthy(t *testing.T) {
	c := newTestCollector(healthyProbes())
	snap := c.Sample()

	if snap.Timestamp.IsZero() {
		t.Error("Sample() produced zero timestamp")
	}
	if snap.CPU.TotalPercent != 25.0 {
		t.Errorf("CPU.TotalPercent = %v, want 25.0", snap.CPU.TotalPercent)
	}
	if len(snap.CPU.PerCorePercent) != 4 {
		t.Errorf("len(PerCorePercent) = %d, want 4", len(snap.CPU.PerCorePercent))
	}
	if snap.CPU.CoreCount != 4 || snap.CPU.ThreadCount != 8 {
		t.Errorf("core/thread counts = %d/%d, want 4/8", snap.CPU.CoreCount, snap.CPU.ThreadCount)
	}
	if snap.Memory.UsedPercent != 50 {
		t.Errorf("Memory.UsedPercent = %v, want 50", snap.Memory.UsedPercent)
	}
	if snap.Disk.ReadBytes != 101 || snap.Disk.WriteBytes != 202 {
		t.Errorf("Disk I/O = %d/%d, want summed 101/202", snap.Disk.ReadBytes, snap.Disk.WriteBytes)
	}
	if snap.Disk.MountPoint != "/" {
		t.Errorf("Disk.MountPoint = %q, want /", snap.Disk.MountPoint)
	}
	if snap.Network.BytesSent != 111 || snap.Network.PacketsRecv != 4 {
		t.Errorf("Network = %+v, want aggregated counters", snap.Network)
	}
	if snap.Process.TotalProcesses != 3 {
		t.Errorf("TotalProcesses = %d, want 3", snap.Process.TotalProcesses)
	}
	if snap.System.Hostname != "testhost" {
		t.Errorf("Hostname = %q, want testhost", snap.System.Hostname)
	}
	if snap.System.UptimeSeconds != 90061 {
		t.Errorf("UptimeSeconds = %v, want 90061", snap.System.UptimeSeconds)
	}
}

// A failure in exactly one category must leave every other category's
// values intact.
func TestSamplePartialFailureIsolation(t *testing.T) {
	p := healthyProbes()
	p.diskUsage = func(string) (*disk.UsageStat, error) { return nil, errProbe }
	p.diskIO = func(...string) (map[string]disk.IOCountersStat, error) { return nil, errProbe }

	c := newTestCollector(p)
	snap := c.Sample()

	if snap.Disk.TotalBytes != 0 || snap.Disk.UsedPercent != 0 {
		t.Errorf("failed disk category should be zeroed, got %+v", snap.Disk)
	}
	if snap.Disk.MountPoint != "/" {
		t.Errorf("mount point should survive disk failure, got %q", snap.Disk.MountPoint)
	}
	if snap.CPU.TotalPercent != 25.0 {
		t.Errorf("CPU data lost after disk failure: %+v", snap.CPU)
	}
	if snap.Memory.TotalBytes != 16<<30 {
		t.Errorf("memory data lost after disk failure: %+v", snap.Memory)
	}
	if snap.Network.BytesRecv != 222 {
		t.Errorf("network data lost after disk failure: %+v", snap.Network)
	}
	if snap.System.Hostname != "testhost" {
		t.Errorf("system data lost after disk failure: %+v", snap.System)
	}
}

func TestCPUFailureDefaults(t *testing.T) {
	p := healthyProbes()
	p.cpuPercent = func(time.Duration, bool) ([]float64, error) { return nil, errProbe }

	c := newTestCollector(p)
	m := c.CPU()

	if m.TotalPercent != 0 || m.PerCorePercent != nil {
		t.Errorf("failed CPU category should be zeroed, got %+v", m)
	}
	if m.CoreCount != 1 || m.ThreadCount != 1 {
		t.Errorf("core/thread counts should default to 1, got %d/%d", m.CoreCount, m.ThreadCount)
	}
}

func TestSystemFailurePlaceholders(t *testing.T) {
	p := healthyProbes()
	p.hostInfo = func() (*host.InfoStat, error) { return nil, errProbe }

	c := newTestCollector(p)
	info := c.System()

	if info.Platform != "unknown" || info.Hostname != "unknown" {
		t.Errorf("System() on failure = %+v, want unknown placeholders", info)
	}
	if info.BootTime.IsZero() {
		t.Error("System() on failure should fall back to the current time for boot time")
	}
}

func TestQuickSample(t *testing.T) {
	c := newTestCollector(healthyProbes())
	q := c.QuickSample()

	if q.CPU != 25.0 || q.Memory != 50.0 || q.Disk != 75.0 {
		t.Errorf("QuickSample() = %+v, want {25 50 75}", q)
	}
}

func TestQuickSamplePartialFailure(t *testing.T) {
	p := healthyProbes()
	p.virtualMemory = func() (*mem.VirtualMemoryStat, error) { return nil, errProbe }

	c := newTestCollector(p)
	q := c.QuickSample()

	if q.Memory != 0 {
		t.Errorf("failed memory value should be zero, got %v", q.Memory)
	}
	if q.CPU != 25.0 || q.Disk != 75.0 {
		t.Errorf("CPU/disk values lost after memory failure: %+v", q)
	}
}

func TestNewCollectorDefaults(t *testing.T) {
	c := NewCollector()
	if c.systemDrive == "" {
		t.Error("NewCollector() left system drive unresolved")
	}
	if c.probes.cpuPercent == nil || c.probes.hostInfo == nil {
		t.Error("NewCollector() left probes unbound")
	}
}
