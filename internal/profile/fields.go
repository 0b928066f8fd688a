package profile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/opd-ai/traypulse/internal/metrics"
)

// FieldID identifies one metric row in the profile window. The typed
// mapping from field to widget is built once at construction, so there
// is no name-keyed widget lookup at update time.
type FieldID int

const (
	FieldCPUTotal FieldID = iota
	FieldCPUCores
	FieldCPUThreads
	FieldCPUFrequency
	FieldCPUPerCore
	FieldMemTotal
	FieldMemAvailable
	FieldMemUsed
	FieldMemSwap
	FieldDiskMount
	FieldDiskTotal
	FieldDiskUsed
	FieldDiskRead
	FieldDiskWrite
	FieldNetSent
	FieldNetRecv
	FieldNetPacketsSent
	FieldNetPacketsRecv
	FieldProcTotal
	FieldProcCPU
	FieldProcMemory
	FieldProcThreads
	FieldSysHostname
	FieldSysPlatform
	FieldSysBootTime
	FieldSysUptime
)

// maxPerCoreShown caps the per-core list; remaining cores collapse
// into a "(+n more)" suffix.
const maxPerCoreShown = 8

// maxPlatformRunes caps the platform string before eliding.
const maxPlatformRunes = 50

// fieldRegistry maps field identifiers to their value labels.
type fieldRegistry struct {
	labels map[FieldID]*label
}

func newFieldRegistry() *fieldRegistry {
	return &fieldRegistry{labels: make(map[FieldID]*label)}
}

func (r *fieldRegistry) register(id FieldID, l *label) {
	r.labels[id] = l
}

func (r *fieldRegistry) set(id FieldID, text string) {
	if l, ok := r.labels[id]; ok {
		l.text = text
	}
}

// get returns the current text of a field, for tests.
func (r *fieldRegistry) get(id FieldID) string {
	if l, ok := r.labels[id]; ok {
		return l.text
	}
	return ""
}

// apply pushes one snapshot's formatted values into every field.
func (r *fieldRegistry) apply(snap metrics.Snapshot) {
	r.set(FieldCPUTotal, metrics.FormatPercent(snap.CPU.TotalPercent))
	r.set(FieldCPUCores, strconv.Itoa(snap.CPU.CoreCount))
	r.set(FieldCPUThreads, strconv.Itoa(snap.CPU.ThreadCount))
	r.set(FieldCPUFrequency, fmt.Sprintf("%.0f MHz", snap.CPU.FrequencyMHz))
	r.set(FieldCPUPerCore, formatPerCore(snap.CPU.PerCorePercent))

	r.set(FieldMemTotal, metrics.FormatBytes(snap.Memory.TotalBytes))
	r.set(FieldMemAvailable, metrics.FormatBytes(snap.Memory.AvailableBytes))
	r.set(FieldMemUsed, metrics.FormatPercent(snap.Memory.UsedPercent))
	r.set(FieldMemSwap, metrics.FormatPercent(snap.Memory.SwapUsedPercent))

	r.set(FieldDiskMount, snap.Disk.MountPoint)
	r.set(FieldDiskTotal, metrics.FormatBytes(snap.Disk.TotalBytes))
	r.set(FieldDiskUsed, metrics.FormatPercent(snap.Disk.UsedPercent))
	r.set(FieldDiskRead, metrics.FormatBytes(snap.Disk.ReadBytes))
	r.set(FieldDiskWrite, metrics.FormatBytes(snap.Disk.WriteBytes))

	r.set(FieldNetSent, metrics.FormatBytes(snap.Network.BytesSent))
	r.set(FieldNetRecv, metrics.FormatBytes(snap.Network.BytesRecv))
	r.set(FieldNetPacketsSent, metrics.FormatCount(snap.Network.PacketsSent))
	r.set(FieldNetPacketsRecv, metrics.FormatCount(snap.Network.PacketsRecv))

	r.set(FieldProcTotal, strconv.Itoa(snap.Process.TotalProcesses))
	r.set(FieldProcCPU, metrics.FormatPercent(snap.Process.CurrentCPUPercent))
	r.set(FieldProcMemory, metrics.FormatPercent(snap.Process.CurrentMemoryPercent))
	r.set(FieldProcThreads, strconv.Itoa(snap.Process.CurrentThreads))

	r.set(FieldSysHostname, snap.System.Hostname)
	r.set(FieldSysPlatform, elide(snap.System.Platform, maxPlatformRunes))
	r.set(FieldSysBootTime, snap.System.BootTime.Format("2006-01-02 15:04:05"))
	r.set(FieldSysUptime, metrics.FormatUptime(snap.System.UptimeSeconds))
}

func formatPerCore(percents []float64) string {
	if len(percents) == 0 {
		return "--"
	}
	shown := percents
	if len(shown) > maxPerCoreShown {
		shown = shown[:maxPerCoreShown]
	}
	parts := make([]string, len(shown))
	for i, p := range shown {
		parts[i] = fmt.Sprintf("%.0f%%", p)
	}
	s := strings.Join(parts, ", ")
	if extra := len(percents) - maxPerCoreShown; extra > 0 {
		s += fmt.Sprintf(" (+%d more)", extra)
	}
	return s
}

func elide(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
