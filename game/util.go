package game

import "github.com/pthm-cable/cybertank/sysinfo"

// mergeSignals overlays the fields cur has sampled onto prev, so a probe
// that has not reported keeps its last known value.
func mergeSignals(prev, cur sysinfo.Snapshot) sysinfo.Snapshot {
	if cur.HasCPU {
		prev.CPU, prev.HasCPU = cur.CPU, true
	}
	if cur.HasMemory {
		prev.Memory, prev.HasMemory = cur.Memory, true
	}
	if cur.HasDiskUsage {
		prev.DiskUsage, prev.HasDiskUsage = cur.DiskUsage, true
	}
	if cur.HasDiskIO {
		prev.DiskIO, prev.HasDiskIO = cur.DiskIO, true
	}
	if cur.HasNetwork {
		prev.Network, prev.HasNetwork = cur.Network, true
	}
	if cur.HasLight {
		prev.Light, prev.HasLight = cur.Light, true
	}
	return prev
}
