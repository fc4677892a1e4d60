package sysinfo

// Memory is a physical and swap memory sample.
type Memory struct {
	PhysicalUsed  float64 // fraction 0..1
	PhysicalTotal uint64  // bytes
	SwapUsed      float64 // fraction 0..1
	SwapTotal     uint64  // bytes
}

// PhysicalShare returns physical / (physical + swap) capacity.
// A host without swap reports 1.
func (m Memory) PhysicalShare() float64 {
	total := m.PhysicalTotal + m.SwapTotal
	if total == 0 {
		return 1
	}
	return float64(m.PhysicalTotal) / float64(total)
}

// DiskIO is the bytes moved during the last sampling window, in KB.
type DiskIO struct {
	Read  uint64
	Write uint64
}

// Network is the throughput over the last sampling window, in bytes/s.
type Network struct {
	Sent float64
	Recv float64
}

// Snapshot is the latest value of every probe. A field whose probe has not
// produced a sample yet is zero and its Has flag is false.
type Snapshot struct {
	CPU    []float64 // per-core load 0..1
	HasCPU bool

	Memory    Memory
	HasMemory bool

	DiskUsage    float64 // used fraction 0..1
	HasDiskUsage bool

	DiskIO    DiskIO
	HasDiskIO bool

	Network    Network
	HasNetwork bool

	Light    float64 // ambient brightness 0..1
	HasLight bool
}

// Source supplies telemetry snapshots to the simulation.
type Source interface {
	Snapshot() Snapshot
}

// Static is a Source that always returns the same snapshot.
type Static Snapshot

// Snapshot implements Source.
func (s Static) Snapshot() Snapshot {
	snap := Snapshot(s)
	snap.CPU = append([]float64(nil), s.CPU...)
	return snap
}
