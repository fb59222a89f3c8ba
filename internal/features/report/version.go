package report

import "sync/atomic"

// SnapshotVersion counts how many times the report set has changed as seen by
// this process: lifecycle mutations bump it directly, the change stream bumps
// it for writes arriving from other writers. Filter caches key off it.
type SnapshotVersion struct {
	n atomic.Uint64
}

func NewSnapshotVersion() *SnapshotVersion {
	return &SnapshotVersion{}
}

func (v *SnapshotVersion) Current() uint64 {
	return v.n.Load()
}

func (v *SnapshotVersion) Bump() {
	v.n.Add(1)
}
