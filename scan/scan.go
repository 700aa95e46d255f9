// Package scan defines the raw range-image grid accumulated over one sensor
// rotation and the seam to the packet accumulator that owns it.
package scan

import (
	"time"

	"github.com/pkg/errors"
)

// LidarScan is a dense height×width grid of raw returns, indexed by
// (row = beam index, column = azimuth slot). Ranges are in millimeters;
// a zero range means no return for that cell.
type LidarScan struct {
	Height  int
	Width   int
	Ranges  []uint32
	Signals []uint16
}

// NewLidarScan allocates an empty scan of the given dimensions.
func NewLidarScan(height, width int) (*LidarScan, error) {
	if height <= 0 || width <= 0 {
		return nil, errors.Errorf("invalid scan dimensions %dx%d", height, width)
	}
	return &LidarScan{
		Height:  height,
		Width:   width,
		Ranges:  make([]uint32, height*width),
		Signals: make([]uint16, height*width),
	}, nil
}

// Range returns the measured range at cell (u, v) in millimeters.
func (s *LidarScan) Range(u, v int) uint32 {
	return s.Ranges[u*s.Width+v]
}

// Signal returns the auxiliary signal value at cell (u, v).
func (s *LidarScan) Signal(u, v int) uint16 {
	return s.Signals[u*s.Width+v]
}

// SetReturn records a return at cell (u, v).
func (s *LidarScan) SetReturn(u, v int, rangeMM uint32, signal uint16) {
	i := u*s.Width + v
	s.Ranges[i] = rangeMM
	s.Signals[i] = signal
}

// RotationAccumulator is the read-only view of the batching engine that
// assembles packets into full-rotation scans. The pipeline only ever reads
// through it: once IsBatchReady reports true, the returned scan buffer is
// stable until the next readiness cycle, a contract the accumulator upholds.
// The rule it uses to decide a rotation is complete is its own business.
type RotationAccumulator interface {
	// IsBatchReady reports whether a complete rotation has been accumulated.
	IsBatchReady() bool

	// LidarScan returns the current complete scan buffer.
	LidarScan() *LidarScan

	// Timestamp returns the representative timestamp for the current batch.
	Timestamp() time.Time

	// PacketsAccumulated returns the number of packets folded into the
	// current batch, for diagnostics only.
	PacketsAccumulated() int
}
