package cloud

import (
	"time"

	"github.com/pkg/errors"

	"go.viam.com/lidarcloud/geometry"
	"go.viam.com/lidarcloud/scan"
)

// Builder projects full-rotation scans into organized clouds through a
// precomputed lookup table. The destination buffer is allocated once and
// reused across builds, so the cloud returned by Build is only valid until
// the next call.
type Builder struct {
	lut   geometry.XYZLut
	frame string
	cloud *Cloud
}

// NewBuilder creates a builder for the given lookup table. Clouds it produces
// are stamped with the given sensor frame.
func NewBuilder(lut geometry.XYZLut, frame string) *Builder {
	h, w := lut.Dims()
	return &Builder{
		lut:   lut,
		frame: frame,
		cloud: NewCloud(h, w),
	}
}

// Build converts a ready scan into an organized cloud. Cells with a nonzero
// range become direction*range + offset in the sensor frame; cells without a
// return keep the invalid marker so the grid shape is preserved. Signal
// values are copied verbatim either way. A scan whose dimensions disagree
// with the lookup table is a fatal configuration fault.
func (b *Builder) Build(s *scan.LidarScan, timestamp time.Time) (*Cloud, error) {
	h, w := b.lut.Dims()
	if s.Height != h || s.Width != w {
		return nil, errors.Errorf(
			"scan dimensions %dx%d do not match lookup table dimensions %dx%d",
			s.Height, s.Width, h, w)
	}

	b.cloud.Frame = b.frame
	b.cloud.Timestamp = timestamp
	for u := 0; u < h; u++ {
		for v := 0; v < w; v++ {
			i := u*w + v
			r := s.Ranges[i]
			if r == 0 {
				b.cloud.setInvalid(i, s.Signals[i])
				continue
			}
			rangeM := float64(r) / 1000.0
			p := b.lut.Direction(u, v).Mul(rangeM).Add(b.lut.Offset(u, v))
			b.cloud.set(i, p, s.Signals[i])
		}
	}
	return b.cloud, nil
}
