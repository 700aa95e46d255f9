// Package cloud implements the organized point cloud produced from a full
// rotation of the sensor and the stages that operate on it.
package cloud

import (
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/spatialmath"
)

// Cloud is a buffer of 3D points carried with the per-point signal values from
// the raw scan. While organized, the buffer mirrors the sensor's height×width
// grid and cells without a return hold the zero point with a false valid flag,
// so downstream consumers can rely on neighbor-by-offset access. Compacting
// stages (crop) clear the organized flag.
type Cloud struct {
	Frame     string
	Timestamp time.Time

	height    int
	width     int
	organized bool
	points    []r3.Vector
	valid     []bool
	signals   []uint16
}

// NewCloud allocates an organized cloud of the given grid dimensions.
func NewCloud(height, width int) *Cloud {
	n := height * width
	return &Cloud{
		height:    height,
		width:     width,
		organized: true,
		points:    make([]r3.Vector, n),
		valid:     make([]bool, n),
		signals:   make([]uint16, n),
	}
}

// Dims returns the grid dimensions. For compacted clouds the height is 1.
func (c *Cloud) Dims() (int, int) {
	return c.height, c.width
}

// Size returns the total number of cells, valid or not.
func (c *Cloud) Size() int {
	return len(c.points)
}

// Organized reports whether the buffer still mirrors the sensor grid.
func (c *Cloud) Organized() bool {
	return c.organized
}

// At returns the point at cell (u, v) and whether it is a valid return.
func (c *Cloud) At(u, v int) (r3.Vector, bool) {
	i := u*c.width + v
	return c.points[i], c.valid[i]
}

// SignalAt returns the signal value carried for cell (u, v).
func (c *Cloud) SignalAt(u, v int) uint16 {
	return c.signals[u*c.width+v]
}

// ValidCount returns the number of valid returns in the cloud.
func (c *Cloud) ValidCount() int {
	n := 0
	for _, ok := range c.valid {
		if ok {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the cloud. Stages that hold a cloud beyond
// the invocation that built it must copy, since the builder reuses its
// destination buffer.
func (c *Cloud) Clone() *Cloud {
	out := &Cloud{
		Frame:     c.Frame,
		Timestamp: c.Timestamp,
		height:    c.height,
		width:     c.width,
		organized: c.organized,
		points:    make([]r3.Vector, len(c.points)),
		valid:     make([]bool, len(c.valid)),
		signals:   make([]uint16, len(c.signals)),
	}
	copy(out.points, c.points)
	copy(out.valid, c.valid)
	copy(out.signals, c.signals)
	return out
}

func (c *Cloud) set(i int, p r3.Vector, signal uint16) {
	c.points[i] = p
	c.valid[i] = true
	c.signals[i] = signal
}

func (c *Cloud) setInvalid(i int, signal uint16) {
	c.points[i] = r3.Vector{}
	c.valid[i] = false
	c.signals[i] = signal
}

// CropBox filters the valid points of a cloud against an axis-aligned box.
// With exclude set, points inside the box are removed; otherwise only points
// inside the box are kept. The result is compacted and no longer organized.
// An empty result is valid. The input cloud is not modified.
func CropBox(c *Cloud, boxMin, boxMax r3.Vector, exclude bool) *Cloud {
	out := &Cloud{
		Frame:     c.Frame,
		Timestamp: c.Timestamp,
		height:    1,
		organized: false,
	}
	for i, p := range c.points {
		if !c.valid[i] {
			continue
		}
		inside := p.X >= boxMin.X && p.X <= boxMax.X &&
			p.Y >= boxMin.Y && p.Y <= boxMax.Y &&
			p.Z >= boxMin.Z && p.Z <= boxMax.Z
		if inside == exclude {
			continue
		}
		out.points = append(out.points, p)
		out.valid = append(out.valid, true)
		out.signals = append(out.signals, c.signals[i])
	}
	out.width = len(out.points)
	return out
}

// ApplyPose returns a fresh cloud with every valid point rigidly transformed
// by the given pose. Invalid cells pass through unchanged so the grid shape
// is preserved. The input cloud is not modified.
func ApplyPose(c *Cloud, pose spatialmath.Pose) *Cloud {
	out := &Cloud{
		Frame:     c.Frame,
		Timestamp: c.Timestamp,
		height:    c.height,
		width:     c.width,
		organized: c.organized,
		points:    make([]r3.Vector, len(c.points)),
		valid:     make([]bool, len(c.valid)),
		signals:   make([]uint16, len(c.signals)),
	}
	copy(out.valid, c.valid)
	copy(out.signals, c.signals)
	for i, p := range c.points {
		if !c.valid[i] {
			continue
		}
		out.points[i] = spatialmath.Compose(pose, spatialmath.NewPoseFromPoint(p)).Point()
	}
	return out
}

// ToPointCloud converts the valid points into an rdk point cloud, carrying the
// signal as per-point value data. Invalid cells are skipped.
func ToPointCloud(c *Cloud) (pointcloud.PointCloud, error) {
	pc := pointcloud.New()
	for i, p := range c.points {
		if !c.valid[i] {
			continue
		}
		if err := pc.Set(p, pointcloud.NewValueData(int(c.signals[i]))); err != nil {
			return nil, err
		}
	}
	return pc, nil
}
