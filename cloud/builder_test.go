package cloud

import (
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/lidarcloud/geometry"
	"go.viam.com/lidarcloud/scan"
)

func testLut(t *testing.T, h, w int) geometry.XYZLut {
	t.Helper()
	lut, err := geometry.MakeXYZLut(geometry.SensorInfo{
		PixelsPerColumn:    h,
		ColumnsPerFrame:    w,
		BeamAltitudeAngles: make([]float64, h),
		BeamAzimuthAngles:  make([]float64, h),
	})
	test.That(t, err, test.ShouldBeNil)
	return lut
}

func TestBuild(t *testing.T) {
	timestamp := time.Date(2023, 10, 12, 9, 30, 0, 0, time.UTC)

	t.Run("single return at the origin column", func(t *testing.T) {
		lut := testLut(t, 64, 1024)
		s, err := scan.NewLidarScan(64, 1024)
		test.That(t, err, test.ShouldBeNil)
		s.SetReturn(0, 0, 5000, 42)

		builder := NewBuilder(lut, "laser_data_frame")
		c, err := builder.Build(s, timestamp)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, c.Frame, test.ShouldEqual, "laser_data_frame")
		test.That(t, c.Timestamp, test.ShouldResemble, timestamp)
		test.That(t, c.Size(), test.ShouldEqual, 64*1024)
		test.That(t, c.Organized(), test.ShouldBeTrue)
		test.That(t, c.ValidCount(), test.ShouldEqual, 1)

		p, ok := c.At(0, 0)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, p, test.ShouldResemble, r3.Vector{X: 5, Y: 0, Z: 0})
		test.That(t, c.SignalAt(0, 0), test.ShouldEqual, 42)
	})

	t.Run("zero range cells keep the invalid marker", func(t *testing.T) {
		lut := testLut(t, 4, 8)
		s, err := scan.NewLidarScan(4, 8)
		test.That(t, err, test.ShouldBeNil)
		s.SetReturn(1, 1, 2000, 7)
		s.Signals[0] = 9 // signal without a return is still copied

		c, err := NewBuilder(lut, "laser").Build(s, timestamp)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, c.Size(), test.ShouldEqual, 32)

		p, ok := c.At(0, 0)
		test.That(t, ok, test.ShouldBeFalse)
		test.That(t, p, test.ShouldResemble, r3.Vector{})
		test.That(t, c.SignalAt(0, 0), test.ShouldEqual, 9)
		_, ok = c.At(1, 1)
		test.That(t, ok, test.ShouldBeTrue)
	})

	t.Run("destination buffer is reused across builds", func(t *testing.T) {
		lut := testLut(t, 2, 4)
		builder := NewBuilder(lut, "laser")

		s1, err := scan.NewLidarScan(2, 4)
		test.That(t, err, test.ShouldBeNil)
		s1.SetReturn(0, 0, 1000, 1)
		c1, err := builder.Build(s1, timestamp)
		test.That(t, err, test.ShouldBeNil)

		s2, err := scan.NewLidarScan(2, 4)
		test.That(t, err, test.ShouldBeNil)
		c2, err := builder.Build(s2, timestamp.Add(time.Second))
		test.That(t, err, test.ShouldBeNil)

		test.That(t, c2, test.ShouldEqual, c1)
		test.That(t, c2.ValidCount(), test.ShouldEqual, 0)
	})

	t.Run("dimension mismatch is fatal", func(t *testing.T) {
		lut := testLut(t, 64, 1024)
		s, err := scan.NewLidarScan(32, 1024)
		test.That(t, err, test.ShouldBeNil)

		c, err := NewBuilder(lut, "laser").Build(s, timestamp)
		test.That(t, c, test.ShouldBeNil)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "do not match lookup table")
	})
}
