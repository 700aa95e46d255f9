package geometry

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func testInfo(h, w int) SensorInfo {
	return SensorInfo{
		PixelsPerColumn:    h,
		ColumnsPerFrame:    w,
		BeamAltitudeAngles: make([]float64, h),
		BeamAzimuthAngles:  make([]float64, h),
	}
}

func TestMakeXYZLut(t *testing.T) {
	t.Run("dimensions", func(t *testing.T) {
		lut, err := MakeXYZLut(testInfo(64, 1024))
		test.That(t, err, test.ShouldBeNil)
		h, w := lut.Dims()
		test.That(t, h, test.ShouldEqual, 64)
		test.That(t, w, test.ShouldEqual, 1024)
	})

	t.Run("directions are unit length", func(t *testing.T) {
		info := testInfo(4, 16)
		info.BeamAltitudeAngles = []float64{-15, -5, 5, 15}
		info.BeamAzimuthAngles = []float64{1, -1, 1, -1}
		lut, err := MakeXYZLut(info)
		test.That(t, err, test.ShouldBeNil)
		for u := 0; u < 4; u++ {
			for v := 0; v < 16; v++ {
				test.That(t, lut.Direction(u, v).Norm(), test.ShouldAlmostEqual, 1, 1e-9)
			}
		}
	})

	t.Run("first column points along x", func(t *testing.T) {
		lut, err := MakeXYZLut(testInfo(2, 8))
		test.That(t, err, test.ShouldBeNil)
		dir := lut.Direction(0, 0)
		test.That(t, dir.X, test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, dir.Y, test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, dir.Z, test.ShouldAlmostEqual, 0, 1e-9)
	})

	t.Run("columns sweep a full rotation", func(t *testing.T) {
		lut, err := MakeXYZLut(testInfo(1, 4))
		test.That(t, err, test.ShouldBeNil)
		quarter := lut.Direction(0, 1)
		test.That(t, quarter.X, test.ShouldAlmostEqual, math.Cos(math.Pi/2), 1e-9)
		test.That(t, quarter.Y, test.ShouldAlmostEqual, math.Sin(math.Pi/2), 1e-9)
	})

	t.Run("beam origin offset", func(t *testing.T) {
		info := testInfo(1, 4)
		info.BeamOriginM = 0.015806
		lut, err := MakeXYZLut(info)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, lut.Offset(0, 0).X, test.ShouldAlmostEqual, 0.015806, 1e-9)
		test.That(t, lut.Offset(0, 0).Y, test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, lut.Offset(0, 1).Y, test.ShouldAlmostEqual, 0.015806, 1e-9)
	})

	t.Run("angle count mismatch", func(t *testing.T) {
		info := testInfo(64, 1024)
		info.BeamAltitudeAngles = make([]float64, 32)
		_, err := MakeXYZLut(info)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "altitude")
	})

	t.Run("invalid dimensions", func(t *testing.T) {
		_, err := MakeXYZLut(SensorInfo{})
		test.That(t, err, test.ShouldNotBeNil)
	})
}
