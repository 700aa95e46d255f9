// Package geometry builds the per-cell lookup table used to project raw range
// returns into Cartesian space.
package geometry

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// SensorInfo holds the immutable calibration metadata describing the sensor's
// beam geometry. Angles are in degrees as reported by the sensor metadata.
type SensorInfo struct {
	PixelsPerColumn    int       `json:"pixels_per_column"`
	ColumnsPerFrame    int       `json:"columns_per_frame"`
	BeamAltitudeAngles []float64 `json:"beam_altitude_angles"`
	BeamAzimuthAngles  []float64 `json:"beam_azimuth_angles"`
	// BeamOriginM is the distance from the lidar origin to the beam origin,
	// in meters.
	BeamOriginM float64 `json:"lidar_origin_to_beam_origin_m"`
}

// XYZLut maps each (row, column) cell to a unit direction vector and a fixed
// Cartesian offset. Multiplying the direction by a measured range and adding
// the offset yields the point in the sensor frame. The table is immutable
// once built.
type XYZLut struct {
	height     int
	width      int
	directions []r3.Vector
	offsets    []r3.Vector
}

// MakeXYZLut precomputes the direction and offset tables from sensor metadata.
// The per-beam angle slices must match the number of rows.
func MakeXYZLut(info SensorInfo) (XYZLut, error) {
	h, w := info.PixelsPerColumn, info.ColumnsPerFrame
	if h <= 0 || w <= 0 {
		return XYZLut{}, errors.Errorf("invalid sensor dimensions %dx%d", h, w)
	}
	if len(info.BeamAltitudeAngles) != h {
		return XYZLut{}, errors.Errorf(
			"expected %d beam altitude angles, got %d", h, len(info.BeamAltitudeAngles))
	}
	if len(info.BeamAzimuthAngles) != h {
		return XYZLut{}, errors.Errorf(
			"expected %d beam azimuth angles, got %d", h, len(info.BeamAzimuthAngles))
	}

	lut := XYZLut{
		height:     h,
		width:      w,
		directions: make([]r3.Vector, h*w),
		offsets:    make([]r3.Vector, h*w),
	}

	for v := 0; v < w; v++ {
		// Encoder azimuth sweeps a full rotation across the columns.
		encoder := 2 * math.Pi * float64(v) / float64(w)
		for u := 0; u < h; u++ {
			azimuth := encoder + info.BeamAzimuthAngles[u]*math.Pi/180
			altitude := info.BeamAltitudeAngles[u] * math.Pi / 180
			dir := r3.Vector{
				X: math.Cos(altitude) * math.Cos(azimuth),
				Y: math.Cos(altitude) * math.Sin(azimuth),
				Z: math.Sin(altitude),
			}
			i := u*w + v
			lut.directions[i] = dir
			// The beams emanate from a ring offset from the sensor origin.
			lut.offsets[i] = r3.Vector{
				X: info.BeamOriginM * math.Cos(encoder),
				Y: info.BeamOriginM * math.Sin(encoder),
			}
		}
	}
	return lut, nil
}

// Dims returns the (height, width) the table was built for.
func (lut XYZLut) Dims() (int, int) {
	return lut.height, lut.width
}

// Direction returns the unit direction vector for cell (u, v).
func (lut XYZLut) Direction(u, v int) r3.Vector {
	return lut.directions[u*lut.width+v]
}

// Offset returns the Cartesian offset for cell (u, v).
func (lut XYZLut) Offset(u, v int) r3.Vector {
	return lut.offsets[u*lut.width+v]
}
