// Package testhelper provides fixtures and fakes for testing the cloud
// publication pipeline.
package testhelper

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/rdk/spatialmath"

	"go.viam.com/lidarcloud/cloud"
	"go.viam.com/lidarcloud/geometry"
	"go.viam.com/lidarcloud/scan"
)

// CreateTempFolderArchitecture creates a new random temporary directory with
// the points subdirectories the PCD sink writes into.
func CreateTempFolderArchitecture() (string, error) {
	name, err := os.MkdirTemp("", "*")
	if err != nil {
		return "", err
	}

	if err := os.Mkdir(filepath.Join(name, "points"), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.Mkdir(filepath.Join(name, "points_base_link"), os.ModePerm); err != nil {
		return "", err
	}

	return name, nil
}

// FlatLut builds a lookup table with all beam angles zeroed, so column zero
// projects straight along +x.
func FlatLut(height, width int) (geometry.XYZLut, error) {
	return geometry.MakeXYZLut(geometry.SensorInfo{
		PixelsPerColumn:    height,
		ColumnsPerFrame:    width,
		BeamAltitudeAngles: make([]float64, height),
		BeamAzimuthAngles:  make([]float64, height),
	})
}

// Accumulator is a scripted stand-in for the packet batching engine. Tests
// set Ready and the batch fields directly between ticks.
type Accumulator struct {
	Ready   bool
	Scan    *scan.LidarScan
	Time    time.Time
	Packets int
}

// IsBatchReady reports the scripted readiness flag.
func (a *Accumulator) IsBatchReady() bool { return a.Ready }

// LidarScan returns the scripted scan buffer.
func (a *Accumulator) LidarScan() *scan.LidarScan { return a.Scan }

// Timestamp returns the scripted batch timestamp.
func (a *Accumulator) Timestamp() time.Time { return a.Time }

// PacketsAccumulated returns the scripted packet count.
func (a *Accumulator) PacketsAccumulated() int { return a.Packets }

// Lookuper is an injectable transform lookuper.
type Lookuper struct {
	LookupFunc func(ctx context.Context, dstFrame, srcFrame string, at time.Time) (spatialmath.Pose, error)
}

// Lookup calls the injected function.
func (l *Lookuper) Lookup(
	ctx context.Context, dstFrame, srcFrame string, at time.Time,
) (spatialmath.Pose, error) {
	return l.LookupFunc(ctx, dstFrame, srcFrame, at)
}

// CapturePublisher records every cloud it is handed.
type CapturePublisher struct {
	Published []*cloud.Cloud
}

// Publish appends the cloud to the capture log.
func (p *CapturePublisher) Publish(ctx context.Context, c *cloud.Cloud) error {
	p.Published = append(p.Published, c)
	return nil
}

// FailingPublisher rejects every publish.
type FailingPublisher struct {
	Attempts int
}

// Publish fails unconditionally.
func (p *FailingPublisher) Publish(ctx context.Context, c *cloud.Cloud) error {
	p.Attempts++
	return errors.New("publisher offline")
}
