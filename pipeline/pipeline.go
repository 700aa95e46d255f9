// Package pipeline orchestrates the per-batch flow from accumulated scan to
// published clouds: build, optional crop, sensor-frame publish, transform,
// target-frame publish.
package pipeline

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"go.uber.org/atomic"

	"go.viam.com/lidarcloud/cloud"
	slConfig "go.viam.com/lidarcloud/config"
	"go.viam.com/lidarcloud/geometry"
	"go.viam.com/lidarcloud/scan"
	"go.viam.com/lidarcloud/transform"
	"go.viam.com/lidarcloud/utils"
)

// Publisher delivers a finished cloud to a downstream consumer. Delivery is
// best effort at this seam; errors are logged and counted, never fatal.
type Publisher interface {
	Publish(ctx context.Context, c *cloud.Cloud) error
}

// Processor runs the publication pipeline for one sensor instance. It is
// driven by repeated Process calls from a single goroutine; only the
// lifecycle state and counters may be touched from elsewhere.
type Processor struct {
	logger      golog.Logger
	accumulator scan.RotationAccumulator
	builder     *cloud.Builder
	lookuper    transform.Lookuper
	targetFrame string

	cropEnabled bool
	cropMin     r3.Vector
	cropMax     r3.Vector
	cropExclude bool

	pubPoints Publisher
	pubTarget Publisher

	active            atomic.Bool
	droppedPublishes  atomic.Int64
	transformFailures atomic.Int64
	publishFailures   atomic.Int64
}

// New wires a processor from its collaborators. The processor starts
// inactive; no messages leave until Activate is called.
func New(
	cfg *slConfig.AttrConfig,
	lut geometry.XYZLut,
	accumulator scan.RotationAccumulator,
	lookuper transform.Lookuper,
	pubPoints, pubTarget Publisher,
	logger golog.Logger,
) (*Processor, error) {
	h, w := lut.Dims()
	if h != cfg.Height || w != cfg.Width {
		return nil, slConfig.NewError("lookup table dimensions do not match configured sensor dimensions")
	}

	p := &Processor{
		logger:      logger,
		accumulator: accumulator,
		builder:     cloud.NewBuilder(lut, cfg.SensorFrame),
		lookuper:    lookuper,
		targetFrame: cfg.TargetFrame,
		pubPoints:   pubPoints,
		pubTarget:   pubTarget,
	}
	if box := cfg.CropBox; box != nil {
		p.cropEnabled = true
		p.cropMin = r3.Vector{X: box.MinX, Y: box.MinY, Z: box.MinZ}
		p.cropMax = r3.Vector{X: box.MaxX, Y: box.MaxY, Z: box.MaxZ}
		p.cropExclude = box.Exclude
	}
	if len(cfg.ConfigParams) > 0 {
		logger.Debugf("pipeline config params: %s", utils.DictToString(cfg.ConfigParams))
	}
	return p, nil
}

// Activate permits publication on both output channels. The two channels
// always move together.
func (p *Processor) Activate() {
	p.active.Store(true)
}

// Deactivate stops publication on both output channels.
func (p *Processor) Deactivate() {
	p.active.Store(false)
}

// DroppedPublishes returns how many publishes were dropped while inactive.
func (p *Processor) DroppedPublishes() int64 {
	return p.droppedPublishes.Load()
}

// TransformFailures returns how many batches skipped the target-frame publish
// because the transform could not be resolved.
func (p *Processor) TransformFailures() int64 {
	return p.transformFailures.Load()
}

// PublishFailures returns how many publishes were rejected by a downstream
// publisher.
func (p *Processor) PublishFailures() int64 {
	return p.publishFailures.Load()
}

// Process runs one tick of the pipeline. When no complete rotation is
// available it is a no-op. Otherwise the batch is projected, optionally
// cropped, published in the sensor frame, and, if the transform to the target
// frame resolves, published there as well. A transform gap only skips that
// one target-frame publish. The only fatal condition is a scan whose
// dimensions disagree with the lookup table.
func (p *Processor) Process(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "lidarcloud::pipeline::Process")
	defer span.End()

	if !p.accumulator.IsBatchReady() {
		return nil
	}

	c, err := p.builder.Build(p.accumulator.LidarScan(), p.accumulator.Timestamp())
	if err != nil {
		return errors.Wrap(err, "building cloud from accumulated scan")
	}

	if p.cropEnabled {
		c = cloud.CropBox(c, p.cropMin, p.cropMax, p.cropExclude)
	}

	p.publish(ctx, p.pubPoints, c)

	transformed, err := transform.Relay(ctx, p.lookuper, c, p.targetFrame)
	if err != nil {
		// every lookup failure is recoverable: skip this batch's
		// target-frame publish and keep going
		p.transformFailures.Inc()
		p.logger.Errorw("transform error", "error", err)
		return nil
	}
	p.publish(ctx, p.pubTarget, transformed)

	p.logger.Debugf("cloud published with %d packets", p.accumulator.PacketsAccumulated())
	return nil
}

func (p *Processor) publish(ctx context.Context, pub Publisher, c *cloud.Cloud) {
	if !p.active.Load() {
		p.droppedPublishes.Inc()
		return
	}
	if err := pub.Publish(ctx, c); err != nil {
		p.publishFailures.Inc()
		p.logger.Warnw("publish error", "frame", c.Frame, "error", err)
	}
}
