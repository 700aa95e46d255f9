// Package transform resolves rigid pose transforms between frames and
// re-expresses clouds in a target frame.
package transform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.viam.com/rdk/spatialmath"

	"go.viam.com/lidarcloud/cloud"
)

// Lookuper resolves the rigid transform from srcFrame to dstFrame valid at
// the given instant. Implementations backed by a service that only tracks the
// latest transform may ignore the instant. Lookups must be bounded; any
// internal waiting is limited by the passed context.
type Lookuper interface {
	Lookup(ctx context.Context, dstFrame, srcFrame string, at time.Time) (spatialmath.Pose, error)
}

// UnavailableError reports that a transform could not be resolved. It is a
// recoverable, per-batch condition: callers skip the work that needed the
// transform and keep going.
type UnavailableError struct {
	Dst    string
	Src    string
	Reason string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("transform from %q to %q unavailable: %s", e.Src, e.Dst, e.Reason)
}

// NewUnavailableError constructs the typed lookup failure.
func NewUnavailableError(dstFrame, srcFrame, reason string) error {
	return &UnavailableError{Dst: dstFrame, Src: srcFrame, Reason: reason}
}

// IsUnavailable reports whether err is a transform lookup failure, however
// deeply wrapped.
func IsUnavailable(err error) bool {
	var unavailable *UnavailableError
	return errors.As(err, &unavailable)
}

// StaticLookuper serves fixed transforms for rigidly mounted sensors. An
// unresolvable frame pair yields an UnavailableError.
type StaticLookuper struct {
	poses map[[2]string]spatialmath.Pose
}

// NewStaticLookuper creates an empty static lookuper.
func NewStaticLookuper() *StaticLookuper {
	return &StaticLookuper{poses: map[[2]string]spatialmath.Pose{}}
}

// SetPose registers the fixed transform from srcFrame to dstFrame.
func (l *StaticLookuper) SetPose(dstFrame, srcFrame string, pose spatialmath.Pose) {
	l.poses[[2]string{dstFrame, srcFrame}] = pose
}

// Lookup returns the registered pose for the frame pair; the instant is
// ignored as static transforms do not age.
func (l *StaticLookuper) Lookup(
	ctx context.Context, dstFrame, srcFrame string, at time.Time,
) (spatialmath.Pose, error) {
	pose, ok := l.poses[[2]string{dstFrame, srcFrame}]
	if !ok {
		return nil, NewUnavailableError(dstFrame, srcFrame, "frame pair not registered")
	}
	return pose, nil
}

// Relay re-expresses a cloud in dstFrame by resolving the transform from the
// cloud's own frame at its timestamp. On lookup failure the error is returned
// untouched so the caller can detect it with IsUnavailable; the input cloud is
// never modified.
func Relay(ctx context.Context, lookuper Lookuper, c *cloud.Cloud, dstFrame string) (*cloud.Cloud, error) {
	pose, err := lookuper.Lookup(ctx, dstFrame, c.Frame, c.Timestamp)
	if err != nil {
		return nil, err
	}
	out := cloud.ApplyPose(c, pose)
	out.Frame = dstFrame
	return out, nil
}
