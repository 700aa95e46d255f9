package pipeline

import (
	"context"
	"sync"

	"github.com/edaniels/golog"
	"go.uber.org/atomic"
	goutils "go.viam.com/utils"

	"go.viam.com/lidarcloud/cloud"
)

// QueuedPublisher decouples publish calls from delivery through a bounded
// queue, the delivery policy of the outgoing channels. A full queue drops the
// newest cloud rather than blocking the pipeline tick.
type QueuedPublisher struct {
	logger  golog.Logger
	inner   Publisher
	queue   chan *cloud.Cloud
	dropped atomic.Int64

	cancel                  context.CancelFunc
	activeBackgroundWorkers sync.WaitGroup
}

// NewQueuedPublisher wraps a publisher with a delivery queue of the given
// depth and starts its delivery worker. The depth conventionally comes from
// the config's queue_size attribute.
func NewQueuedPublisher(inner Publisher, depth int, logger golog.Logger) *QueuedPublisher {
	cancelCtx, cancel := context.WithCancel(context.Background())
	q := &QueuedPublisher{
		logger: logger,
		inner:  inner,
		queue:  make(chan *cloud.Cloud, depth),
		cancel: cancel,
	}
	q.activeBackgroundWorkers.Add(1)
	goutils.PanicCapturingGo(func() {
		defer q.activeBackgroundWorkers.Done()
		for {
			select {
			case <-cancelCtx.Done():
				return
			case c := <-q.queue:
				if err := q.inner.Publish(cancelCtx, c); err != nil {
					q.logger.Warnw("queued publish error", "frame", c.Frame, "error", err)
				}
			}
		}
	})
	return q
}

// Publish enqueues the cloud for delivery, dropping it if the queue is full.
// The queue outlives the invocation that built the cloud while the builder
// reuses its destination buffer, so a deep copy is enqueued.
func (q *QueuedPublisher) Publish(ctx context.Context, c *cloud.Cloud) error {
	select {
	case q.queue <- c.Clone():
	default:
		q.dropped.Inc()
	}
	return nil
}

// Dropped returns how many clouds were discarded because the queue was full.
func (q *QueuedPublisher) Dropped() int64 {
	return q.dropped.Load()
}

// Close stops the delivery worker. Clouds still queued are discarded.
func (q *QueuedPublisher) Close() {
	q.cancel()
	q.activeBackgroundWorkers.Wait()
}
