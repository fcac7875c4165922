package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/tickstream/component"
	"github.com/kbukum/tickstream/logger"
	"github.com/kbukum/tickstream/sse"
	"github.com/kbukum/tickstream/telemetry"
)

// EventsEndpoint is the path the live feed is mounted on.
const EventsEndpoint = "/api/v1/events"

// feedPattern matches every client subscribed to the live feed.
const feedPattern = "feed:*"

// Tick is the payload published to feed subscribers.
type Tick struct {
	Seq       int64     `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed periodically broadcasts ticks to all feed clients on the hub.
// It implements component.Component.
type Feed struct {
	bus      sse.Broadcaster
	interval time.Duration
	metrics  *telemetry.StreamMetrics
	log      *logger.Logger

	seq  atomic.Int64
	done chan struct{}
	wg   sync.WaitGroup
	mu   sync.Mutex
}

var _ component.Component = (*Feed)(nil)

// NewFeed creates a feed that publishes a tick to bus every interval.
func NewFeed(bus sse.Broadcaster, interval time.Duration, metrics *telemetry.StreamMetrics) *Feed {
	return &Feed{
		bus:      bus,
		interval: interval,
		metrics:  metrics,
		log:      logger.WithComponent("tick-feed"),
		done:     make(chan struct{}),
	}
}

// Name returns the component name.
func (f *Feed) Name() string { return "tick-feed" }

// Start launches the publishing loop in a background goroutine.
func (f *Feed) Start(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.run()
	}()
	return nil
}

// Stop terminates the publishing loop and waits for it to exit.
func (f *Feed) Stop(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	select {
	case <-f.done:
		// already stopped
	default:
		close(f.done)
	}
	f.wg.Wait()
	return nil
}

// Health reports the feed status with the current sequence number.
func (f *Feed) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    f.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("seq=%d", f.seq.Load()),
	}
}

// Seq returns the last published sequence number.
func (f *Feed) Seq() int64 {
	return f.seq.Load()
}

func (f *Feed) run() {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	ctx := context.Background()

	for {
		select {
		case <-f.done:
			return
		case ts := <-ticker.C:
			seq := f.seq.Add(1)
			data, err := json.Marshal(Tick{Seq: seq, Timestamp: ts.UTC()})
			if err != nil {
				f.log.Error("Tick marshal failed", logger.ErrorFields("publish", err))
				continue
			}
			f.bus.BroadcastToPattern(feedPattern, data)
			f.metrics.RecordFrames(ctx, EventsEndpoint, 1)
		}
	}
}

// EventsHandler returns the GET /api/v1/events handler. Each connection
// subscribes to the live feed as a fresh hub client.
func EventsHandler(hub *sse.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := "feed:" + uuid.NewString()
		sse.ServeSSE(hub, c.Writer, c.Request, clientID,
			sse.WithMetadata("remote_addr", c.Request.RemoteAddr),
		)
	}
}
