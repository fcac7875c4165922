// Package stream implements the tickstream domain: the fixed counter
// stream and the hub-backed live tick feed.
package stream

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tickstream/errors"
	"github.com/kbukum/tickstream/logger"
	"github.com/kbukum/tickstream/sse"
	"github.com/kbukum/tickstream/telemetry"
)

// CounterEndpoint is the path the counter stream is mounted on.
const CounterEndpoint = "/api/v1/stream"

// CounterHandler returns the GET /api/v1/stream handler. It emits
// cfg.Count frames "data: <n>\n\n" for n = 0..Count-1, the first one
// immediately and the rest spaced by cfg.Interval, then closes the
// response. Emission stops as soon as the client disconnects.
func CounterHandler(cfg Config, metrics *telemetry.StreamMetrics) gin.HandlerFunc {
	log := logger.WithComponent("counter-stream")

	return func(c *gin.Context) {
		w := c.Writer

		flusher, ok := c.Writer.(http.Flusher)
		if !ok {
			log.Error("Streaming not supported", map[string]interface{}{
				"remote_addr": c.Request.RemoteAddr,
			})
			appErr := errors.StreamUnsupported()
			c.JSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		// The whole stream outlives the server's write timeout.
		rc := http.NewResponseController(w)
		if err := rc.SetWriteDeadline(time.Time{}); err != nil {
			log.Warn("Could not disable write deadline", map[string]interface{}{
				"error": err.Error(),
			})
		}

		sse.SetStreamHeaders(w.Header())
		w.WriteHeader(http.StatusOK)

		ctx, span := telemetry.Tracer().Start(c.Request.Context(), "stream.counter")
		defer span.End()

		start := time.Now()
		metrics.RecordStreamStart(ctx, CounterEndpoint)

		log.Debug("Counter stream opened", map[string]interface{}{
			"remote_addr": c.Request.RemoteAddr,
			"count":       cfg.Count,
			"interval":    cfg.Interval.String(),
		})

		frames := int64(0)
		status := "completed"

		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

	emit:
		for n := 0; n < cfg.Count; n++ {
			if n > 0 {
				select {
				case <-ctx.Done():
					status = "disconnected"
					break emit
				case <-ticker.C:
				}
			}

			if err := sse.WriteData(w, []byte(strconv.Itoa(n))); err != nil {
				status = "write_error"
				break emit
			}
			flusher.Flush()
			frames++
		}

		metrics.RecordStreamEnd(ctx, CounterEndpoint, status, frames, time.Since(start))

		log.Debug("Counter stream closed", map[string]interface{}{
			"remote_addr": c.Request.RemoteAddr,
			"frames":      frames,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}
