// Package sse provides Server-Sent Events (SSE) infrastructure for
// tickstream: client connection management, event broadcasting to
// multiple subscribers, and the wire framing for data events.
//
// # Architecture
//
//   - Hub: Central event router managing client subscriptions
//   - Broadcaster: Sends events to all connected clients
//   - ServeSSE: Connection handler bridging the hub to an HTTP response
//
// # Usage
//
//	hub := sse.NewHub()
//	go hub.Run()
//	router.GET("/api/v1/events", func(c *gin.Context) {
//	    sse.ServeSSE(hub, c.Writer, c.Request, "feed:"+uuid.NewString())
//	})
package sse
