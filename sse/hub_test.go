package sse

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestClient_NewClient(t *testing.T) {
	client := NewClient("feed:abc123")

	if client.ID() != "feed:abc123" {
		t.Errorf("expected ID 'feed:abc123', got '%s'", client.ID())
	}

	if client.Events() == nil {
		t.Error("expected events channel to be set")
	}
}

func TestClient_Send_Success(t *testing.T) {
	client := NewClient("feed:abc123")

	ok := client.Send([]byte("tick"))
	if !ok {
		t.Error("expected send to succeed")
	}

	select {
	case msg := <-client.Events():
		if string(msg) != "tick" {
			t.Errorf("expected 'tick', got '%s'", string(msg))
		}
	default:
		t.Error("expected message in channel")
	}
}

func TestClient_Send_ChannelFull(t *testing.T) {
	client := NewClient("feed:abc123")

	for i := 0; i < clientBufferSize; i++ {
		client.Send([]byte("msg"))
	}

	if client.Send([]byte("overflow")) {
		t.Error("expected send to fail when channel is full")
	}
}

func TestClient_Close(t *testing.T) {
	client := NewClient("feed:abc123")
	client.Close()

	_, open := <-client.Events()
	if open {
		t.Error("expected channel to be closed")
	}
}

func TestClient_WithMetadata(t *testing.T) {
	client := NewClient("feed:abc",
		WithMetadata("remote_addr", "127.0.0.1:1234"),
	)

	if client.GetMetadata("remote_addr") != "127.0.0.1:1234" {
		t.Errorf("expected metadata '127.0.0.1:1234', got '%s'", client.GetMetadata("remote_addr"))
	}
	if len(client.Metadata()) != 1 {
		t.Errorf("expected 1 metadata entry, got %d", len(client.Metadata()))
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := NewClient("feed:abc123")

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	if hub.GetClientCount() != 1 {
		t.Errorf("expected 1 client after register, got %d", hub.GetClientCount())
	}

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	if hub.GetClientCount() != 0 {
		t.Errorf("expected 0 clients after unregister, got %d", hub.GetClientCount())
	}
}

func TestHub_GetClientIDs(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	hub.Register(NewClient("feed:abc"))
	hub.Register(NewClient("feed:xyz"))
	time.Sleep(10 * time.Millisecond)

	ids := hub.GetClientIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 client IDs, got %d", len(ids))
	}

	idMap := make(map[string]bool)
	for _, id := range ids {
		idMap[id] = true
	}
	if !idMap["feed:abc"] || !idMap["feed:xyz"] {
		t.Errorf("expected both feed:abc and feed:xyz, got %v", ids)
	}
}

func TestHub_GetClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := NewClient("feed:abc")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	if hub.GetClient("feed:abc") != client {
		t.Error("expected to get the registered client")
	}
	if hub.GetClient("feed:missing") != nil {
		t.Error("expected nil for unknown client")
	}
}

func TestHub_BroadcastToPattern_ExactMatch(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client1 := NewClient("feed:abc123")
	client2 := NewClient("feed:xyz789")

	hub.Register(client1)
	hub.Register(client2)
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastToPattern("feed:abc123", []byte("message for abc"))
	time.Sleep(10 * time.Millisecond)

	select {
	case msg := <-client1.Events():
		if string(msg) != "message for abc" {
			t.Errorf("expected 'message for abc', got '%s'", string(msg))
		}
	default:
		t.Error("client1 should have received message")
	}

	select {
	case <-client2.Events():
		t.Error("client2 should NOT have received message")
	default:
		// Expected
	}
}

func TestHub_BroadcastToPattern_Wildcard(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client1 := NewClient("feed:abc")
	client2 := NewClient("feed:xyz")
	client3 := NewClient("counter:abc")

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastToPattern("feed:*", []byte("tick"))
	time.Sleep(10 * time.Millisecond)

	for i, c := range []*Client{client1, client2} {
		select {
		case msg := <-c.Events():
			if string(msg) != "tick" {
				t.Errorf("client%d: expected 'tick', got '%s'", i+1, string(msg))
			}
		default:
			t.Errorf("client%d should have received message", i+1)
		}
	}

	select {
	case <-client3.Events():
		t.Error("counter client should NOT have received feed message")
	default:
		// Expected
	}
}

func TestHub_ConcurrentOperations(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	var wg sync.WaitGroup
	clients := make([]*Client, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			clients[idx] = NewClient(fmt.Sprintf("feed:client-%d", idx))
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()
	time.Sleep(20 * time.Millisecond)

	if hub.GetClientCount() != 10 {
		t.Errorf("expected 10 clients, got %d", hub.GetClientCount())
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.BroadcastToPattern("feed:*", []byte("concurrent tick"))
		}()
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()
	time.Sleep(20 * time.Millisecond)

	if hub.GetClientCount() != 0 {
		t.Errorf("expected 0 clients after unregister, got %d", hub.GetClientCount())
	}
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient("feed:abc")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Stop()
	time.Sleep(10 * time.Millisecond)

	if hub.GetClientCount() != 0 {
		t.Errorf("expected all clients closed after Stop, got %d", hub.GetClientCount())
	}

	// Safe to call multiple times.
	hub.Stop()
}

func TestComponent_Lifecycle(t *testing.T) {
	c := NewComponent()
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	client := NewClient("feed:abc")
	c.Hub().Register(client)
	time.Sleep(10 * time.Millisecond)

	health := c.Health(ctx)
	if health.Status != "healthy" {
		t.Errorf("expected healthy, got %s", health.Status)
	}
	if !strings.Contains(health.Message, "1 clients") {
		t.Errorf("expected client count in health message, got %q", health.Message)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if c.Hub().GetClientCount() != 0 {
		t.Error("expected clients to be closed on Stop")
	}
}

func TestWriteData(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteData(&buf, []byte("7")); err != nil {
		t.Fatalf("WriteData failed: %v", err)
	}
	if buf.String() != "data: 7\n\n" {
		t.Errorf("expected 'data: 7\\n\\n', got %q", buf.String())
	}
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvent(&buf, EventTypeTick, []byte(`{"seq":1}`)); err != nil {
		t.Fatalf("WriteEvent failed: %v", err)
	}
	want := "event: tick\ndata: {\"seq\":1}\n\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestWriteComment(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteComment(&buf, "keepalive"); err != nil {
		t.Fatalf("WriteComment failed: %v", err)
	}
	if buf.String() != ": keepalive\n\n" {
		t.Errorf("expected ': keepalive\\n\\n', got %q", buf.String())
	}
}

func TestServeSSE_Headers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(hub, w, r, "feed:client-1")
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", server.URL, http.NoBody)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return // context timeout before headers is acceptable here
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Type") != "text/event-stream" {
		t.Errorf("expected Content-Type 'text/event-stream', got %q", resp.Header.Get("Content-Type"))
	}
	if resp.Header.Get("Cache-Control") != "no-cache" {
		t.Errorf("expected Cache-Control 'no-cache', got %q", resp.Header.Get("Cache-Control"))
	}
}

func TestServeSSE_ConnectedAndBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(hub, w, r, "feed:client-1")
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", server.URL, http.NoBody)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return // timeout is ok for SSE
	}
	defer resp.Body.Close()

	buf := make([]byte, 4096)
	n, _ := resp.Body.Read(buf)
	data := string(buf[:n])

	if !strings.Contains(data, "event: connected") {
		t.Errorf("expected connected event, got %q", data)
	}
	if !strings.Contains(data, "feed:client-1") {
		t.Errorf("expected client id in connected event, got %q", data)
	}
}
