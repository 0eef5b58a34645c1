package notification

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recordingConn detects overlapping WriteMessage calls, which the websocket
// library forbids on one connection.
type recordingConn struct {
	writing  int32
	overlaps int32
	writes   int32
	failWith error
}

func (c *recordingConn) WriteMessage(messageType int, data []byte) error {
	if !atomic.CompareAndSwapInt32(&c.writing, 0, 1) {
		atomic.AddInt32(&c.overlaps, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.writes, 1)
	atomic.StoreInt32(&c.writing, 0)
	return c.failWith
}

func TestPushSerializesWritesPerConnection(t *testing.T) {
	hub := NewHub()
	conn := &recordingConn{}
	hub.Register(7, conn)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Push(7, map[string]string{"title": "Step approved"})
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&conn.overlaps); n != 0 {
		t.Fatalf("observed %d overlapping writes to one connection", n)
	}
	if n := atomic.LoadInt32(&conn.writes); n != 16 {
		t.Fatalf("delivered %d messages, want 16", n)
	}
}

func TestPushDropsDeadConnections(t *testing.T) {
	hub := NewHub()
	dead := &recordingConn{failWith: errors.New("broken pipe")}
	live := &recordingConn{}
	hub.Register(7, dead)
	hub.Register(7, live)

	hub.Push(7, "first")
	hub.Push(7, "second")

	if n := atomic.LoadInt32(&dead.writes); n != 1 {
		t.Fatalf("dead connection written %d times, want 1", n)
	}
	if n := atomic.LoadInt32(&live.writes); n != 2 {
		t.Fatalf("live connection written %d times, want 2", n)
	}
}
