package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type wireMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type fakeConn struct {
	id     string
	mu     sync.Mutex
	sent   [][]byte
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(b []byte) error {
	cp := make([]byte, len(b))
	copy(cp, b)
	f.mu.Lock()
	f.sent = append(f.sent, cp)
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) messages(t *testing.T) []wireMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]wireMessage, 0, len(f.sent))
	for _, b := range f.sent {
		var msg wireMessage
		if err := json.Unmarshal(b, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		out = append(out, msg)
	}
	return out
}

// find returns the payloads of every message of the given type
func (f *fakeConn) find(t *testing.T, msgType string) []json.RawMessage {
	t.Helper()
	var out []json.RawMessage
	for _, msg := range f.messages(t) {
		if msg.Type == msgType {
			out = append(out, msg.Payload)
		}
	}
	return out
}

func (f *fakeConn) received(t *testing.T, msgType string) bool {
	return len(f.find(t, msgType)) > 0
}

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

func (f *fakeTicker) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// fire delivers one tick and returns once the receiver has taken it
func (f *fakeTicker) fire(t *testing.T) {
	t.Helper()
	select {
	case f.ch <- time.Now():
	case <-time.After(time.Second):
		t.Fatal("tick was not consumed")
	}
}

type fakeTickerFactory struct {
	mu      sync.Mutex
	tickers []*fakeTicker
	periods []time.Duration
}

func (f *fakeTickerFactory) New(period time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticker := &fakeTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, ticker)
	f.periods = append(f.periods, period)
	return ticker
}

func (f *fakeTickerFactory) created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func (f *fakeTickerFactory) last() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tickers) == 0 {
		return nil
	}
	return f.tickers[len(f.tickers)-1]
}

func (f *fakeTickerFactory) running() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}
