package siteconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeQuerier struct {
	mu        sync.Mutex
	data      json.RawMessage
	getErr    error
	putErr    error
	getCalls  int
	putCalls  int
	lastWrite time.Time
}

func (q *fakeQuerier) GetConfig(ctx context.Context) (json.RawMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.getCalls++
	if q.getErr != nil {
		return nil, q.getErr
	}
	return q.data, nil
}

func (q *fakeQuerier) UpsertConfig(ctx context.Context, data json.RawMessage, updatedAt time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.putCalls++
	if q.putErr != nil {
		return q.putErr
	}
	q.data = data
	q.lastWrite = updatedAt
	return nil
}

func (q *fakeQuerier) gets() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.getCalls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func TestGetCachesWithinTTL(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{"pageTitle":"x"}`)}
	c := New(q, testLogger(), nil)

	first := c.Get(context.Background())
	second := c.Get(context.Background())

	if !bytes.Equal(first, second) {
		t.Fatal("cached read returned a different blob")
	}
	if q.gets() != 1 {
		t.Fatalf("store reads = %d, want 1", q.gets())
	}
}

func TestGetFallsBackToDefaultOnError(t *testing.T) {
	q := &fakeQuerier{getErr: errors.New("boom")}
	c := New(q, testLogger(), nil)

	got := c.Get(context.Background())
	if !bytes.Equal(got, Default()) {
		t.Fatal("expected the compiled-in default on store failure")
	}

	// Failures are not cached: the store is retried on the next read.
	c.Get(context.Background())
	if q.gets() != 2 {
		t.Fatalf("store reads = %d, want 2", q.gets())
	}
}

func TestGetFallsBackToDefaultOnEmptyResult(t *testing.T) {
	q := &fakeQuerier{}
	c := New(q, testLogger(), nil)

	if got := c.Get(context.Background()); !bytes.Equal(got, Default()) {
		t.Fatal("expected the compiled-in default on empty result")
	}
}

func TestDisconnectedStore(t *testing.T) {
	c := New(nil, testLogger(), nil)

	if got := c.Get(context.Background()); !bytes.Equal(got, Default()) {
		t.Fatal("disconnected Get should serve the default")
	}
	if err := c.Put(context.Background(), json.RawMessage(`{}`)); !errors.Is(err, ErrDisconnected) {
		t.Fatalf("disconnected Put error = %v, want ErrDisconnected", err)
	}
}

func TestPutWritesThrough(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{"v":1}`)}
	c := New(q, testLogger(), nil)

	updated := json.RawMessage(`{"v":2}`)
	if err := c.Put(context.Background(), updated); err != nil {
		t.Fatalf("put: %v", err)
	}

	got := c.Get(context.Background())
	if !bytes.Equal(got, updated) {
		t.Fatalf("get after put = %s, want %s", got, updated)
	}
	if q.gets() != 0 {
		t.Fatalf("get after put hit the store %d times, want 0", q.gets())
	}
}

func TestPutFailureLeavesCacheUntouched(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{"v":1}`)}
	c := New(q, testLogger(), nil)

	cached := c.Get(context.Background())

	q.mu.Lock()
	q.putErr = errors.New("write refused")
	q.mu.Unlock()

	if err := c.Put(context.Background(), json.RawMessage(`{"v":2}`)); err == nil {
		t.Fatal("expected put to fail")
	}
	if got := c.Get(context.Background()); !bytes.Equal(got, cached) {
		t.Fatalf("cache changed after failed put: %s", got)
	}
}

func TestConcurrentMissesRefreshOnce(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{"v":1}`)}
	c := New(q, testLogger(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Get(context.Background())
		}()
	}
	wg.Wait()

	if q.gets() != 1 {
		t.Fatalf("concurrent misses caused %d store reads, want 1", q.gets())
	}
}

func TestConcurrentPutsLastWriteWins(t *testing.T) {
	q := &fakeQuerier{}
	c := New(q, testLogger(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			blob := json.RawMessage(fmt.Sprintf(`{"v":%d}`, n))
			_ = c.Put(context.Background(), blob)
		}(i)
	}
	wg.Wait()

	// Whatever won, the cached blob must be a complete document.
	got := c.Get(context.Background())
	var parsed map[string]int
	if err := json.Unmarshal(got, &parsed); err != nil {
		t.Fatalf("cached blob is torn: %v", err)
	}
	if _, ok := parsed["v"]; !ok {
		t.Fatalf("cached blob lost its payload: %s", got)
	}
}
