package keepalive

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type countingPinger struct {
	calls atomic.Int64
	err   error
}

func (p *countingPinger) Ping(ctx context.Context) error {
	p.calls.Add(1)
	return p.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func TestRunProbesUntilCancelled(t *testing.T) {
	pinger := &countingPinger{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Run(ctx, pinger, 5*time.Millisecond, testLogger(), nil)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for pinger.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d probes before deadline", pinger.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}

func TestRunSurvivesProbeFailures(t *testing.T) {
	pinger := &countingPinger{err: errors.New("connection refused")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		Run(ctx, pinger, 5*time.Millisecond, testLogger(), nil)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for pinger.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("loop stopped probing after a failure")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestRunToleratesNilStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Run(ctx, nil, time.Millisecond, testLogger(), nil)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}
