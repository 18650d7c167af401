package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/logger"
)

type countingLoader struct {
	calls  atomic.Int32
	err    error
	called chan struct{}
}

func (l *countingLoader) LoadBookmarks(context.Context) error {
	l.calls.Add(1)
	if l.called != nil {
		select {
		case l.called <- struct{}{}:
		default:
		}
	}
	return l.err
}

func TestReloaderStartLoadsImmediately(t *testing.T) {
	loader := &countingLoader{}
	r := NewReloader(loader, logger.NewNop(), time.Hour, make(chan struct{}, 1))

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	if got := loader.calls.Load(); got != 1 {
		t.Errorf("LoadBookmarks called %d times on start, want 1", got)
	}
}

func TestReloaderStartFailure(t *testing.T) {
	loader := &countingLoader{err: errors.New("store down")}
	r := NewReloader(loader, logger.NewNop(), time.Hour, make(chan struct{}, 1))

	if err := r.Start(context.Background()); err == nil {
		t.Fatal("Start() should fail when the initial load fails")
	}
}

func TestReloaderManualTrigger(t *testing.T) {
	trigger := make(chan struct{}, 1)
	loader := &countingLoader{called: make(chan struct{}, 1)}
	r := NewReloader(loader, logger.NewNop(), time.Hour, trigger)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()
	<-loader.called // initial load

	if !Trigger(trigger) {
		t.Fatal("Trigger() on an idle reloader should succeed")
	}

	select {
	case <-loader.called:
	case <-time.After(2 * time.Second):
		t.Fatal("manual trigger did not reload")
	}
}

func TestReloaderTicks(t *testing.T) {
	loader := &countingLoader{called: make(chan struct{}, 1)}
	r := NewReloader(loader, logger.NewNop(), 10*time.Millisecond, make(chan struct{}, 1))

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()
	<-loader.called // initial load

	select {
	case <-loader.called:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not reload")
	}
}

func TestTriggerPending(t *testing.T) {
	trigger := make(chan struct{}, 1)

	if !Trigger(trigger) {
		t.Fatal("first Trigger() should succeed")
	}
	if Trigger(trigger) {
		t.Error("second Trigger() should report a pending request")
	}

	<-trigger
	if !Trigger(trigger) {
		t.Error("Trigger() should succeed once the request was consumed")
	}
}
