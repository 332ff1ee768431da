package cli

import (
	"context"
	"testing"
	"time"
)

func TestSetupSignalHandler(t *testing.T) {
	ctx, stop := SetupSignalHandler()
	defer stop()

	// Context should not be cancelled initially
	select {
	case <-ctx.Done():
		t.Error("Context should not be cancelled initially")
	case <-time.After(10 * time.Millisecond):
		// Expected
	}
}

func TestSetupSignalHandlerStop(t *testing.T) {
	ctx, stop := SetupSignalHandler()
	stop()

	select {
	case <-ctx.Done():
		// Expected
	case <-time.After(time.Second):
		t.Error("Context should be cancelled after stop()")
	}
}

func TestSignalContextParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SignalContext(parent)
	defer stop()

	serverDone := make(chan struct{})

	// Simulate server goroutine
	go func() {
		<-ctx.Done()
		close(serverDone)
	}()

	cancel()

	select {
	case <-serverDone:
		// Expected
	case <-time.After(time.Second):
		t.Error("Server did not observe parent cancellation")
	}
}
