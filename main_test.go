package main

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestStopOnSignal(t *testing.T) {
	tests := []struct {
		name     string
		signal   bool
		wantStop bool
	}{
		{name: "signal stops the engine", signal: true, wantStop: true},
		{name: "done releases the watcher", signal: false, wantStop: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sigCh := make(chan os.Signal, 1)
			done := make(chan struct{})
			stopped := make(chan struct{}, 1)
			exited := make(chan struct{})

			go func() {
				stopOnSignal(sigCh, done, func() { stopped <- struct{}{} })
				close(exited)
			}()

			if tt.signal {
				sigCh <- syscall.SIGINT
			} else {
				close(done)
			}

			select {
			case <-exited:
			case <-time.After(time.Second):
				t.Fatal("watcher goroutine did not return")
			}
			if got := len(stopped) == 1; got != tt.wantStop {
				t.Fatalf("stop called = %v, want %v", got, tt.wantStop)
			}
		})
	}
}
