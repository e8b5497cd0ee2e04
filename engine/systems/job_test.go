package systems

import (
	"errors"
	"testing"
)

func TestNewJobSystemValidation(t *testing.T) {
	if _, err := NewJobSystem(0, 1); !errors.Is(err, ErrNoWorkers) {
		t.Fatalf("expected ErrNoWorkers, got %v", err)
	}
	if _, err := NewJobSystem(1, -1); !errors.Is(err, ErrNegativeChannelSize) {
		t.Fatalf("expected ErrNegativeChannelSize, got %v", err)
	}
}

func TestJobCallbacksRunOnFlush(t *testing.T) {
	js, err := NewJobSystem(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer js.Shutdown()

	const n = 50
	sum := 0
	failures := 0
	for i := 1; i <= n; i++ {
		i := i
		err := js.Submit(JobTask{
			Name: "square",
			OnStart: func() (interface{}, error) {
				if i%10 == 0 {
					return nil, errors.New("boom")
				}
				return i * i, nil
			},
			OnComplete: func(result interface{}) { sum += result.(int) },
			OnFailure:  func(error) { failures++ },
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	js.Flush()

	want := 0
	for i := 1; i <= n; i++ {
		if i%10 != 0 {
			want += i * i
		}
	}
	if sum != want {
		t.Fatalf("sum = %d, want %d", sum, want)
	}
	if failures != n/10 {
		t.Fatalf("failures = %d, want %d", failures, n/10)
	}
	if js.Pending() != 0 {
		t.Fatalf("pending = %d after flush", js.Pending())
	}
}

func TestJobPanicIsReportedAsFailure(t *testing.T) {
	js, _ := NewJobSystem(1, 0)
	defer js.Shutdown()

	var got error
	js.Submit(JobTask{
		Name:      "panics",
		OnStart:   func() (interface{}, error) { panic("bad") },
		OnFailure: func(err error) { got = err },
	})
	js.Flush()
	if got == nil {
		t.Fatal("panic was not turned into a failure")
	}
}

func TestJobSubmitAfterShutdown(t *testing.T) {
	js, _ := NewJobSystem(1, 1)
	if err := js.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := js.Shutdown(); err != nil {
		t.Fatal("second shutdown must be a no-op")
	}
	err := js.Submit(JobTask{OnStart: func() (interface{}, error) { return nil, nil }})
	if !errors.Is(err, ErrJobSystemClosed) {
		t.Fatalf("expected ErrJobSystemClosed, got %v", err)
	}
}
