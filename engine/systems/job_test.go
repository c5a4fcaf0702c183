package systems

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/spaghettifunk/citymesh/engine/metadata"
)

func TestNewJobSystemValidation(t *testing.T) {
	if _, err := NewJobSystem(0, 1); !errors.Is(err, ErrNoWorkers) {
		t.Errorf("NewJobSystem(0, 1) error = %v, want ErrNoWorkers", err)
	}
	if _, err := NewJobSystem(1, -1); !errors.Is(err, ErrNegativeChannelSize) {
		t.Errorf("NewJobSystem(1, -1) error = %v, want ErrNegativeChannelSize", err)
	}
}

func TestJobSystemSubmitAndWait(t *testing.T) {
	js, err := NewJobSystem(4, 8)
	if err != nil {
		t.Fatalf("NewJobSystem() error: %v", err)
	}
	defer js.Shutdown()

	results := make([]int, 50)
	var failures, completions int32
	jobs := make([]metadata.JobTask, len(results))
	for i := range jobs {
		idx := i
		jobs[i] = metadata.JobTask{
			JobType:     metadata.JOB_TYPE_GENERAL,
			InputParams: idx,
			OnStart: func(params interface{}) (interface{}, error) {
				n := params.(int)
				if n%10 == 0 {
					return nil, errors.New("multiple of ten")
				}
				return n * n, nil
			},
			OnComplete: func(result interface{}) {
				results[idx] = result.(int)
			},
			OnFailure: func(params interface{}, err error) {
				atomic.AddInt32(&failures, 1)
			},
			OnCompletionCallback: func() {
				atomic.AddInt32(&completions, 1)
			},
		}
	}
	js.SubmitAndWait(jobs)

	if failures != 5 {
		t.Errorf("failures = %d, want 5", failures)
	}
	if completions != 50 {
		t.Errorf("completions = %d, want 50", completions)
	}
	for i, got := range results {
		want := i * i
		if i%10 == 0 {
			want = 0
		}
		if got != want {
			t.Errorf("results[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestJobSystemShutdownTwice(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	if err != nil {
		t.Fatalf("NewJobSystem() error: %v", err)
	}
	if err := js.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if err := js.Shutdown(); err != nil {
		t.Fatalf("second Shutdown() error: %v", err)
	}
}
