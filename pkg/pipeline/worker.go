package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/mesh"
)

// DefaultTimeout is the hard limit for a single step.
const DefaultTimeout = 60 * time.Second

var (
	// ErrTimeout is returned when a step exceeds the worker timeout.
	ErrTimeout = errors.New("pipeline: step timed out")
	// ErrSuperseded is returned when a newer step started before this one finished.
	ErrSuperseded = errors.New("pipeline: step superseded by newer request")
)

// Step is a unit of work run by a Worker.
type Step func() (*mesh.Mesh, error)

// Worker runs steps on a goroutine with a timeout. It is safe for
// concurrent use; only the most recently started step may deliver a result.
type Worker struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
}

// NewWorker returns a worker with the given timeout, or DefaultTimeout if
// timeout is not positive.
func NewWorker(timeout time.Duration) *Worker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Worker{timeout: timeout}
}

// stepResult is the internal type used to pass step results through channels.
type stepResult struct {
	mesh *mesh.Mesh
	err  error
}

// Run executes step. A panic inside the step is returned as a *PanicError.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func (w *Worker) Run(name string, step Step) (*mesh.Mesh, error) {
	w.mu.Lock()
	w.generation++
	gen := w.generation
	w.mu.Unlock()

	ch := make(chan stepResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- stepResult{err: &PanicError{Step: name, Value: r}}
			}
		}()
		m, err := step()
		ch <- stepResult{mesh: m, err: err}
	}()

	m, err := w.waitWithTimeout(ch, gen)
	if err != nil {
		logrus.WithError(err).WithField("step", name).Error("step failed")
	}
	return m, err
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the step exceeds the worker timeout. It uses the generation counter to
// discard stale results from previous steps.
func (w *Worker) waitWithTimeout(ch <-chan stepResult, gen uint64) (*mesh.Mesh, error) {
	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		w.mu.Lock()
		current := w.generation
		w.mu.Unlock()

		if gen != current {
			return nil, ErrSuperseded
		}
		return res.mesh, res.err

	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrTimeout, w.timeout)
	}
}
