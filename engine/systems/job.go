package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/orbit/engine/core"
)

// JobTask is a unit of CPU work. OnStart runs on a worker goroutine and must
// not touch the renderer; OnComplete and OnFailure run on the goroutine that
// calls Update or Flush, which is the frame loop.
type JobTask struct {
	Name       string
	OnStart    func() (interface{}, error)
	OnComplete func(result interface{})
	OnFailure  func(err error)
}

type jobResult struct {
	task   JobTask
	result interface{}
	err    error
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	results    chan jobResult
	wg         sync.WaitGroup

	// Submitted jobs whose callbacks have not run yet. Only touched by the
	// owning goroutine.
	pending int
	closed  bool
}

var ErrNoWorkers = errors.New("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = errors.New("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = errors.New("job system is shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
		results:    make(chan jobResult, channelSize),
	}
	js.start()
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				res, err := runJob(job)
				js.results <- jobResult{task: job, result: res, err: err}
			}
		}()
	}
}

func runJob(job JobTask) (res interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %q panicked: %v", job.Name, r)
		}
	}()
	return job.OnStart()
}

// Submit queues a job. It blocks while the queue is full.
func (js *JobSystem) Submit(jt JobTask) error {
	if js.closed {
		return ErrJobSystemClosed
	}
	if jt.OnStart == nil {
		return fmt.Errorf("job %q has nothing to run", jt.Name)
	}
	js.pending++
	// Keep draining while the queue is full so workers never block on results.
	for {
		select {
		case js.jobQueue <- jt:
			return nil
		case r := <-js.results:
			js.finish(r)
		}
	}
}

/**
 * @brief Updates the job system. Should happen once an update cycle.
 * Runs the callbacks of every job that finished since the last call.
 */
func (js *JobSystem) Update() {
	for {
		select {
		case r := <-js.results:
			js.finish(r)
		default:
			return
		}
	}
}

// Flush blocks until every submitted job has finished and its callback ran.
func (js *JobSystem) Flush() {
	for js.pending > 0 {
		js.finish(<-js.results)
	}
}

func (js *JobSystem) Pending() int {
	return js.pending
}

func (js *JobSystem) finish(r jobResult) {
	js.pending--
	if r.err != nil {
		core.LogError("job %q failed: %s", r.task.Name, r.err)
		if r.task.OnFailure != nil {
			r.task.OnFailure(r.err)
		}
		return
	}
	if r.task.OnComplete != nil {
		r.task.OnComplete(r.result)
	}
}

/**
 * @brief Shuts the job system down. Outstanding jobs are completed first.
 */
func (js *JobSystem) Shutdown() error {
	if js.closed {
		return nil
	}
	js.Flush()
	js.closed = true
	close(js.jobQueue)
	js.wg.Wait()
	return nil
}
