package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/renderer/metadata"
)

type JobSystem struct {
	numWorkers int
	jobQueue   chan metadata.JobTask
	wg         sync.WaitGroup
	mutex      sync.RWMutex
	closed     bool
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

	jq := make(chan metadata.JobTask, channelSize)
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   jq,
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
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job metadata.JobTask) {
	if err := runRecovered(job.Run); err != nil {
		core.LogDebug("job %s failed: %s", job.Name, err)
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
	} else if job.OnComplete != nil {
		job.OnComplete()
	}

	if job.OnCompletionCallback != nil {
		job.OnCompletionCallback()
	}
}

// runRecovered turns a panic inside fn into an error so that one bad job
// does not take the worker down with it.
func runRecovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: job panicked: %v", core.ErrUnknown, r)
		}
	}()
	return fn()
}

func (js *JobSystem) Workers() int {
	return js.numWorkers
}

/**
 * @brief Shuts the job system down. Queued jobs still run; Shutdown returns
 * once all of them are done. Safe to call more than once.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if !js.closed {
		js.closed = true
		close(js.jobQueue)
	}
	js.mutex.Unlock()
	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full. Returns ErrJobSystemClosed after Shutdown.
 */
func (js *JobSystem) Submit(jt metadata.JobTask) error {
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.jobQueue <- jt
	return nil
}
