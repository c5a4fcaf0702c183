package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

type JobSystem struct {
	numWorkers int
	jobQueue   chan metadata.JobTask
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

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
	// Call the completion callback whatever happens
	if job.OnCompletionCallback != nil {
		defer job.OnCompletionCallback()
	}

	result, err := job.OnStart(job.InputParams)
	if err != nil {
		core.LogDebug("job of type %d failed: %s", job.JobType, err.Error())
		if job.OnFailure != nil {
			job.OnFailure(job.InputParams, err)
		}
		return
	}
	if job.OnComplete != nil {
		job.OnComplete(result)
	}
}

// Workers returns the size of the pool.
func (js *JobSystem) Workers() int {
	return js.numWorkers
}

/**
 * @brief Shuts the job system down. Queued jobs are drained first.
 */
func (js *JobSystem) Shutdown() error {
	js.closeOnce.Do(func() {
		close(js.jobQueue)
	})
	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution.
 * @param jt The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt metadata.JobTask) {
	js.jobQueue <- jt
}

/**
 * @brief Submits every job and blocks until all of them finished,
 * successfully or not.
 */
func (js *JobSystem) SubmitAndWait(jobs []metadata.JobTask) {
	var batch sync.WaitGroup
	batch.Add(len(jobs))
	for _, jt := range jobs {
		done := jt.OnCompletionCallback
		jt.OnCompletionCallback = func() {
			if done != nil {
				done()
			}
			batch.Done()
		}
		js.Submit(jt)
	}
	batch.Wait()
}
