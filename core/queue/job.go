package queue

import (
	"github.com/Gamewolf3000/steelgear/core/barrier"
	"github.com/Gamewolf3000/steelgear/core/category"
	"github.com/Gamewolf3000/steelgear/driver"
)

// SetupFunc declares the resource states a job needs for this frame.
// It is invoked with the Context building the queue, so it can call
// RequestTransientResource/RequestCategoryResource on it.
type SetupFunc func(*Context) error

// PrepareFunc does CPU-only work before any commands are recorded. It
// is handed the category registry (to resolve category resources by
// identifier) and the Context, which by this phase carries the
// planned barriers for every job.
type PrepareFunc func(registry *category.Registry, prep *Context) error

// ResourceInfoFunc declares a job's transient view descriptors and
// local resources against the Context, after preparation but before
// command recording.
type ResourceInfoFunc func(setup *Context) error

// ExecuteFunc records GPU work for a job onto cmdList.
type ExecuteFunc func(cmdList driver.CmdBuffer, res *Context) error

// Job is a single unit of queued GPU work, carrying independent costs
// for its preparation and execution phases so the two can be batched
// separately (see BatchPreparation/BatchExecution), plus the four
// user-overridable phase hooks a job goes through before its commands
// are submitted.
type Job struct {
	prepCost float64
	execCost float64

	SetupQueue      SetupFunc
	PrepareFrame    PrepareFunc
	SetResourceInfo ResourceInfoFunc
	ExecuteFrame    ExecuteFunc

	barriers []barrier.Barrier
}

// NewJob creates a Job with a single cost shared by both the
// preparation and execution batching passes. Use NewJobCosts when the
// two phases have different weights.
func NewJob(cost float64) *Job { return &Job{prepCost: cost, execCost: cost} }

// NewJobCosts creates a Job with independent preparation and execution
// costs.
func NewJobCosts(prepCost, execCost float64) *Job {
	return &Job{prepCost: prepCost, execCost: execCost}
}

// GetPreparationCost returns the cost used to batch this job into
// preparation groups.
func (j *Job) GetPreparationCost() float64 { return j.prepCost }

// GetExecutionCost returns the cost used to batch this job into
// execution command lists.
func (j *Job) GetExecutionCost() float64 { return j.execCost }

// AddBarrier appends b to the job's barrier list and returns its index
// within that list, for later lookup via GetBarrier.
func (j *Job) AddBarrier(b barrier.Barrier) int {
	j.barriers = append(j.barriers, b)
	return len(j.barriers) - 1
}

// GetBarrier returns a pointer to the barrier at index i, so the
// planner can mutate it in place (merging a read state into it).
func (j *Job) GetBarrier(i int) *barrier.Barrier { return &j.barriers[i] }

// Barriers returns the job's recorded barriers, in the order they were
// added.
func (j *Job) Barriers() []barrier.Barrier { return j.barriers }

// batchBy partitions jobs, in order, into at most k partitions such
// that each partition (other than possibly the last) accumulates at
// least totalCost/k of cost(job) before closing. Order is preserved: a
// job is never moved out of its position in the sequence.
func batchBy(jobs []*Job, k int, cost func(*Job) float64) [][]*Job {
	if k <= 0 || len(jobs) == 0 {
		return nil
	}
	var total float64
	for _, j := range jobs {
		total += cost(j)
	}
	threshold := total / float64(k)

	partitions := make([][]*Job, 0, k)
	var current []*Job
	var accum float64
	for _, j := range jobs {
		current = append(current, j)
		accum += cost(j)
		if accum >= threshold && len(partitions) < k-1 {
			partitions = append(partitions, current)
			current = nil
			accum = 0
		}
	}
	if len(current) > 0 {
		partitions = append(partitions, current)
	}
	return partitions
}

// Batch partitions jobs by their shared preparation/execution cost. It
// is retained for callers that do not need independent batching; new
// code should prefer BatchPreparation/BatchExecution.
func Batch(jobs []*Job, k int) [][]*Job {
	return batchBy(jobs, k, (*Job).GetPreparationCost)
}

// BatchPreparation partitions jobs into k groups by preparation cost.
func BatchPreparation(jobs []*Job, k int) [][]*Job {
	return batchBy(jobs, k, (*Job).GetPreparationCost)
}

// BatchExecution partitions jobs into k command lists by execution
// cost, independently of how preparation was batched.
func BatchExecution(jobs []*Job, k int) [][]*Job {
	return batchBy(jobs, k, (*Job).GetExecutionCost)
}
