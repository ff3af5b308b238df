// Package queue implements the render queue (ordered jobs with
// setup/prepare/resource-info/execute phases, batched independently by
// preparation and execution cost) and the barrier planner that assigns
// resource-state barriers to those jobs as they are enqueued.
package queue

import (
	"github.com/Gamewolf3000/steelgear/core/barrier"
	"github.com/Gamewolf3000/steelgear/core/category"
	"github.com/Gamewolf3000/steelgear/core/tracker"
	"github.com/Gamewolf3000/steelgear/driver"
)

// TransientIndex identifies a transient resource created within a
// single Context's lifetime (one render-queue build).
type TransientIndex int

// transientInitial records only what a Queue needs to remember about a
// transient resource once a Context has been finalized: its state at
// the start of the queue.
type transientInitial struct {
	InitialState driver.Layout
}

// Queue is the finalized, replayable output of a Context: an ordered
// job list plus the barriers needed before and after executing it.
type Queue struct {
	TransientResources    []transientInitial
	Jobs                  []*Job
	PostExecutionBarriers []barrier.Barrier
	EndTextureIndex       TransientIndex
}

type resourceState struct {
	fr                      *tracker.FrameResource
	jobIndexOfLastChange    int
	barrierIndexOfLastBarrr int
	jobIndexOfLastAccess    int
}

func newResourceState(resource any, initial driver.Layout) *resourceState {
	return &resourceState{
		fr:                      tracker.New(resource, initial),
		jobIndexOfLastChange:    -1,
		barrierIndexOfLastBarrr: -1,
		jobIndexOfLastAccess:    -1,
	}
}

// Context builds a Queue incrementally: jobs are enqueued one at a
// time, each one requesting the resource states it needs, and the
// Context plans (and, where possible, merges) the barriers required to
// satisfy those requests in job order.
type Context struct {
	transient  []*resourceState
	components map[category.Identifier]*resourceState
	jobs       []*Job
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{components: make(map[category.Identifier]*resourceState)}
}

// CreateTransientResource registers a new transient resource starting
// in initialState and returns its index within this Context.
func (c *Context) CreateTransientResource(resource any, initialState driver.Layout) TransientIndex {
	c.transient = append(c.transient, newResourceState(resource, initialState))
	return TransientIndex(len(c.transient) - 1)
}

// handleRequest plans (or merges into) the barrier needed to bring rs
// to neededState, given that jobs[len(jobs)-1] is the job making the
// request.
func (c *Context) handleRequest(rs *resourceState, neededState driver.Layout) error {
	b, changed := rs.fr.UpdateState(neededState)
	lastJobIdx := len(c.jobs) - 1
	if changed {
		rs.barrierIndexOfLastBarrr = c.jobs[lastJobIdx].AddBarrier(b)
		rs.jobIndexOfLastChange = lastJobIdx
	} else if rs.jobIndexOfLastChange != -1 {
		last := c.jobs[rs.jobIndexOfLastChange]
		lastBarrier := last.GetBarrier(rs.barrierIndexOfLastBarrr)
		if lastBarrier.StateAfter&neededState != neededState {
			if err := lastBarrier.MergeTransitionAfterState(neededState); err != nil {
				return err
			}
		}
	}
	rs.jobIndexOfLastAccess = lastJobIdx
	return nil
}

// RequestTransientResource requests that the transient resource at
// index be usable in neededState by the most recently enqueued job.
func (c *Context) RequestTransientResource(index TransientIndex, neededState driver.Layout) error {
	return c.handleRequest(c.transient[index], neededState)
}

// RequestCategoryResource requests that the category resource
// identified by identifier be usable in neededState by the most
// recently enqueued job. A category resource is assumed to start in
// the Common state the first time it is requested within a Context,
// unless SeedCategoryResource already recorded a carried-over state
// for it.
func (c *Context) RequestCategoryResource(identifier category.Identifier, neededState driver.Layout) error {
	rs, ok := c.components[identifier]
	if !ok {
		rs = newResourceState(identifier, driver.LCommon)
		c.components[identifier] = rs
	}
	return c.handleRequest(rs, neededState)
}

// SeedCategoryResource records the state a category resource is
// already in when this Context starts, without treating that as a
// request made by any job. A buffer category that no job transitioned
// during a queue is left in its last state by
// addPostExecutionCategoryBarriers rather than reset to Common, so such
// a buffer that ended last frame in a write state carries that state
// forward as its seed here; if no job touches it again this frame, it
// is correctly recognized as still being in a write state without
// appearing to have been "explicitly transitioned" within this
// Context. It has no effect if the identifier was already seeded or
// requested.
func (c *Context) SeedCategoryResource(identifier category.Identifier, state driver.Layout) {
	if _, ok := c.components[identifier]; ok {
		return
	}
	c.components[identifier] = newResourceState(identifier, state)
}

// AddJobToQueue appends job to the in-progress sequence and runs its
// setup phase, which is expected to call
// Request{Transient,Category}Resource for every resource the job
// touches. If setup is non-nil it is used in place of job.SetupQueue,
// letting ad hoc tests and one-off jobs override the phase without
// constructing a Job subtype; job.SetupQueue is used otherwise.
func (c *Context) AddJobToQueue(job *Job, setup SetupFunc) error {
	c.jobs = append(c.jobs, job)
	if setup == nil {
		setup = job.SetupQueue
	}
	if setup == nil {
		return nil
	}
	return setup(c)
}

// addPostExecutionCategoryBarriers appends a transition back to Common
// for every category resource that was transitioned during the queue,
// and for every non-buffer category resource that ended in a write
// state; a buffer category that no job transitioned is left in its
// last state.
func (c *Context) addPostExecutionCategoryBarriers(q *Queue) {
	for identifier, rs := range c.components {
		transitionNeeded := rs.jobIndexOfLastChange != -1
		transitionNeeded = transitionNeeded || (rs.fr.IsInWriteState() && identifier.Type != category.Buffer)
		if transitionNeeded {
			q.PostExecutionBarriers = append(q.PostExecutionBarriers,
				barrier.NewTransition(identifier, rs.fr.GetCurrentState(), driver.LCommon))
		}
	}
}

// FinalizeQueue produces the Queue this Context has been building,
// transitioning endTexture to CopySource so it is ready to be consumed
// by the next stage (e.g. presentation or further sampling), and
// appending the post-execution category barriers.
func (c *Context) FinalizeQueue(endTexture TransientIndex) *Queue {
	q := &Queue{
		TransientResources: make([]transientInitial, len(c.transient)),
		Jobs:               c.jobs,
		EndTextureIndex:     endTexture,
	}
	for i, rs := range c.transient {
		q.TransientResources[i] = transientInitial{InitialState: rs.fr.GetInitialState()}
	}

	if b, changed := c.transient[endTexture].fr.UpdateState(driver.LCopySrc); changed {
		q.PostExecutionBarriers = append(q.PostExecutionBarriers, b)
	}
	c.addPostExecutionCategoryBarriers(q)
	return q
}

// ClearQueue discards all in-progress state, ready for the Context to
// be reused to build the next frame's queue.
func (c *Context) ClearQueue() {
	c.transient = nil
	c.components = make(map[category.Identifier]*resourceState)
	c.jobs = nil
}
