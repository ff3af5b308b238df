// Package orchestrator drives the per-frame render sequence: waiting on
// the previous occupant of a frame slot, swapping frame-multiplexed
// state, recording the copy/direct/present command lists in order, and
// submitting them with the cross-queue fence waits that keep the GPU's
// three logical queues (copy, direct, present) correctly ordered.
//
// The driver package models queue completion as a channel handed to
// GPU.Commit rather than a distinct Fence type, so a "fence" here is
// just that channel, kept around until the frame slot comes back
// around N frames later.
package orchestrator

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Gamewolf3000/steelgear/core/errs"
	"github.com/Gamewolf3000/steelgear/driver"
)

// fence is the completion signal of one GPU.Commit call.
type fence chan error

func newFence() fence { return make(fence, 1) }

// wait blocks until the submission that owns f completes, or returns
// nil immediately if f has never been armed (first occupant of a
// slot).
func (f fence) wait() error {
	if f == nil {
		return nil
	}
	return <-f
}

// slot holds the per-frame-slot GPU state named in the render sequence:
// one command allocator for the copy queue, one for the direct queue,
// and the three fences that order copy→direct→present→next-frame.
type slot struct {
	copyCmd   driver.CmdBuffer
	directCmd driver.CmdBuffer

	updateFence     fence // copy queue: signaled after uploads/aliasing barriers
	jobsDoneFence   fence // direct queue: signaled after render queue jobs
	endOfFrameFence fence // present queue: signaled after present
}

// Hooks supplies the recording callbacks for one frame. The
// orchestrator owns the sequencing and submission; the caller owns
// what gets recorded into each command list.
type Hooks struct {
	// SwapFrame advances every frame-multiplexed component (descriptor
	// heap, category registry, blackboard, and any local state the
	// caller owns) to the next slot. Called once the slot's previous
	// occupant has fully retired.
	SwapFrame func() error

	// PrepareAndSetup performs CPU-only preparation and setup for the
	// frame's render queue jobs, ahead of any recording.
	PrepareAndSetup func() error

	// RecordCopy records category upload and aliasing barriers onto
	// the copy command list.
	RecordCopy func(cb driver.CmdBuffer) error

	// RecordTransientReset records the transient allocator's per-frame
	// discard/clear onto the direct command list.
	RecordTransientReset func(cb driver.CmdBuffer) error

	// RecordJobs records the render queue's batched jobs, with their
	// planned barriers, onto one or more direct command lists.
	RecordJobs func(cb driver.CmdBuffer) error

	// RecordPresent records the copy-to-backbuffer blit, the
	// post-execution category barriers, and the backbuffer's
	// transition to the present layout, onto the present command
	// list. backbuffer is the index returned by Swapchain.Next.
	RecordPresent func(cb driver.CmdBuffer, backbuffer int) error
}

// Orchestrator sequences command recording and submission across an
// N-deep ring of frame slots, synchronizing the copy, direct, and
// present logical queues purely through fence waits; it holds no
// mutex, matching the single-threaded cooperative scheduling model of
// the core.
type Orchestrator struct {
	gpu        driver.GPU
	swapchain  driver.Swapchain
	slots      []slot
	active     int
	log        *zap.SugaredLogger
}

// New creates an Orchestrator with the given in-flight depth. gpu must
// be non-nil; swapchain may be nil if presentation is not wired up
// (e.g. headless rendering or tests).
func New(gpu driver.GPU, swapchain driver.Swapchain, frames int, log *zap.SugaredLogger) (*Orchestrator, error) {
	if gpu == nil {
		return nil, errors.Wrap(errs.InvalidConfiguration, "orchestrator: nil GPU")
	}
	if frames <= 0 {
		return nil, errors.Wrap(errs.InvalidConfiguration, "orchestrator: frames must be positive")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	slots := make([]slot, frames)
	for i := range slots {
		copyCmd, err := gpu.NewCmdBuffer()
		if err != nil {
			return nil, errors.Wrap(errs.Fatal, "orchestrator: create copy command buffer")
		}
		directCmd, err := gpu.NewCmdBuffer()
		if err != nil {
			return nil, errors.Wrap(errs.Fatal, "orchestrator: create direct command buffer")
		}
		slots[i] = slot{copyCmd: copyCmd, directCmd: directCmd}
	}

	return &Orchestrator{
		gpu:       gpu,
		swapchain: swapchain,
		slots:     slots,
		active:    len(slots) - 1, // first RunFrame lands on slot 0, mirroring the frame-multiplexed components
		log:       log,
	}, nil
}

// ActiveFrame returns the index of the frame slot currently owned by
// the host.
func (o *Orchestrator) ActiveFrame() int { return o.active }

// Frames returns the in-flight depth N.
func (o *Orchestrator) Frames() int { return len(o.slots) }

// RunFrame executes one iteration of the per-frame render sequence
// described in the core's orchestration model: wait for the next
// slot's end-of-frame fence, swap frame state, record and submit the
// copy list, wait for it on the direct queue, record and submit the
// transient reset and render queue jobs, wait for them on the present
// queue, then record and submit the present list.
func (o *Orchestrator) RunFrame(h Hooks) error {
	next := (o.active + 1) % len(o.slots)
	s := &o.slots[next]

	// 1. Wait for next-slot's endOfFrameFence; reset that slot's allocators.
	if err := s.endOfFrameFence.wait(); err != nil {
		return errors.Wrap(errs.Fatal, "orchestrator: previous occupant of frame slot failed")
	}
	if err := s.copyCmd.Reset(); err != nil {
		return errors.Wrap(errs.Fatal, "orchestrator: reset copy command allocator")
	}
	if err := s.directCmd.Reset(); err != nil {
		return errors.Wrap(errs.Fatal, "orchestrator: reset direct command allocator")
	}
	o.active = next

	// 2. Swap frame on all frame-multiplexed resources.
	if h.SwapFrame != nil {
		if err := h.SwapFrame(); err != nil {
			return err
		}
	}

	// 3. Prepare+setup (CPU-only).
	if h.PrepareAndSetup != nil {
		if err := h.PrepareAndSetup(); err != nil {
			return err
		}
	}

	// 4. Record category upload/aliasing barriers on the copy command
	// list; submit; signal updateFence; wait for it on direct queue.
	if err := s.copyCmd.Begin(); err != nil {
		return errors.Wrap(errs.Fatal, "orchestrator: begin copy command list")
	}
	if h.RecordCopy != nil {
		if err := h.RecordCopy(s.copyCmd); err != nil {
			return err
		}
	}
	if err := s.copyCmd.End(); err != nil {
		return errors.Wrap(errs.Fatal, "orchestrator: end copy command list")
	}
	s.updateFence = newFence()
	o.gpu.Commit([]driver.CmdBuffer{s.copyCmd}, s.updateFence)
	if err := s.updateFence.wait(); err != nil {
		return errors.Wrap(errs.Fatal, "orchestrator: copy queue submission failed")
	}

	// 5. Record transient discard/clear on direct command list; close
	// and submit. 6. Record render queue jobs (with barriers) on one
	// or more direct lists; submit; signal jobsDoneFence; wait on
	// present queue.
	if err := s.directCmd.Begin(); err != nil {
		return errors.Wrap(errs.Fatal, "orchestrator: begin direct command list")
	}
	if h.RecordTransientReset != nil {
		if err := h.RecordTransientReset(s.directCmd); err != nil {
			return err
		}
	}
	if h.RecordJobs != nil {
		if err := h.RecordJobs(s.directCmd); err != nil {
			return err
		}
	}
	if err := s.directCmd.End(); err != nil {
		return errors.Wrap(errs.Fatal, "orchestrator: end direct command list")
	}
	s.jobsDoneFence = newFence()
	o.gpu.Commit([]driver.CmdBuffer{s.directCmd}, s.jobsDoneFence)
	if err := s.jobsDoneFence.wait(); err != nil {
		return errors.Wrap(errs.Fatal, "orchestrator: direct queue submission failed")
	}

	// 7. Record copy-to-backbuffer + post-execution barriers +
	// backbuffer transition to PRESENT; submit to present queue;
	// present; signal endOfFrameFence.
	backbuffer := -1
	if o.swapchain != nil {
		idx, err := o.swapchain.Next(s.directCmd)
		if err != nil {
			return errors.Wrap(errs.Fatal, "orchestrator: acquire swapchain image")
		}
		backbuffer = idx
	}
	if err := s.directCmd.Begin(); err != nil {
		return errors.Wrap(errs.Fatal, "orchestrator: begin present command list")
	}
	if h.RecordPresent != nil {
		if err := h.RecordPresent(s.directCmd, backbuffer); err != nil {
			return err
		}
	}
	if err := s.directCmd.End(); err != nil {
		return errors.Wrap(errs.Fatal, "orchestrator: end present command list")
	}
	s.endOfFrameFence = newFence()
	o.gpu.Commit([]driver.CmdBuffer{s.directCmd}, s.endOfFrameFence)
	if o.swapchain != nil && backbuffer >= 0 {
		if err := o.swapchain.Present(backbuffer, s.directCmd); err != nil {
			return errors.Wrap(errs.Fatal, "orchestrator: present")
		}
	}

	return nil
}

// Flush waits for every frame slot's end-of-frame fence, for use at
// shutdown to guarantee no in-flight command list still references
// resources about to be destroyed.
func (o *Orchestrator) Flush() error {
	for i := range o.slots {
		if err := o.slots[i].endOfFrameFence.wait(); err != nil {
			return errors.Wrap(errs.Fatal, "orchestrator: flush")
		}
	}
	return nil
}
