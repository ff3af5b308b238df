package renderer

import (
	"github.com/Gamewolf3000/steelgear/core/barrier"
	"github.com/Gamewolf3000/steelgear/core/mirror"
	"github.com/Gamewolf3000/steelgear/core/orchestrator"
	"github.com/Gamewolf3000/steelgear/core/queue"
	"github.com/Gamewolf3000/steelgear/driver"
)

// Translator resolves an abstract barrier into the driver-level
// transition needed to actually record it, since barrier.Barrier keeps
// Resource as an opaque `any` (a transient index or a category
// identifier) to stay agnostic between the two, while driver.Transition
// needs a concrete ImageView. A barrier the translator declines (ok ==
// false) is skipped rather than recorded.
type Translator func(b barrier.Barrier) (t driver.Transition, ok bool)

// Frame bundles the per-frame render-queue state a Renderer assembles
// before building the orchestrator.Hooks that drive one frame: the
// barrier-planning Context jobs are added to, the jobs themselves, and
// the CPU-side mirror used to stage local-resource writes ahead of the
// copy pass.
type Frame struct {
	r      *Renderer
	ctx    *queue.Context
	mirror *mirror.Mirror
	jobs   []*queue.Job

	prepK, execK int
	upload       func(mirror.Update) error
	translate    Translator
}

// NewFrame starts building the next frame: a fresh barrier-planning
// Context, an empty render queue, and an empty local-resource mirror.
func (r *Renderer) NewFrame() *Frame {
	return &Frame{r: r, ctx: queue.NewContext(), mirror: mirror.New(), prepK: 1, execK: 1}
}

// SetBatchCounts controls how many preparation groups (K) and
// execution command lists (K') the frame's jobs are split into; both
// default to 1 (a single group/list) if never called.
func (f *Frame) SetBatchCounts(prepK, execK int) {
	if prepK > 0 {
		f.prepK = prepK
	}
	if execK > 0 {
		f.execK = execK
	}
}

// SetUploader registers the callback RecordCopy hands each pending
// local-resource mirror write to.
func (f *Frame) SetUploader(upload func(mirror.Update) error) { f.upload = upload }

// SetTranslator registers the callback used to resolve a job's planned
// barriers into driver-level transitions before ExecuteFrame runs.
func (f *Frame) SetTranslator(t Translator) { f.translate = t }

// Mirror returns the frame's local-resource write mirror, for jobs
// that stage local data via SetUpdateData ahead of ExecuteFrame.
func (f *Frame) Mirror() *mirror.Mirror { return f.mirror }

// Context returns the frame's barrier-planning Context.
func (f *Frame) Context() *queue.Context { return f.ctx }

// AddJob registers job with the frame's Context, running its
// SetupQueue phase immediately (per the render queue's barrier
// planning model) and queuing it for later preparation/execution.
func (f *Frame) AddJob(job *queue.Job) error {
	if err := f.ctx.AddJobToQueue(job, nil); err != nil {
		return err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

// recordBarriers translates and records job's planned barriers onto
// cb, via f.translate, skipping any the translator declines.
func (f *Frame) recordBarriers(cb driver.CmdBuffer, job *queue.Job) error {
	if f.translate == nil {
		return nil
	}
	var transitions []driver.Transition
	for _, b := range job.Barriers() {
		if err := barrier.Validate(b); err != nil {
			return err
		}
		if t, ok := f.translate(b); ok {
			transitions = append(transitions, t)
		}
	}
	if len(transitions) > 0 {
		cb.Transition(transitions)
	}
	return nil
}

// Hooks builds the orchestrator.Hooks that drive this frame: swapping
// the local allocator, descriptor heap, and every category the
// Renderer created to the next frame slot; running every job's
// PrepareFrame phase (batched into K preparation groups) followed by
// every job's SetResourceInfo phase; staging the local-resource
// mirror's pending writes and the managed descriptor heap's batched
// upload onto the copy list; recording each of the K' execution
// batches' barriers and ExecuteFrame calls onto the direct list; and
// finalizing the queue (post-execution category barriers plus the
// end-texture transition to a copy-source state) for the present list.
// endTexture identifies the transient resource that must end the frame
// ready for swapchain consumption.
func (f *Frame) Hooks(endTexture queue.TransientIndex) orchestrator.Hooks {
	r := f.r
	return orchestrator.Hooks{
		SwapFrame: func() error {
			r.local.SwapFrame()
			r.descHeap.SwapFrame()
			for _, cat := range r.frameCategories {
				if err := cat.swapFrame(r.categories); err != nil {
					return err
				}
			}
			return nil
		},
		PrepareAndSetup: func() error {
			for _, group := range queue.BatchPreparation(f.jobs, f.prepK) {
				for _, job := range group {
					if job.PrepareFrame != nil {
						if err := job.PrepareFrame(r.categories, f.ctx); err != nil {
							return err
						}
					}
				}
			}
			for _, job := range f.jobs {
				if job.SetResourceInfo != nil {
					if err := job.SetResourceInfo(f.ctx); err != nil {
						return err
					}
				}
			}
			return nil
		},
		RecordCopy: func(cb driver.CmdBuffer) error {
			if err := f.mirror.PerformUpdates(func(u mirror.Update) error {
				if f.upload == nil {
					return nil
				}
				return f.upload(u)
			}); err != nil {
				return err
			}
			r.descHeap.UploadCurrentFrameHeap()
			return nil
		},
		RecordTransientReset: func(cb driver.CmdBuffer) error {
			return nil
		},
		RecordJobs: func(cb driver.CmdBuffer) error {
			for _, group := range queue.BatchExecution(f.jobs, f.execK) {
				for _, job := range group {
					if err := f.recordBarriers(cb, job); err != nil {
						return err
					}
					if job.ExecuteFrame != nil {
						if err := job.ExecuteFrame(cb, f.ctx); err != nil {
							return err
						}
					}
				}
			}
			return nil
		},
		RecordPresent: func(cb driver.CmdBuffer, backbuffer int) error {
			q := f.ctx.FinalizeQueue(endTexture)
			for _, b := range q.PostExecutionBarriers {
				if err := barrier.Validate(b); err != nil {
					return err
				}
				if f.translate == nil {
					continue
				}
				if t, ok := f.translate(b); ok {
					cb.Transition([]driver.Transition{t})
				}
			}
			return nil
		},
	}
}
