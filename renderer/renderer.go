package renderer

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Gamewolf3000/steelgear/core/blackboard"
	"github.com/Gamewolf3000/steelgear/core/category"
	"github.com/Gamewolf3000/steelgear/core/descheap"
	"github.com/Gamewolf3000/steelgear/core/errs"
	"github.com/Gamewolf3000/steelgear/core/heap"
	"github.com/Gamewolf3000/steelgear/core/local"
	"github.com/Gamewolf3000/steelgear/core/orchestrator"
	"github.com/Gamewolf3000/steelgear/core/staging"
	"github.com/Gamewolf3000/steelgear/core/suballoc"
	"github.com/Gamewolf3000/steelgear/core/transient"
	"github.com/Gamewolf3000/steelgear/driver"
	"github.com/Gamewolf3000/steelgear/internal/arena"
)

func strategyFromName(name string) arena.Strategy {
	switch name {
	case "bestFit":
		return arena.BestFit
	case "worstFit":
		return arena.WorstFit
	default:
		return arena.FirstFit
	}
}

// Renderer is the single façade instance a host process owns. It wires
// together every core/* package into one per-frame pipeline: a local
// (persistent) allocator, a per-slot transient allocator, a managed
// descriptor heap, a category registry, a blackboard exposing all of
// the above, a staging uploader, and the orchestrator that drives the
// copy/direct/present sequence across frame slots.
type Renderer struct {
	settings RenderSettings
	frames   int

	local      *local.Allocator
	localPool  *suballoc.Allocator
	descHeap   *descheap.ManagedHeap
	categories *category.Registry
	blackboard *blackboard.Blackboard
	uploader   *staging.Ring
	orch       *orchestrator.Orchestrator

	frameCategories []*Category

	log *zap.SugaredLogger
}

// New builds a Renderer from settings, wiring it against gpu and
// (optionally) a swapchain for presentation. frames is the
// frames-in-flight depth N. descWriter adapts the managed descriptor
// heap's copies to the concrete driver's shader-visible descriptor
// representation.
func New(
	gpu driver.GPU,
	swapchain driver.Swapchain,
	frames int,
	settings RenderSettings,
	descWriter descheap.Writer,
	log *zap.SugaredLogger,
) (*Renderer, error) {
	if gpu == nil {
		return nil, errors.Wrap(errs.InvalidConfiguration, "renderer: nil GPU")
	}
	if frames <= 0 {
		return nil, errors.Wrap(errs.InvalidConfiguration, "renderer: frames must be positive")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	localProvider, err := heap.New(gpu, heap.Config{
		BlockSize: settings.Local.InitialSize,
		Visible:   true,
	}, log)
	if err != nil {
		return nil, err
	}
	strategy := strategyFromName(settings.Categories.Uploader.Strategy)

	localPool, err := suballoc.New(localProvider, strategy, log)
	if err != nil {
		return nil, err
	}

	transientProvider, err := heap.New(gpu, heap.Config{
		BlockSize: settings.Transient.InitialSize,
		Visible:   false,
	}, log)
	if err != nil {
		return nil, err
	}

	localAlloc, err := local.New(frames, func(slot int) (*transient.Allocator, error) {
		pool, err := suballoc.New(transientProvider, strategy, log)
		if err != nil {
			return nil, err
		}
		return transient.New(pool), nil
	})
	if err != nil {
		return nil, err
	}

	descHeap, err := descheap.New(frames, settings.DescriptorHeap.StartDescriptorsPerFrame, descWriter, log)
	if err != nil {
		return nil, err
	}

	categories := category.NewRegistry()

	bb := blackboard.New(localAlloc, nil, descHeap, categories)

	pageSize := int64(64 << 10)
	initialPages := int(settings.Categories.Uploader.Size / pageSize)
	if initialPages <= 0 {
		initialPages = 1
	}
	uploader, err := staging.New(pageSize, initialPages, log)
	if err != nil {
		return nil, err
	}

	orch, err := orchestrator.New(gpu, swapchain, frames, log)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		settings:   settings,
		frames:     frames,
		local:      localAlloc,
		localPool:  localPool,
		descHeap:   descHeap,
		categories: categories,
		blackboard: bb,
		uploader:   uploader,
		orch:       orch,
		log:        log,
	}, nil
}

// LocalPool returns the persistent local suballocator categories are
// placed through by default. CreateCategory uses this when its
// allocator argument is nil; callers that want a category backed by a
// different allocator can pass one explicitly instead.
func (r *Renderer) LocalPool() *suballoc.Allocator { return r.localPool }

// Blackboard returns the shared-state accessor every subsystem and
// render-queue job consults for the active frame's allocators,
// descriptor heap, and category registry.
func (r *Renderer) Blackboard() *blackboard.Blackboard { return r.blackboard }

// Orchestrator returns the per-frame sequencer.
func (r *Renderer) Orchestrator() *orchestrator.Orchestrator { return r.orch }

// Uploader returns the staging ring used to stage CPU-to-GPU copies
// ahead of the copy queue's upload pass.
func (r *Renderer) Uploader() *staging.Ring { return r.uploader }

// Settings returns the configuration the Renderer was built from.
func (r *Renderer) Settings() RenderSettings { return r.settings }

// RunFrame advances the render pipeline by one frame, delegating the
// actual command recording to h.
func (r *Renderer) RunFrame(h orchestrator.Hooks) error {
	return r.orch.RunFrame(h)
}

// Close flushes all in-flight frame slots so no command list still
// references resources the caller is about to tear down.
func (r *Renderer) Close() error {
	return r.orch.Flush()
}
