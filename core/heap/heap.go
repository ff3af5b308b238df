// Package heap provides explicit GPU heaps sized to a configurable block
// granularity, handing them to callers (typically a suballoc.Allocator)
// that sub-allocate placed resources out of them.
package heap

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Gamewolf3000/steelgear/core/errs"
	"github.com/Gamewolf3000/steelgear/driver"
)

// Config controls how a Provider sizes the heaps it creates.
type Config struct {
	// BlockSize is the size, in bytes, of a standard heap. Requests
	// that fit within BlockSize are served by a heap of exactly this
	// size; larger requests get a dedicated heap sized to the
	// request, rounded up to the next BlockSize multiple.
	BlockSize int64
	// Visible requests host-visible heaps (CPU-accessible upload
	// heaps); otherwise device-local heaps are created.
	Visible bool
	// Registerer, if non-nil, receives a gauge tracking the bytes
	// currently held across every heap this Provider has issued. A nil
	// Registerer disables metrics entirely.
	Registerer prometheus.Registerer
}

// Provider creates driver.Heap instances on demand, per Config.
type Provider struct {
	gpu        driver.GPU
	cfg        Config
	log        *zap.SugaredLogger
	issued     []driver.Heap
	bytesInUse prometheus.Gauge
}

// New creates a Provider backed by gpu. A nil logger disables logging.
func New(gpu driver.GPU, cfg Config, log *zap.SugaredLogger) (*Provider, error) {
	if gpu == nil {
		return nil, errors.Wrap(errs.InvalidConfiguration, "heap: nil GPU")
	}
	if cfg.BlockSize <= 0 {
		return nil, errors.Wrap(errs.InvalidConfiguration, "heap: BlockSize must be positive")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	bytesInUse := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "steelgear_heap_bytes_in_use",
		Help: "Bytes currently held across heaps issued by this provider.",
	})
	if cfg.Registerer != nil {
		if err := cfg.Registerer.Register(bytesInUse); err != nil {
			return nil, errors.Wrap(errs.InvalidConfiguration, "heap: "+err.Error())
		}
	}
	return &Provider{gpu: gpu, cfg: cfg, log: log, bytesInUse: bytesInUse}, nil
}

// Acquire returns a heap able to hold at least minSize bytes. Requests
// that fit within the provider's BlockSize get a standard-size heap;
// larger requests get a dedicated heap rounded up to a BlockSize
// multiple.
func (p *Provider) Acquire(minSize int64) (driver.Heap, error) {
	if minSize <= 0 {
		return nil, errors.Wrap(errs.InvalidConfiguration, "heap: minSize must be positive")
	}
	size := p.cfg.BlockSize
	if minSize > size {
		blocks := (minSize + p.cfg.BlockSize - 1) / p.cfg.BlockSize
		size = blocks * p.cfg.BlockSize
	}
	h, err := p.gpu.NewHeap(driver.MemoryInfo{Size: size, Visible: p.cfg.Visible})
	if err != nil {
		return nil, errors.Wrapf(errs.FromDriver(err), "heap: failed to create %d byte heap: %v", size, err)
	}
	p.log.Debugw("heap created", "size", size, "visible", p.cfg.Visible)
	p.issued = append(p.issued, h)
	p.bytesInUse.Add(float64(size))
	return h, nil
}

// Release destroys every heap this provider has issued. It is intended
// for teardown, not for returning an individual heap to a pool.
func (p *Provider) Release() {
	for _, h := range p.issued {
		h.Destroy()
	}
	p.issued = nil
	p.bytesInUse.Set(0)
}
