// Package renderer wires the core's allocators, components, and
// orchestrator into a single façade: the Renderer. It is the only
// package outside of core/* that application code is expected to
// import directly.
package renderer

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/Gamewolf3000/steelgear/core/errs"
)

// DebugSettings controls API-level validation.
type DebugSettings struct {
	UseDebugLayer    bool `mapstructure:"useDebugLayer"`
	UseGPUValidation bool `mapstructure:"useGPUValidation"`
}

// DeviceSettings pins and validates the adapter the renderer runs on.
type DeviceSettings struct {
	// AdapterIndex pins to a specific adapter; -1 means "first
	// matching".
	AdapterIndex        int    `mapstructure:"adapterIndex"`
	RequiredFeatureLevel string `mapstructure:"requiredFeatureLevel"`
	RTTier               int    `mapstructure:"rtTier"`
	ShaderModel          string `mapstructure:"shaderModel"`
}

// WindowSettings controls the window the swapchain presents to.
type WindowSettings struct {
	ClassName string `mapstructure:"className"`
	Title     string `mapstructure:"title"`
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	Windowed  bool   `mapstructure:"windowed"`
}

// LocalSettings sizes the local (persistent upload) allocator.
type LocalSettings struct {
	InitialSize   int64 `mapstructure:"initialSize"`
	ExpansionSize int64 `mapstructure:"expansionSize"`
}

// StartingSlots sizes the initial per-kind slab reservations of the
// transient allocator.
type StartingSlots struct {
	SB  int `mapstructure:"SB"`
	RTV int `mapstructure:"RTV"`
	DSV int `mapstructure:"DSV"`
}

// TransientSettings sizes the transient (per-frame) allocator.
type TransientSettings struct {
	InitialSize   int64         `mapstructure:"initialSize"`
	ExpansionSize int64         `mapstructure:"expansionSize"`
	StartingSlots StartingSlots `mapstructure:"startingSlots"`
}

// DescriptorHeapSettings sizes the managed descriptor heap.
type DescriptorHeapSettings struct {
	StartDescriptorsPerFrame int64 `mapstructure:"startDescriptorsPerFrame"`
}

// UploaderSettings configures a category's staging uploader.
type UploaderSettings struct {
	Size     int64  `mapstructure:"size"`
	Strategy string `mapstructure:"strategy"`
}

// CategorySettings sizes the default heap providers and uploaders a
// category falls back to when it does not specify its own.
type CategorySettings struct {
	Uploader UploaderSettings `mapstructure:"uploader"`
}

// InformationSettings toggles telemetry the core can optionally
// collect.
type InformationSettings struct {
	PerformTimingsCPU bool `mapstructure:"performTimingsCPU"`
	PerformTimingsGPU bool `mapstructure:"performTimingsGPU"`
	RenderImgui       bool `mapstructure:"renderImgui"`
}

// RenderSettings is the façade's single configuration record. The
// frames-in-flight depth N is not part of it: it is a construction
// parameter of Renderer, not a tunable setting.
type RenderSettings struct {
	Debug           DebugSettings          `mapstructure:"debug"`
	Device          DeviceSettings         `mapstructure:"device"`
	Window          WindowSettings         `mapstructure:"window"`
	Local           LocalSettings          `mapstructure:"local"`
	Transient       TransientSettings      `mapstructure:"transient"`
	DescriptorHeap  DescriptorHeapSettings `mapstructure:"descriptorHeap"`
	Categories      CategorySettings       `mapstructure:"categories"`
	Information     InformationSettings    `mapstructure:"information"`
}

// LoadSettings unmarshals a RenderSettings from v, applying defaults
// for any key the caller's configuration source does not set.
func LoadSettings(v *viper.Viper) (RenderSettings, error) {
	if v == nil {
		return RenderSettings{}, errors.Wrap(errs.InvalidConfiguration, "renderer: nil viper instance")
	}

	v.SetDefault("device.adapterIndex", -1)
	v.SetDefault("window.windowed", true)
	v.SetDefault("local.initialSize", int64(64<<20))
	v.SetDefault("local.expansionSize", int64(32<<20))
	v.SetDefault("transient.initialSize", int64(16<<20))
	v.SetDefault("transient.expansionSize", int64(8<<20))
	v.SetDefault("descriptorHeap.startDescriptorsPerFrame", int64(256))
	v.SetDefault("categories.uploader.size", int64(4<<20))
	v.SetDefault("categories.uploader.strategy", "firstFit")

	var s RenderSettings
	if err := v.Unmarshal(&s); err != nil {
		return RenderSettings{}, errors.Wrap(errs.InvalidConfiguration, "renderer: failed to unmarshal settings")
	}
	if err := validate(s); err != nil {
		return RenderSettings{}, err
	}
	return s, nil
}

func validate(s RenderSettings) error {
	if s.DescriptorHeap.StartDescriptorsPerFrame <= 0 {
		return errors.Wrap(errs.InvalidConfiguration, "renderer: descriptorHeap.startDescriptorsPerFrame must be positive")
	}
	if s.Local.InitialSize <= 0 || s.Transient.InitialSize <= 0 {
		return errors.Wrap(errs.InvalidConfiguration, "renderer: local and transient initialSize must be positive")
	}
	return nil
}
