package renderer

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gamewolf3000/steelgear/core/orchestrator"
	"github.com/Gamewolf3000/steelgear/driver"
)

type fakeHeap struct{ size int64 }

func (h *fakeHeap) Destroy()         {}
func (h *fakeHeap) Size() int64      { return h.size }
func (h *fakeHeap) Alignment() int64 { return 256 }
func (h *fakeHeap) Visible() bool    { return false }
func (h *fakeHeap) NewPlacedBuffer(offset, size int64, usg driver.Usage) (driver.Buffer, error) {
	return nil, nil
}
func (h *fakeHeap) NewPlacedImage(offset int64, pf driver.PixelFmt, size driver.Dim3D, layers, levels, samples int, usg driver.Usage) (driver.Image, error) {
	return nil, nil
}

type fakeCmdBuffer struct{ driver.CmdBuffer }

func (c *fakeCmdBuffer) Begin() error { return nil }
func (c *fakeCmdBuffer) End() error   { return nil }
func (c *fakeCmdBuffer) Reset() error { return nil }
func (c *fakeCmdBuffer) Destroy()     {}

type fakeGPU struct{ driver.GPU }

func (g *fakeGPU) NewHeap(info driver.MemoryInfo) (driver.Heap, error) {
	return &fakeHeap{size: info.Size}, nil
}

func (g *fakeGPU) NewCmdBuffer() (driver.CmdBuffer, error) { return &fakeCmdBuffer{}, nil }

func (g *fakeGPU) Commit(cb []driver.CmdBuffer, ch chan<- error) { ch <- nil }

type fakeWriter struct{ writes int }

func (w *fakeWriter) Copy(dstOffset int64, src any, count int64) { w.writes++ }

func settingsFromYAML(t *testing.T, yaml string) RenderSettings {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(yaml)))
	s, err := LoadSettings(v)
	require.NoError(t, err)
	return s
}

func TestLoadSettingsAppliesDefaults(t *testing.T) {
	s := settingsFromYAML(t, `
window:
  title: test window
`)
	assert.Equal(t, -1, s.Device.AdapterIndex)
	assert.Equal(t, "test window", s.Window.Title)
	assert.Equal(t, int64(256), s.DescriptorHeap.StartDescriptorsPerFrame)
	assert.True(t, s.Window.Windowed)
}

func TestLoadSettingsRejectsZeroDescriptorsPerFrame(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(`
descriptorHeap:
  startDescriptorsPerFrame: 0
`)))
	_, err := LoadSettings(v)
	assert.Error(t, err)
}

func TestLoadSettingsNilViper(t *testing.T) {
	_, err := LoadSettings(nil)
	assert.Error(t, err)
}

func TestNewWiresSubsystemsAndRunsFrame(t *testing.T) {
	gpu := &fakeGPU{}
	settings := settingsFromYAML(t, `
local:
  initialSize: 4096
transient:
  initialSize: 4096
descriptorHeap:
  startDescriptorsPerFrame: 4
`)
	w := &fakeWriter{}

	r, err := New(gpu, nil, 2, settings, w, nil)
	require.NoError(t, err)
	require.NotNil(t, r.Blackboard())
	require.NotNil(t, r.Blackboard().Local())
	require.NotNil(t, r.Blackboard().DescriptorHeap())
	require.NotNil(t, r.Blackboard().Categories())
	require.NotNil(t, r.Uploader())

	var swapped, recorded bool
	err = r.RunFrame(orchestrator.Hooks{
		SwapFrame: func() error { swapped = true; return nil },
		RecordJobs: func(cb driver.CmdBuffer) error {
			recorded = true
			return nil
		},
	})
	require.NoError(t, err)
	assert.True(t, swapped)
	assert.True(t, recorded)

	require.NoError(t, r.Close())
}
