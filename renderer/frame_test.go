package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gamewolf3000/steelgear/core/category"
	"github.com/Gamewolf3000/steelgear/core/mirror"
	"github.com/Gamewolf3000/steelgear/core/queue"
	"github.com/Gamewolf3000/steelgear/driver"
)

func TestFrameHooksDriveCategoryQueueAndMirrorThroughOneFrame(t *testing.T) {
	gpu := &fakeGPU{}
	settings := settingsFromYAML(t, `
local:
  initialSize: 4096
transient:
  initialSize: 4096
descriptorHeap:
  startDescriptorsPerFrame: 4
`)
	r, err := New(gpu, nil, 2, settings, &fakeWriter{}, nil)
	require.NoError(t, err)

	id := category.NewIdentifier(category.Texture, "gbuffer")
	cat, err := r.CreateCategory(id, nil)
	require.NoError(t, err)

	idx, err := cat.Add("albedo", 256, 256, driver.LCommon)
	require.NoError(t, err)
	assert.Equal(t, 0, int(idx))

	comp, err := r.Blackboard().Categories().Get(id)
	require.NoError(t, err)
	assert.Same(t, cat.Active(), comp)

	frame := r.NewFrame()
	frame.Mirror().SetUpdateData(0, []byte{1, 2, 3, 4}, 0)

	var uploaded, prepared, executed bool
	frame.SetUploader(func(mirror.Update) error { uploaded = true; return nil })

	job := queue.NewJob(1)
	job.SetupQueue = func(c *queue.Context) error {
		return c.RequestCategoryResource(id, driver.LShaderRead)
	}
	job.PrepareFrame = func(registry *category.Registry, prep *queue.Context) error {
		prepared = true
		_, err := registry.Get(id)
		return err
	}
	job.ExecuteFrame = func(cb driver.CmdBuffer, res *queue.Context) error {
		executed = true
		return nil
	}
	require.NoError(t, frame.AddJob(job))

	endIdx := frame.Context().CreateTransientResource("end", driver.LCommon)

	require.NoError(t, r.RunFrame(frame.Hooks(endIdx)))

	assert.True(t, uploaded, "mirror pending write must reach the uploader")
	assert.True(t, prepared, "PrepareFrame must run with the category registry")
	assert.True(t, executed, "ExecuteFrame must run with the frame's Context")
	assert.Len(t, job.Barriers(), 1)
}
