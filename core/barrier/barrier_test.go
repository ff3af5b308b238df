package barrier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gamewolf3000/steelgear/driver"
)

func TestMergeReadStates(t *testing.T) {
	b := NewTransition("res", driver.LCommon, driver.LShaderRead)
	require.NoError(t, b.MergeTransitionAfterState(driver.LCopySrc))
	assert.Equal(t, driver.LShaderRead|driver.LCopySrc, b.StateAfter)
}

func TestMergeRejectsWriteState(t *testing.T) {
	b := NewTransition("res", driver.LCommon, driver.LShaderRead)
	err := b.MergeTransitionAfterState(driver.LColorTarget)
	assert.Error(t, err)
}

func TestValidateRejectsCategoryAliasing(t *testing.T) {
	b := Barrier{Kind: Aliasing, ResourceBefore: "something"}
	assert.Error(t, Validate(b))
}

func TestValidateAcceptsInitializationAliasing(t *testing.T) {
	b := NewAliasing("newResource")
	assert.NoError(t, Validate(b))
}

func TestValidateRejectsUAV(t *testing.T) {
	assert.Error(t, Validate(Barrier{Kind: UAV}))
}
