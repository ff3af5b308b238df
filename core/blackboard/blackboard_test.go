package blackboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gamewolf3000/steelgear/core/category"
)

func TestPutFetchRoundTrip(t *testing.T) {
	b := New(nil, nil, nil, category.NewRegistry())
	Put(b, "frameIndex", 3)
	v, err := Fetch[int](b, "frameIndex")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestFetchMissingKey(t *testing.T) {
	b := New(nil, nil, nil, nil)
	_, err := Fetch[int](b, "nope")
	assert.Error(t, err)
}

func TestFetchWrongType(t *testing.T) {
	b := New(nil, nil, nil, nil)
	Put(b, "k", "a string")
	_, err := Fetch[int](b, "k")
	assert.Error(t, err)
}

func TestCategoriesAccessor(t *testing.T) {
	reg := category.NewRegistry()
	b := New(nil, nil, nil, reg)
	assert.Same(t, reg, b.Categories())
}
