// Package category implements the category registry: a lookup from a
// logical resource-category identifier (e.g. "scene color targets") to
// the resource component instance that owns those resources, so the
// barrier planner and the managed descriptor heap can address a whole
// category without depending on which concrete component holds it.
package category

import (
	"github.com/google/uuid"

	"github.com/pkg/errors"

	"github.com/Gamewolf3000/steelgear/core/descalloc"
	"github.com/Gamewolf3000/steelgear/core/errs"
)

// Type distinguishes buffer categories from texture categories. The
// barrier planner's post-execution pass resets a texture category left
// in a write state to common; a buffer category is reset only if a job
// transitioned it during the queue.
type Type int

const (
	Buffer Type = iota
	Texture
)

// Identifier names a resource category. Tag is a process-unique value
// assigned on creation, useful for cross-frame diagnostics and log
// correlation. Registry lookups match on Type and Name alone; Go
// equality and map keys built on Identifier include Tag.
type Identifier struct {
	Type Type
	Name string
	Tag  uuid.UUID
}

// NewIdentifier creates an Identifier with a fresh diagnostic tag.
func NewIdentifier(t Type, name string) Identifier {
	return Identifier{Type: t, Name: name, Tag: uuid.New()}
}

// key is the map-comparable subset of an Identifier.
type key struct {
	t    Type
	name string
}

func (id Identifier) key() key { return key{t: id.Type, name: id.Name} }

// Component is the surface a category member must expose so the
// managed descriptor heap can copy its descriptor range and the
// barrier planner can determine which view kinds it uses.
type Component interface {
	NrOfDescriptors() int
	HasDescriptorsOfType(kind descalloc.Kind) bool
}

// Registry maps category identifiers to the component that backs them.
type Registry struct {
	byKey map[key]Identifier
	comps map[key]Component
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[key]Identifier), comps: make(map[key]Component)}
}

// Register associates identifier with component, replacing any prior
// registration for the same Type+Name.
func (r *Registry) Register(identifier Identifier, component Component) {
	k := identifier.key()
	r.byKey[k] = identifier
	r.comps[k] = component
}

// Unregister removes a category's registration.
func (r *Registry) Unregister(identifier Identifier) {
	k := identifier.key()
	delete(r.byKey, k)
	delete(r.comps, k)
}

// Get returns the component registered for identifier.
func (r *Registry) Get(identifier Identifier) (Component, error) {
	k := identifier.key()
	c, ok := r.comps[k]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "category: no component registered for %q", identifier.Name)
	}
	return c, nil
}

// All returns every currently registered identifier.
func (r *Registry) All() []Identifier {
	out := make([]Identifier, 0, len(r.byKey))
	for _, id := range r.byKey {
		out = append(out, id)
	}
	return out
}
