// Package scene implements the entity and component model. A scene
// owns a flat list of entities arranged in a parent-child graph, with
// behaviors attached as components.
package scene

import (
	"go.uber.org/zap"

	"github.com/mechanicchickendev/froggi/internal/logger"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Scene owns entities and dispatches component lifecycle hooks.
type Scene struct {
	Name string

	entities []*Entity
	// Attach order across the whole scene. Teardown walks this in
	// reverse so components are destroyed newest first.
	components []Component
	destroyed  bool
}

// New creates an empty scene.
func New(name string) *Scene {
	return &Scene{Name: name}
}

// CreateEntity adds a new active entity with unit scale at the origin.
func (s *Scene) CreateEntity(name string) *Entity {
	e := &Entity{
		Name:   name,
		Scale:  math.One(),
		Active: true,
		scene:  s,
	}
	s.entities = append(s.entities, e)
	return e
}

// Entities returns all entities in creation order, including inactive ones.
func (s *Scene) Entities() []*Entity { return s.entities }

// FindEntity returns the first entity with the given name, or nil.
func (s *Scene) FindEntity(name string) *Entity {
	for _, e := range s.entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Attach binds a component to an entity, sets its owner and runs
// OnInit. A component must not be attached twice.
func (s *Scene) Attach(e *Entity, c Component) {
	if c.Owner() != nil {
		logger.Warn("component already attached, ignoring", zap.String("entity", e.Name))
		return
	}
	c.setOwner(e)
	e.components = append(e.components, c)
	s.components = append(s.components, c)
	c.OnInit()
}

// DestroyEntity removes the entity and its children from the scene.
// Component OnDestroy hooks run in reverse attach order, children
// before the parent.
func (s *Scene) DestroyEntity(e *Entity) {
	if e == nil || e.destroyed {
		return
	}
	for i := len(e.children) - 1; i >= 0; i-- {
		s.DestroyEntity(e.children[i])
	}
	e.destroyed = true
	for i := len(e.components) - 1; i >= 0; i-- {
		e.components[i].OnDestroy()
		s.removeComponent(e.components[i])
	}
	e.components = nil
	if e.parent != nil {
		e.parent.removeChild(e)
	}
	for i, cur := range s.entities {
		if cur == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			break
		}
	}
}

func (s *Scene) removeComponent(c Component) {
	for i, cur := range s.components {
		if cur == c {
			s.components = append(s.components[:i], s.components[i+1:]...)
			return
		}
	}
}

// Update runs OnUpdate on every enabled component whose entity is
// active in the hierarchy.
func (s *Scene) Update(dt float32) {
	for _, c := range s.snapshot() {
		if c.Enabled() && c.Owner() != nil && c.Owner().ActiveInHierarchy() {
			c.OnUpdate(dt)
		}
	}
}

// FixedUpdate runs OnFixedUpdate on every enabled component whose
// entity is active in the hierarchy.
func (s *Scene) FixedUpdate(dt float32) {
	for _, c := range s.snapshot() {
		if c.Enabled() && c.Owner() != nil && c.Owner().ActiveInHierarchy() {
			c.OnFixedUpdate(dt)
		}
	}
}

// snapshot copies the component list so hooks may attach or destroy
// entities without invalidating the current dispatch.
func (s *Scene) snapshot() []Component {
	out := make([]Component, len(s.components))
	copy(out, s.components)
	return out
}

// Destroy tears the scene down. OnDestroy hooks run in reverse attach
// order across the whole scene. The scene must not be used afterwards.
func (s *Scene) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	for i := len(s.components) - 1; i >= 0; i-- {
		s.components[i].OnDestroy()
	}
	s.components = nil
	s.entities = nil
}
