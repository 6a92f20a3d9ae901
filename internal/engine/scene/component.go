package scene

// Component is a behavior attached to an entity. Lifecycle hooks are
// invoked by the scene and the engine loop.
type Component interface {
	// OnInit runs once when the component is attached to an entity.
	OnInit()
	// OnUpdate runs every rendered frame with the variable delta time.
	OnUpdate(dt float32)
	// OnFixedUpdate runs on the fixed simulation step, zero or more
	// times per rendered frame.
	OnFixedUpdate(dt float32)
	// OnDestroy runs when the owning entity or scene is torn down.
	OnDestroy()

	setOwner(e *Entity)
	Owner() *Entity
	Enabled() bool
	SetEnabled(v bool)
}

// BaseComponent provides owner wiring and the enabled flag. Embed it
// and override the lifecycle hooks you need.
type BaseComponent struct {
	owner   *Entity
	enabled bool
}

func (b *BaseComponent) OnInit()                  {}
func (b *BaseComponent) OnUpdate(dt float32)      {}
func (b *BaseComponent) OnFixedUpdate(dt float32) {}
func (b *BaseComponent) OnDestroy()               {}

func (b *BaseComponent) setOwner(e *Entity) {
	b.owner = e
	b.enabled = true
}

// Owner returns the entity this component is attached to.
func (b *BaseComponent) Owner() *Entity { return b.owner }

// Enabled reports whether the component receives updates.
func (b *BaseComponent) Enabled() bool { return b.enabled }

// SetEnabled toggles whether the component receives updates.
func (b *BaseComponent) SetEnabled(v bool) { b.enabled = v }

// Get returns the first component of type T attached to the entity,
// or the zero value and false if none is attached.
func Get[T Component](e *Entity) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}
	for _, c := range e.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// MustGet returns the first component of type T, panicking if absent.
// Use it for components the caller knows are attached.
func MustGet[T Component](e *Entity) T {
	t, ok := Get[T](e)
	if !ok {
		panic("scene: required component not attached to " + e.Name)
	}
	return t
}
