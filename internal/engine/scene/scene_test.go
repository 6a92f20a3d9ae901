package scene

import (
	"testing"

	"github.com/mechanicchickendev/froggi/pkg/math"
)

type recorderComponent struct {
	BaseComponent

	id      string
	log     *[]string
	inits   int
	updates int
	fixed   int
}

func (r *recorderComponent) OnInit()                  { r.inits++ }
func (r *recorderComponent) OnUpdate(dt float32)      { r.updates++ }
func (r *recorderComponent) OnFixedUpdate(dt float32) { r.fixed++ }
func (r *recorderComponent) OnDestroy() {
	if r.log != nil {
		*r.log = append(*r.log, r.id)
	}
}

func TestCreateEntityDefaults(t *testing.T) {
	s := New("test")
	e := s.CreateEntity("player")

	if e.Name != "player" {
		t.Errorf("Name = %q, want player", e.Name)
	}
	if !e.Active {
		t.Error("new entity should be active")
	}
	if e.Scale != math.One() {
		t.Errorf("Scale = %v, want unit", e.Scale)
	}
	if s.FindEntity("player") != e {
		t.Error("FindEntity should return the created entity")
	}
	if s.FindEntity("ghost") != nil {
		t.Error("FindEntity should return nil for unknown names")
	}
}

func TestAttachRunsInit(t *testing.T) {
	s := New("test")
	e := s.CreateEntity("player")
	c := &recorderComponent{}

	s.Attach(e, c)

	if c.inits != 1 {
		t.Errorf("inits = %d, want 1", c.inits)
	}
	if c.Owner() != e {
		t.Error("owner should be set on attach")
	}
	if !c.Enabled() {
		t.Error("component should be enabled after attach")
	}
}

func TestAttachTwiceIgnored(t *testing.T) {
	s := New("test")
	a := s.CreateEntity("a")
	b := s.CreateEntity("b")
	c := &recorderComponent{}

	s.Attach(a, c)
	s.Attach(b, c)

	if c.Owner() != a {
		t.Error("second attach should not change the owner")
	}
	if len(b.Components()) != 0 {
		t.Error("second attach should not register on the new entity")
	}
	if c.inits != 1 {
		t.Errorf("inits = %d, want 1", c.inits)
	}
}

func TestGetComponent(t *testing.T) {
	s := New("test")
	e := s.CreateEntity("player")
	s.Attach(e, &recorderComponent{id: "rec"})
	s.Attach(e, NewMeshComponent("cube", "checker"))

	mc, ok := Get[*MeshComponent](e)
	if !ok {
		t.Fatal("expected to find MeshComponent")
	}
	if mc.MeshName != "cube" {
		t.Errorf("MeshName = %q, want cube", mc.MeshName)
	}

	if _, ok := Get[*MeshComponent](s.CreateEntity("empty")); ok {
		t.Error("Get on entity without the component should report false")
	}
}

func TestUpdateSkipsDisabledAndInactive(t *testing.T) {
	s := New("test")

	active := s.CreateEntity("active")
	ca := &recorderComponent{}
	s.Attach(active, ca)

	disabled := s.CreateEntity("disabled-comp")
	cd := &recorderComponent{}
	s.Attach(disabled, cd)
	cd.SetEnabled(false)

	inactive := s.CreateEntity("inactive")
	ci := &recorderComponent{}
	s.Attach(inactive, ci)
	inactive.Active = false

	s.Update(0.016)
	s.FixedUpdate(1.0 / 60.0)

	if ca.updates != 1 || ca.fixed != 1 {
		t.Errorf("active component got updates=%d fixed=%d, want 1/1", ca.updates, ca.fixed)
	}
	if cd.updates != 0 || cd.fixed != 0 {
		t.Error("disabled component should not update")
	}
	if ci.updates != 0 || ci.fixed != 0 {
		t.Error("component on inactive entity should not update")
	}
}

func TestInactiveParentBlocksChildren(t *testing.T) {
	s := New("test")
	parent := s.CreateEntity("parent")
	child := s.CreateEntity("child")
	child.SetParent(parent)

	c := &recorderComponent{}
	s.Attach(child, c)
	parent.Active = false

	s.Update(0.016)

	if c.updates != 0 {
		t.Error("child of inactive parent should not update")
	}
}

func TestDestroyReverseOrder(t *testing.T) {
	s := New("test")
	var log []string

	a := s.CreateEntity("a")
	s.Attach(a, &recorderComponent{id: "first", log: &log})
	b := s.CreateEntity("b")
	s.Attach(b, &recorderComponent{id: "second", log: &log})
	s.Attach(a, &recorderComponent{id: "third", log: &log})

	s.Destroy()

	want := []string{"third", "second", "first"}
	if len(log) != len(want) {
		t.Fatalf("destroy log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("destroy log = %v, want %v", log, want)
		}
	}

	// A second Destroy is a no-op.
	s.Destroy()
	if len(log) != 3 {
		t.Error("double Destroy should not run hooks again")
	}
}

func TestDestroyEntityTakesChildren(t *testing.T) {
	s := New("test")
	var log []string

	parent := s.CreateEntity("parent")
	child := s.CreateEntity("child")
	child.SetParent(parent)
	s.Attach(parent, &recorderComponent{id: "parent", log: &log})
	s.Attach(child, &recorderComponent{id: "child", log: &log})

	s.DestroyEntity(parent)

	if s.FindEntity("parent") != nil || s.FindEntity("child") != nil {
		t.Error("destroyed entities should not be findable")
	}
	if len(log) != 2 || log[0] != "child" || log[1] != "parent" {
		t.Errorf("destroy log = %v, want [child parent]", log)
	}
}

func TestWorldMatrixComposition(t *testing.T) {
	s := New("test")
	parent := s.CreateEntity("parent")
	parent.Position = math.Vec3{X: 10, Y: 0, Z: 0}
	child := s.CreateEntity("child")
	child.SetParent(parent)
	child.Position = math.Vec3{X: 0, Y: 5, Z: 0}

	got := child.WorldMatrix().TransformPoint(math.Vec3{})
	want := math.Vec3{X: 10, Y: 5, Z: 0}
	if got.Sub(want).Length() > 1e-5 {
		t.Errorf("child world origin = %v, want %v", got, want)
	}

	if wp := child.WorldPosition(); wp.Sub(want).Length() > 1e-5 {
		t.Errorf("WorldPosition = %v, want %v", wp, want)
	}
}
