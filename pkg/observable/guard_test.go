package observable

import (
	"runtime"
	"slices"
	"testing"

	"github.com/go-drift/observe/pkg/errors"
)

type panicCapture struct {
	panics []*errors.PanicError
}

func (c *panicCapture) HandleError(*errors.Error) {}

func (c *panicCapture) HandlePanic(err *errors.PanicError) {
	c.panics = append(c.panics, err)
}

func TestGuard_IsolatesPanickingObserver(t *testing.T) {
	capture := &panicCapture{}
	errors.SetHandler(capture)
	defer errors.SetHandler(nil)

	v := New[int, *Box[int]](0)
	guarded := Guard[int]("faulty", ObserverFunc[int](func(int) {
		panic("observer failed")
	}))
	faulty := NewBox[int](guarded)
	var got []int
	healthy := NewBox[int](ObserverFunc[int](func(n int) { got = append(got, n) }))
	v.Register(Weak(faulty))
	v.Register(Weak(healthy))

	v.Set(1)

	if !slices.Equal(got, []int{1}) {
		t.Errorf("Expected healthy observer to get [1], got %v", got)
	}
	if v.Peek() != 1 {
		t.Errorf("Expected 1, got %d", v.Peek())
	}
	if len(capture.panics) != 1 {
		t.Fatalf("Expected 1 reported panic, got %d", len(capture.panics))
	}
	if capture.panics[0].Op != "faulty" {
		t.Errorf("Op = %q, want %q", capture.panics[0].Op, "faulty")
	}
	if capture.panics[0].Value != "observer failed" {
		t.Errorf("Value = %v, want %q", capture.panics[0].Value, "observer failed")
	}

	v.Set(2)
	if guarded.Recovered() != 2 {
		t.Errorf("Expected 2 recovered panics, got %d", guarded.Recovered())
	}
	if !slices.Equal(got, []int{1, 2}) {
		t.Errorf("Expected healthy observer to get [1 2], got %v", got)
	}
	runtime.KeepAlive(faulty)
	runtime.KeepAlive(healthy)
}

func TestGuard_ForwardsUpdates(t *testing.T) {
	r := &recorder{}
	g := Guard[int]("recorder", r)

	g.Update(4)
	g.Update(5)

	if !slices.Equal(r.got, []int{4, 5}) {
		t.Errorf("Expected [4 5], got %v", r.got)
	}
	if g.Recovered() != 0 {
		t.Errorf("Expected no recovered panics, got %d", g.Recovered())
	}
}

func TestBox_Empty(t *testing.T) {
	v := New[int, *Box[int]](0)
	empty := &Box[int]{}
	v.Register(Weak(empty))

	// An empty box swallows the update.
	v.Set(1)

	if v.Len() != 1 {
		t.Errorf("Expected 1 subscriber, got %d", v.Len())
	}
	runtime.KeepAlive(empty)
}

func TestBox_Heterogeneous(t *testing.T) {
	v := New[int, *Box[int]](100)

	r := &recorder{}
	var viaFunc []int
	a := NewBox[int](r)
	b := NewBox[int](ObserverFunc[int](func(n int) { viaFunc = append(viaFunc, n) }))
	v.Register(Weak(a))
	v.Register(Weak(b))

	v.Set(200)
	v.Mutate(func(n int) int { return n + 10 })

	if !slices.Equal(r.got, []int{200, 210}) {
		t.Errorf("recorder: expected [200 210], got %v", r.got)
	}
	if !slices.Equal(viaFunc, []int{200, 210}) {
		t.Errorf("func: expected [200 210], got %v", viaFunc)
	}
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}

func TestBox_ReleasedWhileInnerLives(t *testing.T) {
	v := New[int, *Box[int]](0)
	r := &recorder{}
	func() {
		v.Register(Weak(NewBox[int](r)))
	}()
	collect()

	v.Set(1)

	// The Box was the registered referent; the inner observer staying alive
	// does not keep the relation resolvable.
	if len(r.got) != 0 {
		t.Errorf("Expected no updates, got %v", r.got)
	}
	if v.Len() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", v.Len())
	}
}

func TestRef_Alive(t *testing.T) {
	r := &recorder{}
	ref := Weak(r)

	got, ok := ref.Value()
	if !ok || got != r {
		t.Errorf("Expected ref to resolve to r")
	}
	if !ref.Alive() {
		t.Error("Expected ref to be alive")
	}

	var zero Ref[*recorder]
	if zero.Alive() {
		t.Error("Zero Ref should not resolve")
	}
	runtime.KeepAlive(r)
}
