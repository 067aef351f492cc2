// Package observable provides a reactive value container that notifies
// observers when its value changes.
//
// A Value holds the current value and a list of weak relations to its
// observers. Registering an observer never keeps it alive: once the caller
// releases the last reference and the garbage collector reclaims it, the
// relation stops resolving and is pruned on the next notification pass.
//
// # Observers
//
// Anything with an Update method satisfies Observer:
//
//	type printer struct{ name string }
//
//	func (p *printer) Update(n int) { fmt.Println(p.name, n) }
//
//	counter := observable.New[int, *printer](5)
//	p := &printer{name: "p"}
//	counter.Register(observable.Weak(p))
//	counter.Set(6) // prints "p 6"
//
// To keep observers of different concrete types on one Value, wrap each in a
// Box and use *Box[T] as the observer type:
//
//	v := observable.New[int, *observable.Box[int]](100)
//	a := observable.NewBox[int](logger)
//	b := observable.NewBox[int](observable.ObserverFunc[int](record))
//	v.Register(observable.Weak(a))
//	v.Register(observable.Weak(b))
//
// # Updating
//
// SetSilently replaces the value without notifying anyone. Trigger prunes dead
// relations and pushes the current value to the live ones. Set is
// SetSilently followed by Trigger, so observers always see the committed value
// and a Peek from inside Update returns the same value. Mutate, SetIfChanged
// and SetIfChangedFunc are built on the same three primitives and work with
// any Observable.
//
// Value is not safe for concurrent use.
package observable
