package observable

// Observer receives updates from an Observable.
type Observer[T any] interface {
	// Update is called with the committed value each time the observable
	// triggers.
	Update(value T)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc[T any] func(value T)

// Update calls f(value).
func (f ObserverFunc[T]) Update(value T) {
	f(value)
}

// Box owns an observer of any concrete type and forwards updates to it.
//
// A Value[T, *Box[T]] can hold observers of different types sharing the same
// value type. The caller keeps the *Box alive; the Value only refers to it
// weakly.
type Box[T any] struct {
	Observer Observer[T]
}

// NewBox wraps o in a Box.
func NewBox[T any](o Observer[T]) *Box[T] {
	return &Box[T]{Observer: o}
}

// Update forwards value to the wrapped observer. An empty Box ignores it.
func (b *Box[T]) Update(value T) {
	if b.Observer == nil {
		return
	}
	b.Observer.Update(value)
}
