package observable

import "github.com/go-drift/observe/pkg/errors"

// Guarded wraps an observer and recovers panics raised by its Update.
//
// Recovered panics are reported through errors.ReportPanic with Op set to the
// name given to Guard. The remaining observers of the same pass still receive
// their update.
type Guarded[T any] struct {
	op        string
	inner     Observer[T]
	recovered int
}

// Guard wraps o so that a panic in o.Update is reported instead of
// propagating. op names the observer in the report.
func Guard[T any](op string, o Observer[T]) *Guarded[T] {
	return &Guarded[T]{op: op, inner: o}
}

// Update forwards value to the wrapped observer.
func (g *Guarded[T]) Update(value T) {
	defer errors.RecoverWithCallback(g.op, func(any) { g.recovered++ })
	g.inner.Update(value)
}

// Recovered returns how many updates ended in a recovered panic.
func (g *Guarded[T]) Recovered() int {
	return g.recovered
}
