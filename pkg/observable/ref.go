package observable

import "weak"

// Ref is a non-owning relation to an observer.
//
// Holding a Ref does not keep the observer alive. The zero Ref never
// resolves.
type Ref[P any] struct {
	resolve func() (P, bool)
}

// Weak returns a Ref to p. The Ref stops resolving once p has been garbage
// collected. Weak(nil) returns a Ref that never resolves.
func Weak[E any](p *E) Ref[*E] {
	if p == nil {
		return Ref[*E]{}
	}
	w := weak.Make(p)
	return Ref[*E]{
		resolve: func() (*E, bool) {
			e := w.Value()
			return e, e != nil
		},
	}
}

// Value resolves the relation. It reports false if the observer is gone.
func (r Ref[P]) Value() (P, bool) {
	if r.resolve == nil {
		var zero P
		return zero, false
	}
	return r.resolve()
}

// Alive reports whether the relation still resolves.
func (r Ref[P]) Alive() bool {
	_, ok := r.Value()
	return ok
}
