package observable

// Observable is the set of primitives the helpers in this package build on.
// *Value implements it.
type Observable[T any] interface {
	// Peek returns the current value without side effects.
	Peek() T
	// SetSilently replaces the value without notifying observers.
	SetSilently(value T)
	// Trigger notifies observers of the current value.
	Trigger()
}

// Set commits value and then notifies observers, so they always see the new
// value.
func Set[T any](o Observable[T], value T) {
	o.SetSilently(value)
	o.Trigger()
}

// SetIfChanged calls Set only if value differs from the current one.
// It reports whether observers were notified.
func SetIfChanged[T comparable](o Observable[T], value T) bool {
	if value == o.Peek() {
		return false
	}
	Set(o, value)
	return true
}

// SetIfChangedFunc is like SetIfChanged but compares with equal, for value
// types that are not comparable or need a looser notion of equality.
func SetIfChangedFunc[T any](o Observable[T], value T, equal func(a, b T) bool) bool {
	if equal(value, o.Peek()) {
		return false
	}
	Set(o, value)
	return true
}

// Mutate sets the value to f(o.Peek()) and notifies observers.
func Mutate[T any](o Observable[T], f func(T) T) {
	Set(o, f(o.Peek()))
}
