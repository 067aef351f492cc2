package observable

// Value holds a value of type T and notifies observers of type O when it
// changes.
//
// Observers are registered through weak relations, so a Value never keeps an
// observer alive. Relations whose observer has been collected are dropped the
// next time the value triggers.
//
// Value is NOT thread-safe.
type Value[T any, O Observer[T]] struct {
	value       T
	subscribers []Ref[O]
}

// New creates a Value holding initial with no subscribers.
func New[T any, O Observer[T]](initial T) *Value[T, O] {
	return &Value[T, O]{value: initial}
}

// Register appends ref to the subscriber list.
//
// Duplicates are kept and each receives its own update. A relation that no
// longer resolves is accepted and pruned on the next Trigger.
func (v *Value[T, O]) Register(ref Ref[O]) {
	v.subscribers = append(v.subscribers, ref)
}

// Peek returns the current value without notifying anyone.
func (v *Value[T, O]) Peek() T {
	return v.value
}

// SetSilently replaces the value without pruning or notifying.
func (v *Value[T, O]) SetSilently(value T) {
	v.value = value
}

// Trigger drops relations whose observer is gone, then sends the current
// value to every remaining observer in registration order.
//
// If an observer changes the value from inside Update, the nested Trigger runs
// to completion first and the outer pass carries on with the value it started
// with. Observers after that one in the outer pass therefore see the new value
// and then the old one, and end the pass holding a stale value while Peek
// returns the new one. Callers that need the latest value should Peek.
func (v *Value[T, O]) Trigger() {
	v.Clean()

	value := v.value
	for _, ref := range v.subscribers {
		o, ok := ref.Value()
		if !ok {
			// Collected after Clean.
			continue
		}
		o.Update(value)
	}
}

// Set replaces the value and triggers an update.
func (v *Value[T, O]) Set(value T) {
	Set[T](v, value)
}

// Mutate replaces the value with f applied to the current one and triggers
// an update.
func (v *Value[T, O]) Mutate(f func(T) T) {
	Mutate[T](v, f)
}

// Clean drops relations whose observer is gone, keeping the order of the
// rest. It does not notify anyone.
func (v *Value[T, O]) Clean() {
	dead := 0
	for _, ref := range v.subscribers {
		if !ref.Alive() {
			dead++
		}
	}
	if dead == 0 {
		return
	}

	// A pass further up the stack may still be ranging over the old slice.
	live := make([]Ref[O], 0, len(v.subscribers)-dead)
	for _, ref := range v.subscribers {
		if ref.Alive() {
			live = append(live, ref)
		}
	}
	v.subscribers = live
}

// Len returns the number of registered relations, including ones whose
// observer may already be gone.
func (v *Value[T, O]) Len() int {
	return len(v.subscribers)
}
