package scenario

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/go-drift/observe/cmd/observe/internal/printer"
	"github.com/go-drift/observe/pkg/errors"
	"github.com/go-drift/observe/pkg/observable"
)

// Result summarizes a finished run.
type Result struct {
	// Value is the final value.
	Value int64
	// Subscribers is the number of relations held for named observers at the
	// end, Extra observers excluded.
	Subscribers int
	// Steps is the number of steps executed.
	Steps int
}

// Runner replays scenarios. Named observers print "name, value" to Out.
type Runner struct {
	Out    io.Writer
	Logger *slog.Logger
	// Extra observers are registered after the named ones and stay alive for
	// the whole run.
	Extra []observable.Observer[int64]
}

type run struct {
	*Runner
	value *observable.Value[int64, *observable.Box[int64]]
	// owned holds the only strong references to named observers.
	owned map[string]*observable.Box[int64]
}

// Run replays s. It stops at the first failing step.
func (r *Runner) Run(s *Scenario) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	st := &run{
		Runner: r,
		value:  observable.New[int64, *observable.Box[int64]](s.Initial),
		owned:  make(map[string]*observable.Box[int64]),
	}

	for _, name := range s.Observers {
		if err := st.attach(name); err != nil {
			return nil, err
		}
	}
	extra := make([]*observable.Box[int64], len(r.Extra))
	for i, o := range r.Extra {
		extra[i] = observable.NewBox(o)
		st.value.Register(observable.Weak(extra[i]))
	}
	logger.Debug("scenario started",
		slog.Int64("initial", s.Initial),
		slog.Int("observers", len(s.Observers)),
		slog.Int("extra", len(extra)),
	)

	for i, step := range s.Steps {
		logger.Debug("step", slog.Int("n", i+1), slog.String("op", string(step.Op)))
		if err := st.apply(step); err != nil {
			return nil, &errors.Error{
				Op:   "scenario.Run",
				Kind: errors.KindScenario,
				Step: i + 1,
				Err:  err,
			}
		}
	}

	res := &Result{
		Value:       st.value.Peek(),
		Subscribers: st.subscribers(),
		Steps:       len(s.Steps),
	}
	logger.Debug("scenario finished",
		slog.Int64("value", res.Value),
		slog.Int("subscribers", res.Subscribers),
	)
	runtime.KeepAlive(extra)
	runtime.KeepAlive(st.owned)
	return res, nil
}

func (st *run) attach(name string) error {
	if _, ok := st.owned[name]; ok {
		return fmt.Errorf("observer %q is already attached", name)
	}
	o := observable.Guard[int64](name, printer.New[int64](name, st.Out))
	box := observable.NewBox[int64](o)
	st.owned[name] = box
	st.value.Register(observable.Weak(box))
	return nil
}

// drop releases the only strong reference to the named observer and collects
// it, so its relation no longer resolves.
func (st *run) drop(name string) error {
	if _, ok := st.owned[name]; !ok {
		return fmt.Errorf("observer %q is not attached", name)
	}
	delete(st.owned, name)
	runtime.GC()
	return nil
}

// subscribers counts the relations of named observers, dropped ones included
// until they are pruned. Extra observers never die during a run, so their
// relations are subtracted as a fixed amount.
func (st *run) subscribers() int {
	return st.value.Len() - len(st.Extra)
}

func (st *run) apply(step Step) error {
	v := st.value
	switch step.Op {
	case OpSet:
		v.Set(*step.Value)
	case OpSetSilently:
		v.SetSilently(*step.Value)
	case OpSetIfChanged:
		observable.SetIfChanged(v, *step.Value)
	case OpTrigger:
		v.Trigger()
	case OpMutate:
		v.Mutate(step.mutation())
	case OpAttach:
		return st.attach(step.Observer)
	case OpDrop:
		return st.drop(step.Observer)
	case OpExpect:
		if step.Value != nil && v.Peek() != *step.Value {
			return fmt.Errorf("expected value %d, got %d", *step.Value, v.Peek())
		}
		if n := st.subscribers(); step.Subscribers != nil && n != *step.Subscribers {
			return fmt.Errorf("expected %d subscribers, got %d", *step.Subscribers, n)
		}
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

func (st Step) mutation() func(int64) int64 {
	if st.Add != nil {
		n := *st.Add
		return func(v int64) int64 { return v + n }
	}
	n := *st.Mul
	return func(v int64) int64 { return v * n }
}
