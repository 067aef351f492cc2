package cmd

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-drift/observe/cmd/observe/internal/printer"
	"github.com/go-drift/observe/pkg/observable"
)

func init() {
	RegisterCommand(&Command{
		Name:  "demo",
		Short: "Run the built-in demonstration",
		Long: `Run two short demonstrations of weakly held observers.

The first registers three printers of one concrete type on a value of 5,
sets it to 6, releases the third printer and sets it to 7. The second does
the same with boxed observers on a value of 100: set to 200, release the
third, then add 10.

Each observer prints "name, value" for every update it receives. Released
observers print nothing after they are gone.`,
		Usage:   "observe demo [-v LEVEL]",
		Options: func() any { return &demoOptions{} },
		Run:     runDemo,
	})
}

type demoOptions struct {
	commonOptions
}

func runDemo(_ any, _ []string) error {
	fmt.Fprintln(stdout, "-- concrete observers --")
	demoConcrete()
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "-- boxed observers --")
	demoBoxed()
	return nil
}

func demoConcrete() {
	v := observable.New[int, *printer.Printer[int]](5)

	one := printer.New[int]("obs1", stdout)
	two := printer.New[int]("obs2", stdout)
	v.Register(observable.Weak(one))
	v.Register(observable.Weak(two))

	func() {
		three := printer.New[int]("obs3", stdout)
		v.Register(observable.Weak(three))
		v.Set(6)
	}()
	release()

	v.Set(7)
	slog.Debug("demo finished", slog.String("phase", "concrete"), slog.Int("subscribers", v.Len()))
	runtime.KeepAlive(one)
	runtime.KeepAlive(two)
}

func demoBoxed() {
	v := observable.New[int, *observable.Box[int]](100)

	one := observable.NewBox[int](printer.New[int]("obs1", stdout))
	two := observable.NewBox[int](printer.New[int]("obs2", stdout))
	v.Register(observable.Weak(one))
	v.Register(observable.Weak(two))

	func() {
		three := observable.NewBox[int](printer.New[int]("obs3", stdout))
		v.Register(observable.Weak(three))
		v.Set(200)
	}()
	release()

	v.Mutate(func(n int) int { return n + 10 })
	slog.Debug("demo finished", slog.String("phase", "boxed"), slog.Int("subscribers", v.Len()))
	runtime.KeepAlive(one)
	runtime.KeepAlive(two)
}

// release collects observers whose owner has let go of them.
func release() {
	runtime.GC()
}
