// Package printer provides an observer that writes each update as a line of
// text.
package printer

import (
	"fmt"
	"io"
)

// Printer writes "name, value" to Out for every update it receives.
type Printer[T any] struct {
	Name string
	Out  io.Writer
}

// New returns a Printer named name writing to out.
func New[T any](name string, out io.Writer) *Printer[T] {
	return &Printer[T]{Name: name, Out: out}
}

// Update implements observable.Observer.
func (p *Printer[T]) Update(value T) {
	fmt.Fprintf(p.Out, "%s, %v\n", p.Name, value)
}
