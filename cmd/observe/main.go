// Command observe demonstrates observable values with weakly held observers.
package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/go-drift/observe/cmd/observe/cmd"
	"github.com/go-drift/observe/pkg/errors"
)

func main() {
	defer errors.Recover("observe.main")

	if err := cmd.Execute(os.Args[1:]); err != nil {
		var oe *errors.Error
		if stderrors.As(err, &oe) {
			errors.Report(oe)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
