package config

import (
	"fmt"
	"io"
	"os"
)

var (
	exitWriter io.Writer = os.Stderr
	exitFunc             = os.Exit
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// It provides a consistent fatal-exit pattern for CLI entry points.
func Exitf(format string, args ...any) {
	fmt.Fprintf(exitWriter, format+"\n", args...)
	exitFunc(1)
}

// ExitOnError exits through Exitf when err is non-nil, prefixing the message
// with what was being attempted.
func ExitOnError(err error, doing string) {
	if err == nil {
		return
	}
	Exitf("%s: %v", doing, err)
}
