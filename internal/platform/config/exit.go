package config

import (
	"fmt"
	"io"
	"os"
)

// exit is swapped in tests that cannot tolerate a real process exit.
var exit = os.Exit

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	exitf(os.Stderr, format, args...)
}

// ExitOnError exits through Exitf when err is non-nil, prefixing the message
// with what was being attempted.
func ExitOnError(err error, doing string) {
	if err == nil {
		return
	}
	Exitf("%s: %v", doing, err)
}

func exitf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
	exit(1)
}
