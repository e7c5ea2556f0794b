package main

import "fmt"

// Exit codes. A missing snippet is a normal result and exits 0.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, backend failure)
	ExitConfigError = 2 // Configuration error (bad config file, unknown backend)
	ExitDataError   = 3 // Data error (empty keyword)
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// ExitCode returns the process exit code.
func (e *exitError) ExitCode() int { return e.code }

func exitErrorf(code int, format string, args ...interface{}) error {
	return &exitError{code: code, msg: fmt.Sprintf(format, args...)}
}
