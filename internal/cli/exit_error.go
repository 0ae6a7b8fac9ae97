// internal/cli/exit_error.go
package cli

import "fmt"

// ExitError carries a non-zero exit code out of a command. Err is nil when
// the failure was already reported.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
