package apps

import "fmt"

// ArgumentError reports a missing or malformed command-line flag.
type ArgumentError struct {
	Flag string
	msg  string
}

func NewArgumentError(flag, msg string) *ArgumentError {
	return &ArgumentError{Flag: flag, msg: msg}
}

func (err *ArgumentError) Error() string {
	if err.Flag == "" {
		return err.msg
	}
	return fmt.Sprintf("-%s: %s", err.Flag, err.msg)
}
