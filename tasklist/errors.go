package tasklist

import (
	"fmt"

	"github.com/pkg/errors"
)

// MalformedDocumentError is returned when the task list is not
// well-formed XML.
type MalformedDocumentError struct {
	Err error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed task list document: %s", e.Err.Error())
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// MissingCommandError is returned for a task that has neither a
// command nor a usable control panel element.
type MissingCommandError struct {
	// Task is the resolved name of the task
	Task   string
	Reason string
}

func (e *MissingCommandError) Error() string {
	return fmt.Sprintf("task %q has no command: %s", e.Task, e.Reason)
}

func IsMalformedDocument(err error) bool {
	_, ok := errors.Cause(err).(*MalformedDocumentError)
	return ok
}

func IsMissingCommand(err error) bool {
	_, ok := errors.Cause(err).(*MissingCommandError)
	return ok
}
