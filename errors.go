package wikiz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

// Hook Execution Errors
//
// These errors are reported by Invoke. InvokeSafe never returns them; it
// converts them into an inline error marker instead.

// ErrNilReceiver is returned when hooks are invoked without an entity.
var ErrNilReceiver = errors.New("hook receiver is nil")

// ErrCallbackFailed is matched by every CallbackError whose callback
// returned a non-nil error.
var ErrCallbackFailed = errors.New("hook callback failed")

// ErrCallbackPanicked is matched by every CallbackError whose callback
// panicked. The panic is recovered so the remaining callbacks still run.
var ErrCallbackPanicked = errors.New("hook callback panicked")

// CallbackError describes a single failed callback.
type CallbackError struct {
	Owner TypeID // Type the callback was registered against
	Event Event  // Event being invoked
	Index int    // Registration position within the owner's list
	Err   error  // Underlying failure
	panic bool
}

func (e *CallbackError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes both the underlying error and the matching sentinel.
func (e *CallbackError) Unwrap() []error {
	if e.panic {
		return []error{e.Err, ErrCallbackPanicked}
	}
	return []error{e.Err, ErrCallbackFailed}
}

func newPanicError(owner TypeID, event Event, index int, recovered any) *CallbackError {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}
	return &CallbackError{Owner: owner, Event: event, Index: index, Err: err, panic: true}
}

// combine merges callback failures into one error, nil when there are none.
func combine(errs []error) error {
	return multierr.Combine(errs...)
}

// Configuration Errors
//
// These errors are raised at startup when preconditions are violated.

// MultiError aggregates several failed conditions into one reportable error.
// The message lists each condition name on its own line.
type MultiError struct {
	Conditions []string
	err        error
}

func (e *MultiError) Error() string {
	return strings.Join(e.Conditions, "\n")
}

// Unwrap returns one error per failed condition.
func (e *MultiError) Unwrap() []error {
	return multierr.Errors(e.err)
}

// Forbid returns a MultiError naming every condition that holds, or nil when
// none does. Names are reported in sorted order.
//
// Example:
//
//	err := wikiz.Forbid(map[string]bool{
//		"root directory is required": cfg.Root == "",
//		"locale is required":         cfg.Locale == "",
//	})
func Forbid(conds map[string]bool) error {
	var failed []string
	for name, violated := range conds {
		if violated {
			failed = append(failed, name)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	sort.Strings(failed)

	var err error
	for _, name := range failed {
		err = multierr.Append(err, errors.New(name))
	}
	return &MultiError{Conditions: failed, err: err}
}
