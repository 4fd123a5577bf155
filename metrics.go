package wikiz

import (
	"sync/atomic"
	"time"
)

// Metrics provides observability data for a Registry.
// Counter fields are updated with atomic operations.
type Metrics struct {
	// Invocation Counters
	Invocations       int64 // Invoke calls, including those made by InvokeSafe
	CallbacksRun      int64 // Callbacks executed across all invocations
	CallbackFailures  int64 // Callbacks that returned an error or panicked
	ContainedFailures int64 // InvokeSafe calls that degraded to an error marker

	// Registration Metrics
	RegisteredHooks int64 // Callbacks stored across all owners and events
	DefinedTypes    int64 // Types with an explicit parent edge

	// Accumulated time spent inside Invoke
	InvokeTime time.Duration
}

func readDuration(d *time.Duration) time.Duration {
	return time.Duration(atomic.LoadInt64((*int64)(d)))
}
