package framework

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/pkg/errors"
)

// Failure is an assertion failure. A test that panics with a *Failure, calls T.Fail or T.Errorf,
// or settles a Future with a *Failure is marked as failed rather than errored.
type Failure struct {
	Message string
}

// NewFailure creates a Failure with a formatted message.
func NewFailure(format string, args ...interface{}) *Failure {
	return &Failure{Message: fmt.Sprintf(format, args...)}
}

func (f *Failure) Error() string {
	return f.Message
}

// panicError carries a value recovered outside of a test's own call stack, such as in a
// continuation run from the loop, so it can be attributed later with the stack it was raised on.
type panicError struct {
	value interface{}
	stack string
}

func (p *panicError) Error() string {
	return fmt.Sprintf("%v", p.value)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// outcome is what a recovered panic value or a rejection error means for a test case.
type outcome struct {
	result  Result
	message string
	trace   string
}

func classify(value interface{}, stack string) outcome {
	switch v := value.(type) {
	case *Failure:
		return outcome{result: ResultFail, message: v.Message, trace: stack}
	case error:
		var f *Failure
		if errors.As(v, &f) {
			return outcome{result: ResultFail, message: v.Error(), trace: stack}
		}
		if st, ok := v.(stackTracer); ok {
			stack = strings.TrimPrefix(fmt.Sprintf("%+v", st.StackTrace()), "\n")
		}
		return outcome{result: ResultError, message: "caught " + v.Error(), trace: stack}
	default:
		return outcome{result: ResultError, message: fmt.Sprintf("caught %v", value), trace: stack}
	}
}

func recoveredStack() string {
	return string(debug.Stack())
}

// callerStack returns the stack of whoever called the function calling callerStack.
func callerStack() string {
	st := errors.New("").(stackTracer).StackTrace()
	if len(st) > 2 {
		st = st[2:]
	}
	return strings.TrimPrefix(fmt.Sprintf("%+v", st), "\n")
}
