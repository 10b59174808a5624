package framework

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassifyFailure(t *testing.T) {
	o := classify(NewFailure("expected %d", 3), "stack")
	assert.Equal(t, outcome{result: ResultFail, message: "expected 3", trace: "stack"}, o)
}

func TestClassifyWrappedFailure(t *testing.T) {
	o := classify(errors.Wrap(NewFailure("expected 3"), "while checking"), "stack")
	assert.Equal(t, ResultFail, o.result)
	assert.Equal(t, "while checking: expected 3", o.message)
}

func TestClassifyPlainError(t *testing.T) {
	o := classify(fmt.Errorf("no such thing"), "stack")
	assert.Equal(t, outcome{result: ResultError, message: "caught no such thing", trace: "stack"}, o)
}

func TestClassifyErrorWithStackUsesItsOwnTrace(t *testing.T) {
	o := classify(errors.New("no such thing"), "stack")
	assert.Equal(t, ResultError, o.result)
	assert.Equal(t, "caught no such thing", o.message)
	assert.Contains(t, o.trace, "TestClassifyErrorWithStackUsesItsOwnTrace")
}

func TestClassifyOtherValue(t *testing.T) {
	o := classify(42, "stack")
	assert.Equal(t, outcome{result: ResultError, message: "caught 42", trace: "stack"}, o)
}

func TestCallerStackStartsAtCaller(t *testing.T) {
	trace := helperThatCapturesCaller()
	assert.Contains(t, trace, "TestCallerStackStartsAtCaller")
	assert.NotContains(t, trace, "helperThatCapturesCaller")
}

//go:noinline
func helperThatCapturesCaller() string {
	return callerStack()
}
