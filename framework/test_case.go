package framework

import (
	"fmt"
	"sync"
	"time"
)

// Result is the outcome of a test case.
type Result string

const (
	// ResultNone means the test case has not completed (or has not run).
	ResultNone Result = ""
	// ResultPass means the test case completed without failures or errors.
	ResultPass Result = "pass"
	// ResultFail means an assertion failed.
	ResultFail Result = "fail"
	// ResultError means something other than an assertion went wrong.
	ResultError Result = "error"
)

// TestCase is one registered test. Its ID and description are fixed at registration time; its
// result and related fields describe the most recent run.
//
// A TestCase is safe to inspect from any goroutine.
type TestCase struct {
	id          int
	description string
	body        Action
	setUp       Action
	tearDown    Action
	enabled     bool

	// generation is bumped every time the case starts running, so that callbacks left over from
	// an earlier run can be recognized and ignored.
	generation  int
	result      Result
	message     string
	stackTrace  string
	outstanding int
	diagnostics []string
	startedAt   time.Time
	finishedAt  time.Time
	tearingDown bool
	finalized   bool
	completed   bool
	debugOutput CapturedOutput
	onComplete  func()
	onLate      func(message string)
	lock        sync.Mutex
}

func newTestCase(id int, description string, body, setUp, tearDown Action) *TestCase {
	return &TestCase{
		id:          id,
		description: description,
		body:        body,
		setUp:       setUp,
		tearDown:    tearDown,
		enabled:     true,
	}
}

// ID returns the 1-based registration number of the test case.
func (c *TestCase) ID() int { return c.id }

// Description returns the fully qualified name of the test case.
func (c *TestCase) Description() string { return c.description }

func (c *TestCase) String() string {
	return fmt.Sprintf("%d: %s", c.id, c.description)
}

// Enabled reports whether the scheduler will run this test case.
func (c *TestCase) Enabled() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.enabled
}

func (c *TestCase) setEnabled(enabled bool) {
	c.lock.Lock()
	c.enabled = enabled
	c.lock.Unlock()
}

// Result returns the outcome of the most recent run.
func (c *TestCase) Result() Result {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.result
}

// Passed reports whether the most recent run passed.
func (c *TestCase) Passed() bool {
	return c.Result() == ResultPass
}

// IsComplete reports whether the test case has a result.
func (c *TestCase) IsComplete() bool {
	return c.Result() != ResultNone
}

// Message returns the failure or error message, if any. Multiple assertion failures reported
// while the case is still running are joined with newlines.
func (c *TestCase) Message() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.message
}

// StackTrace returns the stack trace associated with the failure or error, if any.
func (c *TestCase) StackTrace() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.stackTrace
}

// Diagnostics returns problems that were reported after the test case had already completed.
// They do not change the result.
func (c *TestCase) Diagnostics() []string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]string(nil), c.diagnostics...)
}

// StartedAt returns the time the most recent run started.
func (c *TestCase) StartedAt() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.startedAt
}

// FinishedAt returns the time the most recent run was finalized.
func (c *TestCase) FinishedAt() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.finishedAt
}

// RunningTime returns how long the most recent run took, or zero if it has not finished.
func (c *TestCase) RunningTime() time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.finishedAt.IsZero() {
		return 0
	}
	return c.finishedAt.Sub(c.startedAt)
}

// DebugOutput returns whatever was written with T.Debug during the most recent run.
func (c *TestCase) DebugOutput() CapturedOutput {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append(CapturedOutput(nil), c.debugOutput...)
}

// begin resets per-run state and returns the new run generation. onComplete is called once, from
// whichever goroutine completes the case; onLate is called for every diagnostic reported after
// completion.
func (c *TestCase) begin(onComplete func(), onLate func(string)) int {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.generation++
	c.result = ResultNone
	c.message = ""
	c.stackTrace = ""
	c.outstanding = 0
	c.diagnostics = nil
	c.startedAt = time.Now()
	c.finishedAt = time.Time{}
	c.tearingDown = false
	c.finalized = false
	c.completed = false
	c.debugOutput = nil
	c.onComplete = onComplete
	c.onLate = onLate
	return c.generation
}

// terminal reports whether the case is done as far as a caller from generation gen is concerned.
// Callers from a previous run always see the case as done, with no result.
func (c *TestCase) terminal(gen int) (bool, Result) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if gen != c.generation {
		return true, ResultNone
	}
	return c.result != ResultNone, c.result
}

// passLocked completes the case successfully unless it already has a result. It must be called
// with the lock held, and releases it.
func (c *TestCase) passLocked() {
	if c.result != ResultNone {
		c.lock.Unlock()
		return
	}
	c.result = ResultPass
	c.unlockAndNotify()
}

// overridesPass reports whether a problem reported now replaces a pass. Only code run by the
// case's own teardown can do that; anything else arriving after a pass is late. Must be called
// with the lock held.
func (c *TestCase) overridesPass(fromTearDown bool) bool {
	return c.result == ResultPass && c.tearingDown && fromTearDown
}

// fail records an assertion failure. While the case is still running, failures after the first
// are appended to its message; once it has been finalized, or if it had already passed, a failure
// means something fired late and is reported as an error diagnostic instead. fromTearDown marks
// failures raised by the teardown itself.
func (c *TestCase) fail(gen int, message, trace string, fromTearDown bool) {
	c.lock.Lock()
	if gen != c.generation {
		c.lock.Unlock()
		return
	}
	switch {
	case c.result == ResultNone, c.overridesPass(fromTearDown):
		c.result = ResultFail
		c.message = message
		c.stackTrace = trace
		c.unlockAndNotify()
	case c.result == ResultFail && !c.finalized:
		c.message = c.message + "\n" + message
		c.lock.Unlock()
	default:
		c.lateError(fmt.Sprintf("fail called after test case already completed: %s", message))
	}
}

// error records an unexpected error. If the case already has a result, that result is kept and
// the error becomes a diagnostic.
func (c *TestCase) error(gen int, message, trace string, fromTearDown bool) {
	c.lock.Lock()
	if gen != c.generation {
		c.lock.Unlock()
		return
	}
	if c.result == ResultNone || c.overridesPass(fromTearDown) {
		c.result = ResultError
		c.message = message
		c.stackTrace = trace
		c.unlockAndNotify()
		return
	}
	c.lateError(message)
}

// late records a diagnostic without touching the result.
func (c *TestCase) late(gen int, message string) {
	c.lock.Lock()
	if gen != c.generation {
		c.lock.Unlock()
		return
	}
	c.lateError(message)
}

// lateError must be called with the lock held; it releases it.
func (c *TestCase) lateError(message string) {
	c.diagnostics = append(c.diagnostics, message)
	onLate := c.onLate
	c.lock.Unlock()
	if onLate != nil {
		onLate(message)
	}
}

// unlockAndNotify must be called with the lock held just after a result was set; it releases the
// lock and fires the completion hook if this is the first completion of the current run.
func (c *TestCase) unlockAndNotify() {
	var onComplete func()
	if !c.completed {
		c.completed = true
		onComplete = c.onComplete
	}
	c.lock.Unlock()
	if onComplete != nil {
		onComplete()
	}
}

func (c *TestCase) callbackStarted(gen int) {
	c.lock.Lock()
	if gen == c.generation {
		c.outstanding++
	}
	c.lock.Unlock()
}

// callbackComplete releases one unit of outstanding work. When none is left and nothing has
// failed, the case passes.
func (c *TestCase) callbackComplete(gen int) {
	c.lock.Lock()
	if gen != c.generation || c.outstanding == 0 {
		c.lock.Unlock()
		return
	}
	c.outstanding--
	if c.outstanding > 0 {
		c.lock.Unlock()
		return
	}
	c.passLocked()
}

// Outstanding returns the number of expected callbacks that have not completed yet.
func (c *TestCase) Outstanding() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.outstanding
}

func (c *TestCase) enterTearDown(gen int) {
	c.lock.Lock()
	if gen == c.generation {
		c.tearingDown = true
	}
	c.lock.Unlock()
}

func (c *TestCase) finalize(gen int) {
	c.lock.Lock()
	if gen == c.generation {
		c.tearingDown = false
		c.finalized = true
		c.finishedAt = time.Now()
	}
	c.lock.Unlock()
}

// debugf adds to the debug output of run gen; output from an earlier run is dropped.
func (c *TestCase) debugf(gen int, message string, args ...interface{}) {
	line := fmt.Sprintf(message, args...)
	c.lock.Lock()
	defer c.lock.Unlock()
	if gen == c.generation {
		c.debugOutput = c.debugOutput.add(c.startedAt, line)
	}
}
