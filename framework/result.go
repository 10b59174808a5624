package framework

import (
	"time"
)

// Results is the outcome of one run of a suite.
type Results struct {
	RunID         string
	StartTime     time.Time
	EndTime       time.Time
	Passed        int
	Failed        int
	Errored       int
	Skipped       int
	Tests         []TestResult
	UncaughtError string
	Success       bool
}

// TestResult is a snapshot of one test case at the end of a run.
type TestResult struct {
	ID          int
	Description string
	Enabled     bool
	Result      Result
	Message     string
	StackTrace  string
	Diagnostics []string
	DebugOutput CapturedOutput
	Duration    time.Duration
}

// OK reports whether the run succeeded: at least one test passed, none failed or errored, and
// nothing went wrong outside of a test.
func (r Results) OK() bool {
	return r.Success
}

// Failures returns the results of tests that failed or errored.
func (r Results) Failures() []TestResult {
	var ret []TestResult
	for _, t := range r.Tests {
		if t.Result == ResultFail || t.Result == ResultError {
			ret = append(ret, t)
		}
	}
	return ret
}

func snapshot(tc *TestCase) TestResult {
	tc.lock.Lock()
	defer tc.lock.Unlock()
	ret := TestResult{
		ID:          tc.id,
		Description: tc.description,
		Enabled:     tc.enabled,
		Result:      tc.result,
		Message:     tc.message,
		StackTrace:  tc.stackTrace,
		Diagnostics: append([]string(nil), tc.diagnostics...),
		DebugOutput: append(CapturedOutput(nil), tc.debugOutput...),
	}
	if !tc.finishedAt.IsZero() {
		ret.Duration = tc.finishedAt.Sub(tc.startedAt)
	}
	return ret
}
