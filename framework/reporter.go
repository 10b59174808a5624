package framework

// Reporter receives notifications about the progress of a suite. The suite serializes calls to
// it, so implementations do not need their own locking.
type Reporter interface {
	// OnInit is called once, when the suite is created.
	OnInit()
	// OnStart is called when a run begins.
	OnStart()
	// OnTestStart is called before a test case's setup runs.
	OnTestStart(tc *TestCase)
	// OnTestResult is called when a test case has completed and its teardown has finished.
	OnTestResult(tc *TestCase)
	// OnTestResultChanged is called when a problem is reported against a test case after it had
	// already completed. The new diagnostic is the last element of tc.Diagnostics().
	OnTestResultChanged(tc *TestCase)
	// OnLogMessage is called for each T.Log call.
	OnLogMessage(tc *TestCase, message string)
	// OnSummary is called when every test case has been run. uncaughtError is empty unless an
	// error happened outside of any test case, such as while registering a group.
	OnSummary(passed, failed, errored int, cases []*TestCase, uncaughtError string)
	// OnDone is called last, with the overall outcome of the run.
	OnDone(success bool)
}

type nullReporter struct{}

func (n nullReporter) OnInit()                                      {}
func (n nullReporter) OnStart()                                     {}
func (n nullReporter) OnTestStart(*TestCase)                        {}
func (n nullReporter) OnTestResult(*TestCase)                       {}
func (n nullReporter) OnTestResultChanged(*TestCase)                {}
func (n nullReporter) OnLogMessage(*TestCase, string)               {}
func (n nullReporter) OnSummary(int, int, int, []*TestCase, string) {}
func (n nullReporter) OnDone(bool)                                  {}
