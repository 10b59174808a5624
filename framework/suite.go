package framework

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

type runState int

const (
	stateIdle runState = iota
	stateScheduled
	stateRunning
	stateFinished
)

// Suite owns an ordered list of test cases and runs them one at a time.
//
// Registration, filtering and the Run/Wait family of methods must be called from a single
// goroutine. Test cases are executed on whichever goroutine is inside Run or Wait. The functions
// returned by ExpectAsync and ProtectAsync, and Futures returned by test bodies, may be called or
// settled from any goroutine.
type Suite struct {
	config        Config
	reporter      Reporter
	loop          *loop
	cases         []*TestCase
	lastID        int
	root          *groupContext
	current       *groupContext
	soloSeen      bool
	soloNesting   int
	skipNesting   int
	uncaughtError string
	cursor        int
	state         runState
	done          chan struct{}
	results       Results
	reportLock    sync.Mutex
}

// NewSuite creates an empty suite. A nil reporter discards all notifications.
func NewSuite(config Config, reporter Reporter) *Suite {
	if reporter == nil {
		reporter = nullReporter{}
	}
	s := &Suite{
		config:   config.withDefaults(),
		reporter: reporter,
		loop:     newLoop(),
	}
	s.root = newRootGroup()
	s.current = s.root
	s.report(func(r Reporter) { r.OnInit() })
	return s
}

func (s *Suite) report(fn func(Reporter)) {
	s.reportLock.Lock()
	defer s.reportLock.Unlock()
	fn(s.reporter)
}

// Test registers a synchronous test. It runs within the innermost enclosing group.
func (s *Suite) Test(description string, body func(*T)) {
	s.addTest(description, Sync(body), false, false)
}

// TestAsync registers a test whose body may return a Future; the test is not complete until the
// Future settles and every expected callback has been called.
func (s *Suite) TestAsync(description string, body Action) {
	s.addTest(description, body, false, false)
}

// SoloTest registers a test and restricts the suite to solo tests and tests inside solo groups.
// Tests registered earlier are discarded, along with their IDs, and later non-solo tests are
// ignored.
func (s *Suite) SoloTest(description string, body func(*T)) {
	s.addTest(description, Sync(body), true, false)
}

// SoloTestAsync is the asynchronous form of SoloTest.
func (s *Suite) SoloTestAsync(description string, body Action) {
	s.addTest(description, body, true, false)
}

// SkipTest registers a test that is reported but never run.
func (s *Suite) SkipTest(description string, body func(*T)) {
	s.addTest(description, Sync(body), false, true)
}

// SkipTestAsync is the asynchronous form of SkipTest.
func (s *Suite) SkipTestAsync(description string, body Action) {
	s.addTest(description, body, false, true)
}

func (s *Suite) addTest(description string, body Action, solo, skip bool) {
	if s.state == stateRunning {
		s.recordUncaught(fmt.Sprintf("test %q registered while the suite was running", description))
		return
	}
	if solo {
		s.enterSolo()
		defer func() { s.soloNesting-- }()
	}
	if s.soloSeen && s.soloNesting == 0 {
		return
	}
	s.lastID++
	tc := newTestCase(s.lastID, s.current.testName(description, s.config.Separator), body,
		s.current.setUp, s.current.tearDown)
	tc.enabled = !skip && s.skipNesting == 0
	s.cases = append(s.cases, tc)
	s.autoStart()
}

func (s *Suite) enterSolo() {
	if !s.soloSeen {
		s.soloSeen = true
		s.cases = nil
		s.lastID = 0
	}
	s.soloNesting++
}

// Group runs body, which should register tests and nested groups, within a new group. The group's
// description is prepended to those of everything registered inside it. If body panics, the panic
// is recorded as an uncaught error for the whole suite.
func (s *Suite) Group(description string, body func()) {
	s.group(description, body)
}

// SoloGroup is like Group, but every test inside it counts as a solo test; see SoloTest.
func (s *Suite) SoloGroup(description string, body func()) {
	s.enterSolo()
	defer func() { s.soloNesting-- }()
	s.group(description, body)
}

// SkipGroup is like Group, but every test inside it is registered as skipped.
func (s *Suite) SkipGroup(description string, body func()) {
	s.skipNesting++
	defer func() { s.skipNesting-- }()
	s.group(description, body)
}

func (s *Suite) group(description string, body func()) {
	s.current = enterGroup(s.current, description)
	defer func() {
		if r := recover(); r != nil {
			o := classify(r, recoveredStack())
			s.recordUncaught(fmt.Sprintf("error while registering group %q: %s\n%s",
				description, o.message, o.trace))
		}
		s.current = s.current.parent
	}()
	body()
}

// SetUp sets a function to run before each test in the innermost enclosing group, after any setup
// belonging to outer groups.
func (s *Suite) SetUp(setUp func(*T)) {
	s.current.setSetUp(Sync(setUp))
}

// SetUpAsync is SetUp for a setup that may return a Future.
func (s *Suite) SetUpAsync(setUp Action) {
	s.current.setSetUp(setUp)
}

// TearDown sets a function to run after each test in the innermost enclosing group, before any
// teardown belonging to outer groups.
func (s *Suite) TearDown(tearDown func(*T)) {
	s.current.setTearDown(Sync(tearDown))
}

// TearDownAsync is TearDown for a teardown that may return a Future.
func (s *Suite) TearDownAsync(tearDown Action) {
	s.current.setTearDown(tearDown)
}

func (s *Suite) recordUncaught(message string) {
	s.config.Logger.Printf("Uncaught error: %s", message)
	if s.uncaughtError == "" {
		s.uncaughtError = message
	} else {
		s.uncaughtError += "\n" + message
	}
}

// UncaughtError returns the errors that happened outside of any test case, or "" if none did.
func (s *Suite) UncaughtError() string {
	return s.uncaughtError
}

// Cases returns the registered test cases in execution order.
func (s *Suite) Cases() []*TestCase {
	return append([]*TestCase(nil), s.cases...)
}

// Filter removes every test case for which keep returns false, preserving the order of the rest.
// It must be called before the suite runs.
func (s *Suite) Filter(keep Filter) {
	kept := s.cases[:0]
	for _, tc := range s.cases {
		if keep(tc) {
			kept = append(kept, tc)
		}
	}
	for i := len(kept); i < len(s.cases); i++ {
		s.cases[i] = nil
	}
	s.cases = kept
}

// FilterRegexp keeps only test cases whose description contains a match for rx.
func (s *Suite) FilterRegexp(rx *regexp.Regexp) {
	s.Filter(func(tc *TestCase) bool { return rx.MatchString(tc.Description()) })
}

// FilterPattern keeps only test cases whose description contains a match for the regular
// expression pattern.
func (s *Suite) FilterPattern(pattern string) error {
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid test filter pattern: %w", err)
	}
	s.FilterRegexp(rx)
	return nil
}

// FilterSubstring keeps only test cases whose description contains substr.
func (s *Suite) FilterSubstring(substr string) {
	s.Filter(func(tc *TestCase) bool { return strings.Contains(tc.Description(), substr) })
}

// EnableTest makes the scheduler run the test case with the given ID. It returns false if there
// is no such test case.
func (s *Suite) EnableTest(id int) bool {
	return s.setEnabled(id, true)
}

// DisableTest makes the scheduler skip the test case with the given ID. The case keeps its place
// and its ID. It returns false if there is no such test case.
func (s *Suite) DisableTest(id int) bool {
	return s.setEnabled(id, false)
}

func (s *Suite) setEnabled(id int, enabled bool) bool {
	tc := s.caseByID(id)
	if tc == nil {
		return false
	}
	tc.setEnabled(enabled)
	return true
}

func (s *Suite) caseByID(id int) *TestCase {
	// IDs are usually contiguous, so try the obvious index before scanning.
	if len(s.cases) > 0 {
		if i := id - s.cases[0].id; i >= 0 && i < len(s.cases) && s.cases[i].id == id {
			return s.cases[i]
		}
	}
	for _, tc := range s.cases {
		if tc.id == id {
			return tc
		}
	}
	return nil
}

// Reset discards every registration and all run state, returning the suite to the way it was
// when it was created. It returns an error if a run is in progress.
func (s *Suite) Reset() error {
	if s.state == stateScheduled || s.state == stateRunning {
		return ErrSuiteRunning
	}
	s.cases = nil
	s.lastID = 0
	s.root = newRootGroup()
	s.current = s.root
	s.soloSeen = false
	s.soloNesting = 0
	s.skipNesting = 0
	s.uncaughtError = ""
	s.cursor = 0
	s.state = stateIdle
	s.results = Results{}
	return nil
}
