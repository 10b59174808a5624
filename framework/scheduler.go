package framework

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSuiteRunning is returned when a run is requested while another is in progress.
	ErrSuiteRunning = errors.New("suite is already running")
	// ErrSuiteNotStarted is returned by Wait when no run has been requested.
	ErrSuiteNotStarted = errors.New("suite has not been started")
)

// Run runs every enabled test case in order and returns the results. It blocks until the run has
// finished or ctx is done.
//
// A test that never settles its Future or never receives its expected callbacks stalls the suite
// indefinitely; the suite has no timeouts of its own. Cancel ctx to stop waiting. In that case Run
// returns ctx.Err(), the run stays in progress, and Wait can be used to resume driving it.
func (s *Suite) Run(ctx context.Context) (Results, error) {
	if err := s.Start(); err != nil {
		return Results{}, err
	}
	return s.Wait(ctx)
}

// Rerun runs the suite again with the same registrations and IDs. Only run state is cleared:
// the cursor, per-test results, and any uncaught error.
func (s *Suite) Rerun(ctx context.Context) (Results, error) {
	if s.state == stateScheduled || s.state == stateRunning {
		return Results{}, ErrSuiteRunning
	}
	s.uncaughtError = ""
	s.cursor = 0
	return s.Run(ctx)
}

// Start schedules a run without waiting for it; call Wait to drive it. Registering the first test
// does this automatically if Config.AutoStart is set.
func (s *Suite) Start() error {
	if s.state == stateScheduled || s.state == stateRunning {
		return ErrSuiteRunning
	}
	s.state = stateScheduled
	s.done = make(chan struct{})
	s.loop.submit(s.startRun)
	return nil
}

func (s *Suite) autoStart() {
	if s.config.AutoStart && s.state == stateIdle {
		_ = s.Start()
	}
}

// Wait drives a run that was already started, on the calling goroutine, until it finishes or ctx
// is done. If the run has already finished it returns the results immediately.
func (s *Suite) Wait(ctx context.Context) (Results, error) {
	switch s.state {
	case stateIdle:
		return Results{}, ErrSuiteNotStarted
	case stateFinished:
		return s.results, nil
	}
	if err := s.loop.run(ctx, s.done); err != nil {
		return s.results, err
	}
	return s.results, nil
}

func (s *Suite) startRun() {
	s.state = stateRunning
	s.cursor = 0
	s.results = Results{RunID: uuid.New().String(), StartTime: time.Now()}
	s.config.Logger.Printf("Starting run %s with %d test cases", s.results.RunID, len(s.cases))
	s.report(func(r Reporter) { r.OnStart() })
	s.advanceBatch()
}

// advanceBatch runs test cases from the cursor onward for as long as they complete synchronously.
// When one has to wait, it returns; the case's continuation submits the next batch to the loop
// rather than calling it directly, so the stack never grows with the number of tests.
func (s *Suite) advanceBatch() {
	started := time.Now()
	for {
		if s.cursor >= len(s.cases) {
			s.finish()
			return
		}
		tc := s.cases[s.cursor]
		if !tc.Enabled() {
			s.cursor++
			continue
		}
		if pending := s.runCase(tc); pending {
			return
		}
		s.cursor++
		if s.config.BreathInterval > 0 && time.Since(started) >= s.config.BreathInterval {
			s.loop.submit(s.advanceBatch)
			return
		}
	}
}

func (s *Suite) nextCase() {
	s.cursor++
	s.advanceBatch()
}

func (s *Suite) finish() {
	results := s.results
	results.EndTime = time.Now()
	for _, tc := range s.cases {
		snap := snapshot(tc)
		results.Tests = append(results.Tests, snap)
		if !snap.Enabled {
			results.Skipped++
			continue
		}
		switch snap.Result {
		case ResultPass:
			results.Passed++
		case ResultFail:
			results.Failed++
		case ResultError:
			results.Errored++
		}
	}
	results.UncaughtError = s.uncaughtError
	results.Success = results.Passed > 0 && results.Failed == 0 && results.Errored == 0 &&
		results.UncaughtError == ""
	s.results = results
	s.state = stateFinished
	s.config.Logger.Printf("Finished run %s: %d passed, %d failed, %d errors",
		results.RunID, results.Passed, results.Failed, results.Errored)

	cases := s.Cases()
	s.report(func(r Reporter) {
		r.OnSummary(results.Passed, results.Failed, results.Errored, cases, results.UncaughtError)
		r.OnDone(results.Success)
	})
	close(s.done)
}

// caseRun is the progress of one test case through setup, body, completion and teardown. All of
// its methods run on the suite's loop.
type caseRun struct {
	suite     *Suite
	tc        *TestCase
	t         *T
	gen       int
	inline    bool
	proceeded bool
	finished  bool
}

// runCase starts a test case and reports whether it is still pending when runCase returns.
func (s *Suite) runCase(tc *TestCase) bool {
	r := &caseRun{suite: s, tc: tc, inline: true}
	r.gen = tc.begin(
		func() { s.loop.submit(r.proceed) },
		func(message string) {
			s.config.Logger.Printf("Test %d reported a problem after completing: %s", tc.ID(), message)
			s.report(func(rep Reporter) { rep.OnTestResultChanged(tc) })
		},
	)
	r.t = newT(s, tc, r.gen)
	s.report(func(rep Reporter) { rep.OnTestStart(tc) })

	r.await(r.t, r.t.invoke(tc.setUp), r.runBody)
	r.inline = false
	return !r.finished
}

// await calls next right away if f is nil, or from the loop once f has settled. A rejected f is
// attributed to the test case through t first.
func (r *caseRun) await(t *T, f *Future, next func()) {
	if f == nil {
		next()
		return
	}
	f.Then(func(err error) {
		r.suite.loop.submit(func() {
			if err != nil {
				t.attribute(err, "")
			}
			next()
		})
	})
}

func (r *caseRun) runBody() {
	if done, _ := r.tc.terminal(r.gen); done {
		r.proceed()
		return
	}
	// The body itself counts as outstanding work until it returns or its Future settles.
	r.tc.callbackStarted(r.gen)
	r.await(r.t, r.t.invoke(r.tc.body), func() { r.tc.callbackComplete(r.gen) })
	if done, _ := r.tc.terminal(r.gen); done {
		r.proceed()
	}
}

// proceed runs the teardown once the case has a result. It may be reached both directly and
// through the completion hook; only the first call does anything.
func (r *caseRun) proceed() {
	if r.proceeded {
		return
	}
	r.proceeded = true
	r.tc.enterTearDown(r.gen)
	// The teardown gets its own T so that only its failures can replace a pass; anything the
	// body left running that reports now is late.
	t := newTearDownT(r.suite, r.tc, r.gen)
	r.await(t, t.invoke(r.tc.tearDown), r.finish)
}

func (r *caseRun) finish() {
	r.tc.finalize(r.gen)
	r.suite.report(func(rep Reporter) { rep.OnTestResult(r.tc) })
	r.finished = true
	if !r.inline {
		r.suite.loop.submit(r.suite.nextCase)
	}
}
