package framework

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveLater(f *Future) *Future {
	go func() {
		time.Sleep(time.Millisecond)
		f.Resolve()
	}()
	return f
}

func TestRunReportsResultsAndEvents(t *testing.T) {
	s, r := newTestSuite()
	s.Test("a", func(*T) {})
	s.TestAsync("b", func(*T) *Future { return resolveLater(NewFuture()) })
	s.Test("c", func(*T) { panic("oops") })

	results := runSuite(t, s)
	assert.Equal(t, 2, results.Passed)
	assert.Equal(t, 0, results.Failed)
	assert.Equal(t, 1, results.Errored)
	assert.False(t, results.OK())
	assert.NotEmpty(t, results.RunID)
	assert.False(t, results.EndTime.Before(results.StartTime))

	assert.Equal(t, [3]int{2, 0, 1}, r.summary)
	require.NotNil(t, r.success)
	assert.False(t, *r.success)
	assert.Equal(t, []string{
		"init",
		"start",
		"test start: a",
		"test result: a pass",
		"test start: b",
		"test result: b pass",
		"test start: c",
		"test result: c error",
		"summary",
		"done",
	}, r.Events())

	failures := results.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "c", failures[0].Description)
	assert.Equal(t, "caught oops", failures[0].Message)
	assert.NotEmpty(t, failures[0].StackTrace)
}

func TestRunWithNoPassingTestsIsNotSuccessful(t *testing.T) {
	s, _ := newTestSuite()
	results := runSuite(t, s)
	assert.False(t, results.OK())

	s.SkipTest("skipped", func(*T) {})
	results, err := s.Rerun(contextForTest(t))
	require.NoError(t, err)
	assert.False(t, results.OK())
}

func TestSetUpAndTearDownOrder(t *testing.T) {
	s, _ := newTestSuite()
	var log orderLog
	s.Group("A", func() {
		s.SetUpAsync(func(*T) *Future {
			log.add("setup A")
			return resolveLater(NewFuture())
		})
		s.TearDownAsync(func(*T) *Future {
			log.add("teardown A")
			return resolveLater(NewFuture())
		})
		s.Group("B", func() {
			s.SetUp(func(*T) { log.add("setup B") })
			s.TearDown(func(*T) { log.add("teardown B") })
			s.TestAsync("test", func(*T) *Future {
				log.add("body")
				return resolveLater(NewFuture())
			})
		})
	})

	results := runSuite(t, s)
	assert.Equal(t, 1, results.Passed)
	assert.Equal(t, []string{"setup A", "setup B", "body", "teardown B", "teardown A"}, log.get())
}

func TestSetUpFailureSkipsBodyButRunsTearDown(t *testing.T) {
	s, _ := newTestSuite()
	var log orderLog
	s.Group("g", func() {
		s.SetUp(func(t *T) { t.Fail("setup broke") })
		s.TearDown(func(*T) { log.add("teardown") })
		s.Test("test", func(*T) { log.add("body") })
	})

	r := resultOf(runSuite(t, s), "g test")
	assert.Equal(t, ResultFail, r.Result)
	assert.Equal(t, "setup broke", r.Message)
	assert.Equal(t, []string{"teardown"}, log.get())
}

func TestRejectedAsyncSetUpSkipsInnerSetUp(t *testing.T) {
	s, _ := newTestSuite()
	var log orderLog
	s.Group("outer", func() {
		s.SetUpAsync(func(*T) *Future { return Failed(errors.New("no database")) })
		s.Group("inner", func() {
			s.SetUp(func(*T) { log.add("inner setup") })
			s.Test("test", func(*T) { log.add("body") })
		})
	})

	r := resultOf(runSuite(t, s), "outer inner test")
	assert.Equal(t, ResultError, r.Result)
	assert.Equal(t, "caught no database", r.Message)
	assert.Len(t, log.get(), 0)
}

func TestTearDownFailureOverridesPass(t *testing.T) {
	s, _ := newTestSuite()
	var log orderLog
	s.Group("outer", func() {
		s.TearDown(func(*T) { log.add("outer teardown") })
		s.Group("inner", func() {
			s.TearDown(func(t *T) { t.Errorf("could not clean up") })
			s.Test("test", func(*T) {})
		})
	})

	r := resultOf(runSuite(t, s), "outer inner test")
	assert.Equal(t, ResultFail, r.Result)
	assert.Equal(t, "could not clean up", r.Message)
	assert.Equal(t, []string{"outer teardown"}, log.get())
}

func TestTearDownPanicSkipsOuterTearDown(t *testing.T) {
	s, _ := newTestSuite()
	var log orderLog
	s.Group("outer", func() {
		s.TearDown(func(*T) { log.add("outer teardown") })
		s.Group("inner", func() {
			s.TearDown(func(*T) { panic("stuck") })
			s.Test("test", func(*T) {})
		})
	})

	r := resultOf(runSuite(t, s), "outer inner test")
	assert.Equal(t, ResultError, r.Result)
	assert.Equal(t, "caught stuck", r.Message)
	assert.Len(t, log.get(), 0)
}

func TestRejectedBodyFuture(t *testing.T) {
	s, _ := newTestSuite()
	s.TestAsync("error", func(*T) *Future { return Failed(errors.New("lost connection")) })
	s.TestAsync("failure", func(*T) *Future { return Failed(NewFailure("wrong answer")) })

	results := runSuite(t, s)
	assert.Equal(t, ResultError, resultOf(results, "error").Result)
	assert.Equal(t, "caught lost connection", resultOf(results, "error").Message)
	assert.Equal(t, ResultFail, resultOf(results, "failure").Result)
	assert.Equal(t, "wrong answer", resultOf(results, "failure").Message)
}

func TestFailNowWithoutMessage(t *testing.T) {
	s, _ := newTestSuite()
	s.Test("silent", func(t *T) { t.FailNow() })
	r := resultOf(runSuite(t, s), "silent")
	assert.Equal(t, ResultFail, r.Result)
	assert.Equal(t, "test failed with no failure message", r.Message)
}

func TestMultipleAssertionFailuresAreJoined(t *testing.T) {
	s, _ := newTestSuite()
	s.Test("two", func(t *T) {
		t.Errorf("first %d", 1)
		t.Errorf("second %d", 2)
	})
	r := resultOf(runSuite(t, s), "two")
	assert.Equal(t, "first 1\nsecond 2", r.Message)
}

func TestRerunKeepsIDsAndResetsResults(t *testing.T) {
	s, _ := newTestSuite()
	runs := 0
	s.Test("a", func(*T) {})
	s.Test("flaky", func(t *T) {
		runs++
		if runs == 1 {
			t.Fail("first time")
		}
	})

	first := runSuite(t, s)
	assert.Equal(t, 1, first.Failed)

	second, err := s.Rerun(contextForTest(t))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Passed)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, []int{1, 2}, ids(s.Cases()))
	assert.Equal(t, "", s.Cases()[1].Message())
}

func TestStaleTFromEarlierRunIsIgnored(t *testing.T) {
	s, _ := newTestSuite()
	var saved *T
	s.Test("a", func(t *T) { saved = t })
	runSuite(t, s)
	firstT := saved

	_, err := s.Rerun(contextForTest(t))
	require.NoError(t, err)
	firstT.Errorf("from the past")
	assert.True(t, s.Cases()[0].Passed())
	assert.Len(t, s.Cases()[0].Diagnostics(), 0)
}

func TestLateFailureBecomesDiagnostic(t *testing.T) {
	s, r := newTestSuite()
	var saved *T
	s.Test("a", func(t *T) { saved = t })
	runSuite(t, s)

	saved.Errorf("too late")
	tc := s.Cases()[0]
	assert.True(t, tc.Passed())
	assert.Equal(t, []string{"fail called after test case already completed: too late"}, tc.Diagnostics())
	assert.Equal(t, tc.Diagnostics(), r.changed)
}

func TestLogAndDebugOutput(t *testing.T) {
	s, r := newTestSuite()
	s.Test("chatty", func(t *T) {
		t.Log("hello %s", "world")
		t.Debug("detail %d", 1)
		t.DebugLogger().Printf("detail %d", 2)
	})
	runSuite(t, s)

	assert.Equal(t, []string{"hello world"}, r.logs)
	output := s.Cases()[0].DebugOutput()
	require.Len(t, output, 2)
	assert.Equal(t, "detail 1", output[0].Message)
	assert.Equal(t, "detail 2", output[1].Message)
}

func TestAutoStartAndWait(t *testing.T) {
	s := NewSuite(Config{AutoStart: true}, nil)
	_, err := s.Wait(contextForTest(t))
	assert.Equal(t, ErrSuiteNotStarted, err)

	s.Test("a", func(*T) {})
	s.Test("b", func(*T) {})
	assert.Equal(t, ErrSuiteRunning, s.Start())

	results, err := s.Wait(contextForTest(t))
	require.NoError(t, err)
	assert.Equal(t, 2, results.Passed)

	again, err := s.Wait(contextForTest(t))
	require.NoError(t, err)
	assert.Equal(t, results.RunID, again.RunID)
}

func TestCancelledWaitCanBeResumed(t *testing.T) {
	s, _ := newTestSuite()
	pending := NewFuture()
	s.TestAsync("stalled", func(*T) *Future { return pending })

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*20)
	defer cancel()
	_, err := s.Run(ctx)
	assert.Equal(t, context.DeadlineExceeded, err)

	_, err = s.Run(contextForTest(t))
	assert.Equal(t, ErrSuiteRunning, err)

	pending.Resolve()
	results, err := s.Wait(contextForTest(t))
	require.NoError(t, err)
	assert.Equal(t, 1, results.Passed)
}

func TestManyTestsRunInOrder(t *testing.T) {
	for _, interval := range []time.Duration{time.Nanosecond, -1, 0} {
		t.Run(fmt.Sprintf("breath interval %s", interval), func(t *testing.T) {
			s := NewSuite(Config{BreathInterval: interval}, nil)
			var order []int
			for i := 0; i < 2000; i++ {
				n := i
				if n%2 == 0 {
					s.Test(fmt.Sprint(n), func(*T) { order = append(order, n) })
				} else {
					s.TestAsync(fmt.Sprint(n), func(*T) *Future {
						order = append(order, n)
						return Completed()
					})
				}
			}
			results := runSuite(t, s)
			assert.Equal(t, 2000, results.Passed)
			require.Len(t, order, 2000)
			for i, n := range order {
				if n != i {
					assert.Fail(t, "out of order", "position %d has test %d", i, n)
					break
				}
			}
		})
	}
}

func TestBodyFailureDuringTearDownDoesNotOverridePass(t *testing.T) {
	s, _ := newTestSuite()
	var bodyT *T
	s.Group("g", func() {
		s.TearDownAsync(func(*T) *Future {
			bodyT.Errorf("stray")
			return resolveLater(NewFuture())
		})
		s.Test("test", func(t *T) { bodyT = t })
	})

	results := runSuite(t, s)
	assert.Equal(t, 1, results.Passed)
	r := resultOf(results, "g test")
	assert.Equal(t, ResultPass, r.Result)
	assert.Equal(t, []string{"fail called after test case already completed: stray"}, r.Diagnostics)
}
