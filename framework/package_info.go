// Package framework contains a single-threaded test orchestration engine.
//
// The general model is:
//
// 1. Tests are registered on a Suite with Test, TestAsync and Group, or their Solo and Skip
// variants. Groups nest, and carry setup and teardown functions that are composed with those of
// enclosing groups: outer setups run first, outer teardowns run last.
//
// 2. The Suite runs one test case at a time, in registration order. A test body gets a *T, which
// behaves much like Go's *testing.T and can be passed to the assert and require packages.
//
// 3. A test can finish later than its body returns, either by returning a Future from the body
// or by wrapping callbacks with ExpectAsync0/1/2 or ExpectAsyncUntil0/1/2. The test completes
// once the Future has settled and every expected callback has been called, or as soon as
// something fails. Panics and failures inside wrapped callbacks are attributed to the test that
// created the wrapper, whichever goroutine the callback runs on.
//
// 4. Progress is reported through the Reporter interface, and the outcome of a run is returned
// as Results.
//
// Nothing runs in parallel. Callbacks may be invoked from other goroutines, but the work they
// trigger in the scheduler is handed back to the goroutine that is driving the suite.
package framework
