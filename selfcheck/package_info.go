// Package selfcheck contains a suite of tests that exercise the orchestration engine itself in
// the environment it runs in: synchronous tests, tests that complete through a Future, and tests
// that complete through callbacks driven by timers, goroutines and real HTTP traffic.
//
// Every test in it is expected to pass.
package selfcheck
