package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/launchdarkly/async-test-harness/framework"

	"github.com/fatih/color"
)

var (
	passColor  = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed, color.Bold)
	errorColor = color.New(color.FgMagenta, color.Bold)
	warnColor  = color.New(color.FgYellow)
)

// ConsoleReporter prints test progress as it happens.
type ConsoleReporter struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleReporter) OnInit() {}

func (c *ConsoleReporter) OnStart() {
	fmt.Fprintln(c.Out, "Running test suite")
}

func (c *ConsoleReporter) OnTestStart(tc *framework.TestCase) {
	fmt.Fprintf(c.Out, "[%s]\n", tc.Description())
}

func (c *ConsoleReporter) OnTestResult(tc *framework.TestCase) {
	result := tc.Result()
	switch result {
	case framework.ResultPass:
		passColor.Fprintf(c.Out, "  PASSED")
		fmt.Fprintf(c.Out, " (%s)\n", tc.RunningTime())
	case framework.ResultFail:
		failColor.Fprintf(c.Out, "  FAILED: %s\n", tc.Description())
		c.printLines(tc.Message())
	case framework.ResultError:
		errorColor.Fprintf(c.Out, "  ERROR: %s\n", tc.Description())
		c.printLines(tc.Message())
	}
	failed := result != framework.ResultPass
	debugOutput := tc.DebugOutput()
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleReporter) OnTestResultChanged(tc *framework.TestCase) {
	diagnostics := tc.Diagnostics()
	if len(diagnostics) == 0 {
		return
	}
	warnColor.Fprintf(c.Out, "  WARNING: [%s] reported a problem after it completed:\n", tc.Description())
	c.printLines(diagnostics[len(diagnostics)-1])
}

func (c *ConsoleReporter) OnLogMessage(tc *framework.TestCase, message string) {
	c.printLines(message)
}

func (c *ConsoleReporter) OnSummary(passed, failed, errored int, cases []*framework.TestCase, uncaughtError string) {
	fmt.Fprintln(c.Out)
	renderSummary(c.Out, passed, failed, errored, cases)
	if uncaughtError != "" {
		errorColor.Fprintln(c.Out, "Uncaught error outside of any test:")
		c.printLines(uncaughtError)
	}
}

func (c *ConsoleReporter) OnDone(success bool) {
	if success {
		passColor.Fprintln(c.Out, "All tests passed")
	} else {
		failColor.Fprintln(c.Out, "Test run failed")
	}
}

func (c *ConsoleReporter) printLines(text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(c.Out, "    %s\n", line)
	}
}
