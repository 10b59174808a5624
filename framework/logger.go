package framework

import (
	"fmt"
	"io"
	"time"
)

// Logger is the logging interface used throughout the framework. *log.Logger satisfies it.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger returns a Logger that discards everything.
func NullLogger() Logger { return nullLogger{} }

// CapturedMessage is one line of debug output written during a test case run. Elapsed is measured
// from the start of that run.
type CapturedMessage struct {
	Elapsed time.Duration
	Message string
}

// CapturedOutput is the debug output of one test case run, in the order it was written. It
// belongs to the run: starting the case again begins a new, empty one.
type CapturedOutput []CapturedMessage

func (output CapturedOutput) add(startedAt time.Time, message string) CapturedOutput {
	return append(output, CapturedMessage{Elapsed: time.Since(startedAt), Message: message})
}

// Lines returns the messages without timing information.
func (output CapturedOutput) Lines() []string {
	ret := make([]string, 0, len(output))
	for _, m := range output {
		ret = append(ret, m.Message)
	}
	return ret
}

// Dump writes the captured messages to dest, one per line, each preceded by prefix and the time
// since the test case started.
func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[+%s] %s\n", prefix, m.Elapsed.Round(time.Microsecond), m.Message)
	}
}
