package main

import (
	"os"
	"time"

	"github.com/launchdarkly/async-test-harness/framework"

	"github.com/pkg/errors"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// buildJSONReport describes a run as a JSON document.
func buildJSONReport(results framework.Results) ldvalue.Value {
	tests := ldvalue.ArrayBuild()
	for _, r := range results.Tests {
		diagnostics := stringArray(r.Diagnostics)
		debugOutput := stringArray(r.DebugOutput.Lines())
		result := string(r.Result)
		if !r.Enabled {
			result = "skipped"
		}
		tests.Add(ldvalue.ObjectBuild().
			Set("id", ldvalue.Int(r.ID)).
			Set("description", ldvalue.String(r.Description)).
			Set("result", ldvalue.String(result)).
			Set("message", optionalString(r.Message)).
			Set("diagnostics", diagnostics).
			Set("debugOutput", debugOutput).
			Set("durationMs", ldvalue.Float64(float64(r.Duration)/float64(time.Millisecond))).
			Build())
	}
	return ldvalue.ObjectBuild().
		Set("runId", ldvalue.String(results.RunID)).
		Set("startTime", ldvalue.String(results.StartTime.Format(time.RFC3339Nano))).
		Set("endTime", ldvalue.String(results.EndTime.Format(time.RFC3339Nano))).
		Set("passed", ldvalue.Int(results.Passed)).
		Set("failed", ldvalue.Int(results.Failed)).
		Set("errored", ldvalue.Int(results.Errored)).
		Set("skipped", ldvalue.Int(results.Skipped)).
		Set("uncaughtError", optionalString(results.UncaughtError)).
		Set("success", ldvalue.Bool(results.OK())).
		Set("tests", tests.Build()).
		Build()
}

func stringArray(values []string) ldvalue.Value {
	b := ldvalue.ArrayBuild()
	for _, v := range values {
		b.Add(ldvalue.String(v))
	}
	return b.Build()
}

func optionalString(s string) ldvalue.Value {
	if s == "" {
		return ldvalue.Null()
	}
	return ldvalue.String(s)
}

func writeJSONReport(path string, results framework.Results) error {
	data := buildJSONReport(results).JSONString()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write JSON report to %s", path)
	}
	return nil
}
