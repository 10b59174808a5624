package main

import (
	"io"

	"github.com/launchdarkly/async-test-harness/framework"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func renderSummary(out io.Writer, passed, failed, errored int, cases []*framework.TestCase) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"ID", "Test", "Result", "Time"})
	skipped := 0
	for _, tc := range cases {
		if !tc.Enabled() {
			skipped++
			t.AppendRow(table.Row{tc.ID(), tc.Description(), "skipped", ""})
			continue
		}
		t.AppendRow(table.Row{tc.ID(), tc.Description(), resultLabel(tc.Result()), tc.RunningTime().String()})
	}
	t.AppendFooter(table.Row{"", "Total",
		text.Colors{text.Bold}.Sprintf("%d passed, %d failed, %d errors, %d skipped", passed, failed, errored, skipped), ""})
	t.Render()
}

func resultLabel(r framework.Result) string {
	switch r {
	case framework.ResultPass:
		return text.FgGreen.Sprint("pass")
	case framework.ResultFail:
		return text.FgRed.Sprint("fail")
	case framework.ResultError:
		return text.FgMagenta.Sprint("error")
	default:
		return "incomplete"
	}
}
