package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/launchdarkly/async-test-harness/framework"
	"github.com/launchdarkly/async-test-harness/mockserver"
	"github.com/launchdarkly/async-test-harness/selfcheck"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/text"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout))
}

func execute(args []string, out io.Writer) int {
	var results framework.Results
	cmd := newRootCommand(func(params *commandParams) error {
		var err error
		results, err = runSuite(params, out)
		return err
	})
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(out)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	if !results.OK() {
		return 1
	}
	return 0
}

func runSuite(params *commandParams, out io.Writer) (framework.Results, error) {
	fc := framework.FileConfig{}
	if params.configPath != "" {
		loaded, err := framework.LoadConfig(params.configPath)
		if err != nil {
			return framework.Results{}, err
		}
		if err := params.merge(loaded); err != nil {
			return framework.Results{}, err
		}
		fc = loaded
	}
	if params.noColor {
		color.NoColor = true
		text.DisableColors()
	}

	mainLogger := framework.NullLogger()
	if params.debugAll {
		mainLogger = log.New(out, "", log.LstdFlags)
	}

	server := mockserver.NewServer(mainLogger)
	defer server.Close()

	config := fc.SuiteConfig()
	config.Logger = mainLogger
	reporter := &ConsoleReporter{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	suite := framework.NewSuite(config, reporter)
	selfcheck.Register(suite, server)

	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, params.filters)
	if params.filters.IsDefined() {
		suite.Filter(params.filters.AsFilter)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var results framework.Results
	var err error
	if config.AutoStart {
		results, err = suite.Wait(ctx)
	} else {
		results, err = suite.Run(ctx)
	}
	if err != nil {
		return results, err
	}

	if failures := results.Failures(); len(failures) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To rerun a failed test by itself:")
		for _, f := range failures {
			fmt.Fprintf(out, "  %s\n", rerunCommand(f.Description))
		}
	}
	if params.jsonReport != "" {
		if err := writeJSONReport(params.jsonReport, results); err != nil {
			return results, err
		}
	}
	return results, nil
}
