package main

import (
	"regexp"
	"strings"

	"github.com/launchdarkly/async-test-harness/framework"

	"github.com/alessio/shellescape"
	"github.com/spf13/cobra"
)

const commandName = "async-test-harness"

type commandParams struct {
	configPath string
	filters    framework.RegexFilters
	debug      bool
	debugAll   bool
	jsonReport string
	noColor    bool
}

func newRootCommand(run func(*commandParams) error) *cobra.Command {
	var params commandParams
	cmd := &cobra.Command{
		Use:   commandName,
		Short: "Run the orchestration engine's self-check suite",
		Long: `Runs a suite of synchronous, future-based and callback-based tests through the
orchestration engine, including tests whose callbacks are driven by real HTTP
requests to local mock endpoints, and reports the results.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(&params)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&params.configPath, "config", "", "YAML configuration file")
	flags.Var(&params.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	flags.Var(&params.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	flags.BoolVar(&params.debug, "debug", false, "show debug output for failed tests")
	flags.BoolVar(&params.debugAll, "debug-all", false, "show debug output for all tests")
	flags.StringVar(&params.jsonReport, "json-report", "", "write a JSON report of the results to this file")
	flags.BoolVar(&params.noColor, "no-color", false, "disable colored output")
	return cmd
}

// merge applies settings from a configuration file. Values given on the command line win; filter
// patterns from both are combined.
func (p *commandParams) merge(fc framework.FileConfig) error {
	fileFilters, err := fc.Filters()
	if err != nil {
		return err
	}
	p.filters.MustMatch.Merge(fileFilters.MustMatch)
	p.filters.MustNotMatch.Merge(fileFilters.MustNotMatch)
	p.debug = p.debug || fc.Debug
	p.debugAll = p.debugAll || fc.DebugAll
	p.noColor = p.noColor || fc.NoColor
	if p.jsonReport == "" {
		p.jsonReport = fc.JSONReport
	}
	return nil
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// rerunCommand returns a command line that runs only the test with the given description.
func rerunCommand(description string) string {
	var b commandBuilder
	b.add(commandName, "--run", "^"+regexp.QuoteMeta(description)+"$")
	return b.String()
}
