package framework

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSeparator is placed between group names and test names in a test's description.
	DefaultSeparator = " "
	// DefaultBreathInterval is how long the scheduler runs synchronous tests back to back before
	// letting other queued work run.
	DefaultBreathInterval = time.Millisecond * 200
)

// Config controls the behavior of a Suite.
type Config struct {
	// Separator is placed between group names and test names. Defaults to DefaultSeparator.
	Separator string
	// BreathInterval is how long the scheduler may run synchronous tests without yielding. Zero
	// means DefaultBreathInterval; a negative value means it never yields between synchronous
	// tests.
	BreathInterval time.Duration
	// AutoStart makes the suite schedule a run as soon as the first test is registered, so that
	// the caller only has to call Wait.
	AutoStart bool
	// Logger receives operational messages from the scheduler. Defaults to NullLogger().
	Logger Logger
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() Config {
	return Config{
		Separator:      DefaultSeparator,
		BreathInterval: DefaultBreathInterval,
		Logger:         NullLogger(),
	}
}

func (c Config) withDefaults() Config {
	if c.Separator == "" {
		c.Separator = DefaultSeparator
	}
	if c.BreathInterval == 0 {
		c.BreathInterval = DefaultBreathInterval
	}
	if c.Logger == nil {
		c.Logger = NullLogger()
	}
	return c
}

// FileConfig is the YAML configuration file format for the test runner command.
type FileConfig struct {
	Separator      string        `yaml:"separator,omitempty"`
	BreathInterval time.Duration `yaml:"breath_interval,omitempty"`
	AutoStart      bool          `yaml:"auto_start,omitempty"`
	// Run and Skip are regular expressions matched against test descriptions.
	Run        []string `yaml:"run,omitempty"`
	Skip       []string `yaml:"skip,omitempty"`
	Debug      bool     `yaml:"debug,omitempty"`
	DebugAll   bool     `yaml:"debug_all,omitempty"`
	JSONReport string   `yaml:"json_report,omitempty"`
	NoColor    bool     `yaml:"no_color,omitempty"`
}

// LoadConfig reads a FileConfig from a YAML file.
func LoadConfig(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, errors.Wrapf(err, "invalid config file %s", path)
	}
	return fc, nil
}

// SuiteConfig returns the part of the file configuration that applies to a Suite.
func (fc FileConfig) SuiteConfig() Config {
	return Config{
		Separator:      fc.Separator,
		BreathInterval: fc.BreathInterval,
		AutoStart:      fc.AutoStart,
	}.withDefaults()
}

// Filters compiles the Run and Skip patterns.
func (fc FileConfig) Filters() (RegexFilters, error) {
	var filters RegexFilters
	for _, p := range fc.Run {
		if err := filters.MustMatch.Set(p); err != nil {
			return filters, err
		}
	}
	for _, p := range fc.Skip {
		if err := filters.MustNotMatch.Set(p); err != nil {
			return filters, err
		}
	}
	return filters, nil
}
