package config

import (
	"errors"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug           = "debug"
	ConfigThreads         = "threads"
	ConfigTTFraction      = "tt-fraction"
	ConfigTTSizePower     = "tt-size-power"
	ConfigCPUProfile      = "cpu-profile"
	ConfigMemProfile      = "mem-profile"
	ConfigReportPath      = "report-path"
	ConfigProgressSeconds = "progress-seconds"
	ConfigConfigFile      = "config-file"
)

type Config struct {
	viper.Viper
	args []string
}

// DefaultConfig returns a config with every default set and nothing read
// from flags, the environment or a file. Mostly for tests.
func DefaultConfig() *Config {
	c := &Config{Viper: *viper.New()}
	setDefaults(&c.Viper)
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigThreads, max(1, runtime.NumCPU()))
	v.SetDefault(ConfigTTFraction, 0.25)
	v.SetDefault(ConfigTTSizePower, 0)
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
	v.SetDefault(ConfigReportPath, "")
	v.SetDefault(ConfigProgressSeconds, 10)
}

// Load reads settings from, in increasing priority, defaults, a torus.yaml
// file in the working directory (or the file named by --config-file),
// TORUS_* environment variables and command line flags. Anything left on
// the command line after the flags is available from Args.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	setDefaults(&c.Viper)

	fs := pflag.NewFlagSet("torus", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigThreads, c.GetInt(ConfigThreads), "number of worker threads for surveys")
	fs.Float64(ConfigTTFraction, 0.25, "fraction of total memory to give each worker's transposition table")
	fs.Int(ConfigTTSizePower, 0, "transposition table size as a power of two; overrides tt-fraction when nonzero")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a heap profile to this file on exit")
	fs.String(ConfigReportPath, "", "write survey reports to this directory")
	fs.Int(ConfigProgressSeconds, 10, "seconds between progress log lines during a survey")
	fs.String(ConfigConfigFile, "", "config file to read instead of ./torus.yaml")
	fs.ParseErrorsAllowlist.UnknownFlags = true
	// stop at the first shell command word
	fs.SetInterspersed(false)
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix("torus")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	if f := c.GetString(ConfigConfigFile); f != "" {
		if _, err := os.Stat(f); err != nil {
			return err
		}
		c.SetConfigFile(f)
	} else {
		c.SetConfigName("torus")
		c.SetConfigType("yaml")
		c.AddConfigPath(".")
	}
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// Args returns the positional arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// SanitizedSettings returns all settings, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
