package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.GetBool(ConfigDebug), false)
	is.True(c.GetInt(ConfigThreads) >= 1)
	is.Equal(c.GetFloat64(ConfigTTFraction), 0.25)
	is.Equal(c.GetInt(ConfigProgressSeconds), 10)
}

func TestLoadFlagsAndArgs(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"--threads", "3", "--debug", "survey", "wins", "-threads", "2"})
	is.NoErr(err)
	is.Equal(c.GetInt(ConfigThreads), 3)
	is.True(c.GetBool(ConfigDebug))
	is.Equal(c.Args(), []string{"survey", "wins", "-threads", "2"})
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("TORUS_TT_SIZE_POWER", "18")
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.GetInt(ConfigTTSizePower), 18)
}

func TestLoadFile(t *testing.T) {
	is := is.New(t)
	f := filepath.Join(t.TempDir(), "settings.yaml")
	is.NoErr(os.WriteFile(f, []byte("threads: 5\nreport-path: /tmp/reports\n"), 0o644))
	c := &Config{}
	is.NoErr(c.Load([]string{"--config-file", f}))
	is.Equal(c.GetInt(ConfigThreads), 5)
	is.Equal(c.GetString(ConfigReportPath), "/tmp/reports")

	// flags win over the file
	is.NoErr(c.Load([]string{"--config-file", f, "--threads", "2"}))
	is.Equal(c.GetInt(ConfigThreads), 2)
}

func TestLoadMissingFile(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"--config-file", filepath.Join(t.TempDir(), "nope.yaml")})
	is.True(err != nil)
}
