package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/torus/config"
)

// ShellOptions are the settings the `set` command can change.
type ShellOptions struct {
	// threads for surveys
	threads int
	// use a transposition table for solve and score
	useTable    bool
	tableSizeP2 int
}

func NewShellOptions() *ShellOptions {
	return &ShellOptions{threads: 1, useTable: true, tableSizeP2: 20}
}

func (opts *ShellOptions) SetDefaults(cfg *config.Config) {
	opts.threads = max(1, cfg.GetInt(config.ConfigThreads))
	if p := cfg.GetInt(config.ConfigTTSizePower); p > 0 {
		opts.tableSizeP2 = p
	}
}

var optionKeys = []string{"threads", "tt", "tt-size-power"}

func (opts *ShellOptions) Show(key string) (bool, string) {
	switch key {
	case "threads":
		return true, strconv.Itoa(opts.threads)
	case "tt":
		return true, strconv.FormatBool(opts.useTable)
	case "tt-size-power":
		return true, strconv.Itoa(opts.tableSizeP2)
	default:
		return false, "No such option: " + key
	}
}

func (opts *ShellOptions) ToDisplayText() string {
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	for _, key := range optionKeys {
		_, val := opts.Show(key)
		out.WriteString("  " + key + ": ")
		out.WriteString(val + "\n")
	}
	return out.String()
}

// Set changes one option and returns its new value as shown.
func (opts *ShellOptions) Set(key string, values []string) (string, error) {
	if len(values) != 1 {
		return "", errors.New("set takes exactly one value")
	}
	val := values[0]
	switch key {
	case "threads":
		n, err := strconv.Atoi(val)
		if err != nil {
			return "", err
		}
		if n < 1 {
			return "", errors.New("threads must be at least 1")
		}
		opts.threads = n
	case "tt":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return "", err
		}
		opts.useTable = b
	case "tt-size-power":
		n, err := strconv.Atoi(val)
		if err != nil {
			return "", err
		}
		if n < 10 || n > 28 {
			return "", fmt.Errorf("tt-size-power must be between 10 and 28, got %d", n)
		}
		opts.tableSizeP2 = n
	default:
		return "", errors.New("No such option: " + key)
	}
	_, shown := opts.Show(key)
	return shown, nil
}
