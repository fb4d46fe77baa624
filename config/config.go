package config // CLI configuration file

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Keys understood by the external-tool layer
const (
	PorechopBin     = "porechop_bin"
	PorechopThreads = "porechop_threads"
	OntbcBin        = "ontbc_bin"
)

// EnvPrefix is prepended to the upper-cased key when reading overrides from the environment
const EnvPrefix = "ONTBC_"

// Tool + "key=value" settings to allow specific callings
type Options struct {
	Tool   string
	Params map[string]string
}

func defaults() map[string]string {
	self, err := os.Executable()
	if err != nil {
		self = "ontbc"
	}
	return map[string]string{
		PorechopBin:     "porechop",
		PorechopThreads: "1",
		OntbcBin:        self,
	}
}

// ParseArgs collects key=value pairs for a tool. A bare key maps to "".
func ParseArgs(tool string, args []string) Options {
	opts := Options{Tool: tool, Params: make(map[string]string)}
	for _, arg := range args {
		kv := splitOption(arg)
		opts.Params[kv[0]] = kv[1]
	}
	return opts
}

// Load layers defaults < ONTBC_* environment < explicit key=value pairs.
// Unknown keys are rejected so a typo never silently falls back to a default.
func Load(tool string, args []string) (Options, error) {
	opts := Options{Tool: tool, Params: defaults()}
	for key := range opts.Params {
		if v, ok := os.LookupEnv(EnvPrefix + strings.ToUpper(key)); ok && v != "" {
			opts.Params[key] = v
		}
	}
	for key, v := range ParseArgs(tool, args).Params {
		if _, ok := opts.Params[key]; !ok {
			return opts, fmt.Errorf("unknown setting %q", key)
		}
		opts.Params[key] = v
	}
	return opts, nil
}

// Get returns the value of key, or "" when unset
func (o Options) Get(key string) string {
	return o.Params[key]
}

// GetInt parses key as a positive integer
func (o Options) GetInt(key string) (int, error) {
	n, err := strconv.Atoi(o.Params[key])
	if err != nil {
		return 0, fmt.Errorf("setting %s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("setting %s must be >= 1, got %d", key, n)
	}
	return n, nil
}

// split on the first '='
func splitOption(arg string) [2]string {
	var kv [2]string
	for i, ch := range arg {
		if ch == '=' {
			kv[0] = arg[:i]
			kv[1] = arg[i+1:]
			return kv
		}
	}
	kv[0] = arg
	kv[1] = ""
	return kv
}
