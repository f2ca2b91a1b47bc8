package cli

import (
	stderrors "errors"
	"io/fs"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridtrace/pkg/errors"
)

// defaultConfigFile is read from the working directory when --config is not
// given. A missing default file is not an error.
const defaultConfigFile = appName + ".toml"

// Config holds defaults for the traversal flags. Zero values leave the
// built-in flag default in place.
//
//	search = "priority"
//	state = "current"
//	branch = true
//	parallel = 4
//	backtrack = false
//	max_steps = 8
type Config struct {
	Search    string `toml:"search"`
	State     string `toml:"state"`
	Branch    bool   `toml:"branch"`
	Parallel  int    `toml:"parallel"`
	Backtrack bool   `toml:"backtrack"`
	MaxSteps  int    `toml:"max_steps"`
}

// LoadConfig reads a TOML config file. An empty path reads
// gridtrace.toml from the working directory if it exists.
// Unknown keys are rejected so that typos do not pass silently.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			if !explicit {
				return Config{}, nil
			}
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// pick returns the flag value when the flag was set on the command line or
// the file leaves the setting at its zero value, and the file value
// otherwise.
func pick[T comparable](cmd *cobra.Command, name string, flag, file T) T {
	var zero T
	if cmd.Flags().Changed(name) || file == zero {
		return flag
	}
	return file
}
