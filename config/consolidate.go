package config

import (
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

// EnvConfigPath names the environment variable holding the rule file path.
const EnvConfigPath = "STEPLOG_CONFIG"

// GetConsolidatedConfig merges the defaults, the rule file, env and flags,
// each one overriding the previous, and validates the result. The rule file
// is taken from the config flag, or from STEPLOG_CONFIG when the flag is not
// set. flags may be nil.
func GetConsolidatedConfig(fsys afero.Fs, flags *pflag.FlagSet, env map[string]string) (Config, error) {
	path := env[EnvConfigPath]
	cliConf := Config{}
	if flags != nil {
		if f := flags.Lookup(FlagConfig); f != nil && f.Changed {
			path = f.Value.String()
		}
		cliConf = FromFlags(flags)
	}

	fileConf, err := ReadFile(fsys, path)
	if err != nil {
		return Config{}, err
	}
	envConf, err := ReadEnv(env)
	if err != nil {
		return Config{}, err
	}

	result := NewConfig().Apply(fileConf).Apply(envConf).Apply(cliConf)
	if err := result.Validate(); err != nil {
		return Config{}, err
	}
	return result, nil
}
