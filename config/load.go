package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ReadFile reads the rule file at path. YAML and JSON are both accepted. An
// empty path yields an empty Config.
func ReadFile(fsys afero.Fs, path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, invalid(fmt.Errorf("config file %s not found", path),
				"pass an existing file with --config or STEPLOG_CONFIG")
		}
		return Config{}, invalid(fmt.Errorf("couldn't read config file %s: %w", path, err), "")
	}
	conf, err := Parse(data)
	if err != nil {
		return Config{}, invalid(fmt.Errorf("couldn't parse config file %s: %w", path, err), "")
	}
	return conf, nil
}

// Parse decodes a YAML or JSON document into a Config.
//
// The document goes through JSON so that the nullable fields keep their JSON
// decoding and unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, err
	}
	if doc == nil {
		return Config{}, nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return Config{}, err
	}
	var conf Config
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&conf); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// ReadEnv returns the options set in env.
func ReadEnv(env map[string]string) (Config, error) {
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	var conf Config
	if err := envconfig.Process("", &conf, lookup); err != nil {
		return Config{}, invalid(err, "")
	}
	if err := envconfig.Process("", &conf.Browser, lookup); err != nil {
		return Config{}, invalid(err, "")
	}
	if err := envconfig.Process("", &conf.Request, lookup); err != nil {
		return Config{}, invalid(err, "")
	}
	return conf, nil
}
