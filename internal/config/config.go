// Package config layers environment-variable defaults underneath the CLI's
// flags: caarlos0/env/v6 populates an Options struct from PEBBLE_*
// variables, and an optional pebble.yaml (parsed with gopkg.in/yaml.v3)
// supplies a middle layer a user can check into a project directory.
// Precedence, lowest to highest: struct zero values < environment <
// pebble.yaml < command-line flags (flags are applied by the caller after
// Load returns).
package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Options are the settings the CLI can also source from the environment or
// from a project-local pebble.yaml.
type Options struct {
	Verbose     bool   `env:"VERBOSE" yaml:"verbose"`
	OutputFile  string `env:"OUTPUT_FILE" yaml:"output_file"`
	Stdout      bool   `env:"STDOUT" yaml:"stdout"`
	GenerateDot string `env:"GENERATE_DOT_FILE" yaml:"generate_dot_file"`
}

// Load builds Options from PEBBLE_* environment variables, then overlays
// yamlPath if it exists (a missing file is not an error; this layer is
// optional).
func Load(yamlPath string) (Options, error) {
	var opts Options
	if err := env.Parse(&opts, env.Options{Prefix: "PEBBLE_"}); err != nil {
		return Options{}, err
	}

	data, err := os.ReadFile(yamlPath)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return Options{}, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}
