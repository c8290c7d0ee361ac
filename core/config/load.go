package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory. A directory without a
// config.yaml gets the built-in defaults, as do keys the file leaves out.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	path = ExpandHome(path)

	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	out := defaultConfig()
	configContents, err := afero.ReadFile(fs, filepath.Join(path, ConfigurationName))
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Use defaults.
	case err != nil:
		return nil, err
	default:
		// Keys missing from the file keep their default values.
		if err := yaml.UnmarshalStrict(configContents, out); err != nil {
			return nil, err
		}
	}

	out.configFs = fs
	out.configurationDir = path
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
