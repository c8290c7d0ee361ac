package config

import (
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration files into dir, leaving any
// existing ones alone, and creates the RC script if it doesn't exist.
func Initialize(fs afero.Fs, dir string, logger *log.Logger) (*Configuration, error) {
	dir = ExpandHome(dir)
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	files := []struct {
		name string
		data []byte
	}{
		{ConfigurationName, defaultConfigData},
		{CommandsName, defaultCommandsData},
		{MessagesName, defaultMessagesData},
	}
	for _, file := range files {
		if err := writeIfMissing(fs, filepath.Join(dir, file.name), file.data, logger); err != nil {
			return nil, err
		}
	}

	cfg, err := Load(fs, dir)
	if err != nil {
		return nil, err
	}

	rc := cfg.RC()
	if err := fs.MkdirAll(filepath.Dir(rc), 0700); err != nil {
		return nil, err
	}
	if err := writeIfMissing(fs, rc, defaultRCData, logger); err != nil {
		return nil, err
	}

	return cfg, nil
}

func writeIfMissing(fs afero.Fs, path string, data []byte, logger *log.Logger) error {
	exists, err := afero.Exists(fs, path)
	switch {
	case err != nil:
		return err
	case exists:
		logger.Printf("- %s already exists, skipping\n", path)
		return nil
	}

	logger.Printf("- writing %s\n", path)
	return afero.WriteFile(fs, path, data, 0600)
}

// DefaultCommands returns the built-in command catalog.
func DefaultCommands() []byte {
	return defaultCommandsData
}

// DefaultMessages returns the built-in message catalog.
func DefaultMessages() []byte {
	return defaultMessagesData
}
