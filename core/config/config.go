package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte

	//go:embed default/commands.json
	defaultCommandsData []byte

	//go:embed default/messages.json
	defaultMessagesData []byte

	//go:embed default/neshrc
	defaultRCData []byte
)

const (
	ConfigurationName = "config.yaml"
	CommandsName      = "commands.json"
	MessagesName      = "messages.json"

	// DefaultDir holds the configuration unless --config says otherwise.
	DefaultDir = "~/.nesh"

	ExecutorOS      = "os"
	ExecutorBuiltin = "builtin"
)

type Configuration struct {
	configFs         afero.Fs
	configurationDir string

	RCPath       string `json:"rc_path" validate:"required"`
	CommandsPath string `json:"commands_path" validate:"required"`
	MessagesPath string `json:"messages_path" validate:"required"`
	HistoryPath  string `json:"history_path"`
	EventLogPath string `json:"event_log_path"`

	Executor string `json:"executor" validate:"oneof=os builtin"`
	Shell    string `json:"shell" validate:"required_if=Executor os"`

	Language string `json:"language" validate:"required"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Fs returns the filesystem the configuration was loaded from.
func (c *Configuration) Fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// Dir returns the configuration directory.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

// Resolve expands ~ and makes relative paths relative to the configuration
// directory. Empty paths stay empty.
func (c *Configuration) Resolve(path string) string {
	if path == "" {
		return ""
	}
	path = ExpandHome(path)
	if filepath.IsAbs(path) || c.configurationDir == "" {
		return path
	}
	return filepath.Join(c.configurationDir, path)
}

// RC returns the resolved path of the startup script.
func (c *Configuration) RC() string {
	return c.Resolve(c.RCPath)
}

// Commands returns the resolved path of the command catalog.
func (c *Configuration) Commands() string {
	return c.Resolve(c.CommandsPath)
}

// Messages returns the resolved path of the message catalog.
func (c *Configuration) Messages() string {
	return c.Resolve(c.MessagesPath)
}

// History returns the resolved path of the readline history file.
func (c *Configuration) History() string {
	return c.Resolve(c.HistoryPath)
}

// OpenEventLog opens the event log in an append only state. It returns nil
// if the event log is disabled.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	if c.EventLogPath == "" {
		return nil, nil
	}
	return c.Fs().OpenFile(c.Resolve(c.EventLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.Fs().OpenFile(c.Resolve(c.EventLogPath), os.O_RDONLY, 0600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// ExpandHome replaces a leading ~ with the current user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
