// Package messages looks up and formats the user facing messages of the
// interpreter in the session's language.
package messages

import (
	"fmt"
	"regexp"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Message keys used by the interpreter.
const (
	KeyPrompt                 = "prompt"
	KeyExit                   = "exit_message"
	KeyUnknownCommand         = "unknown_command"
	KeyCreateCommandError     = "create_command_error"
	KeyScriptParseError       = "script_parse_error"
	KeyScriptNotFound         = "script_not_found"
	KeyDirectoryCreated       = "directory_created"
	KeyVariableSet            = "variable_set"
	KeyAliasCreated           = "alias_created"
	KeyExternalCommandsLoaded = "external_commands_loaded"
	KeyRunCmdExecuted         = "run_cmd_executed"
	KeyRunNeshExecuted        = "run_nesh_executed"
	KeySavePreviewResult      = "save_preview_result"
	KeySleepExecuted          = "sleep_executed"
	KeyConfigRefreshed        = "config_refreshed"
	KeyCommandExecutionError  = "command_execution_error"
	KeyUnsupportedLanguage    = "unsupported_language"
	KeyLanguageSet            = "language_set"
	KeyDidYouMean             = "did_you_mean"

	// Reasons for malformed statements.
	KeyInvalidBool        = "invalid_bool"
	KeyUnsupportedVarType = "unsupported_var_type"
	KeyAppendToBool       = "append_to_bool"
	KeyNoResult           = "no_result"
)

var placeholderRegex = regexp.MustCompile(`\{(\w+)\}`)

// Args holds named placeholder values.
type Args map[string]interface{}

// Catalog maps a message key to per-language templates.
type Catalog map[string]map[string]string

// Parse reads a JSON or YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var out Catalog
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("message catalog is empty")
	}
	return out, nil
}

// Load reads the catalog at path from fs.
func Load(fs afero.Fs, path string) (Catalog, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	out, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Template gets the template for key in lang, falling back to English. The
// boolean is false if neither exists.
func (c Catalog) Template(key, lang string) (string, bool) {
	translations := c[key]
	if tmpl := translations[lang]; tmpl != "" {
		return tmpl, true
	}
	tmpl, ok := translations[English]
	return tmpl, ok && tmpl != ""
}

// Lookup formats the message key for lang.
func (c Catalog) Lookup(key, lang string, args Args) string {
	tmpl, _ := c.Template(key, lang)
	return Format(tmpl, args)
}

// Format replaces {name} placeholders with values from args. Placeholders
// with no value are left untouched.
func Format(tmpl string, args Args) string {
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]
		if val, ok := args[name]; ok {
			return fmt.Sprint(val)
		}
		return match
	})
}
