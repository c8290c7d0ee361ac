// Package catalog holds descriptions of known external commands. The
// interpreter only reads it, for tab completion and spelling suggestions.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Entry describes a single command.
type Entry struct {
	Description string   `json:"description"`
	Arguments   []string `json:"arguments"`
}

// document is the on-disk layout, JSON or YAML.
type document struct {
	Commands map[string]Entry `json:"commands"`
}

// Catalog maps upper case command names to their entries.
type Catalog struct {
	commands map[string]Entry
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{commands: make(map[string]Entry)}
}

// Parse reads a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	out := New()
	for name, entry := range doc.Commands {
		out.Add(name, entry)
	}
	return out, nil
}

// Load reads the catalog at path from fs.
func Load(fs afero.Fs, path string) (*Catalog, error) {
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

// Add installs or replaces a command.
func (c *Catalog) Add(name string, entry Entry) {
	c.commands[strings.ToUpper(name)] = entry
}

// Merge copies every command from other, replacing commands with the same
// name.
func (c *Catalog) Merge(other *Catalog) {
	for name, entry := range other.commands {
		c.commands[name] = entry
	}
}

// Lookup finds a command by name, ignoring case.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	entry, ok := c.commands[strings.ToUpper(name)]
	return entry, ok
}

// Names returns the sorted command names.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.commands))
	for name := range c.commands {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of commands.
func (c *Catalog) Len() int {
	return len(c.commands)
}
