// Package alias holds user defined command aliases.
//
// Alias names are case-insensitive and stored upper case. A template may start
// with another alias, chains are followed when a line is resolved rather than
// when the alias is defined.
package alias

import (
	"sort"
	"strings"
)

// Table maps alias names to command templates.
type Table struct {
	aliases map[string]string
}

// NewTable creates an empty alias table.
func NewTable() *Table {
	return &Table{aliases: make(map[string]string)}
}

// Set installs name -> template, silently replacing an existing alias.
func (t *Table) Set(name, template string) {
	t.aliases[strings.ToUpper(name)] = template
}

// Lookup gets the template for an alias.
func (t *Table) Lookup(name string) (string, bool) {
	template, ok := t.aliases[strings.ToUpper(name)]
	return template, ok
}

// Names returns the alias names in sorted order.
func (t *Table) Names() []string {
	var out []string
	for name := range t.aliases {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of aliases.
func (t *Table) Len() int {
	return len(t.aliases)
}

// Expand rewrites line once if its first whitespace delimited word is an
// alias. The rewritten line is the template followed by the remaining words.
func (t *Table) Expand(line string) (name, rewritten string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", line, false
	}

	name = strings.ToUpper(fields[0])
	template, ok := t.aliases[name]
	if !ok {
		return "", line, false
	}

	return name, template + " " + strings.Join(fields[1:], " "), true
}

// Resolve expands aliases in line until the leading word is no longer an
// alias. An alias is never expanded twice in the same chain: once the chain
// comes back to an alias it already used, the line is returned as-is so an
// alias such as LS -> "ls -la" or a cycle A -> B -> A terminates.
func (t *Table) Resolve(line string) string {
	var chain []string
	for {
		name, rewritten, ok := t.Expand(line)
		if !ok || contains(chain, name) {
			return line
		}
		chain = append(chain, name)
		line = rewritten
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
