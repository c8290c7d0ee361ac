package nesh

import (
	"sort"
	"strings"

	"github.com/abiosoft/readline"
)

// Completer completes interpreter statements and catalog commands.
type Completer struct {
	Session *Session
}

var _ readline.AutoCompleter = (*Completer)(nil)

// Do implements readline.AutoCompleter. The first word completes to verbs,
// aliases and catalog commands, the second word of a verb to its subverbs
// and later words of a catalog command to its arguments.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fields := strings.Fields(text)

	word := ""
	if len(fields) > 0 && !strings.HasSuffix(text, " ") {
		word = fields[len(fields)-1]
		fields = fields[:len(fields)-1]
	}

	var out [][]rune
	for _, candidate := range c.candidates(fields) {
		suffix, ok := completes(candidate, word)
		if ok {
			out = append(out, []rune(suffix))
		}
	}
	return out, len([]rune(word))
}

func (c *Completer) candidates(previous []string) []string {
	s := c.Session

	if len(previous) == 0 {
		seen := make(map[string]bool)
		var out []string
		for _, candidate := range s.Candidates() {
			if !seen[candidate] {
				seen[candidate] = true
				out = append(out, candidate)
			}
		}
		sort.Strings(out)
		return out
	}

	first := strings.ToUpper(previous[0])
	if len(previous) == 1 {
		if subverbs := Subverbs(first); len(subverbs) > 0 {
			return subverbs
		}
	}

	if entry, ok := s.Commands.Lookup(first); ok {
		return entry.Arguments
	}
	return nil
}

// completes returns what must be typed after word to reach candidate. Upper
// case candidates match case-insensitively and follow the case of word.
func completes(candidate, word string) (string, bool) {
	if strings.HasPrefix(candidate, word) {
		return candidate[len(word):] + " ", true
	}

	upper := strings.ToUpper(word)
	if candidate != strings.ToUpper(candidate) || !strings.HasPrefix(candidate, upper) {
		return "", false
	}

	suffix := candidate[len(upper):]
	if word == strings.ToLower(word) {
		suffix = strings.ToLower(suffix)
	}
	return suffix + " ", true
}
