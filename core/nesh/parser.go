package nesh

import (
	"regexp"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/josephlewis42/nesh/core/vars"
)

// variableNameRegex finds the variable a statement assigns to, those
// positions name a variable rather than reference its value.
var variableNameRegex = regexp.MustCompile(`(?i)(?:^|\s)(?:VAR|TO)\s+(\$[^\s"]+)`)

var quoteEscaper = strings.NewReplacer(`\"`, `"`, `\\`, `\`)

// Statement is a single tokenized interpreter line.
type Statement struct {
	// Verb is the upper-cased first token.
	Verb string
	// Subverb is the upper-cased second token, if any.
	Subverb string
	// Line is the trimmed source line.
	Line string
	// Args holds every token including the verb.
	Args []string
}

// Parse tokenizes line with shell quoting rules. Blank lines and comments
// produce a nil statement.
func Parse(line string) (*Statement, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	args, err := shlex.Split(line, true)
	if err != nil {
		return nil, &ParseError{Line: line, Reason: err.Error(), Err: err}
	}
	if len(args) == 0 {
		return nil, nil
	}

	st := &Statement{
		Verb: strings.ToUpper(args[0]),
		Line: line,
		Args: args,
	}
	if len(args) > 1 {
		st.Subverb = strings.ToUpper(args[1])
	}
	return st, nil
}

// Quoted returns the text between the first and last double quote of the
// line with \" and \\ unescaped.
func (st *Statement) Quoted() (string, error) {
	return quoted(st.Line, st.Line)
}

// QuotedAfter is like Quoted but only considers the line from keyword on.
func (st *Statement) QuotedAfter(keyword string) (string, error) {
	loc := keywordRegex(keyword).FindStringIndex(st.Line)
	if loc == nil {
		return "", parseErrorf(st.Line, "Missing %s keyword", keyword)
	}
	return quoted(st.Line, st.Line[loc[0]:])
}

// ArgAfter returns the token offset places after the first occurrence of
// keyword, 0 being the token right after it.
func (st *Statement) ArgAfter(keyword string, offset int) (string, error) {
	for i := 1; i < len(st.Args); i++ {
		if strings.EqualFold(st.Args[i], keyword) {
			return st.argAt(keyword, i+1+offset)
		}
	}
	return "", parseErrorf(st.Line, "Missing %s keyword", keyword)
}

// ArgAfterLast returns the token right after the last occurrence of keyword.
func (st *Statement) ArgAfterLast(keyword string) (string, error) {
	for i := len(st.Args) - 1; i > 0; i-- {
		if strings.EqualFold(st.Args[i], keyword) {
			return st.argAt(keyword, i+1)
		}
	}
	return "", parseErrorf(st.Line, "Missing %s keyword", keyword)
}

// HasKeyword reports whether keyword is one of the tokens after the verb.
func (st *Statement) HasKeyword(keyword string) bool {
	_, err := st.ArgAfter(keyword, -1)
	return err == nil
}

func (st *Statement) argAt(keyword string, i int) (string, error) {
	if i >= len(st.Args) {
		return "", parseErrorf(st.Line, "Missing value after %s", strings.ToUpper(keyword))
	}
	return st.Args[i], nil
}

func quoted(line, text string) (string, error) {
	first := strings.IndexByte(text, '"')
	last := strings.LastIndexByte(text, '"')
	if first == -1 || last <= first {
		return "", parseErrorf(line, "Invalid quoted string: %s", text)
	}
	return quoteEscaper.Replace(text[first+1 : last]), nil
}

func keywordRegex(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|\s)` + regexp.QuoteMeta(keyword) + `(?:\s|$)`)
}

// variableName strips the reference syntax from $NAME or ${NAME}.
func variableName(token string) string {
	name := strings.TrimPrefix(token, "$")
	if strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}") {
		name = name[1 : len(name)-1]
	}
	return name
}

// expandLine expands variable references in line except where a statement
// names the variable it assigns.
func expandLine(line string, store vars.Lookuper) string {
	var out strings.Builder
	prev := 0
	for _, m := range variableNameRegex.FindAllStringSubmatchIndex(line, -1) {
		out.WriteString(vars.Expand(line[prev:m[2]], store))
		out.WriteString(line[m[2]:m[3]])
		prev = m[3]
	}
	out.WriteString(vars.Expand(line[prev:], store))
	return out.String()
}
