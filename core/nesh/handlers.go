package nesh

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/josephlewis42/nesh/core/catalog"
	"github.com/josephlewis42/nesh/core/config"
	"github.com/josephlewis42/nesh/core/messages"
	"github.com/josephlewis42/nesh/core/vars"
	"github.com/pborman/getopt/v2"
	"github.com/spf13/afero"
)

// CreateDir creates a directory and its parents.
func CreateDir(ctx context.Context, s *Session, st *Statement) error {
	path, err := st.Quoted()
	if err != nil {
		return err
	}
	path = config.ExpandHome(s.Vars.Expand(path))

	if err := s.Fs.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("couldn't create %s: %w", path, err)
	}
	s.Print(messages.KeyDirectoryCreated, messages.Args{"path": path})
	return nil
}

// CreateVar binds a TEXT, BOOL or OPTION variable.
func CreateVar(ctx context.Context, s *Session, st *Statement) error {
	return setVar(s, st, vars.KindText, vars.KindBool, vars.KindOption)
}

// SetVar binds a BOOL or OPTION variable.
func SetVar(ctx context.Context, s *Session, st *Statement) error {
	return setVar(s, st, vars.KindBool, vars.KindOption)
}

func setVar(s *Session, st *Statement, allowed ...vars.Kind) error {
	nameToken, err := st.ArgAfter("VAR", 0)
	if err != nil {
		return err
	}
	name := variableName(nameToken)
	if name == "" {
		return parseErrorf(st.Line, "Missing variable name")
	}

	kindToken, err := st.ArgAfter("WITH", 0)
	if err != nil {
		return err
	}
	kind, err := vars.ParseKind(kindToken)
	if err != nil {
		return s.parseError(st.Line, err, messages.KeyUnsupportedVarType,
			messages.Args{"statement": "VAR", "type": strings.ToUpper(kindToken)})
	}
	if !containsKind(allowed, kind) {
		err = fmt.Errorf("unsupported %s VAR type: %s", st.Verb, kind)
		return s.parseError(st.Line, err, messages.KeyUnsupportedVarType,
			messages.Args{"statement": st.Verb + " VAR", "type": kind})
	}

	var value vars.Value
	switch kind {
	case vars.KindText:
		text, err := st.Quoted()
		if err != nil {
			return err
		}
		value = vars.Text(s.Vars.Expand(text))

	default:
		literal, err := st.ArgAfter("WITH", 1)
		if err != nil {
			return err
		}
		if kind == vars.KindBool {
			value, err = vars.ParseBool(literal)
			if err != nil {
				return s.parseError(st.Line, err, messages.KeyInvalidBool,
					messages.Args{"value": strings.ToUpper(literal)})
			}
		} else {
			value = vars.Option(literal)
		}
	}

	s.Vars.Set(name, value)
	s.Print(messages.KeyVariableSet, messages.Args{"var": "$" + name, "value": value})
	return nil
}

func containsKind(kinds []vars.Kind, kind vars.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Append adds a segment to a colon separated list variable.
func Append(ctx context.Context, s *Session, st *Statement) error {
	segment, err := st.Quoted()
	if err != nil {
		return err
	}
	nameToken, err := st.ArgAfterLast("TO")
	if err != nil {
		return err
	}
	name := variableName(nameToken)

	value, err := s.Vars.AppendSegment(name, s.Vars.Expand(segment))
	if err != nil {
		return s.parseError(st.Line, err, messages.KeyAppendToBool, messages.Args{"var": name})
	}
	s.Print(messages.KeyVariableSet, messages.Args{"var": "$" + name, "value": value})
	return nil
}

// CreateAlias installs an alias, replacing any alias with the same name.
func CreateAlias(ctx context.Context, s *Session, st *Statement) error {
	name, err := st.ArgAfter("ALIAS", 0)
	if err != nil {
		return err
	}
	if strings.EqualFold(name, "FOR") {
		return parseErrorf(st.Line, "Missing alias name")
	}

	command, err := st.QuotedAfter("FOR")
	if err != nil {
		return err
	}

	s.Aliases.Set(name, command)
	s.Print(messages.KeyAliasCreated, messages.Args{"alias": strings.ToUpper(name), "command": command})
	return nil
}

// CreateCmd merges an external command catalog into the session's.
func CreateCmd(ctx context.Context, s *Session, st *Statement) error {
	path, err := st.QuotedAfter("FROM")
	if err != nil {
		return err
	}
	path = config.ExpandHome(path)

	exists, err := afero.Exists(s.Fs, path)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{Path: path}
	}

	loaded, err := catalog.Load(s.Fs, path)
	if err != nil {
		return &ParseError{Line: path, Reason: err.Error(), Err: err}
	}
	s.Commands.Merge(loaded)
	s.Print(messages.KeyExternalCommandsLoaded, messages.Args{"path": path})
	return nil
}

// SetLanguage changes the language of messages.
func SetLanguage(ctx context.Context, s *Session, st *Statement) error {
	lang, err := st.Quoted()
	if err != nil {
		return err
	}
	s.SetLanguage(lang)
	return nil
}

// RunCmd runs the quoted command through the executor.
func RunCmd(ctx context.Context, s *Session, st *Statement) error {
	command, err := st.Quoted()
	if err != nil {
		return err
	}
	command = s.Vars.Expand(command)

	s.Print(messages.KeyRunCmdExecuted, messages.Args{"cmd": command})
	return s.Execute(ctx, command)
}

// RunNesh runs a script in the current session.
func RunNesh(ctx context.Context, s *Session, st *Statement) error {
	path, err := st.QuotedAfter("FROM")
	if err != nil {
		return err
	}

	s.Print(messages.KeyRunNeshExecuted, messages.Args{"path": path})
	return s.RunFile(ctx, path)
}

// Save writes the last command result to a file.
func Save(ctx context.Context, s *Session, st *Statement) error {
	if st.Subverb != "TO" {
		return parseErrorf(st.Line, "Missing TO keyword")
	}
	path, err := st.Quoted()
	if err != nil {
		return err
	}
	if s.LastResult == "" {
		return s.parseError(st.Line, ErrNoResult, messages.KeyNoResult, nil)
	}

	path = config.ExpandHome(path)
	if err := afero.WriteFile(s.Fs, path, []byte(s.LastResult), 0644); err != nil {
		return fmt.Errorf("couldn't save result: %w", err)
	}
	s.Print(messages.KeySavePreviewResult, messages.Args{"path": path})
	return nil
}

// maxSleepSeconds is the longest SLEEP a time.Duration can hold.
const maxSleepSeconds = math.MaxInt64 / int64(time.Second)

// Sleep blocks the interpreter for a number of seconds or until ctx is done.
func Sleep(ctx context.Context, s *Session, st *Statement) error {
	unit, err := st.ArgAfter("WITH", 0)
	if err != nil {
		return err
	}
	if !strings.EqualFold(unit, "SECOND") {
		return parseErrorf(st.Line, "Unsupported SLEEP option.")
	}

	count, err := st.ArgAfter("WITH", 1)
	if err != nil {
		return err
	}
	seconds, err := strconv.Atoi(count)
	if err != nil {
		return &ParseError{Line: st.Line, Reason: fmt.Sprintf("Invalid SLEEP duration: %s", count), Err: err}
	}
	if seconds < 0 || int64(seconds) > maxSleepSeconds {
		return parseErrorf(st.Line, "Invalid SLEEP duration: %s", count)
	}

	s.Print(messages.KeySleepExecuted, messages.Args{"seconds": seconds})
	return s.sleep(ctx, time.Duration(seconds)*time.Second)
}

// Exit ends the session.
func Exit(ctx context.Context, s *Session, st *Statement) error {
	s.Print(messages.KeyExit, nil)
	s.quit = true
	return nil
}

// Reflesh re-runs the RC script on top of the current state.
func Reflesh(ctx context.Context, s *Session, st *Statement) error {
	if err := s.LoadRC(ctx); err != nil {
		if !errors.Is(err, ErrScriptNotFound) {
			return err
		}
		s.Report(st.Line, err)
	}
	s.Print(messages.KeyConfigRefreshed, nil)
	return nil
}

// Help prints the statement reference.
func Help(ctx context.Context, s *Session, st *Statement) error {
	opts := getopt.New()
	commands := opts.BoolLong("commands", 'c', "also list the command catalog")
	if err := opts.Getopt(st.Args, nil); err != nil {
		return &ParseError{Line: st.Line, Reason: err.Error(), Err: err}
	}

	var filter []string
	for _, arg := range opts.Args() {
		filter = append(filter, strings.ToUpper(arg))
	}

	t := table.NewWriter()
	t.SetOutputMirror(s.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Statement", "Description"})
	for _, name := range directiveNames() {
		d := AllDirectives[name]
		if len(filter) > 0 && !containsString(filter, d.Verb) {
			continue
		}
		t.AppendRow(table.Row{d.Syntax, d.Description})
	}
	t.Render()

	if *commands {
		catalog.Render(s.Stdout, s.Commands)
	}
	return nil
}

func directiveNames() []string {
	var out []string
	for name := range AllDirectives {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func init() {
	register(&Directive{Verb: "CREATE", Subverb: "DIR", Syntax: `CREATE DIR "path"`, Description: "Create a directory and its parents.", Handler: HandlerFunc(CreateDir)})
	register(&Directive{Verb: "CREATE", Subverb: "VAR", Syntax: `CREATE VAR $NAME WITH TEXT|BOOL|OPTION value`, Description: "Set a variable.", Handler: HandlerFunc(CreateVar)})
	register(&Directive{Verb: "CREATE", Subverb: "ALIAS", Syntax: `CREATE ALIAS NAME FOR "command"`, Description: "Define an alias.", Handler: HandlerFunc(CreateAlias)})
	register(&Directive{Verb: "CREATE", Subverb: "CMD", Syntax: `CREATE CMD FROM "path"`, Description: "Load commands for completion.", Handler: HandlerFunc(CreateCmd)})
	register(&Directive{Verb: "SET", Subverb: "LANGUAGE", Syntax: `SET LANGUAGE "language"`, Description: "Change the message language.", Handler: HandlerFunc(SetLanguage)})
	register(&Directive{Verb: "SET", Subverb: "VAR", Syntax: `SET VAR $NAME WITH BOOL|OPTION value`, Description: "Set a BOOL or OPTION variable.", Handler: HandlerFunc(SetVar)})
	register(&Directive{Verb: "RUN", Subverb: "CMD", Syntax: `RUN CMD "command"`, Description: "Run a shell command.", Handler: HandlerFunc(RunCmd)})
	register(&Directive{Verb: "RUN", Subverb: "NESH", Syntax: `RUN NESH FROM "path"`, Description: "Run a nesh script.", Handler: HandlerFunc(RunNesh)})
	register(&Directive{Verb: "APPEND", Syntax: `APPEND "value" TO $NAME`, Description: "Add a segment to a colon separated variable.", Handler: HandlerFunc(Append)})
	register(&Directive{Verb: "SAVE", Syntax: `SAVE TO "path"`, Description: "Write the last command result to a file.", Handler: HandlerFunc(Save)})
	register(&Directive{Verb: "SLEEP", Syntax: `SLEEP WITH SECOND n`, Description: "Pause for n seconds.", Handler: HandlerFunc(Sleep)})
	register(&Directive{Verb: "EXIT", Syntax: `EXIT`, Description: "Leave nesh.", Handler: HandlerFunc(Exit)})
	register(&Directive{Verb: "REFLESH", Syntax: `REFLESH`, Description: "Run the RC file again.", Handler: HandlerFunc(Reflesh)})
	register(&Directive{Verb: "HELP", Syntax: `HELP [-c] [VERB...]`, Description: "Show this reference.", Handler: HandlerFunc(Help)})
}
