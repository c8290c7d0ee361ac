package nesh

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/josephlewis42/nesh/core/catalog"
	"github.com/josephlewis42/nesh/core/config"
	"github.com/josephlewis42/nesh/core/executor"
	"github.com/josephlewis42/nesh/core/logger"
	"github.com/josephlewis42/nesh/core/messages"
	"github.com/josephlewis42/nesh/core/vars"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRunner remembers every command instead of running it.
type recordingRunner struct {
	commands []string
	environs [][]string

	result *executor.Result
	err    error
}

func (r *recordingRunner) Run(ctx context.Context, command string, env []string) (*executor.Result, error) {
	r.commands = append(r.commands, command)
	r.environs = append(r.environs, env)
	if r.err != nil {
		return nil, r.err
	}
	if r.result != nil {
		return r.result, nil
	}
	return &executor.Result{}, nil
}

func catalogEntry(description string) catalog.Entry {
	return catalog.Entry{Description: description}
}

func defaultMessages(t *testing.T) messages.Catalog {
	t.Helper()

	msgs, err := messages.Parse(config.DefaultMessages())
	require.Nil(t, err)
	return msgs
}

func newTestSession(t *testing.T, runner executor.Runner) (*Session, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	s := NewSession(Options{
		Messages: defaultMessages(t),
		Runner:   runner,
		Fs:       afero.NewMemMapFs(),
		Stdout:   &out,
		Environ: func() []string {
			return []string{"PATH=" + os.Getenv("PATH"), "HOME=/home/nesh"}
		},
	})
	s.sleep = func(context.Context, time.Duration) error { return nil }
	return s, &out
}

func evalAll(t *testing.T, s *Session, lines ...string) {
	t.Helper()

	for _, line := range lines {
		require.Nil(t, s.Eval(context.Background(), line), "line: %s", line)
	}
}

func TestCreateVar(t *testing.T) {
	s, _ := newTestSession(t, nil)
	evalAll(t, s,
		`CREATE VAR $NAME WITH TEXT "world"`,
		`CREATE VAR $GREETING WITH TEXT "hello $NAME"`,
		`create var $LOUD with bool true`,
		`CREATE VAR ${MODE} WITH OPTION fast`,
	)

	assert.Equal(t, "hello world", s.Vars.Get("GREETING"))
	assert.Equal(t, "True", s.Vars.Get("LOUD"))
	assert.Equal(t, "FAST", s.Vars.Get("MODE"))

	loud, _ := s.Vars.Lookup("LOUD")
	assert.Equal(t, vars.KindBool, loud.Kind())
}

func TestCreateVar_redefine(t *testing.T) {
	s, _ := newTestSession(t, nil)
	evalAll(t, s,
		`CREATE VAR $A WITH TEXT "first"`,
		`CREATE VAR $A WITH TEXT "second"`,
	)

	assert.Equal(t, "second", s.Vars.Get("A"))
	_, ok := s.Vars.Lookup("first")
	assert.False(t, ok)
}

func TestCreateVar_invalidBoolKeepsValue(t *testing.T) {
	s, out := newTestSession(t, nil)
	evalAll(t, s, `CREATE VAR $B WITH BOOL TRUE`)

	err := s.Eval(context.Background(), `CREATE VAR $B WITH BOOL MAYBE`)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "Invalid BOOL value: MAYBE", parseErr.Reason)
	assert.Equal(t, "True", s.Vars.Get("B"))

	out.Reset()
	s.Report(`CREATE VAR $B WITH BOOL MAYBE`, err)
	assert.Equal(t, "Script parse error: Invalid BOOL value: MAYBE (line: CREATE VAR $B WITH BOOL MAYBE)\n", out.String())
}

func TestCreateVar_errors(t *testing.T) {
	cases := map[string]struct {
		line   string
		reason string
	}{
		"bad-type":      {line: `CREATE VAR $A WITH NUMBER 1`, reason: "Unsupported VAR type: NUMBER"},
		"missing-with":  {line: `CREATE VAR $A TEXT "x"`, reason: "Missing WITH keyword"},
		"missing-value": {line: `CREATE VAR $A WITH OPTION`, reason: "Missing value after WITH"},
		"missing-quote": {line: `CREATE VAR $A WITH TEXT plain`, reason: "Invalid quoted string: CREATE VAR $A WITH TEXT plain"},
		"set-text":      {line: `SET VAR $A WITH TEXT "x"`, reason: "Unsupported SET VAR type: TEXT"},
		"set-bad-bool":  {line: `SET VAR $A WITH BOOL yes`, reason: "Invalid BOOL value: YES"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			s, _ := newTestSession(t, nil)
			err := s.Eval(context.Background(), tc.line)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Equal(t, tc.reason, parseErr.Reason)
			assert.Equal(t, 0, s.Vars.Len())
		})
	}
}

func TestSetVar(t *testing.T) {
	s, _ := newTestSession(t, nil)
	evalAll(t, s,
		`SET VAR $NESHRC_RESULT_HIDE WITH BOOL true`,
		`SET VAR $NESH_PWD_SHOW WITH OPTION in_prompt`,
	)

	assert.Equal(t, "True", s.Vars.Get(EnvResultHide))
	assert.Equal(t, PwdInPrompt, s.Vars.Get(EnvPwdShow))
}

func TestAppend(t *testing.T) {
	s, _ := newTestSession(t, nil)

	evalAll(t, s, `APPEND "a" TO $P`)
	assert.Equal(t, "a", s.Vars.Get("P"))

	evalAll(t, s, `APPEND "a" TO $P`)
	assert.Equal(t, "a", s.Vars.Get("P"))

	evalAll(t, s, `APPEND "b" TO $P`)
	assert.Equal(t, "a:b", s.Vars.Get("P"))
}

func TestAppend_expandsValue(t *testing.T) {
	s, _ := newTestSession(t, nil)
	evalAll(t, s,
		`CREATE VAR $PATH WITH TEXT "/usr/bin"`,
		`CREATE VAR $HOME WITH TEXT "/home/me"`,
		`APPEND "$HOME/bin" TO $PATH`,
		`APPEND "${HOME}/bin" TO ${PATH}`,
	)

	assert.Equal(t, "/usr/bin:/home/me/bin", s.Vars.Get("PATH"))
}

func TestAppend_bool(t *testing.T) {
	s, _ := newTestSession(t, nil)
	evalAll(t, s, `CREATE VAR $B WITH BOOL false`)

	err := s.Eval(context.Background(), `APPEND "x" TO $B`)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "Cannot append to boolean variable: B", parseErr.Reason)
	assert.Equal(t, "False", s.Vars.Get("B"))
}

func TestParseError_reasonFromCatalog(t *testing.T) {
	s, _ := newTestSession(t, nil)
	s.Language = messages.Japanese
	evalAll(t, s, `CREATE VAR $B WITH BOOL false`)

	cases := map[string]struct {
		line   string
		reason string
	}{
		"bool":     {line: `CREATE VAR $B WITH BOOL maybe`, reason: "BOOL の値が不正です: MAYBE"},
		"type":     {line: `CREATE VAR $A WITH NUMBER 1`, reason: "サポートされていない VAR の型です: NUMBER"},
		"set-type": {line: `SET VAR $A WITH TEXT "x"`, reason: "サポートされていない SET VAR の型です: TEXT"},
		"append":   {line: `APPEND "x" TO $B`, reason: "ブール変数には追加できません: B"},
		"save":     {line: `SAVE TO "/out.txt"`, reason: "保存するコマンド結果がありません。"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			var parseErr *ParseError
			require.True(t, errors.As(s.Eval(context.Background(), tc.line), &parseErr))
			assert.Equal(t, tc.reason, parseErr.Reason)
		})
	}
}

func TestParseError_reasonWithoutCatalog(t *testing.T) {
	s, _ := newTestSession(t, nil)
	s.Messages = messages.Catalog{}

	err := s.Eval(context.Background(), `SAVE TO "/out.txt"`)
	assert.EqualError(t, err, "no command result to save")
	assert.True(t, errors.Is(err, ErrNoResult))

	err = s.Eval(context.Background(), `SET VAR $A WITH TEXT "x"`)
	assert.EqualError(t, err, "unsupported SET VAR type: TEXT")
}

func TestCreateAlias_chaining(t *testing.T) {
	direct := &recordingRunner{}
	s, _ := newTestSession(t, direct)
	require.Nil(t, s.EvalInteractive(context.Background(), `RUN CMD "ls -la" extra`))

	aliased := &recordingRunner{}
	s, _ = newTestSession(t, aliased)
	require.Nil(t, s.EvalInteractive(context.Background(), `CREATE ALIAS LS FOR "RUN CMD \"ls -la\""`))
	require.Nil(t, s.EvalInteractive(context.Background(), `LS extra`))

	assert.Equal(t, []string{"ls -la"}, direct.commands)
	assert.Equal(t, direct.commands, aliased.commands)
}

func TestCreateAlias_transitive(t *testing.T) {
	runner := &recordingRunner{}
	s, _ := newTestSession(t, runner)
	evalAll(t, s,
		`CREATE ALIAS LL FOR "ls -l"`,
		`CREATE ALIAS LA FOR "ll -a"`,
		`create alias ls for "ls --color"`,
	)

	ctx := context.Background()
	require.Nil(t, s.EvalInteractive(ctx, "la /tmp"))
	require.Nil(t, s.EvalInteractive(ctx, "ls"))

	assert.Equal(t, []string{"ls --color -l -a /tmp", "ls --color "}, runner.commands)
}

func TestCreateAlias_cycle(t *testing.T) {
	runner := &recordingRunner{}
	s, _ := newTestSession(t, runner)
	evalAll(t, s,
		`CREATE ALIAS A FOR "b"`,
		`CREATE ALIAS B FOR "a"`,
	)

	require.Nil(t, s.EvalInteractive(context.Background(), "a"))
	assert.Equal(t, []string{"a "}, runner.commands)
}

func TestRunCmdAndSave(t *testing.T) {
	s, out := newTestSession(t, &executor.InterpRunner{})
	evalAll(t, s,
		`RUN CMD "echo hello"`,
		`SAVE TO "/out.txt"`,
	)

	assert.Equal(t, "hello", s.LastResult)
	saved, err := afero.ReadFile(s.Fs, "/out.txt")
	require.Nil(t, err)
	assert.Equal(t, "hello", string(saved))
	assert.Contains(t, out.String(), "Last result saved to: /out.txt")
}

func TestSave_noResult(t *testing.T) {
	s, _ := newTestSession(t, nil)

	err := s.Eval(context.Background(), `SAVE TO "/out.txt"`)
	assert.True(t, errors.Is(err, ErrNoResult))

	exists, _ := afero.Exists(s.Fs, "/out.txt")
	assert.False(t, exists)

	err = s.Eval(context.Background(), `SAVE "/out.txt"`)
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestExecute_environment(t *testing.T) {
	runner := &recordingRunner{}
	s, _ := newTestSession(t, runner)
	evalAll(t, s,
		`CREATE VAR $GREETING WITH TEXT "hi"`,
		`CREATE VAR $PATH WITH TEXT "/opt/bin"`,
		`CREATE VAR $DEBUG WITH BOOL true`,
		`RUN CMD "echo $GREETING"`,
	)

	require.Len(t, runner.environs, 1)
	env := runner.environs[0]
	assert.Contains(t, env, "GREETING=hi")
	assert.Contains(t, env, "PATH=/opt/bin")
	assert.Contains(t, env, "DEBUG=True")
	assert.Contains(t, env, "HOME=/home/nesh")
	assert.Equal(t, []string{"echo hi"}, runner.commands)
}

func TestExecute_output(t *testing.T) {
	cases := map[string]struct {
		hide       string
		result     executor.Result
		wantOut    string
		wantResult string
	}{
		"echoed": {
			result:     executor.Result{Stdout: "  out\n", Stderr: "err\n"},
			wantOut:    "  out\nerr\n",
			wantResult: "out",
		},
		"hidden": {
			hide:       `CREATE VAR $NESHRC_RESULT_HIDE WITH BOOL TRUE`,
			result:     executor.Result{Stdout: "out\n", Stderr: "err\n"},
			wantOut:    "err\n",
			wantResult: "out",
		},
		"not-hidden": {
			hide:       `CREATE VAR $NESHRC_RESULT_HIDE WITH BOOL FALSE`,
			result:     executor.Result{Stdout: "out\n"},
			wantOut:    "out\n",
			wantResult: "out",
		},
		"nonzero-exit-not-an-error": {
			result:     executor.Result{Stderr: "boom\n", ExitCode: 2},
			wantOut:    "boom\n",
			wantResult: "",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			result := tc.result
			s, out := newTestSession(t, &recordingRunner{result: &result})
			s.LastResult = "previous"
			if tc.hide != "" {
				evalAll(t, s, tc.hide)
			}

			out.Reset()
			require.Nil(t, s.Execute(context.Background(), "cmd"))
			assert.Equal(t, tc.wantOut, out.String())
			assert.Equal(t, tc.wantResult, s.LastResult)
		})
	}
}

func TestExecute_spawnFailure(t *testing.T) {
	s, out := newTestSession(t, &recordingRunner{err: errors.New("fork failed")})
	s.LastResult = "previous"

	err := s.EvalInteractive(context.Background(), "ls")
	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "ls", execErr.Command)
	assert.Equal(t, "previous", s.LastResult)

	s.Report("ls", err)
	assert.Equal(t, "Command execution error: fork failed\n", out.String())
}

func TestExecute_didYouMean(t *testing.T) {
	s, out := newTestSession(t, &recordingRunner{result: &executor.Result{ExitCode: 127}})
	s.Commands.Add("git", catalogEntry("Version control"))

	require.Nil(t, s.EvalInteractive(context.Background(), "gitt status"))
	assert.Equal(t, "Did you mean: GIT?\n", out.String())
}

func TestCreateDir(t *testing.T) {
	s, out := newTestSession(t, nil)
	evalAll(t, s,
		`CREATE VAR $ROOT WITH TEXT "/srv"`,
		`CREATE DIR "$ROOT/a/b"`,
	)

	isDir, err := afero.IsDir(s.Fs, "/srv/a/b")
	assert.Nil(t, err)
	assert.True(t, isDir)
	assert.Contains(t, out.String(), "Directory created: /srv/a/b")
}

func TestCreateDir_failure(t *testing.T) {
	s, out := newTestSession(t, nil)
	s.Fs = afero.NewReadOnlyFs(afero.NewMemMapFs())

	err := s.Eval(context.Background(), `CREATE DIR "/x"`)
	require.NotNil(t, err)

	s.Report(`CREATE DIR "/x"`, err)
	assert.True(t, strings.HasPrefix(out.String(), "Command execution error: couldn't create /x"))
}

func TestCreateCmd(t *testing.T) {
	s, out := newTestSession(t, nil)
	data := `{"commands": {"kubectl": {"description": "Kubernetes", "arguments": ["get", "apply"]}}}`
	require.Nil(t, afero.WriteFile(s.Fs, "/cmds.json", []byte(data), 0644))

	evalAll(t, s, `CREATE CMD FROM "/cmds.json"`)

	entry, ok := s.Commands.Lookup("KUBECTL")
	require.True(t, ok)
	assert.Equal(t, []string{"get", "apply"}, entry.Arguments)
	assert.Equal(t, "External commands loaded from: /cmds.json\n", out.String())
}

func TestCreateCmd_errors(t *testing.T) {
	s, _ := newTestSession(t, nil)
	require.Nil(t, afero.WriteFile(s.Fs, "/broken.json", []byte(`{"commands": `), 0644))
	ctx := context.Background()

	err := s.Eval(ctx, `CREATE CMD FROM "/missing.json"`)
	assert.True(t, errors.Is(err, ErrScriptNotFound))

	err = s.Eval(ctx, `CREATE CMD FROM "/broken.json"`)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "/broken.json", parseErr.Line)

	err = s.Eval(ctx, `CREATE CMD "/broken.json"`)
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "Missing FROM keyword", parseErr.Reason)
}

func TestSetLanguage(t *testing.T) {
	s, out := newTestSession(t, nil)

	evalAll(t, s, `SET LANGUAGE "日本語"`)
	assert.Equal(t, messages.Japanese, s.Language)

	out.Reset()
	evalAll(t, s, `CREATE VAR $A WITH TEXT "x"`)
	assert.Equal(t, "変数 $A を x に設定しました\n", out.String())

	out.Reset()
	evalAll(t, s, `SET LANGUAGE "klingon"`)
	assert.Equal(t, messages.English, s.Language)
	assert.Equal(t, "サポートされていない言語です: klingon。ENGLISH を使用します。\n", out.String())
}

func TestSetLanguage_fallback(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(Options{
		Messages: messages.Catalog{
			messages.KeyVariableSet: {messages.English: "{var}={value}"},
			messages.KeyLanguageSet: {messages.Japanese: "日本語"},
		},
		Fs:     afero.NewMemMapFs(),
		Stdout: &out,
	})

	evalAll(t, s,
		`SET LANGUAGE "japanese"`,
		`CREATE VAR $A WITH OPTION b`,
	)
	assert.Equal(t, "日本語\n$A=B\n", out.String())
}

func TestSleep(t *testing.T) {
	s, out := newTestSession(t, nil)
	var slept []time.Duration
	s.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	evalAll(t, s, `SLEEP WITH SECOND 2`, `sleep with second 0`)
	assert.Equal(t, []time.Duration{2 * time.Second, 0}, slept)
	assert.Contains(t, out.String(), "Sleeping for 2 seconds")

	for _, line := range []string{`SLEEP WITH MINUTE 1`, `SLEEP WITH SECOND soon`, `SLEEP WITH SECOND -1`, `SLEEP WITH SECOND 99999999999`, `SLEEP`} {
		err := s.Eval(context.Background(), line)
		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr), line)
	}
	assert.Len(t, slept, 2)
}

func TestSleep_canceled(t *testing.T) {
	s, _ := newTestSession(t, nil)
	s.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := s.Eval(ctx, `SLEEP WITH SECOND 60`)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Less(t, int64(time.Since(start)), int64(10*time.Second))
}

func TestExit(t *testing.T) {
	s, out := newTestSession(t, nil)
	evalAll(t, s, "exit")

	assert.True(t, s.Quit())
	assert.Equal(t, "Exiting nesh. Goodbye!\n", out.String())
}

func TestDispatch_unknown(t *testing.T) {
	cases := map[string]struct {
		line     string
		wantOut  string
		wantKind string
	}{
		"verb": {
			line:     `CRAETE DIR "x"`,
			wantOut:  "Unknown command: CRAETE\nDid you mean: CREATE?\n",
			wantKind: messages.KeyUnknownCommand,
		},
		"create-subverb": {
			line:     `CREATE FOLDER "x"`,
			wantOut:  "Unknown CREATE subcommand: FOLDER\n",
			wantKind: messages.KeyCreateCommandError,
		},
		"run-subverb": {
			line:     `RUN NSH FROM "x"`,
			wantOut:  "Unknown command: RUN NSH\nDid you mean: NESH?\n",
			wantKind: messages.KeyUnknownCommand,
		},
		"missing-subverb": {
			line:     `RUN`,
			wantOut:  "Script parse error: Missing RUN subcommand (line: RUN)\n",
			wantKind: messages.KeyScriptParseError,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			s, out := newTestSession(t, nil)
			var events bytes.Buffer
			s.Events = logger.NewJsonLinesLogger(&events)

			err := s.Eval(context.Background(), tc.line)
			require.NotNil(t, err)
			s.Report(tc.line, err)

			assert.Equal(t, tc.wantOut, out.String())

			var kinds []string
			require.Nil(t, logger.ReadJSONLinesLog(&events, func(le *logger.LogEntry) {
				if le.Event == logger.EventError {
					kinds = append(kinds, le.Kind)
				}
			}))
			assert.Equal(t, []string{tc.wantKind}, kinds)
		})
	}
}

func TestHelp(t *testing.T) {
	s, out := newTestSession(t, nil)
	s.Commands.Add("kubectl", catalogEntry("Kubernetes"))

	evalAll(t, s, "HELP")
	assert.Contains(t, out.String(), `CREATE VAR $NAME WITH TEXT|BOOL|OPTION value`)
	assert.Contains(t, out.String(), `SLEEP WITH SECOND n`)
	assert.NotContains(t, out.String(), "Kubernetes")

	out.Reset()
	evalAll(t, s, "help --commands run")
	assert.Contains(t, out.String(), `RUN NESH FROM "path"`)
	assert.NotContains(t, out.String(), `SAVE TO "path"`)
	assert.Contains(t, out.String(), "Kubernetes")

	err := s.Eval(context.Background(), "HELP --bogus")
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestVerbs(t *testing.T) {
	assert.Equal(t, []string{"APPEND", "CREATE", "EXIT", "HELP", "REFLESH", "RUN", "SAVE", "SET", "SLEEP"}, Verbs())
	assert.Equal(t, []string{"ALIAS", "CMD", "DIR", "VAR"}, Subverbs("CREATE"))
	assert.Nil(t, Subverbs("EXIT"))
	assert.True(t, IsVerb("reflesh"))
	assert.False(t, IsVerb("ls"))
}

func TestPrompt(t *testing.T) {
	s, _ := newTestSession(t, nil)
	s.getwd = func() (string, error) { return "/work", nil }

	assert.Equal(t, "nesh> ", s.Prompt())

	evalAll(t, s, `CREATE VAR $NESH_PWD_SHOW WITH OPTION in_prompt`)
	assert.Equal(t, "/work nesh> ", s.Prompt())

	s.Messages = messages.Catalog{}
	evalAll(t, s, `SET VAR $NESH_PWD_SHOW WITH OPTION NEVER`)
	assert.Equal(t, DefaultPrompt, s.Prompt())
}

func TestHandlerFunc(t *testing.T) {
	s, _ := newTestSession(t, nil)
	var got *Statement
	var handler Handler = HandlerFunc(func(ctx context.Context, s *Session, st *Statement) error {
		got = st
		return ErrNoResult
	})

	st := &Statement{Line: "SAVE TO x"}
	assert.Equal(t, ErrNoResult, handler.Handle(context.Background(), s, st))
	assert.Same(t, st, got)
}
