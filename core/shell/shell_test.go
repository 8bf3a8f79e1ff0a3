package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/josephlewis42/dosbatch/core/dosenv"
	"github.com/josephlewis42/dosbatch/core/dosfs"
)

var testTime = time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC)

// newTestShell creates a shell with a C: drive holding files, PATH set to
// C:\DOS and output captured.
func newTestShell(t *testing.T, files map[string]string) (*Shell, *bytes.Buffer) {
	t.Helper()

	c := afero.NewMemMapFs()
	require.NoError(t, c.MkdirAll("/dos", 0755))
	for name, content := range files {
		require.NoError(t, c.MkdirAll(path.Dir(name), 0755))
		require.NoError(t, afero.WriteFile(c, name, []byte(content), 0644))
	}

	dfs := dosfs.New()
	require.NoError(t, dfs.Mount("C", c))

	env := dosenv.NewEnvFromList([]string{`PATH=C:\DOS`})
	sh := New(zerolog.New(zerolog.NewTestWriter(t)), env, dfs, charmap.CodePage437)

	out := &bytes.Buffer{}
	sh.Stdout = out
	sh.Stdin = strings.NewReader("")
	sh.Now = func() time.Time { return testTime }
	t.Cleanup(func() { sh.Close() })

	return sh, out
}

func TestShell_RunBatch(t *testing.T) {
	cases := map[string]struct {
		files map[string]string
		args  []string
		want  string
	}{
		"echo off": {
			files: map[string]string{"/HELLO.BAT": "@ECHO OFF\r\nECHO Hello, %1!\r\nECHO.\r\nECHO\r\n"},
			args:  []string{"World"},
			want:  "Hello, World!\n\nECHO is off\n",
		},
		"echo on": {
			files: map[string]string{"/HELLO.BAT": "ECHO hi\r\n@ECHO OFF\r\nECHO bye\r\n"},
			want:  "C:\\>ECHO hi\nhi\nbye\n",
		},
		"goto loop": {
			files: map[string]string{"/HELLO.BAT": strings.Join([]string{
				"@ECHO OFF",
				"SET N=",
				":LOOP",
				"SET N=%N%x",
				`IF "%N%"=="xxx" GOTO END`,
				"ECHO %N%",
				"GOTO LOOP",
				":END",
				"ECHO done %N%",
			}, "\r\n")},
			want: "x\nxx\ndone xxx\n",
		},
		"missing label": {
			files: map[string]string{"/HELLO.BAT": "@ECHO OFF\r\nGOTO NOWHERE\r\nECHO unreachable\r\n"},
			want:  "Label not found\n",
		},
		"call": {
			files: map[string]string{
				"/HELLO.BAT": "@ECHO OFF\r\nECHO main %1\r\nCALL SUB one two\r\nECHO back %0\r\n",
				"/SUB.BAT":   "ECHO sub %0 %1 %2\r\nSHIFT\r\nECHO shifted %1\r\n",
			},
			args: []string{"arg"},
			want: "main arg\nsub C:\\SUB.BAT one two\nshifted two\nback C:\\HELLO.BAT\n",
		},
		"chain": {
			files: map[string]string{
				"/HELLO.BAT": "@ECHO OFF\r\nNEXT x\r\nECHO never\r\n",
				"/NEXT.BAT":  "ECHO in next %1\r\n",
			},
			want: "in next x\n",
		},
		"for": {
			files: map[string]string{
				"/HELLO.BAT": "@ECHO OFF\r\nFOR %%F IN (a b,c) DO ECHO item %%F\r\nFOR %%F IN (*.TXT) DO ECHO found %%F\r\n",
				"/ONE.TXT":   "1",
				"/two.txt":   "2",
			},
			want: "item a\nitem b\nitem c\nfound ONE.TXT\nfound TWO.TXT\n",
		},
		"for call": {
			files: map[string]string{
				"/HELLO.BAT": "@ECHO OFF\r\nFOR %%A IN (1 2 3) DO CALL SUB %%A\r\nECHO end\r\n",
				"/SUB.BAT":   "@ECHO sub %1\r\n",
			},
			want: "sub 1\nsub 2\nsub 3\nend\n",
		},
		"for if call": {
			files: map[string]string{
				"/HELLO.BAT": "@ECHO OFF\r\nFOR %%A IN (1 2 3) DO IF NOT %%A==2 CALL SUB %%A\r\nECHO end %0\r\n",
				"/SUB.BAT":   "@ECHO sub %1 from %0\r\n",
			},
			want: "sub 1 from C:\\SUB.BAT\nsub 3 from C:\\SUB.BAT\nend C:\\HELLO.BAT\n",
		},
		"for call with for": {
			files: map[string]string{
				"/HELLO.BAT": "@ECHO OFF\r\nFOR %%A IN (1 2) DO CALL SUB %%A\r\nECHO end\r\n",
				"/SUB.BAT":   "@FOR %%B IN (x y) DO ECHO %1%%B\r\n",
			},
			want: "1x\n1y\n2x\n2y\nend\n",
		},
		"if": {
			files: map[string]string{
				"/HELLO.BAT": strings.Join([]string{
					"@ECHO OFF",
					"IF EXIST ONE.TXT ECHO one exists",
					"IF NOT EXIST NOPE.TXT ECHO nope missing",
					`IF "%1"=="go" ECHO compare matched`,
					`IF NOT "%1"=="stop" ECHO not stop`,
					"IF ERRORLEVEL 0 ECHO level zero",
					"IF ERRORLEVEL 1 ECHO level one",
					"IF ERRORLEVEL x ECHO bad level",
				}, "\r\n"),
				"/ONE.TXT": "1",
			},
			args: []string{"go"},
			want: "one exists\nnope missing\ncompare matched\nnot stop\nlevel zero\nSyntax error\n",
		},
		"set": {
			files: map[string]string{"/HELLO.BAT": strings.Join([]string{
				"@ECHO OFF",
				"SET GREETING=hi there",
				"ECHO %GREETING%",
				"SET GREETING",
				"SET MISSING",
				"SET GREETING=",
				"SET GREETING",
			}, "\r\n")},
			want: "hi there\nGREETING=hi there\nEnvironment variable MISSING not defined\nEnvironment variable GREETING not defined\n",
		},
		"exit": {
			files: map[string]string{"/HELLO.BAT": "@ECHO OFF\r\nECHO a\r\nEXIT\r\nECHO b\r\n"},
			want:  "a\n",
		},
		"bad command": {
			files: map[string]string{"/HELLO.BAT": "@ECHO OFF\r\nNOTAPROGRAM\r\nREADME.TXT\r\nECHO after\r\n", "/README.TXT": ""},
			want:  "Bad command or file name\nBad command or file name\nafter\n",
		},
		"internal commands": {
			files: map[string]string{
				"/HELLO.BAT":      "@ECHO OFF\r\nVER\r\nCD GAMES\r\nCD\r\nCD..\r\nCD\r\nDIR/B GAMES\r\n",
				"/games/DOOM.EXE": "MZ",
			},
			want: "\nMS-DOS Version 6.22\n\nC:\\GAMES\nC:\\\nDOOM.EXE\n",
		},
		"pause": {
			files: map[string]string{"/HELLO.BAT": "@ECHO OFF\r\nPAUSE\r\nECHO after\r\n"},
			want:  "Press any key to continue . . .\nafter\n",
		},
		"prompt": {
			files: map[string]string{"/HELLO.BAT": "PROMPT $N$Q$G\r\nECHO x\r\n"},
			want:  "C:\\>PROMPT $N$Q$G\nC=>ECHO x\nx\n",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			sh, out := newTestShell(t, tc.files)
			sh.Stdin = strings.NewReader("x")

			_, err := sh.RunBatch(context.Background(), "hello", tc.args)
			require.NoError(t, err)

			assert.Equal(t, tc.want, out.String())
			assert.Equal(t, 0, sh.Processor.Depth())
			assert.True(t, sh.Processor.Echo())
		})
	}
}

func TestShell_RunBatchMissing(t *testing.T) {
	sh, _ := newTestShell(t, nil)

	_, err := sh.RunBatch(context.Background(), "NOPE.BAT", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `C:\NOPE.BAT`)

	_, err = sh.RunBatch(context.Background(), "Q:NOPE", nil)
	assert.ErrorIs(t, err, dosfs.ErrInvalidDrive)
}

func TestShell_RunBatchCanceled(t *testing.T) {
	sh, _ := newTestShell(t, map[string]string{"/LOOP.BAT": ":TOP\r\nGOTO TOP\r\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sh.RunBatch(ctx, "LOOP", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sh.Processor.Depth())
}

func TestShell_Transcript(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	sh, out := newTestShell(t, map[string]string{
		"/AUTOEXEC.BAT": strings.Join([]string{
			"@ECHO OFF",
			"PROMPT $P$G",
			"ECHO ON",
			"CD GAMES",
			"DIR /B",
			"ECHO OFF",
			"CD \\",
		}, "\r\n"),
		"/games/DOOM.EXE":  "MZ",
		"/games/setup.exe": "MZ",
	})

	_, err := sh.RunBatch(context.Background(), `C:\AUTOEXEC.BAT`, nil)
	require.NoError(t, err)

	g.Assert(t, "autoexec", out.Bytes())
	assert.Equal(t, `C:\`, sh.FS.Getwd())
}

func TestShell_StopAtProgram(t *testing.T) {
	sh, out := newTestShell(t, map[string]string{
		"/GO.BAT":         "@ECHO OFF\r\nCD GAMES\r\nDOOM -warp 1\r\nECHO after\r\n",
		"/games/DOOM.EXE": "MZ",
	})
	sh.StopAtProgram = true

	_, err := sh.RunBatch(context.Background(), "GO", nil)
	require.NoError(t, err)

	prog, ok := sh.LaunchedProgram()
	require.True(t, ok)
	assert.Equal(t, Program{Path: `C:\GAMES\DOOM.EXE`, Args: "-warp 1"}, prog)
	assert.Empty(t, out.String())
	assert.Equal(t, 0, sh.Processor.Depth())
}

func TestShell_LoadHigh(t *testing.T) {
	sh, out := newTestShell(t, map[string]string{
		"/GO.BAT":        "@ECHO OFF\r\nLH\r\nLH C:\\DOS\\MOUSE.COM /Y\r\nloadhigh mouse\r\n",
		"/dos/MOUSE.COM": "",
	})

	var launched []string
	sh.Launcher = LauncherFunc(func(ctx context.Context, path, args string) (int, error) {
		launched = append(launched, path+"|"+args)
		return 0, nil
	})

	_, err := sh.RunBatch(context.Background(), "GO", nil)
	require.NoError(t, err)

	assert.Equal(t, "Required parameter missing\n", out.String())
	assert.Equal(t, []string{`C:\DOS\MOUSE.COM|/Y`, `C:\DOS\MOUSE.COM|`}, launched)
}

func TestShell_StopAtProgramLoadHigh(t *testing.T) {
	sh, out := newTestShell(t, map[string]string{
		"/AUTOEXEC.BAT":  "@ECHO OFF\r\nLH C:\\DOS\\MOUSE.COM /Y\r\nECHO after\r\n",
		"/dos/MOUSE.COM": "",
	})
	sh.StopAtProgram = true

	_, err := sh.RunBatch(context.Background(), "AUTOEXEC", nil)
	require.NoError(t, err)

	prog, ok := sh.LaunchedProgram()
	require.True(t, ok)
	assert.Equal(t, Program{Path: `C:\DOS\MOUSE.COM`, Args: "/Y"}, prog)
	assert.Empty(t, out.String())
}

func TestShell_Launcher(t *testing.T) {
	sh, out := newTestShell(t, map[string]string{
		"/GO.BAT": strings.Join([]string{
			"@ECHO OFF",
			`C:\GAMES\DOOM.EXE -warp 1`,
			"IF ERRORLEVEL 3 ECHO three",
			"IF ERRORLEVEL 4 ECHO four",
			"CALL TOOL",
		}, "\r\n"),
		"/games/DOOM.EXE": "MZ",
		"/dos/TOOL.COM":   "",
	})

	var launched []string
	sh.Launcher = LauncherFunc(func(ctx context.Context, path, args string) (int, error) {
		launched = append(launched, path+"|"+args)
		return len(launched) + 2, nil
	})

	level, err := sh.RunBatch(context.Background(), "GO", nil)
	require.NoError(t, err)

	assert.Equal(t, "three\n", out.String())
	assert.Equal(t, []string{`C:\GAMES\DOOM.EXE|-warp 1`, `C:\DOS\TOOL.COM|`}, launched)
	assert.Equal(t, 4, level)
}

func TestShell_NoLauncher(t *testing.T) {
	sh, out := newTestShell(t, map[string]string{"/dos/TOOL.COM": ""})

	require.NoError(t, sh.RunLine(context.Background(), "tool"))
	assert.Equal(t, "Cannot execute C:\\DOS\\TOOL.COM\n", out.String())
	assert.Equal(t, 0, sh.ErrorLevel)
}

func TestShell_Resolve(t *testing.T) {
	sh, _ := newTestShell(t, map[string]string{
		"/X.COM":            "",
		"/X.EXE":            "",
		"/dos/TOOL.EXE":     "",
		"/dos/EDIT.BAT":     "",
		"/scripts/HELP.BAT": "",
		"/scripts/RUN.BAT":  "",
		"/README.TXT":       "",
	})

	cases := map[string]string{
		"x":                 `C:\X.COM`,
		"X.EXE":             `C:\X.EXE`,
		"tool":              `C:\DOS\TOOL.EXE`,
		"edit":              `C:\DOS\EDIT.BAT`,
		`scripts\run`:       `C:\SCRIPTS\RUN.BAT`,
		`C:\DOS\TOOL.EXE`:   `C:\DOS\TOOL.EXE`,
		`c:/scripts/help`:   `C:\SCRIPTS\HELP.BAT`,
		`\dos\edit.bat`:     `C:\DOS\EDIT.BAT`,
	}

	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := sh.resolve(in)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	for _, in := range []string{"README.TXT", "README", "HELP", "dos", `Q:\X.COM`} {
		_, err := sh.resolve(in)
		assert.ErrorIs(t, err, ErrBadCommand, in)
	}

	// The running batch file's directory is searched too.
	require.True(t, sh.Processor.StartBatch(`C:\SCRIPTS\RUN.BAT`, nil))
	got, err := sh.resolve("HELP")
	assert.NoError(t, err)
	assert.Equal(t, `C:\SCRIPTS\HELP.BAT`, got)
}

func TestShell_RunLine(t *testing.T) {
	sh, out := newTestShell(t, map[string]string{
		"/GO.BAT": "@ECHO OFF\r\nECHO go %1\r\n",
	})
	ctx := context.Background()

	lines := []string{
		"",
		"ECHO hi",
		"SET A=1",
		"ECHO %A%",
		"ECHO %1 stays",
		"FOR %F IN (x y) DO ECHO %F",
		"FOR %F IN (a) DO FOR %G IN (b) DO ECHO %G",
		"GO now",
		"ECHO",
		"GOTO NOWHERE",
	}
	for _, line := range lines {
		require.NoError(t, sh.RunLine(ctx, line))
	}

	assert.Equal(t, "hi\n1\n%1 stays\nx\ny\nFOR cannot be nested\ngo now\nECHO is on\n", out.String())
	assert.False(t, sh.Exited())

	require.NoError(t, sh.RunLine(ctx, "exit"))
	assert.True(t, sh.Exited())
}

func TestShell_ChangeDrive(t *testing.T) {
	sh, out := newTestShell(t, nil)
	require.NoError(t, sh.FS.Mount("D", afero.NewMemMapFs()))
	ctx := context.Background()

	require.NoError(t, sh.RunLine(ctx, "d:"))
	assert.Equal(t, "D:", sh.FS.CurrentDrive())

	require.NoError(t, sh.RunLine(ctx, "Q:"))
	assert.Equal(t, "Invalid drive specification\n", out.String())
	assert.Equal(t, "D:", sh.FS.CurrentDrive())
}

func TestShell_Prompt(t *testing.T) {
	sh, _ := newTestShell(t, nil)

	cases := map[string]string{
		"":         `C:\>`,
		"$P$G":     `C:\>`,
		"$n$g":     "C>",
		"$D":       "Mon 01-02-2006",
		"$T":       "03:04:05.00",
		"$$$Q$L$B": "$=<|",
		"$V":       "MS-DOS Version 6.22",
		"a$_b":     "a\nb",
		"$E[1m":    "\x1b[1m",
		"$H":       "\b",
		"[$X]":     "[]",
		"x$":       "x",
	}

	for format, want := range cases {
		t.Run(format, func(t *testing.T) {
			require.NoError(t, sh.Env.Setenv("PROMPT", format))
			assert.Equal(t, want, sh.Prompt())
		})
	}
}

func TestShell_Highlight(t *testing.T) {
	sh, out := newTestShell(t, map[string]string{"/GO.BAT": "ECHO x\r\n"})
	sh.Highlight = color.New(color.FgGreen)

	_, err := sh.RunBatch(context.Background(), "GO", nil)
	require.NoError(t, err)

	assert.Contains(t, out.String(), `C:\>ECHO x`)
	assert.True(t, strings.HasSuffix(out.String(), "x\n"))
}

func TestShell_Trace(t *testing.T) {
	sh, out := newTestShell(t, map[string]string{
		"/GO.BAT": strings.Join([]string{
			"ECHO start %1",
			"@ECHO OFF",
			":TOP",
			"SHIFT",
			"CALL OTHER %1",
			"GOTO TOP",
		}, "\r\n"),
	})

	trace := &bytes.Buffer{}
	require.NoError(t, sh.Trace(context.Background(), trace, "GO", []string{"a", "b"}))

	want := strings.Join([]string{
		`+ ECHO start a`,
		`    PrintMessage("start a")`,
		`  ECHO OFF`,
		`    Empty`,
		`  SHIFT`,
		`    Shift`,
		`  CALL OTHER b`,
		`    CallBatch("OTHER", "b")`,
		`  GOTO TOP`,
		`    Goto("TOP")`,
		``,
	}, "\n")
	assert.Equal(t, want, trace.String())
	assert.Empty(t, out.String())
	assert.Equal(t, 0, sh.Processor.Depth())
	assert.True(t, sh.Processor.Echo())
}

type scriptedReader struct {
	prompts []string
	lines   []string
	errs    []error
}

func (r *scriptedReader) SetPrompt(prompt string) {
	r.prompts = append(r.prompts, prompt)
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line, err := r.lines[0], r.errs[0]
	r.lines, r.errs = r.lines[1:], r.errs[1:]
	return line, err
}

func TestShell_Interactive(t *testing.T) {
	t.Run("exit", func(t *testing.T) {
		sh, out := newTestShell(t, map[string]string{"/games/DOOM.EXE": "MZ"})
		rl := &scriptedReader{
			lines: []string{"ECHO hi", "half typed", "cd games", "exit", "ECHO never"},
			errs:  []error{nil, readline.ErrInterrupt, nil, nil, nil},
		}

		require.NoError(t, sh.Interactive(context.Background(), rl))
		assert.Equal(t, "hi\n", out.String())
		assert.Equal(t, []string{`C:\>`, `C:\>`, `C:\>`, `C:\GAMES>`}, rl.prompts)
		assert.True(t, sh.Exited())
	})

	t.Run("end of input", func(t *testing.T) {
		sh, _ := newTestShell(t, nil)

		require.NoError(t, sh.Interactive(context.Background(), &scriptedReader{}))
		assert.False(t, sh.Exited())
	})

	t.Run("read error", func(t *testing.T) {
		sh, _ := newTestShell(t, nil)
		boom := errors.New("boom")

		err := sh.Interactive(context.Background(), &scriptedReader{lines: []string{""}, errs: []error{boom}})
		assert.ErrorIs(t, err, boom)
	})
}
