// Command quillc checks and compiles quill programs to JavaScript.
//
// Input files hold programs already parsed into the JSON syntax tree
// format. Files are validated in the order given on the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/quill-lang/quill"
	"github.com/quill-lang/quill/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK          = 0 // success
	exitDiagnostics = 1 // the programs have diagnostics
	exitError       = 2 // usage error or unreadable input
)

const usage = `quillc - quill compiler

Usage:
  quillc <command> [options] FILE...

Commands:
  check    Validate programs and report diagnostics
  build    Validate programs and emit JavaScript
  dump     Show the class table after validation
  codes    List diagnostic codes
  version  Show version

Common options:
  -strict           Report strict diagnostics
  -admin            Allow inline target code and foreign instances
  -ignore CODE      Suppress a diagnostic code (repeatable, globs like "field-*")
  -config FILE      Read options from a YAML file
  -o, --output FILE Write output to FILE (build, dump)
  --no-color        Disable colored diagnostics
  -v, --verbose     Enable debug logging
  -vv               Enable trace logging (implies -v)
  -h, --help        Show help

Examples:
  quillc check lib.json main.json
  quillc build -o app.js lib.json main.json
  quillc build -strict -ignore "field-*" main.json
  quillc dump main.json
`

type cli struct {
	flags  cliutil.Flags
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, cmd, cmdArgs := cliutil.ParseArgs(args)
	c := &cli{flags: flags, stdout: stdout, stderr: stderr}

	if c.flags.HelpFlag && cmd == "" {
		_, _ = fmt.Fprint(stdout, usage)
		return exitOK
	}

	if cmd == "" {
		_, _ = fmt.Fprint(stderr, usage)
		return exitError
	}

	switch cmd {
	case "check":
		return c.cmdCheck(cmdArgs)
	case "build":
		return c.cmdBuild(cmdArgs)
	case "dump":
		return c.cmdDump(cmdArgs)
	case "codes":
		return c.cmdCodes()
	case "version":
		c.printVersion()
		return exitOK
	case "help":
		_, _ = fmt.Fprint(stdout, usage)
		return exitOK
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command: %s\n\n", cmd)
		_, _ = fmt.Fprint(stderr, usage)
		return exitError
	}
}

func (c *cli) setupLogger() *slog.Logger {
	if c.flags.Verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.flags.Verbose >= 2 {
		level = quill.LevelTrace
	}
	return slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// compile decodes files in parallel and runs them through one session.
// ok is false when the input could not be read.
func (c *cli) compile(files []string) (s *quill.Session, out string, diags []quill.Diagnostic, ok bool) {
	if len(files) == 0 {
		c.printError("no input files")
		return nil, "", nil, false
	}
	cfg, err := c.flags.Config()
	if err != nil {
		c.printError("%v", err)
		return nil, "", nil, false
	}
	opts := []quill.Option{quill.WithConfig(cfg)}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, quill.WithLogger(logger))
	}

	progs, err := quill.ReadPrograms(context.Background(), quill.Files(files...), opts...)
	if err != nil {
		c.printError("%v", err)
		return nil, "", nil, false
	}

	s = quill.New(opts...)
	for _, f := range progs {
		s.Add(f.Program, f.ParseErrors...)
	}
	out, diags = s.Compile()
	return s, out, diags, true
}

func (c *cli) printDiagnostics(diags []quill.Diagnostic) {
	p := cliutil.NewPainter(c.stderr, c.flags.NoColor)
	for _, d := range diags {
		label := p.Error(d.Kind.String())
		if d.Kind == quill.KindStrict {
			label = p.Warn(d.Kind.String())
		}
		loc := ""
		if d.Source != "" {
			loc = d.Source
			if d.Line > 0 {
				loc += fmt.Sprintf(":%d", d.Line)
			}
			loc = p.Bold(loc+":") + " "
		}
		_, _ = fmt.Fprintf(c.stderr, "%s%s: %s %s\n", loc, label, d.Message, p.Faint("["+d.Code+"]"))
	}
	if n := len(diags); n > 0 {
		_, _ = fmt.Fprintf(c.stderr, "%d diagnostic(s)\n", n)
	}
}

func (c *cli) printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	_, _ = fmt.Fprintf(c.stdout, "quillc %s\n", version)
}

func (c *cli) printError(format string, args ...any) {
	_, _ = fmt.Fprintf(c.stderr, "error: "+format+"\n", args...)
}
