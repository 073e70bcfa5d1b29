package quill

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/quill-lang/quill/internal/astjson"
	"github.com/quill-lang/quill/internal/types"
)

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	return types.ComponentLogger(logger, component)
}

// File is a decoded program file.
type File struct {
	Path        string
	Program     *Program
	ParseErrors []ParseError
}

// ReadPrograms decodes every file of src in parallel. The result keeps
// the order of src.ListFiles. A program without a source name is named
// after its path. The first I/O or decoding error cancels the rest.
func ReadPrograms(ctx context.Context, src Source, opts ...Option) ([]File, error) {
	cfg := sessionConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := types.Logger{L: componentLogger(cfg.logger, "load")}

	paths, err := src.ListFiles()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoPrograms
	}

	logger.Log(slog.LevelInfo, "parallel loading", slog.Int("files", len(paths)))

	files := make([]File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := readFile(src, path)
			if err != nil {
				return err
			}
			files[i] = f
			if logger.TraceEnabled() {
				logger.Trace("decoded program", slog.String("path", path),
					slog.Int("statements", len(f.Program.Stmts)),
					slog.Int("parse_errors", len(f.ParseErrors)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Log(slog.LevelInfo, "parallel loading complete", slog.Int("programs", len(files)))
	return files, nil
}

func readFile(src Source, path string) (File, error) {
	r, err := src.Open(path)
	if err != nil {
		return File{}, err
	}
	defer r.Close()

	prog, parseErrs, err := astjson.Decode(r)
	if err != nil {
		return File{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	if prog.Source == "" {
		prog.Source = path
	}
	return File{Path: path, Program: prog, ParseErrors: parseErrs}, nil
}

// Load reads every program of src and compiles them in listing order.
// The error is non-nil only when reading fails; problems in the programs
// are returned as diagnostics.
func Load(ctx context.Context, src Source, opts ...Option) (string, []Diagnostic, error) {
	files, err := ReadPrograms(ctx, src, opts...)
	if err != nil {
		return "", nil, err
	}
	s := New(opts...)
	for _, f := range files {
		s.Add(f.Program, f.ParseErrors...)
	}
	out, diags := s.Compile()
	return out, diags, nil
}
