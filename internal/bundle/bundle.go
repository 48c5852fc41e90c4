// Package bundle drives a single build: it expands the input pattern,
// reads every matched template, compiles and wraps each one, and writes the
// concatenated result.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"

	"github.com/colonyops/fuet/internal/compiler"
	"github.com/colonyops/fuet/internal/core/logging"
	"github.com/colonyops/fuet/internal/naming"
	"github.com/colonyops/fuet/internal/wrap"
)

// ErrNoMatches is returned when the input pattern matches no files.
var ErrNoMatches = errors.New("no files matched")

// Options is the immutable configuration of one run.
type Options struct {
	Format     wrap.Format
	Namespace  string // global format only
	PathFilter []string
	Output     string // empty writes to stdout
	// ReadWorkers bounds concurrent file reads. Zero or less means unbounded.
	ReadWorkers int
}

// Driver runs builds.
type Driver struct {
	opts     Options
	compiler compiler.Compiler
	wrapper  *wrap.Wrapper
	stdout   io.Writer
	log      zerolog.Logger
}

// New returns a Driver. stdout receives the bundle when opts.Output is empty.
func New(opts Options, c compiler.Compiler, t wrap.Transformer, stdout io.Writer) *Driver {
	return &Driver{
		opts:     opts,
		compiler: c,
		wrapper:  wrap.New(opts.Format, opts.Namespace, t),
		stdout:   stdout,
		log:      logging.Component("bundle"),
	}
}

// Run builds the bundle for pattern and writes it. Nothing is written when
// any file fails to read, name, compile or transform.
func (d *Driver) Run(ctx context.Context, pattern string) error {
	data, err := d.Build(ctx, pattern)
	if err != nil {
		return err
	}
	return d.Write(data)
}

// Build returns the concatenated bundle for pattern without writing it.
func (d *Driver) Build(ctx context.Context, pattern string) (string, error) {
	files, err := Match(pattern)
	if err != nil {
		return "", err
	}
	d.log.Debug().Str("pattern", pattern).Int("files", len(files)).Msg("matched templates")

	names, err := d.names(files)
	if err != nil {
		return "", err
	}

	results := ReadAll(ctx, files, d.opts.ReadWorkers)
	for _, r := range results {
		if r.Err != nil {
			return "", r.Err
		}
	}

	var b strings.Builder
	for i, r := range results {
		fctx := logging.WithTemplate(logging.WithFile(ctx, r.Path), names[i])

		frag, err := d.compile(fctx, r.Path, names[i], r.Data)
		if err != nil {
			return "", err
		}
		b.WriteString(frag.Code)
		d.log.Debug().Ctx(fctx).Int("bytes", len(frag.Code)).Msg("compiled template")
	}

	d.log.Info().Int("templates", len(results)).Msg("bundle built")
	return b.String(), nil
}

// ProcessSource compiles a single in-memory template. file determines the
// template name exactly as if it had been matched on disk.
func (d *Driver) ProcessSource(ctx context.Context, file string, source []byte) (wrap.Fragment, error) {
	name := naming.Name(file, d.opts.PathFilter)
	if err := naming.Validate(name, file); err != nil {
		return wrap.Fragment{}, err
	}
	return d.compile(logging.WithTemplate(logging.WithFile(ctx, file), name), file, name, source)
}

func (d *Driver) compile(ctx context.Context, file, name string, source []byte) (wrap.Fragment, error) {
	tmpl, err := d.compiler.Compile(ctx, file, source)
	if err != nil {
		return wrap.Fragment{}, err
	}

	frag, err := d.wrapper.Wrap(name, tmpl)
	if err != nil {
		return wrap.Fragment{}, fmt.Errorf("%s: %w", file, err)
	}
	return frag, nil
}

// names derives the template name of every file, rejecting names that are
// not identifiers and names claimed by more than one file.
func (d *Driver) names(files []string) ([]string, error) {
	names := make([]string, len(files))
	owners := make(map[string]string, len(files))

	for i, f := range files {
		name := naming.Name(f, d.opts.PathFilter)
		if err := naming.Validate(name, f); err != nil {
			return nil, err
		}
		if prev, ok := owners[name]; ok {
			return nil, fmt.Errorf("duplicate template name %q for %s and %s", name, prev, f)
		}
		owners[name] = f
		names[i] = name
	}

	return names, nil
}

// Write emits data to the output file, replacing it atomically, or to
// stdout followed by a newline when no output file is configured.
func (d *Driver) Write(data string) error {
	if d.opts.Output == "" {
		if _, err := io.WriteString(d.stdout, data+"\n"); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(d.opts.Output), 0o755); err != nil {
		return fmt.Errorf("write output %s: %w", d.opts.Output, err)
	}
	_, statErr := os.Stat(d.opts.Output)
	if err := atomic.WriteFile(d.opts.Output, strings.NewReader(data)); err != nil {
		return fmt.Errorf("write output %s: %w", d.opts.Output, err)
	}
	// atomic keeps the mode of a replaced file; new files start out 0600.
	if os.IsNotExist(statErr) {
		if err := os.Chmod(d.opts.Output, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", d.opts.Output, err)
		}
	}

	d.log.Info().Str("output", d.opts.Output).Int("bytes", len(data)).Msg("bundle written")
	return nil
}

// Match expands pattern to regular files in matcher order.
func Match(pattern string) ([]string, error) {
	files, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("match %q: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoMatches, pattern)
	}
	return files, nil
}
