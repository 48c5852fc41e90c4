package commands

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/fuet/internal/bundle"
	"github.com/colonyops/fuet/internal/compiler"
	"github.com/colonyops/fuet/internal/core/config"
	"github.com/colonyops/fuet/internal/core/validate"
	"github.com/colonyops/fuet/internal/wrap"
	"github.com/colonyops/fuet/pkg/executil"
)

// OutputFlags are the bundle layout flags shared by the build and compile
// commands. They are registered once on the root command.
type OutputFlags struct {
	Output     string
	Namespace  string
	CommonJS   bool
	ESModules  bool
	PathFilter []string
	NoMinify   bool
}

// Flags returns the layout flags for registration on the root command.
func (o *OutputFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "output file location (stdout when omitted)",
			Destination: &o.Output,
		},
		&cli.StringFlag{
			Name:        "namespace",
			Aliases:     []string{"n"},
			Usage:       "namespace for the global format (default: " + config.DefaultNamespace + ")",
			Destination: &o.Namespace,
		},
		&cli.BoolFlag{
			Name:        "commonjs",
			Aliases:     []string{"c"},
			Usage:       "use commonjs format",
			Destination: &o.CommonJS,
		},
		&cli.BoolFlag{
			Name:        "es_modules",
			Aliases:     []string{"e"},
			Usage:       "use es modules format",
			Destination: &o.ESModules,
		},
		&cli.StringSliceFlag{
			Name:        "pathfilter",
			Aliases:     []string{"p"},
			Usage:       "path segment to leave out of template names (repeat -p a -p b, or -p a,b)",
			Destination: &o.PathFilter,
		},
		&cli.BoolFlag{
			Name:        "no-minify",
			Usage:       "keep render functions readable",
			Destination: &o.NoMinify,
		},
	}
}

// Options merges the flags over the configured defaults.
func (o *OutputFlags) Options(cfg *config.Config) (bundle.Options, error) {
	if o.CommonJS && o.ESModules {
		return bundle.Options{}, fmt.Errorf("--commonjs and --es_modules are mutually exclusive")
	}

	format, err := wrap.ParseFormat(cfg.Output.Format)
	if err != nil {
		return bundle.Options{}, err
	}
	switch {
	case o.CommonJS:
		format = wrap.FormatCommonJS
	case o.ESModules:
		format = wrap.FormatESModule
	}

	namespace := cfg.Output.Namespace
	if o.Namespace != "" {
		namespace = o.Namespace
	}
	if format == wrap.FormatGlobal {
		if err := validate.Namespace(namespace); err != nil {
			return bundle.Options{}, err
		}
	}

	filter := make([]string, 0, len(cfg.Output.PathFilter)+len(o.PathFilter))
	filter = append(filter, cfg.Output.PathFilter...)
	filter = append(filter, o.PathFilter...)

	return bundle.Options{
		Format:      format,
		Namespace:   namespace,
		PathFilter:  filter,
		Output:      o.Output,
		ReadWorkers: cfg.ReadWorkers,
	}, nil
}

// Driver builds a bundle.Driver backed by node and esbuild.
func (o *OutputFlags) Driver(cfg *config.Config, stdout io.Writer) (*bundle.Driver, error) {
	opts, err := o.Options(cfg)
	if err != nil {
		return nil, err
	}

	comp, err := newCompiler(cfg)
	if err != nil {
		return nil, err
	}

	tr, err := o.transformer(cfg, opts.Format)
	if err != nil {
		return nil, err
	}

	return bundle.New(opts, comp, tr, stdout), nil
}

// transformer returns the esbuild pass for format. ES module output is
// strict mode code, so it is checked as such.
func (o *OutputFlags) transformer(cfg *config.Config, format wrap.Format) (*wrap.ESBuild, error) {
	tr, err := wrap.NewESBuild(cfg.Transform.Target, cfg.Transform.Minify && !o.NoMinify)
	if err != nil {
		return nil, err
	}
	if format == wrap.FormatESModule {
		tr = tr.Strict()
	}
	return tr, nil
}

func newCompiler(cfg *config.Config) (*compiler.Node, error) {
	command, err := compiler.SplitCommand(cfg.Compiler.Command)
	if err != nil {
		return nil, err
	}

	return compiler.NewNode(&executil.RealExecutor{}, compiler.Options{
		Command:            command,
		PreserveWhitespace: cfg.Compiler.PreserveWhitespace,
		OptimizeSSR:        cfg.Compiler.OptimizeSSR,
		StripWith:          cfg.Compiler.StripWith,
		Timeout:            cfg.Compiler.Timeout,
	})
}
