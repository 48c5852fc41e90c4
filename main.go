package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/fuet/internal/commands"
	"github.com/colonyops/fuet/internal/core/config"
	"github.com/colonyops/fuet/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// logCloser closes the log file opened in Before. It runs after execute has
// logged the run error, so failures reach --log-file too.
var logCloser = func() {}

// newApp wires the command tree. stdin and stdout are injected so the
// bundle can be captured in tests.
func newApp(stdin io.Reader, stdout io.Writer) *cli.Command {
	flags := &commands.Flags{}
	out := &commands.OutputFlags{}

	app := &cli.Command{
		Name:      "fuet",
		Usage:     "Compile Vue templates into a single render function bundle",
		UsageText: "fuet -i <glob> [-o file] [-c | -e] [-n namespace] [-p segment]...",
		Description: `fuet compiles every template matched by the input glob with
vue-template-compiler and concatenates the render functions into one file.

Each template is exposed under a name derived from its path:
  src/components/user-card.vue  ->  src_components_user_card

Output formats:
  global (default)  window.templates.<name>={r:...,s:[...]};
  --commonjs        module.exports.<name>={r:...,s:[...]};
  --es_modules      export const <name>={r:...,s:[...]};

Path filters are repeated or comma separated, not space separated:
  -p src -p views    or    -p src,views

Example:
  fuet -i "src/**/*.vue" -p src -o dist/templates.js`,
		Version: build(),
		Writer:  stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("FUET_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("FUET_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to config file",
				Sources:     cli.EnvVars("FUET_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			return ctx, nil
		},
	}

	buildCmd := commands.NewBuildCmd(flags, out, stdout)

	app = commands.NewNameCmd(flags, out, stdout).Register(app)
	app = commands.NewCompileCmd(flags, out, stdin, stdout).Register(app)
	app = commands.NewConfigValidateCmd(flags, stdout).Register(app)

	// Build flags live on the root command
	app.Flags = append(app.Flags, buildCmd.Flags()...)

	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'fuet --help' for usage", c.Args().First())
		}
		return buildCmd.Run(ctx, c)
	}

	return app
}

// execute runs the app and returns the process exit code. Failures are
// logged and printed to stderr.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	defer func() { logCloser() }()

	if err := newApp(stdin, stdout).Run(ctx, args); err != nil {
		log.Error().Err(err).Msg("run failed")
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}
