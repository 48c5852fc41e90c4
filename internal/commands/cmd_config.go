package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/fuet/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	stdout io.Writer
	format string
}

// ConfigReport is the JSON shape printed by config validate --format json.
type ConfigReport struct {
	ConfigPath      string `json:"config_path"`
	Valid           bool   `json:"valid"`
	CompilerVersion string `json:"compiler_version,omitempty"`
	Error           string `json:"error,omitempty"`
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags, stdout io.Writer) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags, stdout: stdout}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration and compiler setup",
				UsageText:   "fuet config validate [options]",
				Description: "Loads the configuration file and checks that node can resolve vue-template-compiler from the current directory.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, _ *cli.Command) error {
	report := ConfigReport{ConfigPath: cmd.flags.ConfigPath}

	version, err := cmd.check(ctx)
	if err != nil {
		report.Error = err.Error()
	} else {
		report.Valid = true
		report.CompilerVersion = version
	}

	if cmd.format == "json" {
		if werr := iojson.WriteWith(cmd.stdout, cmd.stdout, report); werr != nil {
			return werr
		}
		return err
	}

	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.stdout, "config ok (vue-template-compiler %s)\n", version)
	return err
}

func (cmd *ConfigValidateCmd) check(ctx context.Context) (string, error) {
	comp, err := newCompiler(cmd.flags.Config)
	if err != nil {
		return "", err
	}
	return comp.Check(ctx)
}
