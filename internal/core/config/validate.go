package config

import (
	"fmt"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/fuet/internal/compiler"
	"github.com/colonyops/fuet/internal/core/validate"
	"github.com/colonyops/fuet/internal/wrap"
)

// Validate checks that the configuration is valid. All problems are
// reported together as criterio.FieldErrors.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("compiler.command", c.Compiler.Command, validCommand),
		c.validateLimits(),
		criterio.Run("transform.target", c.Transform.Target, validTarget),
		criterio.Run("output.format", c.Output.Format, validFormat),
		validate.NamespaceField("output.namespace", c.Output.Namespace),
		c.validatePathFilter(),
		c.validateModuleOutput(),
	)
}

// validateModuleOutput rejects esmodule output with strip_with disabled:
// with(this) render bodies are a syntax error inside an ES module.
func (c *Config) validateModuleOutput() error {
	format, err := wrap.ParseFormat(c.Output.Format)
	if err != nil || format != wrap.FormatESModule || c.Compiler.StripWith {
		return nil
	}
	var errs criterio.FieldErrorsBuilder
	errs = errs.Append("compiler.strip_with", fmt.Errorf("must be enabled for esmodule output"))
	return errs.ToError()
}

func (c *Config) validateLimits() error {
	var errs criterio.FieldErrorsBuilder
	if c.ReadWorkers < 1 {
		errs = errs.Append("read_workers", fmt.Errorf("must be at least 1"))
	}
	if c.Compiler.Timeout < 0 {
		errs = errs.Append("compiler.timeout", fmt.Errorf("cannot be negative"))
	}
	return errs.ToError()
}

func (c *Config) validatePathFilter() error {
	var errs criterio.FieldErrorsBuilder
	for i, seg := range c.Output.PathFilter {
		if seg == "" {
			errs = errs.Append(fmt.Sprintf("output.pathfilter[%d]", i), fmt.Errorf("segment cannot be empty"))
		}
	}
	return errs.ToError()
}

func validCommand(cmd string) error {
	_, err := compiler.SplitCommand(cmd)
	return err
}

func validTarget(target string) error {
	_, err := wrap.ParseTarget(target)
	return err
}

func validFormat(format string) error {
	_, err := wrap.ParseFormat(format)
	return err
}
