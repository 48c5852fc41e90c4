// Package logging provides component loggers and context fields for fuet.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier and the
// context hook attached, so events logged with .Ctx(ctx) carry the file
// and template being processed.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger().Hook(ContextHook{})
}
