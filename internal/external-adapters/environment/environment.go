// Package environment reads shipyard settings from the process environment.
package environment

import (
	"github.com/xyproto/env/v2"
)

// Variable names consulted by the CLI.
const (
	LogLevelVar       = "SHIPYARD_LOG_LEVEL"
	SignPassphraseVar = "SHIPYARD_SIGN_PASSPHRASE"
	SignKeyVar        = "SHIPYARD_SIGN_KEY"
)

// env/v2 snapshots os.Environ on first use by default. Turning the cache
// off makes every read see the live process environment.
func init() {
	env.Unload()
}

// Source is a read-only view of environment variables.
type Source struct{}

// New returns a Source backed by the process environment.
func New() *Source {
	return &Source{}
}

// Lookup returns the value of name and whether it is set. A variable set
// to the empty string counts as set.
func (s *Source) Lookup(name string) (string, bool) {
	value, ok := env.Map()[name]
	return value, ok
}

// Str returns the value of name, or def when unset or empty.
func (s *Source) Str(name, def string) string {
	return env.Str(name, def)
}

// LogLevel returns $SHIPYARD_LOG_LEVEL, or "" when unset.
func (s *Source) LogLevel() string {
	return env.Str(LogLevelVar)
}

// SignPassphrase returns the passphrase for an encrypted signing key.
func (s *Source) SignPassphrase() []byte {
	if p := env.Str(SignPassphraseVar); p != "" {
		return []byte(p)
	}
	return nil
}
