package entities

import "sort"

// Vendor build actions.
const (
	ActionBuild = "build"
	ActionPrint = "print" // log every step without executing it
)

// DefaultParallelJobs is the make -j value when none is configured.
const DefaultParallelJobs = 4

// BuildConfig holds the per-invocation switches for a vendor build.
type BuildConfig struct {
	Action        string
	CleanFirst    bool
	UseCcache     bool
	ForceClang    bool
	Debug         bool
	ParallelJobs  int
	PrintCommands bool
	Execute       bool
}

// NewBuildConfig returns a config for the given action with defaults applied.
func NewBuildConfig(action string) (BuildConfig, error) {
	cfg := BuildConfig{
		Action:        action,
		ParallelJobs:  DefaultParallelJobs,
		PrintCommands: true,
		Execute:       true,
	}
	switch action {
	case "", ActionBuild:
		cfg.Action = ActionBuild
	case ActionPrint:
		cfg.Execute = false
	default:
		return BuildConfig{}, NewValidationError("invalid action %q (valid: %s, %s)", action, ActionBuild, ActionPrint)
	}
	return cfg, nil
}

// BuildContext is the resolved target of a vendor build plus the
// environment applied to every command it runs.
type BuildContext struct {
	Platform Platform
	Arch     Arch
	Env      map[string]string
}

// NewBuildContext creates a context with an empty environment overlay.
func NewBuildContext(p Platform, a Arch) *BuildContext {
	return &BuildContext{Platform: p, Arch: a, Env: make(map[string]string)}
}

// Setenv records a variable for subsequent commands.
func (c *BuildContext) Setenv(key, value string) {
	c.Env[key] = value
}

// Getenv returns a variable from the overlay.
func (c *BuildContext) Getenv(key string) (string, bool) {
	v, ok := c.Env[key]
	return v, ok
}

// EnvKeys returns the overlay keys sorted.
func (c *BuildContext) EnvKeys() []string {
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
