package xtask

import (
	"path/filepath"
	"runtime"

	"github.com/mstoykov/envconfig"
)

// Options configures a Runner. Every field can be overridden from the
// environment through the XTASK_* variables named in the struct tags.
type Options struct {
	// Root is the repository root that all relative paths resolve
	// against.
	Root string `envconfig:"XTASK_ROOT"`

	// Snapshots is the directory, relative to Root, that snapshot tests
	// write their outputs to.
	Snapshots string `envconfig:"XTASK_SNAPSHOTS"`

	// Jobs bounds how many external tool invocations run concurrently.
	Jobs int `envconfig:"XTASK_JOBS"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Root:      ".",
		Snapshots: filepath.Join("tests", "out"),
		Jobs:      runtime.GOMAXPROCS(0),
	}
}

// OptionsFromEnv layers XTASK_* environment variables over the
// defaults.
func OptionsFromEnv() (Options, error) {
	opts := DefaultOptions()
	if err := envconfig.Process("", &opts); err != nil {
		return Options{}, err
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return opts, nil
}
