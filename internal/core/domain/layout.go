package domain

import "time"

const (
	// ConfigFileName is the name of the YAML project configuration file.
	ConfigFileName = "press.yaml"

	// TOMLConfigFileName is the alternative TOML project configuration file.
	TOMLConfigFileName = "press.toml"

	// DefaultSourceDir is the default source directory.
	DefaultSourceDir = "src"

	// DefaultOutputDir is the default output directory.
	DefaultOutputDir = "build"

	// DefaultTarget is the task run when none is named.
	DefaultTarget = "build"

	// DefaultServePort is the default development server port.
	DefaultServePort = 3000

	// DefaultDebounce is the default window for coalescing file events.
	DefaultDebounce = 50 * time.Millisecond

	// DefaultWebpQuality matches the quality the content images are tuned for.
	DefaultWebpQuality = 90

	// DefaultPNGLevel is the default optipng optimization level.
	DefaultPNGLevel = 3

	// DefaultDeployBranch is the default publish branch.
	DefaultDeployBranch = "gh-pages"

	// DefaultDeployRemote is the default publish remote.
	DefaultDeployRemote = "origin"

	// DefaultDeployMessage is the default publish commit message.
	DefaultDeployMessage = "Updates"

	// DirPerm is the default permission for directories (rwxr-xr-x).
	DirPerm = 0o755

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
