package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a composite task references a child that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrInvalidTaskName is returned when a task name contains invalid characters.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrInvalidTask is returned when a task's kind does not match its shape
	// (a leaf without a step, or a composite without children).
	ErrInvalidTask = zerr.New("invalid task definition")

	// ErrAliasConflict is returned when an alias shadows a task name or another alias.
	ErrAliasConflict = zerr.New("alias conflicts with an existing name")

	// ErrNoTargetsSpecified is returned when no targets are specified for the run command.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrOutputPathOutsideRoot is returned when an output path is outside the project root.
	ErrOutputPathOutsideRoot = zerr.New("output path is outside project root")

	// ErrUnknownStep is returned when no transformer is registered for a step kind.
	ErrUnknownStep = zerr.New("no transformer registered for step")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when a parsed config holds values that cannot be used.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrTransformFailed is returned when an external or native transform rejects its input.
	ErrTransformFailed = zerr.New("transform failed")

	// ErrPublishFailed is returned when the output directory could not be published.
	ErrPublishFailed = zerr.New("publish failed")

	// ErrFilesystem marks failures of the filesystem itself (permission denied, disk full).
	// Errors joined with it abort the whole invocation.
	ErrFilesystem = zerr.New("filesystem failure")

	// ErrRunAborted is returned for steps that were not started because an earlier
	// filesystem failure aborted the invocation.
	ErrRunAborted = zerr.New("run aborted after filesystem failure")

	// ErrInputResolutionFailed is returned when input glob resolution fails.
	ErrInputResolutionFailed = zerr.New("failed to resolve inputs")

	// ErrInvalidPattern is returned when an input glob cannot be compiled.
	ErrInvalidPattern = zerr.New("invalid glob pattern")

	// ErrIncludeNotFound is returned when an HTML include directive points at a missing file.
	ErrIncludeNotFound = zerr.New("include not found")

	// ErrIncludeCycle is returned when HTML includes reference each other recursively.
	ErrIncludeCycle = zerr.New("include cycle detected")

	// ErrToolNotFound is returned when an external tool binary cannot be located.
	ErrToolNotFound = zerr.New("tool not found")

	// ErrServerStartFailed is returned when the live-reload server cannot listen.
	ErrServerStartFailed = zerr.New("failed to start live-reload server")

	// ErrAlreadyServing is returned when Serve is called on a controller that is already serving.
	ErrAlreadyServing = zerr.New("serve controller already running")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrFailedToResolveRelativePath is returned when a relative path cannot be resolved.
	ErrFailedToResolveRelativePath = zerr.New("failed to resolve relative path")

	// ErrFailedToCleanOutput is returned when removing an output path fails.
	ErrFailedToCleanOutput = zerr.New("failed to clean output path")

	// ErrFileReadFailed is returned when a source file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrInvalidOutputMode is returned for an unknown --output-mode value.
	ErrInvalidOutputMode = zerr.New("invalid output mode")

	// ErrInvalidLogFormat is returned for an unknown --log-format value.
	ErrInvalidLogFormat = zerr.New("invalid log format")

	// ErrFileWriteFailed is returned when an output file cannot be written.
	ErrFileWriteFailed = zerr.New("failed to write file")
)

// Fatal marks err as a filesystem failure so the scheduler stops starting new steps.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrFilesystem, err)
}

// IsFatal reports whether err carries the filesystem failure marker.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFilesystem)
}
