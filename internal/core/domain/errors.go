package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrUnknownAssetKind is returned when a name does not match any asset kind.
	ErrUnknownAssetKind = zerr.New("unknown asset kind, expected one of html, css, js, images, fonts")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrEnvFileLoadFailed is returned when the .env file exists but cannot be loaded.
	ErrEnvFileLoadFailed = zerr.New("failed to load .env file")

	// ErrInvalidPort is returned when the dev server port is out of range.
	ErrInvalidPort = zerr.New("invalid dev server port")

	// ErrRootNotFound is returned when the project root does not exist.
	ErrRootNotFound = zerr.New("project root not found")

	// ErrMissingPathSpec is returned when the path table lacks an asset kind.
	ErrMissingPathSpec = zerr.New("missing path spec for asset kind")

	// ErrInvalidPattern is returned when a source or watch glob is malformed.
	ErrInvalidPattern = zerr.New("invalid glob pattern")

	// ErrOutputPathOutsideRoot is returned when an output path escapes its root.
	ErrOutputPathOutsideRoot = zerr.New("output path is outside its root")

	// ErrOverlappingOutputs is returned when two asset kinds share an output directory.
	ErrOverlappingOutputs = zerr.New("asset kinds share an output directory")

	// ErrStageFailed is returned when a transformation fails for a file.
	ErrStageFailed = zerr.New("stage failed")

	// ErrSourceReadFailed is returned when the sources of a task cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read sources")

	// ErrOutputWriteFailed is returned when an output file cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write output")

	// ErrCleanFailed is returned when the output root cannot be removed.
	ErrCleanFailed = zerr.New("failed to clean output directory")

	// ErrTaskFailed is returned when a task does not complete successfully.
	ErrTaskFailed = zerr.New("task failed")

	// ErrBuildFailed is returned when a build does not complete successfully.
	ErrBuildFailed = zerr.New("build failed")

	// ErrWatchFailed is returned when the file watcher cannot be started or breaks.
	ErrWatchFailed = zerr.New("file watcher failed")

	// ErrServerFailed is returned when the dev server cannot serve.
	ErrServerFailed = zerr.New("dev server failed")

	// ErrCompilerNotFound is returned when the stylesheet compiler binary is missing.
	ErrCompilerNotFound = zerr.New("stylesheet compiler not found")

	// ErrCompileFailed is returned when the stylesheet compiler rejects a source.
	ErrCompileFailed = zerr.New("stylesheet compilation failed")

	// ErrMinifyFailed is returned when a minifier rejects a file.
	ErrMinifyFailed = zerr.New("minification failed")

	// ErrStylesheetParseFailed is returned when a stylesheet cannot be parsed.
	ErrStylesheetParseFailed = zerr.New("failed to parse stylesheet")

	// ErrImageOptimizeFailed is returned when an image cannot be optimized.
	ErrImageOptimizeFailed = zerr.New("image optimization failed")

	// ErrIncludeNotFound is returned when an include directive references a missing file.
	ErrIncludeNotFound = zerr.New("included file not found")

	// ErrIncludeCycle is returned when include directives form a cycle.
	ErrIncludeCycle = zerr.New("include cycle detected")

	// ErrSkipEntry is returned by a transformer to drop an entry without a failure.
	ErrSkipEntry = zerr.New("entry skipped")
)

// StageError reports a transformation failure for a single file.
// It matches ErrStageFailed with errors.Is and unwraps to the cause.
type StageError struct {
	Kind  AssetKind
	Stage string
	Path  string
	Err   error
}

// NewStageError wraps err as a failure of stage on the given file.
func NewStageError(kind AssetKind, stage, path string, err error) *StageError {
	return &StageError{Kind: kind, Stage: stage, Path: path, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s stage failed for %s: %v", e.Kind, e.Stage, e.Path, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *StageError) Unwrap() []error {
	return []error{ErrStageFailed, e.Err}
}
