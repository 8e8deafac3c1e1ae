package sources

import "errors"

var (
	// ErrMissingComponent indicates a component directory absent from the tree.
	ErrMissingComponent = errors.New("sources: component directory not found")

	// ErrMissingSource indicates a listed source file or source directory is absent.
	ErrMissingSource = errors.New("sources: source not found")

	// ErrUnknownFamily indicates a target family with no platform source list.
	ErrUnknownFamily = errors.New("sources: unknown target family")

	// ErrUnknownComponent indicates a component name not present in the manifest.
	ErrUnknownComponent = errors.New("sources: unknown component")
)
