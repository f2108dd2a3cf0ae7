package core

import "errors"

var (
	// ErrEdgeOutOfRange is returned when an edge references a node index
	// that does not exist in the node table.
	ErrEdgeOutOfRange = errors.New("edge references node index out of range")
	// ErrUnknownNode is returned when an edge references an unknown node ID.
	ErrUnknownNode = errors.New("edge references unknown node id")
	// ErrDuplicateNode is returned when two nodes share an ID.
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrUnknownColor is returned for a color outside the palette.
	ErrUnknownColor = errors.New("unknown palette color")
	// ErrSampleCount is returned when a curve is sampled with fewer than two points.
	ErrSampleCount = errors.New("invalid curve sample count")
	// ErrEmptyScene is returned when a scene has no nodes at all.
	ErrEmptyScene = errors.New("scene has no nodes")
	// ErrRendererPanic wraps a panic recovered from a renderer.
	ErrRendererPanic = errors.New("renderer panicked")
)
