// Package toolkit exposes a tree of tools to a language model as one tool.
//
// A Toolkit holds Parents, a Parent groups related Children, and a Child is a
// single operation with typed arguments. The model sends one request naming
// any number of parents and children; the toolkit runs them in order and
// returns a response with the same shape, carrying per-child failures as
// ToolKitError values instead of aborting the whole request.
//
// NewParent and NewChild build the standard implementations; a Child is usually
// a typed handler whose argument struct also describes the tool's input schema.
package toolkit

import (
	"context"
	"encoding/json"
)

// Parent is a named namespace of children.
type Parent interface {
	// GetName returns the name requests use to address the parent. It must be
	// unique within a Toolkit.
	GetName() string

	// GetDescription is shown to the model in the toolkit description.
	GetDescription() string

	// GetChildren returns the children keyed by name.
	GetChildren() map[string]Child

	// HandleChildren runs the requested children and returns one ChildResponse
	// per request, in request order. It does not fail as a whole: unknown
	// children and handler errors are reported inside the response.
	HandleChildren(ctx context.Context, childRequests []ToolKitChild) ParentResponse
}

// Child is a single tool.
type Child interface {
	// GetName returns the name requests use to address the child. It must be
	// unique within its parent.
	GetName() string

	// GetDescription is shown to the model next to the input schema.
	GetDescription() string

	// GetInputSchema returns the JSON schema of the arguments Handle accepts.
	GetInputSchema() interface{}

	// Handle decodes args and runs the tool. Errors should be ToolKitError
	// values so the model receives a machine-readable code.
	Handle(ctx context.Context, args json.RawMessage) (interface{}, error)
}
