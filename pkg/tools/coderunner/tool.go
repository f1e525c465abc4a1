package coderunner

import (
	"context"

	"github.com/hamzaessahbaoui/coderunner-toolkit/toolkit"
)

const (
	// ParentName is the toolkit parent the code runner is registered under.
	ParentName = "code_runner"
	// ChildName is the toolkit child that dispatches a single operation.
	ChildName = "run_code_operation"
)

// NewChild exposes the dispatcher as a toolkit child bound to cfg. The
// handler never fails: backend and validation errors are reported through
// the OperationResult it returns.
func NewChild(cfg RuntimeConfig, opts ...Option) toolkit.Child {
	r := New(opts...)
	return toolkit.NewChild(
		ChildName,
		"Reads, executes, creates, updates (find/replace) or deletes a source file held by the code backend. Returns a message and the backend data; data is null when the operation failed.",
		func(ctx context.Context, args OperationRequest) (interface{}, error) {
			return r.Dispatch(ctx, args, cfg), nil
		},
	)
}

// NewParent wraps NewChild in the code_runner parent.
func NewParent(cfg RuntimeConfig, opts ...Option) toolkit.Parent {
	return toolkit.NewParent(
		ParentName,
		"Handles source files stored and executed by the remote code backend.",
		NewChild(cfg, opts...),
	)
}
