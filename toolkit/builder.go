package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/hamzaessahbaoui/coderunner-toolkit/internal/logging"
)

// --- Child Builder ---

// child is the generic Child produced by NewChild. T is the argument struct
// the handler receives; its jsonschema tags drive the input schema.
type child[T any] struct {
	name        string
	description string
	schema      interface{}
	handler     func(ctx context.Context, args T) (interface{}, error)
}

// NewChild builds a Child from a typed handler. The raw JSON arguments of a
// request are decoded into T before the handler runs, and the input schema
// is generated once from T.
//
// Parameters:
//   - name: The child name, unique within its parent
//   - description: Text shown to the model next to the input schema
//   - handler: The function run for each request; args holds the decoded
//     arguments, or the zero T when the request carries none
//
// Returns:
//   - A Child ready to pass to NewParent
//
// Errors are mapped onto ToolKitError:
//   - arguments that do not decode into T yield "invalid_arguments"
//   - a handler error yields "handler_execution_error", unless the handler
//     already returned a ToolKitError, which is passed through unchanged
//
// Example:
//
//	readTool := toolkit.NewChild("read_file", "Reads a file.",
//	    func(ctx context.Context, args ReadArgs) (interface{}, error) {
//	        return read(ctx, args)
//	    })
func NewChild[T any](name, description string, handler func(ctx context.Context, args T) (interface{}, error)) Child {
	return &child[T]{
		name:        name,
		description: description,
		schema:      GenerateSchema[T](),
		handler:     handler,
	}
}

func (c *child[T]) GetName() string             { return c.name }
func (c *child[T]) GetDescription() string      { return c.description }
func (c *child[T]) GetInputSchema() interface{} { return c.schema }

// Handle decodes args into T and runs the handler.
func (c *child[T]) Handle(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var parsed T
	if len(args) > 0 {
		if err := json.Unmarshal(args, &parsed); err != nil {
			return nil, NewError("invalid_arguments", fmt.Sprintf("Invalid arguments for '%s': %v", c.name, err))
		}
	}

	if c.handler == nil {
		return nil, NewError("handler_execution_error", fmt.Sprintf("Child tool '%s' has no handler", c.name))
	}

	result, err := c.handler(ctx, parsed)
	if err != nil {
		var tkErr ToolKitError
		if errors.As(err, &tkErr) {
			return nil, tkErr
		}
		return nil, NewError("handler_execution_error", err.Error())
	}
	return result, nil
}

// --- Parent Builder ---

// parent is the Parent produced by NewParent.
type parent struct {
	name        string
	description string
	children    map[string]Child
}

// NewParent groups children under a named parent. Nil children are skipped
// and a duplicate name replaces the earlier child, both with a warning.
func NewParent(name, description string, children ...Child) Parent {
	childMap := make(map[string]Child, len(children))
	for _, c := range children {
		if c == nil {
			logging.L().Warn().Str("parent", name).Msg("nil child provided to toolkit.NewParent, skipping")
			continue
		}
		if _, exists := childMap[c.GetName()]; exists {
			logging.L().Warn().Str("parent", name).Str("child", c.GetName()).Msg("duplicate child name in toolkit.NewParent, overwriting")
		}
		childMap[c.GetName()] = c
	}
	return &parent{
		name:        name,
		description: description,
		children:    childMap,
	}
}

func (p *parent) GetName() string        { return p.name }
func (p *parent) GetDescription() string { return p.description }

// GetChildren returns a copy of the registered children keyed by name.
func (p *parent) GetChildren() map[string]Child {
	out := make(map[string]Child, len(p.children))
	for k, v := range p.children {
		out[k] = v
	}
	return out
}

// HandleChildren runs the requested children in request order. Every request
// produces exactly one ChildResponse; failures are carried as ToolKitError
// values in the Response field.
func (p *parent) HandleChildren(ctx context.Context, childRequests []ToolKitChild) ParentResponse {
	resp := ParentResponse{Name: p.name}

	for _, req := range childRequests {
		c, ok := p.children[req.Name]
		if !ok {
			logging.L().Warn().Str("parent", p.name).Str("child", req.Name).Msg("requested child not found")
			resp.AddResponse(ChildResponse{
				Name:     req.Name,
				Response: NewError("child_not_found", fmt.Sprintf("Child tool '%s' not registered in parent '%s'", req.Name, p.name)),
			})
			continue
		}

		result, err := c.Handle(ctx, req.Args)
		if err != nil {
			logging.L().Error().Err(err).Str("parent", p.name).Str("child", req.Name).Msg("child tool failed")
			resp.AddResponse(ChildResponse{Name: req.Name, Response: asToolKitError(err)})
			continue
		}
		resp.AddResponse(ChildResponse{Name: req.Name, Response: result})
	}

	return resp
}

func asToolKitError(err error) ToolKitError {
	var tkErr ToolKitError
	if errors.As(err, &tkErr) {
		return tkErr
	}
	return ToolKitError{Code: "handler_execution_error", Message: err.Error()}
}

func sortedChildNames(children map[string]Child) []string {
	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
