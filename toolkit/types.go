package toolkit

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// --- Request ---

// ToolKit is the request a model sends when it invokes the toolkit. Several
// parents and children can be named in one request to save round trips.
type ToolKit struct {
	Name           string          `json:"name" jsonschema:"required,description=The name of the toolkit."`
	ToolKitParents []ToolKitParent `json:"parents" jsonschema:"required,description=The parent toolkits to execute within the toolkit."`
}

// ToolKitParent addresses one parent and the children to run under it.
type ToolKitParent struct {
	Name          string         `json:"name" jsonschema:"required,description=The name of the parent toolkit to execute."`
	ToolKitChilds []ToolKitChild `json:"childs" jsonschema:"required,description=The child tools to execute within this parent."`
}

// ToolKitChild addresses one child. Args stay raw until the child decodes
// them into its own argument type.
type ToolKitChild struct {
	Name string          `json:"name" jsonschema:"required,description=The name of the child tool to execute."`
	Args json.RawMessage `json:"args" jsonschema:"required,description=The arguments for the child tool as a JSON object."`
}

// --- Response ---

// ToolKitResponse mirrors the request: one ParentResponse per requested parent.
type ToolKitResponse struct {
	Name      string           `json:"name"`
	Responses []ParentResponse `json:"responses,omitempty"`
}

// ParentResponse holds the child responses of one parent in request order.
type ParentResponse struct {
	Name            string          `json:"name"`
	ChildsResponses []ChildResponse `json:"childsResponses,omitempty"`
}

// ChildResponse is the outcome of one child: the handler's result, or a
// ToolKitError when the child could not run or failed.
type ChildResponse struct {
	Name     string      `json:"name"`
	Response interface{} `json:"response,omitempty"`
}

// AddResponse appends pr.
func (tr *ToolKitResponse) AddResponse(pr ParentResponse) {
	tr.Responses = append(tr.Responses, pr)
}

// AddResponse appends cr.
func (pr *ParentResponse) AddResponse(cr ChildResponse) {
	pr.ChildsResponses = append(pr.ChildsResponses, cr)
}

// --- Errors ---

// ToolKitError is the error value reported back to the model.
type ToolKitError struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

func (e ToolKitError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError returns a ToolKitError as an error.
//
// Error codes produced by the framework:
//   - "invalid_arguments": tool arguments don't decode into the child's argument type
//   - "handler_execution_error": the child's handler returned an error
//   - "child_not_found": a requested child tool doesn't exist
//   - "parent_not_found": a requested parent doesn't exist
//   - "invalid_input_json": the toolkit request itself is not valid JSON
//   - "no_toolkit_parents": the toolkit request names no parents
func NewError(code, message string) error {
	return ToolKitError{
		Code:    code,
		Message: message,
	}
}

// --- Schemas ---

// GenerateSchema reflects T into a self-contained JSON schema. Fields tagged
// `jsonschema:"required"` are listed as required and description tags are
// carried over.
//
//	type ReadArgs struct {
//	    Path string `json:"path" jsonschema:"required,description=File to read."`
//	}
//	schema := GenerateSchema[ReadArgs]()
func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		DoNotReference:             true, // no $refs, the schema is embedded in prompts
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	return reflector.Reflect(&v)
}

// GetToolKitSchemaForAnthropic generates the JSON schema of the top-level ToolKit
// request in the layout Anthropic's tool use API accepts as an input_schema.
func GetToolKitSchemaForAnthropic() interface{} {
	return GenerateSchema[ToolKit]()
}
