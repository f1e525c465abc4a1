package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hamzaessahbaoui/coderunner-toolkit/internal/logging"
)

// ProviderAnthropic selects the schema layout expected by Anthropic's tool use API.
const ProviderAnthropic = "anthropic"

// --- Toolkit Struct and Methods ---

// Toolkit orchestrates the execution of hierarchical tool structures.
// It serves as the top-level container for Parent tools and provides methods
// for generating descriptions, JSON schemas, and processing execution requests.
type Toolkit struct {
	parents map[string]Parent // Registry of Parent implementations mapped by name
	name    string            // Name of this toolkit instance
}

// New creates a new Toolkit instance with the provided name and parent toolkits.
// The parents are registered by name and become addressable in requests.
//
// Parameters:
//   - name: The toolkit name reported in descriptions and responses
//   - parents: The Parent implementations to register, in any order
//
// Behavior:
//   - Nil parents are skipped with a warning
//   - If duplicate parent names are detected, the last one overwrites previous instances
//   - No default parents are added automatically
//
// Returns:
//   - A pointer to the initialized Toolkit, ready for HandleToolKit
//
// Example:
//
//	runner := coderunner.NewParent(coderunner.RuntimeConfig{BaseURL: "http://localhost:8000"})
//	tk := toolkit.New("code_toolkit", runner)
func New(name string, parents ...Parent) *Toolkit {
	parentMap := make(map[string]Parent, len(parents))
	for _, p := range parents {
		if p == nil {
			logging.L().Warn().Str("toolkit", name).Msg("nil parent provided to toolkit.New, skipping")
			continue
		}
		if _, exists := parentMap[p.GetName()]; exists {
			logging.L().Warn().Str("toolkit", name).Str("parent", p.GetName()).Msg("duplicate parent name in toolkit.New, overwriting")
		}
		parentMap[p.GetName()] = p
	}

	return &Toolkit{
		parents: parentMap,
		name:    name,
	}
}

// GetToolkitName returns the configured name of the toolkit instance.
func (t *Toolkit) GetToolkitName() string {
	return t.name
}

// GetToolkitSchema returns a JSON schema representation for the toolkit's request structure.
// Only the Anthropic layout exists today; unknown providers fall back to it with a warning.
//
// Parameters:
//   - provider: The target provider identifier, normally ProviderAnthropic
//
// Returns:
//   - A self-contained JSON schema of the ToolKit request, suitable as the
//     input_schema of a single registered tool
//
// The schema describes the request envelope only. Child argument schemas are
// carried by GetToolkitDescription so the model sees them next to each child.
func (t *Toolkit) GetToolkitSchema(provider string) interface{} {
	switch provider {
	case ProviderAnthropic:
		return GetToolKitSchemaForAnthropic()
	default:
		logging.L().Warn().Str("provider", provider).Msg("unsupported schema provider, defaulting to anthropic schema")
		return GetToolKitSchemaForAnthropic()
	}
}

// GetToolkitDescription generates a human-readable XML-like description of the toolkit structure
// for a language model: the toolkit name, every parent with its description, and for each parent
// its children with descriptions and input schemas. Parents and children are listed by name so
// the text is stable between calls.
func (t *Toolkit) GetToolkitDescription() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("In this environment, you have access to the following <toolkit name=\"%s\">:\n", t.name))
	sb.WriteString("A <toolkit> is a collection of <parents>, a <parent> is a collection of <childs>.\n")
	sb.WriteString("Below is the list of available <parents> and their <childs>:\n")

	for _, parentName := range t.sortedParentNames() {
		parent := t.parents[parentName]
		sb.WriteString(fmt.Sprintf("<parent name=\"%s\" description=\"%s\">\n", parent.GetName(), parent.GetDescription()))

		children := parent.GetChildren()
		for _, childName := range sortedChildNames(children) {
			child := children[childName]
			schemaStr := "schema_error"
			schemaBytes, err := json.Marshal(child.GetInputSchema())
			if err == nil {
				schemaStr = string(schemaBytes)
			} else {
				logging.L().Error().Err(err).Str("parent", parent.GetName()).Str("child", child.GetName()).Msg("marshal child input schema")
			}
			sb.WriteString(fmt.Sprintf("<child name=\"%s\" description=\"%s\"><input_schema>%s</input_schema></child>\n", child.GetName(), child.GetDescription(), schemaStr))
		}
		sb.WriteString("</parent>\n")
		sb.WriteString("**NOTE**: A child tool cannot be invoked directly, the parent tool must be invoked first via its parent.\n")
	}
	sb.WriteString("</toolkit>")

	return sb.String()
}

func (t *Toolkit) sortedParentNames() []string {
	names := make([]string, 0, len(t.parents))
	for name := range t.parents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// --- Processing Methods ---

// HandleToolKit is the main entry point for processing toolkit execution requests.
// It accepts raw JSON input containing parent and child tool invocations, parses it,
// and orchestrates the execution of the requested tools.
//
// Parameters:
//   - ctx: The execution context, passed unchanged to every child handler
//   - input: Raw JSON payload following the ToolKit structure
//
// Returns:
//   - ToolKitResponse: One ParentResponse per requested parent, in request order
//   - error: The parse error for malformed JSON, or a "no_toolkit_parents"
//     ToolKitError; nil otherwise, even if individual children failed
//
// Failure handling:
//   - If JSON parsing fails, it returns a structured error response together with the error
//   - If requested parents are not found, it includes error responses for those parents
//   - If child tools fail, their errors are included in the appropriate child responses
func (t *Toolkit) HandleToolKit(ctx context.Context, input json.RawMessage) (ToolKitResponse, error) {
	tkRequest, err := t.parseToolKitInput(input)
	if err != nil {
		logging.L().Error().Err(err).Str("toolkit", t.name).Msg("parse toolkit input")
		errResp := ToolKitResponse{
			Name: "toolkit_request_parse_error",
			Responses: []ParentResponse{
				{
					Name: "_parse_error",
					ChildsResponses: []ChildResponse{
						{Name: "_input_error", Response: NewError("invalid_input_json", err.Error())},
					},
				},
			},
		}
		return errResp, err
	}

	return t.processToolKit(ctx, tkRequest)
}

// processToolKit routes each parent request to the matching Parent and collects
// their responses in request order.
func (t *Toolkit) processToolKit(ctx context.Context, toolkitRequest ToolKit) (ToolKitResponse, error) {
	tlResponse := ToolKitResponse{
		Name: t.GetToolkitName(),
	}

	if len(toolkitRequest.ToolKitParents) == 0 {
		return tlResponse, NewError("no_toolkit_parents", "No toolkit parents specified in the request")
	}

	for _, parentReq := range toolkitRequest.ToolKitParents {
		parent, ok := t.parents[parentReq.Name]
		if !ok {
			logging.L().Warn().Str("toolkit", t.name).Str("parent", parentReq.Name).Msg("requested parent not found")
			errResp := ParentResponse{
				Name: parentReq.Name,
				ChildsResponses: []ChildResponse{
					{Name: "_parent_error", Response: NewError("parent_not_found", fmt.Sprintf("Parent toolkit '%s' not registered", parentReq.Name))},
				},
			}
			tlResponse.AddResponse(errResp)
			continue
		}

		tlResponse.AddResponse(parent.HandleChildren(ctx, parentReq.ToolKitChilds))
	}

	return tlResponse, nil
}

func (t *Toolkit) parseToolKitInput(input json.RawMessage) (ToolKit, error) {
	var toolkitRequest ToolKit
	if err := json.Unmarshal(input, &toolkitRequest); err != nil {
		return ToolKit{}, fmt.Errorf("error unmarshaling toolkit JSON input: %w", err)
	}
	return toolkitRequest, nil
}
