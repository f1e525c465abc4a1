package response

// ModelThinkingArgs defines the arguments for the model_thinking tool.
type ModelThinkingArgs struct {
	Thinking string `json:"thinking" jsonschema:"required,description=The thinking steps or thoughts to be logged by the system."`
}

// ModelResponseArgs defines the arguments for the model_response tool.
type ModelResponseArgs struct {
	Response string `json:"response" jsonschema:"required,description=The final response text to be presented to the user."`
}

// ModelThinking is the result of the model_thinking tool.
type ModelThinking struct {
	Success bool   `json:"Success"`
	Error   string `json:"Error,omitempty"`
}

// ModelResponse is the result of the model_response tool.
type ModelResponse struct {
	Success bool   `json:"Success"`
	Error   string `json:"Error,omitempty"`
}
