// Package response holds the tools a model uses to surface its reasoning
// and its final answer to the user.
package response

import (
	"context"

	"github.com/hamzaessahbaoui/coderunner-toolkit/internal/logging"
)

// LogThinking records the model's reasoning at debug level.
func LogThinking(ctx context.Context, args ModelThinkingArgs) (ModelThinking, error) {
	if args.Thinking == "" {
		logging.L().Warn().Str("tool", "model_thinking").Msg("received empty thinking string")
		return ModelThinking{Success: true}, nil
	}
	logging.L().Debug().Str("tool", "model_thinking").Str("thinking", args.Thinking).Msg("model thinking")
	return ModelThinking{Success: true}, nil
}

// LogResponse records the model's final answer for the user.
func LogResponse(ctx context.Context, args ModelResponseArgs) (ModelResponse, error) {
	if args.Response == "" {
		logging.L().Warn().Str("tool", "model_response").Msg("received empty response string")
		return ModelResponse{Success: true}, nil
	}
	logging.L().Info().Str("tool", "model_response").Str("response", args.Response).Msg("model response")
	return ModelResponse{Success: true}, nil
}
