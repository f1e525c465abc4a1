// Package coderunner maps logical code file operations (read, execute,
// create, update, delete) onto HTTP requests against a remote code
// resource at {baseUrl}/code/{filename}.
//
// Dispatch never returns an error. Validation failures, transport failures
// and non-2xx responses all come back as an OperationResult whose Data is
// nil and whose Message describes the failure.
package coderunner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hamzaessahbaoui/coderunner-toolkit/internal/httpx"
	"github.com/hamzaessahbaoui/coderunner-toolkit/internal/logging"
)

// Option configures a Runner.
type Option func(*Runner)

// WithHTTPClient overrides the HTTP client used for backend calls.
func WithHTTPClient(h *http.Client) Option {
	return func(r *Runner) {
		if h != nil {
			r.httpClient = h
		}
	}
}

// WithLogger sets the logger failures are reported to. Without it the
// process-wide logger is used.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = &l
	}
}

// Runner dispatches operations. It holds no per-call state and is safe for
// concurrent use. The zero value behaves like the default Runner.
type Runner struct {
	httpClient *http.Client
	client     *httpx.Client
	logger     *zerolog.Logger
}

// defaultHeaders are sent with every backend request.
var defaultHeaders = http.Header{"Accept": []string{httpx.ContentTypeJSON}}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	r.client = newClient(r.httpClient)
	return r
}

func newClient(h *http.Client) *httpx.Client {
	return httpx.NewClient(
		httpx.WithHTTPClient(h),
		httpx.WithHeaders(defaultHeaders),
	)
}

var defaultRunner = New()

// Dispatch performs req against cfg using the default Runner.
func Dispatch(ctx context.Context, req OperationRequest, cfg RuntimeConfig) OperationResult {
	return defaultRunner.Dispatch(ctx, req, cfg)
}

// Dispatch performs req against cfg and returns the normalized result.
// Exactly one request is sent for a valid operation and none otherwise.
func (r *Runner) Dispatch(ctx context.Context, req OperationRequest, cfg RuntimeConfig) OperationResult {
	if r == nil {
		r = defaultRunner
	}
	result, err := r.do(ctx, req, cfg)
	if err != nil {
		r.log().Error().
			Err(err).
			Str("kind", errorKind(err)).
			Str("operation", string(req.Operation)).
			Str("filename", req.Filename).
			Msg("code runner operation failed")
		return OperationResult{Message: err.Error(), Data: nil}
	}
	return result
}

func (r *Runner) do(ctx context.Context, req OperationRequest, cfg RuntimeConfig) (OperationResult, error) {
	body, err := requestBody(req)
	if err != nil {
		return OperationResult{}, err
	}

	header := http.Header{}
	if body != nil {
		header.Set("Content-Type", httpx.ContentTypeJSON)
	}

	resp, err := r.transport().Do(ctx, &httpx.Request{
		Method: req.Operation.Method(),
		URL:    Endpoint(cfg, req.Filename),
		Header: header,
		Body:   body,
	})
	if err != nil {
		return OperationResult{}, &TransportError{Err: err}
	}

	var env *envelope
	decodeErr := json.Unmarshal(resp.Body, &env)
	if decodeErr == nil && env == nil {
		decodeErr = errNullBody
	}

	if !resp.OK() {
		msg := ""
		if decodeErr == nil {
			msg = env.text()
		}
		if msg == "" {
			msg = msgUnknownBackendError
		}
		return OperationResult{}, &BackendError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return OperationResult{}, &TransportError{
			Err: fmt.Errorf("decode response body (content-type %q): %w", resp.Header.Get("Content-Type"), decodeErr),
		}
	}

	return OperationResult{
		Message: env.text(),
		Data:    env.ResponseObject,
	}, nil
}

// Endpoint returns the target URL for filename. The filename is embedded
// as given; callers must supply a name that is safe in a URL path.
func Endpoint(cfg RuntimeConfig, filename string) string {
	return fmt.Sprintf("%s/code/%s", cfg.BaseURL, filename)
}

// requestBody checks the preconditions of req.Operation and returns the JSON
// payload to send, or nil when the operation carries none.
func requestBody(req OperationRequest) ([]byte, error) {
	switch req.Operation {
	case OperationRead, OperationExecute, OperationDelete:
		return nil, nil
	case OperationCreate:
		if req.Code == "" {
			return nil, &ValidationError{Operation: req.Operation, Message: msgCodeRequired}
		}
		return httpx.JSONBody(createBody{Code: req.Code})
	case OperationUpdate:
		if req.FindReplaceMessage == "" {
			return nil, &ValidationError{Operation: req.Operation, Message: msgFindReplaceRequired}
		}
		return httpx.JSONBody(updateBody{Message: req.FindReplaceMessage})
	default:
		return nil, &ValidationError{Operation: req.Operation, Message: msgUnsupportedOperation}
	}
}

// transport returns the Runner's client, falling back to the default one for
// a zero Runner.
func (r *Runner) transport() *httpx.Client {
	if r.client != nil {
		return r.client
	}
	return defaultRunner.client
}

func (r *Runner) log() *zerolog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return logging.L()
}
