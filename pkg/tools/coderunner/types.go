package coderunner

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// Operation is one of the logical actions a caller can request against a
// named source file.
type Operation string

const (
	OperationRead    Operation = "read"
	OperationExecute Operation = "execute"
	OperationCreate  Operation = "create"
	OperationUpdate  Operation = "update"
	OperationDelete  Operation = "delete"
)

var methods = map[Operation]string{
	OperationRead:    http.MethodGet,
	OperationExecute: http.MethodPost,
	OperationCreate:  http.MethodPut,
	OperationUpdate:  http.MethodPatch,
	OperationDelete:  http.MethodDelete,
}

// Operations lists the supported operations.
func Operations() []Operation {
	return []Operation{
		OperationRead,
		OperationExecute,
		OperationCreate,
		OperationUpdate,
		OperationDelete,
	}
}

// Valid reports whether o is a supported operation.
func (o Operation) Valid() bool {
	_, ok := methods[o]
	return ok
}

// Method returns the HTTP method o maps to, or "" when o is unsupported.
func (o Operation) Method() string {
	return methods[o]
}

// OperationRequest describes a single code file operation.
type OperationRequest struct {
	Operation          Operation `json:"operation" jsonschema:"required,enum=read,enum=execute,enum=create,enum=update,enum=delete,description=The file operation to perform."`
	Filename           string    `json:"filename" jsonschema:"required,description=The source file to operate on such as main.py or app.jac."`
	Code               string    `json:"code,omitempty" jsonschema:"description=The code content. Required for the create operation."`
	FindReplaceMessage string    `json:"findReplaceMessage,omitempty" jsonschema:"description=A find/replace instruction describing the edit. Required for the update operation."`
}

// RuntimeConfig holds the settings resolved per call.
type RuntimeConfig struct {
	// BaseURL prefixes every request path: {BaseURL}/code/{filename}.
	BaseURL string `json:"baseUrl"`
}

// OperationResult is returned from every dispatch. Data is nil whenever the
// operation failed.
type OperationResult struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type createBody struct {
	Code string `json:"code"`
}

type updateBody struct {
	Message string `json:"message"`
}

// envelope is the response shape returned by the code backend. Message is
// kept raw since backends do not always send a string.
type envelope struct {
	Message        json.RawMessage `json:"message"`
	ResponseObject any             `json:"responseObject"`
}

var errNullBody = errors.New("response body is null")

// text renders Message as a string. Strings are unquoted, other JSON values
// keep their literal form, and null, false, 0 or "" read as no message.
func (e *envelope) text() string {
	raw := bytes.TrimSpace(e.Message)
	switch string(raw) {
	case "", "null", "false", "0", `""`:
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
