package server

import "encoding/json"

// Tool describes an operation and its input schema.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// CallRequest names an operation and its arguments.
type CallRequest struct {
	Name string         `json:"name"`
	Args map[string]any `json:"arguments"`
}

// CallResponse carries the result of one invocation. ID correlates the
// response with the request log and is not stored anywhere.
type CallResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Result string `json:"result"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Param string `json:"param,omitempty"`
	ID    string `json:"id,omitempty"`
}

const (
	codeUnknownOperation = "unknown_operation"
	codeInvalidArgument  = "invalid_argument"
	codeInternal         = "internal"
)
