package types

import (
	"encoding/json"
	"fmt"
)

// JSON-RPC 2.0 reserved error codes. Application errors use codes outside
// this range (>= -32000, or positive). These constants are referenced only by
// the constructors below so the taxonomy cannot drift between call sites.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// NewRPCError returns an application-defined error that the dispatcher passes
// through to the wire unchanged.
func NewRPCError(code int, message string) *RPCError {
	return &RPCError{Code: code, Message: message}
}

// InvalidParamsError signals that a handler could not parse or accept its
// params. The formatted detail travels in the error data field.
func InvalidParamsError(format string, args ...any) *RPCError {
	return &RPCError{
		Code:    CodeInvalidParams,
		Message: "Invalid params",
		Data:    fmt.Sprintf(format, args...),
	}
}

// NewRPCSuccessResponse wraps result in a success envelope echoing id. A
// result that fails to marshal degrades to an internal error response so the
// caller always receives a well-formed reply.
func NewRPCSuccessResponse(id jsonrpcid, result any) RPCResponse {
	var rawMsg json.RawMessage

	if result != nil {
		js, err := json.Marshal(result)
		if err != nil {
			return RPCInternalError(id, fmt.Errorf("error marshaling result: %w", err))
		}
		rawMsg = js
	}

	return RPCResponse{JSONRPC: "2.0", ID: id, Result: rawMsg}
}

// NewRPCErrorResponse wraps err in an error envelope echoing id (null when
// the id could not be recovered from the request).
func NewRPCErrorResponse(id jsonrpcid, err *RPCError) RPCResponse {
	return RPCResponse{JSONRPC: "2.0", ID: id, Error: err}
}

func newRPCErrorResponse(id jsonrpcid, code int, msg string, data any) RPCResponse {
	return NewRPCErrorResponse(id, &RPCError{Code: code, Message: msg, Data: data})
}

// RPCParseError is shaped for bodies that are not valid JSON. Such requests
// carry no usable id, so the id is always null.
func RPCParseError(err error) RPCResponse {
	return newRPCErrorResponse(nil, CodeParseError, "Parse error", err.Error())
}

// RPCInvalidRequestError is shaped for valid JSON that is not a well-formed
// request object or array.
func RPCInvalidRequestError(id jsonrpcid, err error) RPCResponse {
	return newRPCErrorResponse(id, CodeInvalidRequest, "Invalid request", err.Error())
}

// RPCMethodNotFoundError is shaped when neither an exact handler nor a
// namespace fallback resolves the method.
func RPCMethodNotFoundError(id jsonrpcid) RPCResponse {
	return newRPCErrorResponse(id, CodeMethodNotFound, "Method not found", nil)
}

// RPCInvalidParamsError is shaped when a handler reports unusable params.
func RPCInvalidParamsError(id jsonrpcid, err error) RPCResponse {
	return newRPCErrorResponse(id, CodeInvalidParams, "Invalid params", err.Error())
}

// RPCInternalError is shaped for unexpected failures, timeouts and recovered
// panics. The data value must not carry internal detail; callers pass an
// opaque message or a trace id that correlates with server-side logs.
func RPCInternalError(id jsonrpcid, err error) RPCResponse {
	var data any
	if err != nil {
		data = err.Error()
	}
	return newRPCErrorResponse(id, CodeInternalError, "Internal error", data)
}
