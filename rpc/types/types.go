package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// a wrapper to emulate a sum type: jsonrpcid = string | int
// A nil jsonrpcid marks a notification: the request is executed but no
// response is ever produced for it. An explicit `"id": null` on the wire is
// treated the same as an absent id.
type jsonrpcid interface {
	isJSONRPCID()
}

// JSONRPCStringID a wrapper for JSON-RPC string IDs.
type JSONRPCStringID string

func (JSONRPCStringID) isJSONRPCID()      {}
func (id JSONRPCStringID) String() string { return string(id) }

// JSONRPCIntID a wrapper for JSON-RPC integer IDs.
type JSONRPCIntID int

func (JSONRPCIntID) isJSONRPCID()      {}
func (id JSONRPCIntID) String() string { return fmt.Sprintf("%d", id) }

func idFromInterface(idInterface any) (jsonrpcid, error) {
	switch id := idInterface.(type) {
	case nil:
		// absent or explicit null: notification
		return nil, nil
	case string:
		return JSONRPCStringID(id), nil
	case float64:
		// json.Unmarshal uses float64 for all numbers
		return JSONRPCIntID(int(id)), nil
	default:
		typ := fmt.Sprintf("%T", id)
		return nil, fmt.Errorf("json-rpc ID (%v) is of unknown type (%s)", id, typ)
	}
}

// ----------------------------------------
// REQUEST

// RPCRequest is a JSON-RPC 2.0 request envelope.
type RPCRequest struct {
	JSONRPC string
	ID      jsonrpcid
	Method  string
	Params  json.RawMessage
}

// UnmarshalJSON custom JSON unmarshaling due to jsonrpcid being string or int.
func (req *RPCRequest) UnmarshalJSON(data []byte) error {
	unsafeReq := struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      any             `json:"id,omitempty"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}{}

	err := json.Unmarshal(data, &unsafeReq)
	if err != nil {
		return err
	}

	req.JSONRPC = unsafeReq.JSONRPC
	req.Method = unsafeReq.Method
	req.Params = unsafeReq.Params
	if unsafeReq.ID == nil { // notification
		return nil
	}

	id, err := idFromInterface(unsafeReq.ID)
	if err != nil {
		return err
	}
	req.ID = id
	return nil
}

// MarshalJSON custom JSON marshaling due to jsonrpcid being string or int.
func (req RPCRequest) MarshalJSON() ([]byte, error) {
	if req.ID == nil {
		return json.Marshal(struct {
			JSONRPC string          `json:"jsonrpc"`
			Method  string          `json:"method"`
			Params  json.RawMessage `json:"params,omitempty"`
		}{
			JSONRPC: req.JSONRPC,
			Method:  req.Method,
			Params:  req.Params,
		})
	}
	return json.Marshal(struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      jsonrpcid       `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}{
		JSONRPC: req.JSONRPC,
		ID:      req.ID,
		Method:  req.Method,
		Params:  req.Params,
	})
}

func (req RPCRequest) String() string {
	return fmt.Sprintf("RPCRequest{%v %s/%X}", req.ID, req.Method, req.Params)
}

// NewRPCRequest returns a new request with the given id, method and params.
// Params must marshal to a JSON array, object or be nil.
func NewRPCRequest(id jsonrpcid, method string, params json.RawMessage) RPCRequest {
	return RPCRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	}
}

// IsNotification reports whether the request carries no id and therefore must
// never be answered.
func (req RPCRequest) IsNotification() bool {
	return req.ID == nil
}

// ValidateBasic checks the envelope invariants: the version tag must be the
// literal "2.0" and the method must be a non-empty string. Params and id are
// not constrained here.
func (req RPCRequest) ValidateBasic() error {
	if req.JSONRPC != "2.0" {
		return fmt.Errorf("invalid version (%q), expected \"2.0\"", req.JSONRPC)
	}
	if req.Method == "" {
		return fmt.Errorf("method must be a non-empty string")
	}
	return nil
}

// Namespace returns the portion of the method name before the first '_'
// (e.g. "eth" for "eth_chainId"). The second return value is false when the
// method has no '_' and is therefore not eligible for fallback resolution.
func (req RPCRequest) Namespace() (string, bool) {
	ns, _, found := strings.Cut(req.Method, "_")
	if !found {
		return "", false
	}
	return ns, true
}

// ParamsToRequest constructs a request, marshaling the given params value.
func ParamsToRequest(id jsonrpcid, method string, params any) (RPCRequest, error) {
	var paramsMap json.RawMessage
	var err error
	if params != nil {
		paramsMap, err = json.Marshal(params)
		if err != nil {
			return RPCRequest{}, err
		}
	}
	return NewRPCRequest(id, method, paramsMap), nil
}

// ----------------------------------------
// RESPONSE

// RPCError is the wire-level JSON-RPC error object. It doubles as a Go error
// so handlers can return it directly; the dispatcher passes it through to the
// response envelope unchanged.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (err RPCError) Error() string {
	const baseFormat = "RPC error %v - %s"
	if err.Data != nil {
		return fmt.Sprintf(baseFormat+": %v", err.Code, err.Message, err.Data)
	}
	return fmt.Sprintf(baseFormat, err.Code, err.Message)
}

// RPCResponse is a JSON-RPC 2.0 response envelope. Exactly one of Result and
// Error is set. A nil ID marshals as `"id":null`, which is only legal on
// error responses for requests whose id could not be recovered.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      jsonrpcid       `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// UnmarshalJSON custom JSON unmarshaling due to jsonrpcid being string or int.
func (resp *RPCResponse) UnmarshalJSON(data []byte) error {
	unsafeResp := &struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      any             `json:"id,omitempty"`
		Result  json.RawMessage `json:"result,omitempty"`
		Error   *RPCError       `json:"error,omitempty"`
	}{}
	err := json.Unmarshal(data, &unsafeResp)
	if err != nil {
		return err
	}
	resp.JSONRPC = unsafeResp.JSONRPC
	resp.Error = unsafeResp.Error
	resp.Result = unsafeResp.Result
	if unsafeResp.ID == nil {
		return nil
	}
	id, err := idFromInterface(unsafeResp.ID)
	if err != nil {
		return err
	}
	resp.ID = id
	return nil
}

func (resp RPCResponse) String() string {
	if resp.Error == nil {
		return fmt.Sprintf("RPCResponse{%v %X}", resp.ID, resp.Result)
	}
	return fmt.Sprintf("RPCResponse{%v %v}", resp.ID, resp.Error)
}
