package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mojave-chain/mojave-rpc/libs/log"
	types "github.com/mojave-chain/mojave-rpc/rpc/types"
)

// NewHTTPHandler returns the HTTP binding for svc: a POST-only endpoint that
// feeds request bodies into the service and writes the response body back.
//
// Bodies that are not valid JSON are answered with HTTP 400 and a parse
// error envelope. Everything else, including JSON-RPC level errors, is HTTP
// 200 with the error embedded in the envelope; notification-only submissions
// get 204 with no body.
func NewHTTPHandler[C any](svc *Service[C], logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			res := types.RPCInvalidRequestError(nil, errors.New("error reading request body"))
			if wErr := writeRPCResponseHTTP(w, http.StatusBadRequest, res); wErr != nil {
				logger.Error("failed to write response", "err", wErr)
			}
			return
		}

		// undecodable bodies are a transport-level failure (4xx); anything
		// past this point is JSON-RPC traffic and stays on 200
		if !json.Valid(body) {
			res := types.RPCParseError(errors.New("invalid JSON"))
			if wErr := writeRPCResponseHTTP(w, http.StatusBadRequest, res); wErr != nil {
				logger.Error("failed to write response", "err", wErr)
			}
			return
		}

		out := svc.HandleRaw(r.Context(), body)
		if out == nil {
			// notification-only submission: no response body
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(out); err != nil {
			logger.Error("failed to write response", "err", err)
		}
	})
}
