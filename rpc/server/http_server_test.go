package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojave-chain/mojave-rpc/libs/log"
	types "github.com/mojave-chain/mojave-rpc/rpc/types"
)

func newTestHandler() http.Handler {
	reg := NewRegistry[struct{}]().
		WithHandler("test_hello", func(context.Context, *types.RPCRequest, struct{}) (any, error) {
			return "world", nil
		})
	svc := NewService(struct{}{}, reg, WithLogger[struct{}](log.TestingLogger()))
	return NewHTTPHandler(svc, log.TestingLogger())
}

func post(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHTTPHandlerSuccess(t *testing.T) {
	rec := post(newTestHandler(), `{"jsonrpc":"2.0","id":1,"method":"test_hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res types.RPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Nil(t, res.Error)
	assert.JSONEq(t, `"world"`, string(res.Result))
}

func TestHTTPHandlerRPCErrorsStayOn200(t *testing.T) {
	rec := post(newTestHandler(), `{"jsonrpc":"2.0","id":1,"method":"nope_nothing"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var res types.RPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Error)
	assert.Equal(t, types.CodeMethodNotFound, res.Error.Code)
}

func TestHTTPHandlerInvalidJSON(t *testing.T) {
	rec := post(newTestHandler(), `{"jsonrpc":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var res types.RPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Error)
	assert.Equal(t, types.CodeParseError, res.Error.Code)
	assert.Nil(t, res.ID)
}

func TestHTTPHandlerNotification(t *testing.T) {
	rec := post(newTestHandler(), `{"jsonrpc":"2.0","method":"test_hello"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestHTTPHandlerGetRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestRecoverAndLogHandler(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler exploded")
	})
	handler := RecoverAndLogHandler(panicky, log.TestingLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var res types.RPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Error)
	assert.Equal(t, types.CodeInternalError, res.Error.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Server-Time"))
}

func TestPreChecksHandlerBatchLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRequestBatchSize = 2

	handler := PreChecksHandler(newTestHandler(), cfg)

	var items []string
	for i := 0; i < 3; i++ {
		items = append(items, fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"method":"test_hello"}`, i))
	}
	rec := post(handler, "["+strings.Join(items, ",")+"]")

	require.Equal(t, http.StatusOK, rec.Code)
	var res types.RPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Error)
	assert.Equal(t, types.CodeInvalidRequest, res.Error.Code)
	assert.Contains(t, fmt.Sprint(res.Error.Data), "exceeds maximum")
}

func TestPreChecksHandlerWithinLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRequestBatchSize = 2

	handler := PreChecksHandler(newTestHandler(), cfg)
	rec := post(handler, `[{"jsonrpc":"2.0","id":1,"method":"test_hello"}]`)

	require.Equal(t, http.StatusOK, rec.Code)
	var batch []types.RPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	require.Len(t, batch, 1)
	assert.Nil(t, batch[0].Error)
}

func TestListen(t *testing.T) {
	l, err := Listen("tcp://127.0.0.1:0", 1)
	require.NoError(t, err)
	defer l.Close()
	assert.NotNil(t, l.Addr())

	_, err = Listen("127.0.0.1:0", 0)
	require.Error(t, err)
	var lErr ErrListening
	require.ErrorAs(t, err, &lErr)
}
