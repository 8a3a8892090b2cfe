package invoke

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/types"
)

type ledgerParams struct {
	StartLedger int64 `json:"startLedger"`
}

// newRPCServer serves a few Stellar RPC methods through a jhttp bridge.
func newRPCServer(t *testing.T) *httptest.Server {
	t.Helper()

	bridge := jhttp.NewBridge(handler.Map{
		"getHealth": handler.New(func(ctx context.Context) (map[string]string, error) {
			return map[string]string{"status": "healthy"}, nil
		}),
		"getLedgers": handler.New(func(ctx context.Context, req *jrpc2.Request) (map[string]int64, error) {
			var p ledgerParams
			if err := req.UnmarshalParams(&p); err != nil {
				return nil, err
			}
			if p.StartLedger < 1000 {
				return nil, &jrpc2.Error{Code: jrpc2.InvalidParams, Message: "startLedger is outside the retention window"}
			}
			return map[string]int64{"latestLedger": p.StartLedger + 10}, nil
		}),
	}, nil)
	t.Cleanup(func() { _ = bridge.Close() })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bridge.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRPCInvokerSuccess(t *testing.T) {
	srv := newRPCServer(t)
	inv := NewRPCInvoker(srv.URL, nil, "getHealth", nil)
	defer inv.Close()

	assert.Equal(t, "rpc getHealth", inv.Describe())

	out := inv.Invoke(context.Background())
	require.False(t, out.IsError(), "%v", out.Err)
	assert.JSONEq(t, `{"status":"healthy"}`, string(out.Value))
}

func TestRPCInvokerNamedParams(t *testing.T) {
	srv := newRPCServer(t)

	call, err := NewMethodRegistry(StellarRPCMethods).Prepare("getLedgers", []string{"5000"})
	require.NoError(t, err)

	inv := call.Invoker(srv.URL, srv.Client())
	defer inv.Close()

	out := inv.Invoke(context.Background())
	require.False(t, out.IsError(), "%v", out.Err)
	assert.JSONEq(t, `{"latestLedger":5010}`, string(out.Value))
}

func TestRPCInvokerRPCError(t *testing.T) {
	srv := newRPCServer(t)
	inv := NewRPCInvoker(srv.URL, nil, "getLedgers", map[string]interface{}{"startLedger": 1})
	defer inv.Close()

	out := inv.Invoke(context.Background())
	require.True(t, out.IsError())
	assert.Equal(t, types.ErrorKindRPC, out.Err.Kind)
	assert.Equal(t, int(jrpc2.InvalidParams), out.Err.Code)
	assert.Contains(t, out.Err.Message, "startLedger")
}

func TestRPCInvokerUnknownMethod(t *testing.T) {
	srv := newRPCServer(t)
	inv := NewRPCInvoker(srv.URL, nil, "getNothing", nil)
	defer inv.Close()

	out := inv.Invoke(context.Background())
	require.True(t, out.IsError())
	assert.Equal(t, types.ErrorKindRPC, out.Err.Kind)
	assert.Equal(t, int(jrpc2.MethodNotFound), out.Err.Code)
}

func TestRPCInvokerTransportErrorRecovers(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	inv := NewRPCInvoker(url, nil, "getHealth", nil)
	defer inv.Close()

	for i := 0; i < 3; i++ {
		out := inv.Invoke(context.Background())
		require.True(t, out.IsError())
		assert.NotEmpty(t, out.Err.Message)
	}
}
