// =============================================================================
// pkg/invoke/rpc.go - JSON-RPC Invoker
// =============================================================================
//
// RPCInvoker calls one JSON-RPC 2.0 method over HTTP (jrpc2 + jhttp), the
// protocol spoken by Stellar RPC.
//
// OUTCOME MAPPING:
//
//	result object        -> success, raw JSON result
//	JSON-RPC error       -> InvocationError{Kind: rpc, Code, Message}
//	anything else        -> InvocationError{Kind: transport}
//
// The client is rebuilt after every transport failure.
//
// =============================================================================

package invoke

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/pkg/errors"

	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/types"
)

// RPCInvoker invokes a named JSON-RPC method with fixed params.
type RPCInvoker struct {
	url        string
	httpClient *http.Client
	client     *jrpc2.Client

	method string
	params interface{}
}

// NewRPCInvoker creates an invoker for method on the node at url.
// params is sent as-is: nil, a []interface{} (by position) or a
// map[string]interface{} (by name); see BindParams.
// httpClient may be nil to use http.DefaultClient.
func NewRPCInvoker(url string, httpClient *http.Client, method string, params interface{}) *RPCInvoker {
	r := &RPCInvoker{
		url:        url,
		httpClient: httpClient,
		method:     method,
		params:     params,
	}
	r.client = r.newClient()
	return r
}

func (r *RPCInvoker) newClient() *jrpc2.Client {
	var opts *jhttp.ChannelOptions
	if r.httpClient != nil {
		opts = &jhttp.ChannelOptions{Client: r.httpClient}
	}
	return jrpc2.NewClient(jhttp.NewChannel(r.url, opts), nil)
}

// Describe implements interfaces.Invoker.
func (r *RPCInvoker) Describe() string {
	return "rpc " + r.method
}

// Invoke implements interfaces.Invoker.
func (r *RPCInvoker) Invoke(ctx context.Context) types.Outcome {
	rsp, err := r.client.Call(ctx, r.method, r.params)
	if err != nil {
		var rpcErr *jrpc2.Error
		if errors.As(err, &rpcErr) {
			return types.Failure(types.ErrorKindRPC, int(rpcErr.Code), rpcErr.Message)
		}
		r.reset()
		return types.Failure(types.ErrorKindTransport, 0, err.Error())
	}

	var result json.RawMessage
	if err := rsp.UnmarshalResult(&result); err != nil {
		return types.Failure(types.ErrorKindTransport, 0,
			errors.Wrap(err, "failed to decode result").Error())
	}
	return types.Success(result)
}

func (r *RPCInvoker) reset() {
	r.client.Close()
	r.client = r.newClient()
}

// Close releases the underlying client.
func (r *RPCInvoker) Close() error {
	return r.client.Close()
}
