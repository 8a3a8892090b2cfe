// =============================================================================
// pkg/invoke/route.go - HTTP Route Invoker
// =============================================================================
//
// RouteInvoker issues one HTTP request per call against baseURL + route.
//
// OUTCOME MAPPING:
//
//	status < 400         -> success, body text
//	status >= 400        -> InvocationError{Kind: http, Code: status, Message: body text}
//	no response          -> InvocationError{Kind: transport}
//
// COMPRESSION:
//
//	With Compressed set, requests advertise "Accept-Encoding: zstd, gzip" and
//	the body is decoded here. Decoding is part of the timed call.
//
// =============================================================================

package invoke

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/karthikiyer56/rpc-latency-bench/latency-bench/pkg/types"
)

const (
	// acceptEncoding is sent when compressed responses are requested.
	acceptEncoding = "zstd, gzip"

	// RequestIDHeader carries the run id on every route request.
	RequestIDHeader = "X-Request-Id"
)

// RouteRequest describes the request issued on every call.
type RouteRequest struct {
	BaseURL    string
	Method     string
	Route      string
	Headers    http.Header
	Body       []byte
	Compressed bool
	RunID      string
}

// RouteInvoker performs a RouteRequest.
type RouteInvoker struct {
	client *http.Client
	req    RouteRequest
	target string
}

// NewRouteInvoker validates req and creates an invoker.
// client may be nil to use http.DefaultClient.
func NewRouteInvoker(client *http.Client, req RouteRequest) (*RouteInvoker, error) {
	if client == nil {
		client = http.DefaultClient
	}

	target, err := JoinURL(req.BaseURL, req.Route)
	if err != nil {
		return nil, err
	}

	req.Method = strings.ToUpper(strings.TrimSpace(req.Method))
	if req.Method == "" {
		return nil, errors.New("HTTP method is required")
	}
	if req.Headers == nil {
		req.Headers = http.Header{}
	}

	return &RouteInvoker{client: client, req: req, target: target}, nil
}

// JoinURL joins a base URL and a route with exactly one slash between them.
func JoinURL(base, route string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrapf(err, "invalid base URL %q", base)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.Errorf("base URL %q must use http or https", base)
	}
	if u.Host == "" {
		return "", errors.Errorf("base URL %q has no host", base)
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(route, "/"), nil
}

// Target returns the full request URL.
func (r *RouteInvoker) Target() string {
	return r.target
}

// Describe implements interfaces.Invoker.
func (r *RouteInvoker) Describe() string {
	return "route " + r.req.Method + " " + r.target
}

// Invoke implements interfaces.Invoker.
func (r *RouteInvoker) Invoke(ctx context.Context) types.Outcome {
	var body io.Reader
	if r.req.Body != nil {
		body = bytes.NewReader(r.req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.req.Method, r.target, body)
	if err != nil {
		return types.Failure(types.ErrorKindTransport, 0, err.Error())
	}
	httpReq.Header = r.req.Headers.Clone()
	if r.req.Compressed {
		httpReq.Header.Set("Accept-Encoding", acceptEncoding)
	}
	if r.req.RunID != "" && httpReq.Header.Get(RequestIDHeader) == "" {
		httpReq.Header.Set(RequestIDHeader, r.req.RunID)
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return types.Failure(types.ErrorKindTransport, 0, err.Error())
	}
	defer resp.Body.Close()

	text, err := readBody(resp)
	if err != nil {
		return types.Failure(types.ErrorKindTransport, resp.StatusCode, err.Error())
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return types.Failure(types.ErrorKindHTTP, resp.StatusCode, text)
	}

	encoded, err := jsonAPI.Marshal(text)
	if err != nil {
		return types.Failure(types.ErrorKindTransport, resp.StatusCode, err.Error())
	}
	return types.Success(encoded)
}

// readBody reads the response body, decoding zstd or gzip content encodings.
func readBody(resp *http.Response) (string, error) {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))

	var reader io.Reader
	switch encoding {
	case "", "identity":
		reader = resp.Body
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", errors.Wrap(err, "failed to create gzip reader")
		}
		defer gz.Close()
		reader = gz
	case "zstd":
		dec, err := zstd.NewReader(resp.Body, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return "", errors.Wrap(err, "failed to create zstd decoder")
		}
		defer dec.Close()
		reader = dec
	default:
		return "", errors.Errorf("unsupported content encoding %q", encoding)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}
	return string(data), nil
}

// =============================================================================
// Request Building Helpers
// =============================================================================

// ParseHeaders parses "Key: Value" strings into an http.Header.
func ParseHeaders(lines []string) (http.Header, error) {
	headers := http.Header{}
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Errorf("invalid header %q, expected \"Key: Value\"", line)
		}
		headers.Add(key, strings.TrimSpace(value))
	}
	return headers, nil
}

// LoadBody returns the request body for spec. "@path" reads the file at path;
// anything else is used literally. An empty spec means no body.
func LoadBody(spec string) ([]byte, error) {
	if spec == "" {
		return nil, nil
	}
	if path, ok := strings.CutPrefix(spec, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read body file %s", path)
		}
		return data, nil
	}
	return []byte(spec), nil
}
