package invoke

import (
	"net/http"
	"slices"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// =============================================================================
// Method Registry
// =============================================================================

// MethodSpec describes a JSON-RPC method the benchmark may call.
//
// Params lists the method's named parameters in the order positional
// command-line arguments bind to them. A method with no Params receives its
// positional arguments as a JSON array.
type MethodSpec struct {
	Name   string   `toml:"name"`
	Params []string `toml:"params"`
}

// StellarRPCMethods is the method set served by a Stellar RPC node.
var StellarRPCMethods = []MethodSpec{
	{Name: "getHealth"},
	{Name: "getNetwork"},
	{Name: "getLatestLedger"},
	{Name: "getVersionInfo"},
	{Name: "getFeeStats"},
	{Name: "getLedgers", Params: []string{"startLedger", "pagination", "xdrFormat"}},
	{Name: "getLedgerEntries", Params: []string{"keys", "xdrFormat"}},
	{Name: "getTransaction", Params: []string{"hash", "xdrFormat"}},
	{Name: "getTransactions", Params: []string{"startLedger", "pagination", "xdrFormat"}},
	{Name: "getEvents", Params: []string{"startLedger", "endLedger", "filters", "pagination", "xdrFormat"}},
	{Name: "simulateTransaction", Params: []string{"transaction", "resourceConfig", "authMode", "xdrFormat"}},
	{Name: "sendTransaction", Params: []string{"transaction", "xdrFormat"}},
}

// MethodRegistry maps method names to their specs. Lookup happens once, at
// startup, before any call is made.
type MethodRegistry struct {
	methods map[string]MethodSpec
}

// NewMethodRegistry creates a registry holding specs. Later specs with the
// same name replace earlier ones, so config-provided methods can override
// the built-in set.
func NewMethodRegistry(specs ...[]MethodSpec) *MethodRegistry {
	r := &MethodRegistry{methods: map[string]MethodSpec{}}
	for _, group := range specs {
		for _, spec := range group {
			r.methods[spec.Name] = spec
		}
	}
	return r
}

// Names returns the registered method names, sorted.
func (r *MethodRegistry) Names() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the spec for name.
func (r *MethodRegistry) Lookup(name string) (MethodSpec, error) {
	spec, ok := r.methods[name]
	if !ok {
		return MethodSpec{}, errors.Errorf("unknown method %q (known methods: %s)",
			name, strings.Join(r.Names(), ", "))
	}
	return spec, nil
}

// MethodCall is a method bound to its parameters, ready to be turned into an
// Invoker once the endpoint is known.
type MethodCall struct {
	Method string
	Params interface{}

	// Invoker builds the RPC invoker for the bound call.
	Invoker func(endpoint string, client *http.Client) *RPCInvoker
}

// Prepare looks up name and binds raw command-line arguments to it.
// Unknown methods and bad arguments fail here, before any call is made.
func (r *MethodRegistry) Prepare(name string, raw []string) (MethodCall, error) {
	spec, err := r.Lookup(name)
	if err != nil {
		return MethodCall{}, err
	}
	args, err := ParseArgs(raw)
	if err != nil {
		return MethodCall{}, err
	}
	params, err := BindParams(spec, args)
	if err != nil {
		return MethodCall{}, err
	}
	return MethodCall{
		Method: spec.Name,
		Params: params,
		Invoker: func(endpoint string, client *http.Client) *RPCInvoker {
			return NewRPCInvoker(endpoint, client, spec.Name, params)
		},
	}, nil
}

// =============================================================================
// Parameter Binding
// =============================================================================

// BindParams builds the JSON-RPC params value for a call to spec.
//
//   - spec has named params: an object; positional args bind to names in order,
//     keyword args bind by name.
//   - spec has no named params: a JSON array of the positional args, or nil
//     when there are none. Keyword args are rejected.
func BindParams(spec MethodSpec, args Args) (interface{}, error) {
	if len(spec.Params) == 0 {
		if len(args.Keyword) > 0 {
			return nil, errors.Errorf("method %s takes no named parameters, got %s",
				spec.Name, strings.Join(args.keywordNames(), ", "))
		}
		if len(args.Positional) == 0 {
			return nil, nil
		}
		return args.Positional, nil
	}

	if len(args.Positional) > len(spec.Params) {
		return nil, errors.Errorf("method %s takes at most %d positional arguments (%s), got %d",
			spec.Name, len(spec.Params), strings.Join(spec.Params, ", "), len(args.Positional))
	}

	params := make(map[string]interface{}, len(args.Positional)+len(args.Keyword))
	for i, v := range args.Positional {
		params[spec.Params[i]] = v
	}
	for _, name := range args.keywordNames() {
		if !slices.Contains(spec.Params, name) {
			return nil, errors.Errorf("method %s has no parameter %q (parameters: %s)",
				spec.Name, name, strings.Join(spec.Params, ", "))
		}
		if _, dup := params[name]; dup {
			return nil, errors.Errorf("parameter %q of method %s given both positionally and by name", name, spec.Name)
		}
		params[name] = args.Keyword[name]
	}
	return params, nil
}

func (a Args) keywordNames() []string {
	if len(a.keywordOrder) == len(a.Keyword) {
		return a.keywordOrder
	}
	names := make([]string, 0, len(a.Keyword))
	for name := range a.Keyword {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
