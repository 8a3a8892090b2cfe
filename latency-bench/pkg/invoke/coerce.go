package invoke

import (
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// argAPI decodes command-line arguments. Numbers stay json.Number so values
// beyond int64 or float64 precision reach the server unchanged.
var argAPI = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// coercion turns a raw command-line argument into a typed value.
// ok is false when the argument does not have that shape.
type coercion func(raw string) (value interface{}, ok bool)

// coercions are tried in order; the first that accepts the argument wins.
// The literal string fallback always accepts, so coercion never fails.
var coercions = []coercion{
	asInteger,
	asStructured,
	asLiteral,
}

// CoerceArg converts a command-line argument to an integer, a JSON value
// (object, array, bool, null, number, quoted string), or failing both, the
// literal string. Numbers that are not int64 come back as json.Number.
func CoerceArg(raw string) interface{} {
	for _, c := range coercions {
		if v, ok := c(raw); ok {
			return v
		}
	}
	return raw
}

func asInteger(raw string) (interface{}, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, false
	}
	return n, true
}

func asStructured(raw string) (interface{}, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}
	// Unmarshal rejects trailing data, so "1a" or "{} x" stay literal.
	var v interface{}
	if err := argAPI.UnmarshalFromString(trimmed, &v); err != nil {
		return nil, false
	}
	return v, true
}

func asLiteral(raw string) (interface{}, bool) {
	return raw, true
}

// =============================================================================
// Positional / Keyword Split
// =============================================================================

// Args is the parsed form of the method arguments given on the command line.
type Args struct {
	Positional []interface{}
	Keyword    map[string]interface{}

	// keywordOrder preserves command-line order for error messages.
	keywordOrder []string
}

// ParseArgs splits raw arguments into positional and keyword arguments.
// An argument of the form name=value, where name is a valid identifier,
// is a keyword argument; anything else is positional. Values are coerced
// with CoerceArg.
func ParseArgs(raw []string) (Args, error) {
	args := Args{Keyword: map[string]interface{}{}}
	for _, a := range raw {
		name, value, isKeyword := splitKeyword(a)
		if !isKeyword {
			args.Positional = append(args.Positional, CoerceArg(a))
			continue
		}
		if _, dup := args.Keyword[name]; dup {
			return Args{}, errors.Errorf("keyword argument %q given more than once", name)
		}
		args.Keyword[name] = CoerceArg(value)
		args.keywordOrder = append(args.keywordOrder, name)
	}
	return args, nil
}

func splitKeyword(arg string) (name, value string, ok bool) {
	idx := strings.IndexByte(arg, '=')
	// "AAAA==" is base64 padding (XDR arguments), not name=value.
	if idx <= 0 || idx == len(arg)-1 || arg[idx+1] == '=' {
		return "", "", false
	}
	name = arg[:idx]
	for i, r := range name {
		isLetter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !(isDigit && i > 0) {
			return "", "", false
		}
	}
	return name, arg[idx+1:], true
}
