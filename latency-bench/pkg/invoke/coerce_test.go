package invoke

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceArg(t *testing.T) {
	tests := []struct {
		raw  string
		want interface{}
	}{
		{"42", int64(42)},
		{"-7", int64(-7)},
		{" 12 ", int64(12)},
		{"1.5", json.Number("1.5")},
		{"-0.25", json.Number("-0.25")},
		{"1e3", json.Number("1e3")},
		{"123456789012345678901234567890", json.Number("123456789012345678901234567890")},
		{"true", true},
		{"null", nil},
		{`"quoted"`, "quoted"},
		{`[1,2]`, []interface{}{json.Number("1"), json.Number("2")}},
		{`{"limit":10}`, map[string]interface{}{"limit": json.Number("10")}},
		{"GABC", "GABC"},
		{"", ""},
		{"{not json", "{not json"},
		{"1a", "1a"},
		{`{} x`, `{} x`},
		{"AAAAAgAAAAA=", "AAAAAgAAAAA="},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CoerceArg(tt.raw), "CoerceArg(%q)", tt.raw)
	}
}

func TestParseArgs(t *testing.T) {
	args, err := ParseArgs([]string{"1000", `pagination={"limit":5}`, "xdrFormat=json", "AAAA=="})
	require.NoError(t, err)

	assert.Equal(t, []interface{}{int64(1000), "AAAA=="}, args.Positional)
	assert.Equal(t, map[string]interface{}{
		"pagination": map[string]interface{}{"limit": json.Number("5")},
		"xdrFormat":  "json",
	}, args.Keyword)
}

func TestParseArgsNotKeyword(t *testing.T) {
	args, err := ParseArgs([]string{"=x", "1a=b", `{"a=b":1}`, "a b=c"})
	require.NoError(t, err)
	assert.Len(t, args.Positional, 4)
	assert.Empty(t, args.Keyword)
}

func TestParseArgsDuplicateKeyword(t *testing.T) {
	_, err := ParseArgs([]string{"hash=a", "hash=b"})
	assert.Error(t, err)
}

func TestCoerceArgNumbersMarshalVerbatim(t *testing.T) {
	out, err := jsonAPI.Marshal([]interface{}{CoerceArg("1.5"), CoerceArg("123456789012345678901234567890")})
	require.NoError(t, err)
	assert.Equal(t, `[1.5,123456789012345678901234567890]`, string(out))
}
