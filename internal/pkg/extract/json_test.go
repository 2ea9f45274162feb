package extract

import (
	"testing"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_ToleratesProseAndFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "bare object", raw: `{"a":1}`},
		{name: "surrounding whitespace", raw: "  \n{\"a\":1}\n\t"},
		{name: "json fence after prose", raw: "Sure! ```json\n{\"a\":1}\n```"},
		{name: "upper case json fence", raw: "```JSON\n{\"a\":1}\n```"},
		{name: "generic fence", raw: "Result:\n```\n{\"a\":1}\n```\nThanks"},
		{name: "prose around object", raw: "Here you go: {\"a\":1} hope this helps"},
		{name: "unterminated fence", raw: "```json\n{\"a\":1}"},
		{name: "json fence wins over earlier generic fence", raw: "```\nnot json\n```\n```json\n{\"a\":1}\n```"},
		{name: "closing fence followed by json word", raw: "```\n{\"a\":1}\n```json is the format above"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := JSON(tt.raw)
			require.NoError(t, err)

			n, ok := obj.Int("a")
			require.True(t, ok)
			assert.Equal(t, 1, n)
			assert.Equal(t, []string{"a"}, obj.Keys())
		})
	}
}

func TestJSON_ReportsFailure(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "no json", raw: "no json here", wantErr: ErrNoJSONObject},
		{name: "empty", raw: "", wantErr: ErrNoJSONObject},
		{name: "closing brace before opening", raw: "} oops {", wantErr: ErrNoJSONObject},
		{name: "malformed", raw: `{"a": 1,,}`, wantErr: ErrMalformedJSON},
		{name: "two objects", raw: `{"a": 1} and {"b": 2}`, wantErr: ErrMalformedJSON},
		{name: "fenced garbage", raw: "```json\n{not really}\n```", wantErr: ErrMalformedJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := JSON(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, entity.ErrExtraction)
		})
	}
}

func TestObject_KeepsReplyOrder(t *testing.T) {
	obj, err := JSON(`{"zeta": "z", "alpha": "a", "mid": "m"}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())
}

func TestObject_Text(t *testing.T) {
	obj, err := JSON(`{
		"plain": "  hello  ",
		"list": ["one", "two"],
		"nested": {"Basic": "$100", "Pro": "$200"},
		"number": 42,
		"nothing": null
	}`)
	require.NoError(t, err)

	text, ok := obj.Text("plain")
	assert.True(t, ok)
	assert.Equal(t, "hello", text)

	text, ok = obj.Text("list")
	assert.True(t, ok)
	assert.Equal(t, "one\ntwo", text)

	text, ok = obj.Text("nested")
	assert.True(t, ok)
	assert.Equal(t, "Basic: $100\nPro: $200", text)

	text, ok = obj.Text("number")
	assert.True(t, ok)
	assert.Equal(t, "42", text)

	_, ok = obj.Text("nothing")
	assert.False(t, ok)

	_, ok = obj.Text("missing")
	assert.False(t, ok)
}

func TestObject_Int(t *testing.T) {
	obj, err := JSON(`{"n": 6, "s": "8 weeks", "bad": "about ten", "f": 4.0}`)
	require.NoError(t, err)

	n, ok := obj.Int("n")
	assert.True(t, ok)
	assert.Equal(t, 6, n)

	n, ok = obj.Int("s")
	assert.True(t, ok)
	assert.Equal(t, 8, n)

	_, ok = obj.Int("bad")
	assert.False(t, ok)

	n, ok = obj.Int("f")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = obj.Int("missing")
	assert.False(t, ok)
}

func TestObject_IntRejectsOverflow(t *testing.T) {
	obj, err := JSON(`{"s": "99999999999999999999 weeks", "n": 1e30, "edge": "2147483647"}`)
	require.NoError(t, err)

	_, ok := obj.Int("s")
	assert.False(t, ok)

	_, ok = obj.Int("n")
	assert.False(t, ok)

	n, ok := obj.Int("edge")
	assert.True(t, ok)
	assert.Equal(t, 2147483647, n)
}
