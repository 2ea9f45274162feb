// Package extract pulls a JSON object out of free-form model output.
//
// Replies often wrap the payload in markdown fences or surround it with
// prose; JSON tolerates both and reports failure instead of panicking, so
// every caller has to handle the fallback branch explicitly.
package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/tidwall/gjson"
)

const (
	fence   = "```"
	jsonTag = "json"
)

var (
	ErrNoJSONObject  = fmt.Errorf("%w: no JSON object in reply", entity.ErrExtraction)
	ErrMalformedJSON = fmt.Errorf("%w: malformed JSON object", entity.ErrExtraction)
)

// Object is a JSON object parsed from a model reply. Key order of the reply
// is preserved.
type Object struct {
	value gjson.Result
}

// JSON extracts the first JSON object embedded in raw.
func JSON(raw string) (Object, error) {
	body := unfence(strings.TrimSpace(raw))

	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return Object{}, ErrNoJSONObject
	}

	span := body[start : end+1]
	if !gjson.Valid(span) {
		return Object{}, ErrMalformedJSON
	}

	value := gjson.Parse(span)
	if !value.IsObject() {
		return Object{}, ErrMalformedJSON
	}

	return Object{value: value}, nil
}

// unfence returns the content of the first ```json block, else of the first
// generic fenced block, else text unchanged. Only opening fences carry a
// language tag. An unterminated fence yields everything after the opening
// marker.
func unfence(text string) string {
	first := -1
	for from := 0; from < len(text); {
		idx := strings.Index(text[from:], fence)
		if idx < 0 {
			break
		}
		open := from + idx
		if first < 0 {
			first = open
		}
		tag := text[open+len(fence):]
		if len(tag) >= len(jsonTag) && strings.EqualFold(tag[:len(jsonTag)], jsonTag) {
			return between(text, open+len(fence)+len(jsonTag))
		}

		closing := strings.Index(text[open+len(fence):], fence)
		if closing < 0 {
			break
		}
		from = open + len(fence) + closing + len(fence)
	}

	if first >= 0 {
		return between(text, first+len(fence))
	}
	return text
}

func between(text string, from int) string {
	rest := text[from:]
	if end := strings.Index(rest, fence); end >= 0 {
		return rest[:end]
	}
	return rest
}

// Has reports whether key is present and not null.
func (o Object) Has(key string) bool {
	r := o.Get(key)
	return r.Exists() && r.Type != gjson.Null
}

// Get returns the raw value stored under key.
func (o Object) Get(key string) gjson.Result {
	return o.value.Get(gjson.Escape(key))
}

// Keys lists the object keys in reply order.
func (o Object) Keys() []string {
	var keys []string
	o.value.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// Text returns the value under key as display text. Lists are joined with
// newlines and nested objects are flattened to "key: value" lines.
func (o Object) Text(key string) (string, bool) {
	if !o.Has(key) {
		return "", false
	}
	return strings.TrimSpace(Flatten(o.Get(key))), true
}

// Int returns the value under key as an integer. Numeric strings such as
// "6" or "6 weeks" are accepted.
func (o Object) Int(key string) (int, bool) {
	r := o.Get(key)
	switch r.Type {
	case gjson.Number:
		if r.Num > math.MaxInt32 || r.Num < math.MinInt32 {
			return 0, false
		}
		return int(r.Int()), true
	case gjson.String:
		return leadingInt(r.String())
	default:
		return 0, false
	}
}

// Flatten renders any JSON value as plain text.
func Flatten(r gjson.Result) string {
	switch {
	case r.IsArray():
		lines := make([]string, 0, len(r.Array()))
		for _, item := range r.Array() {
			lines = append(lines, Flatten(item))
		}
		return strings.Join(lines, "\n")
	case r.IsObject():
		var lines []string
		r.ForEach(func(key, value gjson.Result) bool {
			lines = append(lines, key.String()+": "+Flatten(value))
			return true
		})
		return strings.Join(lines, "\n")
	case r.Type == gjson.Null:
		return ""
	default:
		return r.String()
	}
}

// leadingInt parses the digits at the start of s. Values past int32 range
// are rejected.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}
