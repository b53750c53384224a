// Package backend implements the HTTP client for the recommendation
// platform's webhook API, plus the response normalization its loosely
// shaped payloads require.
package backend

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Envelope is the normalized shape every list-bearing webhook response is
// reduced to: the item array plus an optional total for paginated
// endpoints.
type Envelope struct {
	Items []json.RawMessage
	Total *int
}

// Normalize reduces any of the webhook API's observed response shapes to
// a flat item array. The shapes are tried in a fixed order:
//
//  1. a bare JSON array
//  2. an object with an "items" array
//  3. an object with a "data" array
//  4. a single-element array wrapping one of the above
//  5. a string containing JSON, possibly with junk around it
//
// Anything unrecognized normalizes to an empty envelope. Normalize never
// fails: a malformed payload is an empty list, not an error, because a
// dashboard with zero rows is recoverable and a crashed one is not. The
// function is idempotent, so re-normalizing serialized output is a no-op.
func Normalize(raw []byte) Envelope {
	return normalize(raw, 0)
}

// maxUnwrapDepth bounds recursion through nested wrappers.
const maxUnwrapDepth = 4

func normalize(raw []byte, depth int) Envelope {
	if depth > maxUnwrapDepth {
		return Envelope{Items: []json.RawMessage{}}
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Envelope{Items: []json.RawMessage{}}
	}

	switch trimmed[0] {
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err == nil {
			// A single-element array sometimes wraps the real envelope,
			// e.g. [{"items": [...]}]. Unwrap only when the element
			// itself carries a recognizable list.
			if len(arr) == 1 {
				if inner := normalize(arr[0], depth+1); len(inner.Items) > 0 {
					return inner
				}
			}
			return Envelope{Items: arr}
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			for _, key := range []string{"items", "data"} {
				inner, ok := obj[key]
				if !ok {
					continue
				}
				var arr []json.RawMessage
				if err := json.Unmarshal(inner, &arr); err == nil {
					return Envelope{Items: arr, Total: extractTotal(obj)}
				}
				// "data" occasionally nests another envelope.
				if nested := normalize(inner, depth+1); len(nested.Items) > 0 {
					nested.Total = extractTotal(obj)
					return nested
				}
			}
		}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return normalizeString(s, depth)
		}
	}

	return Envelope{Items: []json.RawMessage{}}
}

// normalizeString handles responses where the body arrived as a JSON
// string wrapping more JSON. Some upstream webhook nodes stringify their
// output, and a few prepend junk like "[object Object]" or "=".
func normalizeString(s string, depth int) Envelope {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[object Object]")
	s = strings.TrimPrefix(s, "=")
	s = strings.TrimSpace(s)

	if env := normalize([]byte(s), depth+1); len(env.Items) > 0 || isCleanJSON(s) {
		return env
	}

	// Junk around the JSON. Look for a "data" or "items" key and pull
	// the first balanced bracket span that follows it; failing that, the
	// first balanced array anywhere in the string.
	for _, key := range []string{`"data"`, `"items"`} {
		if idx := strings.Index(s, key); idx >= 0 {
			if span, ok := balancedSpan(s[idx+len(key):], '[', ']'); ok {
				return normalize([]byte(span), depth+1)
			}
		}
	}
	if span, ok := balancedSpan(s, '[', ']'); ok {
		return normalize([]byte(span), depth+1)
	}

	return Envelope{Items: []json.RawMessage{}}
}

func isCleanJSON(s string) bool {
	return json.Valid([]byte(s))
}

// balancedSpan finds the first substring starting at open and ending at
// its matching close, honoring string literals so brackets inside quoted
// values do not break the count.
func balancedSpan(s string, open, close byte) (string, bool) {
	start := -1
	numOpen := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case open:
			if start < 0 {
				start = i
			}
			numOpen++
		case close:
			if start < 0 {
				continue
			}
			numOpen--
			if numOpen == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func extractTotal(obj map[string]json.RawMessage) *int {
	for _, key := range []string{"total", "count"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			return &n
		}
	}
	return nil
}

// decodeObject unmarshals a single-object response into dst, unwrapping
// one level of stringification first when the body arrived as a JSON
// string.
func decodeObject(raw []byte, dst interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			s = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "[object Object]"), "="))
			trimmed = []byte(s)
		}
	}
	return json.Unmarshal(trimmed, dst)
}

// DecodeItems unmarshals every normalized item into T. Items that fail
// to decode are skipped rather than failing the whole list.
func DecodeItems[T any](env Envelope) []T {
	out := make([]T, 0, len(env.Items))
	for _, raw := range env.Items {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			out = append(out, v)
		}
	}
	return out
}
