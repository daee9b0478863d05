package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/jsonc"
)

var (
	// ErrUnknownGeometry marks a geometry token outside the fixed enumeration.
	ErrUnknownGeometry = errors.New("unknown geometry")

	// ErrUnexpectedType marks a JSON value of the wrong kind at some path.
	ErrUnexpectedType = errors.New("unexpected type")
)

// DecodeError reports where in a document decoding failed and what was
// expected there. Path is rendered like $["some/id"].tags[2].
type DecodeError struct {
	Path     string
	Expected string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: expected %s: %v", e.Path, e.Expected, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// path is an immutable JSON location builder.
type path string

const rootPath path = "$"

func (p path) key(k string) path {
	return path(fmt.Sprintf("%s[%q]", p, k))
}

func (p path) field(name string) path {
	return p + "." + path(name)
}

func (p path) index(i int) path {
	return path(fmt.Sprintf("%s[%d]", p, i))
}

func (p path) fail(expected string, err error) error {
	return &DecodeError{Path: string(p), Expected: expected, Err: err}
}

// readDocument reads a whole document and normalizes it to strict JSON.
// Documents may carry // and /* */ comments and trailing commas.
func readDocument(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	data = jsonc.ToJSON(data)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, rootPath.fail("object", io.ErrUnexpectedEOF)
	}
	return data, nil
}

// isNull reports whether raw is absent or the JSON literal null.
func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || string(t) == "null"
}

// kind names the JSON kind of raw for error messages.
func kind(raw json.RawMessage) string {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 {
		return "nothing"
	}
	switch t[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func mismatch(p path, expected string, raw json.RawMessage) error {
	return p.fail(expected, fmt.Errorf("%w: got %s", ErrUnexpectedType, kind(raw)))
}

// object decodes raw as a JSON object of undecoded members. Repeated keys
// resolve to their last occurrence.
func object(p path, raw json.RawMessage) (map[string]json.RawMessage, error) {
	if kind(raw) != "object" {
		return nil, mismatch(p, "object", raw)
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, p.fail("object", err)
	}
	return members, nil
}

func stringValue(p path, raw json.RawMessage) (string, error) {
	if kind(raw) != "string" {
		return "", mismatch(p, "string", raw)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", p.fail("string", err)
	}
	return s, nil
}

func boolValue(p path, raw json.RawMessage) (bool, error) {
	if kind(raw) != "boolean" {
		return false, mismatch(p, "boolean", raw)
	}
	return strings.TrimSpace(string(raw)) == "true", nil
}

func numberValue(p path, raw json.RawMessage) (float64, error) {
	if kind(raw) != "number" {
		return 0, mismatch(p, "number", raw)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, p.fail("number", err)
	}
	return f, nil
}

// stringMap decodes a flat object of string values.
func stringMap(p path, raw json.RawMessage) (map[string]string, error) {
	members, err := object(p, raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(members))
	for k, v := range members {
		s, err := stringValue(p.key(k), v)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

// stringList decodes an array of strings. The result is never nil, so an
// explicit empty array stays distinguishable from an absent field.
func stringList(p path, raw json.RawMessage) ([]string, error) {
	if kind(raw) != "array" {
		return nil, mismatch(p, "array", raw)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, p.fail("array", err)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, err := stringValue(p.index(i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
