package extract

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	watermarkSegment = "/playwm/"
	playSegment      = "/play/"
)

// Navigate parses raw JSON and walks path to a string, returning it with the
// watermark segment stripped.
func Navigate(raw string, path Path) (string, error) {
	root, err := ParseBlock(raw)
	if err != nil {
		return "", err
	}
	return Walk(root, path)
}

// ParseBlock parses the data block into a generic JSON value.
func ParseBlock(raw string) (gjson.Result, error) {
	if !gjson.Valid(raw) {
		return gjson.Result{}, &SchemaError{Segment: "$", Cause: ErrInvalidJSON}
	}
	return gjson.Parse(raw), nil
}

// Walk follows path from root. root is only ever read.
func Walk(root gjson.Result, path Path) (string, error) {
	cur := root
	for i, step := range path {
		next, err := step.apply(cur)
		if err != nil {
			if step.emptyErr != nil && err == step.emptyErr {
				return "", err
			}
			return "", &SchemaError{
				Path:    path[:i].String(),
				Segment: step.String(),
				Cause:   err,
				Detail:  describe(step, cur),
			}
		}
		cur = next
	}

	if cur.Type != gjson.String {
		last := "$"
		if len(path) > 0 {
			last = path[len(path)-1].String()
		}
		return "", &SchemaError{
			Path:    path.String(),
			Segment: last,
			Cause:   ErrTypeMismatch,
			Detail:  "want string, got " + typeName(cur),
		}
	}

	return StripWatermark(cur.Str), nil
}

// StripWatermark swaps the watermarked play segment for the clean one.
// URLs without the segment are returned unchanged.
func StripWatermark(u string) string {
	return strings.ReplaceAll(u, watermarkSegment, playSegment)
}

func (s Step) apply(cur gjson.Result) (gjson.Result, error) {
	if s.isIndex {
		if !cur.IsArray() {
			return gjson.Result{}, ErrTypeMismatch
		}
		items := cur.Array()
		if s.index < 0 || s.index >= len(items) {
			return gjson.Result{}, ErrIndexOutOfRange
		}
		return items[s.index], nil
	}

	if !cur.IsObject() {
		return gjson.Result{}, ErrTypeMismatch
	}
	v, ok := cur.Map()[s.key]
	if s.emptyErr != nil && (!ok || v.Type == gjson.Null || (v.IsArray() && len(v.Array()) == 0)) {
		return gjson.Result{}, s.emptyErr
	}
	if !ok {
		return gjson.Result{}, ErrMissingKey
	}
	return v, nil
}

func describe(s Step, cur gjson.Result) string {
	if s.isIndex {
		if cur.IsArray() {
			return fmt.Sprintf("array has %d elements", len(cur.Array()))
		}
		return "want array, got " + typeName(cur)
	}
	if !cur.IsObject() {
		return "want object, got " + typeName(cur)
	}
	return ""
}

func typeName(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "object"
	case r.IsArray():
		return "array"
	}
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	default:
		return "unknown"
	}
}
