package ticket

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// ErrMalformed is returned by Flatten when a value cannot be read as a list
// of numbers at all.
var ErrMalformed = errors.New("malformed ticket numbers")

// maxDepth bounds nesting; a grid is two levels deep.
const maxDepth = 4

// Flatten normalizes a stored or user-supplied ticket into a flat list of
// positive integers, keeping input order. It accepts slices and arrays of
// any numeric or string element type (nested for grid shapes), Grid, and
// text: JSON arrays, Postgres array literals such as {1,2,3}, or numbers
// separated by commas or whitespace. Entries that are empty, non-numeric,
// fractional or not positive are dropped rather than treated as errors.
func Flatten(candidate any) ([]int, error) {
	list, ok := asList(candidate)
	if !ok {
		return nil, ErrMalformed
	}

	numbers := make([]int, 0, len(list))
	appendNumbers(&numbers, list, 0)
	return numbers, nil
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		return parseText(t)
	case []byte:
		return parseText(string(t))
	case json.RawMessage:
		return parseText(string(t))
	case Grid:
		return gridValues(t), true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return asList(rv.Elem().Interface())
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, false
	}

	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

func gridValues(g Grid) []any {
	values := make([]any, 0, Rows*Columns)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			values = append(values, g[r][c])
		}
	}
	return values
}

func parseText(s string) ([]any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	switch {
	case strings.HasPrefix(s, "["):
		dec := json.NewDecoder(bytes.NewReader([]byte(s)))
		dec.UseNumber()
		var list []any
		if err := dec.Decode(&list); err != nil {
			return nil, false
		}
		return list, true
	case strings.HasPrefix(s, `"`):
		// double-encoded JSON string
		var inner string
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return nil, false
		}
		return parseText(inner)
	case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
		// Postgres array literal; a JSON object is not a list
		if strings.Contains(s, ":") {
			return nil, false
		}
		s = strings.NewReplacer("{", " ", "}", " ").Replace(s)
	}

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})

	list := make([]any, 0, len(fields))
	numeric := false
	for _, f := range fields {
		if _, ok := toNumber(f); ok {
			numeric = true
		}
		list = append(list, f)
	}
	if !numeric {
		return nil, false
	}
	return list, true
}

func appendNumbers(out *[]int, list []any, depth int) {
	for _, v := range list {
		if n, ok := toNumber(v); ok {
			if n > 0 {
				*out = append(*out, n)
			}
			continue
		}
		if depth+1 >= maxDepth {
			continue
		}
		if nested, ok := nestedList(v); ok {
			appendNumbers(out, nested, depth+1)
		}
	}
}

func nestedList(v any) ([]any, bool) {
	switch v.(type) {
	case nil, string, []byte, json.RawMessage:
		return nil, false
	}
	return asList(v)
}

func toNumber(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int8:
		return int(t), true
	case int16:
		return int(t), true
	case int32:
		return int(t), true
	case int64:
		return clampInt64(t)
	case uint8:
		return int(t), true
	case uint16:
		return int(t), true
	case uint32:
		return int(t), true
	case uint:
		return clampInt64(int64(min(t, math.MaxInt64)))
	case uint64:
		return clampInt64(int64(min(t, math.MaxInt64)))
	case float32:
		return integral(float64(t))
	case float64:
		return integral(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return clampInt64(i)
		}
		if f, err := t.Float64(); err == nil {
			return integral(f)
		}
		return 0, false
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return clampInt64(i)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return integral(f)
		}
		return 0, false
	case []byte:
		return toNumber(string(t))
	}
	return 0, false
}

func integral(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f < math.MinInt32 {
		return math.MinInt32, true
	}
	return int(f), true
}

// clampInt64 keeps huge values representable; they are out of range either way
func clampInt64(i int64) (int, bool) {
	if i > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if i < math.MinInt32 {
		return math.MinInt32, true
	}
	return int(i), true
}
