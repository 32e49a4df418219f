// Package ovis evaluates a document template's compliance checks against prefill data.
//
// A check is a closed predicate over one field (empty, exists, len < N) plus a severity and a
// message. Every check whose predicate holds yields one warning, in declared order. Evaluation
// reads the data and nothing else.
package ovis

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind selects the predicate a Rule applies.
type Kind string

const (
	KindEmpty       Kind = "empty"
	KindExists      Kind = "exists"
	KindLenLessThan Kind = "len_less_than"
)

// Rule is a single predicate over a field. N is only meaningful for KindLenLessThan.
type Rule struct {
	Kind  Kind   `yaml:"kind" json:"kind"`
	Field string `yaml:"field" json:"field"`
	N     int    `yaml:"n,omitempty" json:"n,omitempty"`
}

func Empty(field string) Rule { return Rule{Kind: KindEmpty, Field: field} }

func Exists(field string) Rule { return Rule{Kind: KindExists, Field: field} }

func LenLessThan(field string, n int) Rule { return Rule{Kind: KindLenLessThan, Field: field, N: n} }

// Validate rejects rules that can never be evaluated meaningfully.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Field) == "" {
		return fmt.Errorf("rule %q: field is required", r.Kind)
	}

	switch r.Kind {
	case KindEmpty, KindExists:
		return nil
	case KindLenLessThan:
		if r.N <= 0 {
			return fmt.Errorf("rule len(%s): n must be positive, got %d", r.Field, r.N)
		}

		return nil
	}

	return fmt.Errorf("unknown rule kind %q", r.Kind)
}

// Holds reports whether the predicate is true for data.
func (r Rule) Holds(data map[string]any) bool {
	v, ok := Lookup(data, r.Field)

	switch r.Kind {
	case KindEmpty:
		return isEmpty(v, ok)
	case KindExists:
		return ok && v != nil
	case KindLenLessThan:
		return length(v, ok) < r.N
	}

	return false
}

func (r Rule) String() string {
	switch r.Kind {
	case KindEmpty:
		return fmt.Sprintf("empty(%s)", r.Field)
	case KindExists:
		return fmt.Sprintf("exists(%s)", r.Field)
	case KindLenLessThan:
		return fmt.Sprintf("len(%s) < %d", r.Field, r.N)
	}

	return string(r.Kind)
}

// isEmpty: missing, nil, or a whitespace-only string.
func isEmpty(v any, ok bool) bool {
	if !ok || v == nil {
		return true
	}

	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) == ""
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return rv.IsNil()
	}

	return false
}

// length counts elements of array-like values; absent and non array-like values count as zero.
func length(v any, ok bool) int {
	if !ok || v == nil {
		return 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len()
	}

	return 0
}

// Lookup resolves a field key against data. Dotted keys descend into nested maps.
func Lookup(data map[string]any, key string) (any, bool) {
	if v, ok := data[key]; ok {
		return v, true
	}

	head, rest, found := strings.Cut(key, ".")
	if !found {
		return nil, false
	}

	switch nested := data[head].(type) {
	case map[string]any:
		return Lookup(nested, rest)
	case map[string]string:
		v, ok := nested[rest]
		return v, ok
	}

	return nil, false
}
