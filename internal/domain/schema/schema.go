// Package schema describes request payload shapes as explicit registries of
// fields and validates decoded input against them.
package schema

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/scoring/internal/domain/field"
	"github.com/okian/scoring/internal/domain/model"
)

// Field declares one entry of a schema.
type Field struct {
	Name     string
	Kind     field.Kind
	Required bool
	Nullable bool
}

// Pair names two fields that must both be supplied.
type Pair [2]string

// Schema is a named, ordered set of fields. Field names are unique.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
	pairs  []Pair
}

// New builds a schema. It panics on duplicate field names or on pairs that
// reference undeclared fields, since schemas are fixed at startup.
func New(name string, fields []Field, pairs ...Pair) *Schema {
	s := &Schema{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
		pairs:  pairs,
	}
	for _, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("schema %s: duplicate field %q", name, f.Name))
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	for _, p := range pairs {
		for _, n := range p {
			if _, ok := s.index[n]; !ok {
				panic(fmt.Sprintf("schema %s: pair references unknown field %q", name, n))
			}
		}
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Fields returns the declared fields in order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the field declared under name.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Validate checks input against the schema. It never fails; every problem is
// recorded in the returned report.
func (s *Schema) Validate(input *model.Object, now time.Time) Report {
	r := Report{Schema: s.name}
	present := make(map[string]bool, input.Len())

	for _, key := range input.Keys() {
		f, ok := s.Lookup(key)
		if !ok {
			r.Unknown = append(r.Unknown, key)
			continue
		}
		v, _ := input.Get(key)
		if v == nil && f.Nullable {
			continue
		}
		present[key] = true
		r.Supplied = append(r.Supplied, key)
	}

	for _, f := range s.fields {
		v, ok := input.Get(f.Name)
		if !ok {
			if f.Required {
				r.Missing = append(r.Missing, f.Name)
			}
			continue
		}
		if reason := check(f, v, now); reason != "" {
			r.Invalid = append(r.Invalid, Violation{Field: f.Name, Reason: reason})
		}
	}

	if len(s.pairs) > 0 {
		r.NoPair = true
		for _, p := range s.pairs {
			if present[p[0]] && present[p[1]] {
				r.NoPair = false
				break
			}
		}
	}
	return r
}

func check(f Field, v any, now time.Time) string {
	if v == nil {
		if f.Nullable {
			return ""
		}
		return "value can not be null"
	}
	if !f.Nullable && field.IsEmpty(v) {
		return "value can not be empty"
	}
	err := field.Check(f.Name, f.Kind, v, now)
	if err == nil {
		return ""
	}
	var fe *field.Error
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return err.Error()
}

// Violation is one invalid field and the reason it failed.
type Violation struct {
	Field  string
	Reason string
}

// Report is the outcome of validating one payload. Unknown, Missing and
// Invalid are disjoint.
type Report struct {
	Schema   string
	Unknown  []string
	Missing  []string
	Invalid  []Violation
	NoPair   bool
	Supplied []string
}

// Valid reports whether the payload passed every check.
func (r Report) Valid() bool {
	return len(r.Unknown) == 0 && len(r.Missing) == 0 && len(r.Invalid) == 0 && !r.NoPair
}

// InvalidFields returns the names of the invalid fields in schema order.
func (r Report) InvalidFields() []string {
	out := make([]string, 0, len(r.Invalid))
	for _, v := range r.Invalid {
		out = append(out, v.Field)
	}
	return out
}

// Message aggregates every problem into one human readable string. It is
// empty for a valid report.
func (r Report) Message() string {
	var parts []string
	if len(r.Unknown) > 0 {
		parts = append(parts, "Unknown arguments: "+strings.Join(r.Unknown, ", "))
	}
	if len(r.Missing) > 0 {
		parts = append(parts, "Missed required arguments: "+strings.Join(r.Missing, ", "))
	}
	if len(r.Invalid) > 0 {
		bad := make([]string, 0, len(r.Invalid))
		for _, v := range r.Invalid {
			bad = append(bad, v.Field+": "+v.Reason)
		}
		parts = append(parts, "Wrong field values: "+strings.Join(bad, ", "))
	}
	if r.NoPair {
		parts = append(parts, "No valid field pair presented")
	}
	return strings.Join(parts, "; ")
}

// Err returns nil for a valid report, otherwise an error wrapping ErrInvalid
// that carries the aggregated message.
func (r Report) Err() error {
	if r.Valid() {
		return nil
	}
	return fmt.Errorf("%s: %w: %s", r.Schema, ErrInvalid, r.Message())
}
