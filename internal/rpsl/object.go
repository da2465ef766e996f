// Package rpsl implements a streaming parser for the Routing Policy
// Specification Language: splitting a byte stream into object blocks,
// building ordered attribute objects from them, and exposing both a
// whole-buffer and a reader-driven streaming API.
package rpsl

import "strings"

// ObjectType tags an Object with the RIR object kind derived from its
// first attribute key. Unknown first keys produce an ObjectType equal to
// the literal key name (the "Other" case), never a generic placeholder.
type ObjectType string

// Known object types; typed.Project dispatches on them.
const (
	Inetnum      ObjectType = "inetnum"
	Inet6num     ObjectType = "inet6num"
	AutNum       ObjectType = "aut-num"
	Person       ObjectType = "person"
	Role         ObjectType = "role"
	Organisation ObjectType = "organisation"
	Mntner       ObjectType = "mntner"
	Route        ObjectType = "route"
	Route6       ObjectType = "route6"
)

var knownTypes = map[string]ObjectType{
	"inetnum":      Inetnum,
	"inet6num":     Inet6num,
	"aut-num":      AutNum,
	"person":       Person,
	"role":         Role,
	"organisation": Organisation,
	"organization": Organisation,
	"mntner":       Mntner,
	"route":        Route,
	"route6":       Route6,
}

// Object is an ordered RPSL attribute object: keys are recorded in
// first-seen order and never move, even though a key may carry several
// values. Type is derived from the first key added.
type Object struct {
	Type  ObjectType
	keys  []string
	attrs map[string][]string
}

// NewObject returns an empty Object ready to receive attributes via Add.
func NewObject() *Object {
	return &Object{attrs: make(map[string][]string)}
}

// Add appends value under key. If key has not been seen before on this
// object, it is recorded in key order; if this is the first attribute
// added at all, it establishes the object's Type.
func (o *Object) Add(key, value string) {
	key = strings.ToLower(key)
	if _, seen := o.attrs[key]; !seen {
		o.keys = append(o.keys, key)
		o.attrs[key] = nil
		if len(o.keys) == 1 {
			if t, known := knownTypes[key]; known {
				o.Type = t
			} else {
				o.Type = ObjectType(key)
			}
		}
	}
	o.attrs[key] = append(o.attrs[key], value)
}

// AppendToLast appends text to the most recent value stored under key,
// separated by a single space unless the existing value is empty, already
// ends in a space, or text is empty. If key has no value yet, it behaves
// like Add.
func (o *Object) AppendToLast(key, text string) {
	key = strings.ToLower(key)
	vals, seen := o.attrs[key]
	if !seen || len(vals) == 0 {
		o.Add(key, text)
		return
	}
	last := vals[len(vals)-1]
	if last != "" && !strings.HasSuffix(last, " ") && text != "" {
		last += " "
	}
	vals[len(vals)-1] = last + text
	o.attrs[key] = vals
}

// Get returns every value recorded for key, in insertion order.
func (o *Object) Get(key string) []string {
	return o.attrs[strings.ToLower(key)]
}

// First returns the first value recorded for key.
func (o *Object) First(key string) (string, bool) {
	v := o.Get(key)
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Keys returns the attribute keys in first-seen order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Empty reports whether no attribute has been added yet.
func (o *Object) Empty() bool {
	return len(o.keys) == 0
}

// Serialize renders o back into RPSL text: one "key: value" line per
// value, in key-insertion order, terminated by a blank line. Feeding the
// result back through ParseObject/ParseAll yields an object Equal to o
// (spec.md §8's round-trip invariant).
func (o *Object) Serialize() string {
	var b strings.Builder
	for _, k := range o.keys {
		for _, v := range o.attrs[k] {
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(v)
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// Equal compares two objects attribute-by-attribute, ignoring key order
// (per the RPSL round-trip invariant: equality holds modulo key order
// within the attribute map, not modulo value order within a key).
func (o *Object) Equal(other *Object) bool {
	if o.Type != other.Type {
		return false
	}
	if len(o.keys) != len(other.keys) {
		return false
	}
	for _, k := range o.keys {
		a, b := o.attrs[k], other.attrs[k]
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}
