// Package geodb builds the write-once, compact radix-tree IP-geolocation
// database described in spec.md §4.6: a MaxMind-compatible on-disk layout
// of a search tree over IP-prefix bits, a deduplicated data section of
// structured records, and a trailing metadata block. Only the writer is
// implemented here; reading such databases is an external collaborator's
// job (spec.md §1).
package geodb

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is the small tagged data-section value type: a map, a string, an
// unsigned integer, an array, or a boolean. It mirrors the MaxMind tagged
// format closely enough for the chosen reader library to understand it.
type Value interface {
	isValue()
}

// Map is an ordered-by-key string-to-Value map, the format's structure for
// composite records (e.g. {"country": {"iso_code": "US"}}).
type Map map[string]Value

// String is a UTF-8 text value.
type String string

// Uint32 is an unsigned 32-bit integer value (used for counts, versions).
type Uint32 uint32

// Uint16 is an unsigned 16-bit integer value.
type Uint16 uint16

// Uint64 is an unsigned 64-bit integer value (used for build_epoch).
type Uint64 uint64

// Array is an ordered sequence of values.
type Array []Value

// Bool is a boolean value.
type Bool bool

func (Map) isValue()    {}
func (String) isValue() {}
func (Uint32) isValue() {}
func (Uint16) isValue() {}
func (Uint64) isValue() {}
func (Array) isValue()  {}
func (Bool) isValue()   {}

// canonicalKey produces a deterministic string for v suitable as a
// structural-equality dedup key: equal values always produce equal keys,
// and map keys are sorted so key order never affects the result.
func canonicalKey(v Value) string {
	var b strings.Builder
	writeCanonical(&b, v)
	return b.String()
}

func writeCanonical(b *strings.Builder, v Value) {
	switch t := v.(type) {
	case Map:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			writeCanonical(b, t[k])
		}
		b.WriteByte('}')
	case Array:
		b.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, e)
		}
		b.WriteByte(']')
	case String:
		b.WriteString(strconv.Quote(string(t)))
	case Uint32:
		fmt.Fprintf(b, "u32:%d", uint32(t))
	case Uint16:
		fmt.Fprintf(b, "u16:%d", uint16(t))
	case Uint64:
		fmt.Fprintf(b, "u64:%d", uint64(t))
	case Bool:
		fmt.Fprintf(b, "b:%t", bool(t))
	default:
		fmt.Fprintf(b, "?:%v", t)
	}
}
