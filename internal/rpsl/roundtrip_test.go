package rpsl

import (
	"io"
	"testing"
)

// TestRoundTrip_UntypedEquality exercises spec.md §8's round-trip
// invariant: parse(serialize(O)) == O modulo key order.
func TestRoundTrip_UntypedEquality(t *testing.T) {
	cases := []string{
		"inetnum: 192.0.2.0 - 192.0.2.255\nnetname: TEST-NET\n\n",
		"descr: First line second line\nremarks: a\nremarks: b\n\n",
		"aut-num: AS1126\nas-name: EXAMPLE-AS\ndescr: multi\nremarks: x\nremarks: y\n\n",
	}
	for _, input := range cases {
		objs, err := ParseAll([]byte(input), DefaultParserOptions())
		if err != nil {
			t.Fatalf("ParseAll(%q): %v", input, err)
		}
		if len(objs) != 1 {
			t.Fatalf("ParseAll(%q) = %d objects, want 1", input, len(objs))
		}
		original := objs[0]

		serialized := original.Serialize()
		reparsed, err := ParseAll([]byte(serialized), DefaultParserOptions())
		if err != nil {
			t.Fatalf("ParseAll(serialize(%q)): %v", input, err)
		}
		if len(reparsed) != 1 {
			t.Fatalf("reparsed %d objects, want 1", len(reparsed))
		}
		if !original.Equal(reparsed[0]) {
			t.Errorf("round-trip mismatch for %q: serialized as %q", input, serialized)
		}
	}
}

// TestRoundTrip_StreamingEquivalence checks that chunking the same byte
// sequence at arbitrary boundaries never changes the objects an
// ObjectReader produces, compared to parsing the whole buffer at once.
func TestRoundTrip_StreamingEquivalence(t *testing.T) {
	input := "inetnum: 192.0.2.0 - 192.0.2.255\nnetname: TEST-NET\ndescr: a\n  b\n\n" +
		"aut-num: AS1\nas-name: ONE\n\n"

	whole, err := ParseAll([]byte(input), DefaultParserOptions())
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}

	for chunkSize := 1; chunkSize <= len(input); chunkSize++ {
		r := &chunkedReader{data: []byte(input), size: chunkSize}
		or := NewObjectReader(r, DefaultParserOptions())

		var streamed []*Object
		for {
			obj, err := or.Next()
			if err != nil {
				break
			}
			streamed = append(streamed, obj)
		}

		if len(streamed) != len(whole) {
			t.Fatalf("chunk size %d: got %d objects, want %d", chunkSize, len(streamed), len(whole))
		}
		for i := range whole {
			if !whole[i].Equal(streamed[i]) {
				t.Fatalf("chunk size %d: object %d mismatch", chunkSize, i)
			}
		}
	}
}

// chunkedReader hands out data size bytes at a time, the same
// fixed-stride-chunking fixture pattern the streaming parser tests use.
type chunkedReader struct {
	data []byte
	size int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.size
	if n > len(p) {
		n = len(p)
	}
	if n > len(c.data) {
		n = len(c.data)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}
