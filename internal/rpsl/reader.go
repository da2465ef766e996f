package rpsl

import (
	"errors"
	"io"
	"sync"

	ipgeomerrors "github.com/ipgeom/ipgeom/internal/errors"
)

// chunkPool reuses read buffers across ObjectReader instances, the same
// sync.Pool pattern the transport layer this package's parser/state-machine
// design is modeled on uses for its receive buffers.
var chunkPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 64*1024)
		return &buf
	}}

func getChunk() *[]byte { return chunkPool.Get().(*[]byte) }
func putChunk(b *[]byte) { chunkPool.Put(b) }

// ObjectReader streams Objects out of an io.Reader, growing an internal
// buffer only as far as a single object requires and draining exactly the
// bytes ParseObject consumed.
type ObjectReader struct {
	r       io.Reader
	opts    ParserOptions
	buf     []byte
	lineNo  int
	eof     bool
	lastErr error
}

// NewObjectReader wraps r for streaming RPSL object extraction.
func NewObjectReader(r io.Reader, opts ParserOptions) *ObjectReader {
	return &ObjectReader{r: r, opts: opts, lineNo: 1}
}

// Next returns the next object, or io.EOF once the stream is exhausted
// cleanly. A non-EOF error is fatal to the iterator; subsequent calls
// return the same error.
func (or *ObjectReader) Next() (*Object, error) {
	if or.lastErr != nil {
		return nil, or.lastErr
	}

	for {
		obj, rest, _, err := ParseObject(or.buf, or.eof, or.lineNo, or.opts)
		if err != nil {
			var incomplete *ipgeomerrors.IncompleteError
			if errors.As(err, &incomplete) {
				if or.eof {
					// eof already observed but parser still wants more:
					// the stream ended mid-object, which is a permanent
					// failure, not a recoverable one.
					or.lastErr = err
					return nil, err
				}
				if readErr := or.fill(); readErr != nil {
					or.lastErr = readErr
					return nil, readErr
				}
				continue
			}
			or.lastErr = err
			return nil, err
		}

		consumedLines := countLines(or.buf[:len(or.buf)-len(rest)])
		or.lineNo += consumedLines
		or.buf = rest

		if obj == nil {
			if or.eof {
				or.lastErr = io.EOF
				return nil, io.EOF
			}
			if readErr := or.fill(); readErr != nil {
				or.lastErr = readErr
				return nil, readErr
			}
			continue
		}
		return obj, nil
	}
}

// fill reads another chunk from the underlying reader, appending to the
// internal buffer, and marks eof once the reader is exhausted.
func (or *ObjectReader) fill() error {
	chunkPtr := getChunk()
	defer putChunk(chunkPtr)
	chunk := *chunkPtr

	n, err := or.r.Read(chunk)
	if n > 0 {
		or.buf = append(or.buf, chunk[:n]...)
	}
	if err != nil {
		if err == io.EOF {
			or.eof = true
			return nil
		}
		return &ipgeomerrors.NetError{Operation: "read rpsl stream", Err: err}
	}
	if n == 0 {
		// Some readers return (0, nil) instead of EOF on true exhaustion;
		// treat that as EOF too rather than spinning.
		or.eof = true
	}
	return nil
}

func countLines(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}

// ParseAll parses every object out of data in one pass, returning an error
// on the first malformed or incomplete object.
func ParseAll(data []byte, opts ParserOptions) ([]*Object, error) {
	var objs []*Object
	buf := data
	lineNo := 1
	for {
		obj, rest, consumed, err := ParseObject(buf, true, lineNo, opts)
		if err != nil {
			return objs, err
		}
		if obj == nil {
			return objs, nil
		}
		objs = append(objs, obj)
		lineNo += consumed
		buf = rest
	}
}
