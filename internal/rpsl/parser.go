package rpsl

import (
	"bytes"
	"strings"

	ipgeomerrors "github.com/ipgeom/ipgeom/internal/errors"
)

// ParserOptions tunes the attribute parser's tolerance for malformed input.
type ParserOptions struct {
	// Strict, when true, rejects a content line with no colon and no
	// leading whitespace as MissingColon even when a current key is
	// established, instead of treating it as an implicit continuation.
	// See spec.md §9's open question: the default (false) is lenient.
	Strict bool
}

// DefaultParserOptions returns the lenient default (implicit continuations
// accepted).
func DefaultParserOptions() ParserOptions { return ParserOptions{} }

// ParseObject consumes at most one RPSL object from buf, starting at
// 1-based line number startLine. eof indicates whether buf is known to be
// the final chunk of the stream (no more bytes will ever arrive).
//
// On success it returns the parsed object (nil if the stream ended cleanly
// with no further object), the unconsumed remainder of buf, and the number
// of lines consumed. On an incomplete object it returns a *errors.IncompleteError
// and the original buf untouched, so the caller can append more bytes and
// retry. On a malformed line it returns a *errors.ParseError.
func ParseObject(buf []byte, eof bool, startLine int, opts ParserOptions) (*Object, []byte, int, error) {
	obj := NewObject()
	pos := buf
	lineNo := startLine
	started := false
	currentKey := ""

	for {
		if len(pos) == 0 {
			if eof {
				if !started {
					return nil, nil, lineNo - startLine, nil
				}
				return obj, nil, lineNo - startLine, nil
			}
			return nil, buf, 0, &ipgeomerrors.IncompleteError{Line: lineNo}
		}

		line, rest, ok := splitLine(pos)
		if !ok {
			if !eof {
				return nil, buf, 0, &ipgeomerrors.IncompleteError{Line: lineNo}
			}
			line = pos
			rest = nil
		}

		switch {
		case isBlank(line):
			pos = rest
			lineNo++
			if started {
				return obj, pos, lineNo - startLine, nil
			}
			// leading blank lines before any attribute are skipped
			continue

		case isComment(line):
			pos = rest
			lineNo++
			continue

		case isIndented(line):
			content := strings.TrimSpace(string(line))
			if currentKey == "" {
				return nil, buf, 0, &ipgeomerrors.ParseError{
					Line:    lineNo,
					Content: content,
					Kind:    ipgeomerrors.UnexpectedContinuation,
				}
			}
			obj.AppendToLast(currentKey, content)
			started = true
			pos = rest
			lineNo++
			continue

		default:
			if idx := bytes.IndexByte(line, ':'); idx >= 0 {
				key := strings.ToLower(strings.TrimSpace(string(line[:idx])))
				value := strings.TrimSpace(string(line[idx+1:]))
				obj.Add(key, value)
				currentKey = key
				started = true
				pos = rest
				lineNo++
				continue
			}

			content := strings.TrimSpace(string(line))
			if currentKey != "" && !opts.Strict {
				obj.AppendToLast(currentKey, content)
				started = true
				pos = rest
				lineNo++
				continue
			}

			kind := ipgeomerrors.MissingColon
			return nil, buf, 0, &ipgeomerrors.ParseError{
				Line:    lineNo,
				Content: content,
				Kind:    kind,
			}
		}
	}
}
