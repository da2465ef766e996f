package rpsl

import "bytes"

// splitLine extracts the first line (CRLF and LF both accepted, terminator
// stripped) from buf and returns the remainder after it. ok is false when
// buf contains no line terminator at all, meaning the caller needs more
// input before this line can be processed.
func splitLine(buf []byte) (line []byte, rest []byte, ok bool) {
	i := bytes.IndexByte(buf, '\n')
	if i < 0 {
		return nil, buf, false
	}
	line = buf[:i]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line, buf[i+1:], true
}

// isBlank reports whether a line contains only whitespace.
func isBlank(line []byte) bool {
	return len(bytes.TrimSpace(line)) == 0
}

// isComment reports whether a line is a `#` or `%` comment, tolerating
// leading whitespace before the marker.
func isComment(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " \t")
	return len(trimmed) > 0 && (trimmed[0] == '#' || trimmed[0] == '%')
}

// isIndented reports whether a line begins with whitespace, marking it as
// an explicit continuation candidate.
func isIndented(line []byte) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}
