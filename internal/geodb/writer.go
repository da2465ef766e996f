package geodb

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

// metadataMarker is the fixed sentinel the real MaxMind format uses to mark
// the boundary between the data section and the metadata block; the
// collaborator reader library locates it by scanning backward from EOF.
var metadataMarker = append([]byte{0xab, 0xcd, 0xef}, []byte("MaxMind.com")...)

// dataSectionBias is the size of the 16-byte all-zero separator written
// between the search tree and the data records; data pointers are biased by
// node_count plus this separator.
const dataSectionBias = 16

const defaultRecordSize = 28

// Metadata carries the fields spec.md §4.6 requires in the trailing
// metadata block, beyond what the writer derives itself (node_count,
// record_size, binary_format_*).
type Metadata struct {
	DatabaseType string
	Description  map[string]string // language -> human description
	Languages    []string
	BuildEpoch   uint64
	// RecordSize, in bits, sizes each of a node's two child pointers. Must
	// make 2*RecordSize a multiple of 8 (24, 28, 32 are typical). Zero
	// selects defaultRecordSize.
	RecordSize int
}

// WriteTo serializes the tree's search-tree section, data section, marker,
// and metadata block, in that order, per spec.md §4.6.
func (t *Tree) WriteTo(w io.Writer, meta Metadata) (int64, error) {
	recordSize := meta.RecordSize
	if recordSize == 0 {
		recordSize = defaultRecordSize
	}
	if (2*recordSize)%8 != 0 {
		return 0, fmt.Errorf("geodb: record size %d bits does not pack to a whole byte pair", recordSize)
	}

	dataBytes, offsets := encodeDataSection(t.records)
	treeBytes := t.encodeSearchTree(recordSize, offsets)
	metaBytes := encodeValue(nil, buildMetadataValue(meta, len(t.nodes), recordSize))

	var total int64
	for _, chunk := range [][]byte{treeBytes, dataBytes, metadataMarker, metaBytes} {
		n, err := w.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("geodb: write section: %w", err)
		}
	}
	return total, nil
}

// encodeSearchTree packs every node's two child pointers into recordSize
// bits each, back to back.
func (t *Tree) encodeSearchTree(recordSize int, dataOffsets []int) []byte {
	nodeCount := len(t.nodes)
	recordBytes := (2 * recordSize) / 8
	out := make([]byte, 0, nodeCount*recordBytes)
	for _, n := range t.nodes {
		left := resolvePointer(n.left, nodeCount, dataOffsets)
		right := resolvePointer(n.right, nodeCount, dataOffsets)
		out = append(out, encodeNodeRecord(left, right, recordSize)...)
	}
	return out
}

// resolvePointer converts an internal child reference into the on-disk
// pointer convention: below node_count means "another node", equal to
// node_count means "no match", above means a data-section offset (biased
// by node_count and the reserved prefix).
func resolvePointer(c child, nodeCount int, dataOffsets []int) uint64 {
	switch c.kind {
	case childNode:
		return uint64(c.idx)
	case childData:
		return uint64(nodeCount) + dataSectionBias + uint64(dataOffsets[c.idx])
	default:
		return uint64(nodeCount)
	}
}

// encodeNodeRecord packs left and right into a single big-endian integer
// of 2*recordSize bits, split back into recordBytes-byte halves implicitly
// by the bit shift — equivalent to (and simpler than) the nibble-packing
// description commonly given for 28-bit records.
func encodeNodeRecord(left, right uint64, recordSize int) []byte {
	totalBytes := (2 * recordSize) / 8
	combined := (left << uint(recordSize)) | right
	out := make([]byte, totalBytes)
	for i := totalBytes - 1; i >= 0; i-- {
		out[i] = byte(combined)
		combined >>= 8
	}
	return out
}

// encodeDataSection serializes every interned record in insertion order,
// preceded by a 16-byte reserved prefix, returning the section bytes and
// each record's byte offset measured from the end of that prefix.
func encodeDataSection(records []Value) ([]byte, []int) {
	buf := make([]byte, dataSectionBias)
	offsets := make([]int, len(records))
	for i, rec := range records {
		offsets[i] = len(buf) - dataSectionBias
		buf = encodeValue(buf, rec)
	}
	return buf, offsets
}

// encodeValue appends v's tagged encoding to buf: a control byte (type in
// its top 3 bits, size in the low 5, extended per the MaxMind control-byte
// convention for sizes ≥29 or types ≥8) followed by the payload.
func encodeValue(buf []byte, v Value) []byte {
	switch t := v.(type) {
	case String:
		payload := []byte(string(t))
		buf = writeControlByte(buf, 2, len(payload))
		return append(buf, payload...)
	case Uint16:
		payload := trimmedUint(uint64(t))
		buf = writeControlByte(buf, 5, len(payload))
		return append(buf, payload...)
	case Uint32:
		payload := trimmedUint(uint64(t))
		buf = writeControlByte(buf, 6, len(payload))
		return append(buf, payload...)
	case Map:
		buf = writeControlByte(buf, 7, len(t))
		for _, k := range sortedKeys(t) {
			buf = encodeValue(buf, String(k))
			buf = encodeValue(buf, t[k])
		}
		return buf
	case Uint64:
		payload := trimmedUint(uint64(t))
		buf = writeControlByte(buf, 9, len(payload))
		return append(buf, payload...)
	case Array:
		buf = writeControlByte(buf, 11, len(t))
		for _, e := range t {
			buf = encodeValue(buf, e)
		}
		return buf
	case Bool:
		size := 0
		if bool(t) {
			size = 1
		}
		return writeControlByte(buf, 14, size)
	default:
		return buf
	}
}

func sortedKeys(m Map) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// trimmedUint returns v as a minimal-width big-endian byte slice (leading
// zero bytes dropped; zero itself encodes as a zero-length payload), the
// MaxMind convention for fixed-width integer types.
func trimmedUint(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	i := 0
	for i < 8 && b[i] == 0 {
		i++
	}
	return b[i:]
}

// writeControlByte appends the control byte (and, for size ≥29 or type
// ≥8, the extension bytes) identifying an upcoming value's type and size.
func writeControlByte(buf []byte, typeNum, size int) []byte {
	var first byte
	if typeNum <= 7 {
		first = byte(typeNum) << 5
	}
	switch {
	case size < 29:
		first |= byte(size)
		buf = append(buf, first)
	case size < 29+256:
		first |= 29
		buf = append(buf, first, byte(size-29))
	case size < 29+256+65536:
		first |= 30
		rem := size - 29 - 256
		buf = append(buf, first, byte(rem>>8), byte(rem))
	default:
		first |= 31
		rem := size - 29 - 256 - 65536
		buf = append(buf, first, byte(rem>>16), byte(rem>>8), byte(rem))
	}
	if typeNum > 7 {
		buf = append(buf, byte(typeNum-7))
	}
	return buf
}

// buildMetadataValue assembles the metadata block's Map per spec.md §4.6:
// binary format version, ip_version (always 6 here: IPv6-unified mode),
// record_size, node_count, database_type, languages, description, and
// build_epoch.
func buildMetadataValue(meta Metadata, nodeCount, recordSize int) Value {
	descr := Map{}
	for lang, text := range meta.Description {
		descr[lang] = String(text)
	}
	langs := make(Array, len(meta.Languages))
	for i, l := range meta.Languages {
		langs[i] = String(l)
	}
	return Map{
		"binary_format_major_version": Uint16(2),
		"binary_format_minor_version": Uint16(0),
		"build_epoch":                 Uint64(meta.BuildEpoch),
		"database_type":               String(meta.DatabaseType),
		"description":                 descr,
		"ip_version":                  Uint16(6),
		"languages":                   langs,
		"node_count":                  Uint32(uint32(nodeCount)),
		"record_size":                 Uint16(uint16(recordSize)),
	}
}
