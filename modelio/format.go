// Package modelio reads and writes GIS models in a plain-text or a binary
// encoding, optionally gzip compressed.
//
// Both encodings store the same sequence of values:
//
//	"GIS"                         model type marker
//	correction constant           double
//	correction parameter          double
//	outcome count, labels         int, one string per outcome
//	pattern count, patterns       int, one string per pattern
//	predicate count, labels       int, one string per predicate
//	parameters                    one double per predicate/outcome pair
//
// A pattern string is "n o1 o2 ...": the next n predicates, in id order,
// have weights for outcome ids o1, o2, ... The parameters follow in
// predicate id order.
//
// The writer emits one pattern per run of neighbouring predicates, so the
// same outcome set may be listed more than once and the pattern count is the
// number of runs, not of distinct sets. Predicates are never reordered. The
// reader accepts any grouping, including files that list each distinct set
// once with its predicates sorted together.
package modelio

import (
	"io"
	"strings"
)

// DataReader reads the primitive values of a serialized model.
type DataReader interface {
	ReadInt() (int, error)
	ReadDouble() (float64, error)
	ReadUTF() (string, error)
}

// DataWriter writes the primitive values of a serialized model.
type DataWriter interface {
	WriteInt(v int) error
	WriteDouble(v float64) error
	WriteUTF(s string) error
	Flush() error
}

// Format selects an encoding.
type Format int

const (
	// Binary stores big-endian 32-bit ints, IEEE 754 doubles and strings
	// prefixed with a 16-bit byte length.
	Binary Format = iota
	// Text stores one value per line.
	Text
)

func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// NewDataReader returns a DataReader decoding f from r.
func (f Format) NewDataReader(r io.Reader) DataReader {
	if f == Text {
		return newTextReader(r)
	}
	return newBinaryReader(r)
}

// NewDataWriter returns a DataWriter encoding f to w.
func (f Format) NewDataWriter(w io.Writer) DataWriter {
	if f == Text {
		return newTextWriter(w)
	}
	return newBinaryWriter(w)
}

// FormatForPath picks the format from a file name. A ".gz" suffix means
// gzip; what remains selects Text when it ends in ".txt" and Binary
// otherwise.
func FormatForPath(path string) (format Format, gzipped bool) {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".gz") {
		gzipped = true
		name = strings.TrimSuffix(name, ".gz")
	}
	if strings.HasSuffix(name, ".txt") {
		return Text, gzipped
	}
	return Binary, gzipped
}
