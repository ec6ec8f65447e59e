package modelio

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/YuminosukeSato/maxent/pkg/errors"
)

const maxUTFLength = math.MaxUint16

type binaryReader struct {
	r   *bufio.Reader
	buf [8]byte
}

func newBinaryReader(r io.Reader) *binaryReader {
	return &binaryReader{r: bufio.NewReader(r)}
}

func (b *binaryReader) ReadInt() (int, error) {
	if _, err := io.ReadFull(b.r, b.buf[:4]); err != nil {
		return 0, err
	}
	return int(int32(binary.BigEndian.Uint32(b.buf[:4]))), nil
}

func (b *binaryReader) ReadDouble() (float64, error) {
	if _, err := io.ReadFull(b.r, b.buf[:8]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b.buf[:8])), nil
}

func (b *binaryReader) ReadUTF() (string, error) {
	if _, err := io.ReadFull(b.r, b.buf[:2]); err != nil {
		return "", err
	}
	data := make([]byte, binary.BigEndian.Uint16(b.buf[:2]))
	if _, err := io.ReadFull(b.r, data); err != nil {
		return "", err
	}
	return string(data), nil
}

type binaryWriter struct {
	w   *bufio.Writer
	buf [8]byte
}

func newBinaryWriter(w io.Writer) *binaryWriter {
	return &binaryWriter{w: bufio.NewWriter(w)}
}

func (b *binaryWriter) WriteInt(v int) error {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return errors.NewValueError("modelio.WriteInt", "value does not fit in 32 bits")
	}
	binary.BigEndian.PutUint32(b.buf[:4], uint32(int32(v)))
	_, err := b.w.Write(b.buf[:4])
	return err
}

func (b *binaryWriter) WriteDouble(v float64) error {
	binary.BigEndian.PutUint64(b.buf[:8], math.Float64bits(v))
	_, err := b.w.Write(b.buf[:8])
	return err
}

func (b *binaryWriter) WriteUTF(s string) error {
	if len(s) > maxUTFLength {
		return errors.NewValueError("modelio.WriteUTF", "string longer than 65535 bytes")
	}
	binary.BigEndian.PutUint16(b.buf[:2], uint16(len(s)))
	if _, err := b.w.Write(b.buf[:2]); err != nil {
		return err
	}
	_, err := b.w.WriteString(s)
	return err
}

func (b *binaryWriter) Flush() error {
	return b.w.Flush()
}
