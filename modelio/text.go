package modelio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/maxent/pkg/errors"
)

type textReader struct {
	r *bufio.Reader
}

func newTextReader(r io.Reader) *textReader {
	return &textReader{r: bufio.NewReader(r)}
}

func (t *textReader) line() (string, error) {
	s, err := t.r.ReadString('\n')
	if err == io.EOF && s != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (t *textReader) ReadInt() (int, error) {
	s, err := t.line()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

func (t *textReader) ReadDouble() (float64, error) {
	s, err := t.line()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func (t *textReader) ReadUTF() (string, error) {
	return t.line()
}

type textWriter struct {
	w *bufio.Writer
}

func newTextWriter(w io.Writer) *textWriter {
	return &textWriter{w: bufio.NewWriter(w)}
}

func (t *textWriter) writeLine(s string) error {
	if _, err := t.w.WriteString(s); err != nil {
		return err
	}
	return t.w.WriteByte('\n')
}

func (t *textWriter) WriteInt(v int) error {
	return t.writeLine(strconv.Itoa(v))
}

// WriteDouble uses the shortest representation that parses back to v.
func (t *textWriter) WriteDouble(v float64) error {
	return t.writeLine(strconv.FormatFloat(v, 'g', -1, 64))
}

func (t *textWriter) WriteUTF(s string) error {
	if strings.ContainsAny(s, "\r\n") {
		return errors.NewValueError("modelio.WriteUTF", "text models cannot store line breaks: "+strconv.Quote(s))
	}
	return t.writeLine(s)
}

func (t *textWriter) Flush() error {
	return t.w.Flush()
}
