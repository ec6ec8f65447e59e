package event

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/YuminosukeSato/maxent/pkg/errors"
	"github.com/YuminosukeSato/maxent/pkg/log"
)

// Stream is a finite, forward-only source of events.
//
// Read returns io.EOF once the stream is exhausted. Reset rewinds to the
// first event where the source can be re-read and returns
// errors.ErrResetNotSupported otherwise. Close releases the underlying
// source; the stream must not be used afterwards.
type Stream interface {
	Read() (*Event, error)
	Reset() error
	Close() error
}

// ReadAll drains s from its current position.
func ReadAll(s Stream) ([]*Event, error) {
	var events []*Event
	for {
		ev, err := s.Read()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

// SliceStream streams events held in memory. It can be reset.
type SliceStream struct {
	events []*Event
	pos    int
}

// NewSliceStream creates a stream over events.
func NewSliceStream(events ...*Event) *SliceStream {
	return &SliceStream{events: events}
}

func (s *SliceStream) Read() (*Event, error) {
	if s.pos >= len(s.events) {
		return nil, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

func (s *SliceStream) Reset() error {
	s.pos = 0
	return nil
}

func (s *SliceStream) Close() error {
	return nil
}

// Option configures text event streams.
type Option func(*lineReader)

// WithRealValues enables "name=value" weight parsing (see ParseLine).
func WithRealValues() Option {
	return func(l *lineReader) {
		l.realValues = true
	}
}

type lineReader struct {
	br         *bufio.Reader
	line       int
	realValues bool
	done       bool
}

func newLineReader(r io.Reader, opts []Option) *lineReader {
	l := &lineReader{}
	for _, opt := range opts {
		opt(l)
	}
	l.reset(r)
	return l
}

func (l *lineReader) reset(r io.Reader) {
	l.br = bufio.NewReader(r)
	l.line = 0
	l.done = false
}

func (l *lineReader) next() (*Event, error) {
	for !l.done {
		text, err := l.br.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return nil, errors.Wrapf(err, "read event line %d", l.line+1)
			}
			l.done = true
			if text == "" {
				break
			}
		}
		l.line++

		ev, err := ParseLine(strings.TrimRight(text, "\r\n"), l.line, l.realValues)
		if err != nil {
			return nil, err
		}
		if ev != nil {
			return ev, nil
		}
	}
	return nil, io.EOF
}

// ReaderStream parses events from a reader, one per line. It is single-pass
// and does not own the reader.
type ReaderStream struct {
	lr *lineReader
}

// NewReaderStream creates a single-pass stream over r.
func NewReaderStream(r io.Reader, opts ...Option) *ReaderStream {
	return &ReaderStream{lr: newLineReader(r, opts)}
}

func (s *ReaderStream) Read() (*Event, error) {
	return s.lr.next()
}

func (s *ReaderStream) Reset() error {
	return errors.ErrResetNotSupported
}

func (s *ReaderStream) Close() error {
	return nil
}

// FileStream parses events from a file, one per line. Files ending in ".gz"
// are decompressed. Reset reopens the file.
type FileStream struct {
	path   string
	file   *os.File
	gz     *gzip.Reader
	lr     *lineReader
	logger log.Logger
}

// OpenFile opens path as an event stream.
func OpenFile(path string, opts ...Option) (*FileStream, error) {
	s := &FileStream{
		path:   path,
		lr:     newLineReader(strings.NewReader(""), opts),
		logger: log.GetLoggerWithName("event.file").With(log.PathKey, path),
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	s.logger.Debug("Opened event file")
	return s, nil
}

func (s *FileStream) open() error {
	f, err := os.Open(s.path)
	if err != nil {
		return errors.Wrapf(err, "open event file %s", s.path)
	}
	var r io.Reader = f
	if strings.HasSuffix(s.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "open gzip event file %s", s.path)
		}
		s.gz = gz
		r = gz
	}
	s.file = f
	s.lr.reset(r)
	return nil
}

func (s *FileStream) Read() (*Event, error) {
	if s.file == nil {
		return nil, errors.Newf("event file %s is closed", s.path)
	}
	return s.lr.next()
}

// Reset reopens the file and starts over from its first line.
func (s *FileStream) Reset() error {
	if err := s.Close(); err != nil {
		return err
	}
	s.logger.Debug("Reopening event file")
	return s.open()
}

func (s *FileStream) Close() error {
	var err error
	if s.gz != nil {
		err = s.gz.Close()
		s.gz = nil
	}
	if s.file != nil {
		if cerr := s.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		s.file = nil
	}
	if err != nil {
		return errors.Wrapf(err, "close event file %s", s.path)
	}
	return nil
}
