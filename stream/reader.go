package stream

import (
	"errors"
	"fmt"
	"io"
)

// DefaultChunkSize is the read size Reader uses against its source.
const DefaultChunkSize = 32 << 10

// Reader pulls WireRecords from an io.Reader through a Framer.
type Reader struct {
	src    io.Reader
	framer *Framer
	buf    []byte
	queue  []WireRecord
	err    error
}

// NewReader wraps src. maxSize and chunkSize <= 0 select the defaults.
func NewReader(src io.Reader, maxSize, chunkSize int) *Reader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Reader{
		src:    src,
		framer: NewFramer(maxSize),
		buf:    make([]byte, chunkSize),
	}
}

// Next returns the next record. It returns io.EOF after the last record of a
// cleanly terminated stream, a framing error (see IsFramingError) when the
// stream is malformed or truncated, and an error wrapping ErrStreamAborted
// when the source fails. Records completed before any error are returned
// first.
func (r *Reader) Next() (WireRecord, error) {
	for len(r.queue) == 0 {
		if r.err != nil {
			return WireRecord{}, r.err
		}
		r.fill()
	}
	rec := r.queue[0]
	r.queue[0] = WireRecord{}
	r.queue = r.queue[1:]
	return rec, nil
}

func (r *Reader) fill() {
	n, err := r.src.Read(r.buf)
	if n > 0 {
		recs, ferr := r.framer.Feed(r.buf[:n])
		r.queue = append(r.queue, recs...)
		if ferr != nil {
			r.err = ferr
			return
		}
	}

	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		if cerr := r.framer.Close(); cerr != nil {
			r.err = cerr
		} else {
			r.err = io.EOF
		}
	default:
		r.err = fmt.Errorf("%w: %w", ErrStreamAborted, err)
	}
}

// Records is the number of records framed so far.
func (r *Reader) Records() int { return r.framer.Records() }

// BytesRead is the number of bytes consumed from the source.
func (r *Reader) BytesRead() int64 { return r.framer.BytesFed() }
