package stream

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// PrefixSize is the width of the little-endian length prefix.
	PrefixSize = 4

	// DefaultMaxRecordSize bounds a single record body.
	DefaultMaxRecordSize = 256 << 20

	initialBodyCap = 64 << 10
)

// WireRecord is one framed record: its type name and the payload that
// follows the NUL terminator. Payload is owned by the record.
type WireRecord struct {
	Type    string
	Payload []byte
}

// Size is the encoded body length, excluding the prefix.
func (w WireRecord) Size() int {
	return len(w.Type) + 1 + len(w.Payload)
}

type framerState int

const (
	readingPrefix framerState = iota
	readingBody
)

// Framer splits a byte stream, delivered in chunks of any size, into
// WireRecords. Each record is a 4 byte little-endian signed length followed by
// that many bytes: a NUL terminated type name and the payload.
//
// A Framer is not safe for concurrent use; each stream owns one.
type Framer struct {
	maxSize int

	state  framerState
	prefix [PrefixSize]byte
	filled int
	size   int
	body   []byte

	records int
	bytes   int64
	err     error
}

// NewFramer creates a framer. maxSize <= 0 selects DefaultMaxRecordSize.
func NewFramer(maxSize int) *Framer {
	if maxSize <= 0 {
		maxSize = DefaultMaxRecordSize
	}
	return &Framer{maxSize: maxSize}
}

// Feed consumes chunk and returns the records it completed, in stream order.
// On a framing error Feed returns the records completed before the fault
// together with the error, and every later call fails.
func (f *Framer) Feed(chunk []byte) ([]WireRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bytes += int64(len(chunk))

	var out []WireRecord
	for len(chunk) > 0 {
		switch f.state {
		case readingPrefix:
			n := copy(f.prefix[f.filled:], chunk)
			f.filled += n
			chunk = chunk[n:]
			if f.filled < PrefixSize {
				continue
			}

			size := int32(binary.LittleEndian.Uint32(f.prefix[:]))
			if size <= 0 {
				return out, f.fail(fmt.Errorf("%w: %d", ErrInvalidLength, size))
			}
			if int(size) > f.maxSize {
				return out, f.fail(fmt.Errorf("%w: %d > %d", ErrRecordTooLarge, size, f.maxSize))
			}
			f.size = int(size)
			f.body = make([]byte, 0, min(f.size, initialBodyCap))
			f.filled = 0
			f.state = readingBody

		case readingBody:
			n := min(f.size-len(f.body), len(chunk))
			f.body = append(f.body, chunk[:n]...)
			chunk = chunk[n:]
			if len(f.body) < f.size {
				continue
			}

			rec, err := splitBody(f.body)
			if err != nil {
				return out, f.fail(err)
			}
			out = append(out, rec)
			f.records++
			f.body = nil
			f.size = 0
			f.state = readingPrefix
		}
	}
	return out, nil
}

// Close marks the end of the stream. It returns ErrTruncated when a record
// was only partly received.
func (f *Framer) Close() error {
	if f.err != nil {
		if f.err == ErrClosed {
			return nil
		}
		return f.err
	}
	defer func() { f.err = ErrClosed }()

	switch {
	case f.state == readingBody:
		return fmt.Errorf("%w: have %d of %d body bytes", ErrTruncated, len(f.body), f.size)
	case f.filled > 0:
		return fmt.Errorf("%w: have %d of %d prefix bytes", ErrTruncated, f.filled, PrefixSize)
	default:
		return nil
	}
}

// Pending is the number of bytes buffered for an incomplete record.
func (f *Framer) Pending() int {
	if f.state == readingBody {
		return PrefixSize + len(f.body)
	}
	return f.filled
}

// Records is the number of records completed so far.
func (f *Framer) Records() int { return f.records }

// BytesFed is the total number of bytes passed to Feed.
func (f *Framer) BytesFed() int64 { return f.bytes }

// Err returns the framing error that stopped the framer, if any.
func (f *Framer) Err() error {
	if f.err == ErrClosed {
		return nil
	}
	return f.err
}

func (f *Framer) fail(err error) error {
	f.err = err
	f.body = nil
	return err
}

func splitBody(body []byte) (WireRecord, error) {
	i := bytes.IndexByte(body, 0)
	if i <= 0 {
		return WireRecord{}, fmt.Errorf("%w: %d byte body", ErrMissingType, len(body))
	}
	return WireRecord{
		Type:    string(body[:i]),
		Payload: body[i+1:],
	}, nil
}
