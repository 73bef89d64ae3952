package stream

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// AppendRecord appends the framed encoding of rec to dst.
func AppendRecord(dst []byte, rec WireRecord) ([]byte, error) {
	if rec.Type == "" || strings.IndexByte(rec.Type, 0) >= 0 {
		return dst, fmt.Errorf("%w: %q", ErrMissingType, rec.Type)
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(rec.Size()))
	dst = append(dst, rec.Type...)
	dst = append(dst, 0)
	dst = append(dst, rec.Payload...)
	return dst, nil
}

// Encode writes the framed encoding of rec to w.
func Encode(w io.Writer, rec WireRecord) error {
	buf, err := AppendRecord(make([]byte, 0, PrefixSize+rec.Size()), rec)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}
