// Package stream splits a SlideRule response body into wire records.
//
// Every record on the wire is
//
//	[length uint32 LE][type name][0x00][payload]
//
// where length counts the type name, its terminator and the payload. Records
// follow each other with no padding until the body ends.
//
// Framer is a push decoder: Feed accepts chunks of any size, including chunks
// that end in the middle of a length prefix, and returns the records completed
// by that chunk. Close reports ErrTruncated when the body ended inside a
// record. Reader wraps an io.Reader in a pull loop:
//
//	r := stream.NewReader(resp.Body, 0, 64<<10)
//	for {
//	    rec, err := r.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    handle(rec.Type, rec.Payload)
//	}
//
// Framing faults (ErrInvalidLength, ErrRecordTooLarge, ErrMissingType,
// ErrTruncated) are final; IsFramingError tells them apart from a transport
// failure, which Reader wraps in ErrStreamAborted. AppendRecord and Encode
// write the same format.
package stream
