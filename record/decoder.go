package record

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/aalemi-dev/sliderule-go/schema"
)

// DefaultMaxDepth bounds record nesting.
const DefaultMaxDepth = 32

var (
	errMisaligned  = errors.New("field is not byte aligned")
	errOutOfRange  = errors.New("field extends past end of payload")
	errUnsupported = errors.New("unsupported field type")
	errNoDataSize  = errors.New("nested record type has no datasize")
	errTooDeep     = errors.New("record nesting too deep")
)

// Schemas looks up record layouts; *schema.Registry satisfies it.
type Schemas interface {
	Get(ctx context.Context, name string) (*schema.RecordSchema, error)
}

// Logger is the subset of the logger package the decoder needs.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Decoder turns record payloads into Records using layouts from Schemas.
// Decoding never fails as a whole: a field that cannot be decoded is left
// out and a record whose layout cannot be resolved keeps only its type.
// A Decoder holds no per-stream state and may be shared.
type Decoder struct {
	schemas  Schemas
	logger   Logger
	maxDepth int
}

// NewDecoder creates a decoder over schemas.
func NewDecoder(schemas Schemas) *Decoder {
	return &Decoder{schemas: schemas, maxDepth: DefaultMaxDepth}
}

// WithLogger attaches a logger and returns the decoder for chaining.
func (d *Decoder) WithLogger(logger Logger) *Decoder {
	d.logger = logger
	return d
}

// WithMaxDepth overrides the nesting bound.
func (d *Decoder) WithMaxDepth(depth int) *Decoder {
	if depth > 0 {
		d.maxDepth = depth
	}
	return d
}

// Decode decodes payload as a record of type typeName.
func (d *Decoder) Decode(ctx context.Context, typeName string, payload []byte) *Record {
	return d.decode(ctx, typeName, payload, 0)
}

func (d *Decoder) decode(ctx context.Context, typeName string, buf []byte, depth int) *Record {
	rec := &Record{Type: typeName}
	if depth > d.maxDepth {
		d.warn(ctx, "record not decoded", errTooDeep, typeName, "")
		return rec
	}

	s, err := d.schemas.Get(ctx, typeName)
	if err != nil {
		d.warn(ctx, "record layout unavailable", err, typeName, "")
		return rec
	}

	rec.Fields = make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Pointer() {
			continue
		}
		v, err := d.decodeField(ctx, f, buf, depth)
		if err != nil {
			d.debug(ctx, "field omitted", err, typeName, f.Name)
			continue
		}
		rec.Fields = append(rec.Fields, Field{Name: f.Name, Value: v})
	}
	return rec
}

func (d *Decoder) decodeField(ctx context.Context, f schema.FieldDescriptor, buf []byte, depth int) (Value, error) {
	off, aligned := f.ByteOffset()
	if !aligned {
		return nil, fmt.Errorf("%w: bit offset %d", errMisaligned, f.Offset)
	}
	if off > len(buf) {
		return nil, fmt.Errorf("%w: offset %d, payload %d", errOutOfRange, off, len(buf))
	}

	switch {
	case f.Base == schema.Record:
		return d.decodeNested(ctx, f, buf, off, depth)
	case f.Base == schema.String:
		return decodeString(f, buf, off)
	case f.Base.Primitive():
		return decodeNumeric(f, buf, off)
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupported, f.Type)
	}
}

func decodeString(f schema.FieldDescriptor, buf []byte, off int) (Value, error) {
	n := f.Elements
	if f.Variable() {
		n = len(buf) - off
	}
	if n > len(buf)-off {
		return nil, fmt.Errorf("%w: %d bytes at %d, payload %d", errOutOfRange, n, off, len(buf))
	}
	raw := buf[off : off+n]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return String(raw), nil
}

func decodeNumeric(f schema.FieldDescriptor, buf []byte, off int) (Value, error) {
	width := f.Base.Size()
	count := f.Elements
	if f.Variable() {
		count = (len(buf) - off) / width
	}
	if count > (len(buf)-off)/width {
		return nil, fmt.Errorf("%w: %d x %s at %d, payload %d", errOutOfRange, count, f.Base, off, len(buf))
	}

	var order binary.ByteOrder = binary.BigEndian
	if f.LittleEndian() {
		order = binary.LittleEndian
	}

	if f.Elements == 1 {
		return readScalar(f.Base, order, buf[off:off+width]), nil
	}
	arr := make(Array, count)
	for i := range arr {
		start := off + i*width
		arr[i] = readScalar(f.Base, order, buf[start:start+width])
	}
	return arr, nil
}

func readScalar(base schema.BaseType, order binary.ByteOrder, b []byte) Value {
	switch base {
	case schema.Int8:
		return Int(int8(b[0]))
	case schema.Int16:
		return Int(int16(order.Uint16(b)))
	case schema.Int32:
		return Int(int32(order.Uint32(b)))
	case schema.Int64:
		return Int(int64(order.Uint64(b)))
	case schema.Uint8:
		return Uint(b[0])
	case schema.Uint16:
		return Uint(order.Uint16(b))
	case schema.Uint32:
		return Uint(order.Uint32(b))
	case schema.Uint64:
		return Uint(order.Uint64(b))
	case schema.Float32:
		return Float(math.Float32frombits(order.Uint32(b)))
	case schema.Float64:
		return Float(math.Float64frombits(order.Uint64(b)))
	case schema.Time8:
		return Time(order.Uint64(b))
	default:
		return nil
	}
}

func (d *Decoder) decodeNested(ctx context.Context, f schema.FieldDescriptor, buf []byte, off, depth int) (Value, error) {
	nested, err := d.schemas.Get(ctx, f.Type)
	if err != nil {
		return nil, err
	}
	if f.Elements == 1 {
		return d.decode(ctx, f.Type, buf[off:], depth+1), nil
	}

	size := nested.DataSize
	if size <= 0 {
		return nil, fmt.Errorf("%w: %s", errNoDataSize, f.Type)
	}

	count := f.Elements
	if f.Variable() {
		count = (len(buf) - off) / size
	}
	if count > (len(buf)-off)/size {
		return nil, fmt.Errorf("%w: %d x %s at %d, payload %d", errOutOfRange, count, f.Type, off, len(buf))
	}

	arr := make(Array, count)
	for i := range arr {
		start := off + i*size
		arr[i] = d.decode(ctx, f.Type, buf[start:start+size], depth+1)
	}
	return arr, nil
}

func (d *Decoder) warn(ctx context.Context, msg string, err error, typeName, field string) {
	if d.logger == nil {
		return
	}
	d.logger.WarnWithContext(ctx, msg, err, logFields(typeName, field))
}

func (d *Decoder) debug(ctx context.Context, msg string, err error, typeName, field string) {
	if d.logger == nil {
		return
	}
	d.logger.DebugWithContext(ctx, msg, err, logFields(typeName, field))
}

func logFields(typeName, field string) map[string]interface{} {
	fields := map[string]interface{}{"rectype": typeName}
	if field != "" {
		fields["field"] = field
	}
	return fields
}
