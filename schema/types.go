package schema

import (
	"fmt"
	"strings"
)

// BaseType is the wire representation of a field.
type BaseType int

const (
	// Unsupported covers types the client cannot materialise (BITFIELD, USER,
	// INVALID). Fields of these types are omitted from decoded records.
	Unsupported BaseType = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	// Time8 is an unsigned 64-bit count of GPS nanoseconds.
	Time8
	// String is a fixed-width, NUL padded ASCII string.
	String
	// Record marks a field whose type is another record type.
	Record
)

var baseTypeNames = map[string]BaseType{
	"INT8":    Int8,
	"INT16":   Int16,
	"INT32":   Int32,
	"INT64":   Int64,
	"UINT8":   Uint8,
	"UINT16":  Uint16,
	"UINT32":  Uint32,
	"UINT64":  Uint64,
	"FLOAT":   Float32,
	"FLOAT32": Float32,
	"DOUBLE":  Float64,
	"FLOAT64": Float64,
	"TIME8":   Time8,
	"STRING":  String,

	"BITFIELD": Unsupported,
	"USER":     Unsupported,
	"INVALID":  Unsupported,
}

// ParseBaseType maps a definition type name onto a BaseType. Names that are
// not primitive are record type names.
func ParseBaseType(name string) BaseType {
	if bt, ok := baseTypeNames[strings.ToUpper(name)]; ok {
		return bt
	}
	if name == "" {
		return Unsupported
	}
	return Record
}

// Size is the width in bytes of one element, 0 for Record and Unsupported.
func (b BaseType) Size() int {
	switch b {
	case Int8, Uint8, String:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Time8:
		return 8
	default:
		return 0
	}
}

// Primitive reports whether b is a fixed-width scalar or string type.
func (b BaseType) Primitive() bool {
	return b.Size() > 0
}

func (b BaseType) String() string {
	switch b {
	case Int8:
		return "INT8"
	case Int16:
		return "INT16"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Uint8:
		return "UINT8"
	case Uint16:
		return "UINT16"
	case Uint32:
		return "UINT32"
	case Uint64:
		return "UINT64"
	case Float32:
		return "FLOAT"
	case Float64:
		return "DOUBLE"
	case Time8:
		return "TIME8"
	case String:
		return "STRING"
	case Record:
		return "RECORD"
	default:
		return "UNSUPPORTED"
	}
}

// Field flags understood by the decoder.
const (
	FlagPointer      = "PTR"
	FlagLittleEndian = "LE"
)

// FieldDescriptor describes one field of a record type.
type FieldDescriptor struct {
	Name string
	// Type is the type name exactly as the service reported it; for nested
	// fields this is the element record type name.
	Type string
	Base BaseType
	// Offset is measured in bits from the start of the record payload.
	Offset int
	// Elements is 1 for a scalar, >1 for a fixed array, <=0 for an array that
	// runs to the end of the payload.
	Elements int
	Flags    []string
}

// HasFlag reports whether flag is set (case insensitive).
func (f FieldDescriptor) HasFlag(flag string) bool {
	for _, fl := range f.Flags {
		if strings.EqualFold(fl, flag) {
			return true
		}
	}
	return false
}

// Pointer reports whether the field is a server-side pointer that cannot be
// materialised by a client.
func (f FieldDescriptor) Pointer() bool { return f.HasFlag(FlagPointer) }

// LittleEndian reports whether the field is little-endian. Fields default to
// big-endian.
func (f FieldDescriptor) LittleEndian() bool { return f.HasFlag(FlagLittleEndian) }

// ByteOffset is the field offset in bytes and whether it is byte aligned.
func (f FieldDescriptor) ByteOffset() (int, bool) {
	return f.Offset / 8, f.Offset%8 == 0
}

// Variable reports whether the field consumes the rest of the payload.
func (f FieldDescriptor) Variable() bool { return f.Elements <= 0 }

// RecordSchema is the layout of one record type.
type RecordSchema struct {
	Name string
	// Fields are kept in the order the service listed them.
	Fields []FieldDescriptor
	// DataSize is the fixed size in bytes of one instance, used to stride
	// through arrays of this record type.
	DataSize int
}

// Field returns the descriptor named name.
func (s *RecordSchema) Field(name string) (FieldDescriptor, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Validate checks the structural invariants every cached schema must hold.
func (s *RecordSchema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing record type name", ErrInvalidSchema)
	}
	if s.DataSize < 0 {
		return fmt.Errorf("%w: %s has negative datasize %d", ErrInvalidSchema, s.Name, s.DataSize)
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Offset < 0 {
			return fmt.Errorf("%w: %s.%s has negative offset %d", ErrInvalidSchema, s.Name, f.Name, f.Offset)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: %s lists field %q twice", ErrInvalidSchema, s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
