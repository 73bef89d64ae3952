// Package record decodes wire payloads into typed records using layouts from
// the schema package.
//
// A Record keeps its fields in layout order. Values are one of Int, Uint,
// Float, String, Time (GPS nanoseconds), Array or *Record; Map converts a
// record into plain Go values with the type name under "@rectype".
//
//	decoder := record.NewDecoder(registry).WithLogger(log)
//	rec := decoder.Decode(ctx, wire.Type, wire.Payload)
//	h, ok := rec.Float("h_mean")
//
// Decoding never fails as a whole. Numbers are big-endian unless the field
// carries the LE flag. Pointer fields are skipped, and so are fields that are
// misaligned, unsupported or do not fit in the payload. A nested field whose
// type cannot be resolved is skipped as well. A top-level type that cannot be
// resolved yields a record holding only its type name. Arrays of nested
// records stride by the element type's datasize, and nesting is bounded by
// DefaultMaxDepth.
package record
