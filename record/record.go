package record

// TypeKey is the key under which Map stores the record type name.
const TypeKey = "@rectype"

// Field is one named value of a decoded record.
type Field struct {
	Name  string
	Value Value
}

// Record is a decoded record: its type name plus the fields that could be
// decoded, in schema order. A record whose layout could not be resolved has
// a type and no fields.
type Record struct {
	Type   string
	Fields []Field
}

// Get returns the value of the named field.
func (r *Record) Get(name string) (Value, bool) {
	if r == nil {
		return nil, false
	}
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the named field or appends it.
func (r *Record) Set(name string, v Value) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = v
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: v})
}

// Len is the number of decoded fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Fields)
}

// Names lists field names in schema order.
func (r *Record) Names() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}

// Int returns a numeric field as int64.
func (r *Record) Int(name string) (int64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	return AsInt(v)
}

// Float returns a numeric field as float64.
func (r *Record) Float(name string) (float64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	return AsFloat(v)
}

// Text returns a string field.
func (r *Record) Text(name string) (string, bool) {
	v, ok := r.Get(name)
	if !ok {
		return "", false
	}
	return AsString(v)
}

// Records returns the nested records held by field name, whether it is a
// single nested record or an array of them.
func (r *Record) Records(name string) []*Record {
	v, ok := r.Get(name)
	if !ok {
		return nil
	}
	switch x := v.(type) {
	case *Record:
		return []*Record{x}
	case Array:
		out := make([]*Record, 0, len(x))
		for _, e := range x {
			if nested, ok := e.(*Record); ok {
				out = append(out, nested)
			}
		}
		return out
	default:
		return nil
	}
}

// Interface implements Value.
func (r *Record) Interface() interface{} { return r.Map() }

// Map converts the record to a plain map, nested records included, with the
// type name under TypeKey.
func (r *Record) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.Fields)+1)
	m[TypeKey] = r.Type
	for _, f := range r.Fields {
		m[f.Name] = f.Value.Interface()
	}
	return m
}

// Clone copies the field list so Set on the copy leaves r intact.
func (r *Record) Clone() *Record {
	fields := make([]Field, len(r.Fields))
	copy(fields, r.Fields)
	return &Record{Type: r.Type, Fields: fields}
}
