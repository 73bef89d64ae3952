package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DataSizeKey is the meta key carrying the fixed size of one record instance.
const DataSizeKey = "@datasize"

type fieldDefinition struct {
	Type     string    `json:"type"`
	Offset   int       `json:"offset"`
	Elements *int      `json:"elements"`
	Flags    flagsList `json:"flags"`
}

// flagsList accepts flags as a JSON array or as one delimited string such
// as "PTR|LE".
type flagsList []string

func (f *flagsList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}
	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*f = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ',' || r == ' '
	})
	return nil
}

// ParseDefinition decodes the body returned by the definition endpoint for
// record type name. Field order in the document is preserved.
func ParseDefinition(name string, data []byte) (*RecordSchema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, name, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: %s: definition is not an object", ErrInvalidSchema, name)
	}

	s := &RecordSchema{Name: name}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, name, err)
		}
		key, _ := tok.(string)

		switch {
		case key == DataSizeKey:
			if err := dec.Decode(&s.DataSize); err != nil {
				return nil, fmt.Errorf("%w: %s: bad %s: %v", ErrInvalidSchema, name, DataSizeKey, err)
			}
		case strings.HasPrefix(key, "@"):
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, name, err)
			}
		default:
			var def fieldDefinition
			if err := dec.Decode(&def); err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidSchema, name, key, err)
			}
			elements := 1
			if def.Elements != nil {
				elements = *def.Elements
			}
			s.Fields = append(s.Fields, FieldDescriptor{
				Name:     key,
				Type:     def.Type,
				Base:     ParseBaseType(def.Type),
				Offset:   def.Offset,
				Elements: elements,
				Flags:    []string(def.Flags),
			})
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, name, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
