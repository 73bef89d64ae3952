package table

import "github.com/aalemi-dev/sliderule-go/record"

// Flatten explodes the nested record array held by field into one row per
// element. Each row carries the parent's scalar fields followed by the
// element's own fields; on a name clash the element wins. Records without
// the field are dropped.
func Flatten(recs []*record.Record, field string) []*record.Record {
	var rows []*record.Record
	for _, parent := range recs {
		children := parent.Records(field)
		if len(children) == 0 {
			continue
		}

		var inherited []record.Field
		for _, f := range parent.Fields {
			switch f.Value.(type) {
			case record.Array, *record.Record:
				continue
			}
			inherited = append(inherited, f)
		}

		for _, child := range children {
			row := &record.Record{
				Type:   child.Type,
				Fields: make([]record.Field, 0, len(inherited)+len(child.Fields)),
			}
			row.Fields = append(row.Fields, inherited...)
			for _, f := range child.Fields {
				row.Set(f.Name, f.Value)
			}
			rows = append(rows, row)
		}
	}
	return rows
}
