package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/aalemi-dev/sliderule-go/record"
	"github.com/aalemi-dev/sliderule-go/table"
)

const (
	formatJSONL = "jsonl"
	formatCSV   = "csv"
)

func validateFormat(format string) error {
	switch format {
	case formatJSONL, formatCSV:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", format, formatJSONL, formatCSV)
	}
}

// writeRows prints rows as JSON lines or, through Arrow, as CSV.
func writeRows(w io.Writer, rows []*record.Record, format string) error {
	if format == formatCSV {
		return writeCSV(w, rows)
	}
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row.Map()); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(w io.Writer, rows []*record.Record) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := table.Build(memory.NewGoAllocator(), rows)
	if err != nil {
		return err
	}
	defer batch.Release()

	cw := csv.NewWriter(w, batch.Schema(), csv.WithHeader(true))
	if err := cw.Write(batch); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return cw.Flush()
}
