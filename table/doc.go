// Package table turns decoded records into rows and Apache Arrow records.
package table
