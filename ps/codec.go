package ps

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/nickyhof/FlatDB/core"
)

// Codec converts between tables and delimited text. The first record is the
// header; each following record becomes a row keyed by header name.
type Codec struct {
	Delimiter rune
}

var (
	CSV = Codec{Delimiter: ','}
	TSV = Codec{Delimiter: '\t'}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extension is the file suffix used for tables stored with this codec.
func (c Codec) Extension() string {
	if c.Delimiter == '\t' {
		return ".tsv"
	}
	return ".csv"
}

func (c Codec) delimiter() rune {
	if c.Delimiter == 0 {
		return ','
	}
	return c.Delimiter
}

// Decode parses data into a table called name. Records shorter than the
// header leave the trailing fields unset; longer records are rejected.
func (c Codec) Decode(name string, data []byte) (core.Table, error) {
	table := core.Table{Name: name}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.Comma = c.delimiter()
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return table, nil
	}
	if err != nil {
		return core.Table{}, fmt.Errorf("failed to read header: %w", err)
	}
	table.Columns = append(table.Columns, header...)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return core.Table{}, fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return core.Table{}, fmt.Errorf("record on line %d has %d fields, header has %d", line, len(record), len(header))
		}
		table.Rows = append(table.Rows, core.RowOf(header, record).From(name))
	}

	return table, nil
}

// Encode writes the header followed by one record per row. The header is the
// table's columns plus any column only a row carries; missing fields are
// written as empty strings.
func (c Codec) Encode(table core.Table) ([]byte, error) {
	header := make([]string, 0, len(table.Columns))
	seen := make(map[string]bool, len(table.Columns))
	add := func(column string) {
		if !seen[column] {
			seen[column] = true
			header = append(header, column)
		}
	}
	for _, column := range table.Columns {
		add(column)
	}
	for _, row := range table.Rows {
		for _, column := range row.Columns() {
			add(column)
		}
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = c.delimiter()

	if len(header) > 0 {
		if err := writer.Write(header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	record := make([]string, len(header))
	for _, row := range table.Rows {
		for i, column := range header {
			record[i] = row.Value(column)
		}
		// A lone empty field would be a blank line, which csv.Reader skips.
		if len(record) == 1 && record[0] == "" {
			writer.Flush()
			buf.WriteString("\"\"\n")
			continue
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
