package core

import "strings"

// Row is an ordered mapping from field name to text value.
//
// Rows share their backing storage when copied by value. Use Clone before
// modifying a row that came from somewhere else.
type Row struct {
	columns []string
	values  map[string]string
	table   string
}

func NewRow() Row {
	return Row{values: make(map[string]string)}
}

// RowOf pairs columns with values positionally. Extra values are ignored and
// missing values leave the field unset.
func RowOf(columns []string, values []string) Row {
	row := Row{
		columns: make([]string, 0, len(columns)),
		values:  make(map[string]string, len(columns)),
	}
	for i, column := range columns {
		if i >= len(values) {
			break
		}
		row.Set(column, values[i])
	}
	return row
}

// From returns the row tagged with the table it was read from.
func (row Row) From(table string) Row {
	row.table = table
	return row
}

// Table returns the table the row was read from, if known.
func (row Row) Table() string {
	return row.table
}

// Set assigns a value, appending the column when it is new.
func (row *Row) Set(column, value string) {
	if row.values == nil {
		row.values = make(map[string]string)
	}
	if _, ok := row.values[column]; !ok {
		row.columns = append(row.columns, column)
	}
	row.values[column] = value
}

// Get looks up a field. Exact names win. An unqualified name falls back to
// the first "<table>.<name>" column and a qualified name falls back to its
// bare column name, unless the row was read from a different table.
func (row Row) Get(column string) (string, bool) {
	if value, ok := row.values[column]; ok {
		return value, true
	}

	if i := strings.LastIndexByte(column, '.'); i >= 0 {
		if row.table != "" && column[:i] != row.table {
			return "", false
		}
		value, ok := row.values[column[i+1:]]
		return value, ok
	}

	suffix := "." + column
	for _, name := range row.columns {
		if strings.HasSuffix(name, suffix) {
			return row.values[name], true
		}
	}

	return "", false
}

// Value returns the field value, or the empty string when it is missing.
func (row Row) Value(column string) string {
	value, _ := row.Get(column)
	return value
}

func (row Row) Has(column string) bool {
	_, ok := row.Get(column)
	return ok
}

func (row Row) Columns() []string {
	return row.columns
}

func (row Row) Len() int {
	return len(row.columns)
}

// Values returns the field values in column order.
func (row Row) Values() []string {
	values := make([]string, len(row.columns))
	for i, column := range row.columns {
		values[i] = row.values[column]
	}
	return values
}

func (row Row) Clone() Row {
	clone := Row{
		columns: make([]string, len(row.columns)),
		values:  make(map[string]string, len(row.values)),
		table:   row.table,
	}
	copy(clone.columns, row.columns)
	for k, v := range row.values {
		clone.values[k] = v
	}
	return clone
}

// Qualify returns a copy whose columns are prefixed with "<table>.".
// Columns that are already qualified are kept as they are.
func (row Row) Qualify(table string) Row {
	qualified := Row{
		columns: make([]string, 0, len(row.columns)),
		values:  make(map[string]string, len(row.values)),
		table:   table,
	}
	for _, column := range row.columns {
		name := column
		if !strings.Contains(column, ".") {
			name = table + "." + column
		}
		qualified.Set(name, row.values[column])
	}
	return qualified
}

// Merge combines two rows. Left columns come first; on a name clash the
// right value wins.
func Merge(left, right Row) Row {
	merged := Row{
		columns: make([]string, 0, len(left.columns)+len(right.columns)),
		values:  make(map[string]string, len(left.values)+len(right.values)),
	}
	for _, column := range left.columns {
		merged.Set(column, left.values[column])
	}
	for _, column := range right.columns {
		merged.Set(column, right.values[column])
	}
	return merged
}

// Equal reports whether both rows hold the same fields in the same order.
func (row Row) Equal(other Row) bool {
	if len(row.columns) != len(other.columns) {
		return false
	}
	for i, column := range row.columns {
		if other.columns[i] != column || other.values[column] != row.values[column] {
			return false
		}
	}
	return true
}
