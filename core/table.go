package core

// Table is a named, ordered sequence of rows together with its header.
// Columns lists every field name in file order; rows may leave some of
// them unset.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"-"`
}

func (table *Table) HasColumn(name string) bool {
	for _, column := range table.Columns {
		if column == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the header. It reports false when the column
// already exists.
func (table *Table) AddColumn(name string) bool {
	if table.HasColumn(name) {
		return false
	}
	table.Columns = append(table.Columns, name)
	return true
}

// Append adds a row, extending the header with any column the row
// introduces.
func (table *Table) Append(row Row) {
	for _, column := range row.Columns() {
		table.AddColumn(column)
	}
	table.Rows = append(table.Rows, row)
}

func (table *Table) Len() int {
	return len(table.Rows)
}
