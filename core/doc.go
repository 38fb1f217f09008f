// Package core provides the data types shared by every FlatDB layer.
//
// All values are untyped text. A Row keeps its fields in the order they were
// first set, so the order of a loaded row follows the column order of the
// table file it came from.
//
// # Identity
//
// Identity identifies who performed a write. Versioned storage backends
// record it as the author of the transaction:
//
//	identity := core.Identity{
//	    Name:  "John Doe",
//	    Email: "john@example.com",
//	}
//
// # Rows
//
//	row := core.NewRow()
//	row.Set("id", "1")
//	row.Set("name", "Ann")
//
//	name, ok := row.Get("name") // "Ann", true
//
// Rows produced by a join carry table-qualified column names ("users.id").
// Get resolves an unqualified name against them, and a qualified name
// against a row that was never qualified.
//
// # Tables
//
//	table := core.Table{
//	    Name:    "users",
//	    Columns: []string{"id", "name"},
//	}
//	table.Append(row)
package core
