// Package FlatDB provides a SQL engine over tables stored as delimited text.
//
// Every table is a CSV (or TSV) document with a header record. Statements
// load the tables they touch, evaluate in memory and write whole tables
// back. There is no schema, no type system and no index: values are text,
// compared as numbers when both sides parse as numbers.
//
// # Quick Start
//
//	storage := ps.NewMemoryStorage(ps.CSV)
//	storage.SaveTable(ctx, core.Table{Name: "users", Columns: []string{"id", "name"}})
//
//	flat := FlatDB.Open(storage)
//	engine := flat.Engine(core.Identity{Name: "App", Email: "app@example.com"})
//
//	engine.Execute("INSERT INTO users (id, name) VALUES ('1', 'Alice')")
//
//	result, _ := engine.Execute("SELECT * FROM users")
//	result.Display(os.Stdout)
//
// Storage can also be opened from a data source name:
//
//	flat, err := FlatDB.OpenDSN(ctx, "git://data")
//
// # Supported SQL
//
// FlatDB supports:
//   - SELECT with DISTINCT, WHERE, JOIN, GROUP BY, ORDER BY and LIMIT
//   - WHERE conditions using =, !=, <, <=, >, >= and LIKE joined by AND/OR
//   - INNER, LEFT and RIGHT joins on one equality
//   - Aggregate functions: COUNT, SUM, AVG, MIN, MAX
//   - INSERT INTO ... VALUES with one row
//   - DELETE FROM with an optional WHERE
package FlatDB
