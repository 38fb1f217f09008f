// Package op provides table and catalog operations for FlatDB.
//
// The op package sits between the SQL engine (db/) and the storage layer
// (ps/). A TableOp loads a whole table, lets the engine read or change its
// rows in memory, and writes it back in one save.
//
// # TableOp
//
//	tableOp, err := op.GetTable(ctx, "users", storage)
//
//	// Read operations
//	count := tableOp.Count()
//	for i, row := range tableOp.Scan() {
//	    // process all rows
//	}
//	for _, row := range tableOp.ScanWithFilter(func(row core.Row) bool {
//	    return row.Value("city") == "Paris"
//	}) {
//	    // process filtered rows
//	}
//
//	// Write operations
//	tableOp.Insert(row)
//	removed := tableOp.DeleteWhere(match)
//	err = tableOp.Save(ctx)
//
// # CatalogOp
//
// CatalogOp wraps storage-wide operations:
//
//	catalog := op.GetCatalog(storage)
//	tables, err := catalog.TableNames(ctx)
//	rows, err := catalog.Import(ctx, "users", file, ps.CSV)
//	history, err := catalog.History(10)
//
// # Architecture
//
// The layering is:
//
//	SQL Parser (sql/)
//	     ↓
//	SQL Engine (db/)
//	     ↓
//	Operations (op/)     ← This package
//	     ↓
//	Storage (ps/)
package op
