// Package db executes FlatDB statements.
//
// The Engine parses a statement with the sql package, loads the tables it
// names through a ps.Storage, and evaluates it in memory:
//
//	engine := db.NewEngine(storage, identity)
//	result, err := engine.Execute("SELECT name FROM users WHERE id = '2'")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result.Display(os.Stdout)
//
// # Evaluation order
//
// SELECT applies JOIN, WHERE, GROUP BY (or the implicit single group of an
// aggregate without GROUP BY), projection, DISTINCT, ORDER BY and LIMIT in
// that order. WHERE conditions joined by AND bind tighter than OR.
// Comparisons are numeric when both sides are numbers and lexical
// otherwise; a missing field never matches.
//
// # Result Types
//
//   - QueryResult: returned by SELECT, with columns and rows
//   - CommitResult: returned by INSERT and DELETE, with affected row counts
//     and the storage transaction when the backend is versioned
//
// Parse errors (*sql.ParseError) and storage errors (*ps.StorageError) are
// returned unchanged. An INSERT whose column and value counts differ fails
// with *EvaluationError.
package db
