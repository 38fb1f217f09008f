// Package ps provides the table storage layer for FlatDB.
//
// A Storage loads and saves whole tables. Every backend encodes a table as
// delimited text with a header record, using a Codec (CSV or TSV).
//
// # Backends
//
//	storage := ps.NewMemoryStorage(ps.CSV)           // map of encoded tables
//	storage, err := ps.NewFileStorage("data", ps.CSV) // one file per table
//	storage, err := ps.NewGitStorage("data", nil, ps.CSV)
//	storage, err := ps.NewPebbleStorage("data", ps.CSV)
//	storage := ps.NewS3Storage(client, "bucket", "prefix", ps.CSV)
//
// Open builds any of them from a data source name such as "git://data" or
// "s3://bucket/tables?region=eu-west-1".
//
// # Versioning
//
// GitStorage commits every save. The author is taken from the context:
//
//	ctx = ps.WithIdentity(ctx, core.Identity{Name: "alice", Email: "alice@example.com"})
//	err := storage.SaveTable(ctx, table)
//	txn := storage.LatestTransaction()
//
// # Errors
//
// Load and save failures are returned as *StorageError. A missing table
// wraps ErrTableNotFound.
package ps
