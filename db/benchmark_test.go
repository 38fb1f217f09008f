package db

import (
	"context"
	"strconv"
	"testing"

	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/ps"
	"github.com/nickyhof/FlatDB/sql"
)

// benchmarkUsers builds a users table with n rows spread over ten cities.
func benchmarkUsers(n int) core.Table {
	table := core.Table{Name: "users", Columns: []string{"id", "name", "age", "city"}}
	for i := 1; i <= n; i++ {
		table.Append(core.RowOf(table.Columns, []string{
			strconv.Itoa(i),
			"User" + strconv.Itoa(i),
			strconv.Itoa(20 + i%50),
			"City" + strconv.Itoa(i%10),
		}))
	}
	return table
}

func benchmarkOrders(n int) core.Table {
	table := core.Table{Name: "orders", Columns: []string{"id", "uid", "total"}}
	for i := 1; i <= n; i++ {
		table.Append(core.RowOf(table.Columns, []string{
			strconv.Itoa(i),
			strconv.Itoa(1 + i%1000),
			strconv.Itoa(i % 97),
		}))
	}
	return table
}

func setupBenchmarkEngine(b *testing.B, storage ps.Storage) *Engine {
	b.Helper()
	ctx := context.Background()
	if err := storage.SaveTable(ctx, benchmarkUsers(1000)); err != nil {
		b.Fatalf("Failed to save users: %v", err)
	}
	if err := storage.SaveTable(ctx, benchmarkOrders(2000)); err != nil {
		b.Fatalf("Failed to save orders: %v", err)
	}
	return NewEngine(storage, core.Identity{Name: "benchmark", Email: "bench@test.com"})
}

func BenchmarkSQLParsing(b *testing.B) {
	queries := []struct {
		name  string
		query string
	}{
		{"SimpleSelect", "SELECT * FROM users"},
		{"SelectWithWhere", "SELECT * FROM users WHERE age > 30"},
		{"SelectWithOrderBy", "SELECT * FROM users ORDER BY age DESC"},
		{"SelectWithLike", "SELECT name FROM users WHERE name LIKE 'User1%'"},
		{"SelectComplex", "SELECT * FROM users WHERE age > 25 AND city = 'City5' ORDER BY name ASC LIMIT 10"},
		{"SelectJoin", "SELECT users.name, orders.total FROM users JOIN orders ON users.id = orders.uid"},
		{"SelectGroupBy", "SELECT city, COUNT(*), AVG(age) FROM users GROUP BY city"},
		{"Insert", "INSERT INTO users (id, name, age, city) VALUES ('1', 'Test', '25', 'NYC')"},
		{"Delete", "DELETE FROM users WHERE id = '1'"},
	}

	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := sql.NewParser(q.query).Parse(); err != nil {
					b.Fatalf("Parse error: %v", err)
				}
			}
		})
	}
}

func BenchmarkSelect(b *testing.B) {
	queries := []struct {
		name  string
		query string
	}{
		{"All", "SELECT * FROM users"},
		{"Where", "SELECT * FROM users WHERE age > 40"},
		{"WhereOr", "SELECT id FROM users WHERE city = 'City1' OR city = 'City2'"},
		{"Like", "SELECT id FROM users WHERE name LIKE '%99%'"},
		{"OrderBy", "SELECT * FROM users ORDER BY age DESC, name"},
		{"Limit", "SELECT * FROM users LIMIT 10"},
		{"Distinct", "SELECT DISTINCT city FROM users"},
		{"Count", "SELECT COUNT(*) FROM users"},
		{"GroupBy", "SELECT city, COUNT(*), SUM(age), MIN(age), MAX(age) FROM users GROUP BY city"},
		{"Join", "SELECT users.name, orders.total FROM users JOIN orders ON users.id = orders.uid"},
		{"LeftJoin", "SELECT users.name, orders.id FROM users LEFT JOIN orders ON users.id = orders.uid"},
	}

	engine := setupBenchmarkEngine(b, ps.NewMemoryStorage(ps.CSV))

	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := engine.Execute(q.query); err != nil {
					b.Fatalf("Execute error: %v", err)
				}
			}
		})
	}
}

func BenchmarkInsert(b *testing.B) {
	backends := []struct {
		name string
		open func(b *testing.B) ps.Storage
	}{
		{"Memory", func(b *testing.B) ps.Storage { return ps.NewMemoryStorage(ps.CSV) }},
		{"File", func(b *testing.B) ps.Storage {
			storage, err := ps.NewFileStorage(b.TempDir(), ps.CSV)
			if err != nil {
				b.Fatalf("Failed to open file storage: %v", err)
			}
			return storage
		}},
		{"Pebble", func(b *testing.B) ps.Storage {
			storage, err := ps.NewMemoryPebbleStorage(ps.CSV)
			if err != nil {
				b.Fatalf("Failed to open pebble storage: %v", err)
			}
			b.Cleanup(func() { storage.Close() })
			return storage
		}},
	}

	for _, backend := range backends {
		b.Run(backend.name, func(b *testing.B) {
			storage := backend.open(b)
			if err := storage.SaveTable(context.Background(), benchmarkUsers(100)); err != nil {
				b.Fatalf("Failed to save users: %v", err)
			}
			engine := NewEngine(storage, core.Identity{Name: "benchmark", Email: "bench@test.com"})

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := engine.Execute("INSERT INTO users (id, name, age, city) VALUES ('" +
					strconv.Itoa(1000+i) + "', 'Bench', '42', 'City1')")
				if err != nil {
					b.Fatalf("Execute error: %v", err)
				}
			}
		})
	}
}

func BenchmarkDelete(b *testing.B) {
	storage := ps.NewMemoryStorage(ps.CSV)
	engine := NewEngine(storage, core.Identity{Name: "benchmark", Email: "bench@test.com"})
	users := benchmarkUsers(1000)

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		if err := storage.SaveTable(context.Background(), users); err != nil {
			b.Fatalf("Failed to save users: %v", err)
		}
		b.StartTimer()

		if _, err := engine.Execute("DELETE FROM users WHERE age >= 40"); err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

func BenchmarkCodec(b *testing.B) {
	users := benchmarkUsers(1000)
	data, err := ps.CSV.Encode(users)
	if err != nil {
		b.Fatalf("Encode error: %v", err)
	}

	b.Run("Encode", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := ps.CSV.Encode(users); err != nil {
				b.Fatalf("Encode error: %v", err)
			}
		}
	})

	b.Run("Decode", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := ps.CSV.Decode("users", data); err != nil {
				b.Fatalf("Decode error: %v", err)
			}
		}
	})
}
