// Package sql provides SQL lexing and parsing for FlatDB.
//
// The lexer turns a command into positioned tokens. The parser then splits a
// SELECT into its clauses by peeling them off the end in a fixed order:
// LIMIT, ORDER BY, GROUP BY, WHERE and finally JOIN, leaving the
// "SELECT <fields> FROM <table>" core. Because the split works on tokens,
// keywords inside quoted literals never act as clause boundaries.
//
// # Lexer Usage
//
//	lexer := sql.NewLexer("SELECT * FROM users")
//	for {
//	    token := lexer.NextToken()
//	    if token.Type == sql.EOF {
//	        break
//	    }
//	    fmt.Printf("Token: %s at %d\n", token, token.Pos)
//	}
//
// # Parser Usage
//
//	statement, err := sql.Parse("SELECT name FROM users WHERE id = '2'")
//	if err != nil {
//	    var parseErr *sql.ParseError
//	    if errors.As(err, &parseErr) {
//	        log.Fatal(parseErr)
//	    }
//	}
//
// # Supported Statements
//
//   - SelectStatement: SELECT [DISTINCT] <fields> FROM <table>
//     [[INNER|LEFT|RIGHT] JOIN <table> ON <a> = <b>] [WHERE ...]
//     [GROUP BY ...] [ORDER BY ... [ASC|DESC]] [LIMIT n]
//   - InsertStatement: INSERT INTO <table> (<columns>) VALUES (<values>)
//   - DeleteStatement: DELETE FROM <table> [WHERE ...]
//
// WHERE conditions compare a field with a literal using =, !=, <>, <, >,
// <=, >= or LIKE. Conditions are joined with AND and OR, where AND binds
// tighter.
package sql
