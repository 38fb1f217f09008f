package db

import (
	"context"
	"fmt"
	"time"

	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/logger"
	"github.com/nickyhof/FlatDB/op"
	"github.com/nickyhof/FlatDB/ps"
	"github.com/nickyhof/FlatDB/sql"
)

// QueryContext carries per-engine settings applied to every statement.
type QueryContext struct {
	Identity core.Identity
}

// Engine parses and executes statements against a storage. It keeps no
// table state between statements; every statement reloads what it reads.
type Engine struct {
	Storage ps.Storage
	QueryContext
}

func NewEngine(storage ps.Storage, identity core.Identity) *Engine {
	return &Engine{
		Storage:      storage,
		QueryContext: QueryContext{Identity: identity},
	}
}

func (engine *Engine) Execute(query string) (Result, error) {
	return engine.ExecuteContext(context.Background(), query)
}

// ExecuteContext parses query and runs it. Parse errors are returned before
// any table is loaded.
func (engine *Engine) ExecuteContext(ctx context.Context, query string) (Result, error) {
	statement, err := sql.Parse(query)
	if err != nil {
		logger.DebugContext(ctx, "statement rejected", "query", query, "error", err)
		return nil, err
	}

	return engine.ExecuteStatement(ctx, statement)
}

func (engine *Engine) ExecuteStatement(ctx context.Context, statement sql.Statement) (Result, error) {
	ctx = ps.WithIdentity(ctx, engine.Identity)

	switch statement := statement.(type) {
	case sql.SelectStatement:
		return engine.ExecuteSelect(ctx, statement)
	case sql.InsertStatement:
		return engine.ExecuteInsert(ctx, statement)
	case sql.DeleteStatement:
		return engine.ExecuteDelete(ctx, statement)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedStatement, statement.Type())
	}
}

// ExecuteSelect runs join, filter, group, project, distinct, order and
// limit, in that order. It never writes to storage.
func (engine *Engine) ExecuteSelect(ctx context.Context, statement sql.SelectStatement) (QueryResult, error) {
	startTime := time.Now()

	tableOp, err := op.GetTable(ctx, statement.Table, engine.Storage)
	if err != nil {
		return QueryResult{}, err
	}
	rowsScanned := tableOp.Count()

	rows := tableOp.Rows()
	header := tableOp.Columns()

	if statement.Join != nil {
		joinTableOp, err := op.GetTable(ctx, statement.Join.Table, engine.Storage)
		if err != nil {
			return QueryResult{}, err
		}
		rowsScanned += joinTableOp.Count()

		rows = executeJoin(tableOp.Table, joinTableOp.Table, *statement.Join)
		header = append(qualifiedColumns(tableOp.Table), qualifiedColumns(joinTableOp.Table)...)
	}

	if !statement.Where.IsEmpty() {
		var filtered []core.Row
		for _, row := range rows {
			if MatchesWhere(row, statement.Where) {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	allColumns := unionColumns(header, rows)
	columns := outputColumns(statement.Fields, allColumns)

	var results []projected
	switch {
	case len(statement.GroupBy) > 0:
		for _, g := range groupRows(rows, statement.GroupBy) {
			results = append(results, project(statement.Fields, allColumns, g.first(), g.rows))
		}
	case statement.HasAggregateWithoutGroupBy:
		g := group{rows: rows}
		results = append(results, project(statement.Fields, allColumns, g.first(), g.rows))
	default:
		results = make([]projected, 0, len(rows))
		for _, row := range rows {
			results = append(results, project(statement.Fields, allColumns, row, []core.Row{row}))
		}
	}

	if statement.Distinct {
		results = applyDistinct(results)
	}

	if len(statement.OrderBy) > 0 {
		sortResults(results, columns, statement.OrderBy)
	}

	if statement.Limit != nil && *statement.Limit < len(results) {
		results = results[:*statement.Limit]
	}

	outputData := make([][]string, len(results))
	for i, result := range results {
		outputData[i] = result.values
	}

	elapsed := time.Since(startTime)
	logger.DebugContext(ctx, "select executed",
		"table", statement.Table,
		"rows", len(outputData),
		"scanned", rowsScanned,
		"duration", elapsed)

	return QueryResult{
		Transaction:      op.LatestTransaction(engine.Storage),
		Columns:          columns,
		Data:             outputData,
		RecordsRead:      len(outputData),
		ExecutionTimeSec: elapsed.Seconds(),
		ExecutionOps:     rowsScanned,
	}, nil
}

// ExecuteInsert appends one row and saves the table. Columns the table does
// not have yet are added to its header.
func (engine *Engine) ExecuteInsert(ctx context.Context, statement sql.InsertStatement) (CommitResult, error) {
	startTime := time.Now()

	if len(statement.Columns) != len(statement.Values) {
		return CommitResult{}, &EvaluationError{
			Table: statement.Table,
			Err:   fmt.Errorf("%w: %d columns, %d values", ErrArityMismatch, len(statement.Columns), len(statement.Values)),
		}
	}

	tableOp, err := op.GetTable(ctx, statement.Table, engine.Storage)
	if err != nil {
		return CommitResult{}, err
	}

	tableOp.Insert(core.RowOf(statement.Columns, statement.Values))

	if err := tableOp.Save(ctx); err != nil {
		return CommitResult{}, err
	}

	elapsed := time.Since(startTime)
	logger.DebugContext(ctx, "insert executed", "table", statement.Table, "duration", elapsed)

	return CommitResult{
		Transaction:      tableOp.Transaction(),
		RecordsWritten:   1,
		ExecutionTimeSec: elapsed.Seconds(),
		ExecutionOps:     1, // 1 record inserted
	}, nil
}

// ExecuteDelete removes the rows matching the WHERE clause, or every row
// when there is none, and saves the table.
func (engine *Engine) ExecuteDelete(ctx context.Context, statement sql.DeleteStatement) (CommitResult, error) {
	startTime := time.Now()

	tableOp, err := op.GetTable(ctx, statement.Table, engine.Storage)
	if err != nil {
		return CommitResult{}, err
	}
	scanned := tableOp.Count()

	var removed int
	if statement.Where.IsEmpty() {
		removed = tableOp.Truncate()
	} else {
		removed = tableOp.DeleteWhere(func(row core.Row) bool {
			return MatchesWhere(row, statement.Where)
		})
	}

	if err := tableOp.Save(ctx); err != nil {
		return CommitResult{}, err
	}

	elapsed := time.Since(startTime)
	logger.DebugContext(ctx, "delete executed",
		"table", statement.Table,
		"deleted", removed,
		"scanned", scanned,
		"duration", elapsed)

	return CommitResult{
		Transaction:      tableOp.Transaction(),
		RecordsDeleted:   removed,
		ExecutionTimeSec: elapsed.Seconds(),
		ExecutionOps:     scanned,
	}, nil
}
