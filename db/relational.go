package db

import (
	"sort"
	"strconv"
	"strings"

	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/sql"
)

// executeJoin combines base and joined rows. Output columns are qualified
// with their table name; a side without a match contributes no fields.
func executeJoin(baseTable, joinTable core.Table, join sql.JoinClause) []core.Row {
	leftCol, rightCol := orientJoin(baseTable.Name, joinTable.Name, join)

	leftRows := qualifyAll(baseTable)
	rightRows := qualifyAll(joinTable)

	var results []core.Row

	switch join.Type {
	case sql.RightJoin:
		for _, rightRow := range rightRows {
			matched := false
			for _, leftRow := range leftRows {
				if matchJoinCondition(leftRow, rightRow, leftCol, rightCol) {
					results = append(results, core.Merge(leftRow, rightRow))
					matched = true
				}
			}
			if !matched {
				results = append(results, rightRow)
			}
		}

	case sql.LeftJoin:
		for _, leftRow := range leftRows {
			matched := false
			for _, rightRow := range rightRows {
				if matchJoinCondition(leftRow, rightRow, leftCol, rightCol) {
					results = append(results, core.Merge(leftRow, rightRow))
					matched = true
				}
			}
			if !matched {
				results = append(results, leftRow)
			}
		}

	default:
		for _, leftRow := range leftRows {
			for _, rightRow := range rightRows {
				if matchJoinCondition(leftRow, rightRow, leftCol, rightCol) {
					results = append(results, core.Merge(leftRow, rightRow))
				}
			}
		}
	}

	return results
}

// orientJoin returns the ON columns as (base side, joined side). An ON
// written the other way round, "joined.col = base.col", is swapped.
func orientJoin(baseName, joinName string, join sql.JoinClause) (string, string) {
	if qualifier(join.LeftCol) == joinName && qualifier(join.RightCol) == baseName && baseName != joinName {
		return join.RightCol, join.LeftCol
	}
	return join.LeftCol, join.RightCol
}

func qualifier(column string) string {
	if i := strings.LastIndexByte(column, '.'); i >= 0 {
		return column[:i]
	}
	return ""
}

func qualifyAll(table core.Table) []core.Row {
	rows := make([]core.Row, len(table.Rows))
	for i, row := range table.Rows {
		rows[i] = row.Qualify(table.Name)
	}
	return rows
}

// matchJoinCondition compares the ON columns as raw text. Rows missing
// either column do not match.
func matchJoinCondition(leftRow, rightRow core.Row, leftCol, rightCol string) bool {
	leftVal, ok := leftRow.Get(leftCol)
	if !ok {
		return false
	}
	rightVal, ok := rightRow.Get(rightCol)
	if !ok {
		return false
	}
	return leftVal == rightVal
}

func qualifiedColumns(table core.Table) []string {
	columns := make([]string, 0, len(table.Columns))
	for _, column := range table.Columns {
		if strings.Contains(column, ".") {
			columns = append(columns, column)
		} else {
			columns = append(columns, table.Name+"."+column)
		}
	}
	return columns
}

// unionColumns lists header columns followed by any column only a row
// carries, in first-seen order.
func unionColumns(header []string, rows []core.Row) []string {
	seen := make(map[string]bool, len(header))
	columns := make([]string, 0, len(header))
	for _, column := range header {
		if !seen[column] {
			seen[column] = true
			columns = append(columns, column)
		}
	}
	for _, row := range rows {
		for _, column := range row.Columns() {
			if !seen[column] {
				seen[column] = true
				columns = append(columns, column)
			}
		}
	}
	return columns
}

// group is one partition of the filtered rows.
type group struct {
	rows []core.Row
}

func (g group) first() core.Row {
	if len(g.rows) == 0 {
		return core.NewRow()
	}
	return g.rows[0]
}

// groupRows partitions rows by their values for fields, in first-seen
// order of the value tuples.
func groupRows(rows []core.Row, fields []string) []group {
	index := make(map[string]int)
	var groups []group

	for _, row := range rows {
		keyParts := make([]string, len(fields))
		for i, field := range fields {
			value, ok := row.Get(field)
			if ok {
				keyParts[i] = "v" + value
			}
		}
		key := strings.Join(keyParts, "\x00")

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{})
		}
		groups[i].rows = append(groups[i].rows, row)
	}

	return groups
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// calculateAggregate computes one aggregate over rows. COUNT(col) counts
// non-empty values; SUM and AVG skip values that are not numbers; MIN and
// MAX skip empty values.
func calculateAggregate(rows []core.Row, field sql.Field) string {
	switch field.Aggregate {
	case sql.CountAggregate:
		if field.Column == "*" {
			return strconv.Itoa(len(rows))
		}
		count := 0
		for _, row := range rows {
			if value, ok := row.Get(field.Column); ok && value != "" {
				count++
			}
		}
		return strconv.Itoa(count)

	case sql.SumAggregate, sql.AvgAggregate:
		sum := 0.0
		count := 0
		for _, row := range rows {
			if val, ok := parseNumber(row.Value(field.Column)); ok {
				sum += val
				count++
			}
		}
		if field.Aggregate == sql.SumAggregate {
			return formatNumber(sum)
		}
		if count == 0 {
			return ""
		}
		return formatNumber(sum / float64(count))

	case sql.MinAggregate, sql.MaxAggregate:
		best := ""
		found := false
		for _, row := range rows {
			value, ok := row.Get(field.Column)
			if !ok || value == "" {
				continue
			}
			if !found {
				best, found = value, true
				continue
			}
			cmp := compareValues(value, best)
			if (field.Aggregate == sql.MinAggregate && cmp < 0) || (field.Aggregate == sql.MaxAggregate && cmp > 0) {
				best = value
			}
		}
		return best

	default:
		return ""
	}
}

// projected is one output row with the row it was computed from, which
// ORDER BY falls back to for columns that were not selected.
type projected struct {
	source core.Row
	values []string
}

// outputColumns expands the select list into result column labels.
func outputColumns(fields []sql.Field, allColumns []string) []string {
	var columns []string
	for _, field := range fields {
		if field.IsWildcard() {
			columns = append(columns, allColumns...)
			continue
		}
		columns = append(columns, field.Text)
	}
	return columns
}

// project renders one output row. Aggregates are computed over rows; other
// fields take their value from source, and missing fields project as "".
func project(fields []sql.Field, allColumns []string, source core.Row, rows []core.Row) projected {
	var values []string
	for _, field := range fields {
		switch {
		case field.IsWildcard():
			for _, column := range allColumns {
				values = append(values, source.Value(column))
			}
		case field.IsAggregate():
			values = append(values, calculateAggregate(rows, field))
		default:
			values = append(values, source.Value(field.Column))
		}
	}
	return projected{source: source, values: values}
}

// applyDistinct keeps the first occurrence of every distinct value tuple.
func applyDistinct(results []projected) []projected {
	seen := make(map[string]bool)
	var distinct []projected

	for _, result := range results {
		key := strings.Join(result.values, "\x00")
		if !seen[key] {
			seen[key] = true
			distinct = append(distinct, result)
		}
	}

	return distinct
}

func normalizeLabel(label string) string {
	return strings.ToUpper(strings.Join(strings.Fields(label), ""))
}

// sortKey resolves an ORDER BY column against the output columns first and
// the source row second.
func sortKey(columns []string, column string) func(projected) string {
	for i, label := range columns {
		if label == column {
			return func(p projected) string { return p.values[i] }
		}
	}
	normalized := normalizeLabel(column)
	for i, label := range columns {
		if normalizeLabel(label) == normalized {
			return func(p projected) string { return p.values[i] }
		}
	}
	return func(p projected) string { return p.source.Value(column) }
}

// sortResults stable-sorts by the ORDER BY clauses in sequence.
func sortResults(results []projected, columns []string, orderBy []sql.OrderByClause) {
	keys := make([]func(projected) string, len(orderBy))
	for i, clause := range orderBy {
		keys[i] = sortKey(columns, clause.Column)
	}

	sort.SliceStable(results, func(i, j int) bool {
		for k, clause := range orderBy {
			cmp := compareValues(keys[k](results[i]), keys[k](results[j]))
			if cmp != 0 {
				if clause.Descending {
					return cmp > 0
				}
				return cmp < 0
			}
		}
		return false
	})
}
