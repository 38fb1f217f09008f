package db

import (
	"math"
	"strconv"
	"strings"

	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/sql"
)

// MatchesWhere reports whether row satisfies the clause. AND binds tighter
// than OR; an empty clause matches every row.
func MatchesWhere(row core.Row, where sql.WhereClause) bool {
	if where.IsEmpty() {
		return true
	}

	for _, conjunction := range where.Disjuncts() {
		matched := true
		for _, cond := range conjunction {
			if !EvaluateCondition(row, cond) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// EvaluateCondition evaluates a single comparison against row. A field the
// row does not have never matches, whatever the operator.
func EvaluateCondition(row core.Row, cond sql.WhereCondition) bool {
	value, exists := row.Get(cond.Field)
	if !exists {
		return false
	}

	switch cond.Operator {
	case sql.EqualsOperator:
		return compareValues(value, cond.Value) == 0
	case sql.NotEqualsOperator:
		return compareValues(value, cond.Value) != 0
	case sql.LessThanOperator:
		return compareValues(value, cond.Value) < 0
	case sql.GreaterThanOperator:
		return compareValues(value, cond.Value) > 0
	case sql.LessThanOrEqualOperator:
		return compareValues(value, cond.Value) <= 0
	case sql.GreaterThanOrEqualOperator:
		return compareValues(value, cond.Value) >= 0
	case sql.LikeOperator:
		return matchLike(value, cond.Value)
	default:
		return false
	}
}

// parseNumber accepts finite decimal literals only.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// compareValues compares numerically when both sides are numbers and by
// bytes otherwise.
func compareValues(a, b string) int {
	aNum, aOk := parseNumber(a)
	bNum, bOk := parseNumber(b)

	if aOk && bOk {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		}
		return 0
	}

	return strings.Compare(a, b)
}

// matchLike implements SQL LIKE: % matches any run of characters and _
// matches exactly one. Matching is case-sensitive.
func matchLike(value, pattern string) bool {
	v := []rune(value)
	p := []rune(pattern)

	// match[j] reports whether p[:i] matches v[:j] for the current i.
	match := make([]bool, len(v)+1)
	match[0] = true

	for i := 0; i < len(p); i++ {
		next := make([]bool, len(v)+1)
		switch p[i] {
		case '%':
			next[0] = match[0]
			for j := 1; j <= len(v); j++ {
				next[j] = match[j] || next[j-1]
			}
		case '_':
			for j := 1; j <= len(v); j++ {
				next[j] = match[j-1]
			}
		default:
			for j := 1; j <= len(v); j++ {
				next[j] = match[j-1] && v[j-1] == p[i]
			}
		}
		match = next
	}

	return match[len(v)]
}
