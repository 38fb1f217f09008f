package db

import (
	"testing"

	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/sql"
)

func TestEvaluateCondition(t *testing.T) {
	row := core.RowOf([]string{"name", "age", "score", "note"}, []string{"Alice", "30", "9.5", ""})

	tests := []struct {
		field    string
		operator sql.WhereOperator
		value    string
		want     bool
	}{
		{"name", sql.EqualsOperator, "Alice", true},
		{"name", sql.EqualsOperator, "alice", false},
		{"name", sql.NotEqualsOperator, "Bob", true},
		{"age", sql.EqualsOperator, "30.00", true},
		{"age", sql.GreaterThanOperator, "4", true},
		{"age", sql.LessThanOperator, "100", true},
		{"age", sql.GreaterThanOrEqualOperator, "30", true},
		{"age", sql.LessThanOrEqualOperator, "29.9", false},
		{"score", sql.LessThanOperator, "10", true},
		{"name", sql.LessThanOperator, "Bob", true},
		{"name", sql.GreaterThanOperator, "10", true},
		{"note", sql.EqualsOperator, "", true},
		{"note", sql.NotEqualsOperator, "x", true},
		{"missing", sql.EqualsOperator, "", false},
		{"missing", sql.NotEqualsOperator, "x", false},
		{"missing", sql.LikeOperator, "%", false},
		{"name", sql.LikeOperator, "Al%", true},
		{"name", sql.LikeOperator, "A_ice", true},
		{"name", sql.LikeOperator, "%ICE", false},
	}

	for _, tt := range tests {
		cond := sql.WhereCondition{Field: tt.field, Operator: tt.operator, Value: tt.value}
		if got := EvaluateCondition(row, cond); got != tt.want {
			t.Errorf("%s %s %q = %v, want %v", tt.field, tt.operator, tt.value, got, tt.want)
		}
	}
}

func TestMatchesWhere(t *testing.T) {
	row := core.RowOf([]string{"a", "b", "c"}, []string{"1", "2", "3"})

	tests := []struct {
		where string
		want  bool
	}{
		{"a = 1", true},
		{"a = 1 AND b = 2", true},
		{"a = 1 AND b = 3", false},
		{"a = 9 OR b = 2", true},
		{"a = 9 OR b = 9", false},
		{"a = 9 AND b = 2 OR c = 3", true},
		{"a = 1 OR b = 9 AND c = 9", true},
		{"a = 9 OR b = 2 AND c = 9", false},
	}

	for _, tt := range tests {
		where, err := sql.ParseWhere(tt.where)
		if err != nil {
			t.Fatalf("Failed to parse %q: %v", tt.where, err)
		}
		if got := MatchesWhere(row, where); got != tt.want {
			t.Errorf("%q = %v, want %v", tt.where, got, tt.want)
		}
	}

	if !MatchesWhere(row, sql.WhereClause{}) {
		t.Error("Empty WHERE should match every row")
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2", "10", -1},
		{"10", "2", 1},
		{"1e2", "100", 0},
		{"-3", "2", -1},
		{"abc", "abd", -1},
		{"10", "9a", -1},
		{"", "0", -1},
		{"Inf", "1", 1},
		{"NaN", "NaN", 0},
	}

	for _, tt := range tests {
		if got := compareValues(tt.a, tt.b); got != tt.want {
			t.Errorf("compareValues(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatchLike(t *testing.T) {
	tests := []struct {
		value, pattern string
		want           bool
	}{
		{"hello", "hello", true},
		{"hello", "h%", true},
		{"hello", "%o", true},
		{"hello", "%ell%", true},
		{"hello", "%", true},
		{"", "%", true},
		{"", "", true},
		{"", "_", false},
		{"hello", "h_llo", true},
		{"hello", "h__lo", true},
		{"hello", "h_lo", false},
		{"hello", "H%", false},
		{"hello", "%%l%%", true},
		{"hello", "hell", false},
		{"héllo", "h_llo", true},
		{"a%b", "a%b", true},
		{"mississippi", "%iss%ppi", true},
		{"mississippi", "m%s_s%i", true},
		{"mississippi", "%x%", false},
	}

	for _, tt := range tests {
		if got := matchLike(tt.value, tt.pattern); got != tt.want {
			t.Errorf("matchLike(%q, %q) = %v, want %v", tt.value, tt.pattern, got, tt.want)
		}
	}
}
