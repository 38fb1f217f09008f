package sql

import (
	"regexp"
	"strconv"
	"strings"
)

type StatementType int

const (
	SelectStatementType StatementType = iota
	InsertStatementType
	DeleteStatementType
)

func (statementType StatementType) String() string {
	switch statementType {
	case SelectStatementType:
		return "SELECT"
	case InsertStatementType:
		return "INSERT"
	case DeleteStatementType:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

type Statement interface {
	Type() StatementType
}

type Aggregate int

const (
	NoAggregate Aggregate = iota
	CountAggregate
	SumAggregate
	AvgAggregate
	MinAggregate
	MaxAggregate
)

func (aggregate Aggregate) String() string {
	switch aggregate {
	case CountAggregate:
		return "COUNT"
	case SumAggregate:
		return "SUM"
	case AvgAggregate:
		return "AVG"
	case MinAggregate:
		return "MIN"
	case MaxAggregate:
		return "MAX"
	default:
		return ""
	}
}

// Field is one entry of a SELECT list.
type Field struct {
	Text      string // original spelling, used as the result column label
	Column    string // referenced column; "*" for the wildcard and COUNT(*)
	Aggregate Aggregate
}

func (field Field) IsWildcard() bool {
	return field.Aggregate == NoAggregate && field.Column == "*"
}

func (field Field) IsAggregate() bool {
	return field.Aggregate != NoAggregate
}

type SelectStatement struct {
	Table    string
	Fields   []Field
	Distinct bool
	Where    WhereClause
	Join     *JoinClause
	GroupBy  []string
	OrderBy  []OrderByClause
	Limit    *int

	// HasAggregateWithoutGroupBy is set when the statement text calls an
	// aggregate function and has no GROUP BY clause. The executor then
	// treats the whole input as a single group.
	HasAggregateWithoutGroupBy bool
}

type JoinType string

const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
)

type JoinClause struct {
	Type     JoinType
	Table    string
	LeftCol  string // column of the FROM table side
	RightCol string // column of the joined table side
}

type OrderByClause struct {
	Column     string
	Descending bool
}

type InsertStatement struct {
	Table   string
	Columns []string
	Values  []string
}

type DeleteStatement struct {
	Table string
	Where WhereClause
}

// WhereClause holds conditions in source order. LogicalOps[i] joins
// Conditions[i] and Conditions[i+1].
type WhereClause struct {
	Conditions []WhereCondition
	LogicalOps []LogicalOperator
}

type LogicalOperator int

const (
	LogicalAnd LogicalOperator = iota
	LogicalOr
)

func (op LogicalOperator) String() string {
	if op == LogicalOr {
		return "OR"
	}
	return "AND"
}

type WhereCondition struct {
	Field    string
	Operator WhereOperator
	Value    string
}

type WhereOperator int

const (
	EqualsOperator WhereOperator = iota
	NotEqualsOperator
	LessThanOperator
	GreaterThanOperator
	LessThanOrEqualOperator
	GreaterThanOrEqualOperator
	LikeOperator
)

func (op WhereOperator) String() string {
	switch op {
	case EqualsOperator:
		return "="
	case NotEqualsOperator:
		return "!="
	case LessThanOperator:
		return "<"
	case GreaterThanOperator:
		return ">"
	case LessThanOrEqualOperator:
		return "<="
	case GreaterThanOrEqualOperator:
		return ">="
	case LikeOperator:
		return "LIKE"
	default:
		return "?"
	}
}

func (where WhereClause) IsEmpty() bool {
	return len(where.Conditions) == 0
}

// Disjuncts groups the conditions into runs joined by AND, split at every
// OR. A row matches the clause when every condition of at least one run
// holds.
func (where WhereClause) Disjuncts() [][]WhereCondition {
	if len(where.Conditions) == 0 {
		return nil
	}

	groups := [][]WhereCondition{{where.Conditions[0]}}
	for i := 1; i < len(where.Conditions); i++ {
		if i-1 < len(where.LogicalOps) && where.LogicalOps[i-1] == LogicalOr {
			groups = append(groups, []WhereCondition{where.Conditions[i]})
			continue
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], where.Conditions[i])
	}
	return groups
}

func (s SelectStatement) Type() StatementType {
	return SelectStatementType
}

func (s InsertStatement) Type() StatementType {
	return InsertStatementType
}

func (s DeleteStatement) Type() StatementType {
	return DeleteStatementType
}

var aggregatePattern = regexp.MustCompile(`(?i)\b(COUNT|AVG|SUM|MIN|MAX)\s*\(\s*(\*|[\w.]+)\s*\)`)

type Parser struct {
	sql    string
	tokens []Token // EOF excluded
}

func NewParser(sql string) *Parser {
	sql = strings.TrimSpace(sql)
	sql = strings.TrimSpace(strings.TrimSuffix(sql, ";"))
	tokens := Tokenize(sql)
	return &Parser{sql: sql, tokens: tokens[:len(tokens)-1]}
}

// Parse parses a single statement beginning with SELECT, INSERT INTO or
// DELETE FROM. Anything else fails with ErrMalformedQuery.
func Parse(sql string) (Statement, error) {
	return NewParser(sql).Parse()
}

func (parser *Parser) Parse() (Statement, error) {
	tokens := parser.tokens

	switch {
	case len(tokens) > 0 && tokens[0].Type == Select:
		statement, err := parser.parseSelect()
		if err != nil {
			return nil, err
		}
		return statement, nil
	case len(tokens) > 1 && tokens[0].Type == Insert && tokens[1].Type == Into:
		statement, err := parser.parseInsert()
		if err != nil {
			return nil, err
		}
		return statement, nil
	case len(tokens) > 1 && tokens[0].Type == Delete && tokens[1].Type == From:
		statement, err := parser.parseDelete()
		if err != nil {
			return nil, err
		}
		return statement, nil
	default:
		return nil, newParseError(parser.sql, ErrMalformedQuery, "statement must start with SELECT, INSERT INTO or DELETE FROM")
	}
}

func ParseSelect(sql string) (SelectStatement, error) {
	return NewParser(sql).parseSelect()
}

func ParseInsert(sql string) (InsertStatement, error) {
	return NewParser(sql).parseInsert()
}

func ParseDelete(sql string) (DeleteStatement, error) {
	return NewParser(sql).parseDelete()
}

// ParseWhere parses a condition list such as "a = 1 AND b LIKE 'x%'".
// A leading WHERE keyword is accepted.
func ParseWhere(text string) (WhereClause, error) {
	parser := NewParser(text)
	tokens := parser.tokens
	anchor := Token{Type: Where}
	if len(tokens) > 0 && tokens[0].Type == Where {
		anchor = tokens[0]
		tokens = tokens[1:]
	}
	return parser.parseWhere(tokens, anchor)
}

// ParseJoin looks for a JOIN clause anywhere in text. It returns nil without
// an error when there is none.
func ParseJoin(text string) (*JoinClause, error) {
	parser := NewParser(text)
	join, _, err := parser.parseJoin(parser.tokens)
	return join, err
}

// parseSelect peels clauses off the end of the statement in a fixed order:
// LIMIT, ORDER BY, GROUP BY, WHERE, JOIN. Each clause starts at the first
// occurrence of its keyword and only the part to its left is parsed further.
func (parser *Parser) parseSelect() (SelectStatement, error) {
	var statement SelectStatement
	tokens := parser.tokens

	if i := indexOf(tokens, Limit); i >= 0 {
		limit, err := parser.parseLimit(tokens[i+1:], tokens[i])
		if err != nil {
			return SelectStatement{}, err
		}
		statement.Limit = &limit
		tokens = tokens[:i]
	}

	if i := indexOfPair(tokens, Order, By); i >= 0 {
		orderBy, err := parser.parseOrderBy(tokens[i+2:], tokens[i+1])
		if err != nil {
			return SelectStatement{}, err
		}
		statement.OrderBy = orderBy
		tokens = tokens[:i]
	}

	if i := indexOfPair(tokens, Group, By); i >= 0 {
		groupBy, err := parser.parseGroupBy(tokens[i+2:], tokens[i+1])
		if err != nil {
			return SelectStatement{}, err
		}
		statement.GroupBy = groupBy
		tokens = tokens[:i]
	}

	if i := indexOf(tokens, Where); i >= 0 {
		where, err := parser.parseWhere(tokens[i+1:], tokens[i])
		if err != nil {
			return SelectStatement{}, err
		}
		statement.Where = where
		tokens = tokens[:i]
	}

	join, at, err := parser.parseJoin(tokens)
	if err != nil {
		return SelectStatement{}, err
	}
	if join != nil {
		statement.Join = join
		tokens = tokens[:at]
	}

	if err := parser.parseSelectCore(tokens, &statement); err != nil {
		return SelectStatement{}, err
	}

	statement.HasAggregateWithoutGroupBy = len(statement.GroupBy) == 0 && aggregatePattern.MatchString(parser.sql)

	return statement, nil
}

func (parser *Parser) parseLimit(tokens []Token, anchor Token) (int, error) {
	if len(tokens) == 0 {
		return 0, newParseError(parser.sql, ErrInvalidLimit, "expected row count after LIMIT at position %d", anchor.Pos)
	}
	if tokens[0].Type != Int || strings.HasPrefix(tokens[0].Value, "-") {
		return 0, newParseError(parser.sql, ErrInvalidLimit, "expected non-negative integer, got %s", describe(tokens[0]))
	}
	if len(tokens) > 1 {
		return 0, newParseError(parser.sql, ErrInvalidLimit, "unexpected %s", describe(tokens[1]))
	}

	limit, err := strconv.Atoi(tokens[0].Value)
	if err != nil {
		return 0, newParseError(parser.sql, ErrInvalidLimit, "%v", err)
	}
	return limit, nil
}

func (parser *Parser) parseOrderBy(tokens []Token, anchor Token) ([]OrderByClause, error) {
	if len(tokens) == 0 {
		return nil, newParseError(parser.sql, ErrInvalidOrderBy, "expected column after ORDER BY at position %d", anchor.Pos)
	}

	var orderBy []OrderByClause
	for _, item := range splitTop(tokens) {
		if len(item) == 0 {
			return nil, newParseError(parser.sql, ErrInvalidOrderBy, "empty sort key after ORDER BY at position %d", anchor.Pos)
		}

		clause := OrderByClause{}
		switch item[len(item)-1].Type {
		case Desc:
			clause.Descending = true
			item = item[:len(item)-1]
		case Asc:
			item = item[:len(item)-1]
		}

		field, err := parser.parseField(item, ErrInvalidOrderBy, anchor)
		if err != nil {
			return nil, err
		}
		if field.IsWildcard() {
			return nil, newParseError(parser.sql, ErrInvalidOrderBy, "cannot sort by *")
		}
		clause.Column = field.Text
		orderBy = append(orderBy, clause)
	}

	return orderBy, nil
}

func (parser *Parser) parseGroupBy(tokens []Token, anchor Token) ([]string, error) {
	if len(tokens) == 0 {
		return nil, newParseError(parser.sql, ErrInvalidGroupBy, "expected column after GROUP BY at position %d", anchor.Pos)
	}

	var groupBy []string
	for _, item := range splitTop(tokens) {
		if len(item) == 0 {
			return nil, newParseError(parser.sql, ErrInvalidGroupBy, "empty column after GROUP BY at position %d", anchor.Pos)
		}
		if len(item) != 1 || !isColumnToken(item[0]) {
			return nil, newParseError(parser.sql, ErrInvalidGroupBy, "expected column name, got %s", describe(item[0]))
		}
		groupBy = append(groupBy, item[0].Value)
	}

	return groupBy, nil
}

// parseWhere splits the clause on AND/OR, keeping the connective between
// every pair of conditions.
func (parser *Parser) parseWhere(tokens []Token, anchor Token) (WhereClause, error) {
	var where WhereClause

	if len(tokens) == 0 {
		return where, newParseError(parser.sql, ErrInvalidWhere, "expected condition after WHERE at position %d", anchor.Pos)
	}

	start := 0
	for i := 0; i <= len(tokens); i++ {
		if i < len(tokens) && tokens[i].Type != And && tokens[i].Type != Or {
			continue
		}

		fragment := tokens[start:i]
		if len(fragment) == 0 {
			at := anchor
			if i < len(tokens) {
				at = tokens[i]
			} else if i > 0 {
				at = tokens[i-1]
			}
			return WhereClause{}, newParseError(parser.sql, ErrInvalidWhere, "missing condition near position %d", at.Pos)
		}

		condition, err := parser.parseCondition(fragment)
		if err != nil {
			return WhereClause{}, err
		}
		where.Conditions = append(where.Conditions, condition)

		if i < len(tokens) {
			if tokens[i].Type == Or {
				where.LogicalOps = append(where.LogicalOps, LogicalOr)
			} else {
				where.LogicalOps = append(where.LogicalOps, LogicalAnd)
			}
		}
		start = i + 1
	}

	return where, nil
}

func (parser *Parser) parseCondition(tokens []Token) (WhereCondition, error) {
	if i := indexOf(tokens, Like); i >= 0 {
		value, ok := parser.conditionValue(tokens[min(i+1, len(tokens)):])
		if i != 1 || !isColumnToken(tokens[0]) || !ok {
			return WhereCondition{}, newParseError(parser.sql, ErrInvalidWhere, "expected <field> LIKE <pattern> near position %d", tokens[0].Pos)
		}
		return WhereCondition{Field: tokens[0].Value, Operator: LikeOperator, Value: value}, nil
	}

	if len(tokens) < 3 || !isColumnToken(tokens[0]) {
		return WhereCondition{}, newParseError(parser.sql, ErrInvalidWhere, "expected <field> <operator> <value> near position %d", tokens[0].Pos)
	}

	operator, ok := comparisonOperator(tokens[1])
	if !ok {
		return WhereCondition{}, newParseError(parser.sql, ErrInvalidWhere, "expected comparison operator, got %s", describe(tokens[1]))
	}

	value, ok := parser.conditionValue(tokens[2:])
	if !ok {
		return WhereCondition{}, newParseError(parser.sql, ErrInvalidWhere, "expected <field> <operator> <value> near position %d", tokens[0].Pos)
	}

	return WhereCondition{Field: tokens[0].Value, Operator: operator, Value: value}, nil
}

// conditionValue reads the right-hand side of a condition. A single literal
// is taken as lexed; an unquoted run such as 2020-01-01 is taken verbatim
// from the source text.
func (parser *Parser) conditionValue(tokens []Token) (string, bool) {
	switch {
	case len(tokens) == 0:
		return "", false
	case len(tokens) == 1 && isLiteral(tokens[0]):
		return tokens[0].Value, true
	}
	for _, token := range tokens {
		if token.Type == String || strings.HasPrefix(parser.text([]Token{token}), "'") {
			return "", false
		}
	}
	return strings.TrimSpace(parser.text(tokens)), true
}

// parseJoin finds "[INNER|LEFT|RIGHT] [OUTER] JOIN <table> ON <a> = <b>"
// and returns it with the index where the clause starts. A missing clause
// is not an error.
func (parser *Parser) parseJoin(tokens []Token) (*JoinClause, int, error) {
	j := indexOf(tokens, Join)
	if j < 0 {
		return nil, -1, nil
	}

	start := j
	outer := false
	if start > 0 && tokens[start-1].Type == Outer {
		outer = true
		start--
	}

	join := &JoinClause{Type: InnerJoin}
	if start > 0 {
		switch tokens[start-1].Type {
		case Inner:
			join.Type = InnerJoin
			start--
		case Left:
			join.Type = LeftJoin
			start--
		case Right:
			join.Type = RightJoin
			start--
		}
	}
	if outer && join.Type == InnerJoin {
		return nil, -1, newParseError(parser.sql, ErrInvalidJoin, "OUTER requires LEFT or RIGHT at position %d", tokens[j-1].Pos)
	}

	rest := tokens[j+1:]
	if len(rest) != 5 ||
		rest[0].Type != Identifier ||
		rest[1].Type != On ||
		!isColumnToken(rest[2]) ||
		rest[3].Type != Equals ||
		!isColumnToken(rest[4]) {
		return nil, -1, newParseError(parser.sql, ErrInvalidJoin, "expected JOIN <table> ON <column> = <column> at position %d", tokens[j].Pos)
	}

	join.Table = rest[0].Value
	join.LeftCol = rest[2].Value
	join.RightCol = rest[4].Value

	return join, start, nil
}

// parseSelectCore handles "SELECT [DISTINCT] <fields> FROM <table>".
func (parser *Parser) parseSelectCore(tokens []Token, statement *SelectStatement) error {
	if len(tokens) == 0 || tokens[0].Type != Select {
		return newParseError(parser.sql, ErrInvalidSelect, "expected SELECT")
	}

	from := indexOf(tokens, From)
	if from < 0 {
		return newParseError(parser.sql, ErrInvalidSelect, "expected FROM")
	}

	fieldTokens := make([]Token, 0, from)
	for _, token := range tokens[1:from] {
		if token.Type == Distinct {
			statement.Distinct = true
			continue
		}
		fieldTokens = append(fieldTokens, token)
	}
	if len(fieldTokens) == 0 {
		return newParseError(parser.sql, ErrInvalidSelect, "expected field list before FROM at position %d", tokens[from].Pos)
	}

	for _, item := range splitTop(fieldTokens) {
		field, err := parser.parseField(item, ErrInvalidSelect, tokens[0])
		if err != nil {
			return err
		}
		statement.Fields = append(statement.Fields, field)
	}

	tableTokens := tokens[from+1:]
	if len(tableTokens) == 0 || tableTokens[0].Type != Identifier {
		at := Token{Type: EOF}
		if len(tableTokens) > 0 {
			at = tableTokens[0]
		}
		return newParseError(parser.sql, ErrInvalidSelect, "expected table name, got %s", describe(at))
	}
	if len(tableTokens) > 1 {
		return newParseError(parser.sql, ErrInvalidSelect, "unexpected %s", describe(tableTokens[1]))
	}
	statement.Table = tableTokens[0].Value

	return nil
}

// parseField accepts "*", a column name, or an aggregate call such as
// COUNT(*) or SUM(price).
func (parser *Parser) parseField(tokens []Token, kind error, anchor Token) (Field, error) {
	if len(tokens) == 0 {
		return Field{}, newParseError(parser.sql, kind, "empty field near position %d", anchor.Pos)
	}

	if len(tokens) == 1 {
		switch {
		case tokens[0].Type == Wildcard:
			return Field{Text: "*", Column: "*"}, nil
		case isColumnToken(tokens[0]):
			return Field{Text: tokens[0].Value, Column: tokens[0].Value}, nil
		}
	}

	if len(tokens) == 4 && tokens[1].Type == ParenOpen && tokens[3].Type == ParenClose {
		aggregate := aggregateOf(tokens[0])
		argument := tokens[2]
		if aggregate != NoAggregate && (argument.Type == Wildcard || isColumnToken(argument)) {
			if argument.Type == Wildcard && aggregate != CountAggregate {
				return Field{}, newParseError(parser.sql, kind, "%s does not accept *", aggregate)
			}
			return Field{
				Text:      parser.text(tokens),
				Column:    argument.Value,
				Aggregate: aggregate,
			}, nil
		}
	}

	return Field{}, newParseError(parser.sql, kind, "unexpected %s", describe(tokens[0]))
}

func (parser *Parser) parseInsert() (InsertStatement, error) {
	var statement InsertStatement
	tokens := parser.tokens

	if len(tokens) < 2 || tokens[0].Type != Insert || tokens[1].Type != Into {
		return statement, newParseError(parser.sql, ErrInvalidInsert, "expected INSERT INTO")
	}

	pos := 2
	if pos >= len(tokens) || tokens[pos].Type != Identifier {
		return statement, newParseError(parser.sql, ErrInvalidInsert, "expected table name, got %s", describe(tokenAt(tokens, pos)))
	}
	statement.Table = tokens[pos].Value
	pos++

	columns, pos, err := parser.parseList(tokens, pos, isColumnToken, "column name")
	if err != nil {
		return InsertStatement{}, err
	}
	statement.Columns = columns

	if pos >= len(tokens) || tokens[pos].Type != Values {
		return InsertStatement{}, newParseError(parser.sql, ErrInvalidInsert, "expected VALUES, got %s", describe(tokenAt(tokens, pos)))
	}
	pos++

	values, pos, err := parser.parseList(tokens, pos, isLiteral, "value")
	if err != nil {
		return InsertStatement{}, err
	}
	statement.Values = values

	if pos < len(tokens) {
		return InsertStatement{}, newParseError(parser.sql, ErrInvalidInsert, "unexpected %s", describe(tokens[pos]))
	}

	return statement, nil
}

// parseList reads "(<item>{, <item>})" starting at pos and returns the
// position after the closing parenthesis.
func (parser *Parser) parseList(tokens []Token, pos int, accept func(Token) bool, what string) ([]string, int, error) {
	if pos >= len(tokens) || tokens[pos].Type != ParenOpen {
		return nil, pos, newParseError(parser.sql, ErrInvalidInsert, "expected '(', got %s", describe(tokenAt(tokens, pos)))
	}
	pos++

	var items []string
	for {
		token := tokenAt(tokens, pos)
		if !accept(token) {
			return nil, pos, newParseError(parser.sql, ErrInvalidInsert, "expected %s, got %s", what, describe(token))
		}
		items = append(items, token.Value)
		pos++

		token = tokenAt(tokens, pos)
		pos++
		switch token.Type {
		case Comma:
			continue
		case ParenClose:
			return items, pos, nil
		default:
			return nil, pos, newParseError(parser.sql, ErrInvalidInsert, "expected ',' or ')', got %s", describe(token))
		}
	}
}

func (parser *Parser) parseDelete() (DeleteStatement, error) {
	var statement DeleteStatement
	tokens := parser.tokens

	if i := indexOf(tokens, Where); i >= 0 {
		where, err := parser.parseWhere(tokens[i+1:], tokens[i])
		if err != nil {
			return DeleteStatement{}, err
		}
		statement.Where = where
		tokens = tokens[:i]
	}

	if len(tokens) != 3 || tokens[0].Type != Delete || tokens[1].Type != From || tokens[2].Type != Identifier {
		if len(tokens) > 3 {
			return DeleteStatement{}, newParseError(parser.sql, ErrMalformedDelete, "unexpected %s", describe(tokens[3]))
		}
		return DeleteStatement{}, newParseError(parser.sql, ErrMalformedDelete, "expected DELETE FROM <table>")
	}
	statement.Table = tokens[2].Value

	return statement, nil
}

// text returns the original spelling of a token run.
func (parser *Parser) text(tokens []Token) string {
	if len(tokens) == 0 {
		return ""
	}
	return parser.sql[tokens[0].Pos:tokens[len(tokens)-1].End]
}

func tokenAt(tokens []Token, pos int) Token {
	if pos < len(tokens) {
		return tokens[pos]
	}
	return Token{Type: EOF}
}

// indexOf returns the first top-level token of the given type, or -1.
func indexOf(tokens []Token, tokenType TokenType) int {
	depth := 0
	for i, token := range tokens {
		switch token.Type {
		case ParenOpen:
			depth++
		case ParenClose:
			depth--
		case tokenType:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func indexOfPair(tokens []Token, first, second TokenType) int {
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].Type == first && tokens[i+1].Type == second {
			return i
		}
	}
	return -1
}

// splitTop splits tokens on top-level commas.
func splitTop(tokens []Token) [][]Token {
	var parts [][]Token
	depth, start := 0, 0
	for i, token := range tokens {
		switch token.Type {
		case ParenOpen:
			depth++
		case ParenClose:
			depth--
		case Comma:
			if depth == 0 {
				parts = append(parts, tokens[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, tokens[start:])
}

func aggregateOf(token Token) Aggregate {
	switch token.Type {
	case Count:
		return CountAggregate
	case Sum:
		return SumAggregate
	case Avg:
		return AvgAggregate
	case Min:
		return MinAggregate
	case Max:
		return MaxAggregate
	default:
		return NoAggregate
	}
}

// isColumnToken accepts identifiers and the aggregate names, which are only
// keywords when followed by a parenthesis.
func isColumnToken(token Token) bool {
	return token.Type == Identifier || aggregateOf(token) != NoAggregate
}

func isLiteral(token Token) bool {
	switch token.Type {
	case String, Int, Float, Identifier:
		return true
	default:
		return false
	}
}

func comparisonOperator(token Token) (WhereOperator, bool) {
	switch token.Type {
	case Equals:
		return EqualsOperator, true
	case NotEquals:
		return NotEqualsOperator, true
	case LessThan:
		return LessThanOperator, true
	case GreaterThan:
		return GreaterThanOperator, true
	case LessThanOrEqual:
		return LessThanOrEqualOperator, true
	case GreaterThanOrEqual:
		return GreaterThanOrEqualOperator, true
	default:
		return 0, false
	}
}
