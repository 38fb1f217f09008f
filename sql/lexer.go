package sql

import "strconv"

// Token is one lexical unit. Pos and End are byte offsets into the source
// text, so the original spelling of any token run can be recovered.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
	End   int
}

type TokenType int

const (
	Identifier TokenType = iota
	Wildcard
	String
	Int
	Float
	Comma
	ParenOpen
	ParenClose
	Equals
	NotEquals
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	And
	Or
	Like
	Select
	Distinct
	From
	Where
	Limit
	Order
	By
	Asc
	Desc
	Group
	Count
	Sum
	Avg
	Min
	Max
	Join
	Inner
	Left
	Right
	Outer
	On
	Insert
	Into
	Values
	Delete
	EOF
	Unknown
)

var tokenTypeNames = map[TokenType]string{
	Identifier:         "Identifier",
	Wildcard:           "Wildcard",
	String:             "String",
	Int:                "Int",
	Float:              "Float",
	Comma:              "Comma",
	ParenOpen:          "ParenOpen",
	ParenClose:         "ParenClose",
	Equals:             "Equals",
	NotEquals:          "NotEquals",
	LessThan:           "LessThan",
	GreaterThan:        "GreaterThan",
	LessThanOrEqual:    "LessThanOrEqual",
	GreaterThanOrEqual: "GreaterThanOrEqual",
	And:                "And",
	Or:                 "Or",
	Like:               "Like",
	Select:             "Select",
	Distinct:           "Distinct",
	From:               "From",
	Where:              "Where",
	Limit:              "Limit",
	Order:              "Order",
	By:                 "By",
	Asc:                "Asc",
	Desc:               "Desc",
	Group:              "Group",
	Count:              "Count",
	Sum:                "Sum",
	Avg:                "Avg",
	Min:                "Min",
	Max:                "Max",
	Join:               "Join",
	Inner:              "Inner",
	Left:               "Left",
	Right:              "Right",
	Outer:              "Outer",
	On:                 "On",
	Insert:             "Insert",
	Into:               "Into",
	Values:             "Values",
	Delete:             "Delete",
	EOF:                "EOF",
	Unknown:            "Unknown",
}

func (tokenType TokenType) String() string {
	if name, ok := tokenTypeNames[tokenType]; ok {
		return name
	}
	return "TokenType(" + strconv.Itoa(int(tokenType)) + ")"
}

func (token Token) String() string {
	switch token.Type {
	case Identifier, String, Int, Float, Unknown:
		return token.Type.String() + "(" + token.Value + ")"
	default:
		return token.Type.String()
	}
}

type Lexer struct {
	sql          string
	position     int
	readPosition int
	ch           byte
}

func NewLexer(sql string) *Lexer {
	lexer := &Lexer{sql: sql}
	lexer.readChar()
	return lexer
}

func (lexer *Lexer) readChar() {
	if lexer.readPosition >= len(lexer.sql) {
		lexer.ch = 0
	} else {
		lexer.ch = lexer.sql[lexer.readPosition]
	}
	lexer.position = lexer.readPosition
	lexer.readPosition++
}

func (lexer *Lexer) peekChar() byte {
	if lexer.readPosition >= len(lexer.sql) {
		return 0
	}
	return lexer.sql[lexer.readPosition]
}

func (lexer *Lexer) NextToken() Token {
	lexer.skipWhitespace()

	start := lexer.position
	token := Token{Pos: start}

	switch {
	case lexer.ch == 0 && lexer.position >= len(lexer.sql):
		token.Type = EOF
		token.Pos = len(lexer.sql)
		token.End = len(lexer.sql)
		return token
	case lexer.ch == ',':
		token.Type, token.Value = Comma, ","
		lexer.readChar()
	case lexer.ch == '(':
		token.Type, token.Value = ParenOpen, "("
		lexer.readChar()
	case lexer.ch == ')':
		token.Type, token.Value = ParenClose, ")"
		lexer.readChar()
	case lexer.ch == '*':
		token.Type, token.Value = Wildcard, "*"
		lexer.readChar()
	case lexer.ch == '\'':
		value, ok := lexer.readString()
		if ok {
			token.Type = String
		} else {
			token.Type = Unknown
		}
		token.Value = value
	case isOperator(lexer.ch):
		operator := lexer.readOperator()
		token.Value = operator
		switch operator {
		case "=":
			token.Type = Equals
		case "!=", "<>":
			token.Type = NotEquals
		case "<":
			token.Type = LessThan
		case ">":
			token.Type = GreaterThan
		case "<=":
			token.Type = LessThanOrEqual
		case ">=":
			token.Type = GreaterThanOrEqual
		default:
			token.Type = Unknown
		}
	case isDigit(lexer.ch) || (lexer.ch == '-' && isDigit(lexer.peekChar())):
		if lexer.ch == '-' {
			lexer.readChar()
		}
		lexer.readNumber()
		token.Type = Int
		if lexer.ch == '.' {
			lexer.readChar()
			lexer.readNumber()
			token.Type = Float
		}
		token.Value = lexer.sql[start:lexer.position]
	case isAlphaNumeric(lexer.ch):
		literal := lexer.readIdentifier()
		token.Type = lookupIdentifier(literal)
		token.Value = literal
	default:
		token.Type, token.Value = Unknown, string(lexer.ch)
		lexer.readChar()
	}

	token.End = lexer.position
	return token
}

func (lexer *Lexer) skipWhitespace() {
	for lexer.ch == ' ' || lexer.ch == '\t' || lexer.ch == '\n' || lexer.ch == '\r' {
		lexer.readChar()
	}
}

func (lexer *Lexer) readIdentifier() string {
	position := lexer.position
	for isAlphaNumeric(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

// readString consumes a single-quoted literal, unescaping doubled quotes.
// It reports false when the input ends before the closing quote.
func (lexer *Lexer) readString() (string, bool) {
	lexer.readChar() // skip opening quote
	var value []byte
	for {
		switch {
		case lexer.ch == 0 && lexer.position >= len(lexer.sql):
			return string(value), false
		case lexer.ch == '\'' && lexer.peekChar() == '\'':
			value = append(value, '\'')
			lexer.readChar()
			lexer.readChar()
		case lexer.ch == '\'':
			lexer.readChar() // skip closing quote
			return string(value), true
		default:
			value = append(value, lexer.ch)
			lexer.readChar()
		}
	}
}

func (lexer *Lexer) readNumber() {
	for isDigit(lexer.ch) {
		lexer.readChar()
	}
}

func (lexer *Lexer) readOperator() string {
	position := lexer.position
	for isOperator(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

func isAlphaNumeric(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_' || ch == '.' || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isOperator(ch byte) bool {
	return ch == '=' || ch == '!' || ch == '<' || ch == '>'
}

func lookupIdentifier(id string) TokenType {
	switch toUpper(id) {
	case "AND":
		return And
	case "OR":
		return Or
	case "LIKE":
		return Like
	case "SELECT":
		return Select
	case "DISTINCT":
		return Distinct
	case "FROM":
		return From
	case "WHERE":
		return Where
	case "LIMIT":
		return Limit
	case "ORDER":
		return Order
	case "BY":
		return By
	case "ASC":
		return Asc
	case "DESC":
		return Desc
	case "GROUP":
		return Group
	case "COUNT":
		return Count
	case "SUM":
		return Sum
	case "AVG":
		return Avg
	case "MIN":
		return Min
	case "MAX":
		return Max
	case "JOIN":
		return Join
	case "INNER":
		return Inner
	case "LEFT":
		return Left
	case "RIGHT":
		return Right
	case "OUTER":
		return Outer
	case "ON":
		return On
	case "INSERT":
		return Insert
	case "INTO":
		return Into
	case "VALUES":
		return Values
	case "DELETE":
		return Delete
	default:
		return Identifier
	}
}

// toUpper converts a string to uppercase without allocating for ASCII strings
func toUpper(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			b := make([]byte, len(s))
			for j := 0; j < len(s); j++ {
				if s[j] >= 'a' && s[j] <= 'z' {
					b[j] = s[j] - 32
				} else {
					b[j] = s[j]
				}
			}
			return string(b)
		}
	}
	return s
}

// Tokenize splits sql into tokens. The last token is always EOF.
func Tokenize(sql string) []Token {
	lexer := NewLexer(sql)

	var tokens []Token

	for {
		token := lexer.NextToken()
		tokens = append(tokens, token)
		if token.Type == EOF {
			return tokens
		}
	}
}
