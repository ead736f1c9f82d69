package language

// TokenType classifies a token.
type TokenType uint8

const (
	// TokenIgnored is whitespace and anything word motion skips.
	TokenIgnored TokenType = iota
	TokenComment
	TokenOperator
	TokenKeyword
	TokenIdentifier
	TokenTypeIdentifier
	TokenCharacter
	TokenString
	TokenInteger
	TokenFloat
	TokenInvalid
)

// String returns the string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenIgnored:
		return "ignored"
	case TokenComment:
		return "comment"
	case TokenOperator:
		return "operator"
	case TokenKeyword:
		return "keyword"
	case TokenIdentifier:
		return "identifier"
	case TokenTypeIdentifier:
		return "type-identifier"
	case TokenCharacter:
		return "character"
	case TokenString:
		return "string"
	case TokenInteger:
		return "integer"
	case TokenFloat:
		return "float"
	case TokenInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Token is one fragment of the token stream.
// Tokens are contiguous: concatenating every Text yields the input.
type Token struct {
	Type TokenType
	Text string
}

// Diagnostic reports a problem the lexer found.
type Diagnostic struct {
	Index   int // Rune index of the offending fragment
	Length  int // Rune length of the offending fragment
	Message string
}
