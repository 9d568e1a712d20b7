package expr

import (
	"fmt"
	"unicode"
)

type tokenType int

const (
	tokenProfile tokenType = iota
	tokenNot
	tokenAnd
	tokenOr
	tokenLParen
	tokenRParen
	tokenEOF
)

func (t tokenType) String() string {
	switch t {
	case tokenProfile:
		return "profile name"
	case tokenNot:
		return "'!'"
	case tokenAnd:
		return "'&'"
	case tokenOr:
		return "'|'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenEOF:
		return "end of expression"
	default:
		return "unknown token"
	}
}

type token struct {
	typ      tokenType
	value    string
	position int
}

// isNameRune matches the characters Spring allows in profile names.
func isNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}

	switch r {
	case '-', '_', '.', '+', '@':
		return true
	}

	return false
}

// lex tokenizes a profile expression. Whitespace between tokens is
// insignificant.
func lex(expression string) ([]token, error) {
	tokens := []token{}
	runes := []rune(expression)

	i := 0
	for i < len(runes) {
		r := runes[i]

		if unicode.IsSpace(r) {
			i++
			continue
		}

		start := i

		switch r {
		case '!':
			tokens = append(tokens, token{tokenNot, "!", start})
			i++
		case '&':
			tokens = append(tokens, token{tokenAnd, "&", start})
			i++
		case '|':
			tokens = append(tokens, token{tokenOr, "|", start})
			i++
		case '(':
			tokens = append(tokens, token{tokenLParen, "(", start})
			i++
		case ')':
			tokens = append(tokens, token{tokenRParen, ")", start})
			i++
		default:
			if !isNameRune(r) {
				return nil, &Error{
					Position: start,
					Message:  fmt.Sprintf("unexpected character %q", r),
				}
			}

			for i < len(runes) && isNameRune(runes[i]) {
				i++
			}

			tokens = append(tokens, token{tokenProfile, string(runes[start:i]), start})
		}
	}

	tokens = append(tokens, token{tokenEOF, "", len(runes)})

	return tokens, nil
}
