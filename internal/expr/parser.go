package expr

import "fmt"

// parser is a recursive descent parser over the token stream.
//
// Grammar (left-associative, ! binds tighter than & binds tighter
// than |):
//
//	expr     := or_expr
//	or_expr  := and_expr ("|" and_expr)*
//	and_expr := unary ("&" unary)*
//	unary    := "!" unary | primary
//	primary  := NAME | "(" expr ")"
type parser struct {
	tokens []token
	pos    int
}

// Parse parses a profile expression string into an Expr tree.
func Parse(expression string) (Expr, error) {
	tokens, err := lex(expression)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}

	if p.current().typ == tokenEOF {
		return nil, &Error{Position: 0, Message: "empty profile expression"}
	}

	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if p.current().typ != tokenEOF {
		return nil, &Error{
			Position: p.current().position,
			Message:  fmt.Sprintf("unexpected token %q", p.current().value),
		}
	}

	return e, nil
}

func (p *parser) current() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return t
}

func (p *parser) expect(typ tokenType) (token, error) {
	if p.current().typ != typ {
		return token{}, &Error{
			Position: p.current().position,
			Message:  fmt.Sprintf("expected %s, got %s", typ, p.current().typ),
		}
	}

	return p.advance(), nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenOr {
		p.advance()

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = Or{Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenAnd {
		p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = And{Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.current().typ == tokenNot {
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return Not{Operand: operand}, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.current().typ {
	case tokenProfile:
		t := p.advance()
		return Name{Name: t.value}, nil

	case tokenLParen:
		p.advance()

		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		_, err = p.expect(tokenRParen)
		if err != nil {
			return nil, err
		}

		return e, nil

	default:
		return nil, &Error{
			Position: p.current().position,
			Message:  fmt.Sprintf("expected profile name or '(', got %s", p.current().typ),
		}
	}
}
