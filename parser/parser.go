// Package parser implements the lexer and recursive-descent parser for
// the query language: a small surface for creating channels and reading
// correlated values back out of them.
//
// Supported forms:
//
//	onCreate(channel[, channel...])(name:type = literal[, ...])
//	onRead(channel[, channel...])(left op right[, ...])
package parser

import (
	"fmt"
	"strconv"

	"github.com/wbrown/qdb-core/memory"
	"github.com/wbrown/qdb-core/predicate"
	"github.com/wbrown/qdb-core/query"
	"github.com/wbrown/qdb-core/value"
)

// Parser consumes a token stream and produces query.Expr values.
type Parser struct {
	tokens []Token
	pos    int
}

// ParseString tokenizes and parses line into a sequence of parsed
// expressions. A query string may chain multiple calls back to back,
// e.g. "onCreate(c)(x:int = 1) onRead(c)(x >= 1)".
func ParseString(line string) ([]query.Expr, error) {
	tokens, err := NewLexer(line).Lex()
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens}
	return p.parseExprs()
}

func (p *Parser) cur() Token  { return p.tokens[p.pos] }
func (p *Parser) atEOF() bool { return p.cur().Type == TokenEOF }

func (p *Parser) advance() Token {
	t := p.tokens[p.pos]
	if t.Type != TokenEOF {
		p.pos++
	}
	return t
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	if p.cur().Type != tt {
		return Token{}, fmt.Errorf("parser: line %d:%d: expected %s, got %s %q",
			p.cur().Line, p.cur().Col, tt, p.cur().Type, p.cur().Value)
	}
	return p.advance(), nil
}

func (p *Parser) parseExprs() ([]query.Expr, error) {
	var exprs []query.Expr
	for !p.atEOF() {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func (p *Parser) parseExpr() (query.Expr, error) {
	name, err := p.expect(TokenIdent)
	if err != nil {
		return query.Expr{}, err
	}

	var kind query.FuncKind
	switch name.Value {
	case "onCreate":
		kind = query.OnCreate
	case "onRead":
		kind = query.OnRead
	default:
		kind = query.Unknown
	}

	channels, err := p.parseChannelList()
	if err != nil {
		return query.Expr{}, err
	}

	if _, err := p.expect(TokenLParen); err != nil {
		return query.Expr{}, err
	}

	expr := query.Expr{Func: kind, Channels: channels}

	switch kind {
	case query.OnCreate:
		bindings, err := p.parseBindings()
		if err != nil {
			return query.Expr{}, err
		}
		expr.Bindings = bindings
	case query.OnRead:
		preds, err := p.parsePredicates()
		if err != nil {
			return query.Expr{}, err
		}
		expr.Predicates = make([][]memory.BinaryExpr, len(channels))
		for i := range channels {
			expr.Predicates[i] = preds
		}
	default:
		// Unrecognized function names parse but are not interpreted:
		// skip to the matching close paren without inspecting the body.
		if err := p.skipToRParen(); err != nil {
			return query.Expr{}, err
		}
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return query.Expr{}, err
	}
	return expr, nil
}

func (p *Parser) parseChannelList() ([]string, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	var names []string
	for {
		id, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		names = append(names, id.Value)
		if p.cur().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *Parser) parseBindings() ([]memory.Binding, error) {
	var bindings []memory.Binding
	for p.cur().Type != TokenRParen {
		nameTok, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenColon); err != nil {
			return nil, err
		}
		typeTok, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenEquals); err != nil {
			return nil, err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		if err := checkTypeMatches(typeTok.Value, lit); err != nil {
			return nil, err
		}
		bindings = append(bindings, memory.Binding{Name: nameTok.Value, Value: lit})

		if p.cur().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	return bindings, nil
}

func checkTypeMatches(typeName string, v value.Value) error {
	var want value.Kind
	switch typeName {
	case "int":
		want = value.Int
	case "real":
		want = value.Real
	case "text":
		want = value.Text
	case "null":
		want = value.Null
	case "symbol":
		want = value.Symbol
	default:
		return fmt.Errorf("parser: unknown type tag %q", typeName)
	}
	if want != v.Kind() {
		return fmt.Errorf("parser: literal %s does not match declared type %q", v, typeName)
	}
	return nil
}

func (p *Parser) parsePredicates() ([]memory.BinaryExpr, error) {
	var preds []memory.BinaryExpr
	for p.cur().Type != TokenRParen {
		left, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		opTok, err := p.expect(TokenOp)
		if err != nil {
			return nil, err
		}
		op, err := predicate.ParseOp(opTok.Value)
		if err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		preds = append(preds, memory.BinaryExpr{Left: left, Op: op, Right: right})

		if p.cur().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	return preds, nil
}

// parseTerm parses either a literal or a bare identifier, which in
// predicate position denotes a symbol (variable reference) rather than a
// type-tagged binding.
func (p *Parser) parseTerm() (value.Value, error) {
	if p.cur().Type == TokenIdent {
		return value.NewSymbol(p.advance().Value), nil
	}
	return p.parseLiteral()
}

func (p *Parser) parseLiteral() (value.Value, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenInt:
		p.advance()
		i, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("parser: line %d:%d: bad integer %q: %w", tok.Line, tok.Col, tok.Value, err)
		}
		return value.NewInt(i), nil
	case TokenReal:
		p.advance()
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("parser: line %d:%d: bad real %q: %w", tok.Line, tok.Col, tok.Value, err)
		}
		return value.NewReal(f), nil
	case TokenString:
		p.advance()
		return value.NewText(tok.Value), nil
	case TokenIdent:
		if tok.Value == "null" {
			p.advance()
			return value.NewNull(), nil
		}
		p.advance()
		return value.NewSymbol(tok.Value), nil
	default:
		return value.Value{}, fmt.Errorf("parser: line %d:%d: expected a literal, got %s %q", tok.Line, tok.Col, tok.Type, tok.Value)
	}
}

func (p *Parser) skipToRParen() error {
	depth := 0
	for {
		switch p.cur().Type {
		case TokenEOF:
			return fmt.Errorf("parser: unexpected EOF while skipping unknown function body")
		case TokenLParen:
			depth++
		case TokenRParen:
			if depth == 0 {
				return nil
			}
			depth--
		}
		p.advance()
	}
}
