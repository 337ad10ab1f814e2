// Package parser implements the recursive-descent syntax analyzer: token
// stream to AST. The parser never fails outright — unknown constructs are
// skipped one token at a time so downstream passes can report the gap
// through diagnostics they own (spec §4.C, §7 "syntactic gaps").
package parser

import (
	"strconv"

	"github.com/oxhq/bslanalyzer/ast"
	"github.com/oxhq/bslanalyzer/lexer"
	"github.com/oxhq/bslanalyzer/token"
)

// Parser walks a filtered token stream (whitespace, newlines, and comments
// removed) building an AST.
type Parser struct {
	toks []token.Token
	pos  int
}

// Parse tokenizes src and parses it into a module node.
func Parse(src string) *ast.Node {
	raw := lexer.Tokenize(src, lexer.Options{})
	filtered := make([]token.Token, 0, len(raw))
	for _, t := range raw {
		if t.Kind == token.KindComment {
			continue
		}
		filtered = append(filtered, t)
	}
	p := &Parser{toks: filtered}
	return p.parseModule()
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return p.eofToken()
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.toks) || idx < 0 {
		return p.eofToken()
	}
	return p.toks[idx]
}

func (p *Parser) eofToken() token.Token {
	if len(p.toks) == 0 {
		return token.Token{Kind: token.KindEOF, Position: ast.Position{Line: 1, Column: 1}}
	}
	last := p.toks[len(p.toks)-1]
	end := last.Position
	end.Column += last.Length
	end.Offset += last.Length
	return token.Token{Kind: token.KindEOF, Position: end}
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *Parser) advance() token.Token {
	t := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) span(t token.Token) ast.Span {
	end := t.Position
	end.Column += t.Length
	end.Offset += t.Length
	return ast.Span{Start: t.Position, End: end}
}

func (p *Parser) isKeyword(t token.Token, canon string) bool {
	return t.IsKeyword(canon)
}

func (p *Parser) checkKeyword(canon string) bool {
	return p.isKeyword(p.peek(), canon)
}

func (p *Parser) checkOperator(lit string) bool {
	t := p.peek()
	return t.Kind == token.KindOperator && t.Literal == lit
}

// skipUnknown consumes exactly one token so the parser never stalls, and
// records the skipped token as an "unknown" node in the enclosing block so
// downstream passes can see the gap existed.
func (p *Parser) skipUnknown() *ast.Node {
	t := p.advance()
	n := ast.NewNode(ast.KindUnknown, p.span(t))
	n.Value = t.Literal
	return n
}

// parseModule produces the root node: children are declarations and
// top-level statements, in source order.
func (p *Parser) parseModule() *ast.Node {
	start := ast.Position{Line: 1, Column: 1}
	module := ast.NewNode(ast.KindModule, ast.Span{Start: start, End: start})
	for !p.atEnd() {
		stmt := p.parseTopLevel()
		if stmt != nil {
			module.AddChild(stmt)
		}
	}
	return module
}

func (p *Parser) parseTopLevel() *ast.Node {
	t := p.peek()

	// Directive tokens (&AtClient etc.) precede a procedure/function; attach
	// them as an attribute on the declaration that follows.
	if t.Kind == token.KindKeyword && len(t.Literal) > 0 && t.Literal[0] == '&' {
		directive := t
		p.advance()
		decl := p.parseTopLevel()
		if decl != nil {
			decl.SetAttribute("directive", token.KeywordID(directive.Literal))
		}
		return decl
	}

	switch {
	case p.checkKeyword("Var"):
		return p.parseVarDecl()
	case p.checkKeyword("Procedure"):
		return p.parseProcedureOrFunction(false)
	case p.checkKeyword("Function"):
		return p.parseProcedureOrFunction(true)
	default:
		return p.parseStatement()
	}
}

// parseVarDecl handles `Перем X, Y, Z;` producing one variable node per
// name; the closing ";" is optional.
func (p *Parser) parseVarDecl() *ast.Node {
	keyword := p.advance() // Перем
	var first *ast.Node
	var group []*ast.Node

	for {
		id := p.peek()
		if id.Kind != token.KindIdentifier {
			break
		}
		p.advance()
		v := ast.NewNode(ast.KindVariable, p.span(id))
		v.Value = id.Literal
		group = append(group, v)
		if first == nil {
			first = v
		}
		if p.checkOperator(",") {
			p.advance()
			continue
		}
		break
	}
	if p.checkOperator(";") {
		p.advance()
	}

	if len(group) == 0 {
		// No identifier followed `Перем`; surface the keyword as the node
		// so the span is non-empty and downstream passes see nothing to use.
		n := ast.NewNode(ast.KindVariable, p.span(keyword))
		return n
	}
	if len(group) == 1 {
		return group[0]
	}
	wrapper := ast.NewNode(ast.KindBlock, group[0].Span)
	wrapper.SetAttribute("group", "var_decl")
	for _, g := range group {
		wrapper.AddChild(g)
	}
	return wrapper
}

// parseProcedureOrFunction parses a header with an optional parenthesized
// parameter list, then the body until the matching end keyword.
func (p *Parser) parseProcedureOrFunction(isFunction bool) *ast.Node {
	kw := p.advance() // Процедура/Функция
	kind := ast.KindProcedure
	endCanon := "EndProcedure"
	if isFunction {
		kind = ast.KindFunction
		endCanon = "EndFunction"
	}

	decl := ast.NewNode(kind, p.span(kw))
	if p.peek().Kind == token.KindIdentifier {
		nameTok := p.advance()
		decl.Value = nameTok.Literal
		decl.Span = decl.Span.Union(p.span(nameTok))
	}

	params := ast.NewNode(ast.KindParameterList, decl.Span)
	if p.checkOperator("(") {
		p.advance()
		for !p.atEnd() && !p.checkOperator(")") {
			param := p.parseParameter()
			if param != nil {
				params.AddChild(param)
			}
			if p.checkOperator(",") {
				p.advance()
				continue
			}
			break
		}
		if p.checkOperator(")") {
			p.advance()
		}
	}
	decl.AddChild(params)

	if p.checkKeyword("Export") {
		p.advance()
		decl.SetAttribute("export", "true")
	}

	body := ast.NewNode(ast.KindBlock, decl.Span)
	for !p.atEnd() && !p.checkKeyword(endCanon) {
		stmt := p.parseStatement()
		if stmt != nil {
			body.AddChild(stmt)
		}
	}
	if p.checkKeyword(endCanon) {
		endTok := p.advance()
		decl.Span = decl.Span.Union(p.span(endTok))
	} else {
		// EOF reached without a matching end keyword: close at last token.
		decl.Span = decl.Span.Union(body.Span)
	}
	decl.AddChild(body)
	return decl
}

func (p *Parser) parseParameter() *ast.Node {
	t := p.peek()
	if t.Kind != token.KindIdentifier {
		return p.skipUnknown()
	}
	p.advance()
	param := ast.NewNode(ast.KindParameter, p.span(t))
	param.Value = t.Literal
	if p.checkOperator("=") {
		p.advance()
		def := p.parseExpression()
		if def != nil {
			param.SetAttribute("default", def.Value)
			param.Span = param.Span.Union(def.Span)
		}
	}
	return param
}

// parseStatement dispatches on the current token to produce one statement
// or declaration node.
func (p *Parser) parseStatement() *ast.Node {
	t := p.peek()

	if t.Kind == token.KindKeyword && len(t.Literal) > 0 && t.Literal[0] == '&' {
		p.advance()
		return p.parseStatement()
	}

	switch {
	case p.checkKeyword("Var"):
		return p.parseVarDecl()
	case p.checkKeyword("If"):
		return p.parseIf()
	case p.checkKeyword("For"):
		return p.parseFor()
	case p.checkKeyword("While"):
		return p.parseWhile()
	case p.checkKeyword("Try"):
		return p.parseTry()
	case p.checkKeyword("Return"):
		return p.parseSimpleKeywordStatement(ast.KindReturn, true)
	case p.checkKeyword("Break"):
		return p.parseSimpleKeywordStatement(ast.KindBreak, false)
	case p.checkKeyword("Continue"):
		return p.parseSimpleKeywordStatement(ast.KindContinue, false)
	case p.checkOperator(";"):
		// a ";" after a block terminator is an empty statement
		p.advance()
		return nil
	case t.Kind == token.KindIdentifier:
		return p.parseIdentifierStatement()
	case t.Kind == token.KindEOF:
		return nil
	default:
		return p.skipUnknown()
	}
}

func (p *Parser) parseSimpleKeywordStatement(kind ast.Kind, withExpr bool) *ast.Node {
	kw := p.advance()
	n := ast.NewNode(kind, p.span(kw))
	if withExpr && !p.checkOperator(";") && !p.atBlockTerminator() {
		expr := p.parseExpression()
		if expr != nil {
			n.AddChild(expr)
		}
	}
	if p.checkOperator(";") {
		p.advance()
	}
	return n
}

func (p *Parser) atBlockTerminator() bool {
	t := p.peek()
	if t.Kind != token.KindKeyword {
		return t.Kind == token.KindEOF
	}
	switch token.KeywordID(t.Literal) {
	case "EndIf", "EndDo", "EndTry", "EndProcedure", "EndFunction", "Else", "ElseIf", "Except":
		return true
	default:
		return false
	}
}

// parseIdentifierStatement disambiguates assignment, call, and chained
// member/call expressions starting from a bare identifier, per §4.C:
// "(" -> call, "=" -> assignment, "." -> chained member/call, otherwise a
// bare identifier expression statement.
func (p *Parser) parseIdentifierStatement() *ast.Node {
	expr := p.parsePostfixExpression()
	if p.checkOperator("=") {
		eq := p.advance()
		assign := ast.NewNode(ast.KindAssignment, expr.Span)
		assign.AddChild(expr)
		rhs := p.parseExpression()
		if rhs != nil {
			assign.AddChild(rhs)
			assign.Span = assign.Span.Union(rhs.Span)
		} else {
			assign.Span = assign.Span.Union(p.span(eq))
		}
		if p.checkOperator(";") {
			p.advance()
		}
		return assign
	}
	if p.checkOperator(";") {
		p.advance()
	}
	return expr
}

func (p *Parser) parseIf() *ast.Node {
	kw := p.advance() // Если
	ifNode := ast.NewNode(ast.KindIf, p.span(kw))

	cond := p.scanConditionUntil("Then")
	if cond != nil {
		ifNode.AddChild(cond)
	}
	if p.checkKeyword("Then") {
		p.advance()
	}

	thenBlock := ast.NewNode(ast.KindBlock, ifNode.Span)
	for !p.atEnd() && !p.checkKeyword("Else") && !p.checkKeyword("ElseIf") && !p.checkKeyword("EndIf") {
		stmt := p.parseStatement()
		if stmt != nil {
			thenBlock.AddChild(stmt)
		}
	}
	ifNode.AddChild(thenBlock)

	if p.checkKeyword("ElseIf") {
		elseBlock := ast.NewNode(ast.KindBlock, thenBlock.Span)
		elseBlock.AddChild(p.parseIf())
		ifNode.AddChild(elseBlock)
	} else if p.checkKeyword("Else") {
		p.advance()
		elseBlock := ast.NewNode(ast.KindBlock, thenBlock.Span)
		for !p.atEnd() && !p.checkKeyword("EndIf") {
			stmt := p.parseStatement()
			if stmt != nil {
				elseBlock.AddChild(stmt)
			}
		}
		ifNode.AddChild(elseBlock)
	}

	if p.checkKeyword("EndIf") {
		end := p.advance()
		ifNode.Span = ifNode.Span.Union(p.span(end))
	} else {
		ifNode.Span = ifNode.Span.Union(thenBlock.Span)
	}
	return ifNode
}

// scanConditionUntil skips tokens (recording them as a synthetic expression
// node) until a keyword matching canon is reached, without consuming it.
func (p *Parser) scanConditionUntil(canon string) *ast.Node {
	start := p.peek()
	if start.Kind == token.KindEOF {
		return nil
	}
	beginPos := p.pos
	for !p.atEnd() && !p.isKeyword(p.peek(), canon) && !p.checkKeyword("Do") {
		p.advance()
	}
	if p.pos == beginPos {
		return nil
	}
	n := ast.NewNode(ast.KindBinary, ast.Span{Start: start.Position, End: p.peek().Position})
	n.SetAttribute("raw", "condition")
	return n
}

func (p *Parser) parseFor() *ast.Node {
	kw := p.advance() // Для
	forNode := ast.NewNode(ast.KindFor, p.span(kw))

	if p.checkKeyword("Each") {
		p.advance()
		forNode.Kind = ast.KindForEach
		if p.peek().Kind == token.KindIdentifier {
			varTok := p.advance()
			v := ast.NewNode(ast.KindIdentifier, p.span(varTok))
			v.Value = varTok.Literal
			forNode.AddChild(v)
		}
		if p.checkKeyword("In") {
			p.advance()
		}
	}

	cond := p.scanConditionUntil("Do")
	if cond != nil {
		forNode.AddChild(cond)
	}
	if p.checkKeyword("Do") {
		p.advance()
	}

	body := ast.NewNode(ast.KindBlock, forNode.Span)
	for !p.atEnd() && !p.checkKeyword("EndDo") {
		stmt := p.parseStatement()
		if stmt != nil {
			body.AddChild(stmt)
		}
	}
	forNode.AddChild(body)
	if p.checkKeyword("EndDo") {
		end := p.advance()
		forNode.Span = forNode.Span.Union(p.span(end))
	} else {
		forNode.Span = forNode.Span.Union(body.Span)
	}
	return forNode
}

func (p *Parser) parseWhile() *ast.Node {
	kw := p.advance() // Пока
	whileNode := ast.NewNode(ast.KindWhile, p.span(kw))

	cond := p.scanConditionUntil("Do")
	if cond != nil {
		whileNode.AddChild(cond)
	}
	if p.checkKeyword("Do") {
		p.advance()
	}

	body := ast.NewNode(ast.KindBlock, whileNode.Span)
	for !p.atEnd() && !p.checkKeyword("EndDo") {
		stmt := p.parseStatement()
		if stmt != nil {
			body.AddChild(stmt)
		}
	}
	whileNode.AddChild(body)
	if p.checkKeyword("EndDo") {
		end := p.advance()
		whileNode.Span = whileNode.Span.Union(p.span(end))
	} else {
		whileNode.Span = whileNode.Span.Union(body.Span)
	}
	return whileNode
}

func (p *Parser) parseTry() *ast.Node {
	kw := p.advance() // Попытка
	tryNode := ast.NewNode(ast.KindTry, p.span(kw))

	block := ast.NewNode(ast.KindBlock, tryNode.Span)
	for !p.atEnd() && !p.checkKeyword("Except") && !p.checkKeyword("EndTry") {
		stmt := p.parseStatement()
		if stmt != nil {
			block.AddChild(stmt)
		}
	}
	tryNode.AddChild(block)

	if p.checkKeyword("Except") {
		p.advance()
		exceptBlock := ast.NewNode(ast.KindBlock, block.Span)
		for !p.atEnd() && !p.checkKeyword("EndTry") {
			stmt := p.parseStatement()
			if stmt != nil {
				exceptBlock.AddChild(stmt)
			}
		}
		tryNode.AddChild(exceptBlock)
	}

	if p.checkKeyword("EndTry") {
		end := p.advance()
		tryNode.Span = tryNode.Span.Union(p.span(end))
	} else {
		tryNode.Span = tryNode.Span.Union(block.Span)
	}
	return tryNode
}

// parseExpression parses a full expression, including "And"/"Or" binary
// operators at the lowest precedence.
func (p *Parser) parseExpression() *ast.Node {
	left := p.parseComparison()
	for p.checkKeyword("And") || p.checkKeyword("Or") {
		opTok := p.advance()
		right := p.parseComparison()
		n := ast.NewNode(ast.KindBinary, left.Span)
		n.Value = token.KeywordID(opTok.Literal)
		n.AddChild(left)
		if right != nil {
			n.AddChild(right)
			n.Span = n.Span.Union(right.Span)
		}
		left = n
	}
	return left
}

func (p *Parser) parseComparison() *ast.Node {
	left := p.parseAdditive()
	for p.isComparisonOperator() {
		opTok := p.advance()
		right := p.parseAdditive()
		n := ast.NewNode(ast.KindBinary, left.Span)
		n.Value = opTok.Literal
		n.AddChild(left)
		if right != nil {
			n.AddChild(right)
			n.Span = n.Span.Union(right.Span)
		}
		left = n
	}
	return left
}

func (p *Parser) isComparisonOperator() bool {
	t := p.peek()
	if t.Kind != token.KindOperator {
		return false
	}
	switch t.Literal {
	case "=", "<>", "<=", ">=", "<", ">":
		return true
	default:
		return false
	}
}

func (p *Parser) parseAdditive() *ast.Node {
	left := p.parseMultiplicative()
	for p.checkOperator("+") || p.checkOperator("-") {
		opTok := p.advance()
		right := p.parseMultiplicative()
		n := ast.NewNode(ast.KindBinary, left.Span)
		n.Value = opTok.Literal
		n.AddChild(left)
		if right != nil {
			n.AddChild(right)
			n.Span = n.Span.Union(right.Span)
		}
		left = n
	}
	return left
}

func (p *Parser) parseMultiplicative() *ast.Node {
	left := p.parseUnary()
	for p.checkOperator("*") || p.checkOperator("/") {
		opTok := p.advance()
		right := p.parseUnary()
		n := ast.NewNode(ast.KindBinary, left.Span)
		n.Value = opTok.Literal
		n.AddChild(left)
		if right != nil {
			n.AddChild(right)
			n.Span = n.Span.Union(right.Span)
		}
		left = n
	}
	return left
}

func (p *Parser) parseUnary() *ast.Node {
	if p.checkOperator("-") || p.checkKeyword("Not") {
		opTok := p.advance()
		operand := p.parseUnary()
		n := ast.NewNode(ast.KindUnary, p.span(opTok))
		n.Value = opTok.Literal
		if operand != nil {
			n.AddChild(operand)
			n.Span = n.Span.Union(operand.Span)
		}
		return n
	}
	return p.parsePostfixExpression()
}

// parsePostfixExpression parses a primary expression followed by any chain
// of call/member/index postfix operators.
func (p *Parser) parsePostfixExpression() *ast.Node {
	expr := p.parsePrimary()
	for {
		switch {
		case p.checkOperator("("):
			expr = p.parseCall(expr)
		case p.checkOperator("."):
			p.advance()
			if p.peek().Kind != token.KindIdentifier {
				return expr
			}
			member := p.advance()
			n := ast.NewNode(ast.KindMember, expr.Span)
			n.Value = member.Literal
			n.AddChild(expr)
			n.Span = n.Span.Union(p.span(member))
			expr = n
		case p.checkOperator("["):
			p.advance()
			idx := p.parseExpression()
			if p.checkOperator("]") {
				p.advance()
			}
			n := ast.NewNode(ast.KindIndex, expr.Span)
			n.AddChild(expr)
			if idx != nil {
				n.AddChild(idx)
			}
			expr = n
		default:
			return expr
		}
	}
}

func (p *Parser) parseCall(callee *ast.Node) *ast.Node {
	open := p.advance() // "("
	call := ast.NewNode(ast.KindCall, callee.Span)
	call.Value = callee.Name()
	call.AddChild(callee)
	_ = open

	for !p.atEnd() && !p.checkOperator(")") {
		arg := p.parseExpression()
		if arg != nil {
			call.AddChild(arg)
		}
		if p.checkOperator(",") {
			p.advance()
			continue
		}
		break
	}
	if p.checkOperator(")") {
		end := p.advance()
		call.Span = call.Span.Union(p.span(end))
	}
	return call
}

func (p *Parser) parsePrimary() *ast.Node {
	t := p.peek()

	switch {
	case p.checkKeyword("New"):
		return p.parseNewExpression()
	case p.checkOperator("("):
		p.advance()
		inner := p.parseExpression()
		if p.checkOperator(")") {
			p.advance()
		}
		return inner
	case t.Kind == token.KindString:
		p.advance()
		n := ast.NewNode(ast.KindStringLiteral, p.span(t))
		n.Value = t.Literal
		return n
	case t.Kind == token.KindNumber:
		p.advance()
		n := ast.NewNode(ast.KindNumberLiteral, p.span(t))
		n.Value = t.Literal
		return n
	case p.checkKeyword("True") || p.checkKeyword("False"):
		p.advance()
		n := ast.NewNode(ast.KindBooleanLiteral, p.span(t))
		n.Value = t.Literal
		return n
	case p.checkKeyword("Undefined"):
		p.advance()
		n := ast.NewNode(ast.KindUndefinedLiteral, p.span(t))
		n.Value = t.Literal
		return n
	case t.Kind == token.KindKeyword && t.Literal == "Null":
		p.advance()
		n := ast.NewNode(ast.KindNullLiteral, p.span(t))
		n.Value = t.Literal
		return n
	case t.Kind == token.KindIdentifier:
		p.advance()
		n := ast.NewNode(ast.KindIdentifier, p.span(t))
		n.Value = t.Literal
		return n
	default:
		return p.skipUnknown()
	}
}

func (p *Parser) parseNewExpression() *ast.Node {
	kw := p.advance() // Новый
	n := ast.NewNode(ast.KindNew, p.span(kw))
	if p.peek().Kind == token.KindIdentifier {
		typeTok := p.advance()
		n.Value = typeTok.Literal
		n.Span = n.Span.Union(p.span(typeTok))
	}
	if p.checkOperator("(") {
		open := p.advance()
		_ = open
		for !p.atEnd() && !p.checkOperator(")") {
			arg := p.parseExpression()
			if arg != nil {
				n.AddChild(arg)
			}
			if p.checkOperator(",") {
				p.advance()
				continue
			}
			break
		}
		if p.checkOperator(")") {
			end := p.advance()
			n.Span = n.Span.Union(p.span(end))
		}
	}
	return n
}

// ParseNumberLiteral reports whether s parses as a BSL number literal.
func ParseNumberLiteral(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
