/*
 * cstyle
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"github.com/krotik/cstyle/util"
)

var basicTypeKeywords = map[string]bool{
	"int": true, "char": true, "void": true, "float": true, "double": true,
	"short": true, "long": true, "signed": true, "unsigned": true,
}

var storageClassKeywords = map[string]bool{
	"static": true, "extern": true, "auto": true, "register": true, "typedef": true,
}

var qualifierKeywords = map[string]bool{
	"const": true, "volatile": true, "restrict": true,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "^=": true, "|=": true, "<<=": true, ">>=": true,
}

/*
binaryPrec gives the precedence of every binary (non-assignment) operator,
highest number binds tightest.
*/
var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

/*
parser drives recursive-descent construction of the AST from a
tokenSource. typedefs tracks identifiers introduced by a "typedef"
declaration, the minimal symbol table a C-family grammar needs to tell an
IdentTypeSpec from a plain IdentExpr.
*/
type parser struct {
	name     string
	src      *tokenSource
	typedefs map[string]bool
}

/*
Parse builds a Module from a lossless token Buffer produced by Lex. The
returned error, if any, is a *util.Error with Type == util.ErrParse.
*/
func Parse(name string, buf *Buffer) (*Module, error) {
	p := &parser{name: name, src: newTokenSource(buf), typedefs: map[string]bool{}}
	return p.parseModule()
}

func (p *parser) errorf(tok *Token, detail string) error {
	line, col := 0, 0
	if tok != nil {
		line, col = tok.Begin.Line, tok.Begin.Col
	}
	return util.NewError(p.name, util.ErrParse, detail, line, col)
}

func (p *parser) expectPunct(s string) (*Token, error) {
	if !p.src.isPunct(s) {
		return nil, p.errorf(p.src.peek(), "expected '"+s+"'")
	}
	return p.src.next(), nil
}

func (p *parser) expectKeyword(s string) (*Token, error) {
	if !p.src.isKeyword(s) {
		return nil, p.errorf(p.src.peek(), "expected '"+s+"'")
	}
	return p.src.next(), nil
}

func (p *parser) expectIdent() (*Token, error) {
	if !p.src.isIdent() {
		return nil, p.errorf(p.src.peek(), "expected identifier")
	}
	return p.src.next(), nil
}

// Module / external declarations
// ===============================

func (p *parser) parseModule() (*Module, error) {
	m := &Module{}
	for !p.src.atEnd() {
		d, err := p.parseExternalDecl()
		if err != nil {
			return m, err
		}
		m.Decls = append(m.Decls, d)
	}
	return m, nil
}

func (p *parser) parseExternalDecl() (Node, error) {
	dspecs, err := p.parseDeclSpecList()
	if err != nil {
		return nil, err
	}

	if p.src.isPunct(";") {
		semi := p.src.next()
		return &GlobalDecl{DSpecs: dspecs, Semi: semi}, nil
	}

	first, err := p.parseDeclarator()
	if err != nil {
		return nil, err
	}

	if fd, ok := first.(*FuncDeclarator); ok && p.src.isPunct("{") {
		body, err := p.parseBlock(true)
		if err != nil {
			return nil, err
		}
		return &FuncDef{DSpecs: dspecs, Declarator: fd, Body: body}, nil
	}

	dlist, err := p.parseDeclaratorListTail(first, true)
	if err != nil {
		return nil, err
	}

	p.registerTypedefs(dspecs, dlist)

	semi, err := p.expectPunct(";")
	if err != nil {
		return nil, err
	}

	return &GlobalDecl{DSpecs: dspecs, Declarator: dlist, Semi: semi}, nil
}

func (p *parser) registerTypedefs(dspecs Node, dlist Node) {
	isTypedef := false
	if dsl, ok := dspecs.(*DeclSpecList); ok {
		for _, it := range dsl.Items {
			if sc, ok := it.(*StorageClassSpec); ok && sc.Kw.Text == "typedef" {
				isTypedef = true
			}
		}
	}
	if !isTypedef || dlist == nil {
		return
	}
	if list, ok := dlist.(*DeclaratorList); ok {
		for _, entry := range list.Items {
			if name := declaratorName(entry.Declarator); name != "" {
				p.typedefs[name] = true
			}
		}
	}
}

func declaratorName(n Node) string {
	switch d := n.(type) {
	case *IdentDeclarator:
		return d.Name.Text
	case *ParenDeclarator:
		return declaratorName(d.Base)
	case *PointerDeclarator:
		return declaratorName(d.Base)
	case *FuncDeclarator:
		return declaratorName(d.Base)
	case *ArrayDeclarator:
		return declaratorName(d.Base)
	}
	return ""
}

// Declaration specifiers
// =======================

func (p *parser) isTypeSpecStart() bool {
	t := p.src.peek()
	if t == nil {
		return false
	}
	if t.Kind == Keyword {
		return basicTypeKeywords[t.Text] || t.Text == "struct" || t.Text == "union" || t.Text == "enum"
	}
	return t.Kind == Identifier && p.typedefs[t.Text]
}

func (p *parser) isDeclSpecStart() bool {
	t := p.src.peek()
	if t == nil {
		return false
	}
	if t.Kind == Keyword {
		return storageClassKeywords[t.Text] || qualifierKeywords[t.Text] ||
			t.Text == "inline" || basicTypeKeywords[t.Text] ||
			t.Text == "struct" || t.Text == "union" || t.Text == "enum"
	}
	return t.Kind == Identifier && p.typedefs[t.Text]
}

func (p *parser) parseDeclSpecList() (Node, error) {
	list := &DeclSpecList{}
	sawType := false

	for p.isDeclSpecStart() {
		t := p.src.peek()

		if t.Kind == Identifier {
			if sawType {
				break
			}
			list.Items = append(list.Items, &IdentTypeSpec{Name: p.src.next()})
			sawType = true
			continue
		}

		switch {
		case storageClassKeywords[t.Text]:
			list.Items = append(list.Items, &StorageClassSpec{Kw: p.src.next()})
		case qualifierKeywords[t.Text]:
			list.Items = append(list.Items, &Qualifier{Kw: p.src.next()})
		case t.Text == "inline":
			list.Items = append(list.Items, &FuncSpec{Kw: p.src.next()})
		case basicTypeKeywords[t.Text]:
			if sawType {
				break
			}
			list.Items = append(list.Items, &BasicTypeSpec{Kw: p.src.next()})
			sawType = true
		case t.Text == "struct" || t.Text == "union":
			if sawType {
				return list, nil
			}
			rs, err := p.parseRecordSpec()
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, rs)
			sawType = true
		case t.Text == "enum":
			if sawType {
				return list, nil
			}
			es, err := p.parseEnumSpec()
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, es)
			sawType = true
		}
	}

	if len(list.Items) == 0 {
		return nil, p.errorf(p.src.peek(), "expected declaration specifier")
	}

	return list, nil
}

func (p *parser) parseRecordSpec() (*RecordSpec, error) {
	kw := p.src.next()
	rs := &RecordSpec{Kw: kw}

	if p.src.isIdent() {
		rs.Tag = p.src.next()
	}

	if p.src.isPunct("{") {
		rs.HasDef = true
		rs.LBrace = p.src.next()

		for !p.src.isPunct("}") {
			dspecs, err := p.parseDeclSpecList()
			if err != nil {
				return nil, err
			}
			var dlist Node
			if !p.src.isPunct(";") {
				first, err := p.parseDeclarator()
				if err != nil {
					return nil, err
				}
				dlist, err = p.parseDeclaratorListTail(first, false)
				if err != nil {
					return nil, err
				}
			}
			semi, err := p.expectPunct(";")
			if err != nil {
				return nil, err
			}
			rs.Elements = append(rs.Elements, &GlobalDecl{DSpecs: dspecs, Declarator: dlist, Semi: semi})
		}

		rbrace, err := p.expectPunct("}")
		if err != nil {
			return nil, err
		}
		rs.RBrace = rbrace
	}

	return rs, nil
}

func (p *parser) parseEnumSpec() (*EnumSpec, error) {
	kw := p.src.next()
	es := &EnumSpec{Kw: kw}

	if p.src.isIdent() {
		es.Tag = p.src.next()
	}

	if p.src.isPunct("{") {
		es.HasDef = true
		es.LBrace = p.src.next()

		var comma *Token
		for !p.src.isPunct("}") {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			e := &Enumerator{Comma: comma, Name: name}
			if p.src.isPunct("=") {
				e.Eq = p.src.next()
				v, err := p.parseAssignExpr()
				if err != nil {
					return nil, err
				}
				e.Value = v
			}
			es.Enumerators = append(es.Enumerators, e)
			comma = nil
			if p.src.isPunct(",") {
				comma = p.src.next()
			} else {
				break
			}
		}

		rbrace, err := p.expectPunct("}")
		if err != nil {
			return nil, err
		}
		es.RBrace = rbrace
	}

	return es, nil
}

// Declarators
// ============

func (p *parser) parseDeclarator() (Node, error) {
	if p.src.isPunct("*") {
		star := p.src.next()
		base, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		return &PointerDeclarator{Star: star, Base: base}, nil
	}
	return p.parseDirectDeclarator()
}

func (p *parser) parseDirectDeclarator() (Node, error) {
	var base Node

	switch {
	case p.src.isPunct("("):
		lparen := p.src.next()
		inner, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		rparen, err := p.expectPunct(")")
		if err != nil {
			return nil, err
		}
		base = &ParenDeclarator{LParen: lparen, Base: inner, RParen: rparen}
	case p.src.isIdent():
		base = &IdentDeclarator{Name: p.src.next()}
	default:
		base = &AbstractDeclarator{}
	}

	for {
		switch {
		case p.src.isPunct("["):
			lbrack := p.src.next()
			var size Node
			if !p.src.isPunct("]") {
				s, err := p.parseAssignExpr()
				if err != nil {
					return nil, err
				}
				size = s
			}
			rbrack, err := p.expectPunct("]")
			if err != nil {
				return nil, err
			}
			base = &ArrayDeclarator{Base: base, LBrack: lbrack, Size: size, RBrack: rbrack}
		case p.src.isPunct("("):
			lparen := p.src.next()
			params, err := p.parseParams()
			if err != nil {
				return nil, err
			}
			rparen, err := p.expectPunct(")")
			if err != nil {
				return nil, err
			}
			base = &FuncDeclarator{Base: base, LParen: lparen, Params: params, RParen: rparen}
		default:
			return base, nil
		}
	}
}

func (p *parser) parseParams() ([]*Param, error) {
	var params []*Param

	if p.src.isPunct(")") {
		return params, nil
	}

	if p.src.isKeyword("void") && p.src.peekAt(1) != nil && p.src.peekAt(1).Kind == Punctuator && p.src.peekAt(1).Text == ")" {
		p.src.next()
		return params, nil
	}

	for {
		dspecs, err := p.parseDeclSpecList()
		if err != nil {
			return nil, err
		}
		decl, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		param := &Param{DSpecs: dspecs, Declarator: decl}
		if p.src.isPunct(",") {
			param.Comma = p.src.next()
		}
		params = append(params, param)
		if param.Comma == nil {
			break
		}
	}

	return params, nil
}

func (p *parser) parseDeclaratorListTail(first Node, allowInit bool) (Node, error) {
	entry := &DeclaratorEntry{Declarator: first}
	if err := p.parseOptionalInit(entry, allowInit); err != nil {
		return nil, err
	}
	list := &DeclaratorList{Items: []*DeclaratorEntry{entry}}

	for p.src.isPunct(",") {
		comma := p.src.next()
		d, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		entry := &DeclaratorEntry{Comma: comma, Declarator: d}
		if err := p.parseOptionalInit(entry, allowInit); err != nil {
			return nil, err
		}
		list.Items = append(list.Items, entry)
	}

	return list, nil
}

/*
parseOptionalInit consumes a trailing "= assignment-expression" initializer
for one declarator entry, if present. Initializers are only meaningful for
global and local variable declarations, not struct/union member lists, so
callers parsing a member list pass allowInit false and an "=" there is left
for the caller to reject as a syntax error.
*/
func (p *parser) parseOptionalInit(entry *DeclaratorEntry, allowInit bool) error {
	if !allowInit || !p.src.isPunct("=") {
		return nil
	}
	entry.Eq = p.src.next()
	init, err := p.parseAssignExpr()
	if err != nil {
		return err
	}
	entry.Init = init
	return nil
}

// Statements
// ==========

func (p *parser) parseBlock(braced bool) (*Block, error) {
	b := &Block{Braced: braced}

	if !braced {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
		return b, nil
	}

	lbrace, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}
	b.LBrace = lbrace

	for !p.src.isPunct("}") {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}

	rbrace, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	b.RBrace = rbrace

	return b, nil
}

func (p *parser) parseStmt() (Node, error) {
	t := p.src.peek()
	if t == nil {
		return nil, p.errorf(nil, "unexpected end of input")
	}

	if t.Kind == Punctuator && t.Text == "{" {
		return p.parseBlock(true)
	}

	if t.Kind == Identifier {
		if next := p.src.peekAt(1); next != nil && next.Kind == Punctuator && next.Text == ":" {
			name := p.src.next()
			colon := p.src.next()
			return &GotoLabel{Name: name, Colon: colon}, nil
		}
	}

	if t.Kind == Keyword {
		switch t.Text {
		case "return":
			return p.parseReturn()
		case "break":
			kw := p.src.next()
			semi, err := p.expectPunct(";")
			if err != nil {
				return nil, err
			}
			return &BreakStmt{Kw: kw, Semi: semi}, nil
		case "continue":
			kw := p.src.next()
			semi, err := p.expectPunct(";")
			if err != nil {
				return nil, err
			}
			return &ContinueStmt{Kw: kw, Semi: semi}, nil
		case "goto":
			return p.parseGoto()
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "do":
			return p.parseDoWhile()
		case "for":
			return p.parseFor()
		case "switch":
			return p.parseSwitch()
		case "case", "default":
			return p.parseCaseLabel()
		}
	}

	if p.isDeclSpecStart() {
		return p.parseLocalDecl()
	}

	return p.parseExprStmt()
}

func (p *parser) parseLocalDecl() (Node, error) {
	dspecs, err := p.parseDeclSpecList()
	if err != nil {
		return nil, err
	}

	if p.src.isPunct(";") {
		semi := p.src.next()
		return &GlobalDecl{DSpecs: dspecs, Semi: semi}, nil
	}

	first, err := p.parseDeclarator()
	if err != nil {
		return nil, err
	}
	dlist, err := p.parseDeclaratorListTail(first, true)
	if err != nil {
		return nil, err
	}

	p.registerTypedefs(dspecs, dlist)

	semi, err := p.expectPunct(";")
	if err != nil {
		return nil, err
	}
	return &GlobalDecl{DSpecs: dspecs, Declarator: dlist, Semi: semi}, nil
}

func (p *parser) parseReturn() (Node, error) {
	kw, err := p.expectKeyword("return")
	if err != nil {
		return nil, err
	}
	r := &ReturnStmt{Kw: kw}
	if !p.src.isPunct(";") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		r.Expr = e
	}
	semi, err := p.expectPunct(";")
	if err != nil {
		return nil, err
	}
	r.Semi = semi
	return r, nil
}

func (p *parser) parseGoto() (Node, error) {
	kw, err := p.expectKeyword("goto")
	if err != nil {
		return nil, err
	}
	target, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	semi, err := p.expectPunct(";")
	if err != nil {
		return nil, err
	}
	return &GotoStmt{Kw: kw, Target: target, Semi: semi}, nil
}

func (p *parser) parseIf() (Node, error) {
	kw, err := p.expectKeyword("if")
	if err != nil {
		return nil, err
	}
	lparen, err := p.expectPunct("(")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	rparen, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock(p.src.isPunct("{"))
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{Kw: kw, LParen: lparen, Cond: cond, RParen: rparen, Then: then}

	if p.src.isKeyword("else") {
		stmt.ElseKw = p.src.next()
		if p.src.isKeyword("if") {
			els, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.Else = els
		} else {
			els, err := p.parseBlock(p.src.isPunct("{"))
			if err != nil {
				return nil, err
			}
			stmt.Else = els
		}
	}

	return stmt, nil
}

func (p *parser) parseWhile() (Node, error) {
	kw, err := p.expectKeyword("while")
	if err != nil {
		return nil, err
	}
	lparen, err := p.expectPunct("(")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	rparen, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(p.src.isPunct("{"))
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Kw: kw, LParen: lparen, Cond: cond, RParen: rparen, Body: body}, nil
}

func (p *parser) parseDoWhile() (Node, error) {
	doKw, err := p.expectKeyword("do")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(p.src.isPunct("{"))
	if err != nil {
		return nil, err
	}
	whileKw, err := p.expectKeyword("while")
	if err != nil {
		return nil, err
	}
	lparen, err := p.expectPunct("(")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	rparen, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	semi, err := p.expectPunct(";")
	if err != nil {
		return nil, err
	}
	return &DoWhileStmt{DoKw: doKw, Body: body, WhileKw: whileKw, LParen: lparen, Cond: cond, RParen: rparen, Semi: semi}, nil
}

func (p *parser) parseFor() (Node, error) {
	kw, err := p.expectKeyword("for")
	if err != nil {
		return nil, err
	}
	lparen, err := p.expectPunct("(")
	if err != nil {
		return nil, err
	}

	f := &ForStmt{Kw: kw, LParen: lparen}

	if !p.src.isPunct(";") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		f.Init = e
	}
	semi1, err := p.expectPunct(";")
	if err != nil {
		return nil, err
	}
	f.Semi1 = semi1

	if !p.src.isPunct(";") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		f.Cond = e
	}
	semi2, err := p.expectPunct(";")
	if err != nil {
		return nil, err
	}
	f.Semi2 = semi2

	if !p.src.isPunct(")") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		f.Next = e
	}
	rparen, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	f.RParen = rparen

	body, err := p.parseBlock(p.src.isPunct("{"))
	if err != nil {
		return nil, err
	}
	f.Body = body

	return f, nil
}

func (p *parser) parseSwitch() (Node, error) {
	kw, err := p.expectKeyword("switch")
	if err != nil {
		return nil, err
	}
	lparen, err := p.expectPunct("(")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	rparen, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(true)
	if err != nil {
		return nil, err
	}
	return &SwitchStmt{Kw: kw, LParen: lparen, Cond: cond, RParen: rparen, Body: body}, nil
}

func (p *parser) parseCaseLabel() (Node, error) {
	kw := p.src.next()
	label := &CaseLabel{Kw: kw}
	if kw.Text == "case" {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		label.Expr = e
	}
	colon, err := p.expectPunct(":")
	if err != nil {
		return nil, err
	}
	label.Colon = colon
	return label, nil
}

func (p *parser) parseExprStmt() (Node, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	semi, err := p.expectPunct(";")
	if err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: e, Semi: semi}, nil
}

// Expressions
// ===========

func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseAssignExpr()
	if err != nil {
		return nil, err
	}
	for p.src.isPunct(",") {
		comma := p.src.next()
		right, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		left = &CommaExpr{Left: left, Comma: comma, Right: right}
	}
	return left, nil
}

func (p *parser) parseAssignExpr() (Node, error) {
	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if t := p.src.peek(); t != nil && t.Kind == Punctuator && assignOps[t.Text] {
		op := p.src.next()
		right, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Left: left, Op: op, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseConditional() (Node, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.src.isPunct("?") {
		q := p.src.next()
		then, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		colon, err := p.expectPunct(":")
		if err != nil {
			return nil, err
		}
		els, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		return &TernaryExpr{Cond: cond, Q: q, Then: then, Colon: colon, Else: els}, nil
	}
	return cond, nil
}

func (p *parser) parseBinary(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.src.peek()
		if t == nil || t.Kind != Punctuator {
			break
		}
		prec, ok := binaryPrec[t.Text]
		if !ok || prec < minPrec {
			break
		}
		op := p.src.next()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}

	return left, nil
}

var unaryPrefixOps = map[string]bool{"+": true, "-": true, "!": true, "~": true}

func (p *parser) parseUnary() (Node, error) {
	t := p.src.peek()
	if t == nil {
		return nil, p.errorf(nil, "unexpected end of input in expression")
	}

	switch {
	case t.Kind == Punctuator && t.Text == "*":
		star := p.src.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &DerefExpr{Star: star, Operand: operand}, nil

	case t.Kind == Punctuator && t.Text == "&":
		amp := p.src.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &AddrExpr{Amp: amp, Operand: operand}, nil

	case t.Kind == Punctuator && unaryPrefixOps[t.Text]:
		op := p.src.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		switch op.Text {
		case "!":
			return &LogicalNotExpr{Op: op, Operand: operand}, nil
		case "~":
			return &BitNotExpr{Op: op, Operand: operand}, nil
		default:
			return &UnarySignExpr{Op: op, Operand: operand}, nil
		}

	case t.Kind == Punctuator && (t.Text == "++" || t.Text == "--"):
		op := p.src.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &PreAdjustExpr{Op: op, Operand: operand}, nil

	case t.Kind == Keyword && t.Text == "sizeof":
		return p.parseSizeof()

	case t.Kind == Punctuator && t.Text == "(":
		if p.looksLikeCast() {
			return p.parseCast()
		}
	}

	return p.parsePostfix()
}

func (p *parser) parseSizeof() (Node, error) {
	kw := p.src.next()
	if p.src.isPunct("(") && p.nextLooksLikeType() {
		lparen := p.src.next()
		tn, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		rparen, err := p.expectPunct(")")
		if err != nil {
			return nil, err
		}
		return &SizeofExpr{Kw: kw, Operand: &ParenExpr{LParen: lparen, Inner: tn, RParen: rparen}}, nil
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &SizeofExpr{Kw: kw, Operand: operand}, nil
}

/*
nextLooksLikeType reports whether the token following an opening '(' (not
yet consumed) starts a type-name, the minimal lookahead a C-family grammar
needs to disambiguate "sizeof(x)" from "sizeof(int)" and a cast from a
parenthesized expression.
*/
func (p *parser) nextLooksLikeType() bool {
	t := p.src.peekAt(1)
	if t == nil {
		return false
	}
	if t.Kind == Keyword {
		return basicTypeKeywords[t.Text] || qualifierKeywords[t.Text] ||
			t.Text == "struct" || t.Text == "union" || t.Text == "enum"
	}
	return t.Kind == Identifier && p.typedefs[t.Text]
}

func (p *parser) looksLikeCast() bool {
	return p.nextLooksLikeType()
}

func (p *parser) parseTypeName() (*TypeName, error) {
	specs, err := p.parseDeclSpecList()
	if err != nil {
		return nil, err
	}
	tn := &TypeName{Specs: specs}
	if !p.src.isPunct(")") {
		d, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		tn.Declarator = d
	}
	return tn, nil
}

func (p *parser) parseCast() (Node, error) {
	lparen := p.src.next()
	tn, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	rparen, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &CastExpr{LParen: lparen, Type: tn, RParen: rparen, Operand: operand}, nil
}

func (p *parser) parsePostfix() (Node, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.src.peek()
		if t == nil || t.Kind != Punctuator {
			return e, nil
		}
		switch t.Text {
		case "[":
			lbrack := p.src.next()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			rbrack, err := p.expectPunct("]")
			if err != nil {
				return nil, err
			}
			e = &SubscriptExpr{Base: e, LBrack: lbrack, Index: idx, RBrack: rbrack}
		case "(":
			lparen := p.src.next()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			rparen, err := p.expectPunct(")")
			if err != nil {
				return nil, err
			}
			e = &CallExpr{Callee: e, LParen: lparen, Args: args, RParen: rparen}
		case ".":
			dot := p.src.next()
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			e = &MemberExpr{Base: e, Dot: dot, Name: name}
		case "->":
			arrow := p.src.next()
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			e = &IndirectMemberExpr{Base: e, Arrow: arrow, Name: name}
		case "++", "--":
			op := p.src.next()
			e = &PostAdjustExpr{Operand: e, Op: op}
		default:
			return e, nil
		}
	}
}

func (p *parser) parseArgs() ([]*CallArg, error) {
	var args []*CallArg
	if p.src.isPunct(")") {
		return args, nil
	}

	var comma *Token
	for {
		e, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, &CallArg{Comma: comma, Expr: e})
		if !p.src.isPunct(",") {
			break
		}
		comma = p.src.next()
	}

	return args, nil
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.src.peek()
	if t == nil {
		return nil, p.errorf(nil, "unexpected end of input in expression")
	}

	switch t.Kind {
	case IntLiteral:
		return &IntLit{Tok: p.src.next()}, nil
	case CharLiteral:
		return &CharLit{Tok: p.src.next()}, nil
	case StringLiteral:
		return &StringLit{Tok: p.src.next()}, nil
	case Identifier:
		return &IdentExpr{Tok: p.src.next()}, nil
	case Punctuator:
		if t.Text == "(" {
			lparen := p.src.next()
			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			rparen, err := p.expectPunct(")")
			if err != nil {
				return nil, err
			}
			return &ParenExpr{LParen: lparen, Inner: inner, RParen: rparen}, nil
		}
	}

	return nil, p.errorf(t, "unexpected token in expression")
}
