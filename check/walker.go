/*
 * cstyle
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package check

import (
	"github.com/krotik/cstyle/parser"
)

/*
Walker performs one top-down pass over a Module, applying the whitespace
primitives to every significant token in source order. In report mode it
accumulates Violations without mutating the buffer; in fix mode it
mutates the buffer in place and returns no violations, per the primitive
contract (a primitive never both reports and fixes the same violation).
*/
type Walker struct {
	Source string
	Buf    *parser.Buffer

	violations []*Violation
}

/*
NewWalker creates a walker over buf, tagging any reported violation with
source (used for the "file:line:col: message" output format).
*/
func NewWalker(source string, buf *parser.Buffer) *Walker {
	return &Walker{Source: source, Buf: buf}
}

/*
Walk traverses m in the given mode (fix=true mutates the buffer, fix=false
only reports) and returns the accumulated violations (always empty in fix
mode).
*/
func (w *Walker) Walk(m *parser.Module, fix bool) []*Violation {
	w.violations = nil
	top := NewScope(fix)
	for _, d := range m.Decls {
		w.checkExternalDecl(top, d)
	}
	return w.violations
}

func (w *Walker) add(v *Violation) {
	if v != nil {
		w.violations = append(w.violations, v)
	}
}

// Thin wrappers around the Scope primitives, to keep the rule tables
// below readable.

func (w *Walker) any(s *Scope, tok *parser.Token) {
	if tok != nil {
		s.Any(w.Buf, tok)
	}
}

func (w *Walker) lbegin(s *Scope, tok *parser.Token, msg string) {
	if tok != nil {
		w.add(s.LineBegin(w.Source, w.Buf, tok, msg))
	}
}

func (w *Walker) nowsBefore(s *Scope, tok *parser.Token, msg string) {
	if tok != nil {
		w.add(s.NoWSBefore(w.Source, w.Buf, tok, msg))
	}
}

func (w *Walker) nowsAfter(s *Scope, tok *parser.Token, msg string) {
	if tok != nil {
		w.add(s.NoWSAfter(w.Source, w.Buf, tok, msg))
	}
}

func (w *Walker) nsbrkAfter(s *Scope, tok *parser.Token, msg string) {
	if tok != nil {
		w.add(s.NoSpaceBreakAfter(w.Source, w.Buf, tok, msg))
	}
}

func (w *Walker) brkBefore(s *Scope, tok *parser.Token, msg string) {
	if tok != nil {
		w.add(s.BreakSpaceBefore(w.Source, w.Buf, tok, msg))
	}
}

func (w *Walker) brkAfter(s *Scope, tok *parser.Token, msg string) {
	if tok != nil {
		w.add(s.BreakSpaceAfter(w.Source, w.Buf, tok, msg))
	}
}

func (w *Walker) nbspaceBefore(s *Scope, tok *parser.Token, msg string) {
	if tok != nil {
		w.add(s.NBSpaceBefore(w.Source, w.Buf, tok, msg))
	}
}

// Declaration level
// =================

func (w *Walker) checkExternalDecl(s *Scope, n parser.Node) {
	switch d := n.(type) {
	case *parser.GlobalDecl:
		w.checkDecl(s, d)
	case *parser.FuncDef:
		w.checkFuncDef(s, d)
	}
}

func (w *Walker) checkDecl(s *Scope, d *parser.GlobalDecl) {
	w.lbegin(s, d.DSpecs.FirstToken(), "Declaration must start at the beginning of a line")
	w.checkDeclSpecs(s, d.DSpecs)

	if d.Declarator != nil {
		list := d.Declarator.(*parser.DeclaratorList)
		w.brkBefore(s, list.Items[0].Declarator.FirstToken(), "Single space expected before declarator")
		w.checkDeclaratorList(s, list)
	}

	w.nowsBefore(s, d.Semi, "No space expected before ';'")
}

func (w *Walker) checkFuncDef(s *Scope, d *parser.FuncDef) {
	w.lbegin(s, d.DSpecs.FirstToken(), "Declaration must start at the beginning of a line")
	w.checkDeclSpecs(s, d.DSpecs)
	w.brkBefore(s, d.Declarator.FirstToken(), "Single space expected before declarator")
	w.checkDeclarator(s, d.Declarator)
	w.checkFuncBody(s, d.Body)
}

func (w *Walker) checkFuncBody(s *Scope, b *parser.Block) {
	w.lbegin(s, b.LBrace, "Opening brace of function body must start a new line")
	inner := s.Nested()
	for _, st := range b.Stmts {
		w.checkStmt(inner, st)
	}
	w.lbegin(s, b.RBrace, "Closing brace must start a new line")
}

// Declaration specifiers / type specifiers
// =========================================

func (w *Walker) checkDeclSpecs(s *Scope, n parser.Node) {
	switch l := n.(type) {
	case *parser.DeclSpecList:
		for _, it := range l.Items {
			w.checkSpecItem(s, it)
		}
	case *parser.SpecQualList:
		for _, it := range l.Items {
			w.checkSpecItem(s, it)
		}
	}
}

func (w *Walker) checkSpecItem(s *Scope, n parser.Node) {
	switch t := n.(type) {
	case *parser.StorageClassSpec:
		w.any(s, t.Kw)
	case *parser.Qualifier:
		w.any(s, t.Kw)
	case *parser.FuncSpec:
		w.any(s, t.Kw)
	case *parser.BasicTypeSpec:
		w.any(s, t.Kw)
	case *parser.IdentTypeSpec:
		w.any(s, t.Name)
	case *parser.RecordSpec:
		w.checkRecordSpec(s, t)
	case *parser.EnumSpec:
		w.checkEnumSpec(s, t)
	}
}

func (w *Walker) checkRecordSpec(s *Scope, r *parser.RecordSpec) {
	w.any(s, r.Kw)
	w.any(s, r.Tag)

	if !r.HasDef {
		return
	}

	w.brkBefore(s, r.LBrace, "Single space expected before '{'")
	inner := s.Nested()
	for _, el := range r.Elements {
		w.checkDecl(inner, el.(*parser.GlobalDecl))
	}
	w.lbegin(s, r.RBrace, "Closing brace must start a new line")
}

func (w *Walker) checkEnumSpec(s *Scope, e *parser.EnumSpec) {
	w.any(s, e.Kw)
	w.any(s, e.Tag)

	if !e.HasDef {
		return
	}

	w.brkBefore(s, e.LBrace, "Single space expected before '{'")
	inner := s.Nested()
	for _, en := range e.Enumerators {
		if en.Comma != nil {
			w.nowsBefore(inner, en.Comma, "No space expected before ','")
		}
		w.lbegin(inner, en.Name, "Enumerator must start a new line")
		if en.Eq != nil {
			w.brkBefore(inner, en.Eq, "Single space expected before '='")
			w.brkAfter(inner, en.Eq, "Single space expected after '='")
			w.checkExpr(inner, en.Value)
		}
	}
	w.lbegin(s, e.RBrace, "Closing brace must start a new line")
}

// Declarators
// ===========

func (w *Walker) checkDeclaratorList(s *Scope, list *parser.DeclaratorList) {
	for _, entry := range list.Items {
		if entry.Comma != nil {
			w.nowsBefore(s, entry.Comma, "No space expected before ','")
			w.brkAfter(s, entry.Comma, "Single space expected after ','")
		}
		w.checkDeclarator(s, entry.Declarator)
		if entry.Eq != nil {
			w.brkBefore(s, entry.Eq, "Single space expected before '='")
			w.brkAfter(s, entry.Eq, "Single space expected after '='")
			w.checkExpr(s, entry.Init)
		}
	}
}

func (w *Walker) checkDeclarator(s *Scope, n parser.Node) {
	switch d := n.(type) {
	case *parser.IdentDeclarator:
		w.any(s, d.Name)
	case *parser.AbstractDeclarator:
		// no tokens
	case *parser.ParenDeclarator:
		w.nowsAfter(s, d.LParen, "No space expected after '('")
		w.checkDeclarator(s, d.Base)
		w.nowsBefore(s, d.RParen, "No space expected before ')'")
	case *parser.PointerDeclarator:
		w.nowsAfter(s, d.Star, "No space expected after '*'")
		w.checkDeclarator(s, d.Base)
	case *parser.FuncDeclarator:
		w.checkDeclarator(s, d.Base)
		w.nsbrkAfter(s, d.LParen, "No space expected after '('")
		for _, param := range d.Params {
			w.checkDeclSpecs(s, param.DSpecs)
			if !parser.IsAbstract(param.Declarator) {
				w.brkBefore(s, param.Declarator.FirstToken(), "Single space expected before declarator")
			}
			w.checkDeclarator(s, param.Declarator)
			if param.Comma != nil {
				w.nowsBefore(s, param.Comma, "No space expected before ','")
				w.brkAfter(s, param.Comma, "Single space expected after ','")
			}
		}
		w.nowsBefore(s, d.RParen, "No space expected before ')'")
	case *parser.ArrayDeclarator:
		w.checkDeclarator(s, d.Base)
		w.nowsAfter(s, d.LBrack, "No space expected after '['")
		if d.Size != nil {
			w.checkExpr(s, d.Size)
		}
		w.nowsBefore(s, d.RBrack, "No space expected before ']'")
	}
}

// Statements
// ==========

func (w *Walker) checkBlockAsBody(s *Scope, b *parser.Block, openMsg, closeMsg string) {
	if b.Braced {
		w.nbspaceBefore(s, b.LBrace, openMsg)
		inner := s.Nested()
		for _, st := range b.Stmts {
			w.checkStmt(inner, st)
		}
		w.lbegin(s, b.RBrace, closeMsg)
		return
	}

	inner := s.Nested()
	for _, st := range b.Stmts {
		w.checkStmt(inner, st)
	}
}

func (w *Walker) checkStmt(s *Scope, n parser.Node) {
	switch st := n.(type) {
	case *parser.GlobalDecl:
		w.checkDecl(s, st)
	case *parser.ReturnStmt:
		w.lbegin(s, st.Kw, "'return' must start a new line")
		if st.Expr != nil {
			w.checkExpr(s, st.Expr)
		}
		w.nowsBefore(s, st.Semi, "No space expected before ';'")
	case *parser.BreakStmt:
		w.lbegin(s, st.Kw, "'break' must start a new line")
		w.nowsBefore(s, st.Semi, "No space expected before ';'")
	case *parser.ContinueStmt:
		w.lbegin(s, st.Kw, "'continue' must start a new line")
		w.nowsBefore(s, st.Semi, "No space expected before ';'")
	case *parser.GotoStmt:
		w.lbegin(s, st.Kw, "'goto' must start a new line")
		w.any(s, st.Target)
		w.nowsBefore(s, st.Semi, "No space expected before ';'")
	case *parser.IfStmt:
		w.checkIf(s, st)
	case *parser.WhileStmt:
		w.checkWhile(s, st)
	case *parser.DoWhileStmt:
		w.checkDoWhile(s, st)
	case *parser.ForStmt:
		w.checkFor(s, st)
	case *parser.SwitchStmt:
		w.checkSwitch(s, st)
	case *parser.CaseLabel:
		w.checkCaseLabel(s, st)
	case *parser.GotoLabel:
		w.checkGotoLabel(s, st)
	case *parser.ExprStmt:
		w.lbegin(s, st.Expr.FirstToken(), "Statement must start a new line")
		w.checkExpr(s, st.Expr)
		w.nowsBefore(s, st.Semi, "No space expected before ';'")
	}
}

func (w *Walker) checkIf(s *Scope, st *parser.IfStmt) {
	w.lbegin(s, st.Kw, "'if' must start a new line")
	w.nbspaceBefore(s, st.LParen, "Single space expected before '('")
	w.nsbrkAfter(s, st.LParen, "No space expected after '('")
	w.checkExpr(s, st.Cond)
	w.nowsBefore(s, st.RParen, "No space expected before ')'")
	w.checkBlockAsBody(s, st.Then, "Single space expected before '{'", "Closing brace must start a new line")

	if st.Else == nil {
		return
	}

	if st.Then.Braced {
		w.nbspaceBefore(s, st.ElseKw, "Single space expected before 'else'")
	} else {
		w.lbegin(s, st.ElseKw, "'else' must start a new line")
	}

	switch e := st.Else.(type) {
	case *parser.Block:
		w.checkBlockAsBody(s, e, "Single space expected before '{'", "Closing brace must start a new line")
	case *parser.IfStmt:
		w.checkIf(s, e)
	}
}

func (w *Walker) checkWhile(s *Scope, st *parser.WhileStmt) {
	w.lbegin(s, st.Kw, "'while' must start a new line")
	w.nbspaceBefore(s, st.LParen, "Single space expected before '('")
	w.nsbrkAfter(s, st.LParen, "No space expected after '('")
	w.checkExpr(s, st.Cond)
	w.nowsBefore(s, st.RParen, "No space expected before ')'")
	w.checkBlockAsBody(s, st.Body, "Single space expected before '{'", "Closing brace must start a new line")
}

func (w *Walker) checkDoWhile(s *Scope, st *parser.DoWhileStmt) {
	w.lbegin(s, st.DoKw, "'do' must start a new line")
	w.checkBlockAsBody(s, st.Body, "Single space expected before '{'", "Closing brace must start a new line")

	if st.Body.Braced {
		w.nbspaceBefore(s, st.WhileKw, "Single space expected before 'while'")
	} else {
		w.lbegin(s, st.WhileKw, "'while' must start a new line")
	}

	w.nbspaceBefore(s, st.LParen, "Single space expected before '('")
	w.nsbrkAfter(s, st.LParen, "No space expected after '('")
	w.checkExpr(s, st.Cond)
	w.nowsBefore(s, st.RParen, "No space expected before ')'")
	w.nowsBefore(s, st.Semi, "No space expected before ';'")
}

func (w *Walker) checkFor(s *Scope, st *parser.ForStmt) {
	w.lbegin(s, st.Kw, "'for' must start a new line")
	w.nbspaceBefore(s, st.LParen, "Single space expected before '('")

	if st.Init != nil {
		w.checkExpr(s, st.Init)
	}
	w.nowsBefore(s, st.Semi1, "No space expected before ';'")
	w.brkAfter(s, st.Semi1, "Single space expected after ';'")

	if st.Cond != nil {
		w.checkExpr(s, st.Cond)
	}
	w.nowsBefore(s, st.Semi2, "No space expected before ';'")
	w.brkAfter(s, st.Semi2, "Single space expected after ';'")

	if st.Next != nil {
		w.checkExpr(s, st.Next)
	}
	w.nowsBefore(s, st.RParen, "No space expected before ')'")

	w.checkBlockAsBody(s, st.Body, "Single space expected before '{'", "Closing brace must start a new line")
}

func (w *Walker) checkSwitch(s *Scope, st *parser.SwitchStmt) {
	w.lbegin(s, st.Kw, "'switch' must start a new line")
	w.nbspaceBefore(s, st.LParen, "Single space expected before '('")
	w.nsbrkAfter(s, st.LParen, "No space expected after '('")
	w.checkExpr(s, st.Cond)
	w.nowsBefore(s, st.RParen, "No space expected before ')'")

	w.nbspaceBefore(s, st.Body.LBrace, "Single space expected before '{'")
	inner := s.Nested()
	for _, stmt := range st.Body.Stmts {
		w.checkStmt(inner, stmt)
	}
	w.lbegin(s, st.Body.RBrace, "Closing brace must start a new line")
}

func (w *Walker) checkCaseLabel(s *Scope, l *parser.CaseLabel) {
	label := s.At(s.IndentLevel - 1)
	w.lbegin(label, l.Kw, "Case label must start a new line")

	if l.Expr != nil {
		w.nbspaceBefore(s, l.Expr.FirstToken(), "Single space expected before case expression")
		w.checkExpr(s, l.Expr)
	}
	w.nowsBefore(s, l.Colon, "No space expected before ':'")
}

func (w *Walker) checkGotoLabel(s *Scope, l *parser.GotoLabel) {
	label := s.At(s.IndentLevel - 1)
	w.lbegin(label, l.Name, "Label must start a new line")
	w.nowsBefore(s, l.Colon, "No space expected before ':'")
}

// Expressions
// ===========

func (w *Walker) checkExpr(s *Scope, n parser.Node) {
	if n == nil {
		return
	}

	switch e := n.(type) {
	case *parser.IntLit:
		w.any(s, e.Tok)
	case *parser.CharLit:
		w.any(s, e.Tok)
	case *parser.StringLit:
		w.any(s, e.Tok)
	case *parser.IdentExpr:
		w.any(s, e.Tok)
	case *parser.ParenExpr:
		w.nowsAfter(s, e.LParen, "No space expected after '('")
		w.checkExpr(s, e.Inner)
		w.nowsBefore(s, e.RParen, "No space expected before ')'")
	case *parser.BinaryExpr:
		w.checkExpr(s, e.Left)
		w.nbspaceBefore(s, e.Op, "Single space expected before binary operator")
		w.brkAfter(s, e.Op, "Single space expected after binary operator")
		w.checkExpr(s, e.Right)
	case *parser.TernaryExpr:
		w.checkExpr(s, e.Cond)
		w.nbspaceBefore(s, e.Q, "Single space expected before '?'")
		w.brkAfter(s, e.Q, "Single space expected after '?'")
		w.checkExpr(s, e.Then)
		w.nbspaceBefore(s, e.Colon, "Single space expected before ':'")
		w.brkAfter(s, e.Colon, "Single space expected after ':'")
		w.checkExpr(s, e.Else)
	case *parser.CommaExpr:
		w.checkExpr(s, e.Left)
		w.nowsBefore(s, e.Comma, "No space expected before ','")
		w.brkAfter(s, e.Comma, "Single space expected after ','")
		w.checkExpr(s, e.Right)
	case *parser.CallExpr:
		w.checkExpr(s, e.Callee)
		w.nowsAfter(s, e.LParen, "No space expected after '('")
		for _, a := range e.Args {
			if a.Comma != nil {
				w.nowsBefore(s, a.Comma, "No space expected before ','")
				w.brkAfter(s, a.Comma, "Single space expected after ','")
			}
			w.checkExpr(s, a.Expr)
		}
		w.nowsBefore(s, e.RParen, "No space expected before ')'")
	case *parser.SubscriptExpr:
		w.checkExpr(s, e.Base)
		w.nowsAfter(s, e.LBrack, "No space expected after '['")
		w.checkExpr(s, e.Index)
		w.nowsBefore(s, e.RBrack, "No space expected before ']'")
	case *parser.DerefExpr:
		w.nowsAfter(s, e.Star, "No space expected after '*'")
		w.checkExpr(s, e.Operand)
	case *parser.AddrExpr:
		w.nowsAfter(s, e.Amp, "No space expected after '&'")
		w.checkExpr(s, e.Operand)
	case *parser.SizeofExpr:
		w.nowsAfter(s, e.Kw, "No space expected after 'sizeof'")
		w.checkExpr(s, e.Operand)
	case *parser.MemberExpr:
		w.checkExpr(s, e.Base)
		w.nowsBefore(s, e.Dot, "No space expected before '.'")
		w.nsbrkAfter(s, e.Dot, "No space expected after '.'")
		w.any(s, e.Name)
	case *parser.IndirectMemberExpr:
		w.checkExpr(s, e.Base)
		w.nowsBefore(s, e.Arrow, "No space expected before '->'")
		w.nsbrkAfter(s, e.Arrow, "No space expected after '->'")
		w.any(s, e.Name)
	case *parser.UnarySignExpr:
		w.nowsAfter(s, e.Op, "No space expected after unary operator")
		w.checkExpr(s, e.Operand)
	case *parser.LogicalNotExpr:
		w.nowsAfter(s, e.Op, "No space expected after '!'")
		w.checkExpr(s, e.Operand)
	case *parser.BitNotExpr:
		w.nowsAfter(s, e.Op, "No space expected after '~'")
		w.checkExpr(s, e.Operand)
	case *parser.PreAdjustExpr:
		w.nowsAfter(s, e.Op, "No space expected after '++'/'--'")
		w.checkExpr(s, e.Operand)
	case *parser.PostAdjustExpr:
		w.checkExpr(s, e.Operand)
		w.nowsBefore(s, e.Op, "No space expected before '++'/'--'")
	case *parser.TypeName:
		w.checkDeclSpecs(s, e.Specs)
		if e.Declarator != nil {
			w.checkDeclarator(s, e.Declarator)
		}
	case *parser.CastExpr:
		w.nowsAfter(s, e.LParen, "No space expected after '('")
		w.checkExpr(s, e.Type)
		w.nowsBefore(s, e.RParen, "No space expected before ')'")
		w.checkExpr(s, e.Operand)
	}
}
