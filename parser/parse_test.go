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
	"testing"

	"github.com/stretchr/testify/assert"
)

func parse(t *testing.T, src string) *Module {
	buf, err := Lex("test.c", src)
	assert.NoError(t, err)
	m, err := Parse("test.c", buf)
	assert.NoError(t, err)
	return m
}

func TestParseFuncDef(t *testing.T) {
	m := parse(t, "int main(void)\n{\n\treturn 0;\n}\n")

	assert.Len(t, m.Decls, 1)
	fd, ok := m.Decls[0].(*FuncDef)
	assert.True(t, ok)

	dspecs := fd.DSpecs.(*DeclSpecList)
	assert.Len(t, dspecs.Items, 1)
	_, ok = dspecs.Items[0].(*BasicTypeSpec)
	assert.True(t, ok)

	assert.Equal(t, "main", declaratorName(fd.Declarator))
	mainDecl := fd.Declarator.(*FuncDeclarator)
	assert.Len(t, mainDecl.Params, 0)

	assert.Len(t, fd.Body.Stmts, 1)
	ret, ok := fd.Body.Stmts[0].(*ReturnStmt)
	assert.True(t, ok)
	lit, ok := ret.Expr.(*IntLit)
	assert.True(t, ok)
	assert.Equal(t, "0", lit.Tok.Text)
}

func TestParseGlobalDeclaratorList(t *testing.T) {
	m := parse(t, "int a, *b, c[10];\n")

	assert.Len(t, m.Decls, 1)
	gd := m.Decls[0].(*GlobalDecl)
	list := gd.Declarator.(*DeclaratorList)
	assert.Len(t, list.Items, 3)

	assert.Equal(t, "a", declaratorName(list.Items[0].Declarator))
	assert.Nil(t, list.Items[0].Comma)

	_, isPtr := list.Items[1].Declarator.(*PointerDeclarator)
	assert.True(t, isPtr)
	assert.NotNil(t, list.Items[1].Comma)

	arr, isArr := list.Items[2].Declarator.(*ArrayDeclarator)
	assert.True(t, isArr)
	size := arr.Size.(*IntLit)
	assert.Equal(t, "10", size.Tok.Text)
}

func TestParseTypedefAndUse(t *testing.T) {
	m := parse(t, "typedef int myint;\nmyint x;\n")

	assert.Len(t, m.Decls, 2)

	second := m.Decls[1].(*GlobalDecl)
	dspecs := second.DSpecs.(*DeclSpecList)
	_, ok := dspecs.Items[0].(*IdentTypeSpec)
	assert.True(t, ok, "expected the typedef name to parse as a type specifier")
}

func TestParseStructWithBody(t *testing.T) {
	m := parse(t, "struct Point {\n\tint x;\n\tint y;\n};\n")

	gd := m.Decls[0].(*GlobalDecl)
	dspecs := gd.DSpecs.(*DeclSpecList)
	rs := dspecs.Items[0].(*RecordSpec)

	assert.Equal(t, "Point", rs.Tag.Text)
	assert.True(t, rs.HasDef)
	assert.Len(t, rs.Elements, 2)
}

func TestParseEnumWithValues(t *testing.T) {
	m := parse(t, "enum Color { RED, GREEN = 5, BLUE };\n")

	gd := m.Decls[0].(*GlobalDecl)
	dspecs := gd.DSpecs.(*DeclSpecList)
	es := dspecs.Items[0].(*EnumSpec)

	assert.Len(t, es.Enumerators, 3)
	assert.Equal(t, "RED", es.Enumerators[0].Name.Text)
	assert.Nil(t, es.Enumerators[0].Comma)
	assert.Nil(t, es.Enumerators[0].Value)

	assert.Equal(t, "GREEN", es.Enumerators[1].Name.Text)
	assert.NotNil(t, es.Enumerators[1].Comma)
	val := es.Enumerators[1].Value.(*IntLit)
	assert.Equal(t, "5", val.Tok.Text)

	assert.Equal(t, "BLUE", es.Enumerators[2].Name.Text)
}

func TestParseExprPrecedenceAndAssociativity(t *testing.T) {
	m := parse(t, "int main(void) { x = 1 + 2 * 3; }\n")

	fd := m.Decls[0].(*FuncDef)
	stmt := fd.Body.Stmts[0].(*ExprStmt)
	assign := stmt.Expr.(*BinaryExpr)
	assert.Equal(t, "=", assign.Op.Text)

	add := assign.Right.(*BinaryExpr)
	assert.Equal(t, "+", add.Op.Text)

	mul := add.Right.(*BinaryExpr)
	assert.Equal(t, "*", mul.Op.Text)
}

func TestParseExprLeftAssociative(t *testing.T) {
	m := parse(t, "int main(void) { x = a - b - c; }\n")

	fd := m.Decls[0].(*FuncDef)
	stmt := fd.Body.Stmts[0].(*ExprStmt)
	assign := stmt.Expr.(*BinaryExpr)

	outer := assign.Right.(*BinaryExpr)
	assert.Equal(t, "-", outer.Op.Text)
	inner := outer.Left.(*BinaryExpr)
	assert.Equal(t, "-", inner.Op.Text)
	assert.IsType(t, &IdentExpr{}, inner.Left)
}

func TestParseSizeofType(t *testing.T) {
	m := parse(t, "int main(void) { x = sizeof(int); }\n")

	fd := m.Decls[0].(*FuncDef)
	stmt := fd.Body.Stmts[0].(*ExprStmt)
	assign := stmt.Expr.(*BinaryExpr)
	sz := assign.Right.(*SizeofExpr)

	paren := sz.Operand.(*ParenExpr)
	tn := paren.Inner.(*TypeName)
	dspecs := tn.Specs.(*DeclSpecList)
	_, ok := dspecs.Items[0].(*BasicTypeSpec)
	assert.True(t, ok)
}

func TestParseSizeofExpr(t *testing.T) {
	m := parse(t, "int main(void) { x = sizeof(y); }\n")

	fd := m.Decls[0].(*FuncDef)
	stmt := fd.Body.Stmts[0].(*ExprStmt)
	assign := stmt.Expr.(*BinaryExpr)
	sz := assign.Right.(*SizeofExpr)

	_, ok := sz.Operand.(*ParenExpr)
	assert.True(t, ok, "sizeof(y) where y is not a typedef name must parse as a parenthesized expression operand")
}

func TestParseCastVsParenExpr(t *testing.T) {
	m := parse(t, "typedef int myint;\nint main(void) { x = (myint) y; z = (y); }\n")

	fd := m.Decls[1].(*FuncDef)

	castStmt := fd.Body.Stmts[0].(*ExprStmt)
	castAssign := castStmt.Expr.(*BinaryExpr)
	_, ok := castAssign.Right.(*CastExpr)
	assert.True(t, ok, "(myint) y must parse as a cast once myint is a known typedef name")

	parenStmt := fd.Body.Stmts[1].(*ExprStmt)
	parenAssign := parenStmt.Expr.(*BinaryExpr)
	_, ok = parenAssign.Right.(*ParenExpr)
	assert.True(t, ok, "(y) must parse as a parenthesized expression, not a cast")
}

func TestParseIfElseIfChain(t *testing.T) {
	m := parse(t, "int main(void) {\n\tif (a)\n\t\tx = 1;\n\telse if (b)\n\t\tx = 2;\n\telse\n\t\tx = 3;\n}\n")

	fd := m.Decls[0].(*FuncDef)
	stmt := fd.Body.Stmts[0].(*IfStmt)

	assert.False(t, stmt.Then.Braced)
	elseIf, ok := stmt.Else.(*IfStmt)
	assert.True(t, ok)

	_, ok = elseIf.Else.(*Block)
	assert.True(t, ok)
}

func TestParseForLoop(t *testing.T) {
	m := parse(t, "int main(void) {\n\tfor (i = 0; i < 10; i = i + 1) {\n\t\tx = i;\n\t}\n}\n")

	fd := m.Decls[0].(*FuncDef)
	stmt := fd.Body.Stmts[0].(*ForStmt)

	assert.IsType(t, &BinaryExpr{}, stmt.Init)
	assert.IsType(t, &BinaryExpr{}, stmt.Cond)
	assert.IsType(t, &BinaryExpr{}, stmt.Next)
	assert.Len(t, stmt.Body.Stmts, 1)
}

func TestParseSwitchCaseDefault(t *testing.T) {
	m := parse(t, "int main(void) {\n\tswitch (x) {\n\tcase 1:\n\t\ty = 1;\n\t\tbreak;\n\tdefault:\n\t\ty = 0;\n\t}\n}\n")

	fd := m.Decls[0].(*FuncDef)
	stmt := fd.Body.Stmts[0].(*SwitchStmt)

	assert.Len(t, stmt.Body.Stmts, 5)
	caseLabel := stmt.Body.Stmts[0].(*CaseLabel)
	assert.Equal(t, "case", caseLabel.Kw.Text)
	assert.NotNil(t, caseLabel.Expr)

	defLabel := stmt.Body.Stmts[3].(*CaseLabel)
	assert.Equal(t, "default", defLabel.Kw.Text)
	assert.Nil(t, defLabel.Expr)
}

func TestParseFuncDeclaratorWithParams(t *testing.T) {
	m := parse(t, "int add(int a, int b);\n")

	gd := m.Decls[0].(*GlobalDecl)
	list := gd.Declarator.(*DeclaratorList)
	fd := list.Items[0].Declarator.(*FuncDeclarator)

	assert.Len(t, fd.Params, 2)
	assert.Equal(t, "a", declaratorName(fd.Params[0].Declarator))
	assert.NotNil(t, fd.Params[0].Comma)
	assert.Equal(t, "b", declaratorName(fd.Params[1].Declarator))
	assert.Nil(t, fd.Params[1].Comma)
}

func TestParseAbstractFuncDeclarator(t *testing.T) {
	m := parse(t, "void f(int, char*);\n")

	gd := m.Decls[0].(*GlobalDecl)
	list := gd.Declarator.(*DeclaratorList)
	fd := list.Items[0].Declarator.(*FuncDeclarator)

	assert.True(t, IsAbstract(fd.Params[0].Declarator))
	assert.True(t, IsAbstract(fd.Params[1].Declarator))
}

func TestParseCallWithArgs(t *testing.T) {
	m := parse(t, "int main(void) { f(1, 2, g(3)); }\n")

	fd := m.Decls[0].(*FuncDef)
	stmt := fd.Body.Stmts[0].(*ExprStmt)
	call := stmt.Expr.(*CallExpr)

	assert.Len(t, call.Args, 3)
	assert.Nil(t, call.Args[0].Comma)
	assert.NotNil(t, call.Args[1].Comma)

	inner := call.Args[2].Expr.(*CallExpr)
	assert.Len(t, inner.Args, 1)
}

func TestParseMemberAndIndirectMember(t *testing.T) {
	m := parse(t, "int main(void) { x = p->a.b; }\n")

	fd := m.Decls[0].(*FuncDef)
	stmt := fd.Body.Stmts[0].(*ExprStmt)
	assign := stmt.Expr.(*BinaryExpr)

	member := assign.Right.(*MemberExpr)
	assert.Equal(t, "b", member.Name.Text)

	indirect := member.Base.(*IndirectMemberExpr)
	assert.Equal(t, "a", indirect.Name.Text)
}

func TestParseGlobalDeclaratorWithInitializer(t *testing.T) {
	m := parse(t, "int x = 1 + 2;\n")

	gd := m.Decls[0].(*GlobalDecl)
	list := gd.Declarator.(*DeclaratorList)
	assert.Len(t, list.Items, 1)

	entry := list.Items[0]
	assert.Equal(t, "x", declaratorName(entry.Declarator))
	assert.NotNil(t, entry.Eq)

	init := entry.Init.(*BinaryExpr)
	left := init.Left.(*IntLit)
	right := init.Right.(*IntLit)
	assert.Equal(t, "1", left.Tok.Text)
	assert.Equal(t, "2", right.Tok.Text)
}

func TestParseGlobalDeclaratorListMixedInitializers(t *testing.T) {
	m := parse(t, "int a = 1, b, c = 3;\n")

	gd := m.Decls[0].(*GlobalDecl)
	list := gd.Declarator.(*DeclaratorList)
	assert.Len(t, list.Items, 3)

	assert.NotNil(t, list.Items[0].Init)
	assert.Nil(t, list.Items[1].Eq)
	assert.Nil(t, list.Items[1].Init)
	assert.NotNil(t, list.Items[2].Init)
}

func TestParseLocalDeclaratorWithInitializer(t *testing.T) {
	m := parse(t, "int f(void)\n{\n\tint x = 1 + 2;\n}\n")

	fd := m.Decls[0].(*FuncDef)
	local := fd.Body.Stmts[0].(*GlobalDecl)
	list := local.Declarator.(*DeclaratorList)

	entry := list.Items[0]
	assert.Equal(t, "x", declaratorName(entry.Declarator))
	assert.NotNil(t, entry.Eq)
	assert.NotNil(t, entry.Init)
}

func TestParseStructMemberHasNoInitializer(t *testing.T) {
	m := parse(t, "struct Point {\n\tint x;\n\tint y;\n};\n")

	gd := m.Decls[0].(*GlobalDecl)
	dspecs := gd.DSpecs.(*DeclSpecList)
	rs := dspecs.Items[0].(*RecordSpec)

	for _, el := range rs.Elements {
		member := el.(*GlobalDecl)
		list := member.Declarator.(*DeclaratorList)
		for _, entry := range list.Items {
			assert.Nil(t, entry.Eq)
			assert.Nil(t, entry.Init)
		}
	}
}
