/*
 * cstyle
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/krotik/common/stringutil"
	"github.com/spf13/cobra"

	"github.com/krotik/cstyle/parser"
	"github.com/krotik/cstyle/util"
)

var dumpTokensCmd = &cobra.Command{
	Use:   "dump-tokens <file>",
	Short: "Print every token of a file, including whitespace",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("need exactly one file")
		}

		_, buf, _, err := loadAndParse(args[0])
		if buf == nil {
			return reportDumpError(err)
		}

		for t := buf.First(); t != nil; t = t.Next() {
			fmt.Println(t.String())
		}

		return reportDumpError(err)
	},
}

var dumpASTCmd = &cobra.Command{
	Use:   "dump-ast <file>",
	Short: "Print the parsed AST of a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("need exactly one file")
		}

		_, _, mod, err := loadAndParse(args[0])
		if mod == nil {
			return reportDumpError(err)
		}

		for _, d := range mod.Decls {
			dumpNode(d, 0)
		}

		return reportDumpError(err)
	},
}

/*
reportDumpError prints a lex/parse failure as a JSON object (via
util.Error's MarshalJSON) so dump-tokens/dump-ast output stays
machine-readable even when the input doesn't parse, then returns the
error unchanged so the caller's exit code still reflects the failure.
*/
func reportDumpError(err error) error {
	if uerr, ok := err.(*util.Error); ok {
		if data, merr := json.MarshalIndent(uerr, "", "  "); merr == nil {
			fmt.Println(string(data))
		}
	}
	return err
}

func init() {
	rootCmd.AddCommand(dumpTokensCmd)
	rootCmd.AddCommand(dumpASTCmd)
}

func dumpNode(n parser.Node, depth int) {
	if n == nil {
		return
	}

	indent := stringutil.GenerateRollingString(" ", depth*2)
	first, last := n.FirstToken(), n.LastToken()

	var span string
	if first != nil && last != nil {
		span = fmt.Sprintf(" [%v - %v]", first.Begin, last.End)
	}

	fmt.Printf("%v%T%v\n", indent, n, span)

	for _, child := range children(n) {
		dumpNode(child, depth+1)
	}
}

/*
children enumerates the direct Node-typed children of n in source order,
the minimal reflection-free tree walk dump-ast needs.
*/
func children(n parser.Node) []parser.Node {
	switch t := n.(type) {
	case *parser.GlobalDecl:
		return nonNil(t.DSpecs, t.Declarator)
	case *parser.FuncDef:
		return nonNil(t.DSpecs, t.Declarator, t.Body)
	case *parser.RecordSpec:
		return t.Elements
	case *parser.EnumSpec:
		var out []parser.Node
		for _, e := range t.Enumerators {
			out = append(out, nonNil(e.Value)...)
		}
		return out
	case *parser.DeclSpecList:
		return t.Items
	case *parser.SpecQualList:
		return t.Items
	case *parser.DeclaratorList:
		var out []parser.Node
		for _, e := range t.Items {
			out = append(out, nonNil(e.Declarator, e.Init)...)
		}
		return out
	case *parser.ParenDeclarator:
		return nonNil(t.Base)
	case *parser.PointerDeclarator:
		return nonNil(t.Base)
	case *parser.FuncDeclarator:
		out := nonNil(t.Base)
		for _, p := range t.Params {
			out = append(out, nonNil(p.DSpecs, p.Declarator)...)
		}
		return out
	case *parser.ArrayDeclarator:
		return nonNil(t.Base, t.Size)
	case *parser.Block:
		return t.Stmts
	case *parser.ReturnStmt:
		return nonNil(t.Expr)
	case *parser.IfStmt:
		return nonNil(t.Cond, t.Then, t.Else)
	case *parser.WhileStmt:
		return nonNil(t.Cond, t.Body)
	case *parser.DoWhileStmt:
		return nonNil(t.Body, t.Cond)
	case *parser.ForStmt:
		return nonNil(t.Init, t.Cond, t.Next, t.Body)
	case *parser.SwitchStmt:
		return nonNil(t.Cond, t.Body)
	case *parser.CaseLabel:
		return nonNil(t.Expr)
	case *parser.ExprStmt:
		return nonNil(t.Expr)
	case *parser.ParenExpr:
		return nonNil(t.Inner)
	case *parser.BinaryExpr:
		return nonNil(t.Left, t.Right)
	case *parser.TernaryExpr:
		return nonNil(t.Cond, t.Then, t.Else)
	case *parser.CommaExpr:
		return nonNil(t.Left, t.Right)
	case *parser.CallExpr:
		out := nonNil(t.Callee)
		for _, a := range t.Args {
			out = append(out, nonNil(a.Expr)...)
		}
		return out
	case *parser.SubscriptExpr:
		return nonNil(t.Base, t.Index)
	case *parser.DerefExpr:
		return nonNil(t.Operand)
	case *parser.AddrExpr:
		return nonNil(t.Operand)
	case *parser.SizeofExpr:
		return nonNil(t.Operand)
	case *parser.MemberExpr:
		return nonNil(t.Base)
	case *parser.IndirectMemberExpr:
		return nonNil(t.Base)
	case *parser.UnarySignExpr:
		return nonNil(t.Operand)
	case *parser.LogicalNotExpr:
		return nonNil(t.Operand)
	case *parser.BitNotExpr:
		return nonNil(t.Operand)
	case *parser.PreAdjustExpr:
		return nonNil(t.Operand)
	case *parser.PostAdjustExpr:
		return nonNil(t.Operand)
	case *parser.TypeName:
		return nonNil(t.Specs, t.Declarator)
	case *parser.CastExpr:
		return nonNil(t.Type, t.Operand)
	}
	return nil
}

func nonNil(nodes ...parser.Node) []parser.Node {
	var out []parser.Node
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
