// Copyright (C) 2024 The CUBRID Rewriter Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package rewrite

import (
	"testing"

	"github.com/H2SU/cubrid-sub002/ast"
	"github.com/stretchr/testify/require"
)

func TestToCNFDistributesOrOverAnd(t *testing.T) {
	// (a=1 AND b=2) OR c=3
	a1 := ast.Cmp(ast.OpEQ, attr("a"), ast.Int(1))
	b2 := ast.Cmp(ast.OpEQ, attr("b"), ast.Int(2))
	c3 := ast.Cmp(ast.OpEQ, attr("c"), ast.Int(3))
	and := ast.NewExpr(ast.OpAnd, a1, b2)
	or := ast.NewExpr(ast.OpOr, and, c3)

	out := toCNF(or)
	conjuncts := Conjuncts(out)
	require.Len(t, conjuncts, 2)
	for _, cj := range conjuncts {
		disjuncts := Disjuncts(cj)
		require.Len(t, disjuncts, 2)
	}
}

func TestToCNFLeavesPlainConjunctsUntouched(t *testing.T) {
	a1 := ast.Cmp(ast.OpEQ, attr("a"), ast.Int(1))
	b2 := ast.Cmp(ast.OpEQ, attr("b"), ast.Int(2))
	ast.SetNextOf(a1, b2)

	out := toCNF(a1)
	require.Equal(t, []ast.Node{a1, b2}, Conjuncts(out))
}

func TestToCNFOfNilIsNil(t *testing.T) {
	require.Nil(t, toCNF(nil))
}

func TestDistributeOrBuildsDisjunctChain(t *testing.T) {
	l := ast.Cmp(ast.OpEQ, attr("a"), ast.Int(1))
	r := ast.Cmp(ast.OpEQ, attr("b"), ast.Int(2))
	out := distributeOr(l, r)
	require.Equal(t, []ast.Node{l, r}, Disjuncts(out))
}

func aggFunc(name string) *ast.Function {
	return &ast.Function{Name: name, IsAggregate: true, Args: []ast.Node{attr("y")}}
}

func TestIsAggregateFreeDetectsDirectAggregate(t *testing.T) {
	n := ast.Cmp(ast.OpGT, attr("x"), aggFunc("AVG"))
	require.False(t, isAggregateFree(n))
}

func TestIsAggregateFreeTrueForPlainPredicate(t *testing.T) {
	n := ast.Cmp(ast.OpGT, attr("x"), ast.Int(5))
	require.True(t, isAggregateFree(n))
}

// TestIsAggregateFreeIgnoresAggregateInsideSubquery is the regression
// case for HAVING x > (SELECT AVG(y) FROM u): the aggregate lives in
// the nested *ast.Select's own SelectList, not the outer expression
// tree, so it must not count against the outer conjunct (spec.md §4.2
// "Aggregate detection ignores aggregates nested inside subqueries").
func TestIsAggregateFreeIgnoresAggregateInsideSubquery(t *testing.T) {
	sub := &ast.Select{
		SelectList: []ast.Node{aggFunc("AVG")},
		From:       []*ast.Spec{{ID: 1}},
	}
	outer := ast.Cmp(ast.OpGT, attr("x"), sub)
	require.True(t, isAggregateFree(outer))
}

func TestPushNonAggregateHavingMovesPlainConjunct(t *testing.T) {
	c := newTestContext()
	sel := &ast.Select{
		Having: ast.Cmp(ast.OpGT, attr("x"), ast.Int(5)),
	}
	c.pushNonAggregateHaving(sel)
	require.Nil(t, sel.Having)
	require.Len(t, Conjuncts(sel.Where), 1)
}

func TestPushNonAggregateHavingKeepsAggregateConjunct(t *testing.T) {
	c := newTestContext()
	having := ast.Cmp(ast.OpGT, attr("x"), aggFunc("SUM"))
	sel := &ast.Select{Having: having}
	c.pushNonAggregateHaving(sel)
	require.Equal(t, []ast.Node{having}, Conjuncts(sel.Having))
	require.Nil(t, sel.Where)
}

// TestPushNonAggregateHavingMovesConjunctWithSubqueryAggregate is the
// HAVING+subquery regression test: an aggregate nested inside a
// subquery operand does not make the HAVING conjunct itself
// aggregate-free-ineligible to move in the usual sense, but a
// conjunct comparing against an aggregate in an *outer* position
// would; here the outer comparison has no aggregate of its own, so it
// is correctly treated as movable even though its subquery operand
// contains one.
func TestPushNonAggregateHavingMovesConjunctWithSubqueryAggregate(t *testing.T) {
	c := newTestContext()
	sub := &ast.Select{
		SelectList: []ast.Node{aggFunc("AVG")},
		From:       []*ast.Spec{{ID: 1}},
	}
	having := ast.Cmp(ast.OpGT, attr("x"), sub)
	sel := &ast.Select{Having: having}
	c.pushNonAggregateHaving(sel)
	require.Nil(t, sel.Having)
	require.Equal(t, []ast.Node{having}, Conjuncts(sel.Where))
}

func TestPushNonAggregateHavingDoesNotMoveRowNumberPredicate(t *testing.T) {
	c := newTestContext()
	having := ast.NewExpr(ast.OpOrderByNum)
	sel := &ast.Select{Having: having}
	c.pushNonAggregateHaving(sel)
	require.Equal(t, []ast.Node{having}, Conjuncts(sel.Having))
	require.Nil(t, sel.Where)
}
