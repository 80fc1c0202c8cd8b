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
	"github.com/H2SU/cubrid-sub002/catalog"
	"github.com/stretchr/testify/require"
)

func baseSpec(arena *ast.Arena, class string) *ast.Spec {
	s := arena.NewSpec()
	s.SKind = ast.SpecClass
	s.ClassName = class
	s.RangeVar = class
	return s
}

func TestHoistEqualitySubqueryBuildsDerivedTable(t *testing.T) {
	q := ast.NewQuery(nil)
	outer := baseSpec(q.Arena, "orders")
	sub := &ast.Select{SelectList: []ast.Node{ast.NewName("c", "id", -1)}}
	sel := &ast.Select{
		From:  []*ast.Spec{outer},
		Where: ast.Cmp(ast.OpEQ, ast.NewName("orders", "cust_id", outer.ID), sub),
	}
	c := NewContext(q, catalog.NopSchema{}, Options{})
	c.rewriteSubqueries(sel)

	require.Len(t, sel.From, 2)
	require.Equal(t, ast.SpecDerivedTable, sel.From[1].SKind)
	eq := sel.Where.(*ast.Expr)
	require.Equal(t, ast.OpEQ, eq.Op)
	rhs, ok := eq.Arg2.(*ast.Name)
	require.True(t, ok)
	require.Equal(t, sel.From[1].RangeVar, rhs.Resolved)
}

func TestHoistEqualitySubqueryDeclinesCorrelated(t *testing.T) {
	q := ast.NewQuery(nil)
	outer := baseSpec(q.Arena, "orders")
	sub := &ast.Select{
		SelectList: []ast.Node{ast.NewName("c", "id", -1)},
		Where:      ast.Cmp(ast.OpEQ, ast.NewName("orders", "cust_id", outer.ID), ast.Int(1)),
	}
	sel := &ast.Select{
		From:  []*ast.Spec{outer},
		Where: ast.Cmp(ast.OpEQ, ast.NewName("orders", "cust_id", outer.ID), sub),
	}
	c := NewContext(q, catalog.NopSchema{}, Options{})
	c.rewriteSubqueries(sel)

	require.Len(t, sel.From, 1, "correlated subquery must not be hoisted")
}

func TestHoistInSubqueryUsesEqualityJoin(t *testing.T) {
	q := ast.NewQuery(nil)
	outer := baseSpec(q.Arena, "t")
	sub := &ast.Select{SelectList: []ast.Node{ast.NewName("u", "id", -1)}}
	sel := &ast.Select{
		From:  []*ast.Spec{outer},
		Where: ast.Cmp(ast.OpIn, ast.NewName("t", "fk", outer.ID), sub),
	}
	c := NewContext(q, catalog.NopSchema{}, Options{})
	c.rewriteSubqueries(sel)

	require.Len(t, sel.From, 2)
	eq := sel.Where.(*ast.Expr)
	require.Equal(t, ast.OpEQ, eq.Op)
}

func TestHoistSomeSubqueryRewritesToMinMax(t *testing.T) {
	q := ast.NewQuery(nil)
	outer := baseSpec(q.Arena, "t")
	sub := &ast.Select{SelectList: []ast.Node{ast.NewName("u", "price", -1)}}
	sel := &ast.Select{
		From:  []*ast.Spec{outer},
		Where: ast.Cmp(ast.OpGTSome, ast.NewName("t", "price", outer.ID), sub),
	}
	c := NewContext(q, catalog.NopSchema{}, Options{})
	c.rewriteSubqueries(sel)

	require.Len(t, sel.From, 2)
	derived := sel.From[1]
	require.Equal(t, ast.DerivedFromScalarAgg, derived.DerivedType)
	inner := derived.Query.(*ast.Select)
	fn := inner.SelectList[0].(*ast.Function)
	require.Equal(t, "MIN", fn.Name)
	require.True(t, fn.IsAggregate)

	cmp := sel.Where.(*ast.Expr)
	require.Equal(t, ast.OpGT, cmp.Op)
}

func TestHoistSetConstructorEqualityProducesTable(t *testing.T) {
	q := ast.NewQuery(nil)
	outer := baseSpec(q.Arena, "t")
	nm := ast.NewName("t", "oid_attr", outer.ID)
	nm.MetaClass = ast.NameOidAttr
	sel := &ast.Select{
		From:  []*ast.Spec{outer},
		Where: ast.Cmp(ast.OpEQ, nm, ast.Set(ast.Int(1), ast.Int(2))),
	}
	c := NewContext(q, catalog.NopSchema{}, Options{})
	c.rewriteSubqueries(sel)

	require.Len(t, sel.From, 2)
	require.Equal(t, ast.SpecSetExpr, sel.From[1].SKind)
}
