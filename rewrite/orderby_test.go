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

func TestReduceOrderByDropsLiteralItems(t *testing.T) {
	sel := &ast.Select{
		OrderBy: []*ast.SortSpec{
			{Expr: ast.Int(1)},
			{Expr: attr("a")},
		},
	}
	require.NoError(t, reduceOrderBy(sel))
	require.Len(t, sel.OrderBy, 1)
}

func TestReduceOrderByMergesDuplicateSameDirection(t *testing.T) {
	sel := &ast.Select{
		OrderBy: []*ast.SortSpec{
			{Expr: attr("a")},
			{Expr: attr("a")},
			{Expr: attr("b")},
		},
	}
	require.NoError(t, reduceOrderBy(sel))
	require.Len(t, sel.OrderBy, 2)
}

func TestReduceOrderByConflictingDirectionErrors(t *testing.T) {
	sel := &ast.Select{
		OrderBy: []*ast.SortSpec{
			{Expr: attr("a"), Desc: false},
			{Expr: attr("a"), Desc: true},
		},
	}
	err := reduceOrderBy(sel)
	require.Error(t, err)
}

func TestReduceOrderByDropsWhenGroupByPrefix(t *testing.T) {
	sel := &ast.Select{
		OrderBy: []*ast.SortSpec{{Expr: attr("a")}},
		GroupBy: []ast.Node{attr("a"), attr("b")},
	}
	require.NoError(t, reduceOrderBy(sel))
	require.Nil(t, sel.OrderBy)
}

func TestReduceOrderByKeepsWhenDistinctPresent(t *testing.T) {
	sel := &ast.Select{
		OrderBy:  []*ast.SortSpec{{Expr: attr("a")}},
		GroupBy:  []ast.Node{attr("a")},
		Distinct: true,
	}
	require.NoError(t, reduceOrderBy(sel))
	require.Len(t, sel.OrderBy, 1)
}

// TestReduceOrderByRelocatesOrderByNumToHaving exercises the dropped
// ORDER BY's ORDERBY_NUM fallout (spec.md §4.5): once ORDER BY is
// dropped as a redundant GROUP BY prefix, a WHERE conjunct naming
// ORDERBY_NUM must be relocated into a freshly built HAVING and
// renamed to GROUPBY_NUM.
func TestReduceOrderByRelocatesOrderByNumToHaving(t *testing.T) {
	onum := ast.Cmp(ast.OpLE, ast.NewExpr(ast.OpOrderByNum), ast.Int(5))
	other := ast.Cmp(ast.OpEQ, attr("b"), ast.Int(1))
	ast.SetNextOf(onum, other)
	sel := &ast.Select{
		OrderBy: []*ast.SortSpec{{Expr: attr("a")}},
		GroupBy: []ast.Node{attr("a"), attr("b")},
		Where:   onum,
	}
	require.NoError(t, reduceOrderBy(sel))
	require.Nil(t, sel.OrderBy)
	require.Equal(t, []ast.Node{other}, Conjuncts(sel.Where))
	having := Conjuncts(sel.Having)
	require.Len(t, having, 1)
	moved := having[0].(*ast.Expr)
	require.Equal(t, ast.OpGroupByNum, moved.Arg1.(*ast.Expr).Op)
}
