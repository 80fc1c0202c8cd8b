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

// TestPropagateIntoSelectListSubstitutesTopLevelEquality covers
// spec.md §4.3.1's "... and in the SELECT list for use-by-name":
// SELECT a FROM t WHERE a = 5 must substitute a's SELECT-list
// reference with the literal 5.
func TestPropagateIntoSelectListSubstitutesTopLevelEquality(t *testing.T) {
	c := newTestContext()
	sel := &ast.Select{
		SelectList: []ast.Node{attr("a")},
		Where:      ast.Cmp(ast.OpEQ, attr("a"), ast.Int(5)),
	}
	c.propagateIntoSelectList(sel)
	require.Len(t, sel.SelectList, 1)
	val, ok := sel.SelectList[0].(*ast.Value)
	require.True(t, ok)
	require.Equal(t, int64(5), val.I)
}

// TestPropagateIntoSelectListLeavesOnConditionEqualityAlone: an
// equality tagged with a non-zero location originates from a lifted
// ON-condition and only holds for matched rows of that join arm, so it
// must not be substituted into the SELECT list (an outer join's
// null-extended rows would violate it).
func TestPropagateIntoSelectListLeavesOnConditionEqualityAlone(t *testing.T) {
	c := newTestContext()
	eq := ast.Cmp(ast.OpEQ, attr("a"), ast.Int(5))
	ast.SetLocationOf(eq, 3)
	a := attr("a")
	sel := &ast.Select{
		SelectList: []ast.Node{a},
		Where:      eq,
	}
	c.propagateIntoSelectList(sel)
	require.Equal(t, []ast.Node{a}, sel.SelectList)
}

func TestPropagateIntoSelectListNoopWithoutEqualities(t *testing.T) {
	c := newTestContext()
	a := attr("a")
	sel := &ast.Select{
		SelectList: []ast.Node{a},
		Where:      ast.Cmp(ast.OpLT, attr("b"), ast.Int(1)),
	}
	c.propagateIntoSelectList(sel)
	require.Equal(t, []ast.Node{a}, sel.SelectList)
}
