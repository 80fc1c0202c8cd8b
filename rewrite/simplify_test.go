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

func newTestContext() *Context {
	return NewContext(ast.NewQuery(nil), catalog.NopSchema{}, Options{})
}

func TestSimplifyConjunctsFoldsBoundsToRange(t *testing.T) {
	c := newTestContext()
	c1 := ast.Cmp(ast.OpGE, attr("a"), ast.Int(1))
	c2 := ast.Cmp(ast.OpLE, attr("a"), ast.Int(10))
	ast.SetNextOf(c1, c2)
	out := c.simplifyConjuncts(c1)
	items := Conjuncts(out)
	require.Len(t, items, 1)
	rng := items[0].(*ast.Expr)
	require.Equal(t, ast.OpRange, rng.Op)
}

func TestSimplifyConjunctsIsIdempotent(t *testing.T) {
	c := newTestContext()
	c1 := ast.Cmp(ast.OpGE, attr("a"), ast.Int(1))
	c2 := ast.Cmp(ast.OpLE, attr("a"), ast.Int(10))
	ast.SetNextOf(c1, c2)
	once := c.simplifyConjuncts(c1)

	c2run := newTestContext()
	twice := c2run.simplifyConjuncts(ast.CopyChain(once))
	require.Equal(t, ast.ToString(once), ast.ToString(twice))
}

func TestSimplifyConjunctsPropagatesEquality(t *testing.T) {
	c := newTestContext()
	eq := ast.Cmp(ast.OpEQ, attr("a"), ast.Int(5))
	other := ast.Cmp(ast.OpLT, attr("b"), attr("a"))
	ast.SetNextOf(eq, other)
	out := c.simplifyConjuncts(eq)
	items := Conjuncts(out)
	require.Len(t, items, 2)
	rewritten := items[1].(*ast.Expr)
	require.Equal(t, int64(5), rewritten.Arg2.(*ast.Value).I)
}

func TestSimplifyConjunctsCollapsesUnsatisfiableBounds(t *testing.T) {
	c := newTestContext()
	c1 := ast.Cmp(ast.OpGE, attr("a"), ast.Int(10))
	c2 := ast.Cmp(ast.OpLE, attr("a"), ast.Int(1))
	ast.SetNextOf(c1, c2)
	out := c.simplifyConjuncts(c1)
	items := Conjuncts(out)
	require.Len(t, items, 1)
	require.True(t, ast.IsFalse(items[0]))
}
