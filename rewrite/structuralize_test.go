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

func TestClassifyLeavesInnerPathAlone(t *testing.T) {
	q := ast.NewQuery(nil)
	s := baseSpec(q.Arena, "t")
	sel := &ast.Select{From: []*ast.Spec{s}}

	c := &Context{Query: q}
	c.classify(sel)

	require.Equal(t, ast.SpecMetaClass(0), s.MetaClass, "a spec with no path entities is never reclassified")
}

func TestClassifyPromotesWeaselWhenOuterPredicateNeverFalse(t *testing.T) {
	q := ast.NewQuery(nil)
	child := baseSpec(q.Arena, "c")
	child.JoinType = ast.JoinLeftOuter
	child.MetaClass = ast.PathOuter
	parent := baseSpec(q.Arena, "p")
	parent.JoinType = ast.JoinLeftOuter
	parent.PathEntities = []*ast.Spec{child}

	cmp := ast.Cmp(ast.OpEQ, ast.NewName("p", "x", parent.ID), ast.Int(1))
	sel := &ast.Select{From: []*ast.Spec{parent}, Where: cmp}

	c := &Context{Query: q}
	c.classify(sel)

	require.Equal(t, ast.PathOuterWeasel, parent.MetaClass)
}

func TestReferencesSpecFindsNameBoundToSpec(t *testing.T) {
	cmp := ast.Cmp(ast.OpEQ, ast.NewName("t", "a", 7), ast.Int(1))
	require.True(t, referencesSpec(cmp, 7))
	require.False(t, referencesSpec(cmp, 9))
}

func TestSubstituteNullReplacesBoundName(t *testing.T) {
	cmp := ast.Cmp(ast.OpEQ, ast.NewName("t", "a", 7), ast.Int(1))
	out := substituteNull(cmp, 7)
	e := out.(*ast.Expr)
	_, ok := e.Arg1.(*ast.Value)
	require.True(t, ok)
}

func TestLiftOnConditionsTagsLocationWithSpecID(t *testing.T) {
	q := ast.NewQuery(nil)
	left := baseSpec(q.Arena, "t")
	right := baseSpec(q.Arena, "u")
	right.JoinType = ast.JoinInner
	right.OnCond = ast.Cmp(ast.OpEQ, ast.NewName("t", "id", left.ID), ast.NewName("u", "t_id", right.ID))
	sel := &ast.Select{From: []*ast.Spec{left, right}}

	c := &Context{Query: q}
	c.liftOnConditions(sel)

	require.Nil(t, right.OnCond)
	cjs := Conjuncts(sel.Where)
	require.Len(t, cjs, 1)
	require.Equal(t, right.ID, ast.Location(cjs[0]))
}
