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

package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToStringComparison(t *testing.T) {
	n := Cmp(OpEQ, NewName("t", "a", 0), Int(5))
	require.Equal(t, "(t.a = 5)", ToString(n))
}

func TestEqualStructural(t *testing.T) {
	a := Cmp(OpEQ, NewName("t", "a", 0), Int(5))
	b := Cmp(OpEQ, NewName("t", "a", 0), Int(5))
	c := Cmp(OpEQ, NewName("t", "a", 0), Int(6))
	require.True(t, Equal(a, b))
	require.False(t, Equal(a, c))
}

func TestCopyIsIndependent(t *testing.T) {
	orig := Cmp(OpEQ, NewName("t", "a", 0), Int(5))
	cp := Copy(orig).(*Expr)
	cp.Arg2 = Int(6)
	require.True(t, IsIdentifier(orig.Arg1, "t", "a"))
	require.Equal(t, int64(5), orig.Arg2.(*Value).I)
	require.Equal(t, int64(6), cp.Arg2.(*Value).I)
}

func TestBetweenChainRoundTrip(t *testing.T) {
	specs := []*BetweenSpec{
		NewBetween(VarGELE, Int(1), Int(5)),
		NewBetween(VarGELE, Int(10), Int(20)),
	}
	chain := Chain(specs)
	got := Disjuncts(chain)
	require.Len(t, got, 2)
	require.Equal(t, VarGELE, got[1].Variant)
}

func TestArenaDenseIDs(t *testing.T) {
	a := &Arena{}
	s0 := a.NewSpec()
	s1 := a.NewSpec()
	require.Equal(t, 0, s0.ID)
	require.Equal(t, 1, s1.ID)
	require.Same(t, s1, a.SpecByID(1))
}

func TestConjunctionTextJoinsWithAND(t *testing.T) {
	c1 := Cmp(OpEQ, NewName("t", "a", 0), Int(1))
	c2 := Cmp(OpGT, NewName("t", "b", 0), Int(2))
	SetNextOf(c1, c2)
	sel := &Select{SelectList: []Node{NewName("t", "a", 0)}, From: []*Spec{{SKind: SpecClass, ClassName: "t"}}, Where: c1}
	require.Contains(t, ToString(sel), "(t.a = 1) AND (t.b > 2)")
}
