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

func TestLikeToRangePrefixWildcard(t *testing.T) {
	nm := ast.NewName("t", "a", 0)
	like := ast.Cmp(ast.OpLike, nm, ast.Str("abc%"))
	out, changed := likeToRange(like)
	require.True(t, changed)
	rng, ok := out.(*ast.Expr)
	require.True(t, ok)
	require.Equal(t, ast.OpRange, rng.Op)
	bs := rng.Arg2.(*ast.BetweenSpec)
	require.Equal(t, ast.VarGELT, bs.Variant)
	require.Equal(t, "abc", bs.Lo.(*ast.Value).S)
	require.Equal(t, "abd", bs.Hi.(*ast.Value).S)
}

func TestLikeToRangeAllWildcard(t *testing.T) {
	nm := ast.NewName("t", "a", 0)
	like := ast.Cmp(ast.OpLike, nm, ast.Str("%"))
	out, changed := likeToRange(like)
	require.True(t, changed)
	require.Equal(t, ast.OpIsNotNull, out.(*ast.Expr).Op)
}

func TestLikeToRangePureLiteral(t *testing.T) {
	nm := ast.NewName("t", "a", 0)
	like := ast.Cmp(ast.OpLike, nm, ast.Str("abc"))
	out, changed := likeToRange(like)
	require.True(t, changed)
	e := out.(*ast.Expr)
	require.Equal(t, ast.OpEQ, e.Op)
	require.Equal(t, "abc", e.Arg2.(*ast.Value).S)
}

func TestLikeToRangeTrailingSpaceDeclines(t *testing.T) {
	nm := ast.NewName("t", "a", 0)
	like := ast.Cmp(ast.OpLike, nm, ast.Str("abc "))
	_, changed := likeToRange(like)
	require.False(t, changed)
}

func TestLikeToRangeMiddleWildcardDeclines(t *testing.T) {
	nm := ast.NewName("t", "a", 0)
	like := ast.Cmp(ast.OpLike, nm, ast.Str("a%bc"))
	_, changed := likeToRange(like)
	require.False(t, changed)
}

func TestCollapsePercentRuns(t *testing.T) {
	require.Equal(t, "a%b", collapsePercent("a%%%b"))
}

func TestIncrementLastByteOverflow(t *testing.T) {
	_, ok := incrementLastByte(string([]byte{0xFF}))
	require.False(t, ok)
}
