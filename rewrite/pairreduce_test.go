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

func dateVal(s string) *ast.Value {
	return &ast.Value{VKind: ast.ValDate, S: s}
}

// TestPairReduceFoldsDateBoundsToRange exercises numeric()'s ValDate
// branch: a GE/LE pair over a DATE column folds into a single RANGE
// exactly like a pair over a numeric column (spec.md §4.3.3), wired
// through internal/sqltime.
func TestPairReduceFoldsDateBoundsToRange(t *testing.T) {
	lo := ast.Cmp(ast.OpGE, attr("d"), dateVal("2024-01-01"))
	hi := ast.Cmp(ast.OpLE, attr("d"), dateVal("2024-12-31"))
	out, col, changed := pairReduce([]ast.Node{lo, hi})
	require.True(t, changed)
	require.Nil(t, col)
	require.Len(t, out, 1)
	rng := out[0].(*ast.Expr)
	require.Equal(t, ast.OpRange, rng.Op)
	specs := ast.Disjuncts(rng.Arg2)
	require.Len(t, specs, 1)
	require.Equal(t, ast.VarGELE, specs[0].Variant)
}

// TestPairReduceDetectsUnsatisfiableDateBounds mirrors the numeric
// unsatisfiable-bounds collapse (spec.md §4.3.3) for DATE literals:
// d >= 2024-12-31 AND d <= 2024-01-01 can never hold.
func TestPairReduceDetectsUnsatisfiableDateBounds(t *testing.T) {
	lo := ast.Cmp(ast.OpGE, attr("d"), dateVal("2024-12-31"))
	hi := ast.Cmp(ast.OpLE, attr("d"), dateVal("2024-01-01"))
	_, col, changed := pairReduce([]ast.Node{lo, hi})
	require.True(t, changed)
	require.NotNil(t, col)
	require.True(t, col.wholeWhere)
}
