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

type partitionKeySchema struct {
	catalog.NopSchema
}

func (partitionKeySchema) ClassOf(int) (catalog.ClassHandle, bool) {
	return catalog.ClassHandle{Name: "t"}, true
}

func (partitionKeySchema) IsPartitionKey(_ catalog.ClassHandle, name string) bool {
	return name == "part_key"
}

func TestAutoParameterizeReplacesLiteral(t *testing.T) {
	c := NewContext(ast.NewQuery(nil), catalog.NopSchema{}, Options{AutoParameterize: true, Cacheable: true})
	sel := &ast.Select{Where: ast.Cmp(ast.OpEQ, attr("a"), ast.Int(5))}
	c.autoParameterize(sel)

	e := sel.Where.(*ast.Expr)
	_, ok := e.Arg2.(*ast.HostVar)
	require.True(t, ok)
	require.Len(t, c.Query.HostVars, 1)
}

func TestAutoParameterizeSkipsWhenDisabled(t *testing.T) {
	c := NewContext(ast.NewQuery(nil), catalog.NopSchema{}, Options{})
	sel := &ast.Select{Where: ast.Cmp(ast.OpEQ, attr("a"), ast.Int(5))}
	c.autoParameterize(sel)

	e := sel.Where.(*ast.Expr)
	_, ok := e.Arg2.(*ast.Value)
	require.True(t, ok)
}

func TestAutoParameterizeSkipsPartitionKey(t *testing.T) {
	c := NewContext(ast.NewQuery(nil), partitionKeySchema{}, Options{AutoParameterize: true, Cacheable: true})
	sel := &ast.Select{Where: ast.Cmp(ast.OpEQ, ast.NewName("t", "part_key", 0), ast.Int(5))}
	c.autoParameterize(sel)

	e := sel.Where.(*ast.Expr)
	_, ok := e.Arg2.(*ast.Value)
	require.True(t, ok, "partition-pruning key literal must not be parameterized")
}

func TestAutoParameterizeSkipsFullRangeFlag(t *testing.T) {
	c := NewContext(ast.NewQuery(nil), catalog.NopSchema{}, Options{AutoParameterize: true, Cacheable: true})
	cmp := ast.Cmp(ast.OpGE, attr("a"), ast.Int(5))
	cmp.Flags |= ast.FlagFullRange
	sel := &ast.Select{Where: cmp}
	c.autoParameterize(sel)

	e := sel.Where.(*ast.Expr)
	_, ok := e.Arg2.(*ast.Value)
	require.True(t, ok)
}
