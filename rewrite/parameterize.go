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

import "github.com/H2SU/cubrid-sub002/ast"

// parameterizableOps are the comparison operators spec.md §4.5 names
// as eligible for literal-to-host-variable substitution.
var parameterizableOps = map[ast.Op]bool{
	ast.OpEQ:      true,
	ast.OpLT:      true,
	ast.OpLE:      true,
	ast.OpGT:      true,
	ast.OpGE:      true,
	ast.OpLike:    true,
	ast.OpBetween: true,
	ast.OpRange:   true,
}

// autoParameterize implements spec.md §4.5's auto-parameterization
// rule: when enabled and the query is cacheable, every literal operand
// of a parameterizable comparison in WHERE/HAVING/ORDER_BY_FOR is
// replaced with a host-variable placeholder, except partition-pruning
// key columns, FULL_RANGE-flagged predicates, and row-number
// pseudocolumns.
func (c *Context) autoParameterize(sel *ast.Select) {
	if !c.Options.AutoParameterize || !c.Options.Cacheable {
		return
	}
	sel.Where = c.parameterizeConjuncts(sel.Where)
	sel.Having = c.parameterizeConjuncts(sel.Having)
	if sel.OrderByFor != nil {
		sel.OrderByFor = c.parameterizeConjuncts(sel.OrderByFor)
	}
}

func (c *Context) parameterizeConjuncts(n ast.Node) ast.Node {
	conjuncts := Conjuncts(n)
	for i, cj := range conjuncts {
		conjuncts[i] = c.parameterizeDisjuncts(cj)
	}
	return ConjoinList(conjuncts)
}

func (c *Context) parameterizeDisjuncts(n ast.Node) ast.Node {
	disjuncts := Disjuncts(n)
	for i, d := range disjuncts {
		disjuncts[i] = c.parameterizeDisjunct(d)
	}
	return DisjoinList(disjuncts)
}

func (c *Context) parameterizeDisjunct(n ast.Node) ast.Node {
	e, ok := n.(*ast.Expr)
	if !ok || !parameterizableOps[e.Op] {
		return n
	}
	if e.Flags.Has(ast.FlagFullRange) || isRowNumberPredicate(e) {
		return n
	}
	if e.Op == ast.OpRange {
		for _, bs := range ast.Disjuncts(e.Arg2) {
			bs.Lo = c.parameterizeOperand(e.Arg1, bs.Lo)
			bs.Hi = c.parameterizeOperand(e.Arg1, bs.Hi)
		}
		return e
	}
	e.Arg1 = c.parameterizeOperand(e.Arg2, e.Arg1)
	e.Arg2 = c.parameterizeOperand(e.Arg1, e.Arg2)
	if e.Arg3 != nil {
		e.Arg3 = c.parameterizeOperand(e.Arg1, e.Arg3)
	}
	return e
}

// parameterizeOperand replaces operand with a host-variable
// placeholder if it is a literal Value, unless the sibling operand is
// a Name the catalog reports as a partition-key column. A nil operand (an
// open-ended RANGE bound) or a non-literal operand is returned
// unchanged.
func (c *Context) parameterizeOperand(sibling, operand ast.Node) ast.Node {
	val, ok := operand.(*ast.Value)
	if !ok {
		return operand
	}
	if c.siblingIsPartitionKey(sibling) {
		return operand
	}
	return c.nextParam(val)
}

func (c *Context) siblingIsPartitionKey(n ast.Node) bool {
	nm, ok := n.(*ast.Name)
	if !ok {
		return false
	}
	class, ok := c.Schema.ClassOf(nm.SpecID)
	if !ok {
		return false
	}
	return c.Schema.IsPartitionKey(class, nm.Original)
}
