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

// maxSimplifyIter bounds the fixed-point loop below. Each step either
// shrinks the conjunct count or tags a node, so convergence is
// expected well under this in practice; the cap only guards against a
// rewrite bug turning a pass into an infinite loop.
const maxSimplifyIter = 20

// simplifyConjuncts runs the Algebraic Simplifier's six steps (spec.md
// §4.3.1-§4.3.6) to a fixed point over a single conjunct list: equality
// propagation, operand converse, comparison pair reduction, LIKE-to-
// range conversion, RANGE construction/merge/intersection, and IS
// NULL/IS NOT NULL folding, applied in that order each iteration.
// "All steps apply to WHERE and HAVING independently" (spec.md §4.3),
// so callers invoke this once per predicate list.
func (c *Context) simplifyConjuncts(n ast.Node) ast.Node {
	conjuncts := Conjuncts(n)
	for i := 0; i < maxSimplifyIter; i++ {
		changed := false

		if next, ch := c.propagateEqualities(conjuncts); ch {
			conjuncts = next
			changed = true
		}

		for idx, cj := range conjuncts {
			if nc, ch := converse(cj); ch {
				conjuncts[idx] = nc
				changed = true
			}
		}

		if expanded, ch := decomposeBetweens(conjuncts); ch {
			conjuncts = expanded
			changed = true
		}

		if next, col, ch := pairReduce(conjuncts); ch {
			if col != nil {
				return applyCollapse(ConjoinList(conjuncts), col)
			}
			conjuncts = next
			changed = true
		}

		for idx, cj := range conjuncts {
			if nl, ch := likeToRange(cj); ch {
				conjuncts[idx] = nl
				changed = true
			}
		}

		if next, col, ch := rangeFold(conjuncts); ch {
			if col != nil {
				return applyCollapse(ConjoinList(conjuncts), col)
			}
			conjuncts = next
			changed = true
		}

		if next, col, ch := c.foldIsNull(conjuncts); ch {
			if col != nil {
				return applyCollapse(ConjoinList(conjuncts), col)
			}
			conjuncts = next
			changed = true
		}

		if !changed {
			break
		}
	}
	return ConjoinList(conjuncts)
}

// decomposeBetweens applies decomposeBetween across a conjunct list,
// splitting any matched BETWEEN into its two component comparisons.
func decomposeBetweens(conjuncts []ast.Node) ([]ast.Node, bool) {
	changed := false
	var out []ast.Node
	for _, cj := range conjuncts {
		if dec, ok := decomposeBetween(cj); ok {
			out = append(out, Conjuncts(dec)...)
			changed = true
			continue
		}
		out = append(out, cj)
	}
	return out, changed
}

// simplifySelect runs the Algebraic Simplifier over sel's WHERE and
// HAVING predicate lists independently (spec.md §4.3).
func (c *Context) simplifySelect(sel *ast.Select) {
	if sel.Where != nil {
		sel.Where = c.simplifyConjuncts(sel.Where)
	}
	if sel.Having != nil {
		sel.Having = c.simplifyConjuncts(sel.Having)
	}
	c.propagateIntoSelectList(sel)
}
