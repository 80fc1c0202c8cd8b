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

// Conjuncts flattens a Next-linked WHERE/HAVING predicate list into a
// plain slice, grounded on plan/pir/pir.go's conjunctions helper. Each
// element may itself be an OrNext-linked disjunction chain.
func Conjuncts(n ast.Node) []ast.Node {
	var out []ast.Node
	for cur := n; cur != nil; cur = ast.Next(cur) {
		out = append(out, cur)
	}
	return out
}

// ConjoinList re-links a slice of conjuncts into a Next-chain,
// dropping any nil entries (used after a conjunct folds away, e.g.
// equality-term propagation's TRANSITIVE copy or a collapsed range).
func ConjoinList(items []ast.Node) ast.Node {
	var head, tail ast.Node
	for _, it := range items {
		if it == nil {
			continue
		}
		ast.SetNextOf(it, nil)
		if head == nil {
			head = it
			tail = it
		} else {
			ast.SetNextOf(tail, it)
			tail = it
		}
	}
	return head
}

// Disjuncts flattens an OrNext-linked disjunction chain into a slice.
func Disjuncts(n ast.Node) []ast.Node {
	var out []ast.Node
	for cur := n; cur != nil; cur = ast.OrNextOf(cur) {
		out = append(out, cur)
	}
	return out
}

// DisjoinList re-links a slice of disjuncts into an OrNext-chain.
func DisjoinList(items []ast.Node) ast.Node {
	var head, tail ast.Node
	for _, it := range items {
		if it == nil {
			continue
		}
		ast.SetOrNextOf(it, nil)
		if head == nil {
			head = it
			tail = it
		} else {
			ast.SetOrNextOf(tail, it)
			tail = it
		}
	}
	return head
}

// IsFalseConjunct reports whether n is the literal FALSE, the
// canonical way a conjunct list signals "this predicate list can
// never be satisfied" (spec.md §4.3.3, §4.3.5).
func IsFalseConjunct(n ast.Node) bool {
	return ast.IsFalse(n)
}

// FalseList returns a single-element conjunct list containing the
// literal FALSE, used whenever a whole WHERE collapses (spec.md
// §4.3.3: "the entire WHERE collapses to literal FALSE").
func FalseList() ast.Node {
	return ast.Bool(false)
}
