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

// normalize converts sel.Where and sel.Having to conjunctive normal
// form and pushes non-aggregate HAVING conjuncts into WHERE, per
// spec.md §4.2.
func (c *Context) normalize(sel *ast.Select) {
	sel.Where = toCNF(sel.Where)
	sel.Having = toCNF(sel.Having)
	c.pushNonAggregateHaving(sel)
}

// toCNF distributes AND over OR to bring a predicate tree to
// conjunctive normal form, preserving node identity where possible
// (spec.md §4.2 "No renaming; node identity preserved where
// possible"). It operates conjunct-by-conjunct: each existing
// top-level conjunct is CNF-converted independently and the results
// are re-flattened into the conjunct list.
func toCNF(where ast.Node) ast.Node {
	if where == nil {
		return nil
	}
	var out []ast.Node
	for _, conjunct := range Conjuncts(where) {
		out = append(out, cnfConjunct(conjunct)...)
	}
	return ConjoinList(out)
}

// cnfConjunct distributes AND over OR within a single disjunct tree
// and returns the resulting list of conjuncts (each itself possibly a
// disjunction, chained via OrNext).
func cnfConjunct(n ast.Node) []ast.Node {
	e, ok := n.(*ast.Expr)
	if !ok {
		return []ast.Node{n}
	}
	switch e.Op {
	case ast.OpAnd:
		return append(cnfConjunct(e.Arg1), cnfConjunct(e.Arg2)...)
	case ast.OpOr:
		left := cnfConjunct(e.Arg1)
		right := cnfConjunct(e.Arg2)
		if len(left) == 1 && len(right) == 1 {
			return []ast.Node{distributeOr(left[0], right[0])}
		}
		// (a AND b) OR (c AND d) -> distribute pairwise
		var out []ast.Node
		for _, l := range left {
			for _, r := range right {
				out = append(out, distributeOr(l, r))
			}
		}
		return out
	case ast.OpNot:
		return cnfConjunct(ast.Invert(e.Arg1))
	default:
		return []ast.Node{n}
	}
}

// distributeOr builds the DNF disjunction chain for `l OR r`, where l
// and r are each single disjuncts (or already-chained disjunctions).
func distributeOr(l, r ast.Node) ast.Node {
	ls := Disjuncts(l)
	rs := Disjuncts(r)
	return DisjoinList(append(append([]ast.Node{}, ls...), rs...))
}

// isAggregateFree reports whether n contains no aggregate function
// call, not counting aggregates nested inside a subquery (spec.md
// §4.2 "Aggregate detection ignores aggregates nested inside
// subqueries").
func isAggregateFree(n ast.Node) bool {
	free := true
	ast.Walk(ast.VisitFunc(func(e ast.Node) bool {
		if !free {
			return false
		}
		switch v := e.(type) {
		case *ast.Function:
			if v.IsAggregate {
				free = false
				return false
			}
		case *ast.Select:
			// do not descend into a nested subquery's own tree
			return false
		}
		return true
	}), n)
	return free
}

// isRowNumberPredicate reports whether n is (or contains anywhere in
// its expression tree)
// one of the row-number pseudo-columns that HAVING/WHERE movement
// must never relocate (spec.md §4.2 "Edge cases").
func isRowNumberPredicate(n ast.Node) bool {
	e, ok := n.(*ast.Expr)
	if !ok {
		return false
	}
	if e.Op == ast.OpInstNum || e.Op == ast.OpOrderByNum {
		return true
	}
	found := false
	ast.Walk(ast.VisitFunc(func(x ast.Node) bool {
		if found {
			return false
		}
		if xe, ok := x.(*ast.Expr); ok && (xe.Op == ast.OpInstNum || xe.Op == ast.OpOrderByNum) {
			found = true
			return false
		}
		return true
	}), n)
	return found
}

// pushNonAggregateHaving detaches every aggregate-free, non-row-number
// HAVING conjunct (an OR-chain counts as a single unit, spec.md §4.2
// "Edge cases") and appends it to WHERE.
func (c *Context) pushNonAggregateHaving(sel *ast.Select) {
	var keep, move []ast.Node
	for _, h := range Conjuncts(sel.Having) {
		movable := true
		for _, d := range Disjuncts(h) {
			if !isAggregateFree(d) || isRowNumberPredicate(d) {
				movable = false
			}
		}
		if movable {
			move = append(move, h)
		} else {
			keep = append(keep, h)
		}
	}
	if len(move) == 0 {
		return
	}
	sel.Having = ConjoinList(keep)
	sel.Where = ConjoinList(append(Conjuncts(sel.Where), move...))
}
