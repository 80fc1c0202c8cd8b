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

// equality is a single "attr = const" fact extracted from a conjunct,
// either a plain Comparison or a RANGE with a single EQ_NA element.
type equality struct {
	attr     *ast.Name
	value    ast.Node
	location int
	twoSpec  bool // true if the original conjunct related two Specs
}

// findEqualities scans a conjunct list for top-level equality facts
// usable by propagation (spec.md §4.3.1).
func findEqualities(conjuncts []ast.Node) []equality {
	var out []equality
	for _, c := range conjuncts {
		if eq, ok := asEquality(c); ok {
			out = append(out, eq)
		}
	}
	return out
}

func asEquality(n ast.Node) (equality, bool) {
	if ast.OrNextOf(n) != nil {
		return equality{}, false // OR-chains are never propagation sources
	}
	switch e := n.(type) {
	case *ast.Expr:
		if e.Op == ast.OpEQ {
			if nm, ok := e.Arg1.(*ast.Name); ok && isConstant(e.Arg2) {
				return equality{attr: nm, value: e.Arg2, location: ast.Location(n)}, true
			}
			if nm, ok := e.Arg2.(*ast.Name); ok && isConstant(e.Arg1) {
				return equality{attr: nm, value: e.Arg1, location: ast.Location(n)}, true
			}
		}
		if e.Op == ast.OpRange {
			specs := ast.Disjuncts(e.Arg2)
			if len(specs) == 1 && specs[0].Variant == ast.VarEQNA {
				if nm, ok := e.Arg1.(*ast.Name); ok {
					return equality{attr: nm, value: specs[0].Lo, location: ast.Location(n)}, true
				}
			}
		}
	}
	return equality{}, false
}

func isConstant(n ast.Node) bool {
	switch n.(type) {
	case *ast.Value, *ast.HostVar:
		return true
	}
	return false
}

// propagateEqualities substitutes const for attr in every other
// conjunct at the same location (spec.md §4.3.1). Two-spec join
// predicates are never removed: a TRANSITIVE-flagged copy is appended
// instead, so the join edge remains available to the planner.
func (c *Context) propagateEqualities(conjuncts []ast.Node) ([]ast.Node, bool) {
	changed := false
	eqs := findEqualities(conjuncts)
	if len(eqs) == 0 {
		return conjuncts, false
	}
	out := make([]ast.Node, len(conjuncts))
	copy(out, conjuncts)
	var extra []ast.Node
	for _, eq := range eqs {
		for i, conj := range out {
			if conj == nil || ast.Location(conj) != eq.location {
				continue
			}
			if sameEqualityNode(conj, eq) {
				continue
			}
			if e, ok := conj.(*ast.Expr); ok && e.Flags.Has(ast.FlagTransitive) {
				continue
			}
			var cp ast.Node
			if isTwoSpecJoin(conj) {
				cp = ast.CopyOrChain(conj)
			}
			replaced, did := substituteAttr(conj, eq, c)
			if did {
				changed = true
				out[i] = replaced
				if cp != nil {
					markTransitive(cp)
					ast.SetLocationOf(cp, eq.location)
					extra = append(extra, cp)
				}
			}
		}
	}
	return append(out, extra...), changed
}

// propagateIntoSelectList substitutes every top-level ("location ==
// 0") WHERE equality fact into sel's SELECT list, for use-by-name
// (spec.md §4.3.1: "... and in the SELECT list for use-by-name").
// Equalities tagged with a non-zero location come from a Spec's
// lifted ON-condition and only hold for matched rows of that Spec's
// join arm, which an outer join's null-extended rows would violate if
// the SELECT list substituted them unconditionally, so those are left
// alone here.
func (c *Context) propagateIntoSelectList(sel *ast.Select) {
	var eqs []equality
	for _, eq := range findEqualities(Conjuncts(sel.Where)) {
		if eq.location == 0 {
			eqs = append(eqs, eq)
		}
	}
	if len(eqs) == 0 {
		return
	}
	for i, item := range sel.SelectList {
		cur := item
		for _, eq := range eqs {
			if replaced, did := substituteAttr(cur, eq, c); did {
				cur = replaced
			}
		}
		sel.SelectList[i] = cur
	}
}

func sameEqualityNode(n ast.Node, eq equality) bool {
	got, ok := asEquality(n)
	return ok && got.attr.SpecID == eq.attr.SpecID && got.attr.Original == eq.attr.Original
}

// isTwoSpecJoin reports whether n references attributes from two (or
// more) distinct Specs, i.e. it is a join predicate rather than a
// single-relation filter.
func isTwoSpecJoin(n ast.Node) bool {
	seen := map[int]struct{}{}
	ast.Walk(ast.VisitFunc(func(e ast.Node) bool {
		if nm, ok := e.(*ast.Name); ok {
			seen[nm.SpecID] = struct{}{}
		}
		return true
	}), n)
	return len(seen) > 1
}

func markTransitive(n ast.Node) {
	if e, ok := n.(*ast.Expr); ok {
		e.Flags |= ast.FlagTransitive
	}
}

// substituteAttr replaces every occurrence of eq.attr within n with
// eq.value, applying a CAST when the target is a parameterized type
// whose precision/scale differ (spec.md §4.3.1).
func substituteAttr(n ast.Node, eq equality, c *Context) (ast.Node, bool) {
	changed := false
	r := &attrSubstituter{eq: eq, ctx: c, changed: &changed}
	out := ast.Rewrite(r, n)
	return out, changed
}

type attrSubstituter struct {
	eq      equality
	ctx     *Context
	changed *bool
}

func (s *attrSubstituter) Walk(ast.Node) ast.Rewriter { return s }

func (s *attrSubstituter) Rewrite(n ast.Node) ast.Node {
	nm, ok := n.(*ast.Name)
	if !ok || nm.SpecID != s.eq.attr.SpecID || nm.Original != s.eq.attr.Original {
		return n
	}
	*s.changed = true
	val := s.eq.value
	if nm.Data != nil {
		if vd := valueDataType(val); vd != nil && !nm.Data.SameParameters(vd) {
			return castTo(val, nm.TypeE, nm.Data)
		}
	}
	return val
}

func valueDataType(n ast.Node) *ast.DataType {
	return n.Hdr().Data
}

// castTo wraps value in an explicit CAST(value AS T) rather than
// materializing an oversized literal (spec.md §4.3.1).
func castTo(value ast.Node, t ast.TypeEnum, dt *ast.DataType) ast.Node {
	e := ast.NewExpr(ast.OpCast, value)
	e.CastType = t
	e.Data = dt
	return e
}
