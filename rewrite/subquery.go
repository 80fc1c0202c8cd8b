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

// rewriteSubqueries applies the Subquery Rewriter's four hoisting
// rules (spec.md §4.4) to sel's WHERE conjuncts, to a fixed point:
// equality/IN-subquery hoisting, quantified-SOME MIN/MAX hoisting, and
// OID-equality set-constructor hoisting. Every rule requires the
// subquery's correlation level to be 0 relative to sel; correlated
// subqueries are left untouched (spec.md §4.4 "Correctness
// preconditions").
func (c *Context) rewriteSubqueries(sel *ast.Select) {
	fixedPoint(maxSimplifyIter, func() bool {
		conjuncts := Conjuncts(sel.Where)
		changed := false
		for i, cj := range conjuncts {
			if ast.OrNextOf(cj) != nil {
				continue // quantified/derived rules apply to single disjuncts only
			}
			if newSpec, newConj, ok := c.trySubqueryRule(sel, cj); ok {
				conjuncts[i] = newConj
				sel.From = append(sel.From, newSpec)
				changed = true
			}
		}
		if changed {
			sel.Where = ConjoinList(conjuncts)
		}
		return changed
	})
}

// trySubqueryRule attempts each of the four hoisting rules against a
// single WHERE conjunct, in the order spec.md §4.4 lists them.
func (c *Context) trySubqueryRule(sel *ast.Select, cj ast.Node) (*ast.Spec, ast.Node, bool) {
	e, ok := cj.(*ast.Expr)
	if !ok {
		return nil, nil, false
	}
	switch e.Op {
	case ast.OpEQ:
		if spec, conj, ok := c.hoistEqualitySubquery(sel, e); ok {
			return spec, conj, true
		}
		return c.hoistSetConstructorEquality(sel, e)
	case ast.OpIn:
		return c.hoistInSubquery(sel, e)
	case ast.OpEQSome:
		return c.hoistEqualitySubquery(sel, e)
	case ast.OpLTSome, ast.OpLESome, ast.OpGTSome, ast.OpGESome:
		return c.hoistSomeSubquery(sel, e)
	}
	return nil, nil, false
}

// hoistEqualitySubquery implements the `expr = uncorrelated-subquery`
// rule, including the mirror case where the subquery is on the left.
func (c *Context) hoistEqualitySubquery(sel *ast.Select, e *ast.Expr) (*ast.Spec, ast.Node, bool) {
	outer := outerSpecIDs(sel)
	if sub, col, ok := asHoistableSubquery(e.Arg2, outer); ok {
		return c.buildEqualityJoin(sel, e.Arg1, sub, col)
	}
	if sub, col, ok := asHoistableSubquery(e.Arg1, outer); ok {
		return c.buildEqualityJoin(sel, e.Arg2, sub, col)
	}
	return nil, nil, false
}

// hoistInSubquery implements `attr IN uncorrelated-subquery (single
// col)`: identical derived-table construction, using `=` as the join
// operator since IN against a single column is an equality test.
func (c *Context) hoistInSubquery(sel *ast.Select, e *ast.Expr) (*ast.Spec, ast.Node, bool) {
	outer := outerSpecIDs(sel)
	sub, col, ok := asHoistableSubquery(e.Arg2, outer)
	if !ok {
		return nil, nil, false
	}
	return c.buildEqualityJoin(sel, e.Arg1, sub, col)
}

// hoistSomeSubquery implements the quantified-SOME MIN/MAX rewrite:
// `attr op SOME (subquery)` becomes `attr op new_col` against a
// derived table whose select list is MIN(col) (for >, >=) or MAX(col)
// (for <, <=). `= SOME` is left for the plain equality-subquery rule's
// derived-table join (it carries no aggregate rewrite). The rewrite is
// applied even when the subquery may return no rows: MIN/MAX over an
// empty result is NULL, so the rewritten comparison is UNKNOWN and the
// row is rejected, as it is by the quantified form.
func (c *Context) hoistSomeSubquery(sel *ast.Select, e *ast.Expr) (*ast.Spec, ast.Node, bool) {
	if e.Op == ast.OpEQSome {
		return nil, nil, false
	}
	outer := outerSpecIDs(sel)
	sub, col, ok := asHoistableSubquery(e.Arg2, outer)
	if !ok {
		return nil, nil, false
	}
	if sub.Distinct || len(sub.GroupBy) > 0 {
		// already aggregated / distinct: wrap to give MIN/MAX a stable
		// column name to aggregate over (spec.md §4.4).
		sub = wrapInDerivedSelect(sub, c.gensym())
	}
	aggFn := "MAX"
	if e.Op == ast.OpGTSome || e.Op == ast.OpGESome {
		aggFn = "MIN"
	}
	aggregated := &ast.Select{
		SelectList: []ast.Node{&ast.Function{Name: aggFn, Args: []ast.Node{col}, IsAggregate: true}},
		From:       sub.From,
		Where:      sub.Where,
		GroupBy:    sub.GroupBy,
		Having:     sub.Having,
	}
	alias := c.gensym()
	outCol := "c"
	spec := &ast.Spec{
		SKind:       ast.SpecDerivedTable,
		Query:       aggregated,
		RangeVar:    alias,
		AsAttrList:  []string{outCol},
		DerivedType: ast.DerivedFromScalarAgg,
	}
	spec = c.Query.Arena.Adopt(spec)
	newCmp := ast.Cmp(plainOpFor(e.Op), e.Arg1, ast.NewName(alias, outCol, spec.ID))
	ast.SetLocationOf(newCmp, ast.Location(e))
	return spec, newCmp, true
}

// plainOpFor strips the SOME quantifier off a quantified comparison
// operator, since after hoisting the derived table carries exactly one
// aggregated row and the comparison becomes a plain scalar test.
func plainOpFor(op ast.Op) ast.Op {
	switch op {
	case ast.OpLTSome:
		return ast.OpLT
	case ast.OpLESome:
		return ast.OpLE
	case ast.OpGTSome:
		return ast.OpGT
	case ast.OpGESome:
		return ast.OpGE
	case ast.OpEQSome:
		return ast.OpEQ
	default:
		return op
	}
}

// hoistSetConstructorEquality implements `attr = const-set` (an OID
// attribute compared against a set literal): the set is hoisted into
// `TABLE({const-set}) AS d(col)`, and the comparison becomes an
// equality join against the derived table's single column.
func (c *Context) hoistSetConstructorEquality(sel *ast.Select, e *ast.Expr) (*ast.Spec, ast.Node, bool) {
	nm, set, ok := oidSetConstructor(e)
	if !ok {
		return nil, nil, false
	}
	alias := c.gensym()
	outCol := "x"
	spec := &ast.Spec{
		SKind:      ast.SpecSetExpr,
		Query:      &ast.Select{SelectList: []ast.Node{set}},
		RangeVar:   alias,
		AsAttrList: []string{outCol},
	}
	spec = c.Query.Arena.Adopt(spec)
	newCmp := ast.Cmp(ast.OpEQ, nm, ast.NewName(alias, outCol, spec.ID))
	ast.SetLocationOf(newCmp, ast.Location(e))
	return spec, newCmp, true
}

func oidSetConstructor(e *ast.Expr) (*ast.Name, ast.Node, bool) {
	if e.Op != ast.OpEQ {
		return nil, nil, false
	}
	if nm, ok := e.Arg1.(*ast.Name); ok && nm.MetaClass == ast.NameOidAttr {
		if set, ok := e.Arg2.(*ast.Value); ok && set.VKind == ast.ValSet {
			return nm, set, true
		}
	}
	if nm, ok := e.Arg2.(*ast.Name); ok && nm.MetaClass == ast.NameOidAttr {
		if set, ok := e.Arg1.(*ast.Value); ok && set.VKind == ast.ValSet {
			return nm, set, true
		}
	}
	return nil, nil, false
}

// buildEqualityJoin is shared by the equality- and IN-subquery rules:
// it adopts sub as a new derived-table Spec and returns the rewritten
// `outerExpr = d.col` comparison.
func (c *Context) buildEqualityJoin(sel *ast.Select, outerExpr ast.Node, sub *ast.Select, col ast.Node) (*ast.Spec, ast.Node, bool) {
	alias := c.gensym()
	outCol := "c"
	spec := &ast.Spec{
		SKind:       ast.SpecDerivedTable,
		Query:       sub,
		RangeVar:    alias,
		AsAttrList:  []string{outCol},
		DerivedType: ast.DerivedFromSubquery,
	}
	spec = c.Query.Arena.Adopt(spec)
	newCmp := ast.Cmp(ast.OpEQ, outerExpr, ast.NewName(alias, outCol, spec.ID))
	ast.SetLocationOf(newCmp, ast.Location(outerExpr))
	return spec, newCmp, true
}

// asHoistableSubquery reports whether n is a *ast.Select eligible for
// hoisting: single-column select list and correlation_level 0 against
// outer (spec.md §4.4 "Correctness preconditions").
func asHoistableSubquery(n ast.Node, outer map[int]bool) (*ast.Select, ast.Node, bool) {
	sub, ok := n.(*ast.Select)
	if !ok || len(sub.SelectList) != 1 {
		return nil, nil, false
	}
	if correlationLevel(sub, outer) != 0 {
		return nil, nil, false
	}
	return sub, sub.SelectList[0], true
}

// outerSpecIDs collects every Spec.ID visible in sel's own FROM list,
// used as the baseline a nested subquery's Name references are
// checked against to compute correlation level.
func outerSpecIDs(sel *ast.Select) map[int]bool {
	ids := map[int]bool{}
	var walk func(s *ast.Spec)
	walk = func(s *ast.Spec) {
		ids[s.ID] = true
		for _, p := range s.PathEntities {
			walk(p)
		}
	}
	for _, s := range sel.From {
		walk(s)
	}
	return ids
}

// correlationLevel counts distinct outer Spec IDs referenced from
// within sub that are not part of sub's own FROM list (spec.md §4.4,
// §6 "correlation_level"). A subquery is uncorrelated iff this is 0.
func correlationLevel(sub *ast.Select, outer map[int]bool) int {
	own := outerSpecIDs(sub)
	refs := map[int]bool{}
	var visit ast.VisitFunc
	visit = func(n ast.Node) bool {
		if nm, ok := n.(*ast.Name); ok {
			if !own[nm.SpecID] && outer[nm.SpecID] {
				refs[nm.SpecID] = true
			}
		}
		// ast.Walk does not follow list links; walk them here so later
		// conjuncts and disjuncts are seen too.
		for _, link := range []ast.Node{ast.Next(n), ast.OrNextOf(n)} {
			if link != nil {
				ast.Walk(visit, link)
			}
		}
		return true
	}
	ast.Walk(visit, sub)
	return len(refs)
}

// wrapInDerivedSelect wraps sub in an extra derived-table Select so a
// subsequent MIN/MAX rewrite has a stable single-column name to
// aggregate over (spec.md §4.4: "If the original subquery is a set
// operation or already aggregated, it is wrapped in an extra derived
// table first").
func wrapInDerivedSelect(sub *ast.Select, alias string) *ast.Select {
	innerSpec := &ast.Spec{
		SKind:      ast.SpecDerivedTable,
		Query:      sub,
		RangeVar:   alias,
		AsAttrList: []string{"c"},
	}
	return &ast.Select{
		SelectList: []ast.Node{ast.NewName(alias, "c", innerSpec.ID)},
		From:       []*ast.Spec{innerSpec},
	}
}
