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

// classify walks sel.From's path entities post-order and assigns each
// outer path Spec a meta_class in {PathInner, PathOuter,
// PathOuterWeasel}, per spec.md §4.1.
func (c *Context) classify(sel *ast.Select) {
	for _, s := range sel.From {
		c.classifySpec(sel, s)
	}
}

func (c *Context) classifySpec(sel *ast.Select, s *ast.Spec) {
	for _, child := range s.PathEntities {
		c.classifySpec(sel, child)
	}
	if len(s.PathEntities) == 0 || !s.IsOuter() {
		return
	}
	combined := combineMetaClass(s.PathEntities)
	if combined != ast.PathInner && referencesSpec(sel.Where, s.ID) {
		substituted := substituteNull(ast.CopyChain(sel.Where), s.ID)
		if foldsToFalse(substituted) {
			s.MetaClass = ast.PathInner
			return
		}
		s.MetaClass = ast.PathOuterWeasel
		return
	}
	s.MetaClass = combined
}

// combineMetaClass implements the b = combine(Ci.meta_class) rule of
// spec.md §4.1.
func combineMetaClass(children []*ast.Spec) ast.SpecMetaClass {
	sawNonOuter := false
	for _, ch := range children {
		switch ch.MetaClass {
		case ast.PathInner:
			return ast.PathInner
		case ast.PathOuter:
			// stays non-disqualifying
		default:
			sawNonOuter = true
		}
	}
	if sawNonOuter {
		return ast.PathOuterWeasel
	}
	return ast.PathOuter
}

// referencesSpec reports whether any Name in the conjunct list n
// resolves to specID.
func referencesSpec(n ast.Node, specID int) bool {
	found := false
	v := ast.VisitFunc(func(e ast.Node) bool {
		if found {
			return false
		}
		if nm, ok := e.(*ast.Name); ok && nm.SpecID == specID {
			found = true
			return false
		}
		return true
	})
	for _, cj := range Conjuncts(n) {
		for _, dj := range Disjuncts(cj) {
			ast.Walk(v, dj)
		}
	}
	return found
}

// substituteNull replaces every Name bound to specID with SQL NULL,
// implementing the "W' = substitute(WHERE, P.id, NULL)" step of
// spec.md §4.1.
func substituteNull(n ast.Node, specID int) ast.Node {
	r := &nullSubstituter{specID: specID}
	var conjuncts []ast.Node
	for _, cj := range Conjuncts(n) {
		var disjuncts []ast.Node
		for _, dj := range Disjuncts(cj) {
			disjuncts = append(disjuncts, ast.Rewrite(r, dj))
		}
		conjuncts = append(conjuncts, DisjoinList(disjuncts))
	}
	return ConjoinList(conjuncts)
}

type nullSubstituter struct{ specID int }

func (s *nullSubstituter) Walk(ast.Node) ast.Rewriter { return s }
func (s *nullSubstituter) Rewrite(n ast.Node) ast.Node {
	if nm, ok := n.(*ast.Name); ok && nm.SpecID == s.specID {
		return ast.NullValue()
	}
	return n
}

// foldsToFalse invokes the algebraic simplifier on a copy of the
// predicate list and accepts the provability check only if the result
// is the literal FALSE (spec.md §4.1: "conservative ... accepted only
// if it folds to the literal FALSE").
func foldsToFalse(n ast.Node) bool {
	c := &Context{Query: ast.NewQuery(nil), Schema: nil}
	simplified := c.simplifyConjuncts(n)
	items := Conjuncts(simplified)
	for _, it := range items {
		if ast.IsFalse(it) {
			return true
		}
	}
	return false
}

// liftOnConditions moves every Spec.OnCond in sel.From into WHERE,
// concatenated, tagging each lifted predicate's location with its
// owning Spec's id so post-processing can restore it later (spec.md
// §4.1 "lift_on_conditions", §3 "location = 0 ... location > 0 ...").
func (c *Context) liftOnConditions(sel *ast.Select) {
	var lifted []ast.Node
	var walk func(s *ast.Spec)
	walk = func(s *ast.Spec) {
		for _, child := range s.PathEntities {
			walk(child)
		}
		if s.OnCond == nil {
			return
		}
		for _, conj := range Conjuncts(s.OnCond) {
			ast.SetLocationOf(conj, s.ID)
			lifted = append(lifted, conj)
		}
		s.OnCond = nil
	}
	for _, s := range sel.From {
		walk(s)
	}
	if len(lifted) == 0 {
		return
	}
	existing := Conjuncts(sel.Where)
	sel.Where = ConjoinList(append(existing, lifted...))
}
