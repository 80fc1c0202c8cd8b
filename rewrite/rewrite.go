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

// Package rewrite implements the five-component query rewriter: Join
// Structuralizer, Subquery Rewriter, Predicate Normalizer, Algebraic
// Simplifier, and Post-processing, run over a typed AST (package ast)
// between the parser's output and the cost-based join planner.
package rewrite

import (
	"github.com/H2SU/cubrid-sub002/ast"
	"github.com/H2SU/cubrid-sub002/catalog"
)

// Rewrite applies the full rewrite pipeline to q in place and returns
// it. Every nested SELECT reachable from q's root — derived tables,
// set-operation arms, scalar/IN/SOME subqueries still embedded as
// operands — is rewritten bottom-up (innermost first), so that a
// subquery is already in its simplified, hoisted form by the time its
// enclosing SELECT processes it.
//
// Per-SELECT, the five components run in the dependency order spec.md
// §2 states explicitly (leaves first), which is NOT the order they
// are introduced in: Predicate Normalizer → Algebraic Simplifier →
// Subquery Rewriter + Join Structuralizer → Post-processing.
func Rewrite(q *ast.Query, schema catalog.Schema, opts Options) (*ast.Query, error) {
	c := NewContext(q, schema, opts)

	selects := collectSelectsPostOrder(q.Root)
	errs := &MultiError{}
	for _, sel := range selects {
		if err := c.rewriteSelect(sel); err != nil {
			errs.Add(err)
		}
	}
	if err := errs.AsError(); err != nil {
		return q, err
	}

	switch v := q.Root.(type) {
	case *ast.Update:
		v.Where = c.normalizeAndSimplifyOnly(v.Where)
	case *ast.Delete:
		v.Where = c.normalizeAndSimplifyOnly(v.Where)
	}
	return q, nil
}

// rewriteSelect runs the full per-SELECT pipeline: Predicate
// Normalizer, Algebraic Simplifier, Join Structuralizer + Subquery
// Rewriter, and Post-processing.
func (c *Context) rewriteSelect(sel *ast.Select) error {
	c.normalize(sel)
	c.simplifySelect(sel)

	c.classify(sel)
	c.liftOnConditions(sel)
	c.rewriteSubqueries(sel)

	// a fresh round of simplification catches ranges/equalities newly
	// exposed by subquery hoisting and ON-clause lifting.
	c.simplifySelect(sel)

	return c.postprocess(sel)
}

// normalizeAndSimplifyOnly runs the CNF/simplify passes alone, for
// UPDATE/DELETE statements whose single target Spec has no multi-way
// FROM list to classify, strengthen, or unorder (spec.md §1 lists
// UPDATE/DELETE/INSERT as statements the rewriter consumes, but the
// join-shaped components of §4.1/§4.4/§4.5 have no target without a
// FROM list).
func (c *Context) normalizeAndSimplifyOnly(where ast.Node) ast.Node {
	where = toCNF(where)
	return c.simplifyConjuncts(where)
}

// collectSelectsPostOrder returns every *ast.Select reachable from n,
// innermost (deepest) first, so that derived tables and subquery
// operands are rewritten before the SELECT that encloses them.
//
// Node.walk only descends through Arg1/Arg2/Arg3 and named struct
// fields; it never follows a conjunct's Next or a disjunct's OrNext
// link (spec.md §3: those are list links, not part of the generic
// tree). A subquery sitting three conjuncts down a WHERE chain is
// therefore invisible to a plain ast.Walk, so this collector walks
// the conjunct/disjunct lists explicitly wherever a Select can hold
// one (Where, Having, OrderByFor, Spec.OnCond/PathConjuncts), and
// falls back to ast.Walk only inside a single disjunct's expression
// tree, where Arg-based descent already reaches any embedded Select.
func collectSelectsPostOrder(n ast.Node) []*ast.Select {
	var out []*ast.Select
	var visitSelect func(sel *ast.Select)
	var visitSpec func(s *ast.Spec)
	var visitPredList func(n ast.Node)
	var visitDisjunct func(n ast.Node)
	var visitSetExpr func(se *ast.SetExpr)

	visitSetExpr = func(se *ast.SetExpr) {
		switch l := se.Left.(type) {
		case *ast.Select:
			visitSelect(l)
		case *ast.SetExpr:
			visitSetExpr(l)
		}
		switch r := se.Right.(type) {
		case *ast.Select:
			visitSelect(r)
		case *ast.SetExpr:
			visitSetExpr(r)
		}
	}

	visitDisjunct = func(n ast.Node) {
		ast.Walk(ast.VisitFunc(func(x ast.Node) bool {
			if sel, ok := x.(*ast.Select); ok {
				visitSelect(sel)
			}
			return true
		}), n)
	}

	visitPredList = func(n ast.Node) {
		for _, cj := range Conjuncts(n) {
			for _, dj := range Disjuncts(cj) {
				visitDisjunct(dj)
			}
		}
	}

	visitSpec = func(s *ast.Spec) {
		for _, p := range s.PathEntities {
			visitSpec(p)
		}
		visitPredList(s.OnCond)
		visitPredList(s.PathConjuncts)
		switch q := s.Query.(type) {
		case *ast.Select:
			visitSelect(q)
		case *ast.SetExpr:
			visitSetExpr(q)
		}
	}

	visitSelect = func(sel *ast.Select) {
		for _, f := range sel.From {
			visitSpec(f)
		}
		for _, e := range sel.SelectList {
			visitDisjunct(e)
		}
		visitPredList(sel.Where)
		visitPredList(sel.Having)
		visitPredList(sel.OrderByFor)
		out = append(out, sel)
	}

	switch v := n.(type) {
	case *ast.Select:
		visitSelect(v)
	case *ast.SetExpr:
		visitSetExpr(v)
	case *ast.Update:
		visitSpec(v.Spec)
		visitPredList(v.Where)
	case *ast.Delete:
		visitSpec(v.Spec)
		visitPredList(v.Where)
	case *ast.Insert:
		visitSpec(v.Into)
		if sel, ok := v.Source.(*ast.Select); ok {
			visitSelect(sel)
		}
	}
	return out
}
