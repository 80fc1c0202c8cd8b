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
	"github.com/H2SU/cubrid-sub002/ast"
	"github.com/H2SU/cubrid-sub002/internal/sqltime"
)

// collapse signals that pairReduce (or the RANGE folder) discovered a
// provably-unsatisfiable predicate and describes how the conjunct
// list must be rewritten (spec.md §4.3.3).
type collapse struct {
	wholeWhere bool // location == 0: the entire WHERE becomes FALSE
	location   int  // location > 0: drop all predicates at this location, append FALSE there
}

// pairReduce merges `A OP1 x AND A OP2 y` pairs (OP1, OP2 in {<,<=,>,>=})
// on the same attribute into a single RANGE node holding one
// between-spec, per spec.md §4.3.3.
// It returns the rewritten conjunct list and, if a pair proved
// unsatisfiable, the collapse instruction describing the fallout.
func pairReduce(conjuncts []ast.Node) ([]ast.Node, *collapse, bool) {
	changed := false
	type bound struct {
		idx      int
		op       ast.Op
		value    ast.Node
		location int
	}
	byAttr := map[string][]bound{}
	for i, c := range conjuncts {
		if ast.OrNextOf(c) != nil {
			continue
		}
		e, ok := c.(*ast.Expr)
		if !ok {
			continue
		}
		if e.Op != ast.OpLT && e.Op != ast.OpLE && e.Op != ast.OpGT && e.Op != ast.OpGE {
			continue
		}
		nm, ok := e.Arg1.(*ast.Name)
		if !ok || !isConstant(e.Arg2) {
			continue
		}
		key := attrKey(nm)
		byAttr[key] = append(byAttr[key], bound{i, e.Op, e.Arg2, ast.Location(c)})
	}
	out := append([]ast.Node{}, conjuncts...)
	removed := map[int]bool{}
	for _, bounds := range byAttr {
		for i := 0; i < len(bounds); i++ {
			for j := i + 1; j < len(bounds); j++ {
				b1, b2 := bounds[i], bounds[j]
				if removed[b1.idx] || removed[b2.idx] || b1.location != b2.location {
					continue
				}
				lo, hi, variant, ok := combineBounds(b1.op, b1.value, b2.op, b2.value)
				if !ok {
					continue
				}
				unsat, emptyOK := boundsUnsatisfiable(lo, hi, variant)
				if emptyOK && unsat {
					if b1.location == 0 {
						return nil, &collapse{wholeWhere: true}, true
					}
					return nil, &collapse{location: b1.location}, true
				}
				nm := out[b1.idx].(*ast.Expr).Arg1
				bs := ast.NewBetween(variant, lo, hi)
				rng := ast.NewExpr(ast.OpRange, nm, bs)
				rng.TypeE = ast.TypeBool
				ast.SetLocationOf(rng, b1.location)
				out[b1.idx] = rng
				removed[b2.idx] = true
				changed = true
				break // b1 now holds a merged range; it takes no second partner
			}
		}
	}
	if !changed {
		return conjuncts, nil, false
	}
	var final []ast.Node
	for i, c := range out {
		if removed[i] {
			continue
		}
		final = append(final, c)
	}
	return final, nil, true
}

func attrKey(nm *ast.Name) string {
	return nm.Resolved + "." + nm.Original
}

// combineBounds merges two single-sided comparisons into a (lo, hi,
// variant) triple if they constrain opposite directions; ok is false
// if both bounds point the same way (nothing to merge). The variant
// records strict/non-strict per bound, per spec.md §4.3.3: "the
// variant determined by strict/non-strict bounds."
func combineBounds(op1 ast.Op, v1 ast.Node, op2 ast.Op, v2 ast.Node) (lo, hi ast.Node, variant ast.Variant, ok bool) {
	isLower := func(o ast.Op) bool { return o == ast.OpGT || o == ast.OpGE }
	isUpper := func(o ast.Op) bool { return o == ast.OpLT || o == ast.OpLE }
	variantFor := func(loOp, hiOp ast.Op) ast.Variant {
		switch {
		case loOp == ast.OpGE && hiOp == ast.OpLE:
			return ast.VarGELE
		case loOp == ast.OpGE && hiOp == ast.OpLT:
			return ast.VarGELT
		case loOp == ast.OpGT && hiOp == ast.OpLE:
			return ast.VarGTLE
		default:
			return ast.VarGTLT
		}
	}
	switch {
	case isLower(op1) && isUpper(op2):
		return v1, v2, variantFor(op1, op2), true
	case isUpper(op1) && isLower(op2):
		return v2, v1, variantFor(op2, op1), true
	default:
		return nil, nil, 0, false
	}
}

// boundsUnsatisfiable performs the literal numeric check `x > y` (or
// equal with a strict variant) named in spec.md §4.3.3. It only
// evaluates literals numeric() can order (int, float, and parseable
// DATE/DATETIME/TIMESTAMP text); any other shape returns
// emptyOK=false so the caller does not treat "can't tell" as FALSE.
func boundsUnsatisfiable(lo, hi ast.Node, variant ast.Variant) (unsat bool, emptyOK bool) {
	lv, lok := lo.(*ast.Value)
	hv, hok := hi.(*ast.Value)
	if !lok || !hok {
		return false, false
	}
	lf, lok2 := numeric(lv)
	hf, hok2 := numeric(hv)
	if !lok2 || !hok2 {
		return false, false
	}
	if lf > hf {
		return true, true
	}
	if lf == hf && (variant.LowerOpen() || variant.UpperOpen()) {
		return true, true
	}
	return false, true
}

// numeric converts v into the float64 total order pairReduce and
// rangeFold's bound() compare bounds on. DATE/DATETIME/TIMESTAMP
// literals (ast.ValDate, stored as their source text in v.S) are
// parsed through internal/sqltime so a GE/LE pair over a date column
// folds into a RANGE the same way a pair over a numeric column does.
func numeric(v *ast.Value) (float64, bool) {
	switch v.VKind {
	case ast.ValInt:
		return float64(v.I), true
	case ast.ValFloat:
		return v.F, true
	case ast.ValDate:
		t, ok := sqltime.Parse(v.S)
		if !ok {
			return 0, false
		}
		return t.UnixSeconds(), true
	default:
		return 0, false
	}
}

// applyCollapse rewrites the relevant predicate list per the location
// rule of spec.md §4.3.3 (and reused by §4.3.5's EMPTY_RANGE fold):
// location==0 collapses WHERE outright; location>0 drops every
// predicate at that location and leaves a single FALSE there so
// outer-join ON-condition correctness is preserved once restored.
func applyCollapse(where ast.Node, col *collapse) ast.Node {
	if col.wholeWhere {
		return FalseList()
	}
	var kept []ast.Node
	droppedAny := false
	for _, c := range Conjuncts(where) {
		if ast.Location(c) == col.location {
			droppedAny = true
			continue
		}
		kept = append(kept, c)
	}
	if droppedAny {
		f := ast.Bool(false)
		ast.SetLocationOf(f, col.location)
		kept = append(kept, f)
	}
	return ConjoinList(kept)
}
