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
	"math"
	"sort"

	"github.com/H2SU/cubrid-sub002/ast"
)

// intervalRelation is the 5-valued comparator of spec.md §4.3.5, used
// to decide whether two BetweenSpecs on the same attribute can be
// merged (unioned) into one.
type intervalRelation int

const (
	relLessDisjoint intervalRelation = iota
	relLessAdjacent
	relOverlap
	relGreaterAdjacent
	relGreaterDisjoint
)

// rangeFold is the RANGE construction/merge/intersection pass of
// spec.md §4.3.5. It groups conjuncts that constrain the same
// attribute at the same location, converts each into its equivalent
// disjunction of intervals, intersects those disjunctions (the
// conjuncts were ANDed together), and merges touching/overlapping
// intervals within the result. A provably-empty intersection reports
// a collapse instruction identical in shape to pairReduce's.
func rangeFold(conjuncts []ast.Node) ([]ast.Node, *collapse, bool) {
	type group struct {
		attr       *ast.Name
		location   int
		idxs       []int
		specs      []*ast.BetweenSpec
		ok         bool // false once a member can't be folded (non-numeric, etc.)
		soleOp     ast.Op
		soleNSpecs int
	}
	groups := map[string]*group{}
	var order []string
	for i, c := range conjuncts {
		if ast.OrNextOf(c) != nil {
			continue
		}
		specs, nm, ok := toRangeSpecs(c)
		if !ok {
			continue
		}
		key := attrKey(nm)
		g, seen := groups[key]
		if !seen {
			g = &group{attr: nm, location: ast.Location(c), ok: true}
			if e, isExpr := c.(*ast.Expr); isExpr {
				g.soleOp = e.Op
			}
			g.soleNSpecs = len(specs)
			groups[key] = g
			order = append(order, key)
		}
		if g.location != ast.Location(c) {
			g.ok = false
			continue
		}
		g.idxs = append(g.idxs, i)
		if g.ok {
			merged, ok := intersectSpecs(g.specs, specs)
			if !ok {
				g.ok = false
				continue
			}
			g.specs = merged
		}
	}

	out := append([]ast.Node{}, conjuncts...)
	removed := map[int]bool{}
	changed := false
	for _, key := range order {
		g := groups[key]
		if !g.ok {
			continue
		}
		// A single predicate is only worth folding into RANGE form when
		// it isn't already one (e.g. an IN-list) or merging its own
		// disjuncts would shrink it (overlapping/adjacent IN values).
		single := len(g.idxs) == 1
		if single && g.soleOp == ast.OpRange {
			continue
		}
		final := mergeSpecs(g.specs)
		if single && g.soleOp != ast.OpIn && len(final) >= g.soleNSpecs {
			continue
		}
		if len(final) == 0 {
			if g.location == 0 {
				return nil, &collapse{wholeWhere: true}, true
			}
			return nil, &collapse{location: g.location}, true
		}
		rng := ast.NewExpr(ast.OpRange, ast.Copy(g.attr), ast.Chain(final))
		rng.TypeE = ast.TypeBool
		if len(final) == 1 && !final[0].Variant.HasLower() && !final[0].Variant.HasUpper() {
			rng.Flags |= ast.FlagFullRange
		}
		ast.SetLocationOf(rng, g.location)
		out[g.idxs[0]] = rng
		for _, idx := range g.idxs[1:] {
			removed[idx] = true
		}
		changed = true
	}
	if !changed {
		return conjuncts, nil, false
	}
	var kept []ast.Node
	for i, c := range out {
		if !removed[i] {
			kept = append(kept, c)
		}
	}
	return kept, nil, true
}

// toRangeSpecs converts a single-attribute predicate into its
// equivalent disjunction of BetweenSpecs, per spec.md §4.3.5's
// enumeration of foldable predicate shapes (=, <>, <, <=, >, >=, IN,
// BETWEEN, and an already-built RANGE).
func toRangeSpecs(n ast.Node) ([]*ast.BetweenSpec, *ast.Name, bool) {
	e, ok := n.(*ast.Expr)
	if !ok {
		return nil, nil, false
	}
	switch e.Op {
	case ast.OpEQ:
		nm, val, ok := nameConst(e.Arg1, e.Arg2)
		if !ok {
			return nil, nil, false
		}
		return []*ast.BetweenSpec{ast.NewBetween(ast.VarEQNA, val, nil)}, nm, true
	case ast.OpNE:
		nm, val, ok := nameConst(e.Arg1, e.Arg2)
		if !ok {
			return nil, nil, false
		}
		return []*ast.BetweenSpec{
			ast.NewBetween(ast.VarInfLT, nil, val),
			ast.NewBetween(ast.VarGTInf, ast.Copy(val), nil),
		}, nm, true
	case ast.OpLT, ast.OpLE, ast.OpGT, ast.OpGE:
		nm, ok := e.Arg1.(*ast.Name)
		if !ok || !isConstant(e.Arg2) {
			return nil, nil, false
		}
		var v ast.Variant
		var lo, hi ast.Node
		switch e.Op {
		case ast.OpLT:
			v, hi = ast.VarInfLT, e.Arg2
		case ast.OpLE:
			v, hi = ast.VarInfLE, e.Arg2
		case ast.OpGT:
			v, lo = ast.VarGTInf, e.Arg2
		case ast.OpGE:
			v, lo = ast.VarGEInf, e.Arg2
		}
		return []*ast.BetweenSpec{ast.NewBetween(v, lo, hi)}, nm, true
	case ast.OpIn:
		nm, ok := e.Arg1.(*ast.Name)
		if !ok {
			return nil, nil, false
		}
		set, ok := e.Arg2.(*ast.Value)
		if !ok || set.VKind != ast.ValSet {
			return nil, nil, false
		}
		var specs []*ast.BetweenSpec
		for _, el := range set.Elems {
			specs = append(specs, ast.NewBetween(ast.VarEQNA, el, nil))
		}
		return specs, nm, true
	case ast.OpBetween:
		nm, ok := e.Arg1.(*ast.Name)
		if !ok {
			return nil, nil, false
		}
		return []*ast.BetweenSpec{ast.NewBetween(ast.VarGELE, e.Arg2, e.Arg3)}, nm, true
	case ast.OpRange:
		nm, ok := e.Arg1.(*ast.Name)
		if !ok {
			return nil, nil, false
		}
		return ast.Disjuncts(e.Arg2), nm, true
	}
	return nil, nil, false
}

func nameConst(a, b ast.Node) (*ast.Name, ast.Node, bool) {
	if nm, ok := a.(*ast.Name); ok && isConstant(b) {
		return nm, b, true
	}
	if nm, ok := b.(*ast.Name); ok && isConstant(a) {
		return nm, a, true
	}
	return nil, nil, false
}

// bound converts a BetweenSpec's lo/hi into floats suitable for the
// comparator, using -inf/+inf for absent bounds. ok is false when a
// present bound isn't a numeric literal, per the same numeric-only
// restriction pairReduce applies.
func bound(v ast.Node, isLower bool) (float64, bool) {
	if v == nil {
		if isLower {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	val, ok := v.(*ast.Value)
	if !ok {
		return 0, false
	}
	return numeric(val)
}

// relate computes the 5-valued relation between a and b's intervals
// (spec.md §4.3.5), assuming a's lower bound is <= b's lower bound (or
// equal); callers normalize order before calling.
func relate(aLo, aHi float64, aHiOpen bool, bLo, bHi float64, bLoOpen bool) intervalRelation {
	_ = aLo
	_ = bHi
	switch {
	case aHi < bLo:
		return relLessDisjoint
	case aHi == bLo:
		if aHiOpen && bLoOpen {
			return relLessDisjoint
		}
		return relLessAdjacent
	default:
		return relOverlap
	}
}

// mergeSpecs sorts specs by lower bound and unions any pair found
// LessAdjacent or Overlap by the comparator, producing the minimal
// disjoint cover. Non-numeric specs (e.g. string EQNA values from IN
// lists) pass through ungrouped, since the comparator only orders
// numeric literals.
func mergeSpecs(specs []*ast.BetweenSpec) []*ast.BetweenSpec {
	var numeric []*ast.BetweenSpec
	var opaque []*ast.BetweenSpec
	for _, s := range specs {
		_, lok := bound(specOpLo(s), true)
		_, hok := bound(specOpHi(s), false)
		if lok && hok {
			numeric = append(numeric, s)
		} else {
			opaque = append(opaque, s)
		}
	}
	if len(numeric) == 0 {
		return opaque
	}
	sort.Slice(numeric, func(i, j int) bool {
		li, _ := bound(specOpLo(numeric[i]), true)
		lj, _ := bound(specOpLo(numeric[j]), true)
		return li < lj
	})
	merged := []*ast.BetweenSpec{numeric[0]}
	for _, cur := range numeric[1:] {
		last := merged[len(merged)-1]
		lLo, _ := bound(specOpLo(last), true)
		lHi, _ := bound(specOpHi(last), false)
		cLo, _ := bound(specOpLo(cur), true)
		cHi, _ := bound(specOpHi(cur), false)
		rel := relate(lLo, lHi, last.Variant.UpperOpen(), cLo, cHi, cur.Variant.LowerOpen())
		if rel == relLessAdjacent || rel == relOverlap {
			merged[len(merged)-1] = unionSpec(last, cur, lLo, lHi, cLo, cHi)
			continue
		}
		merged = append(merged, cur)
	}
	return append(merged, opaque...)
}

func specOpLo(s *ast.BetweenSpec) ast.Node {
	if !s.Variant.HasLower() {
		return nil
	}
	return s.Lo
}

func specOpHi(s *ast.BetweenSpec) ast.Node {
	if !s.Variant.HasUpper() {
		return nil
	}
	if s.Variant == ast.VarEQNA {
		return s.Lo // a single point: its upper bound is its value
	}
	return s.Hi
}

// unionSpec builds the smallest interval covering both a and b,
// preferring the open/closed-ness of whichever bound is further out.
func unionSpec(a, b *ast.BetweenSpec, aLo, aHi, bLo, bHi float64) *ast.BetweenSpec {
	lo, loOpen := aLo, a.Variant.LowerOpen()
	if bLo < aLo {
		lo, loOpen = bLo, b.Variant.LowerOpen()
	}
	hi, hiOpen := aHi, a.Variant.UpperOpen()
	if bHi > aHi {
		hi, hiOpen = bHi, b.Variant.UpperOpen()
	}
	loNode := a.Lo
	if bLo < aLo {
		loNode = b.Lo
	}
	hiNode := specOpHi(a)
	if bHi > aHi {
		hiNode = specOpHi(b)
	}
	if math.IsInf(lo, -1) && math.IsInf(hi, 1) {
		return ast.NewBetween(ast.VarGEInf, nil, nil) // full range, caller tags FlagFullRange
	}
	if math.IsInf(lo, -1) {
		if hiOpen {
			return ast.NewBetween(ast.VarInfLT, nil, hiNode)
		}
		return ast.NewBetween(ast.VarInfLE, nil, hiNode)
	}
	if math.IsInf(hi, 1) {
		if loOpen {
			return ast.NewBetween(ast.VarGTInf, loNode, nil)
		}
		return ast.NewBetween(ast.VarGEInf, loNode, nil)
	}
	switch {
	case !loOpen && !hiOpen:
		return ast.NewBetween(ast.VarGELE, loNode, hiNode)
	case !loOpen && hiOpen:
		return ast.NewBetween(ast.VarGELT, loNode, hiNode)
	case loOpen && !hiOpen:
		return ast.NewBetween(ast.VarGTLE, loNode, hiNode)
	default:
		return ast.NewBetween(ast.VarGTLT, loNode, hiNode)
	}
}

// intersectSpecs computes the cartesian-product intersection of two
// disjunctions (spec.md §4.3.5: "intersect RANGE nodes across
// different conjuncts on the same attribute"), dropping pairs whose
// intervals are disjoint. A nil `existing` means "no constraint yet"
// and returns incoming unchanged. ok is false if either side contains
// a non-numeric bound the comparator can't order.
func intersectSpecs(existing, incoming []*ast.BetweenSpec) ([]*ast.BetweenSpec, bool) {
	if existing == nil {
		return incoming, true
	}
	var out []*ast.BetweenSpec
	for _, a := range existing {
		aLo, aok := bound(specOpLo(a), true)
		aHi, ahok := bound(specOpHi(a), false)
		if !aok || !ahok {
			return nil, false
		}
		for _, b := range incoming {
			bLo, bok := bound(specOpLo(b), true)
			bHi, bhok := bound(specOpHi(b), false)
			if !bok || !bhok {
				return nil, false
			}
			lo, loOpen := aLo, a.Variant.LowerOpen()
			loNode := a.Lo
			if bLo > aLo {
				lo, loOpen, loNode = bLo, b.Variant.LowerOpen(), b.Lo
			}
			hi, hiOpen := aHi, a.Variant.UpperOpen()
			hiNode := a.Hi
			if bHi < aHi {
				hi, hiOpen, hiNode = bHi, b.Variant.UpperOpen(), b.Hi
			}
			if lo > hi || (lo == hi && (loOpen || hiOpen)) {
				continue // disjoint combination, dropped per spec.md §4.3.5
			}
			out = append(out, intervalSpec(lo, loOpen, loNode, hi, hiOpen, hiNode))
		}
	}
	return out, true
}

func intervalSpec(lo float64, loOpen bool, loNode ast.Node, hi float64, hiOpen bool, hiNode ast.Node) *ast.BetweenSpec {
	switch {
	case math.IsInf(lo, -1) && math.IsInf(hi, 1):
		return ast.NewBetween(ast.VarGEInf, nil, nil)
	case math.IsInf(lo, -1):
		if hiOpen {
			return ast.NewBetween(ast.VarInfLT, nil, hiNode)
		}
		return ast.NewBetween(ast.VarInfLE, nil, hiNode)
	case math.IsInf(hi, 1):
		if loOpen {
			return ast.NewBetween(ast.VarGTInf, loNode, nil)
		}
		return ast.NewBetween(ast.VarGEInf, loNode, nil)
	case lo == hi:
		return ast.NewBetween(ast.VarEQNA, loNode, nil)
	case !loOpen && !hiOpen:
		return ast.NewBetween(ast.VarGELE, loNode, hiNode)
	case !loOpen && hiOpen:
		return ast.NewBetween(ast.VarGELT, loNode, hiNode)
	case loOpen && !hiOpen:
		return ast.NewBetween(ast.VarGTLE, loNode, hiNode)
	default:
		return ast.NewBetween(ast.VarGTLT, loNode, hiNode)
	}
}
