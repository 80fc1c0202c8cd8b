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

package ast

import "strings"

// Variant is the openness/boundedness classification of one element
// of a RANGE's disjunction chain (spec.md §3 "Between-spec").
type Variant int

const (
	VarEQNA  Variant = iota // single point: x = v
	VarGELE                 // [lo, hi]
	VarGELT                 // [lo, hi)
	VarGTLE                 // (lo, hi]
	VarGTLT                 // (lo, hi)
	VarGEInf                // [lo, +inf)
	VarGTInf                // (lo, +inf)
	VarInfLE                // (-inf, hi]
	VarInfLT                // (-inf, hi)
	VarAnd                  // internal marker used while folding pair-reductions
)

// BetweenSpec is one element of a RANGE node's disjunction chain. It
// is not one of the top-level AST node kinds named in spec.md §3; it
// is the rewriter-private representation of a single (lo, hi,
// variant) interval, chained via Next the way any comma-list is.
type BetweenSpec struct {
	Header
	Variant Variant
	Lo, Hi  Node // either bound may be nil depending on Variant
}

func NewBetween(v Variant, lo, hi Node) *BetweenSpec {
	return &BetweenSpec{Variant: v, Lo: lo, Hi: hi}
}

func (b *BetweenSpec) Kind() Kind   { return KindExpr }
func (b *BetweenSpec) Hdr() *Header { return &b.Header }

func (b *BetweenSpec) walk(v Visitor) {
	if b.Lo != nil {
		Walk(v, b.Lo)
	}
	if b.Hi != nil {
		Walk(v, b.Hi)
	}
}

func (b *BetweenSpec) rewrite(r Rewriter) Node {
	if b.Lo != nil {
		b.Lo = Rewrite(r, b.Lo)
	}
	if b.Hi != nil {
		b.Hi = Rewrite(r, b.Hi)
	}
	return b
}

func (b *BetweenSpec) text(dst *strings.Builder) {
	switch b.Variant {
	case VarEQNA:
		b.Lo.text(dst)
	case VarGEInf:
		dst.WriteString("[")
		b.Lo.text(dst)
		dst.WriteString(", +inf)")
	case VarGTInf:
		dst.WriteString("(")
		b.Lo.text(dst)
		dst.WriteString(", +inf)")
	case VarInfLE:
		dst.WriteString("(-inf, ")
		b.Hi.text(dst)
		dst.WriteString("]")
	case VarInfLT:
		dst.WriteString("(-inf, ")
		b.Hi.text(dst)
		dst.WriteString(")")
	default:
		if b.Variant == VarGELE || b.Variant == VarGELT {
			dst.WriteByte('[')
		} else {
			dst.WriteByte('(')
		}
		b.Lo.text(dst)
		dst.WriteString(", ")
		b.Hi.text(dst)
		if b.Variant == VarGELE || b.Variant == VarGTLE {
			dst.WriteByte(']')
		} else {
			dst.WriteByte(')')
		}
	}
}

// Disjuncts flattens a BetweenSpec chain (linked via Next) into a slice.
func Disjuncts(n Node) []*BetweenSpec {
	var out []*BetweenSpec
	for cur := n; cur != nil; cur = Next(cur) {
		bs, ok := cur.(*BetweenSpec)
		if !ok {
			break
		}
		out = append(out, bs)
	}
	return out
}

// Chain re-links a slice of BetweenSpec back into a Next-chain and
// returns the head (nil for an empty slice, i.e. the EMPTY_RANGE case).
func Chain(specs []*BetweenSpec) Node {
	if len(specs) == 0 {
		return nil
	}
	for i := 0; i < len(specs)-1; i++ {
		specs[i].Next = specs[i+1]
	}
	specs[len(specs)-1].Next = nil
	return specs[0]
}

// HasLower/HasUpper report whether a variant has a lower/upper bound
// at all; LowerOpen/UpperOpen report whether that bound is open (strict).
func (v Variant) HasLower() bool {
	switch v {
	case VarInfLE, VarInfLT:
		return false
	default:
		return true
	}
}

func (v Variant) HasUpper() bool {
	switch v {
	case VarGEInf, VarGTInf:
		return false
	default:
		return true
	}
}

func (v Variant) LowerOpen() bool {
	return v == VarGTLE || v == VarGTLT || v == VarGTInf
}

func (v Variant) UpperOpen() bool {
	return v == VarGELT || v == VarGTLT || v == VarInfLT
}
