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

import (
	"fmt"
	"strings"
)

// Op is the operator carried by an Expr node.
type Op int

const (
	OpInvalid Op = iota

	// logical
	OpAnd
	OpOr
	OpNot

	// comparisons
	OpEQ
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE

	// predicates that get folded into RANGE nodes (spec.md §4.3.5)
	OpBetween
	OpIn
	OpRange

	// string predicates
	OpLike

	// nullability
	OpIsNull
	OpIsNotNull

	// path traversal leaf used by object-path expressions
	OpPath

	// quantified subquery comparison markers, resolved away by the
	// subquery rewriter (spec.md §4.4)
	OpEQSome
	OpLTSome
	OpLESome
	OpGTSome
	OpGESome

	// row-number pseudocolumns; never reordered or parameterized
	OpInstNum
	OpOrderByNum
	OpGroupByNum

	// arithmetic, for completeness of operand-converse handling
	OpNeg // unary minus

	// OpCast marks an explicit CAST(value AS T) wrapper, used when
	// equality-term propagation substitutes a literal whose
	// precision/scale differ from the attribute it replaces
	// (spec.md §4.3.1).
	OpCast
)

func (o Op) String() string {
	switch o {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpNot:
		return "NOT"
	case OpEQ:
		return "="
	case OpNE:
		return "<>"
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	case OpBetween:
		return "BETWEEN"
	case OpIn:
		return "IN"
	case OpRange:
		return "RANGE"
	case OpLike:
		return "LIKE"
	case OpIsNull:
		return "IS NULL"
	case OpIsNotNull:
		return "IS NOT NULL"
	case OpPath:
		return "."
	case OpEQSome:
		return "= SOME"
	case OpLTSome:
		return "< SOME"
	case OpLESome:
		return "<= SOME"
	case OpGTSome:
		return "> SOME"
	case OpGESome:
		return ">= SOME"
	case OpInstNum:
		return "INST_NUM"
	case OpOrderByNum:
		return "ORDERBY_NUM"
	case OpGroupByNum:
		return "GROUPBY_NUM"
	case OpNeg:
		return "-"
	case OpCast:
		return "CAST"
	default:
		return "?"
	}
}

// IsComparison reports whether o is one of the six scalar comparisons.
func (o Op) IsComparison() bool {
	switch o {
	case OpEQ, OpNE, OpLT, OpLE, OpGT, OpGE:
		return true
	}
	return false
}

// Flip returns the comparison that results from swapping the two
// operands: a < b  <=>  b > a. Used by operand converse (spec.md
// §4.3.2).
func (o Op) Flip() Op {
	switch o {
	case OpLT:
		return OpGT
	case OpLE:
		return OpGE
	case OpGT:
		return OpLT
	case OpGE:
		return OpLE
	default:
		return o
	}
}

// Invert returns the logical negation of a comparison, e.g. for
// NOT-pushdown during CNF conversion.
func (o Op) Invert() Op {
	switch o {
	case OpEQ:
		return OpNE
	case OpNE:
		return OpEQ
	case OpLT:
		return OpGE
	case OpLE:
		return OpGT
	case OpGT:
		return OpLE
	case OpGE:
		return OpLT
	case OpIsNull:
		return OpIsNotNull
	case OpIsNotNull:
		return OpIsNull
	default:
		return o
	}
}

// ExprFlag is a bitmask of the simplifier's internal annotations
// (spec.md §3 "Expr").
type ExprFlag uint8

const (
	FlagTransitive ExprFlag = 1 << iota
	FlagCopyPush
	FlagEmptyRange
	FlagFullRange
	FlagOrderByNumC
)

func (f ExprFlag) Has(bit ExprFlag) bool { return f&bit != 0 }

// Expr is the generic operator node: comparisons, logical connectives,
// BETWEEN/IN/LIKE, RANGE, and unary minus all share this shape.
type Expr struct {
	Header
	Op       Op
	Arg1     Node
	Arg2     Node
	Arg3     Node // BETWEEN's upper bound, or unused
	CastType TypeEnum
	Flags    ExprFlag
}

func NewExpr(op Op, args ...Node) *Expr {
	e := &Expr{Op: op}
	if len(args) > 0 {
		e.Arg1 = args[0]
	}
	if len(args) > 1 {
		e.Arg2 = args[1]
	}
	if len(args) > 2 {
		e.Arg3 = args[2]
	}
	return e
}

func And(l, r Node) Node {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	return NewExpr(OpAnd, l, r)
}

func Or(l, r Node) Node {
	if l == nil || r == nil {
		return nil
	}
	return NewExpr(OpOr, l, r)
}

func Cmp(op Op, l, r Node) *Expr { return NewExpr(op, l, r) }

func (e *Expr) Kind() Kind   { return KindExpr }
func (e *Expr) Hdr() *Header { return &e.Header }

func (e *Expr) walk(v Visitor) {
	if e.Arg1 != nil {
		Walk(v, e.Arg1)
	}
	if e.Arg2 != nil {
		Walk(v, e.Arg2)
	}
	if e.Arg3 != nil {
		Walk(v, e.Arg3)
	}
}

func (e *Expr) rewrite(r Rewriter) Node {
	if e.Arg1 != nil {
		e.Arg1 = Rewrite(r, e.Arg1)
	}
	if e.Arg2 != nil {
		e.Arg2 = Rewrite(r, e.Arg2)
	}
	if e.Arg3 != nil {
		e.Arg3 = Rewrite(r, e.Arg3)
	}
	return e
}

func (e *Expr) text(dst *strings.Builder) {
	switch e.Op {
	case OpNot:
		dst.WriteString("NOT (")
		e.Arg1.text(dst)
		dst.WriteByte(')')
	case OpIsNull, OpIsNotNull:
		e.Arg1.text(dst)
		dst.WriteByte(' ')
		dst.WriteString(e.Op.String())
	case OpBetween:
		e.Arg1.text(dst)
		dst.WriteString(" BETWEEN ")
		e.Arg2.text(dst)
		dst.WriteString(" AND ")
		e.Arg3.text(dst)
	case OpRange:
		e.Arg1.text(dst)
		dst.WriteString(" RANGE(")
		if e.Arg2 == nil {
			dst.WriteString("<empty>")
		} else {
			e.Arg2.text(dst)
		}
		dst.WriteByte(')')
	case OpNeg:
		dst.WriteByte('-')
		e.Arg1.text(dst)
	case OpCast:
		dst.WriteString("CAST(")
		e.Arg1.text(dst)
		dst.WriteString(" AS T)")
	case OpInstNum, OpOrderByNum, OpGroupByNum:
		dst.WriteString(e.Op.String())
		dst.WriteString("()")
	default:
		dst.WriteByte('(')
		e.Arg1.text(dst)
		fmt.Fprintf(dst, " %s ", e.Op.String())
		e.Arg2.text(dst)
		dst.WriteByte(')')
	}
}

// invert produces the logical negation of e where that is a purely
// syntactic transformation (used by NOT-pushdown in CNF conversion).
func (e *Expr) invert() Node {
	switch e.Op {
	case OpAnd:
		return NewExpr(OpOr, invert(e.Arg1), invert(e.Arg2))
	case OpOr:
		return NewExpr(OpAnd, invert(e.Arg1), invert(e.Arg2))
	case OpNot:
		return e.Arg1
	default:
		if e.Op.IsComparison() || e.Op == OpIsNull || e.Op == OpIsNotNull {
			return NewExpr(e.Op.Invert(), e.Arg1, e.Arg2)
		}
		return NewExpr(OpNot, e)
	}
}

// invert is the free-function form used by CNF conversion so it can
// be applied to any Node, not just *Expr.
func invert(n Node) Node {
	type inverter interface{ invert() Node }
	if iv, ok := n.(inverter); ok {
		return iv.invert()
	}
	if b, ok := n.(*Value); ok && b.VKind == ValBool {
		return Bool(!b.B)
	}
	return NewExpr(OpNot, n)
}

// Invert is the exported form of invert, used by packages outside ast.
func Invert(n Node) Node { return invert(n) }
