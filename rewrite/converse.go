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

// converse rewrites `const OP attr` into `attr OP' const` (mirror
// relation), swaps `attr OP attr` so the side referencing more
// predicates is on the left, and commutes unary minus with the
// converse, per spec.md §4.3.2. simplifyConjuncts applies it to the
// top node of each conjunct on every fixed-point iteration.
func converse(n ast.Node) (ast.Node, bool) {
	e, ok := n.(*ast.Expr)
	if !ok || !e.Op.IsComparison() {
		return n, false
	}
	changed := false

	// unary minus commutes with converse: -attr OP const -> attr OP' -const
	if neg, ok := e.Arg1.(*ast.Expr); ok && neg.Op == ast.OpNeg && isConstant(e.Arg2) {
		e.Arg1 = neg.Arg1
		e.Arg2 = negateConst(e.Arg2)
		e.Op = e.Op.Flip()
		changed = true
	}

	leftConst, rightName := isConstant(e.Arg1), isNameLike(e.Arg2)
	if leftConst && rightName {
		e.Arg1, e.Arg2 = e.Arg2, e.Arg1
		e.Op = e.Op.Flip()
		return e, true
	}
	if isNameLike(e.Arg1) && isNameLike(e.Arg2) {
		if refCount(e.Arg1) < refCount(e.Arg2) {
			e.Arg1, e.Arg2 = e.Arg2, e.Arg1
			e.Op = e.Op.Flip()
			changed = true
		}
	}
	return e, changed
}

func isNameLike(n ast.Node) bool {
	switch n.(type) {
	case *ast.Name, *ast.Dot:
		return true
	}
	return false
}

// refCount approximates the "predicate-referring attribute count" of
// spec.md §4.3.2 by counting Name leaves within n.
func refCount(n ast.Node) int {
	count := 0
	ast.Walk(ast.VisitFunc(func(e ast.Node) bool {
		if _, ok := e.(*ast.Name); ok {
			count++
		}
		return true
	}), n)
	return count
}

func negateConst(n ast.Node) ast.Node {
	v, ok := n.(*ast.Value)
	if !ok {
		return ast.NewExpr(ast.OpNeg, n)
	}
	switch v.VKind {
	case ast.ValInt:
		return ast.Int(-v.I)
	case ast.ValFloat:
		return ast.Float(-v.F)
	default:
		return ast.NewExpr(ast.OpNeg, n)
	}
}

// decomposeBetween rewrites a BETWEEN whose subject has a leading
// unary minus into a conjunction of two comparisons, per spec.md
// §4.3.2: "BETWEEN with a negated LHS decomposes to -attr >= low AND
// -attr <= high."
func decomposeBetween(n ast.Node) (ast.Node, bool) {
	e, ok := n.(*ast.Expr)
	if !ok || e.Op != ast.OpBetween {
		return n, false
	}
	neg, ok := e.Arg1.(*ast.Expr)
	if !ok || neg.Op != ast.OpNeg {
		return n, false
	}
	low := ast.Cmp(ast.OpGE, e.Arg1, e.Arg2)
	high := ast.Cmp(ast.OpLE, ast.Copy(e.Arg1), e.Arg3)
	return ast.And(low, high), true
}
