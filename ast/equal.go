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

type equaler interface {
	Equals(Node) bool
}

// Equal performs a structural (not pointer) equality comparison of
// two nodes, used by equality-term propagation, range merging, and
// idempotence tests (spec.md §8).
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if eq, ok := a.(equaler); ok {
		return eq.Equals(b)
	}
	switch av := a.(type) {
	case *Expr:
		bv, ok := b.(*Expr)
		if !ok || av.Op != bv.Op {
			return false
		}
		return Equal(av.Arg1, bv.Arg1) && Equal(av.Arg2, bv.Arg2) && Equal(av.Arg3, bv.Arg3)
	case *Dot:
		bv, ok := b.(*Dot)
		return ok && av.Attr == bv.Attr && Equal(av.Base, bv.Base)
	case *Function:
		bv, ok := b.(*Function)
		if !ok || av.Name != bv.Name || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case *BetweenSpec:
		bv, ok := b.(*BetweenSpec)
		return ok && av.Variant == bv.Variant && Equal(av.Lo, bv.Lo) && Equal(av.Hi, bv.Hi)
	}
	return false
}
