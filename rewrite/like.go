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
	"strings"

	"github.com/H2SU/cubrid-sub002/ast"
)

// likeToRange implements spec.md §4.3.4: rewrites a sargable LIKE
// pattern into a RANGE, IS NOT NULL, or plain equality, whichever
// applies. It returns the original node unchanged (changed=false) for
// patterns it declines to rewrite.
func likeToRange(n ast.Node) (ast.Node, bool) {
	e, ok := n.(*ast.Expr)
	if !ok || e.Op != ast.OpLike {
		return n, false
	}
	pat, ok := e.Arg2.(*ast.Value)
	if !ok || pat.VKind != ast.ValString {
		return n, false
	}
	s := collapsePercent(pat.S)

	if s == "%" {
		out := ast.NewExpr(ast.OpIsNotNull, e.Arg1)
		ast.SetLocationOf(out, ast.Location(n))
		return out, true
	}

	if !strings.ContainsAny(s, "_%") {
		// pure literal, no wildcard
		if strings.HasSuffix(s, " ") {
			// spec.md §9: trailing-space literal is a documented,
			// deliberately preserved corner case; decline the rewrite.
			return n, false
		}
		out := ast.Cmp(ast.OpEQ, e.Arg1, ast.Str(s))
		ast.SetLocationOf(out, ast.Location(n))
		return out, true
	}

	if strings.HasSuffix(s, "%") && !strings.ContainsAny(s[:len(s)-1], "_%") {
		lower := s[:len(s)-1]
		upper, ok := incrementLastByte(lower)
		if !ok {
			return n, false
		}
		bs := ast.NewBetween(ast.VarGELT, ast.Str(lower), ast.Str(upper))
		out := ast.NewExpr(ast.OpRange, e.Arg1, bs)
		out.TypeE = ast.TypeBool
		ast.SetLocationOf(out, ast.Location(n))
		return out, true
	}

	return n, false
}

// collapsePercent collapses consecutive "%%" runs into a single "%"
// (spec.md §4.3.4).
func collapsePercent(s string) string {
	for strings.Contains(s, "%%") {
		s = strings.ReplaceAll(s, "%%", "%")
	}
	return s
}

// incrementLastByte increments the final byte of the prefix to
// produce an exclusive upper bound, per spec.md §4.3.4 ("the last
// byte incremented"). It fails (ok=false) if the last byte is 0xFF,
// since no byte-wise successor exists.
func incrementLastByte(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	b := []byte(s)
	if b[len(b)-1] == 0xFF {
		return "", false
	}
	b[len(b)-1]++
	return string(b), true
}
