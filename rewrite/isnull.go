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

// foldIsNull implements spec.md §4.3.6: IS NULL / IS NOT NULL folding
// against attributes already known NOT NULL from the catalog, and
// against an already-established RANGE/equality on the same attribute
// (a RANGE never contains NULL, so "attr RANGE(...) AND attr IS NULL"
// is unsatisfiable, and "... AND attr IS NOT NULL" is redundant).
func (c *Context) foldIsNull(conjuncts []ast.Node) ([]ast.Node, *collapse, bool) {
	changed := false
	rangedAttrs := map[string]bool{}
	isNullLoc := map[string]int{}
	hasIsNull := map[string]bool{}
	isNotNullLoc := map[string]int{}
	hasIsNotNull := map[string]bool{}
	for _, cj := range conjuncts {
		e, ok := cj.(*ast.Expr)
		if !ok || ast.OrNextOf(cj) != nil {
			continue
		}
		switch e.Op {
		case ast.OpRange, ast.OpEQ:
			if nm, ok := e.Arg1.(*ast.Name); ok {
				rangedAttrs[attrKey(nm)] = true
			}
		case ast.OpIsNull:
			if nm, ok := e.Arg1.(*ast.Name); ok {
				hasIsNull[attrKey(nm)] = true
				isNullLoc[attrKey(nm)] = ast.Location(cj)
			}
		case ast.OpIsNotNull:
			if nm, ok := e.Arg1.(*ast.Name); ok {
				hasIsNotNull[attrKey(nm)] = true
				isNotNullLoc[attrKey(nm)] = ast.Location(cj)
			}
		}
	}
	// a bare "attr IS NULL AND attr IS NOT NULL" (no RANGE/EQ needed)
	// is unsatisfiable on its own (spec.md §4.3.6's last sentence).
	for key := range hasIsNull {
		if !hasIsNotNull[key] || isNullLoc[key] != isNotNullLoc[key] {
			continue
		}
		if isNullLoc[key] == 0 {
			return nil, &collapse{wholeWhere: true}, true
		}
		return nil, &collapse{location: isNullLoc[key]}, true
	}

	var out []ast.Node
	for _, cj := range conjuncts {
		e, ok := cj.(*ast.Expr)
		if !ok || (e.Op != ast.OpIsNull && e.Op != ast.OpIsNotNull) {
			out = append(out, cj)
			continue
		}
		nm, ok := e.Arg1.(*ast.Name)
		if !ok {
			out = append(out, cj)
			continue
		}
		if c.Schema != nil && c.attrNotNull(nm) {
			if e.Op == ast.OpIsNull {
				if ast.Location(cj) == 0 {
					return nil, &collapse{wholeWhere: true}, true
				}
				return nil, &collapse{location: ast.Location(cj)}, true
			}
			// IS NOT NULL against a provably-NOT-NULL column is always
			// true; drop it.
			changed = true
			continue
		}
		if rangedAttrs[attrKey(nm)] {
			if e.Op == ast.OpIsNull {
				if ast.Location(cj) == 0 {
					return nil, &collapse{wholeWhere: true}, true
				}
				return nil, &collapse{location: ast.Location(cj)}, true
			}
			changed = true
			continue
		}
		out = append(out, cj)
	}
	if !changed {
		return conjuncts, nil, false
	}
	return out, nil, true
}

// attrNotNull asks the catalog whether nm's column is declared
// NOT NULL, via Schema.ClassOf/AttributeDomain. An unresolved class or
// attribute (including NopSchema's always-"unknown" answers) is
// treated conservatively as nullable.
func (c *Context) attrNotNull(nm *ast.Name) bool {
	class, ok := c.Schema.ClassOf(nm.SpecID)
	if !ok {
		return false
	}
	dom, ok := c.Schema.AttributeDomain(class, nm.Original)
	if !ok {
		return false
	}
	return !dom.Nullable
}
