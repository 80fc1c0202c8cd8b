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

// reduceOrderBy implements spec.md §4.5's ORDER BY reduction and
// GROUP BY merge rule.
func reduceOrderBy(sel *ast.Select) error {
	sel.OrderBy = dropLiteralOrderByItems(sel.OrderBy)

	merged, err := mergeDuplicateOrderByItems(sel.OrderBy)
	if err != nil {
		return err
	}
	sel.OrderBy = merged

	if orderByIsGroupByPrefix(sel) {
		moveOrderByNumToHaving(sel)
		sel.OrderBy = nil
	}
	return nil
}

// dropLiteralOrderByItems removes ORDER BY items whose expression is
// a bare literal constant; sorting by a constant has no effect.
func dropLiteralOrderByItems(items []*ast.SortSpec) []*ast.SortSpec {
	var out []*ast.SortSpec
	for _, it := range items {
		if _, isValue := it.Expr.(*ast.Value); isValue {
			continue
		}
		out = append(out, it)
	}
	return out
}

// mergeDuplicateOrderByItems collapses ORDER BY items naming the same
// column as an earlier item, so long as their sort directions agree;
// a direction mismatch is a query error (spec.md §4.5).
func mergeDuplicateOrderByItems(items []*ast.SortSpec) ([]*ast.SortSpec, error) {
	var out []*ast.SortSpec
	for _, it := range items {
		dup := -1
		for i, seen := range out {
			if ast.Equal(seen.Expr, it.Expr) {
				dup = i
				break
			}
		}
		if dup < 0 {
			out = append(out, it)
			continue
		}
		if out[dup].Desc != it.Desc {
			return nil, semanticErr(it, "conflicting sort directions for the same ORDER BY expression")
		}
		// identical item: drop the later duplicate.
	}
	return out, nil
}

// orderByIsGroupByPrefix reports whether sel's (already-reduced)
// ORDER BY is a prefix of its GROUP BY list and no ORDER_BY_FOR,
// DISTINCT, or HAVING clause is present — the condition under which
// the ORDER BY is redundant and may be dropped entirely.
func orderByIsGroupByPrefix(sel *ast.Select) bool {
	if len(sel.OrderBy) == 0 {
		return false
	}
	if sel.OrderByFor != nil || sel.Distinct || sel.Having != nil {
		return false
	}
	if len(sel.OrderBy) > len(sel.GroupBy) {
		return false
	}
	for i, it := range sel.OrderBy {
		if !ast.Equal(it.Expr, sel.GroupBy[i]) {
			return false
		}
	}
	return true
}

// moveOrderByNumToHaving relocates any WHERE conjunct that references
// the ORDERBY_NUM pseudo-column into HAVING, renaming the reference to
// GROUPBY_NUM: once ORDER BY is dropped as a redundant GROUP BY
// prefix, ORDERBY_NUM's row-position meaning no longer exists, but
// GROUP BY already produces groups in that same order, so the
// equivalent position is GROUPBY_NUM evaluated post-grouping (spec.md
// §4.5). reduceOrderBy only calls this when orderByIsGroupByPrefix
// holds, which requires sel.Having to be nil, so ORDERBY_NUM usage can
// only still be sitting in WHERE at this
// point; HAVING itself is freshly created from the relocated
// conjuncts.
func moveOrderByNumToHaving(sel *ast.Select) {
	var kept, moved []ast.Node
	for _, cj := range Conjuncts(sel.Where) {
		if referencesOrderByNum(cj) {
			renameOrderByNumToGroupByNum(cj)
			moved = append(moved, cj)
		} else {
			kept = append(kept, cj)
		}
	}
	if len(moved) == 0 {
		return
	}
	sel.Where = ConjoinList(kept)
	sel.Having = ConjoinList(append(Conjuncts(sel.Having), moved...))
}

func renameOrderByNumToGroupByNum(n ast.Node) {
	ast.Walk(ast.VisitFunc(func(x ast.Node) bool {
		if e, ok := x.(*ast.Expr); ok && e.Op == ast.OpOrderByNum {
			e.Op = ast.OpGroupByNum
		}
		return true
	}), n)
}

func referencesOrderByNum(n ast.Node) bool {
	if n == nil {
		return false
	}
	found := false
	ast.Walk(ast.VisitFunc(func(x ast.Node) bool {
		if found {
			return false
		}
		if e, ok := x.(*ast.Expr); ok && e.Op == ast.OpOrderByNum {
			found = true
			return false
		}
		return true
	}), n)
	return found
}
