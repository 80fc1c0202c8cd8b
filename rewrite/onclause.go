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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// restoreOnClauses implements spec.md §4.5's final pass: every WHERE
// conjunct with location > 0 is re-attached to the Spec whose id
// matches, unless that spec was strengthened from outer to inner
// during this same post-processing pass, in which case the conjunct's
// location is cleared and it stays in WHERE. Conjuncts flagged
// COPYPUSH (an internal copy whose original is still present
// elsewhere) are dropped outright.
func restoreOnClauses(sel *ast.Select) {
	specByID := make(map[int]*ast.Spec, len(sel.From))
	indexSpecs(sel.From, specByID)

	var remaining []ast.Node
	onConds := make(map[int][]ast.Node)

	for _, cj := range Conjuncts(sel.Where) {
		if e, ok := cj.(*ast.Expr); ok && e.Flags.Has(ast.FlagCopyPush) {
			continue
		}
		loc := ast.Location(cj)
		if loc == 0 {
			remaining = append(remaining, cj)
			continue
		}
		s := specByID[loc]
		if s == nil || s.Strengthened {
			ast.SetLocationOf(cj, 0)
			remaining = append(remaining, cj)
			continue
		}
		onConds[loc] = append(onConds[loc], cj)
	}

	sel.Where = ConjoinList(remaining)
	// iterate in a fixed order rather than Go's randomized map order,
	// so a rewrite run is reproducible for debugging and snapshot tests.
	ids := maps.Keys(onConds)
	slices.Sort(ids)
	for _, id := range ids {
		s := specByID[id]
		s.OnCond = ConjoinList(append(Conjuncts(s.OnCond), onConds[id]...))
	}
}

func indexSpecs(specs []*ast.Spec, out map[int]*ast.Spec) {
	for _, s := range specs {
		out[s.ID] = s
		indexSpecs(s.PathEntities, out)
	}
}
