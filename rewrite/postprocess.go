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

// postprocess runs the five post-processing steps of spec.md §4.5, in
// the order given there: outer→inner strengthening must run before
// inner-join unordering (unordering only applies to specs that are
// already Inner, including ones just strengthened), ORDER BY reduction
// and auto-parameterization are independent of join shape, and
// ON-clause restoration must run last since every earlier step may
// still consult a conjunct's location or a spec's join type.
func (c *Context) postprocess(sel *ast.Select) error {
	strengthenOuterJoins(sel)
	unorderInnerJoins(sel)
	if err := reduceOrderBy(sel); err != nil {
		return err
	}
	c.autoParameterize(sel)
	restoreOnClauses(sel)
	return nil
}
