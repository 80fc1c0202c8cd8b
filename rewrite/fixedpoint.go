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

// fixedPoint calls step repeatedly until it returns false (no change)
// or maxIter calls have been made. This is the same "each step
// is a fixed-point pass over its predicate list" driver named in
// spec.md §4.3, simplified from the teacher's reflection-dispatched
// fixedPointOptimizer (plan/pir/fpo.go) into a flat ordered list: this
// rewriter's rule set is the small, fixed, documented set of
// spec.md's four components rather than an open-ended generated
// matcher table, so the extra dispatch machinery buys nothing here
// (see DESIGN.md).
func fixedPoint(maxIter int, step func() bool) {
	for i := 0; i < maxIter; i++ {
		if !step() {
			return
		}
	}
}
