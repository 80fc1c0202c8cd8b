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
	"fmt"
	"io"

	"github.com/H2SU/cubrid-sub002/ast"
)

// Category is the kind of a surfaced rewrite error. Only two of
// spec.md §7's three categories have a value here: category-3
// anomalies (unprovable rewrite conditions) are never returned to the
// caller; the pass that hits one simply skips its rewrite.
type Category int

const (
	// CategoryResource covers allocation/arena exhaustion.
	CategoryResource Category = iota
	// CategorySemantic covers a user-facing semantic conflict, such
	// as a sort-direction conflict or an invalid outer-join reference.
	CategorySemantic
)

func (c Category) String() string {
	switch c {
	case CategoryResource:
		return "OutOfMemory"
	case CategorySemantic:
		return "SemanticConflict"
	default:
		return "Unknown"
	}
}

// Error is a located rewrite error: it carries the offending AST node
// so a caller can print a snippet (spec.md §7 "a printable snippet of
// the offending node"), grounded on the teacher's pir.CompileError.
type Error struct {
	Category Category
	In       ast.Node
	Msg      string
}

func (e *Error) Error() string { return e.Msg }

// WriteTo writes a plaintext representation of the error, including
// the expression it occurred in.
func (e *Error) WriteTo(dst io.Writer) (int, error) {
	if e.In == nil {
		return fmt.Fprintf(dst, "%s: %s\n", e.Category, e.Msg)
	}
	return fmt.Fprintf(dst, "%s in expression:\n\t%s\n%s\n", e.Category, ast.ToString(e.In), e.Msg)
}

func errorf(cat Category, n ast.Node, f string, args ...interface{}) error {
	return &Error{Category: cat, In: n, Msg: fmt.Sprintf(f, args...)}
}

func semanticErr(n ast.Node, f string, args ...interface{}) error {
	return errorf(CategorySemantic, n, f, args...)
}

func resourceErr(n ast.Node, f string, args ...interface{}) error {
	return errorf(CategoryResource, n, f, args...)
}

// MultiError accumulates more than one semantic conflict discovered in
// a single rewrite pass (SPEC_FULL.md §12 "multi-error accumulation"),
// grounded on plan/pir/resolve.go's "%w (and %d other errors)" pattern.
type MultiError struct {
	Errs []error
}

func (m *MultiError) Error() string {
	if len(m.Errs) == 0 {
		return "no errors"
	}
	if len(m.Errs) == 1 {
		return m.Errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d other errors)", m.Errs[0].Error(), len(m.Errs)-1)
}

func (m *MultiError) Unwrap() error {
	if len(m.Errs) == 0 {
		return nil
	}
	return m.Errs[0]
}

func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errs = append(m.Errs, err)
	}
}

func (m *MultiError) AsError() error {
	if len(m.Errs) == 0 {
		return nil
	}
	return m
}
