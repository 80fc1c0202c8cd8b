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

	"github.com/H2SU/cubrid-sub002/ast"
	"github.com/H2SU/cubrid-sub002/catalog"
)

// Options carries the caller-tunable knobs named by spec.md §4.5 and
// §6.
type Options struct {
	// AutoParameterize enables literal-to-host-variable replacement
	// for plan cache reuse.
	AutoParameterize bool
	// Cacheable reports whether the caller intends to cache the
	// resulting plan; auto-parameterization is skipped unless both
	// this and AutoParameterize are true.
	Cacheable bool
}

// Context is the per-invocation state the rewriter threads through
// every component: the owning arena, the host-variable vector, and
// the monotonic counters used for synthetic aliases and
// auto-parameter placeholders. It plays the role of the teacher's
// plan/pir.Trace (spec.md §9 "Global mutable state": "Model these as
// fields of a per-invocation RewriteContext struct").
type Context struct {
	Query   *ast.Query
	Schema  catalog.Schema
	Options Options

	aliasCounter int
	paramCounter int
}

// NewContext constructs a fresh, single-use rewrite context.
func NewContext(q *ast.Query, schema catalog.Schema, opts Options) *Context {
	if schema == nil {
		schema = catalog.NopSchema{}
	}
	return &Context{Query: q, Schema: schema, Options: opts}
}

// gensym produces a fresh derived-column / derived-table alias name,
// grounded on plan/pir/itervalue.go's gensym, which mints synthetic
// path-variable names from a pair of small integers. The counter is a
// Context field rather than a package/global, per spec.md §9.
func (c *Context) gensym() string {
	c.aliasCounter++
	return fmt.Sprintf("$rw_%d", c.aliasCounter)
}

// nextParam allocates the next host-variable placeholder index for
// auto-parameterization (spec.md §4.5) and appends the literal's
// value to the context's host-variable vector.
func (c *Context) nextParam(value ast.Node) *ast.HostVar {
	idx := len(c.Query.HostVars)
	c.Query.HostVars = append(c.Query.HostVars, value)
	c.paramCounter = idx + 1
	return &ast.HostVar{Index: idx}
}

// newSpec allocates a Spec through the query's arena so that its ID
// is dense and stable across arena growth (spec.md §9).
func (c *Context) newSpec() *ast.Spec {
	return c.Query.Arena.NewSpec()
}
