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

import "strings"

// Assignment is one "col = expr" pair of an UPDATE statement.
type Assignment struct {
	Target *Name
	Value  Node
}

// Select is a single SELECT block (the WHERE/HAVING predicate trees
// are lists of CNF conjuncts, chained via Next; see spec.md §3
// "Invariants").
type Select struct {
	Header
	SelectList []Node
	From       []*Spec
	Where      Node
	GroupBy    []Node
	Having     Node
	OrderBy    []*SortSpec
	OrderByFor Node
	Distinct   bool
}

func (s *Select) Kind() Kind   { return KindSelect }
func (s *Select) Hdr() *Header { return &s.Header }

func (s *Select) walk(v Visitor) {
	for _, e := range s.SelectList {
		Walk(v, e)
	}
	for _, f := range s.From {
		Walk(v, f)
	}
	if s.Where != nil {
		Walk(v, s.Where)
	}
	for _, g := range s.GroupBy {
		Walk(v, g)
	}
	if s.Having != nil {
		Walk(v, s.Having)
	}
	for _, o := range s.OrderBy {
		Walk(v, o)
	}
}

func (s *Select) rewrite(r Rewriter) Node {
	for i, e := range s.SelectList {
		s.SelectList[i] = Rewrite(r, e)
	}
	for i, f := range s.From {
		s.From[i] = Rewrite(r, f).(*Spec)
	}
	if s.Where != nil {
		s.Where = Rewrite(r, s.Where)
	}
	for i, g := range s.GroupBy {
		s.GroupBy[i] = Rewrite(r, g)
	}
	if s.Having != nil {
		s.Having = Rewrite(r, s.Having)
	}
	for i, o := range s.OrderBy {
		s.OrderBy[i] = Rewrite(r, o).(*SortSpec)
	}
	return s
}

func (s *Select) text(dst *strings.Builder) {
	dst.WriteString("SELECT ")
	for i, e := range s.SelectList {
		if i > 0 {
			dst.WriteString(", ")
		}
		e.text(dst)
	}
	dst.WriteString(" FROM ")
	for i, f := range s.From {
		if i > 0 {
			dst.WriteString(", ")
		}
		f.text(dst)
	}
	if s.Where != nil {
		dst.WriteString(" WHERE ")
		textConjuncts(dst, s.Where)
	}
	if len(s.GroupBy) > 0 {
		dst.WriteString(" GROUP BY ")
		for i, g := range s.GroupBy {
			if i > 0 {
				dst.WriteString(", ")
			}
			g.text(dst)
		}
	}
	if s.Having != nil {
		dst.WriteString(" HAVING ")
		textConjuncts(dst, s.Having)
	}
	if len(s.OrderBy) > 0 {
		dst.WriteString(" ORDER BY ")
		for i, o := range s.OrderBy {
			if i > 0 {
				dst.WriteString(", ")
			}
			o.text(dst)
		}
	}
}

func textConjuncts(dst *strings.Builder, n Node) {
	for cur := n; cur != nil; cur = Next(cur) {
		if cur != n {
			dst.WriteString(" AND ")
		}
		writeDisjuncts(dst, cur)
	}
}

func writeDisjuncts(dst *strings.Builder, n Node) {
	for cur := n; cur != nil; cur = OrNextOf(cur) {
		if cur != n {
			dst.WriteString(" OR ")
		}
		cur.text(dst)
	}
}

// SetOp is the kind of set operation joining two queries.
type SetOp int

const (
	OpUnion SetOp = iota
	OpDifference
	OpIntersection
)

// SetExpr represents UNION / DIFFERENCE / INTERSECTION of two queries.
type SetExpr struct {
	Header
	SetOp SetOp
	Left  Node
	Right Node
	All   bool
}

func (u *SetExpr) Kind() Kind {
	switch u.SetOp {
	case OpDifference:
		return KindDifference
	case OpIntersection:
		return KindIntersection
	default:
		return KindUnion
	}
}
func (u *SetExpr) Hdr() *Header { return &u.Header }
func (u *SetExpr) walk(v Visitor) {
	Walk(v, u.Left)
	Walk(v, u.Right)
}
func (u *SetExpr) rewrite(r Rewriter) Node {
	u.Left = Rewrite(r, u.Left)
	u.Right = Rewrite(r, u.Right)
	return u
}
func (u *SetExpr) text(dst *strings.Builder) {
	u.Left.text(dst)
	switch u.SetOp {
	case OpDifference:
		dst.WriteString(" DIFFERENCE ")
	case OpIntersection:
		dst.WriteString(" INTERSECT ")
	default:
		dst.WriteString(" UNION ")
	}
	if u.All {
		dst.WriteString("ALL ")
	}
	u.Right.text(dst)
}

// Update represents an UPDATE statement.
type Update struct {
	Header
	Spec        *Spec
	Assignments []Assignment
	Where       Node
}

func (u *Update) Kind() Kind   { return KindUpdate }
func (u *Update) Hdr() *Header { return &u.Header }
func (u *Update) walk(v Visitor) {
	Walk(v, u.Spec)
	for _, a := range u.Assignments {
		Walk(v, a.Value)
	}
	if u.Where != nil {
		Walk(v, u.Where)
	}
}
func (u *Update) rewrite(r Rewriter) Node {
	u.Spec = Rewrite(r, u.Spec).(*Spec)
	for i := range u.Assignments {
		u.Assignments[i].Value = Rewrite(r, u.Assignments[i].Value)
	}
	if u.Where != nil {
		u.Where = Rewrite(r, u.Where)
	}
	return u
}
func (u *Update) text(dst *strings.Builder) {
	dst.WriteString("UPDATE ")
	u.Spec.text(dst)
	dst.WriteString(" SET ")
	for i, a := range u.Assignments {
		if i > 0 {
			dst.WriteString(", ")
		}
		a.Target.text(dst)
		dst.WriteString(" = ")
		a.Value.text(dst)
	}
	if u.Where != nil {
		dst.WriteString(" WHERE ")
		textConjuncts(dst, u.Where)
	}
}

// Delete represents a DELETE statement.
type Delete struct {
	Header
	Spec  *Spec
	Where Node
}

func (d *Delete) Kind() Kind   { return KindDelete }
func (d *Delete) Hdr() *Header { return &d.Header }
func (d *Delete) walk(v Visitor) {
	Walk(v, d.Spec)
	if d.Where != nil {
		Walk(v, d.Where)
	}
}
func (d *Delete) rewrite(r Rewriter) Node {
	d.Spec = Rewrite(r, d.Spec).(*Spec)
	if d.Where != nil {
		d.Where = Rewrite(r, d.Where)
	}
	return d
}
func (d *Delete) text(dst *strings.Builder) {
	dst.WriteString("DELETE FROM ")
	d.Spec.text(dst)
	if d.Where != nil {
		dst.WriteString(" WHERE ")
		textConjuncts(dst, d.Where)
	}
}

// Insert represents an INSERT statement (a literal VALUES list or a
// nested SELECT).
type Insert struct {
	Header
	Into    *Spec
	Columns []string
	Source  Node // *Value (ValSet of rows) or *Select
}

func (i *Insert) Kind() Kind   { return KindInsert }
func (i *Insert) Hdr() *Header { return &i.Header }
func (i *Insert) walk(v Visitor) {
	Walk(v, i.Into)
	if i.Source != nil {
		Walk(v, i.Source)
	}
}
func (i *Insert) rewrite(r Rewriter) Node {
	i.Into = Rewrite(r, i.Into).(*Spec)
	if i.Source != nil {
		i.Source = Rewrite(r, i.Source)
	}
	return i
}
func (i *Insert) text(dst *strings.Builder) {
	dst.WriteString("INSERT INTO ")
	i.Into.text(dst)
	dst.WriteString(" VALUES ")
	if i.Source != nil {
		i.Source.text(dst)
	}
}

// Arena is an index-addressable pool of Specs, backing the dense
// Spec.ID / Name.SpecID handles named in spec.md §9 ("Cyclic
// back-references"). Growing the arena never invalidates a held ID.
type Arena struct {
	specs []*Spec
}

// NewSpec allocates a fresh Spec with a dense ID and registers it.
func (a *Arena) NewSpec() *Spec {
	s := &Spec{ID: len(a.specs)}
	a.specs = append(a.specs, s)
	return s
}

// Adopt registers an already-constructed Spec under a fresh dense ID,
// used when a pass builds a Spec value directly (e.g. a derived table)
// rather than through NewSpec.
func (a *Arena) Adopt(s *Spec) *Spec {
	s.ID = len(a.specs)
	a.specs = append(a.specs, s)
	return s
}

// SpecByID resolves a dense Spec.ID / Name.SpecID handle back to the
// owning Spec.
func (a *Arena) SpecByID(id int) *Spec {
	if id < 0 || id >= len(a.specs) {
		return nil
	}
	return a.specs[id]
}

func (a *Arena) Len() int { return len(a.specs) }

// Query is the top-level handle the rewriter operates on: the parsed
// statement root plus its owning arena and host-variable vector
// (spec.md §5 "Shared resources").
type Query struct {
	Root     Node
	Arena    *Arena
	HostVars []Node // the caller's host-variable vector; may be reallocated
}

// NewQuery wraps a parsed root node with a fresh arena.
func NewQuery(root Node) *Query {
	return &Query{Root: root, Arena: &Arena{}}
}
