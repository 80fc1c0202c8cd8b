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

// NameMetaClass classifies what a Name resolves to.
type NameMetaClass int

const (
	NameNormal NameMetaClass = iota
	NameOidAttr
	NameClass
	NameShared
	NameParameter
)

// Name is an attribute reference, resolved against a Spec.
type Name struct {
	Header
	Original  string
	Resolved  string // qualifying spec alias
	SpecID    int    // back-reference into the owning Query's spec table
	MetaClass NameMetaClass
}

func NewName(resolved, original string, specID int) *Name {
	return &Name{Resolved: resolved, Original: original, SpecID: specID}
}

func (n *Name) Kind() Kind   { return KindName }
func (n *Name) Hdr() *Header { return &n.Header }

func (n *Name) walk(v Visitor) {}

func (n *Name) rewrite(r Rewriter) Node { return n }

func (n *Name) text(dst *strings.Builder) {
	if n.Resolved != "" {
		dst.WriteString(n.Resolved)
		dst.WriteByte('.')
	}
	dst.WriteString(n.Original)
}

// Equals compares two Name nodes for structural (not pointer) equality.
func (n *Name) Equals(o Node) bool {
	on, ok := o.(*Name)
	if !ok {
		return false
	}
	return n.Resolved == on.Resolved && n.Original == on.Original
}

// IsIdentifier reports whether n is a Name bound to the given spec
// alias and attribute, used pervasively by the simplifier to test
// for "does this predicate reference attribute X."
func IsIdentifier(e Node, alias, attr string) bool {
	n, ok := e.(*Name)
	return ok && n.Resolved == alias && n.Original == attr
}
