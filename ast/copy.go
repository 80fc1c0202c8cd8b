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

// Copy returns a deep copy of n, excluding its Next/OrNext links (the
// copy is always a standalone expression). The teacher encodes and
// decodes through its ion wire format to get a deep copy; this
// rewriter produces no wire artifact (spec.md §6 "No file format, no
// wire protocol"), so Copy instead walks the struct tree directly.
// Only expression nodes (Name, Value, HostVar, Expr, BetweenSpec, Dot,
// Function) are copied; any other node, such as a nested *Select, is
// returned as the same pointer.
func Copy(n Node) Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *Name:
		c := *v
		c.Header = Header{Location: v.Location, TypeE: v.TypeE, Data: v.Data}
		return &c
	case *Value:
		c := *v
		c.Header = Header{Location: v.Location, TypeE: v.TypeE, Data: v.Data}
		if v.Elems != nil {
			c.Elems = make([]Node, len(v.Elems))
			for i, e := range v.Elems {
				c.Elems[i] = Copy(e)
			}
		}
		return &c
	case *HostVar:
		c := *v
		c.Header = Header{Location: v.Location, TypeE: v.TypeE}
		return &c
	case *Expr:
		c := *v
		c.Header = Header{Location: v.Location, TypeE: v.TypeE, Data: v.Data}
		c.Arg1 = Copy(v.Arg1)
		c.Arg2 = Copy(v.Arg2)
		c.Arg3 = Copy(v.Arg3)
		return &c
	case *BetweenSpec:
		c := *v
		c.Header = Header{Location: v.Location, TypeE: v.TypeE}
		c.Lo = Copy(v.Lo)
		c.Hi = Copy(v.Hi)
		return &c
	case *Dot:
		c := *v
		c.Header = Header{Location: v.Location, TypeE: v.TypeE}
		c.Base = Copy(v.Base)
		return &c
	case *Function:
		c := *v
		c.Header = Header{Location: v.Location, TypeE: v.TypeE}
		c.Args = make([]Node, len(v.Args))
		for i, a := range v.Args {
			c.Args[i] = Copy(a)
		}
		return &c
	default:
		return n
	}
}

// CopyChain deep-copies a Next-linked conjunct list, preserving link
// structure: each conjunct is copied together with its OrNext
// disjunction chain (via CopyOrChain).
func CopyChain(n Node) Node {
	if n == nil {
		return nil
	}
	head := CopyOrChain(n)
	SetNextOf(head, CopyChain(Next(n)))
	return head
}

// CopyOrChain deep-copies a single OrNext-linked disjunction chain.
func CopyOrChain(n Node) Node {
	if n == nil {
		return nil
	}
	head := Copy(n)
	if on := OrNextOf(n); on != nil {
		SetOrNextOf(head, CopyOrChain(on))
	}
	return head
}
