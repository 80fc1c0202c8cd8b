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

// Package catalog defines the narrow read-only interface (spec.md §6)
// the rewriter uses to ask the database's catalog about schema facts.
// The rewriter never mutates anything through this interface and holds
// no locks of its own; it is purely a cooperative reader, mirroring
// the teacher's own narrow read-only "Index"/"Hint" schema interfaces
// in plan/pir (IterTable.Index, expr.Hint) that the optimizer consults
// without ever writing back to the catalog.
package catalog

// ClassHandle identifies a resolved class (table) in the catalog.
type ClassHandle struct {
	Name string
	OID  int
}

// Domain describes the declared SQL domain of a single attribute.
type Domain struct {
	TypeName  string
	Precision int
	Scale     int
	Nullable  bool
}

// Schema is the read-only interface the rewriter consumes. Every
// method must be safe to call concurrently with other readers, since
// the rewriter itself never serializes access to the catalog (spec.md
// §5 "Read-only external state").
type Schema interface {
	// IsSharedAttr reports whether name is a SHARED attribute, which
	// changes how equality-term propagation treats it (spec.md
	// §4.3.1: "Derived-table aliases bound to a constant column
	// propagate the underlying constant").
	IsSharedAttr(class ClassHandle, name string) bool

	// IsPartitionKey reports whether name is a partition-pruning key
	// column; such predicates are skipped by auto-parameterization
	// (spec.md §4.5).
	IsPartitionKey(class ClassHandle, name string) bool

	// ClassOf resolves a Spec's class binding to a catalog handle.
	ClassOf(specID int) (ClassHandle, bool)

	// AttributeDomain resolves the declared domain of an attribute,
	// used to decide whether a substituted literal needs an explicit
	// CAST (spec.md §4.3.1).
	AttributeDomain(class ClassHandle, name string) (Domain, bool)
}

// NopSchema is a conservative Schema that answers "unknown" to every
// question it cannot answer for free; it lets the rewriter run
// correctly (if less aggressively) against callers with no real
// catalog wired up, the same role the teacher's zero-value
// expr.Hint/plan.Index play when no real catalog is attached.
type NopSchema struct{}

func (NopSchema) IsSharedAttr(ClassHandle, string) bool                { return false }
func (NopSchema) IsPartitionKey(ClassHandle, string) bool              { return false }
func (NopSchema) ClassOf(int) (ClassHandle, bool)                      { return ClassHandle{}, false }
func (NopSchema) AttributeDomain(ClassHandle, string) (Domain, bool) { return Domain{}, false }
