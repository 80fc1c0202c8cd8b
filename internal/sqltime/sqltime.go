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

// Package sqltime provides the total-order comparisons the RANGE
// merge/intersect algorithm (spec.md §4.3.5) needs for DATE/DATETIME/
// TIMESTAMP boundary values. It is a deliberately small adaptation of
// the teacher's date.Time: it parses a literal's source text and
// compares the results; it does no formatting or rounding.
package sqltime

import "time"

// Time is a single comparable point used as a RANGE boundary.
type Time struct {
	t time.Time
}

// FromStdlib wraps a standard library time.Time.
func FromStdlib(t time.Time) Time { return Time{t: t} }

// Parse parses an ISO-8601-ish CUBRID date/datetime/timestamp literal.
// It tries, in order, the layouts CUBRID accepts for DATE, DATETIME,
// and TIMESTAMP literals.
func Parse(s string) (Time, bool) {
	layouts := []string{
		"2006-01-02 15:04:05.000",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return Time{t: t}, true
		}
	}
	return Time{}, false
}

func (a Time) Equal(b Time) bool  { return a.t.Equal(b.t) }
func (a Time) Before(b Time) bool { return a.t.Before(b.t) }
func (a Time) After(b Time) bool  { return a.t.After(b.t) }

// Compare returns -1, 0, or 1 following the usual comparator
// convention, used by the RANGE merge 5-valued classifier.
func (a Time) Compare(b Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// UnixSeconds returns a's position on the real line as a fractional
// count of seconds since the Unix epoch, the representation
// rewrite.numeric uses to fold DATE/DATETIME/TIMESTAMP literals into
// the same float64 boundary comparisons as numeric bounds.
func (a Time) UnixSeconds() float64 {
	return float64(a.t.Unix()) + float64(a.t.Nanosecond())/1e9
}
