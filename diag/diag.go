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

// Package diag renders rewrite errors and optional verbose rewrite
// trace output for a caller that embeds package rewrite in a larger
// service. The rewriter itself performs no I/O and emits no logs
// (spec.md §5); diag is the ambient glue a caller reaches for when it
// wants that located-error or trace data as structured log lines
// instead of a bare error value.
package diag

import (
	"github.com/H2SU/cubrid-sub002/ast"
	"github.com/H2SU/cubrid-sub002/rewrite"
	"go.uber.org/zap"
)

// Sink logs rewrite diagnostics through a *zap.Logger. The zero value
// is not usable; construct one with NewSink.
type Sink struct {
	log     *zap.Logger
	verbose bool
}

// NewSink wraps logger for rewrite diagnostics. When verbose is true,
// each call to Trace emits a debug log line; otherwise Trace is a no-op, matching
// the "optional verbose" wording of SPEC_FULL.md §10.2.
func NewSink(logger *zap.Logger, verbose bool) *Sink {
	return &Sink{log: logger, verbose: verbose}
}

// Report logs err at error level if it is a *rewrite.Error or a
// *rewrite.MultiError, flattening a MultiError into one log line per
// constituent error so each keeps its own category and offending
// node. Any other error is logged as-is. Report returns err unchanged
// so it can be chained: `return diag.Report(sink, rewrite.Rewrite(...))`
// reads awkwardly with the (*ast.Query, error) signature rewrite.Rewrite
// actually has, so callers typically invoke Report on the error alone.
func (s *Sink) Report(err error) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *rewrite.MultiError:
		for _, sub := range e.Errs {
			s.reportOne(sub)
		}
	default:
		s.reportOne(err)
	}
	return err
}

func (s *Sink) reportOne(err error) {
	if re, ok := err.(*rewrite.Error); ok {
		fields := []zap.Field{zap.String("category", re.Category.String())}
		if re.In != nil {
			fields = append(fields, zap.String("expr", ast.ToString(re.In)))
		}
		s.log.Error(re.Msg, fields...)
		return
	}
	s.log.Error(err.Error())
}

// Trace logs a single fixed-point pass when the sink was built with
// verbose=true, identifying the component and the iteration count so
// a caller debugging a non-terminating rule can see which pass kept
// reporting changes (fixedPoint's own maxIter cap, spec.md §5, is the
// safety net this is meant to help diagnose, not replace).
func (s *Sink) Trace(component string, iteration int, changed bool) {
	if !s.verbose {
		return
	}
	s.log.Debug("rewrite pass",
		zap.String("component", component),
		zap.Int("iteration", iteration),
		zap.Bool("changed", changed),
	)
}
